package persist

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqsift/reqsift/pkg/logline"
	"github.com/reqsift/reqsift/pkg/reqlog"
)

func completedRequest(t *testing.T, id string) *reqlog.Request {
	t.Helper()
	req := reqlog.NewRequest("", logline.New("processing", map[string]any{"method": "GET"}, 10, ""))
	require.NoError(t, req.Append(logline.New("completed", map[string]any{"status": int64(200)}, 11, "")))
	require.NoError(t, req.Complete(reqlog.CompletedByTerminal, id))
	return req
}

func readRecords(t *testing.T, path string) []record {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestJSONL_OneStreamPerLineType(t *testing.T) {
	dir := t.TempDir()
	agg, err := NewJSONL(dir)
	require.NoError(t, err)

	require.NoError(t, agg.Persist(completedRequest(t, "req-1")))
	require.NoError(t, agg.Persist(completedRequest(t, "req-2")))
	require.NoError(t, agg.Close())

	processing := readRecords(t, filepath.Join(dir, "processing.jsonl"))
	completed := readRecords(t, filepath.Join(dir, "completed.jsonl"))
	require.Len(t, processing, 2)
	require.Len(t, completed, 2)

	// Per-type sequence ids.
	assert.Equal(t, int64(1), processing[0].ID)
	assert.Equal(t, int64(2), processing[1].ID)
	assert.Equal(t, int64(1), completed[0].ID)

	// Back-reference and provenance.
	assert.Equal(t, "req-1", processing[0].RequestID)
	assert.Equal(t, "req-1", completed[0].RequestID)
	assert.Equal(t, "req-2", completed[1].RequestID)
	assert.Equal(t, 10, processing[0].LineNo)
	assert.Equal(t, 11, completed[0].LineNo)

	// Type-specific fields survive.
	assert.Equal(t, "GET", processing[0].Fields["method"])
	assert.Equal(t, float64(200), completed[0].Fields["status"])
}

func TestJSONL_PersistAfterCloseFails(t *testing.T) {
	agg, err := NewJSONL(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, agg.Close())

	assert.ErrorIs(t, agg.Persist(completedRequest(t, "req-3")), ErrClosed)
}

func TestJSONL_CloseIdempotent(t *testing.T) {
	agg, err := NewJSONL(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, agg.Persist(completedRequest(t, "req-1")))
	require.NoError(t, agg.Close())
	require.NoError(t, agg.Close())
}
