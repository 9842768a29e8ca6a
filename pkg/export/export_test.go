package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/reqsift/reqsift/pkg/tracker"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		RunID:       "01J9TESTRUNID0000000000000",
		GeneratedAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		Source:      "access.log",
		Format:      "rails",
		Requests:    3,
		Trackers: []*tracker.Snapshot{
			{
				Title: "HTTP methods",
				Kind:  tracker.KindFrequency,
				Data:  map[string]any{"GET": int64(2), "PUT": int64(1)},
			},
		},
	}
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, "json", DetectFormat("out.json"))
	assert.Equal(t, "yaml", DetectFormat("out.yml"))
	assert.Equal(t, "yaml", DetectFormat("out.yaml"))
	assert.Equal(t, "xml", DetectFormat("out.xml"))
	assert.Equal(t, "json", DetectFormat("out"))
}

func TestFormatsRegistered(t *testing.T) {
	assert.Equal(t, []string{"json", "xml", "yaml"}, Formats())
}

func TestMarshal_JSONRoundTrip(t *testing.T) {
	data, err := Marshal(sampleSnapshot(), "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "access.log", decoded["source"])

	trackers := decoded["trackers"].([]any)
	require.Len(t, trackers, 1)
	counts := trackers[0].(map[string]any)["data"].(map[string]any)
	assert.Equal(t, float64(2), counts["GET"])
}

func TestMarshal_YAML(t *testing.T) {
	data, err := Marshal(sampleSnapshot(), "yaml")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "rails", decoded["format"])
}

func TestMarshal_XMLContainsCategories(t *testing.T) {
	data, err := Marshal(sampleSnapshot(), "xml")
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `<tracker title="HTTP methods" kind="frequency">`)
	assert.Contains(t, out, `key="GET"`)
	assert.Contains(t, out, `count="2"`)
}

func TestMarshal_UnknownFormat(t *testing.T) {
	_, err := Marshal(sampleSnapshot(), "msgpack")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWriteFile_DetectsFromExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.yaml")
	require.NoError(t, WriteFile(path, sampleSnapshot(), ""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "01J9TESTRUNID0000000000000", decoded["run_id"])
}
