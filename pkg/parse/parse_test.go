package parse

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqsift/reqsift/pkg/logformat"
	"github.com/reqsift/reqsift/pkg/logging"
	"github.com/reqsift/reqsift/pkg/logline"
)

const railsSample = `Processing PeopleController#show (for 10.0.0.1 at 2008-08-14 21:16:30) [GET]
garbage line that matches nothing
Completed in 0.21665 (4 reqs/sec) | Rendering: 0.00926 (4%) | DB: 0.00082 (0%) | 200 OK [http://example.com/people/1]
`

func TestStream_CountsAndSkips(t *testing.T) {
	f, err := logformat.Get("rails")
	require.NoError(t, err)

	p := New(f, logging.Nop())
	var entries []*logline.Entry
	stats, err := p.Stream(context.Background(), strings.NewReader(railsSample), func(e *logline.Entry) error {
		entries = append(entries, e)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Lines)
	assert.Equal(t, 2, stats.Parsed)
	assert.Equal(t, 1, stats.Skipped)
	require.Len(t, entries, 2)
	assert.Equal(t, "processing", entries[0].Type())
	assert.Equal(t, 1, entries[0].LineNo())
	assert.Equal(t, "completed", entries[1].Type())
	assert.Equal(t, 3, entries[1].LineNo(), "line numbers count skipped lines too")
}

func TestStream_BlankLinesSkipped(t *testing.T) {
	f, err := logformat.Get("jsonl")
	require.NoError(t, err)

	p := New(f, logging.Nop())
	stats, err := p.Stream(context.Background(), strings.NewReader("\n\n{\"a\":1}\n"), func(*logline.Entry) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Parsed)
	assert.Equal(t, 2, stats.Skipped)
}

func TestStream_EmitErrorAborts(t *testing.T) {
	f, err := logformat.Get("jsonl")
	require.NoError(t, err)

	boom := errors.New("tracker blew up")
	p := New(f, logging.Nop())
	_, err = p.Stream(context.Background(), strings.NewReader("{\"a\":1}\n{\"a\":2}\n"), func(*logline.Entry) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestStream_OversizedLineSkipped(t *testing.T) {
	f, err := logformat.Get("apache")
	require.NoError(t, err)

	oversized := strings.Repeat("x", maxLineBytes+10)
	valid := `127.0.0.1 - - [10/Oct/2000:13:55:36 -0700] "GET /index.html HTTP/1.0" 200 2326`
	input := oversized + "\n" + valid + "\n"

	p := New(f, logging.Nop())
	var entries []*logline.Entry
	stats, err := p.Stream(context.Background(), strings.NewReader(input), func(e *logline.Entry) error {
		entries = append(entries, e)
		return nil
	})
	require.NoError(t, err, "an oversized line must not abort the pass")

	assert.Equal(t, 2, stats.Lines)
	assert.Equal(t, 1, stats.Parsed)
	assert.Equal(t, 1, stats.Skipped)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].LineNo(), "the oversized line still counts toward line numbers")
}

func TestStream_OversizedFinalLine(t *testing.T) {
	f, err := logformat.Get("jsonl")
	require.NoError(t, err)

	input := "{\"a\":1}\n" + strings.Repeat("y", maxLineBytes+10)

	p := New(f, logging.Nop())
	stats, err := p.Stream(context.Background(), strings.NewReader(input), func(*logline.Entry) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Parsed)
	assert.Equal(t, 1, stats.Skipped)
}

func TestStream_ContextCancellation(t *testing.T) {
	f, err := logformat.Get("jsonl")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(f, logging.Nop())
	_, err = p.Stream(ctx, strings.NewReader("{\"a\":1}\n"), func(*logline.Entry) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
