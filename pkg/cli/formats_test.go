package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatsCmd_ListsBuiltins(t *testing.T) {
	cmd := newFormatsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, cmd.RunE(cmd, nil))

	listing := out.String()
	assert.Contains(t, listing, "rails")
	assert.Contains(t, listing, "apache")
	assert.Contains(t, listing, "jsonl")
}

func TestFormatsCmd_DescribesFormat(t *testing.T) {
	cmd := newFormatsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, cmd.RunE(cmd, []string{"rails"}))

	detail := out.String()
	assert.Contains(t, detail, "Format: rails")
	assert.Contains(t, detail, "Line shapes:")
	assert.Contains(t, detail, "Correlation:")
	assert.Contains(t, detail, "start types")
}

func TestFormatsCmd_UnknownName(t *testing.T) {
	cmd := newFormatsCmd()
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.RunE(cmd, []string{"syslog9"})
	require.Error(t, err)
}
