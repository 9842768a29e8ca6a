package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqsift/reqsift/pkg/tracker"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const yamlConfig = `source:
  paths:
    - logs/**/*.log
format: rails
correlate:
  max_open: 64
trackers:
  - type: frequency
    title: HTTP methods
    category: method
  - type: duration
    title: Slow actions
    category: action
    value: duration
    amount: 10
report:
  width: 100
export:
  path: out/analysis.yaml
persist:
  dir: out/requests
log:
  level: debug
`

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "reqsift.yaml", yamlConfig))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"logs/**/*.log"}, cfg.Source.Paths)
	assert.Equal(t, "rails", cfg.Format)
	require.NotNil(t, cfg.Correlate)
	assert.Equal(t, 64, cfg.Correlate.MaxOpen)
	assert.Nil(t, cfg.Correlate.KeyField, "unset key_field stays nil")

	require.Len(t, cfg.Trackers, 2)
	assert.Equal(t, tracker.KindFrequency, cfg.Trackers[0].Type)
	assert.Equal(t, "method", cfg.Trackers[0].Options.Category)
	assert.Equal(t, tracker.KindDuration, cfg.Trackers[1].Type)
	assert.Equal(t, "duration", cfg.Trackers[1].Options.Value)
	assert.Equal(t, 10, cfg.Trackers[1].Options.Amount)

	assert.Equal(t, 100, cfg.Report.Width)
	assert.Equal(t, "out/analysis.yaml", cfg.Export.Path)
	assert.Equal(t, "out/requests", cfg.Persist.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_TOML(t *testing.T) {
	content := `format = "apache"

[[trackers]]
type = "frequency"

[trackers.options]
title = "Methods"
category = "method"
`
	cfg, err := Load(writeConfig(t, "reqsift.toml", content))
	require.NoError(t, err)
	assert.Equal(t, "apache", cfg.Format)
	require.Len(t, cfg.Trackers, 1)
	assert.Equal(t, "method", cfg.Trackers[0].Options.Category)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = Load(writeConfig(t, "empty.yaml", "   \n"))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = Load(writeConfig(t, "broken.yaml", "format: [unclosed"))
	assert.ErrorIs(t, err, ErrInvalidSyntax)

	_, err = Load(t.TempDir())
	assert.Error(t, err)
}

func TestValidate_CatchesStructuralMistakes(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"missing format", func(c *Config) { c.Format = "" }},
		{"no trackers", func(c *Config) { c.Trackers = nil }},
		{"unknown tracker kind", func(c *Config) { c.Trackers[0].Type = "histogram" }},
		{"negative amount", func(c *Config) { c.Trackers[0].Options.Amount = -1 }},
		{"export without path", func(c *Config) { c.Export = &ExportConfig{} }},
		{"persist without dir", func(c *Config) { c.Persist = &PersistConfig{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mut(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reqsift.yaml")
	require.NoError(t, Save(path, Default()))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, loaded.Validate())
	assert.Equal(t, "apache", loaded.Format)
	assert.Len(t, loaded.Trackers, 2)
}
