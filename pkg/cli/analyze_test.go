package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqsift/reqsift/pkg/config"
	"github.com/reqsift/reqsift/pkg/tracker"
)

func TestParseTrackerShorthand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  string
		validate func(*testing.T, config.TrackerConfig)
	}{
		{
			name:  "frequency with title and category",
			input: "type=frequency,category=method,title=HTTP methods",
			validate: func(t *testing.T, tc config.TrackerConfig) {
				assert.Equal(t, tracker.KindFrequency, tc.Type)
				assert.Equal(t, "method", tc.Options.Category)
				assert.Equal(t, "HTTP methods", tc.Options.Title)
			},
		},
		{
			name:  "type defaults to frequency",
			input: "category=status",
			validate: func(t *testing.T, tc config.TrackerConfig) {
				assert.Equal(t, tracker.KindFrequency, tc.Type)
				assert.Equal(t, "status", tc.Options.Category)
			},
		},
		{
			name:  "duration with value and amount",
			input: "type=duration,category=action,value=duration,amount=10",
			validate: func(t *testing.T, tc config.TrackerConfig) {
				assert.Equal(t, tracker.KindDuration, tc.Type)
				assert.Equal(t, "duration", tc.Options.Value)
				assert.Equal(t, 10, tc.Options.Amount)
			},
		},
		{
			name:  "filters and nils",
			input: "category=controller,if=status >= 500,unless=method == 'HEAD',line_type=completed,nils=true",
			validate: func(t *testing.T, tc config.TrackerConfig) {
				assert.Equal(t, "status >= 500", tc.Options.If)
				assert.Equal(t, "method == 'HEAD'", tc.Options.Unless)
				assert.Equal(t, "completed", tc.Options.LineType)
				assert.True(t, tc.Options.Nils)
			},
		},
		{
			name:  "all_categories pipe separated",
			input: "category=method,all_categories=GET|POST|PUT",
			validate: func(t *testing.T, tc config.TrackerConfig) {
				assert.Equal(t, []string{"GET", "POST", "PUT"}, tc.Options.AllCategories)
			},
		},
		{
			name:    "missing equals sign",
			input:   "category",
			wantErr: "not key=value",
		},
		{
			name:    "unknown key",
			input:   "categry=method",
			wantErr: "unknown key",
		},
		{
			name:    "bad amount",
			input:   "category=method,amount=lots",
			wantErr: "amount",
		},
		{
			name:    "bad nils",
			input:   "category=method,nils=perhaps",
			wantErr: "nils",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, err := parseTrackerShorthand(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validate(t, tc)
		})
	}
}

func TestBuildConfig_FlagsOverrideDefaults(t *testing.T) {
	flags := &analyzeFlags{
		format:     "rails",
		amount:     5,
		width:      100,
		exportPath: "out.json",
		persistDir: "dump",
		trackers:   []string{"type=frequency,category=action,title=Actions"},
	}

	cfg, err := buildConfig(flags, []string{"a.log", "b.log"})
	require.NoError(t, err)

	assert.Equal(t, "rails", cfg.Format)
	assert.Equal(t, []string{"a.log", "b.log"}, cfg.Source.Paths)
	assert.Equal(t, 5, cfg.Report.Amount)
	assert.Equal(t, 100, cfg.Report.Width)
	require.NotNil(t, cfg.Export)
	assert.Equal(t, "out.json", cfg.Export.Path)
	require.NotNil(t, cfg.Persist)
	assert.Equal(t, "dump", cfg.Persist.Dir)

	// Shorthand trackers replace the default set.
	require.Len(t, cfg.Trackers, 1)
	assert.Equal(t, "Actions", cfg.Trackers[0].Options.Title)
}

func TestBuildConfig_LoadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reqsift.yaml")
	content := `format: rails
trackers:
  - type: frequency
    title: Actions
    category: action
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := buildConfig(&analyzeFlags{configPath: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, "rails", cfg.Format)
	require.Len(t, cfg.Trackers, 1)
	assert.Equal(t, "action", cfg.Trackers[0].Options.Category)
}

func TestBuildConfig_MissingConfigFile(t *testing.T) {
	_, err := buildConfig(&analyzeFlags{configPath: "no/such/file.yaml"}, nil)
	assert.ErrorIs(t, err, config.ErrFileNotFound)
}
