package config

import "github.com/reqsift/reqsift/pkg/tracker"

// Config is the full configuration for one analysis run.
type Config struct {
	// Source selects the input.
	Source SourceConfig `yaml:"source" json:"source" toml:"source"`

	// Format is a built-in format name or a path to a format file.
	Format string `yaml:"format" json:"format" toml:"format"`

	// Correlate overrides the format's correlation declaration. Only set
	// fields take effect.
	Correlate *CorrelateConfig `yaml:"correlate,omitempty" json:"correlate,omitempty" toml:"correlate"`

	// Trackers configures the aggregators for the run.
	Trackers []TrackerConfig `yaml:"trackers" json:"trackers" toml:"trackers"`

	// Report controls terminal report rendering.
	Report ReportConfig `yaml:"report,omitempty" json:"report,omitempty" toml:"report"`

	// Export writes collected tracker state after the run.
	Export *ExportConfig `yaml:"export,omitempty" json:"export,omitempty" toml:"export"`

	// Persist stores completed requests while the run streams.
	Persist *PersistConfig `yaml:"persist,omitempty" json:"persist,omitempty" toml:"persist"`

	// Log configures diagnostics.
	Log LogConfig `yaml:"log,omitempty" json:"log,omitempty" toml:"log"`
}

// SourceConfig names the input files. Paths accept doublestar globs; an
// empty list means stdin.
type SourceConfig struct {
	Paths []string `yaml:"paths,omitempty" json:"paths,omitempty" toml:"paths"`
}

// CorrelateConfig mirrors a format's correlation declaration for per-run
// override. Pointer fields distinguish "unset" from zero values.
type CorrelateConfig struct {
	KeyField     *string  `yaml:"key_field,omitempty" json:"key_field,omitempty" toml:"key_field"`
	StartTypes   []string `yaml:"start_types,omitempty" json:"start_types,omitempty" toml:"start_types"`
	TerminalType *string  `yaml:"terminal_type,omitempty" json:"terminal_type,omitempty" toml:"terminal_type"`
	MaxOpen      int      `yaml:"max_open,omitempty" json:"max_open,omitempty" toml:"max_open"`
	IdleLines    int      `yaml:"idle_lines,omitempty" json:"idle_lines,omitempty" toml:"idle_lines"`
}

// TrackerConfig selects a tracker variant and its options.
type TrackerConfig struct {
	// Type is the tracker kind: "frequency" or "duration".
	Type string `yaml:"type" json:"type" toml:"type"`

	// Options carries the kind-specific tracker options.
	Options tracker.Options `yaml:",inline" json:"options" toml:"options"`
}

// ReportConfig controls the terminal renderer.
type ReportConfig struct {
	// Width is the table width in columns. Zero means 80.
	Width int `yaml:"width,omitempty" json:"width,omitempty" toml:"width"`

	// Color enables styled output.
	Color bool `yaml:"color,omitempty" json:"color,omitempty" toml:"color"`

	// Amount is a default display truncation applied to trackers that set
	// none themselves.
	Amount int `yaml:"amount,omitempty" json:"amount,omitempty" toml:"amount"`
}

// ExportConfig names the export target.
type ExportConfig struct {
	// Path is the output file. The format falls back to its extension.
	Path string `yaml:"path" json:"path" toml:"path"`

	// Format overrides extension detection: json, yaml, or xml.
	Format string `yaml:"format,omitempty" json:"format,omitempty" toml:"format"`
}

// PersistConfig names the persistence target directory.
type PersistConfig struct {
	Dir string `yaml:"dir" json:"dir" toml:"dir"`
}

// LogConfig configures diagnostics output.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `yaml:"level,omitempty" json:"level,omitempty" toml:"level"`

	// Format is text or json.
	Format string `yaml:"format,omitempty" json:"format,omitempty" toml:"format"`
}

// Default returns the zero-config run: stdin, apache format, one frequency
// tracker over HTTP methods.
func Default() *Config {
	return &Config{
		Format: "apache",
		Report: ReportConfig{Color: true},
		Trackers: []TrackerConfig{
			{
				Type: tracker.KindFrequency,
				Options: tracker.Options{
					Title:    "HTTP methods",
					Category: "method",
				},
			},
			{
				Type: tracker.KindFrequency,
				Options: tracker.Options{
					Title:    "Status codes",
					Category: "status",
				},
			},
		},
	}
}
