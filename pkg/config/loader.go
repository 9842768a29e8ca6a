package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/reqsift/reqsift/pkg/tracker"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound     = errors.New("configuration file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrEmptyFile        = errors.New("configuration file is empty")
	ErrInvalidSyntax    = errors.New("invalid configuration syntax")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

// Load reads a Config from a YAML, JSON, or TOML file, detected by
// extension. Unknown extensions decode as YAML, which covers JSON too.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSyntax, path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSyntax, path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSyntax, path, err)
		}
	}
	return &cfg, nil
}

// Validate checks the decoded configuration for mistakes that would
// otherwise surface mid-run. Tracker option validation proper happens in
// each tracker's Prepare; this catches the structural issues.
func (c *Config) Validate() error {
	var problems []string

	if c.Format == "" {
		problems = append(problems, "format: required")
	}
	if len(c.Trackers) == 0 {
		problems = append(problems, "trackers: at least one tracker required")
	}
	for i, tc := range c.Trackers {
		switch tc.Type {
		case tracker.KindFrequency, tracker.KindDuration:
		case "":
			problems = append(problems, fmt.Sprintf("trackers[%d].type: required", i))
		default:
			problems = append(problems, fmt.Sprintf("trackers[%d].type: unknown kind %q", i, tc.Type))
		}
		if tc.Options.Amount < 0 {
			problems = append(problems, fmt.Sprintf("trackers[%d].amount: must be >= 0", i))
		}
	}
	if c.Correlate != nil {
		if c.Correlate.MaxOpen < 0 {
			problems = append(problems, "correlate.max_open: must be >= 0")
		}
		if c.Correlate.IdleLines < 0 {
			problems = append(problems, "correlate.idle_lines: must be >= 0")
		}
	}
	if c.Export != nil && c.Export.Path == "" {
		problems = append(problems, "export.path: required when export is set")
	}
	if c.Persist != nil && c.Persist.Dir == "" {
		problems = append(problems, "persist.dir: required when persist is set")
	}
	if c.Report.Width < 0 {
		problems = append(problems, "report.width: must be >= 0")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n  %s", ErrInvalidConfig, strings.Join(problems, "\n  "))
	}
	return nil
}

// Save writes the configuration as YAML using an atomic rename.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
