package logging

import (
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},

		// Config files arrive in whatever casing the user typed.
		{"DEBUG", LevelDebug},
		{"Warn", LevelWarn},
		{"eRRor", LevelError},

		// Empty and unrecognized fall back to info.
		{"", LevelInfo},
		{"trace", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{"", FormatText},
		{"logfmt", FormatText}, // unrecognized falls back to text
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew_WritesToConfiguredOutput(t *testing.T) {
	var buf strings.Builder
	logger := New(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf})
	logger.Warn("dropping uncorrelatable entry", "lineno", 42)

	out := buf.String()
	if !strings.Contains(out, `"lineno":42`) {
		t.Errorf("JSON handler did not encode attributes: %s", out)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf strings.Builder
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: &buf})
	logger.Debug("skipped line diagnostic")
	logger.Info("run summary")

	if buf.Len() != 0 {
		t.Errorf("messages below the configured level leaked: %s", buf.String())
	}
}

func TestNop_Discards(t *testing.T) {
	// Must not panic and must not write anywhere observable.
	Nop().Error("ignored")
}
