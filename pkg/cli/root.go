package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/reqsift/reqsift/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	logLevel  string
	logFormat string
	noColor   bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reqsift",
	Short: "reqsift analyzes textual request logs",
	Long: `reqsift reconstructs logical requests from request log lines, feeds them
through configurable statistical trackers, and renders the aggregated
findings as reports.

Built-in formats cover Rails production logs, Apache/nginx combined access
logs, and JSON lines; custom formats load from YAML files. Trackers are
configured in reqsift.yaml or directly on the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Diagnostic log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable styled report output")
}

// newLogger builds the diagnostics logger from the persistent flags.
func newLogger() *slog.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(logLevel),
		Format: logging.ParseFormat(logFormat),
	})
}
