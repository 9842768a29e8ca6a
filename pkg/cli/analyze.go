package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reqsift/reqsift/pkg/config"
	"github.com/reqsift/reqsift/pkg/engine"
	"github.com/reqsift/reqsift/pkg/export"
	"github.com/reqsift/reqsift/pkg/report"
	"github.com/reqsift/reqsift/pkg/tracker"
)

type analyzeFlags struct {
	configPath   string
	format       string
	trackers     []string
	amount       int
	width        int
	exportPath   string
	exportFormat string
	persistDir   string
	dump         bool
}

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
}

func newAnalyzeCmd() *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Analyze request logs and report tracker findings",
		Long: `Analyze parses the given log files (or stdin when none are given),
correlates the lines into requests, and renders one report section per
configured tracker.

Trackers come from the configuration file, or from repeated --tracker
flags using a key=value shorthand:

  reqsift analyze --format apache --tracker 'type=frequency,category=method,title=HTTP methods' access.log
  reqsift analyze -f rails --tracker 'type=duration,category=action,value=duration,amount=10' production.log
  cat access.log | reqsift analyze -f apache`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, &flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file (yaml, json, or toml)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Log format name or format file path")
	cmd.Flags().StringArrayVarP(&flags.trackers, "tracker", "t", nil, "Tracker shorthand (repeatable): type=frequency,category=...,title=...")
	cmd.Flags().IntVar(&flags.amount, "amount", 0, "Truncate report tables to this many rows")
	cmd.Flags().IntVar(&flags.width, "width", 0, "Report table width in columns")
	cmd.Flags().StringVar(&flags.exportPath, "export", "", "Write collected tracker state to this file")
	cmd.Flags().StringVar(&flags.exportFormat, "export-format", "", "Export format (json, yaml, xml); default from extension")
	cmd.Flags().StringVar(&flags.persistDir, "persist-dir", "", "Persist completed requests as JSONL under this directory")
	cmd.Flags().BoolVar(&flags.dump, "dump", false, "Print the export snapshot to stdout after the reports")

	return cmd
}

func runAnalyze(cmd *cobra.Command, flags *analyzeFlags, args []string) error {
	cfg, err := buildConfig(flags, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	sink := report.NewTerminal(os.Stdout,
		report.WithWidth(cfg.Report.Width),
		report.WithColor(cfg.Report.Color && !noColor))

	eng := engine.New(cfg, sink, newLogger())
	result, err := eng.Run(cmd.Context())
	if err != nil {
		return err
	}

	if flags.dump {
		data, err := export.Marshal(result.Snapshot, "json")
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, string(data))
	}
	return nil
}

// buildConfig layers command line flags over the configuration file, or
// over the defaults when no file is given.
func buildConfig(flags *analyzeFlags, args []string) (*config.Config, error) {
	var cfg *config.Config
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if len(args) > 0 {
		cfg.Source.Paths = args
	}
	if flags.format != "" {
		cfg.Format = flags.format
	}
	if flags.width > 0 {
		cfg.Report.Width = flags.width
	}
	if flags.amount > 0 {
		cfg.Report.Amount = flags.amount
	}
	if flags.exportPath != "" {
		cfg.Export = &config.ExportConfig{Path: flags.exportPath, Format: flags.exportFormat}
	}
	if flags.persistDir != "" {
		cfg.Persist = &config.PersistConfig{Dir: flags.persistDir}
	}

	if len(flags.trackers) > 0 {
		// Command line trackers replace the configured set entirely.
		cfg.Trackers = nil
		for _, shorthand := range flags.trackers {
			tc, err := parseTrackerShorthand(shorthand)
			if err != nil {
				return nil, err
			}
			cfg.Trackers = append(cfg.Trackers, tc)
		}
	}
	return cfg, nil
}

// parseTrackerShorthand parses the --tracker key=value list. The type key
// selects the variant; the rest map onto tracker options.
func parseTrackerShorthand(s string) (config.TrackerConfig, error) {
	tc := config.TrackerConfig{Type: tracker.KindFrequency}

	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return tc, fmt.Errorf("tracker shorthand %q: %q is not key=value", s, pair)
		}
		switch key {
		case "type":
			tc.Type = value
		case "title":
			tc.Options.Title = value
		case "category":
			tc.Options.Category = value
		case "if":
			tc.Options.If = value
		case "unless":
			tc.Options.Unless = value
		case "line_type":
			tc.Options.LineType = value
		case "value":
			tc.Options.Value = value
		case "nils":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return tc, fmt.Errorf("tracker shorthand %q: nils: %w", s, err)
			}
			tc.Options.Nils = b
		case "amount":
			n, err := strconv.Atoi(value)
			if err != nil {
				return tc, fmt.Errorf("tracker shorthand %q: amount: %w", s, err)
			}
			tc.Options.Amount = n
		case "all_categories":
			tc.Options.AllCategories = strings.Split(value, "|")
		default:
			return tc, fmt.Errorf("tracker shorthand %q: unknown key %q", s, key)
		}
	}
	return tc, nil
}
