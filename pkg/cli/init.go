package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/reqsift/reqsift/pkg/config"
	"github.com/reqsift/reqsift/pkg/logformat"
	"github.com/reqsift/reqsift/pkg/tracker"
)

func init() {
	rootCmd.AddCommand(newInitCmd())
}

func newInitCmd() *cobra.Command {
	var (
		output   string
		defaults bool
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Long: `Init writes a reqsift configuration file. By default it walks through a
short interactive form asking for the log format and a first tracker;
--defaults skips the form and writes the stock apache configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if _, err := os.Stat(output); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", output)
				}
			}

			cfg := config.Default()
			if !defaults {
				if err := configForm(cfg); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(output, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "reqsift.yaml", "Configuration file to write")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Skip the form and write the default configuration")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

// configForm fills cfg from an interactive form.
func configForm(cfg *config.Config) error {
	formatOptions := make([]huh.Option[string], 0, len(logformat.Names()))
	for _, name := range logformat.Names() {
		formatOptions = append(formatOptions, huh.NewOption(name, name))
	}

	var (
		formFormat   = cfg.Format
		formTitle    = "HTTP methods"
		formCategory = "method"
		formKind     = tracker.KindFrequency
		formAmount   = ""
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which log format do your files use?").
				Options(formatOptions...).
				Value(&formFormat),
			huh.NewSelect[string]().
				Title("What should the first tracker aggregate?").
				Options(
					huh.NewOption("Frequencies (how often each category occurs)", tracker.KindFrequency),
					huh.NewOption("Durations (time spent per category)", tracker.KindDuration),
				).
				Value(&formKind),
			huh.NewInput().
				Title("Report title for the tracker").
				Value(&formTitle).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("title is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Category expression (a field name, or any expression over the request fields)").
				Placeholder("method").
				Value(&formCategory).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("category is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Truncate the report to how many rows? (empty for all)").
				Value(&formAmount).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if _, err := strconv.Atoi(s); err != nil {
						return errors.New("enter a number or leave empty")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Format = formFormat
	tc := config.TrackerConfig{
		Type: formKind,
		Options: tracker.Options{
			Title:    formTitle,
			Category: formCategory,
		},
	}
	if formAmount != "" {
		tc.Options.Amount, _ = strconv.Atoi(formAmount)
	}
	if formKind == tracker.KindDuration {
		tc.Options.Value = "duration"
	}
	cfg.Trackers = []config.TrackerConfig{tc}
	return nil
}
