package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reqsift/reqsift/pkg/logformat"
)

func init() {
	rootCmd.AddCommand(newFormatsCmd())
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats [name]",
		Short: "List log formats or describe one in detail",
		Long: `Without arguments, formats lists the built-in log formats. With a name
or a format file path it prints the format's line shapes and correlation
declaration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listFormats(cmd)
			}
			return describeFormat(cmd, args[0])
		},
	}
}

func listFormats(cmd *cobra.Command) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDESCRIPTION")
	for _, name := range logformat.Names() {
		f, err := logformat.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\n", f.Name, f.Description)
	}
	return tw.Flush()
}

func describeFormat(cmd *cobra.Command, name string) error {
	f, err := logformat.Resolve(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Format: %s\n", f.Name)
	if f.Description != "" {
		fmt.Fprintf(out, "  %s\n", f.Description)
	}

	if f.JSON != nil {
		fmt.Fprintln(out, "\nJSON lines:")
		switch {
		case f.JSON.TypePath != "":
			fmt.Fprintf(out, "  line type from %s\n", f.JSON.TypePath)
		case f.JSON.Type != "":
			fmt.Fprintf(out, "  line type %q\n", f.JSON.Type)
		}
		for _, field := range f.JSON.Fields {
			kind := field.Kind
			if kind == "" {
				kind = logformat.KindString
			}
			fmt.Fprintf(out, "  %-12s %-8s %s\n", field.Name, kind, field.Path)
		}
		if len(f.JSON.Fields) == 0 {
			fmt.Fprintln(out, "  every top-level member becomes a field")
		}
	}

	if len(f.Lines) > 0 {
		fmt.Fprintln(out, "\nLine shapes:")
		for _, def := range f.Lines {
			fmt.Fprintf(out, "  %-12s %s\n", def.Type, def.Pattern)
			if len(def.Kinds) > 0 {
				names := make([]string, 0, len(def.Kinds))
				for n := range def.Kinds {
					names = append(names, n)
				}
				sort.Strings(names)
				pairs := make([]string, 0, len(names))
				for _, n := range names {
					pairs = append(pairs, fmt.Sprintf("%s:%s", n, def.Kinds[n]))
				}
				fmt.Fprintf(out, "  %-12s %s\n", "", strings.Join(pairs, " "))
			}
		}
	}

	fmt.Fprintln(out, "\nCorrelation:")
	c := f.Correlate
	if c.KeyField != "" {
		fmt.Fprintf(out, "  key field    %s\n", c.KeyField)
	} else {
		fmt.Fprintln(out, "  sequential (lines attach to the open request)")
	}
	if len(c.StartTypes) > 0 {
		fmt.Fprintf(out, "  start types  %s\n", strings.Join(c.StartTypes, ", "))
	}
	if c.TerminalType != "" {
		fmt.Fprintf(out, "  terminal     %s\n", c.TerminalType)
	} else {
		fmt.Fprintln(out, "  every line completes its request immediately")
	}
	return nil
}
