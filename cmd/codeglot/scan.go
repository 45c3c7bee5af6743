package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/codeglot/internal/pipeline"
)

type scanOptions struct {
	common  commonOptions
	jsonOut bool
}

func newScanCmd() *cobra.Command {
	opts := scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "List translatable units in a file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args[0], &opts)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addCommonFlags(cmd, &opts.common)
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Emit machine-readable JSON")
	return cmd
}

func runScan(cmd *cobra.Command, path string, opts *scanOptions) error {
	initLogging(&opts.common)

	// Scanning needs no backend, so no API key is resolved.
	cfg, err := buildConfig(&opts.common, path, false)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner()
	result, err := runner.Scan(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if len(result.Files) == 0 {
		fmt.Fprintln(out, "No translatable units found.")
		return nil
	}
	for _, f := range result.Files {
		fmt.Fprintf(out, "%s (%s): %d units\n", f.Path, f.FileType, len(f.Units))
		for _, u := range f.Units {
			lang := u.DetectedLanguage
			if lang == "" {
				lang = "?"
			}
			fmt.Fprintf(out, "  line %-5d %-12s priority=%-7s lang=%-5s %q\n",
				u.Line, u.Type, u.Priority, lang, u.Content)
		}
	}
	fmt.Fprintf(out, "Total: %d units in %d files\n", result.TotalUnits, len(result.Files))
	return nil
}
