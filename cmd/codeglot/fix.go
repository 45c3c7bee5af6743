package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/codeglot/internal/logger"
	"github.com/oukeidos/codeglot/internal/pipeline"
)

type fixOptions struct {
	common   commonOptions
	dryRun   bool
	noBackup bool
}

func newFixCmd() *cobra.Command {
	opts := fixOptions{}
	cmd := &cobra.Command{
		Use:   "fix <path>",
		Short: "Translate files in place, keeping .backup copies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args[0], &opts)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addCommonFlags(cmd, &opts.common)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report what would change without writing")
	cmd.Flags().BoolVar(&opts.noBackup, "no-backup", false, "Skip the .backup copy before rewriting")
	return cmd
}

func runFix(cmd *cobra.Command, path string, opts *fixOptions) error {
	initLogging(&opts.common)

	cfg, err := buildConfig(&opts.common, path, true)
	if err != nil {
		return err
	}
	if opts.dryRun {
		cfg.DryRun = true
	}
	if opts.noBackup {
		cfg.Backup = false
	}
	cfg.OnProgress = func(o pipeline.FileOutcome) {
		switch o.Status {
		case pipeline.FileTranslated:
			logger.Info("File done", "path", o.Path, "translated", o.Translated, "failed", o.Failed)
		case pipeline.FileFailed:
			logger.Error("File failed", "path", o.Path, "error", o.Err)
		}
	}

	ctx, stop := signalContext()
	defer stop()

	runner := pipeline.NewRunner()
	result, err := runner.Fix(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("Run canceled", "error", err)
			return nil
		}
		return err
	}

	out := cmd.OutOrStdout()
	verb := "changed"
	if cfg.DryRun {
		verb = "would change"
	}
	fmt.Fprintf(out, "%s: %d/%d files %s, %d units translated, %d failed\n",
		result.Status, result.FilesChanged, len(result.Files), verb,
		result.TranslatedUnits, result.FailedUnits)

	switch result.Status {
	case pipeline.RunSuccess:
		return nil
	default:
		return fmt.Errorf("run finished with status: %s", result.Status)
	}
}
