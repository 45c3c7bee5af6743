package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oukeidos/codeglot/internal/files"
	"github.com/oukeidos/codeglot/internal/logger"
	"github.com/oukeidos/codeglot/internal/pipeline"
)

type translateOptions struct {
	common     commonOptions
	outputPath string
}

func newTranslateCmd() *cobra.Command {
	opts := translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate <file>",
		Short: "Translate one file and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, args[0], &opts)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addCommonFlags(cmd, &opts.common)
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Write the result to this path instead of stdout")
	return cmd
}

func runTranslate(cmd *cobra.Command, path string, opts *translateOptions) error {
	initLogging(&opts.common)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("translate takes a single file; use \"codeglot fix\" for directories")
	}

	cfg, err := buildConfig(&opts.common, path, true)
	if err != nil {
		return err
	}
	var notes []string
	cfg, notes = cfg.Normalize()
	for _, note := range notes {
		logger.Warn("Config normalized", "detail", note)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	tr, closer, err := pipeline.NewBackend(ctx, cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	runner := pipeline.NewRunner()
	outcome, content, err := runner.TranslateFile(ctx, tr, cfg, path)
	if err != nil {
		return err
	}
	logger.Info("Translation finished",
		"path", path,
		"status", outcome.Status,
		"units", outcome.Units,
		"translated", outcome.Translated,
		"failed", outcome.Failed,
	)

	if opts.outputPath != "" {
		if err := files.AtomicWrite(opts.outputPath, []byte(content), info.Mode().Perm()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", opts.outputPath)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), content)
	return nil
}
