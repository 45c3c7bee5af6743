package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/oukeidos/codeglot/internal/auth"
	"github.com/oukeidos/codeglot/internal/config"
	"github.com/oukeidos/codeglot/internal/language"
	"github.com/oukeidos/codeglot/internal/logger"
	"github.com/oukeidos/codeglot/internal/pipeline"
	"github.com/oukeidos/codeglot/internal/unit"

	"github.com/spf13/cobra"
)

var (
	isTerminal   = term.IsTerminal
	getKey       = auth.GetKey
	getEnvKey    = auth.GetEnvKey
	getStatus    = auth.GetStatus
	promptForKey = auth.PromptForAPIKey
)

type commonOptions struct {
	source      string
	target      string
	backend     string
	model       string
	concurrency int
	minPriority string
	onlyLang    string
	ignores     []string
	allowEnv    bool
	envOnly     bool
	debug       bool
}

func addCommonFlags(cmd *cobra.Command, opts *commonOptions) {
	cmd.Flags().StringVar(&opts.source, "source", "", "Source language code (default: auto)")
	cmd.Flags().StringVar(&opts.target, "target", "", "Target language code (default: en)")
	cmd.Flags().StringVar(&opts.backend, "translator", "", "Translation backend: mock, google, or gemini (default: google)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Gemini model name (gemini backend only)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0,
		fmt.Sprintf("Number of files processed concurrently (%d-%d, default %d)",
			pipeline.MinConcurrency, pipeline.MaxConcurrency, pipeline.DefaultConcurrency))
	cmd.Flags().StringVar(&opts.minPriority, "min-priority", "low", "Lowest unit priority to include: high, medium, or low")
	cmd.Flags().StringVar(&opts.onlyLang, "only-lang", "", "Only include units whose detected language matches this code")
	cmd.Flags().StringSliceVar(&opts.ignores, "ignore", nil, "Extra path patterns to skip (repeatable)")
	cmd.Flags().BoolVar(&opts.allowEnv, "allow-env", false, "Allow reading the API key from environment variables")
	cmd.Flags().BoolVar(&opts.envOnly, "env-only", false, "Use only environment variables for the API key")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
}

func parsePriority(s string) (unit.Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return unit.PriorityHigh, nil
	case "medium":
		return unit.PriorityMedium, nil
	case "low":
		return unit.PriorityLow, nil
	}
	return 0, fmt.Errorf("invalid priority %q (expected high, medium, or low)", s)
}

// buildConfig layers CLI flags over the discovered config file and the
// environment. Flags win, then environment, then file, then defaults.
// needsKey says whether the command will actually translate; read-only
// commands pass false so a gemini backend never triggers key resolution.
func buildConfig(opts *commonOptions, inputPath string, needsKey bool) (pipeline.Config, error) {
	fileCfg, err := config.FindAndLoad(".")
	if err != nil {
		return pipeline.Config{}, err
	}
	fileCfg = config.LoadEnv(fileCfg)

	source := opts.source
	if source == "" {
		if len(fileCfg.SourceLang) > 0 {
			source = fileCfg.SourceLang[0]
		} else {
			source = "auto"
		}
	}
	target := opts.target
	if target == "" {
		target = fileCfg.TargetLang
	}
	if source != "auto" {
		source = language.Normalize(source)
	}
	target = language.Normalize(target)

	backend := opts.backend
	if backend == "" {
		backend = fileCfg.Translator
	}

	minPriority, err := parsePriority(opts.minPriority)
	if err != nil {
		return pipeline.Config{}, err
	}

	concurrency := opts.concurrency
	if concurrency == 0 {
		concurrency = fileCfg.Concurrency
	}

	cfg := pipeline.Config{
		InputPath:   inputPath,
		SourceLang:  source,
		TargetLang:  target,
		Translator:  backend,
		Model:       opts.model,
		MinPriority: minPriority,
		OnlyLang:    opts.onlyLang,
		Concurrency: concurrency,
		DryRun:      fileCfg.DryRun,
		Backup:      fileCfg.Backup,
		Ignores:     append(append([]string{}, fileCfg.Exclude...), opts.ignores...),
	}

	if needsKey && strings.EqualFold(backend, pipeline.BackendGemini) {
		key, keySource, err := resolveAPIKey(opts.allowEnv, opts.envOnly)
		if err != nil {
			return pipeline.Config{}, err
		}
		logger.Info("Using API key", "source", keySource)
		cfg.APIKey = key
	}

	return cfg, nil
}

func initLogging(opts *commonOptions) {
	level := logger.LevelInfo
	if opts.debug {
		level = logger.LevelDebug
	}
	logger.Init(level, nil)
}

// resolveAPIKey finds the Gemini key from the keychain, the environment,
// or an interactive prompt, in that order.
func resolveAPIKey(allowEnv, envOnly bool) (string, string, error) {
	if envOnly {
		if key, ok := getEnvKey(); ok {
			return key, "Environment Variable", nil
		}
		return "", "", fmt.Errorf("env-only set but GEMINI_API_KEY is not set")
	}

	if key, source := getKey(false); key != "" {
		return key, source, nil
	}

	if allowEnv {
		if key, ok := getEnvKey(); ok {
			return key, "Environment Variable", nil
		}
	}

	if isTerminal(int(os.Stdin.Fd())) {
		key, err := promptForKey("Gemini API Key (press Enter to skip): ")
		if err != nil {
			return "", "", fmt.Errorf("error reading API key: %w", err)
		}
		if strings.TrimSpace(key) != "" {
			return strings.TrimSpace(key), "Terminal Prompt", nil
		}
		if allowEnv {
			return "", "", fmt.Errorf("API key is required; not found in keychain or environment")
		}
		return "", "", fmt.Errorf("API key is required; not found in keychain (environment disabled by default; use --allow-env)")
	}
	return "", "", fmt.Errorf("no API key available (non-interactive shell); set keychain or use --allow-env")
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("Cancellation requested")
		cancel()
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
