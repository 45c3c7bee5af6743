package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/oukeidos/codeglot/internal/cache"
	"github.com/oukeidos/codeglot/internal/extractor"
	"github.com/oukeidos/codeglot/internal/files"
	"github.com/oukeidos/codeglot/internal/logger"
	"github.com/oukeidos/codeglot/internal/translator"
	"github.com/oukeidos/codeglot/internal/unit"
)

// FileStatus is the terminal state of one file within a run.
type FileStatus string

const (
	FileTranslated FileStatus = "translated"
	FileUnchanged  FileStatus = "unchanged"
	FileFailed     FileStatus = "failed"
)

// FileOutcome reports what happened to one file.
type FileOutcome struct {
	Path       string
	Status     FileStatus
	Units      int
	Translated int
	Failed     int
	BackupPath string
	Err        string
}

// RunStatus is the aggregate state of a whole run.
type RunStatus string

const (
	RunSuccess        RunStatus = "Success"
	RunPartialSuccess RunStatus = "Partial Success"
	RunFailure        RunStatus = "Failure"
)

// RunResult aggregates the outcomes of a fix run.
type RunResult struct {
	RunID           string
	Status          RunStatus
	Files           []FileOutcome
	TotalUnits      int
	TranslatedUnits int
	FailedUnits     int
	FilesChanged    int
}

// FileScan is the unit inventory of one file.
type FileScan struct {
	Path     string
	FileType string
	Units    []unit.TranslatableUnit
}

// ScanResult is the inventory of a whole tree.
type ScanResult struct {
	Files      []FileScan
	TotalUnits int
}

// Runner drives extraction, translation, and reconstruction over files.
// Parse results are memoized by content hash so repeated runs over an
// unchanged tree skip re-extraction.
type Runner struct {
	registry *extractor.Registry
	cache    *cache.ParseCache
}

func NewRunner() *Runner {
	return &Runner{
		registry: extractor.NewRegistry(),
		cache:    cache.New(),
	}
}

// parse reads and extracts one file, consulting the cache first.
func (r *Runner) parse(path string) (string, *unit.ParseResult, extractor.Extractor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, nil, fmt.Errorf("read file: %w", err)
	}
	content := string(data)

	ex, err := r.registry.ForFile(path, content)
	if err != nil {
		return "", nil, nil, err
	}

	key := cache.GenerateKey(path, content)
	if cached, ok := r.cache.Get(key); ok {
		return content, cached, ex, nil
	}
	result, err := ex.ExtractUnits(content, path)
	if err != nil {
		return "", nil, nil, err
	}
	r.cache.Set(key, result)
	return content, result, ex, nil
}

// collect resolves the input path to the files a run will touch.
func (r *Runner) collect(cfg Config) ([]string, error) {
	info, err := os.Stat(cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("stat input path: %w", err)
	}
	if !info.IsDir() {
		return []string{cfg.InputPath}, nil
	}
	walker := files.NewWalker(r.registry, cfg.Ignores)
	entries, err := walker.Walk(cfg.InputPath)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths, nil
}

// Scan inventories translatable units without touching any file.
func (r *Runner) Scan(cfg Config) (ScanResult, error) {
	cfg, _ = cfg.Normalize()
	paths, err := r.collect(cfg)
	if err != nil {
		return ScanResult{}, err
	}

	var out ScanResult
	for _, path := range paths {
		_, result, _, err := r.parse(path)
		if err != nil {
			logger.Warn("Skipping unparsable file", "path", path, "error", err)
			continue
		}
		filtered := filterUnits(result.Units, cfg)
		if len(filtered) == 0 {
			continue
		}
		out.Files = append(out.Files, FileScan{
			Path:     path,
			FileType: result.FileType,
			Units:    filtered,
		})
		out.TotalUnits += len(filtered)
	}
	return out, nil
}

// filterUnits keeps units at or above the priority threshold, optionally
// restricted to one detected language.
func filterUnits(units []unit.TranslatableUnit, cfg Config) []unit.TranslatableUnit {
	var kept []unit.TranslatableUnit
	for _, u := range units {
		if u.Priority > cfg.MinPriority {
			continue
		}
		if cfg.OnlyLang != "" && u.DetectedLanguage != cfg.OnlyLang {
			continue
		}
		kept = append(kept, u)
	}
	return kept
}

// TranslateFile runs the full pipeline for one file and returns both the
// outcome and the rewritten content. The file on disk is not modified.
func (r *Runner) TranslateFile(ctx context.Context, tr translator.Translator, cfg Config, path string) (FileOutcome, string, error) {
	outcome := FileOutcome{Path: path, Status: FileUnchanged}

	content, result, ex, err := r.parse(path)
	if err != nil {
		outcome.Status = FileFailed
		outcome.Err = err.Error()
		return outcome, "", err
	}

	candidates := filterUnits(result.Units, cfg)
	outcome.Units = len(candidates)
	if len(candidates) == 0 {
		return outcome, content, nil
	}

	texts := make([]string, len(candidates))
	for i, u := range candidates {
		texts[i] = u.Content
	}

	results, err := tr.TranslateBatch(ctx, texts, cfg.SourceLang, cfg.TargetLang)
	if err != nil {
		outcome.Status = FileFailed
		outcome.Err = err.Error()
		return outcome, "", err
	}

	var updated []unit.TranslatableUnit
	for i, res := range results {
		switch {
		case res.Status == translator.StatusSuccess && res.TranslatedText != candidates[i].Content:
			updated = append(updated, candidates[i].WithContent(res.TranslatedText))
			outcome.Translated++
		case res.Status == translator.StatusFailed:
			outcome.Failed++
		}
	}
	if len(updated) == 0 {
		return outcome, content, nil
	}

	newContent, err := ex.Reconstruct(content, updated, path)
	if err != nil {
		outcome.Status = FileFailed
		outcome.Err = err.Error()
		return outcome, "", err
	}
	if newContent != content {
		outcome.Status = FileTranslated
	}
	return outcome, newContent, nil
}

// Fix translates every supported file under the input path and rewrites
// changed files in place. With DryRun set nothing is written.
func (r *Runner) Fix(ctx context.Context, cfg Config) (RunResult, error) {
	var notes []string
	cfg, notes = cfg.Normalize()
	for _, note := range notes {
		logger.Warn("Config normalized", "detail", note)
	}
	if err := cfg.Validate(); err != nil {
		return RunResult{}, fmt.Errorf("invalid configuration: %w", err)
	}

	tr, closer, err := NewBackend(ctx, cfg)
	if err != nil {
		return RunResult{}, err
	}
	if closer != nil {
		defer closer()
	}
	if err := translator.ValidateLanguages(tr, cfg.SourceLang, cfg.TargetLang); err != nil {
		return RunResult{}, err
	}

	paths, err := r.collect(cfg)
	if err != nil {
		return RunResult{}, err
	}

	run := RunResult{RunID: uuid.NewString()}
	logger.Info("Starting run",
		"run_id", run.RunID,
		"files", len(paths),
		"translator", tr.Name(),
		"target", cfg.TargetLang,
		"dry_run", cfg.DryRun,
	)

	outcomes := make([]FileOutcome, len(paths))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, path := range paths {
		g.Go(func() error {
			outcome := r.fixFile(gctx, tr, cfg, path)
			outcomes[i] = outcome
			if cfg.OnProgress != nil {
				mu.Lock()
				cfg.OnProgress(outcome)
				mu.Unlock()
			}
			// A single bad file never aborts the run; cancellation does.
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return run, err
	}

	failedFiles := 0
	for _, o := range outcomes {
		run.Files = append(run.Files, o)
		run.TotalUnits += o.Units
		run.TranslatedUnits += o.Translated
		run.FailedUnits += o.Failed
		if o.Status == FileTranslated {
			run.FilesChanged++
		}
		if o.Status == FileFailed {
			failedFiles++
		}
	}
	switch {
	case failedFiles == 0:
		run.Status = RunSuccess
	case failedFiles < len(outcomes):
		run.Status = RunPartialSuccess
	default:
		run.Status = RunFailure
	}

	logger.Info("Run finished",
		"run_id", run.RunID,
		"status", run.Status,
		"files_changed", run.FilesChanged,
		"units_translated", run.TranslatedUnits,
		"units_failed", run.FailedUnits,
	)
	return run, nil
}

func (r *Runner) fixFile(ctx context.Context, tr translator.Translator, cfg Config, path string) FileOutcome {
	outcome, newContent, err := r.TranslateFile(ctx, tr, cfg, path)
	if err != nil {
		logger.Error("File failed", "path", path, "error", err)
		return outcome
	}
	if outcome.Status != FileTranslated || cfg.DryRun {
		return outcome
	}

	info, err := os.Stat(path)
	if err != nil {
		outcome.Status = FileFailed
		outcome.Err = err.Error()
		return outcome
	}
	if cfg.Backup {
		backupPath, err := files.CreateBackup(path)
		if err != nil {
			outcome.Status = FileFailed
			outcome.Err = fmt.Sprintf("create backup: %v", err)
			return outcome
		}
		outcome.BackupPath = backupPath
	}
	if err := files.AtomicWrite(path, []byte(newContent), info.Mode().Perm()); err != nil {
		outcome.Status = FileFailed
		outcome.Err = fmt.Sprintf("write file: %v", err)
		return outcome
	}
	logger.Info("File rewritten", "path", path, "units", outcome.Translated)
	return outcome
}
