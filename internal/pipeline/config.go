package pipeline

import (
	"fmt"
	"strings"

	"github.com/oukeidos/codeglot/internal/translator"
	"github.com/oukeidos/codeglot/internal/unit"
)

// Backend names accepted by Config.Translator.
const (
	BackendMock   = "mock"
	BackendGoogle = "google"
	BackendGemini = "gemini"
)

// Config holds everything required for one scan, translate, or fix run.
type Config struct {
	// InputPath is a file or directory.
	InputPath string

	// Languages. SourceLang may be "auto".
	SourceLang string
	TargetLang string

	// Backend selection by name.
	Translator string
	APIKey     string
	Model      string

	// Backend, when non-nil, overrides selection by name. Tests use it
	// to inject a tuned mock.
	Backend translator.Translator

	// MinPriority drops units less important than the threshold. The
	// zero value keeps only PriorityHigh units; pass PriorityLow to keep
	// everything except PriorityIgnore.
	MinPriority unit.Priority

	// OnlyLang restricts translation to units whose detected language
	// matches. Empty means all units.
	OnlyLang string

	// Concurrency bounds how many files are processed at once.
	Concurrency int

	DryRun bool
	Backup bool

	// Ignores are extra path patterns excluded during traversal.
	Ignores []string

	// OnProgress is called after each file finishes. May be nil.
	OnProgress func(FileOutcome)
}

const (
	MinConcurrency     = 1
	MaxConcurrency     = 16
	DefaultConcurrency = 4
)

func ClampConcurrency(value int) (int, bool) {
	if value < MinConcurrency {
		return MinConcurrency, true
	}
	if value > MaxConcurrency {
		return MaxConcurrency, true
	}
	return value, false
}

// Normalize applies safe bounds and defaults, returning any adjustments
// as human-readable notes.
func (c Config) Normalize() (Config, []string) {
	var notes []string
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if clamped, changed := ClampConcurrency(c.Concurrency); changed {
		notes = append(notes, fmt.Sprintf("concurrency clamped from %d to %d", c.Concurrency, clamped))
		c.Concurrency = clamped
	}
	if c.SourceLang == "" {
		c.SourceLang = "auto"
	}
	if c.Translator == "" {
		c.Translator = BackendGoogle
	}
	c.Translator = strings.ToLower(strings.TrimSpace(c.Translator))
	return c, notes
}

// Validate checks the configuration before a run.
func (c Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	if c.TargetLang == "" {
		return fmt.Errorf("target language is required")
	}
	if c.Backend == nil {
		switch c.Translator {
		case BackendMock, BackendGoogle:
		case BackendGemini:
			if c.APIKey == "" {
				return fmt.Errorf("gemini backend requires an API key")
			}
		default:
			return fmt.Errorf("unknown translator backend: %s", c.Translator)
		}
	}
	if c.MinPriority > unit.PriorityIgnore {
		return fmt.Errorf("invalid priority threshold: %d", c.MinPriority)
	}
	return nil
}
