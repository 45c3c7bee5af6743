// Package translator defines the pluggable translation backend contract
// and its implementations. Backends translate plain text fragments; they
// know nothing about files or units.
package translator

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oukeidos/codeglot/internal/apperrors"
)

// Status classifies the outcome of one translation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusPartial Status = "partial"
	StatusSkipped Status = "skipped"
)

// Result is the outcome of translating one text. TranslatedText is never
// empty on a failure; it falls back to the original so reconstruction is
// always safe to apply.
type Result struct {
	OriginalText   string
	TranslatedText string
	SourceLanguage string
	TargetLanguage string
	Status         Status
	// Confidence is in [0,1]; zero on failure.
	Confidence float64
	Metadata   map[string]string
}

// Success builds a successful result.
func Success(original, translated, source, target string, confidence float64) Result {
	return Result{
		OriginalText:   original,
		TranslatedText: translated,
		SourceLanguage: source,
		TargetLanguage: target,
		Status:         StatusSuccess,
		Confidence:     confidence,
	}
}

// Failed builds a failed result carrying the original text as its
// translation.
func Failed(original, source, target, errMsg string) Result {
	return Result{
		OriginalText:   original,
		TranslatedText: original,
		SourceLanguage: source,
		TargetLanguage: target,
		Status:         StatusFailed,
		Metadata:       map[string]string{"error": errMsg},
	}
}

// WithMetadata returns a copy of r with one metadata entry added.
func (r Result) WithMetadata(key, value string) Result {
	meta := make(map[string]string, len(r.Metadata)+1)
	for k, v := range r.Metadata {
		meta[k] = v
	}
	meta[key] = value
	r.Metadata = meta
	return r
}

// BatchIndex returns the position this result held in its batch, or -1
// when the result did not come from a batch call.
func (r Result) BatchIndex() int {
	s, ok := r.Metadata["batch_index"]
	if !ok {
		return -1
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return i
}

// Translator is the backend contract. TranslateBatch returns a result
// slice with the same length and order as its input even when individual
// items fail.
type Translator interface {
	Name() string
	SupportedLanguages() []string
	// NormalizeLanguageCode collapses regional variants to the form this
	// backend expects. Backends disagree on canonicalization (the web
	// backend wants zh-cn, the mock wants zh), so this is per-backend.
	NormalizeLanguageCode(code string) string
	Translate(ctx context.Context, text, source, target string) (Result, error)
	TranslateBatch(ctx context.Context, texts []string, source, target string) ([]Result, error)
	// EstimateCost and UsageInfo are informational only.
	EstimateCost(text, source, target string) float64
	UsageInfo() map[string]string
}

// IsLanguageSupported reports whether code, after backend normalization,
// is in the backend's supported set.
func IsLanguageSupported(t Translator, code string) bool {
	normalized := t.NormalizeLanguageCode(code)
	for _, lang := range t.SupportedLanguages() {
		if lang == normalized {
			return true
		}
	}
	return false
}

// ValidateLanguages rejects a source/target pair when either side is
// unsupported. A source of "auto" is a wildcard asking the backend to
// detect the language itself.
func ValidateLanguages(t Translator, source, target string) error {
	if lowerTrim(source) != "auto" && !IsLanguageSupported(t, source) {
		return apperrors.UnsupportedLanguage(source)
	}
	if !IsLanguageSupported(t, target) {
		return apperrors.UnsupportedLanguage(target)
	}
	return nil
}

// jitter is a mutex-guarded random source. Seeding it makes pacing and
// simulated failures reproducible in tests.
type jitter struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newJitter(seed int64) *jitter {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &jitter{rng: rand.New(rand.NewSource(seed))}
}

// duration draws a uniform duration from [min, max].
func (j *jitter) duration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return min + time.Duration(j.rng.Int63n(int64(max-min)+1))
}

func (j *jitter) float() float64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.rng.Float64()
}

// floatRange draws a uniform value from [min, max].
func (j *jitter) floatRange(min, max float64) float64 {
	if max <= min {
		return min
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return min + j.rng.Float64()*(max-min)
}

// sleepCtx waits d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func lowerTrim(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
