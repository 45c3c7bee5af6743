package translator

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/oukeidos/codeglot/internal/apperrors"
)

// MockConfig tunes the simulated backend. A zero Seed picks a
// time-based one; tests set it for reproducible delays and failures.
type MockConfig struct {
	// DelayMin and DelayMax bound the simulated API latency.
	DelayMin time.Duration
	DelayMax time.Duration
	// ErrorRate is the probability in [0,1] that a call fails.
	ErrorRate float64
	// ConfidenceMin and ConfidenceMax bound the reported confidence.
	ConfidenceMin float64
	ConfidenceMax float64
	Seed          int64
}

// DefaultMockConfig mirrors a slow-ish remote API with no failures.
func DefaultMockConfig() MockConfig {
	return MockConfig{
		DelayMin:      100 * time.Millisecond,
		DelayMax:      500 * time.Millisecond,
		ErrorRate:     0,
		ConfidenceMin: 0.8,
		ConfidenceMax: 1.0,
	}
}

// mockPrefixes tag the fake translation with the target language so the
// output is visibly "translated" and trivially reversible by eye.
var mockPrefixes = map[string]string{
	"en": "[EN]",
	"zh": "[中文]",
	"ja": "[日本語]",
	"ko": "[한국어]",
	"fr": "[Français]",
	"de": "[Deutsch]",
	"es": "[Español]",
	"it": "[Italiano]",
	"pt": "[Português]",
	"ru": "[Русский]",
	"ar": "[العربية]",
	"hi": "[हिन्दी]",
	"th": "[ไทย]",
	"vi": "[Tiếng Việt]",
	"id": "[Bahasa Indonesia]",
}

// Mock is a deterministic offline backend for tests and dry runs.
type Mock struct {
	cfg MockConfig
	rnd *jitter
}

func NewMock() *Mock {
	return NewMockWithConfig(DefaultMockConfig())
}

func NewMockWithConfig(cfg MockConfig) *Mock {
	return &Mock{cfg: cfg, rnd: newJitter(cfg.Seed)}
}

func (m *Mock) Name() string { return "Mock" }

func (m *Mock) SupportedLanguages() []string {
	langs := make([]string, 0, len(mockPrefixes))
	for code := range mockPrefixes {
		langs = append(langs, code)
	}
	sort.Strings(langs)
	return langs
}

// NormalizeLanguageCode collapses every regional variant to its base
// code; all Chinese variants map to zh.
func (m *Mock) NormalizeLanguageCode(code string) string {
	normalized := lowerTrim(code)
	switch normalized {
	case "en-us", "en-gb":
		return "en"
	case "zh-cn", "zh-tw", "zh-hans", "zh-hant":
		return "zh"
	case "ja-jp":
		return "ja"
	case "ko-kr":
		return "ko"
	case "fr-fr":
		return "fr"
	case "de-de":
		return "de"
	case "es-es":
		return "es"
	case "it-it":
		return "it"
	case "pt-br", "pt-pt":
		return "pt"
	case "ru-ru":
		return "ru"
	case "ar-sa":
		return "ar"
	case "hi-in":
		return "hi"
	case "th-th":
		return "th"
	case "vi-vn":
		return "vi"
	case "id-id":
		return "id"
	}
	return normalized
}

func (m *Mock) mockTranslation(text, source, target string) string {
	if source == target {
		return text
	}
	prefix, ok := mockPrefixes[target]
	if !ok {
		prefix = "[" + target + "]"
	}
	return prefix + " " + text
}

func (m *Mock) Translate(ctx context.Context, text, source, target string) (Result, error) {
	if err := ValidateLanguages(m, source, target); err != nil {
		return Result{}, err
	}
	src := m.NormalizeLanguageCode(source)
	tgt := m.NormalizeLanguageCode(target)

	delay := m.rnd.duration(m.cfg.DelayMin, m.cfg.DelayMax)
	if err := sleepCtx(ctx, delay); err != nil {
		return Result{}, err
	}

	if m.rnd.float() < m.cfg.ErrorRate {
		return Result{}, apperrors.TranslationFailed(m.Name(), "MOCK_ERROR",
			"mock translation failed (simulated error)", nil)
	}

	confidence := m.rnd.floatRange(m.cfg.ConfidenceMin, m.cfg.ConfidenceMax)
	res := Success(text, m.mockTranslation(text, src, tgt), src, tgt, confidence).
		WithMetadata("mock", "true").
		WithMetadata("translator", m.Name()).
		WithMetadata("delay_ms", strconv.FormatInt(delay.Milliseconds(), 10))
	return res, nil
}

// TranslateBatch translates sequentially; the mock has no rate limit to
// protect. A failing item degrades to a Failed result so the output
// always matches the input in length and order.
func (m *Mock) TranslateBatch(ctx context.Context, texts []string, source, target string) ([]Result, error) {
	if err := ValidateLanguages(m, source, target); err != nil {
		return nil, err
	}
	src := m.NormalizeLanguageCode(source)
	tgt := m.NormalizeLanguageCode(target)

	results := make([]Result, 0, len(texts))
	for i, text := range texts {
		res, err := m.Translate(ctx, text, source, target)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			res = Failed(text, src, tgt, apperrors.PublicMessage(err))
		}
		results = append(results, res.WithMetadata("batch_index", strconv.Itoa(i)))
	}
	return results, nil
}

func (m *Mock) EstimateCost(_, _, _ string) float64 { return 0 }

func (m *Mock) UsageInfo() map[string]string {
	return map[string]string{
		"name":               m.Name(),
		"languages":          strconv.Itoa(len(mockPrefixes)),
		"cost_per_character": "0.0",
		"max_batch_size":     "1000",
		"rate_limit":         "none (mock)",
		"delay_range":        fmt.Sprintf("%s-%s", m.cfg.DelayMin, m.cfg.DelayMax),
		"error_rate":         strconv.FormatFloat(m.cfg.ErrorRate, 'f', -1, 64),
	}
}
