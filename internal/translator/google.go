package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/oukeidos/codeglot/internal/apperrors"
	"github.com/oukeidos/codeglot/internal/httpclient"
	"github.com/oukeidos/codeglot/internal/logger"
)

const (
	googleName     = "Google Translate"
	googleEndpoint = "https://translate.googleapis.com/translate_a/single"
	// googleMaxConcurrent bounds in-flight batch requests; the free
	// endpoint throttles aggressively above this.
	googleMaxConcurrent = 3
)

// GoogleConfig tunes the free web-endpoint backend.
type GoogleConfig struct {
	// RetryCount is the number of attempts per text.
	RetryCount int
	// DelayMin and DelayMax bound the pacing sleep before each request.
	DelayMin time.Duration
	DelayMax time.Duration
	Seed     int64
	// Endpoint overrides the service URL, used by tests.
	Endpoint string
}

// DefaultGoogleConfig paces requests at 300-600ms to stay under the
// endpoint's informal rate limits.
func DefaultGoogleConfig() GoogleConfig {
	return GoogleConfig{
		RetryCount: 3,
		DelayMin:   300 * time.Millisecond,
		DelayMax:   600 * time.Millisecond,
	}
}

var googleLanguages = []string{
	"en", "zh-cn", "zh-tw", "ja", "ko", "fr", "de", "es", "it", "pt",
	"ru", "ar", "hi", "th", "vi", "id", "nl", "sv", "da", "no", "fi",
	"pl", "tr", "cs", "hu", "ro", "bg", "el", "he", "uk",
}

// Google translates through the public web endpoint. No API key is
// required; in exchange the backend paces every request and retries
// with a linear backoff.
type Google struct {
	cfg    GoogleConfig
	client *http.Client
	rnd    *jitter
}

func NewGoogle() *Google {
	return NewGoogleWithConfig(DefaultGoogleConfig())
}

func NewGoogleWithConfig(cfg GoogleConfig) *Google {
	if cfg.RetryCount <= 0 {
		cfg.RetryCount = 3
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = googleEndpoint
	}
	return &Google{
		cfg:    cfg,
		client: httpclient.GetDefaultClient(),
		rnd:    newJitter(cfg.Seed),
	}
}

func (g *Google) Name() string { return googleName }

func (g *Google) SupportedLanguages() []string {
	out := make([]string, len(googleLanguages))
	copy(out, googleLanguages)
	return out
}

// NormalizeLanguageCode keeps Chinese variants distinct and defaults
// bare zh to simplified, which is what the endpoint expects.
func (g *Google) NormalizeLanguageCode(code string) string {
	normalized := lowerTrim(code)
	switch normalized {
	case "en-us", "en-gb":
		return "en"
	case "zh", "zh-hans":
		return "zh-cn"
	case "zh-hant":
		return "zh-tw"
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

// callAPI performs one request and extracts the first translated
// segment from the endpoint's nested-array response shape
// [[[translated, original, ...]], ...].
func (g *Google) callAPI(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", apperrors.Network(err)
	}

	body, resp, err := httpclient.DoAndRead(g.client, req)
	if err != nil {
		return "", apperrors.Network(err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", apperrors.RateLimit(fmt.Errorf("google translate returned 429"))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperrors.TranslationFailed(googleName, strconv.Itoa(resp.StatusCode),
			fmt.Sprintf("HTTP error: %d", resp.StatusCode), nil)
	}

	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", apperrors.TranslationFailed(googleName, "PARSE_ERROR",
			"failed to parse response", err)
	}

	translated, ok := digString(payload, 0, 0, 0)
	if !ok {
		return "", apperrors.TranslationFailed(googleName, "EXTRACTION_ERROR",
			"failed to extract translation from response", nil)
	}
	return translated, nil
}

// digString walks a nested []any structure by index and asserts a string
// at the bottom.
func digString(v any, indices ...int) (string, bool) {
	for _, idx := range indices {
		arr, ok := v.([]any)
		if !ok || idx >= len(arr) {
			return "", false
		}
		v = arr[idx]
	}
	s, ok := v.(string)
	return s, ok
}

func (g *Google) Translate(ctx context.Context, text, source, target string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, apperrors.InvalidInput("text cannot be empty")
	}
	if err := ValidateLanguages(g, source, target); err != nil {
		return Result{}, err
	}
	src := g.NormalizeLanguageCode(source)
	tgt := g.NormalizeLanguageCode(target)

	delay := g.rnd.duration(g.cfg.DelayMin, g.cfg.DelayMax)
	if err := sleepCtx(ctx, delay); err != nil {
		return Result{}, err
	}

	var lastErr error
	for attempt := 1; attempt <= g.cfg.RetryCount; attempt++ {
		translated, err := g.callAPI(ctx, text, src, tgt)
		if err == nil {
			res := Success(text, translated, src, tgt, 0.9).
				WithMetadata("translator", googleName).
				WithMetadata("attempt", strconv.Itoa(attempt)).
				WithMetadata("delay_ms", strconv.FormatInt(delay.Milliseconds(), 10))
			return res, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return Result{}, err
		}
		if attempt < g.cfg.RetryCount {
			logger.Debug("google translate retrying",
				"attempt", attempt, "error", apperrors.PublicMessage(err))
			if serr := sleepCtx(ctx, time.Duration(attempt)*500*time.Millisecond); serr != nil {
				return Result{}, lastErr
			}
		}
	}
	return Result{}, lastErr
}

// TranslateBatch fans out one goroutine per text, bounded by a counting
// semaphore. A failing item degrades to a Failed result tagged with its
// batch index; output length and order always match the input.
func (g *Google) TranslateBatch(ctx context.Context, texts []string, source, target string) ([]Result, error) {
	if err := ValidateLanguages(g, source, target); err != nil {
		return nil, err
	}
	src := g.NormalizeLanguageCode(source)
	tgt := g.NormalizeLanguageCode(target)

	sem := semaphore.NewWeighted(googleMaxConcurrent)
	results := make([]Result, len(texts))
	var wg sync.WaitGroup

	for i, text := range texts {
		wg.Add(1)
		go func(index int, text string) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				results[index] = Failed(text, src, tgt, err.Error()).
					WithMetadata("batch_index", strconv.Itoa(index))
				return
			}
			defer sem.Release(1)

			res, err := g.Translate(ctx, text, source, target)
			if err != nil {
				res = Failed(text, src, tgt, apperrors.PublicMessage(err))
			}
			results[index] = res.WithMetadata("batch_index", strconv.Itoa(index))
		}(i, text)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (g *Google) EstimateCost(_, _, _ string) float64 { return 0 }

func (g *Google) UsageInfo() map[string]string {
	return map[string]string{
		"name":               g.Name(),
		"languages":          strconv.Itoa(len(googleLanguages)),
		"cost_per_character": "0.0",
		"max_batch_size":     "100",
		"rate_limit":         "limited (delays added)",
		"retry_count":        strconv.Itoa(g.cfg.RetryCount),
		"delay_range":        fmt.Sprintf("%s-%s", g.cfg.DelayMin, g.cfg.DelayMax),
	}
}
