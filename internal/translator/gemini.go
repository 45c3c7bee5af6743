package translator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/oukeidos/codeglot/internal/apperrors"
	"github.com/oukeidos/codeglot/internal/httpclient"
)

const (
	geminiName         = "Gemini"
	DefaultGeminiModel = "gemini-1.5-flash"

	geminiSystemPrompt = "You are a translation engine for source-code comments and " +
		"documentation fragments. Translate the user text into the requested language. " +
		"Return only the translated text with no quotes, labels, or explanations. " +
		"Preserve inline code spans, identifiers, and markdown markup unchanged."
)

// geminiLanguages is the display-name set used in prompts; the model
// accepts free-form language names, so normalization maps codes here.
var geminiLanguages = map[string]string{
	"en": "English", "zh-cn": "Simplified Chinese", "zh-tw": "Traditional Chinese",
	"ja": "Japanese", "ko": "Korean", "fr": "French", "de": "German",
	"es": "Spanish", "it": "Italian", "pt": "Portuguese", "ru": "Russian",
	"ar": "Arabic", "hi": "Hindi", "th": "Thai", "vi": "Vietnamese",
	"id": "Indonesian", "nl": "Dutch", "sv": "Swedish", "pl": "Polish",
	"tr": "Turkish", "el": "Greek", "he": "Hebrew", "fa": "Persian",
}

// Gemini translates through the Gemini API. It needs an API key; see
// the auth package for keyring storage.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates the backend. The caller owns closing it.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apperrors.InvalidInput("gemini api key is empty")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	// option.WithHTTPClient is avoided on purpose: it breaks the genai
	// library's API key header injection. Timeouts come from the request
	// context instead.
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, classifyGeminiError(err)
	}
	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(geminiSystemPrompt)},
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) Name() string { return geminiName }

func (g *Gemini) SupportedLanguages() []string {
	langs := make([]string, 0, len(geminiLanguages))
	for code := range geminiLanguages {
		langs = append(langs, code)
	}
	sort.Strings(langs)
	return langs
}

func (g *Gemini) NormalizeLanguageCode(code string) string {
	normalized := lowerTrim(code)
	switch normalized {
	case "en-us", "en-gb":
		return "en"
	case "zh", "zh-hans":
		return "zh-cn"
	case "zh-hant":
		return "zh-tw"
	case "iw":
		return "he"
	}
	if idx := strings.IndexByte(normalized, '-'); idx > 0 {
		if _, ok := geminiLanguages[normalized]; !ok {
			base := normalized[:idx]
			if _, ok := geminiLanguages[base]; ok {
				return base
			}
		}
	}
	return normalized
}

func (g *Gemini) Translate(ctx context.Context, text, source, target string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, apperrors.InvalidInput("text cannot be empty")
	}
	if err := ValidateLanguages(g, source, target); err != nil {
		return Result{}, err
	}
	src := g.NormalizeLanguageCode(source)
	tgt := g.NormalizeLanguageCode(target)

	ctx, cancel := context.WithTimeout(ctx, httpclient.DefaultTimeout)
	defer cancel()

	prompt := fmt.Sprintf("Translate from %s to %s:\n%s",
		geminiLanguages[src], geminiLanguages[tgt], text)
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Result{}, classifyGeminiError(err)
	}
	translated, err := extractGeminiText(resp)
	if err != nil {
		return Result{}, apperrors.TranslationFailed(geminiName, "EMPTY_RESPONSE", "", err)
	}

	res := Success(text, strings.TrimSpace(translated), src, tgt, 0.95).
		WithMetadata("translator", geminiName)
	if resp.UsageMetadata != nil {
		res = res.WithMetadata("total_tokens",
			strconv.Itoa(int(resp.UsageMetadata.TotalTokenCount)))
	}
	return res, nil
}

// TranslateBatch runs items sequentially. The API meters by token, not
// by connection, so fanning out buys nothing and trips quotas faster.
func (g *Gemini) TranslateBatch(ctx context.Context, texts []string, source, target string) ([]Result, error) {
	if err := ValidateLanguages(g, source, target); err != nil {
		return nil, err
	}
	src := g.NormalizeLanguageCode(source)
	tgt := g.NormalizeLanguageCode(target)

	results := make([]Result, 0, len(texts))
	for i, text := range texts {
		res, err := g.Translate(ctx, text, source, target)
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

// EstimateCost guesses from the flash tier's per-character pricing.
func (g *Gemini) EstimateCost(text, _, _ string) float64 {
	return float64(len(text)) * 0.0000025
}

func (g *Gemini) UsageInfo() map[string]string {
	return map[string]string{
		"name":           g.Name(),
		"languages":      strconv.Itoa(len(geminiLanguages)),
		"max_batch_size": "100",
		"rate_limit":     "per-key token quota",
	}
}

func extractGeminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		var combined strings.Builder
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				combined.WriteString(string(text))
			}
		}
		if combined.Len() > 0 {
			return combined.String(), nil
		}
	}
	return "", fmt.Errorf("no text parts in response")
}

func classifyGeminiError(err error) error {
	if err == nil {
		return nil
	}
	wrapped := fmt.Errorf("gemini generate content failed: %w", err)

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == 429:
			return apperrors.RateLimit(wrapped)
		case gerr.Code == 401 || gerr.Code == 403:
			return apperrors.TranslationFailed(geminiName, strconv.Itoa(gerr.Code),
				fmt.Sprintf("Gemini authentication failed (%d). Check your API key.", gerr.Code), wrapped)
		case gerr.Code >= 500:
			return apperrors.TranslationFailed(geminiName, strconv.Itoa(gerr.Code),
				fmt.Sprintf("Gemini service temporary error (%d).", gerr.Code), wrapped)
		default:
			return apperrors.TranslationFailed(geminiName, strconv.Itoa(gerr.Code),
				fmt.Sprintf("Gemini API error (%d).", gerr.Code), wrapped)
		}
	}
	// Transport and runtime failures with no HTTP status.
	return apperrors.Network(wrapped)
}
