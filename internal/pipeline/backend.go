package pipeline

import (
	"context"
	"fmt"

	"github.com/oukeidos/codeglot/internal/translator"
)

// NewBackend builds the translation backend named by the config. The
// returned closer is non-nil only for backends holding a connection.
func NewBackend(ctx context.Context, cfg Config) (translator.Translator, func() error, error) {
	if cfg.Backend != nil {
		return cfg.Backend, nil, nil
	}
	switch cfg.Translator {
	case BackendMock:
		return translator.NewMock(), nil, nil
	case BackendGoogle:
		return translator.NewGoogle(), nil, nil
	case BackendGemini:
		model := cfg.Model
		if model == "" {
			model = translator.DefaultGeminiModel
		}
		g, err := translator.NewGemini(ctx, cfg.APIKey, model)
		if err != nil {
			return nil, nil, fmt.Errorf("create gemini backend: %w", err)
		}
		return g, g.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown translator backend: %s", cfg.Translator)
	}
}
