package decompose

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"taskease/internal/infra"
)

// NewFromConfig builds the gateway selected by DECOMPOSER_PROVIDER, wrapping
// it with the static fallback when DECOMPOSER_FALLBACK=static.
func NewFromConfig(cfg *infra.Config, logger zerolog.Logger) (Gateway, error) {
	var fallback Gateway
	if cfg.DecomposerFallback == staticProviderName {
		fallback = NewStaticGateway()
	}
	onFallback := func(reason string, err error) {
		logger.Warn().Err(err).Str("reason", reason).Bool("fallback", fallback != nil).Msg("decomposition upstream failed")
	}
	client := &http.Client{Timeout: cfg.DecomposeTimeout}

	switch cfg.DecomposerProvider {
	case openAIProviderName, "":
		gw, err := NewOpenAIGateway(OpenAIOptions{
			APIKey:       cfg.OpenAIAPIKey,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			HTTPClient:   client,
			Timeout:      cfg.DecomposeTimeout,
			Fallback:     fallback,
			OnFallback:   onFallback,
			OnWarning: func(reason, detail string) {
				logger.Warn().Str("reason", reason).Str("detail", detail).Msg("openai model normalized")
			},
		})
		if err != nil {
			return nil, err
		}
		return gw, nil
	case geminiProviderName:
		gw, err := NewGeminiGateway(GeminiOptions{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			BaseURL:    cfg.GeminiBaseURL,
			HTTPClient: client,
			Timeout:    cfg.DecomposeTimeout,
			Fallback:   fallback,
			OnFallback: onFallback,
		})
		if err != nil {
			return nil, err
		}
		return gw, nil
	case staticProviderName:
		if cfg.IsProduction() {
			return nil, fmt.Errorf("decomposer provider %q is not allowed in production", cfg.DecomposerProvider)
		}
		return NewStaticGateway(), nil
	default:
		return nil, fmt.Errorf("unsupported decomposer provider %q", cfg.DecomposerProvider)
	}
}
