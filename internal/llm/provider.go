package llm

import (
	"fmt"

	"github.com/AlphsX/synx-agent-preview-sub000/internal/config"
)

// NewProvider creates an LLM provider based on the config. Providers are
// wrapped with retry logic for transient failures.
func NewProvider(cfg *config.Config) (Provider, error) {
	var provider Provider

	switch cfg.Provider {
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai API key not configured. Set OPENAI_API_KEY or add to config")
		}
		provider = NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	case "openai-compat":
		if cfg.Compat.BaseURL == "" {
			return nil, fmt.Errorf("openai-compat base_url not configured")
		}
		provider = NewCompatProvider(cfg.Compat.BaseURL, cfg.Compat.APIKey, cfg.Compat.Model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}

	return WrapWithRetry(provider, DefaultRetryConfig()), nil
}
