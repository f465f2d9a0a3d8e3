package ai

import (
	"context"
	"fmt"

	"go-jobfit-automation/internal/config"
)

// NewClient builds the Completer selected by cfg.Provider.
func NewClient(ctx context.Context, cfg config.AIConfig) (Completer, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = OpenAIBaseURL
		}
		model := cfg.Model
		if model == "" {
			model = DefaultOpenAIModel
		}
		return NewChatClient(baseURL, cfg.APIKey, model, cfg.Temperature, cfg.Timeout), nil
	case config.ProviderGroq:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = GroqBaseURL
		}
		model := cfg.Model
		if model == "" {
			model = DefaultGroqModel
		}
		return NewChatClient(baseURL, cfg.APIKey, model, cfg.Temperature, cfg.Timeout), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.Temperature)
	}
	return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
}
