package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"quickcore/internal/config"
	"quickcore/internal/models"

	"go.uber.org/zap"
)

// Default endpoints per provider
const (
	GeminiBaseURL    = "https://generativelanguage.googleapis.com/v1beta/openai"
	AnthropicBaseURL = "https://api.anthropic.com/v1/messages"
	OllamaBaseURL    = "http://localhost:11434"
)

// ErrEmptyCompletion is returned when a provider answers without any text
var ErrEmptyCompletion = errors.New("empty response from API")

// Completer sends one prompt to a language model and returns its answer
type Completer interface {
	Complete(ctx context.Context, req models.CompletionRequest) (*models.Completion, error)
	Provider() string
	Model() string
}

// NewCompleter builds the client for the configured provider
func NewCompleter(cfg config.GeneratorConfig, logger *zap.Logger) (Completer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("llm").With(zap.String("provider", cfg.Provider), zap.String("model", cfg.Model))

	httpClient := &http.Client{Timeout: cfg.Timeout()}

	switch cfg.Provider {
	case config.ProviderGemini:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = GeminiBaseURL
		}
		return NewOpenAIRepository(config.ProviderGemini, cfg.APIKey, baseURL, cfg.Model, httpClient, logger), nil
	case config.ProviderOpenAI:
		return NewOpenAIRepository(config.ProviderOpenAI, cfg.APIKey, cfg.BaseURL, cfg.Model, httpClient, logger), nil
	case config.ProviderAnthropic:
		return NewAnthropicRepository(cfg.APIKey, cfg.BaseURL, cfg.Model, httpClient, logger), nil
	case config.ProviderOllama:
		return NewOllamaRepository(cfg.BaseURL, cfg.Model, httpClient, logger)
	default:
		return nil, fmt.Errorf("unsupported generator provider %q", cfg.Provider)
	}
}
