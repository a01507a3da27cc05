package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"quickcore/internal/config"
	"quickcore/internal/models"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// OllamaRepository talks to a local Ollama server through its native chat API
type OllamaRepository struct {
	model  string
	client *api.Client
	logger *zap.Logger
}

// NewOllamaRepository creates a new Ollama client; an empty baseURL uses localhost.
func NewOllamaRepository(baseURL, model string, httpClient *http.Client, logger *zap.Logger) (*OllamaRepository, error) {
	if baseURL == "" {
		baseURL = OllamaBaseURL
	}
	// api.NewClient wants the bare host, without the OpenAI-style /v1 suffix
	baseURL = strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama base URL %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OllamaRepository{
		model:  model,
		client: api.NewClient(parsedURL, httpClient),
		logger: logger,
	}, nil
}

func (r *OllamaRepository) Provider() string { return config.ProviderOllama }

func (r *OllamaRepository) Model() string { return r.model }

// Complete runs one non-streaming chat request
func (r *OllamaRepository) Complete(ctx context.Context, in models.CompletionRequest) (*models.Completion, error) {
	var messages []api.Message
	if in.SystemPrompt != "" {
		messages = append(messages, api.Message{Role: "system", Content: in.SystemPrompt})
	}
	messages = append(messages, api.Message{Role: "user", Content: in.UserPrompt})

	stream := false
	options := map[string]interface{}{}
	if in.MaxTokens > 0 {
		options["num_predict"] = in.MaxTokens
	}
	if in.Temperature != nil {
		options["temperature"] = *in.Temperature
	}

	req := &api.ChatRequest{
		Model:    r.model,
		Messages: messages,
		Stream:   &stream,
		Options:  options,
	}
	if in.JSON {
		req.Format = json.RawMessage(`"json"`)
	}

	r.logger.Debug("Sending chat request", zap.Int("messages", len(messages)))

	var resp api.ChatResponse
	err := r.client.Chat(ctx, req, func(cr api.ChatResponse) error {
		resp = cr
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}

	if strings.TrimSpace(resp.Message.Content) == "" {
		return nil, ErrEmptyCompletion
	}

	return &models.Completion{
		Text:             resp.Message.Content,
		PromptTokens:     resp.PromptEvalCount,
		CompletionTokens: resp.EvalCount,
	}, nil
}
