package repositories

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"quickcore/internal/models"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIRepository talks to any OpenAI-compatible chat completions endpoint.
// Gemini is reached through its OpenAI compatibility layer.
type OpenAIRepository struct {
	provider string
	model    string
	client   *openai.Client
	logger   *zap.Logger
}

// NewOpenAIRepository creates a chat completions client; an empty baseURL keeps the library default.
func NewOpenAIRepository(provider, apiKey, baseURL, model string, httpClient *http.Client, logger *zap.Logger) *OpenAIRepository {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenAIRepository{
		provider: provider,
		model:    model,
		client:   openai.NewClientWithConfig(clientConfig),
		logger:   logger,
	}
}

func (r *OpenAIRepository) Provider() string { return r.provider }

func (r *OpenAIRepository) Model() string { return r.model }

// Complete sends a system and a user message and returns the first choice
func (r *OpenAIRepository) Complete(ctx context.Context, in models.CompletionRequest) (*models.Completion, error) {
	var messages []openai.ChatCompletionMessage
	if in.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: in.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: in.UserPrompt,
	})

	req := openai.ChatCompletionRequest{
		Model:     r.model,
		Messages:  messages,
		MaxTokens: in.MaxTokens,
	}
	if in.Temperature != nil {
		req.Temperature = float32(*in.Temperature)
	}
	if in.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	r.logger.Debug("Sending chat completion", zap.Int("messages", len(messages)))

	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyCompletion
	}

	return &models.Completion{
		Text:             resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}
