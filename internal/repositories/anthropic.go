package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"quickcore/internal/config"
	"quickcore/internal/models"

	"go.uber.org/zap"
)

const anthropicVersion = "2023-06-01"

// AnthropicRepository talks to the Anthropic Messages API
type AnthropicRepository struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewAnthropicRepository creates a new Anthropic client; an empty baseURL uses the public endpoint.
func NewAnthropicRepository(apiKey, baseURL, model string, client *http.Client, logger *zap.Logger) *AnthropicRepository {
	if baseURL == "" {
		baseURL = AnthropicBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnthropicRepository{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  client,
		logger:  logger,
	}
}

func (r *AnthropicRepository) Provider() string { return config.ProviderAnthropic }

func (r *AnthropicRepository) Model() string { return r.model }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature *float64           `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Complete sends the prompt as a single user message
func (r *AnthropicRepository) Complete(ctx context.Context, in models.CompletionRequest) (*models.Completion, error) {
	userPrompt := in.UserPrompt
	if in.JSON {
		// The Messages API has no JSON mode; the prompt has to ask for it.
		userPrompt += "\n\nRespond ONLY with valid JSON."
	}

	jsonData, err := json.Marshal(anthropicRequest{
		Model:       r.model,
		MaxTokens:   in.MaxTokens,
		System:      in.SystemPrompt,
		Temperature: in.Temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: userPrompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", r.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	r.logger.Debug("Sending request", zap.Int("prompt_bytes", len(in.SystemPrompt)+len(userPrompt)))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var apiResponse anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}

	var text strings.Builder
	for _, block := range apiResponse.Content {
		if block.Type == "" || block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, ErrEmptyCompletion
	}

	return &models.Completion{
		Text:             text.String(),
		PromptTokens:     apiResponse.Usage.InputTokens,
		CompletionTokens: apiResponse.Usage.OutputTokens,
	}, nil
}
