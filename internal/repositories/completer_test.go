package repositories

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"quickcore/internal/config"
	"quickcore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompleter(t *testing.T) {
	tests := []struct {
		provider string
		wantType Completer
	}{
		{provider: config.ProviderGemini, wantType: &OpenAIRepository{}},
		{provider: config.ProviderOpenAI, wantType: &OpenAIRepository{}},
		{provider: config.ProviderAnthropic, wantType: &AnthropicRepository{}},
		{provider: config.ProviderOllama, wantType: &OllamaRepository{}},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			completer, err := NewCompleter(config.GeneratorConfig{
				Provider: tt.provider,
				APIKey:   "key",
				Model:    "some-model",
			}, nil)

			require.NoError(t, err)
			assert.IsType(t, tt.wantType, completer)
			assert.Equal(t, tt.provider, completer.Provider())
			assert.Equal(t, "some-model", completer.Model())
		})
	}

	_, err := NewCompleter(config.GeneratorConfig{Provider: "mistral"}, nil)
	assert.ErrorContains(t, err, `unsupported generator provider "mistral"`)
}

func TestAnthropicRepository_Complete(t *testing.T) {
	temperature := 0.2
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var body anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-test", body.Model)
		assert.Equal(t, 512, body.MaxTokens)
		assert.Equal(t, "system prompt", body.System)
		require.NotNil(t, body.Temperature)
		assert.InDelta(t, 0.2, *body.Temperature, 1e-9)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)
		assert.Contains(t, body.Messages[0].Content, "document text")
		assert.Contains(t, body.Messages[0].Content, "Respond ONLY with valid JSON.")

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"content":[{"type":"text","text":"{\"title\":\"Plan\"}"}],"usage":{"input_tokens":40,"output_tokens":12}}`)
	}))
	defer server.Close()

	repo := NewAnthropicRepository("secret", server.URL, "claude-test", server.Client(), nil)
	completion, err := repo.Complete(context.Background(), models.CompletionRequest{
		SystemPrompt: "system prompt",
		UserPrompt:   "document text",
		MaxTokens:    512,
		Temperature:  &temperature,
		JSON:         true,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"title":"Plan"}`, completion.Text)
	assert.Equal(t, 40, completion.PromptTokens)
	assert.Equal(t, 12, completion.CompletionTokens)
}

func TestAnthropicRepository_Complete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "bad status", status: http.StatusUnauthorized, body: `{"error":"invalid x-api-key"}`, wantErr: "status 401"},
		{name: "bad json", status: http.StatusOK, body: `not json`, wantErr: "failed to decode API response"},
		{name: "no text", status: http.StatusOK, body: `{"content":[]}`, wantErr: ErrEmptyCompletion.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			repo := NewAnthropicRepository("secret", server.URL, "claude-test", server.Client(), nil)
			_, err := repo.Complete(context.Background(), models.CompletionRequest{UserPrompt: "x", MaxTokens: 10})

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestOpenAIRepository_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/openai/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gemini-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gemini-2.5-flash", body["model"])
		assert.Equal(t, map[string]interface{}{"type": "json_object"}, body["response_format"])
		messages, ok := body["messages"].([]interface{})
		require.True(t, ok)
		require.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
		assert.Equal(t, "user", messages[1].(map[string]interface{})["role"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gemini-2.5-flash",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"title\":\"Plan\"}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 30, "completion_tokens": 8, "total_tokens": 38}
		}`)
	}))
	defer server.Close()

	repo := NewOpenAIRepository(config.ProviderGemini, "gemini-key", server.URL+"/v1beta/openai/", "gemini-2.5-flash", server.Client(), nil)
	completion, err := repo.Complete(context.Background(), models.CompletionRequest{
		SystemPrompt: "system prompt",
		UserPrompt:   "document text",
		MaxTokens:    1024,
		JSON:         true,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"title":"Plan"}`, completion.Text)
	assert.Equal(t, 30, completion.PromptTokens)
	assert.Equal(t, 8, completion.CompletionTokens)
	assert.Equal(t, config.ProviderGemini, repo.Provider())
}

func TestOpenAIRepository_Complete_Errors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"error":{"message":"quota exceeded","type":"rate_limit"}}`)
		}))
		defer server.Close()

		repo := NewOpenAIRepository(config.ProviderOpenAI, "key", server.URL+"/v1", "gpt-4o-mini", server.Client(), nil)
		_, err := repo.Complete(context.Background(), models.CompletionRequest{UserPrompt: "x"})

		assert.ErrorContains(t, err, "quota exceeded")
	})

	t.Run("no choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"1","object":"chat.completion","choices":[]}`)
		}))
		defer server.Close()

		repo := NewOpenAIRepository(config.ProviderOpenAI, "key", server.URL+"/v1", "gpt-4o-mini", server.Client(), nil)
		_, err := repo.Complete(context.Background(), models.CompletionRequest{UserPrompt: "x"})

		assert.ErrorIs(t, err, ErrEmptyCompletion)
	})
}

func TestOllamaRepository_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3.1", body["model"])
		assert.Equal(t, "json", body["format"])
		assert.Equal(t, false, body["stream"])
		options, ok := body["options"].(map[string]interface{})
		require.True(t, ok)
		assert.EqualValues(t, 256, options["num_predict"])

		w.Header().Set("Content-Type", "application/x-ndjson")
		_, _ = io.WriteString(w, `{"model":"llama3.1","created_at":"2024-01-01T00:00:00Z","message":{"role":"assistant","content":"{\"title\":\"Plan\"}"},"done":true,"prompt_eval_count":21,"eval_count":9}`+"\n")
	}))
	defer server.Close()

	repo, err := NewOllamaRepository(server.URL+"/v1", "llama3.1", server.Client(), nil)
	require.NoError(t, err)

	completion, err := repo.Complete(context.Background(), models.CompletionRequest{
		SystemPrompt: "system prompt",
		UserPrompt:   "document text",
		MaxTokens:    256,
		JSON:         true,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"title":"Plan"}`, completion.Text)
	assert.Equal(t, 21, completion.PromptTokens)
	assert.Equal(t, 9, completion.CompletionTokens)
}

func TestOllamaRepository_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"model \"llama3.1\" not found"}`)
	}))
	defer server.Close()

	repo, err := NewOllamaRepository(server.URL, "llama3.1", server.Client(), nil)
	require.NoError(t, err)

	_, err = repo.Complete(context.Background(), models.CompletionRequest{UserPrompt: "x"})
	assert.ErrorContains(t, err, "not found")
}
