package models

// CompletionRequest is a single prompt sent to a language model provider
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  *float64
	// JSON asks the provider for a JSON-only answer when it supports that mode.
	JSON bool
}

// Completion is the provider's answer to a CompletionRequest
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}
