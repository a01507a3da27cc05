package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickcore/internal/models"

	"go.uber.org/zap"
)

// ErrGenerationFailed wraps every failure of a study plan generation call
var ErrGenerationFailed = errors.New("study plan generation failed")

// Completer sends one prompt to a language model
type Completer interface {
	Complete(ctx context.Context, req models.CompletionRequest) (*models.Completion, error)
	Provider() string
	Model() string
}

// GenerationOptions tunes the request sent for each document
type GenerationOptions struct {
	MaxTokens   int
	Temperature *float64
	// MaxInputTokens truncates long documents before the call; zero keeps the full text.
	MaxInputTokens int
}

// AIService generates study plans from document text
type AIService struct {
	completer Completer
	tokenizer Tokenizer
	options   GenerationOptions
	logger    *zap.Logger
}

// NewAIService creates a new AI service. The tokenizer may be nil when no input budget is set.
func NewAIService(completer Completer, options GenerationOptions, tokenizer Tokenizer, logger *zap.Logger) *AIService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIService{
		completer: completer,
		tokenizer: tokenizer,
		options:   options,
		logger:    logger.Named("generator"),
	}
}

// Provider returns the name of the backing language model provider
func (s *AIService) Provider() string { return s.completer.Provider() }

// Model returns the backing model name
func (s *AIService) Model() string { return s.completer.Model() }

// GenerateStudyPlan makes exactly one language model call for text and parses the answer
func (s *AIService) GenerateStudyPlan(ctx context.Context, text string) (*models.StudyPlanData, error) {
	provider, model := s.completer.Provider(), s.completer.Model()
	log := s.logger.With(zap.String("provider", provider), zap.String("model", model))

	if s.options.MaxInputTokens > 0 && s.tokenizer != nil {
		truncated, total, cut := truncateTokens(s.tokenizer, text, s.options.MaxInputTokens)
		if cut {
			log.Warn("Document exceeds input budget, truncating",
				zap.Int("tokens", total),
				zap.Int("max_input_tokens", s.options.MaxInputTokens),
			)
			generationTruncatedInputsTotal.WithLabelValues(provider, model).Inc()
			text = truncated
		}
	}

	log.Info("Requesting study plan", zap.Int("text_bytes", len(text)))

	startTime := time.Now()
	completion, err := s.completer.Complete(ctx, models.CompletionRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   buildUserPrompt(text),
		MaxTokens:    s.options.MaxTokens,
		Temperature:  s.options.Temperature,
		JSON:         true,
	})
	duration := time.Since(startTime)
	generationDuration.WithLabelValues(provider, model).Observe(duration.Seconds())

	if err == nil && completion == nil {
		err = errors.New("no completion returned")
	}
	if err != nil {
		log.Error("Language model call failed", zap.Duration("duration", duration), zap.Error(err))
		generationRequestsTotal.WithLabelValues(provider, model, "error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	if completion.PromptTokens > 0 {
		generationPromptTokens.WithLabelValues(provider, model).Observe(float64(completion.PromptTokens))
	}
	if completion.CompletionTokens > 0 {
		generationCompletionTokens.WithLabelValues(provider, model).Observe(float64(completion.CompletionTokens))
	}

	plan, err := ParseStudyPlan(completion.Text)
	if err != nil {
		log.Error("Failed to parse study plan", zap.Error(err), zap.Int("response_bytes", len(completion.Text)))
		log.Debug("Unparseable response", zap.String("response", completion.Text))
		generationRequestsTotal.WithLabelValues(provider, model, "malformed").Inc()
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	generationRequestsTotal.WithLabelValues(provider, model, "success").Inc()
	log.Info("Study plan generated",
		zap.Duration("duration", duration),
		zap.Int("topics", len(plan.Topics)),
		zap.Int("prompt_tokens", completion.PromptTokens),
		zap.Int("completion_tokens", completion.CompletionTokens),
	)

	return plan, nil
}
