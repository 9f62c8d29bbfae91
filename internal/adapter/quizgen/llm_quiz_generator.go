// Package quizgen asks a text-generation model for quiz questions and
// validates what comes back.
package quizgen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizzy/internal/config"
	"quizzy/internal/domain"
	"quizzy/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// LLMQuizGenerator implements domain.QuizGenerator with a single model call
// per request. It never retries.
type LLMQuizGenerator struct {
	model       llms.Model
	maxTokens   int
	temperature float64
	timeout     time.Duration
}

// NewLLMQuizGenerator creates a generator backed by model.
func NewLLMQuizGenerator(model llms.Model, cfg config.LLMConfig) (*LLMQuizGenerator, error) {
	if model == nil {
		return nil, errors.New("llm model cannot be nil")
	}
	return &LLMQuizGenerator{
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}, nil
}

// GenerateQuestions returns exactly n validated questions or an error. Model
// failures are reported as LLM service errors; malformed output as
// *domain.GenerationParseError.
func (g *LLMQuizGenerator) GenerateQuestions(ctx context.Context, content string, n int) ([]domain.GeneratedQuestion, error) {
	l := logger.Get()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	opts := []llms.CallOption{llms.WithTemperature(g.temperature)}
	if g.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(g.maxTokens))
	}

	start := time.Now()
	raw, err := llms.GenerateFromSinglePrompt(ctx, g.model, BuildPrompt(content, n), opts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.Duration("timeout", g.timeout), zap.Error(err))
			return nil, domain.NewLLMServiceError(fmt.Errorf("LLM request timed out: %w", err))
		}
		l.Error("Failed to get response from LLM", zap.Error(err))
		return nil, domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}
	l.Debug("Raw LLM response received",
		zap.Int("requested", n),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_bytes", len(raw)))

	questions, err := ParseQuestionBatch(raw, n)
	if err != nil {
		l.Error("Rejected generated question batch", zap.Error(err), zap.String("raw_response", raw))
		return nil, err
	}

	l.Info("Generated quiz questions", zap.Int("count", len(questions)))
	return questions, nil
}

var _ domain.QuizGenerator = (*LLMQuizGenerator)(nil)
