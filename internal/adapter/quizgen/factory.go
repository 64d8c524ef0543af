package quizgen

import (
	"context"
	"fmt"
	"net/http"

	"quiz-master/internal/config"
	"quiz-master/internal/domain"

	"go.uber.org/zap"
)

// NewFromConfig picks the generator for cfg.Provider. Every provider shares one HTTP
// client bounded by cfg.Timeout.
func NewFromConfig(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (domain.QuizGenerator, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	model := cfg.Model
	if model == "" {
		model = config.DefaultModel(cfg.Provider)
	}

	var (
		gen domain.QuizGenerator
		err error
	)
	switch cfg.Provider {
	case config.ProviderGemini:
		gen, err = NewGeminiQuizGenerator(ctx, cfg.APIKey, model, httpClient, logger)
	case config.ProviderOpenAI:
		gen, err = NewOpenAIQuizGenerator(cfg.APIKey, model, "", httpClient, logger)
	case config.ProviderOllama:
		gen, err = NewOllamaQuizGenerator(cfg.ServerURL, model, httpClient, logger)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return gen, nil
}
