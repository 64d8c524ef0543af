package quizgen

import (
	"context"
	"fmt"
	"net/http"

	"quiz-master/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// LangchainQuizGenerator implements domain.QuizGenerator on any langchaingo model. The
// shape is described in the prompt and the array is cut out of the reply.
type LangchainQuizGenerator struct {
	llm           llms.Model
	provider      string
	questionCount int
	logger        *zap.Logger
}

// NewOllamaQuizGenerator connects to an Ollama server through langchaingo.
func NewOllamaQuizGenerator(serverURL, modelName string, httpClient *http.Client, logger *zap.Logger) (*LangchainQuizGenerator, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("Ollama server URL cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("Ollama model name cannot be empty")
	}
	opts := []ollama.Option{ollama.WithServerURL(serverURL), ollama.WithModel(modelName)}
	if httpClient != nil {
		opts = append(opts, ollama.WithHTTPClient(httpClient))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	logger.Info("Initializing Ollama quiz generator", zap.String("server_url", serverURL), zap.String("model", modelName))
	return NewLangchainQuizGenerator(llm, "ollama", logger), nil
}

func NewLangchainQuizGenerator(llm llms.Model, provider string, logger *zap.Logger) *LangchainQuizGenerator {
	return &LangchainQuizGenerator{
		llm:           llm,
		provider:      provider,
		questionCount: domain.QuestionCount,
		logger:        logger,
	}
}

// Generate sends a single prompt and parses the reply.
func (g *LangchainQuizGenerator) Generate(ctx context.Context, settings domain.QuizSettings) ([]domain.Question, error) {
	prompt := BuildJSONPrompt(settings, g.questionCount)
	g.logger.Debug("Requesting quiz from LLM",
		zap.String("provider", g.provider),
		zap.String("topic", settings.Topic),
		zap.String("difficulty", string(settings.Difficulty)))

	raw, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(0.7))
	if err != nil {
		g.logger.Error("LLM call failed", zap.String("provider", g.provider), zap.Error(err))
		return nil, domain.NewGenerationError("quiz generation request failed", err)
	}
	g.logger.Debug("Raw LLM response received", zap.String("raw_response", raw))

	questions, err := ParseQuestions(raw, g.questionCount)
	if err != nil {
		g.logger.Error("Failed to parse LLM quiz payload", zap.Error(err), zap.String("raw_response", raw))
		return nil, err
	}

	g.logger.Info("Generated quiz", zap.String("provider", g.provider), zap.Int("questions", len(questions)))
	return questions, nil
}

var _ domain.QuizGenerator = (*LangchainQuizGenerator)(nil)
