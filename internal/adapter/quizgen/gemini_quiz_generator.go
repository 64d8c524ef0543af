package quizgen

import (
	"context"
	"fmt"
	"net/http"

	"quiz-master/internal/domain"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// geminiModels is the part of *genai.Models the generator calls.
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiQuizGenerator implements domain.QuizGenerator on the Gemini API with a JSON response schema.
type GeminiQuizGenerator struct {
	models        geminiModels
	modelName     string
	questionCount int
	logger        *zap.Logger
}

// NewGeminiQuizGenerator creates the genai client. httpClient may be nil.
func NewGeminiQuizGenerator(ctx context.Context, apiKey, modelName string, httpClient *http.Client, logger *zap.Logger) (*GeminiQuizGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("Gemini model name cannot be empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	logger.Info("Initializing GeminiQuizGenerator", zap.String("model", modelName))
	return newGeminiQuizGenerator(client.Models, modelName, logger), nil
}

func newGeminiQuizGenerator(models geminiModels, modelName string, logger *zap.Logger) *GeminiQuizGenerator {
	return &GeminiQuizGenerator{
		models:        models,
		modelName:     modelName,
		questionCount: domain.QuestionCount,
		logger:        logger,
	}
}

// quizResponseSchema declares an array of question records with all four fields required.
func quizResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				fieldQuestionText: {Type: genai.TypeString},
				fieldOptions: {
					Type:        genai.TypeArray,
					Items:       &genai.Schema{Type: genai.TypeString},
					Description: optionsDescription,
				},
				fieldCorrectAnswerIndex: {
					Type:        genai.TypeInteger,
					Description: indexDescription,
				},
				fieldExplanation: {Type: genai.TypeString},
			},
			Required: requiredFields,
		},
	}
}

// Generate issues one GenerateContent call and normalizes the JSON text it returns.
func (g *GeminiQuizGenerator) Generate(ctx context.Context, settings domain.QuizSettings) ([]domain.Question, error) {
	prompt := BuildPrompt(settings, g.questionCount)
	g.logger.Debug("Requesting quiz from Gemini",
		zap.String("model", g.modelName),
		zap.String("topic", settings.Topic),
		zap.String("difficulty", string(settings.Difficulty)))

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   quizResponseSchema(),
	})
	if err != nil {
		g.logger.Error("Gemini GenerateContent failed", zap.Error(err))
		return nil, domain.NewGenerationError("quiz generation request failed", err)
	}

	text := ""
	if resp != nil {
		text = resp.Text()
	}
	if text == "" {
		g.logger.Warn("Gemini returned no text")
		return nil, domain.NewGenerationError(ErrMessageUnparsable, fmt.Errorf("no data returned from Gemini"))
	}

	questions, err := ParseQuestions(text, g.questionCount)
	if err != nil {
		g.logger.Error("Failed to parse Gemini quiz payload", zap.Error(err), zap.String("raw_response", text))
		return nil, err
	}

	g.logger.Info("Generated quiz", zap.String("provider", "gemini"), zap.Int("questions", len(questions)))
	return questions, nil
}

var _ domain.QuizGenerator = (*GeminiQuizGenerator)(nil)
