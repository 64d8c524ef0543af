package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"quiz-master/internal/domain"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const submitQuestionsTool = "submit_questions"

// OpenAIQuizGenerator implements domain.QuizGenerator with a forced function call whose
// arguments carry the question array.
type OpenAIQuizGenerator struct {
	client        *openai.Client
	modelName     string
	questionCount int
	logger        *zap.Logger
}

// NewOpenAIQuizGenerator builds the client. baseURL overrides the API endpoint when non-empty.
func NewOpenAIQuizGenerator(apiKey, modelName, baseURL string, httpClient *http.Client, logger *zap.Logger) (*OpenAIQuizGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("OpenAI model name cannot be empty")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	logger.Info("Initializing OpenAIQuizGenerator", zap.String("model", modelName))
	return &OpenAIQuizGenerator{
		client:        openai.NewClientWithConfig(cfg),
		modelName:     modelName,
		questionCount: domain.QuestionCount,
		logger:        logger,
	}, nil
}

func submitQuestionsDefinition() *openai.FunctionDefinition {
	return &openai.FunctionDefinition{
		Name:        submitQuestionsTool,
		Description: "Submit the generated trivia questions",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"questions": map[string]interface{}{
					"type":  "array",
					"items": questionJSONSchema(),
				},
			},
			"required": []string{"questions"},
		},
	}
}

// Generate issues one chat completion and decodes the tool call arguments.
func (g *OpenAIQuizGenerator) Generate(ctx context.Context, settings domain.QuizSettings) ([]domain.Question, error) {
	prompt := BuildPrompt(settings, g.questionCount)
	g.logger.Debug("Requesting quiz from OpenAI",
		zap.String("model", g.modelName),
		zap.String("topic", settings.Topic),
		zap.String("difficulty", string(settings.Difficulty)))

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert trivia quiz generator. Generate accurate multiple choice questions with exactly 4 options each.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Tools: []openai.Tool{
			{Type: openai.ToolTypeFunction, Function: submitQuestionsDefinition()},
		},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: submitQuestionsTool},
		},
	})
	if err != nil {
		g.logger.Error("OpenAI chat completion failed", zap.Error(err))
		return nil, domain.NewGenerationError("quiz generation request failed", err)
	}

	args, err := toolArguments(resp)
	if err != nil {
		g.logger.Warn("OpenAI response carried no usable tool call", zap.Error(err))
		return nil, domain.NewGenerationError(ErrMessageUnparsable, err)
	}

	var payload struct {
		Questions json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal([]byte(args), &payload); err != nil {
		g.logger.Error("Failed to decode tool arguments", zap.Error(err), zap.String("arguments", args))
		return nil, domain.NewGenerationError(ErrMessageUnparsable, err)
	}

	questions, err := ParseQuestions(string(payload.Questions), g.questionCount)
	if err != nil {
		g.logger.Error("Failed to parse OpenAI quiz payload", zap.Error(err), zap.String("arguments", args))
		return nil, err
	}

	g.logger.Info("Generated quiz", zap.String("provider", "openai"), zap.Int("questions", len(questions)))
	return questions, nil
}

func toolArguments(resp openai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		return "", fmt.Errorf("no tool calls in response")
	}
	call := msg.ToolCalls[0]
	if call.Function.Name != submitQuestionsTool {
		return "", fmt.Errorf("unexpected tool call: %s", call.Function.Name)
	}
	if call.Function.Arguments == "" {
		return "", fmt.Errorf("empty tool arguments")
	}
	return call.Function.Arguments, nil
}

var _ domain.QuizGenerator = (*OpenAIQuizGenerator)(nil)
