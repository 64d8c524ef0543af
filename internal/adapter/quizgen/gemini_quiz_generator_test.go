package quizgen

import (
	"context"
	"errors"
	"testing"

	"quiz-master/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeGeminiModels struct {
	text string
	err  error

	gotModel    string
	gotPrompt   string
	gotConfig   *genai.GenerateContentConfig
	calledTimes int
}

func (f *fakeGeminiModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calledTimes++
	f.gotModel = model
	f.gotConfig = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.gotPrompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: f.text}}}},
		},
	}, nil
}

var testSettings = domain.QuizSettings{Topic: "The Solar System", Difficulty: domain.DifficultyHard}

func TestGeminiQuizGenerator_Generate(t *testing.T) {
	fake := &fakeGeminiModels{text: samplePayload(domain.QuestionCount)}
	gen := newGeminiQuizGenerator(fake, "gemini-2.5-flash", zap.NewNop())

	questions, err := gen.Generate(context.Background(), testSettings)
	require.NoError(t, err)
	assert.Len(t, questions, domain.QuestionCount)

	assert.Equal(t, 1, fake.calledTimes)
	assert.Equal(t, "gemini-2.5-flash", fake.gotModel)
	assert.Contains(t, fake.gotPrompt, "The Solar System")
	assert.Contains(t, fake.gotPrompt, "Hard")
	require.NotNil(t, fake.gotConfig)
	assert.Equal(t, "application/json", fake.gotConfig.ResponseMIMEType)
	require.NotNil(t, fake.gotConfig.ResponseSchema)
	assert.Equal(t, genai.TypeArray, fake.gotConfig.ResponseSchema.Type)
	assert.ElementsMatch(t, requiredFields, fake.gotConfig.ResponseSchema.Items.Required)
}

func TestGeminiQuizGenerator_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fake    *fakeGeminiModels
		wantErr error
	}{
		{name: "transport failure", fake: &fakeGeminiModels{err: errors.New("quota exceeded")}, wantErr: domain.ErrGeneration},
		{name: "empty text", fake: &fakeGeminiModels{text: ""}, wantErr: domain.ErrGeneration},
		{name: "not json", fake: &fakeGeminiModels{text: "I cannot do that"}, wantErr: domain.ErrGeneration},
		{name: "short batch", fake: &fakeGeminiModels{text: samplePayload(4)}, wantErr: domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := newGeminiQuizGenerator(tt.fake, "gemini-2.5-flash", zap.NewNop())
			questions, err := gen.Generate(context.Background(), testSettings)
			require.Error(t, err)
			assert.Nil(t, questions)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewGeminiQuizGenerator_RequiresKeyAndModel(t *testing.T) {
	_, err := NewGeminiQuizGenerator(context.Background(), "", "gemini-2.5-flash", nil, zap.NewNop())
	assert.Error(t, err)
	_, err = NewGeminiQuizGenerator(context.Background(), "key", "", nil, zap.NewNop())
	assert.Error(t, err)
}
