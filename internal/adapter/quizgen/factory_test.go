package quizgen

import (
	"context"
	"testing"
	"time"

	"quiz-master/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LLMConfig
		want    interface{}
		wantErr bool
	}{
		{
			name: "gemini",
			cfg:  config.LLMConfig{Provider: config.ProviderGemini, APIKey: "key", Timeout: time.Second},
			want: &GeminiQuizGenerator{},
		},
		{
			name: "openai",
			cfg:  config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "key", Model: "gpt-4o", Timeout: time.Second},
			want: &OpenAIQuizGenerator{},
		},
		{
			name: "ollama",
			cfg:  config.LLMConfig{Provider: config.ProviderOllama, ServerURL: "http://localhost:11434", Timeout: time.Second},
			want: &LangchainQuizGenerator{},
		},
		{
			name:    "gemini without key",
			cfg:     config.LLMConfig{Provider: config.ProviderGemini},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     config.LLMConfig{Provider: "bard"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewFromConfig(context.Background(), tt.cfg, zap.NewNop())
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, gen)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, gen)
		})
	}
}

func TestNewFromConfig_DefaultModel(t *testing.T) {
	gen, err := NewFromConfig(context.Background(), config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "key"}, zap.NewNop())
	require.NoError(t, err)
	openaiGen, ok := gen.(*OpenAIQuizGenerator)
	require.True(t, ok)
	assert.Equal(t, config.DefaultModel(config.ProviderOpenAI), openaiGen.modelName)
}
