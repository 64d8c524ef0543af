package dto

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"quiz-master/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func questions(n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		qs[i] = domain.Question{
			ID:                 i,
			QuestionText:       fmt.Sprintf("Q%d", i),
			Options:            []string{"w", "x", "y", "z"},
			CorrectAnswerIndex: 2,
			Explanation:        "secret explanation",
		}
	}
	return qs
}

func playingSession(t *testing.T, n int) *domain.Session {
	t.Helper()
	s := domain.NewSession("sess", t0)
	require.NoError(t, s.Start(domain.QuizSettings{Topic: "Birds", Difficulty: domain.DifficultyEasy}, "gen", t0))
	require.NoError(t, s.CompleteGeneration("gen", questions(n), t0))
	return s
}

func TestLoadingTip(t *testing.T) {
	assert.Equal(t, "Consulting the archives...", LoadingTip(0))
	assert.Equal(t, "Consulting the archives...", LoadingTip(-time.Second))
	assert.Equal(t, "Drafting challenging questions...", LoadingTip(1500*time.Millisecond))
	assert.Equal(t, "Preparing your challenge...", LoadingTip(6*time.Second))
	assert.Equal(t, "Consulting the archives...", LoadingTip(7500*time.Millisecond))
}

func TestNewSessionResponse_Loading(t *testing.T) {
	s := domain.NewSession("sess", t0)
	require.NoError(t, s.Start(domain.QuizSettings{Topic: "Birds", Difficulty: domain.DifficultyEasy}, "gen", t0))

	resp := NewSessionResponse(s, t0.Add(3*time.Second))
	require.NotNil(t, resp.Loading)
	assert.Equal(t, "Birds", resp.Loading.Topic)
	assert.Equal(t, "Double-checking facts...", resp.Loading.Tip)
	assert.Nil(t, resp.Playing)
	assert.Nil(t, resp.Error)
}

func TestNewSessionResponse_PlayingHidesAnswerUntilAnswered(t *testing.T) {
	s := playingSession(t, 4)

	resp := NewSessionResponse(s, t0)
	require.NotNil(t, resp.Playing)
	assert.Equal(t, 1, resp.Playing.QuestionNumber)
	assert.Equal(t, 4, resp.Playing.TotalQuestions)
	assert.InDelta(t, 25.0, resp.Playing.ProgressPercent, 0.001)
	assert.False(t, resp.Playing.Answered)
	assert.Nil(t, resp.Playing.Feedback)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret explanation")
	assert.NotContains(t, string(raw), "correct_answer_index")

	_, err = s.Answer(1, t0.Add(4*time.Second))
	require.NoError(t, err)
	resp = NewSessionResponse(s, t0)
	require.NotNil(t, resp.Playing.Feedback)
	assert.Equal(t, 1, resp.Playing.Feedback.SelectedOptionIndex)
	assert.Equal(t, 2, resp.Playing.Feedback.CorrectAnswerIndex)
	assert.False(t, resp.Playing.Feedback.IsCorrect)
	assert.Equal(t, "secret explanation", resp.Playing.Feedback.Explanation)
	assert.InDelta(t, 4.0, resp.Playing.Feedback.TimeTaken, 0.001)
}

func TestNewSessionResponse_FinishedAndError(t *testing.T) {
	s := playingSession(t, 2)
	for i := 0; i < 2; i++ {
		_, err := s.Answer(2, t0)
		require.NoError(t, err)
		require.NoError(t, s.Next(t0))
	}
	resp := NewSessionResponse(s, t0)
	require.NotNil(t, resp.Finished)
	assert.Equal(t, 100, resp.Finished.ScorePercentage)
	assert.Equal(t, domain.LabelQuizMaster, resp.Finished.Label)

	failed := domain.NewSession("sess2", t0)
	require.NoError(t, failed.Start(domain.QuizSettings{Topic: "Birds", Difficulty: domain.DifficultyEasy}, "gen", t0))
	require.NoError(t, failed.FailGeneration("gen", "", t0))
	resp = NewSessionResponse(failed, t0)
	require.NotNil(t, resp.Error)
	assert.Equal(t, domain.GenerationFailedMessage, resp.Error.Message)
}

func TestNewResultsResponse(t *testing.T) {
	s := playingSession(t, 3)
	for _, pick := range []int{2, 0, 2} {
		_, err := s.Answer(pick, t0)
		require.NoError(t, err)
		require.NoError(t, s.Next(t0))
	}
	result, err := s.Result()
	require.NoError(t, err)

	resp := NewResultsResponse(s, result)
	assert.Equal(t, 2, resp.CorrectCount)
	assert.Equal(t, 3, resp.TotalQuestions)
	assert.Equal(t, 67, resp.ScorePercentage)
	assert.Equal(t, domain.LabelGoodEffort, resp.Label)
	require.Len(t, resp.Review, 3)
	assert.True(t, resp.Review[0].IsCorrect)
	assert.False(t, resp.Review[1].IsCorrect)
	require.NotNil(t, resp.Review[1].SelectedOptionIndex)
	assert.Equal(t, 0, *resp.Review[1].SelectedOptionIndex)
	assert.Equal(t, "secret explanation", resp.Review[2].Explanation)
}

func TestNewDifficultiesResponse(t *testing.T) {
	resp := NewDifficultiesResponse()
	assert.Len(t, resp.Difficulties, 4)
	assert.Equal(t, domain.DifficultyMedium, resp.Default)
}
