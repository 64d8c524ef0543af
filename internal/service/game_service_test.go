package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"quiz-master/internal/adapter"
	"quiz-master/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockQuizGenerator is a testify mock for domain.QuizGenerator.
type MockQuizGenerator struct {
	mock.Mock
}

func (m *MockQuizGenerator) Generate(ctx context.Context, settings domain.QuizSettings) ([]domain.Question, error) {
	args := m.Called(ctx, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func makeQuestions(n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		qs[i] = domain.Question{
			ID:                 i,
			QuestionText:       fmt.Sprintf("Question %d?", i+1),
			Options:            []string{"A", "B", "C", "D"},
			CorrectAnswerIndex: i % 4,
			Explanation:        "Because.",
		}
	}
	return qs
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// deferredRunner keeps generation jobs until the test releases them.
type deferredRunner struct {
	jobs []func()
}

func (r *deferredRunner) Run(job func()) { r.jobs = append(r.jobs, job) }

func (r *deferredRunner) RunAll() {
	jobs := r.jobs
	r.jobs = nil
	for _, job := range jobs {
		job()
	}
}

type serviceFixture struct {
	svc    GameService
	gen    *MockQuizGenerator
	repo   domain.SessionRepository
	clock  *testClock
	runner *deferredRunner
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		gen:    &MockQuizGenerator{},
		repo:   NewSessionRepository(adapter.NewMemoryCacheAdapter(), time.Hour),
		clock:  &testClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		runner: &deferredRunner{},
	}
	ids := 0
	f.svc = NewGameService(f.repo, f.gen,
		WithClock(f.clock.Now),
		WithRunner(f.runner.Run),
		WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("id-%03d", ids)
		}),
	)
	return f
}

// playing returns a session that already holds n questions.
func (f *serviceFixture) playing(t *testing.T, n int) *domain.Session {
	t.Helper()
	ctx := context.Background()
	f.gen.On("Generate", mock.Anything, mock.Anything).Return(makeQuestions(n), nil).Once()

	session, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = f.svc.StartQuiz(ctx, session.ID, "Oceans", "easy")
	require.NoError(t, err)
	f.runner.RunAll()

	session, err = f.svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PhasePlaying, session.State)
	return session
}

func TestGameService_CreateAndGet(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	session, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseSetup, session.State)
	assert.Equal(t, domain.DefaultDifficulty, session.Settings.Difficulty)

	loaded, err := f.svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, loaded.ID)

	_, err = f.svc.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestGameService_StartQuiz_Success(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.gen.On("Generate", mock.Anything, domain.QuizSettings{Topic: "Volcanoes", Difficulty: domain.DifficultyHard}).
		Return(makeQuestions(domain.QuestionCount), nil).Once()

	session, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	loading, err := f.svc.StartQuiz(ctx, session.ID, "  Volcanoes ", "HARD")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseLoading, loading.State)
	assert.Equal(t, "Volcanoes", loading.Settings.Topic)
	assert.NotEmpty(t, loading.GenerationID)

	f.clock.Advance(3 * time.Second)
	f.runner.RunAll()

	playing, err := f.svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhasePlaying, playing.State)
	assert.Len(t, playing.Questions, domain.QuestionCount)
	assert.Equal(t, 0, playing.CurrentIndex)
	assert.Empty(t, playing.Answers)
	assert.Empty(t, playing.GenerationID)
	f.gen.AssertExpectations(t)
}

func TestGameService_StartQuiz_InvalidInput(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	session, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = f.svc.StartQuiz(ctx, session.ID, "   ", "Easy")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.StartQuiz(ctx, session.ID, "Cats", "impossible")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.StartQuiz(ctx, "missing", "Cats", "Easy")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	stored, err := f.svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseSetup, stored.State)
	assert.Empty(t, f.runner.jobs)
	f.gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestGameService_StartQuiz_WhileLoading(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	session, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = f.svc.StartQuiz(ctx, session.ID, "Cats", "Easy")
	require.NoError(t, err)
	_, err = f.svc.StartQuiz(ctx, session.ID, "Dogs", "Easy")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Len(t, f.runner.jobs, 1)
}

func TestGameService_GenerationFailures(t *testing.T) {
	tests := []struct {
		name      string
		questions []domain.Question
		err       error
	}{
		{name: "generator error", err: domain.NewGenerationError("empty or unparsable response", nil)},
		{name: "upstream failure", err: errors.New("connection reset")},
		{name: "invalid batch", questions: []domain.Question{{ID: 0, QuestionText: "Q", Options: []string{"a", "b"}, CorrectAnswerIndex: 0}}},
		{name: "empty batch", questions: []domain.Question{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)
			ctx := context.Background()
			if tt.err != nil {
				f.gen.On("Generate", mock.Anything, mock.Anything).Return(nil, tt.err).Once()
			} else {
				f.gen.On("Generate", mock.Anything, mock.Anything).Return(tt.questions, nil).Once()
			}

			session, err := f.svc.CreateSession(ctx)
			require.NoError(t, err)
			_, err = f.svc.StartQuiz(ctx, session.ID, "Cats", "Easy")
			require.NoError(t, err)
			f.runner.RunAll()

			failed, err := f.svc.GetSession(ctx, session.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.PhaseError, failed.State)
			assert.Equal(t, domain.GenerationFailedMessage, failed.ErrorMessage)
			assert.Empty(t, failed.Questions)

			retried, err := f.svc.ResetToSetup(ctx, session.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.PhaseSetup, retried.State)
			assert.Empty(t, retried.ErrorMessage)
		})
	}
}

func TestGameService_GeneratorPanic(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.gen.On("Generate", mock.Anything, mock.Anything).Run(func(mock.Arguments) { panic("boom") })

	session, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = f.svc.StartQuiz(ctx, session.ID, "Cats", "Easy")
	require.NoError(t, err)
	f.runner.RunAll()

	failed, err := f.svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseError, failed.State)
}

func TestGameService_StaleGenerationDiscarded(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.gen.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Once()
	f.gen.On("Generate", mock.Anything, mock.Anything).Return(makeQuestions(domain.QuestionCount), nil).Once()

	session, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = f.svc.StartQuiz(ctx, session.ID, "First", "Easy")
	require.NoError(t, err)
	first := f.runner.jobs[0]
	f.runner.jobs = nil

	// Simulate the session having been reset and restarted while the first job was pending.
	stored, err := f.repo.Get(ctx, session.ID)
	require.NoError(t, err)
	require.NoError(t, stored.FailGeneration(stored.GenerationID, "", f.clock.Now()))
	require.NoError(t, stored.Retry(f.clock.Now()))
	require.NoError(t, f.repo.Save(ctx, stored))
	_, err = f.svc.StartQuiz(ctx, session.ID, "Second", "Easy")
	require.NoError(t, err)

	// The late failure of the first request must not disturb the second one.
	first()
	still, err := f.svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseLoading, still.State)
	assert.Equal(t, "Second", still.Settings.Topic)

	f.runner.RunAll()
	done, err := f.svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhasePlaying, done.State)
}

func TestGameService_PlayThrough(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	session := f.playing(t, domain.QuestionCount)

	for i := 0; i < domain.QuestionCount; i++ {
		f.clock.Advance(2 * time.Second)
		choice := session.Questions[i].CorrectAnswerIndex
		if i >= 7 {
			choice = (choice + 1) % 4
		}
		_, answer, err := f.svc.SubmitAnswer(ctx, session.ID, choice)
		require.NoError(t, err)
		assert.Equal(t, i, answer.QuestionID)
		assert.Equal(t, i < 7, answer.IsCorrect)
		assert.InDelta(t, 2.0, answer.TimeTaken, 0.001)

		_, err = f.svc.Advance(ctx, session.ID)
		require.NoError(t, err)
	}

	finished, result, err := f.svc.GetResults(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseFinished, finished.State)
	assert.Len(t, finished.Answers, domain.QuestionCount)
	assert.Equal(t, domain.Result{CorrectCount: 7, Total: 10, Percentage: 70, Label: domain.LabelGreatJob}, result)

	reset, err := f.svc.ResetToSetup(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseSetup, reset.State)
	assert.Empty(t, reset.Questions)
	assert.Empty(t, reset.Answers)
	assert.Equal(t, 0, reset.CurrentIndex)
}

func TestGameService_AnswerGuards(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	session := f.playing(t, 2)

	_, err := f.svc.Advance(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrNotAnswered)

	_, _, err = f.svc.SubmitAnswer(ctx, session.ID, 7)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = f.svc.SubmitAnswer(ctx, session.ID, 1)
	require.NoError(t, err)
	_, _, err = f.svc.SubmitAnswer(ctx, session.ID, 2)
	assert.ErrorIs(t, err, domain.ErrAlreadyAnswered)

	stored, err := f.svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Answers, 1)

	_, _, err = f.svc.GetResults(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.svc.ResetToSetup(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestGameService_ConcurrentAnswersRecordOnce(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	session := f.playing(t, domain.QuestionCount)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(choice int) {
			defer wg.Done()
			if _, _, err := f.svc.SubmitAnswer(ctx, session.ID, choice%4); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	stored, err := f.svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Answers, 1)
}

func TestGameService_WaitForBackgroundGeneration(t *testing.T) {
	gen := &MockQuizGenerator{}
	release := make(chan struct{})
	gen.On("Generate", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(makeQuestions(domain.QuestionCount), nil).Once()

	repo := NewSessionRepository(adapter.NewMemoryCacheAdapter(), time.Hour)
	svc := NewGameService(repo, gen, WithGenerationTimeout(time.Minute))
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = svc.StartQuiz(ctx, session.ID, "Trains", "")
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.Wait(short), context.DeadlineExceeded)

	close(release)
	require.NoError(t, svc.Wait(ctx))

	loaded, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhasePlaying, loaded.State)
	assert.Equal(t, domain.DifficultyMedium, loaded.Settings.Difficulty)
}
