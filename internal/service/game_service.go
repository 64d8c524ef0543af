package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"quiz-master/internal/domain"
	"quiz-master/internal/logger"
	"quiz-master/internal/util"

	"go.uber.org/zap"
)

// GameService is the boundary between user intents and the session state machine.
// Every call loads the session, applies one transition and stores it again while holding
// the session's lock.
type GameService interface {
	CreateSession(ctx context.Context) (*domain.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	StartQuiz(ctx context.Context, sessionID, topic, difficulty string) (*domain.Session, error)
	SubmitAnswer(ctx context.Context, sessionID string, optionIndex int) (*domain.Session, domain.UserAnswer, error)
	Advance(ctx context.Context, sessionID string) (*domain.Session, error)
	ResetToSetup(ctx context.Context, sessionID string) (*domain.Session, error)
	GetResults(ctx context.Context, sessionID string) (*domain.Session, domain.Result, error)
	// Wait blocks until in-flight generations finish or ctx is done.
	Wait(ctx context.Context) error
}

type gameService struct {
	repo              domain.SessionRepository
	generator         domain.QuizGenerator
	locks             *keyedMutex
	now               func() time.Time
	newID             func() string
	runner            func(func())
	generationTimeout time.Duration
	inflight          sync.WaitGroup
}

// GameServiceOption customizes a GameService.
type GameServiceOption func(*gameService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) GameServiceOption {
	return func(s *gameService) { s.now = now }
}

// WithIDGenerator replaces the ULID source used for session and generation ids.
func WithIDGenerator(newID func() string) GameServiceOption {
	return func(s *gameService) { s.newID = newID }
}

// WithRunner controls how generation jobs are started. The default runs each job on its
// own goroutine.
func WithRunner(runner func(func())) GameServiceOption {
	return func(s *gameService) { s.runner = runner }
}

// WithGenerationTimeout bounds every generator call. Zero means no bound beyond the
// generator's own HTTP client.
func WithGenerationTimeout(d time.Duration) GameServiceOption {
	return func(s *gameService) { s.generationTimeout = d }
}

// NewGameService creates a new instance of gameService
func NewGameService(repo domain.SessionRepository, generator domain.QuizGenerator, opts ...GameServiceOption) GameService {
	s := &gameService{
		repo:      repo,
		generator: generator,
		locks:     newKeyedMutex(),
		now:       time.Now,
		newID:     util.NewULID,
	}
	s.runner = func(job func()) { go job() }
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *gameService) CreateSession(ctx context.Context) (*domain.Session, error) {
	session := domain.NewSession(s.newID(), s.now())
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	logger.Get().Info("Created quiz session", zap.String("session_id", session.ID))
	return session, nil
}

func (s *gameService) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.repo.Get(ctx, sessionID)
}

// StartQuiz freezes the settings, moves the session to LOADING and launches generation in
// the background. The returned session is the LOADING snapshot.
func (s *gameService) StartQuiz(ctx context.Context, sessionID, topic, difficulty string) (*domain.Session, error) {
	diff, err := domain.ParseDifficulty(difficulty)
	if err != nil {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("difficulty", difficulty)}
	}
	settings, err := domain.NewQuizSettings(topic, diff)
	if err != nil {
		return nil, err
	}

	generationID := s.newID()
	session, err := s.mutate(ctx, sessionID, func(session *domain.Session, now time.Time) error {
		return session.Start(settings, generationID, now)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Quiz generation requested",
		zap.String("session_id", sessionID),
		zap.String("generation_id", generationID),
		zap.String("topic", settings.Topic),
		zap.String("difficulty", string(settings.Difficulty)))

	s.inflight.Add(1)
	s.runner(func() {
		defer s.inflight.Done()
		s.generate(sessionID, generationID, settings)
	})
	return session, nil
}

// generate runs outside any request. Its outcome re-enters the session under the lock and
// is dropped when the session has moved on.
func (s *gameService) generate(sessionID, generationID string, settings domain.QuizSettings) {
	genCtx := context.Background()
	if s.generationTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(genCtx, s.generationTimeout)
		defer cancel()
	}

	started := s.now()
	questions, genErr := s.safeGenerate(genCtx, settings)

	// The store must still be reachable after a generation timeout.
	ctx := context.Background()

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		logger.Get().Warn("Dropping generation result, session unavailable",
			zap.String("session_id", sessionID), zap.Error(err))
		return
	}

	now := s.now()
	if genErr == nil {
		err = session.CompleteGeneration(generationID, questions, now)
		if err != nil && !errors.Is(err, domain.ErrStaleGeneration) {
			genErr = err
		}
	}
	if genErr != nil {
		logger.Get().Error("Quiz generation failed",
			zap.String("session_id", sessionID),
			zap.String("generation_id", generationID),
			zap.Error(genErr))
		err = session.FailGeneration(generationID, domain.GenerationFailedMessage, now)
	}
	if err != nil {
		if errors.Is(err, domain.ErrStaleGeneration) {
			logger.Get().Info("Discarding stale generation result",
				zap.String("session_id", sessionID),
				zap.String("generation_id", generationID),
				zap.String("phase", string(session.State)))
			return
		}
		logger.Get().Error("Unexpected error applying generation result", zap.Error(err))
		return
	}

	if err := s.repo.Save(ctx, session); err != nil {
		logger.Get().Error("Failed to store generation result", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	logger.Get().Info("Quiz generation finished",
		zap.String("session_id", sessionID),
		zap.String("state", string(session.State)),
		zap.Int("questions", len(session.Questions)),
		zap.Duration("elapsed", now.Sub(started)))
}

func (s *gameService) safeGenerate(ctx context.Context, settings domain.QuizSettings) (questions []domain.Question, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.NewGenerationError("generator panicked", fmt.Errorf("%v", r))
		}
	}()
	return s.generator.Generate(ctx, settings)
}

func (s *gameService) SubmitAnswer(ctx context.Context, sessionID string, optionIndex int) (*domain.Session, domain.UserAnswer, error) {
	var answer domain.UserAnswer
	session, err := s.mutate(ctx, sessionID, func(session *domain.Session, now time.Time) error {
		a, err := session.Answer(optionIndex, now)
		answer = a
		return err
	})
	if err != nil {
		return nil, domain.UserAnswer{}, err
	}
	logger.Get().Debug("Answer recorded",
		zap.String("session_id", sessionID),
		zap.Int("question_id", answer.QuestionID),
		zap.Bool("correct", answer.IsCorrect))
	return session, answer, nil
}

func (s *gameService) Advance(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, func(session *domain.Session, now time.Time) error {
		return session.Next(now)
	})
}

func (s *gameService) ResetToSetup(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, func(session *domain.Session, now time.Time) error {
		return session.ResetToSetup(now)
	})
}

func (s *gameService) GetResults(ctx context.Context, sessionID string) (*domain.Session, domain.Result, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, domain.Result{}, err
	}
	result, err := session.Result()
	if err != nil {
		return nil, domain.Result{}, err
	}
	return session, result, nil
}

func (s *gameService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// mutate applies fn to a freshly loaded session and stores it. A failing fn leaves the
// stored session untouched.
func (s *gameService) mutate(ctx context.Context, sessionID string, fn func(*domain.Session, time.Time) error) (*domain.Session, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
