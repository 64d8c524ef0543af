package domain

import (
	"fmt"
	"time"
)

// Phase is one of the five mutually exclusive states of a quiz session.
type Phase string

const (
	PhaseSetup    Phase = "SETUP"
	PhaseLoading  Phase = "LOADING"
	PhasePlaying  Phase = "PLAYING"
	PhaseFinished Phase = "FINISHED"
	PhaseError    Phase = "ERROR"
)

// GenerationFailedMessage is what the user sees when a quiz could not be generated.
const GenerationFailedMessage = "Failed to generate quiz. Please try again."

// Session is the complete mutable state of one quiz attempt.
//
// Only the transition methods below mutate it. Each one checks the current phase first and
// returns an error without touching any field when the event is not allowed, so a session
// can never hold data that belongs to a different phase (for example PLAYING with no
// questions).
type Session struct {
	ID              string       `json:"id"`
	State           Phase        `json:"state"`
	Settings        QuizSettings `json:"settings"`
	Questions       []Question   `json:"questions"`
	CurrentIndex    int          `json:"currentIndex"`
	Answers         []UserAnswer `json:"answers"`
	CurrentAnswered bool         `json:"currentAnswered"`
	ErrorMessage    string       `json:"errorMessage,omitempty"`
	GenerationID    string       `json:"generationId,omitempty"`
	LoadingSince    time.Time    `json:"loadingSince,omitempty"`
	QuestionShownAt time.Time    `json:"questionShownAt,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// NewSession returns a session in SETUP.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     PhaseSetup,
		Settings:  QuizSettings{Difficulty: DefaultDifficulty},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Start moves SETUP -> LOADING. generationID tags the request so that only its own result
// can complete the load.
func (s *Session) Start(settings QuizSettings, generationID string, now time.Time) error {
	if s.State != PhaseSetup {
		return NewInvalidTransitionError(s.State, "start")
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if generationID == "" {
		return NewInvalidInputError("generation id is required")
	}
	s.Settings = settings
	s.ErrorMessage = ""
	s.GenerationID = generationID
	s.LoadingSince = now
	s.State = PhaseLoading
	s.UpdatedAt = now
	return nil
}

// CompleteGeneration moves LOADING -> PLAYING with the generated questions.
// A result for a different generation, or arriving after the session left LOADING, is
// rejected with ErrStaleGeneration.
func (s *Session) CompleteGeneration(generationID string, questions []Question, now time.Time) error {
	if err := s.checkGeneration(generationID); err != nil {
		return err
	}
	if err := ValidateQuestions(questions); err != nil {
		return err
	}
	s.Questions = append([]Question(nil), questions...)
	s.CurrentIndex = 0
	s.Answers = nil
	s.CurrentAnswered = false
	s.GenerationID = ""
	s.QuestionShownAt = now
	s.State = PhasePlaying
	s.UpdatedAt = now
	return nil
}

// FailGeneration moves LOADING -> ERROR and stores the user-facing message.
func (s *Session) FailGeneration(generationID string, message string, now time.Time) error {
	if err := s.checkGeneration(generationID); err != nil {
		return err
	}
	if message == "" {
		message = GenerationFailedMessage
	}
	s.ErrorMessage = message
	s.GenerationID = ""
	s.State = PhaseError
	s.UpdatedAt = now
	return nil
}

func (s *Session) checkGeneration(generationID string) error {
	if s.State != PhaseLoading || s.GenerationID != generationID {
		return NewError(CodeStaleGeneration, ErrStaleGeneration.Message, nil).
			WithContext("phase", string(s.State)).
			WithContext("generation_id", generationID)
	}
	return nil
}

// Answer records the user's confirmed choice for the current question. It does not
// advance; call Next for that. Only one answer per question is accepted.
func (s *Session) Answer(optionIndex int, now time.Time) (UserAnswer, error) {
	if s.State != PhasePlaying {
		return UserAnswer{}, NewInvalidTransitionError(s.State, "answer")
	}
	if s.CurrentAnswered {
		return UserAnswer{}, NewError(CodeAlreadyAnswered, ErrAlreadyAnswered.Message, nil).
			WithContext("question_index", s.CurrentIndex)
	}
	q := s.Questions[s.CurrentIndex]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return UserAnswer{}, ValidationErrors{NewOutOfRangeError("option_index", optionIndex, 0, len(q.Options)-1)}
	}
	elapsed := 0.0
	if !s.QuestionShownAt.IsZero() && now.After(s.QuestionShownAt) {
		elapsed = now.Sub(s.QuestionShownAt).Seconds()
	}
	s.Answers = RecordTimedAnswer(s.Questions, s.CurrentIndex, s.Answers, optionIndex, elapsed)
	s.CurrentAnswered = true
	s.UpdatedAt = now
	return s.Answers[len(s.Answers)-1], nil
}

// Next advances to the following question, or to FINISHED after the last one.
func (s *Session) Next(now time.Time) error {
	if s.State != PhasePlaying {
		return NewInvalidTransitionError(s.State, "advance")
	}
	if !s.CurrentAnswered {
		return NewError(CodeNotAnswered, ErrNotAnswered.Message, nil).
			WithContext("question_index", s.CurrentIndex)
	}
	if s.CurrentIndex < len(s.Questions)-1 {
		s.CurrentIndex++
		s.CurrentAnswered = false
		s.QuestionShownAt = now
	} else {
		s.State = PhaseFinished
	}
	s.UpdatedAt = now
	return nil
}

// PlayAgain moves FINISHED -> SETUP and clears the quiz data.
func (s *Session) PlayAgain(now time.Time) error {
	if s.State != PhaseFinished {
		return NewInvalidTransitionError(s.State, "play again")
	}
	s.clearQuiz()
	s.State = PhaseSetup
	s.UpdatedAt = now
	return nil
}

// Retry moves ERROR -> SETUP and clears the error message.
func (s *Session) Retry(now time.Time) error {
	if s.State != PhaseError {
		return NewInvalidTransitionError(s.State, "retry")
	}
	s.ErrorMessage = ""
	s.State = PhaseSetup
	s.UpdatedAt = now
	return nil
}

// ResetToSetup is the single "go back" intent: play again when finished, retry after an
// error, nothing when already in setup.
func (s *Session) ResetToSetup(now time.Time) error {
	switch s.State {
	case PhaseFinished:
		return s.PlayAgain(now)
	case PhaseError:
		return s.Retry(now)
	case PhaseSetup:
		return nil
	default:
		return NewInvalidTransitionError(s.State, "reset")
	}
}

func (s *Session) clearQuiz() {
	s.Questions = nil
	s.Answers = nil
	s.CurrentIndex = 0
	s.CurrentAnswered = false
	s.QuestionShownAt = time.Time{}
}

// CurrentQuestion returns the question being played.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.State != PhasePlaying || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// IsLastQuestion reports whether Next will finish the quiz.
func (s *Session) IsLastQuestion() bool {
	return s.State == PhasePlaying && s.CurrentIndex == len(s.Questions)-1
}

// Result scores the session. Only meaningful once FINISHED.
func (s *Session) Result() (Result, error) {
	if s.State != PhaseFinished {
		return Result{}, NewInvalidTransitionError(s.State, "score")
	}
	return Score(s.Questions, s.Answers), nil
}

// CheckInvariants verifies the per-phase shape of the session. Used after loading a
// session from the store.
func (s *Session) CheckInvariants() error {
	switch s.State {
	case PhaseSetup, PhaseLoading:
		if len(s.Questions) != 0 || len(s.Answers) != 0 {
			return fmt.Errorf("%s session holds quiz data", s.State)
		}
		if s.State == PhaseLoading && s.GenerationID == "" {
			return fmt.Errorf("loading session without generation id")
		}
	case PhasePlaying:
		if len(s.Questions) == 0 {
			return fmt.Errorf("playing session without questions")
		}
		if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
			return fmt.Errorf("current index %d out of range", s.CurrentIndex)
		}
		want := s.CurrentIndex
		if s.CurrentAnswered {
			want++
		}
		if len(s.Answers) != want {
			return fmt.Errorf("expected %d answers, have %d", want, len(s.Answers))
		}
	case PhaseFinished:
		if len(s.Answers) > len(s.Questions) {
			return fmt.Errorf("more answers than questions")
		}
	case PhaseError:
		if s.ErrorMessage == "" {
			return fmt.Errorf("error session without message")
		}
	default:
		return fmt.Errorf("unknown phase %q", s.State)
	}
	return nil
}
