package dto

import (
	"time"

	"quiz-master/internal/domain"
	"quiz-master/internal/util"
)

// StartQuizRequest is the body of POST /api/sessions/:id/start
// @Description Topic and difficulty of the quiz to generate
type StartQuizRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

// AnswerRequest is the body of POST /api/sessions/:id/answer
type AnswerRequest struct {
	OptionIndex *int `json:"option_index"`
}

// SessionResponse is the view of a session. Exactly one of the phase blocks is set.
type SessionResponse struct {
	ID        string              `json:"id"`
	State     domain.Phase        `json:"state"`
	Settings  domain.QuizSettings `json:"settings"`
	Loading   *LoadingView        `json:"loading,omitempty"`
	Playing   *PlayingView        `json:"playing,omitempty"`
	Finished  *FinishedView       `json:"finished,omitempty"`
	Error     *ErrorView          `json:"error,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type LoadingView struct {
	Topic string `json:"topic"`
	Tip   string `json:"tip"`
}

// QuestionView is a question without its answer.
type QuestionView struct {
	ID           int      `json:"id"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
}

type PlayingView struct {
	QuestionNumber  int             `json:"question_number"`
	TotalQuestions  int             `json:"total_questions"`
	ProgressPercent float64         `json:"progress_percent"`
	Question        QuestionView    `json:"question"`
	Answered        bool            `json:"answered"`
	IsLastQuestion  bool            `json:"is_last_question"`
	Feedback        *AnswerFeedback `json:"feedback,omitempty"`
}

// AnswerFeedback is revealed only after the current question has been answered.
type AnswerFeedback struct {
	SelectedOptionIndex int     `json:"selected_option_index"`
	CorrectAnswerIndex  int     `json:"correct_answer_index"`
	IsCorrect           bool    `json:"is_correct"`
	Explanation         string  `json:"explanation"`
	TimeTaken           float64 `json:"time_taken"`
}

type FinishedView struct {
	CorrectCount    int    `json:"correct_count"`
	TotalQuestions  int    `json:"total_questions"`
	ScorePercentage int    `json:"score_percentage"`
	Label           string `json:"label"`
}

type ErrorView struct {
	Message string `json:"message"`
}

// ResultsResponse is the score plus the full review of a finished quiz.
type ResultsResponse struct {
	SessionID       string               `json:"session_id"`
	Topic           string               `json:"topic"`
	Difficulty      domain.Difficulty    `json:"difficulty"`
	CorrectCount    int                  `json:"correct_count"`
	TotalQuestions  int                  `json:"total_questions"`
	ScorePercentage int                  `json:"score_percentage"`
	Label           string               `json:"label"`
	Review          []ReviewItemResponse `json:"review"`
}

type ReviewItemResponse struct {
	QuestionID          int      `json:"question_id"`
	QuestionText        string   `json:"question_text"`
	Options             []string `json:"options"`
	CorrectAnswerIndex  int      `json:"correct_answer_index"`
	SelectedOptionIndex *int     `json:"selected_option_index"`
	IsCorrect           bool     `json:"is_correct"`
	Explanation         string   `json:"explanation"`
	TimeTaken           float64  `json:"time_taken"`
}

// DifficultiesResponse lists what StartQuizRequest.Difficulty accepts.
type DifficultiesResponse struct {
	Difficulties []domain.Difficulty `json:"difficulties"`
	Default      domain.Difficulty   `json:"default"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
}

var loadingTips = []string{
	"Consulting the archives...",
	"Drafting challenging questions...",
	"Double-checking facts...",
	"Polishing the answers...",
	"Preparing your challenge...",
}

// LoadingTipInterval is how long each tip stays on screen.
const LoadingTipInterval = 1500 * time.Millisecond

// LoadingTip picks the tip to show after elapsed time in LOADING.
func LoadingTip(elapsed time.Duration) string {
	if elapsed < 0 {
		elapsed = 0
	}
	return loadingTips[int(elapsed/LoadingTipInterval)%len(loadingTips)]
}

// NewSessionResponse builds the phase-specific view of s as seen at now.
func NewSessionResponse(s *domain.Session, now time.Time) SessionResponse {
	resp := SessionResponse{
		ID:        s.ID,
		State:     s.State,
		Settings:  s.Settings,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}

	switch s.State {
	case domain.PhaseLoading:
		resp.Loading = &LoadingView{
			Topic: s.Settings.Topic,
			Tip:   LoadingTip(now.Sub(s.LoadingSince)),
		}
	case domain.PhasePlaying:
		resp.Playing = newPlayingView(s)
	case domain.PhaseFinished:
		result := domain.Score(s.Questions, s.Answers)
		resp.Finished = &FinishedView{
			CorrectCount:    result.CorrectCount,
			TotalQuestions:  result.Total,
			ScorePercentage: result.Percentage,
			Label:           result.Label,
		}
	case domain.PhaseError:
		resp.Error = &ErrorView{Message: s.ErrorMessage}
	}
	return resp
}

func newPlayingView(s *domain.Session) *PlayingView {
	q, ok := s.CurrentQuestion()
	if !ok {
		return nil
	}
	view := &PlayingView{
		QuestionNumber:  s.CurrentIndex + 1,
		TotalQuestions:  len(s.Questions),
		ProgressPercent: util.ProgressPercentage(s.CurrentIndex, len(s.Questions)),
		Question: QuestionView{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Options:      q.Options,
		},
		Answered:       s.CurrentAnswered,
		IsLastQuestion: s.IsLastQuestion(),
	}
	if s.CurrentAnswered && len(s.Answers) > 0 {
		a := s.Answers[len(s.Answers)-1]
		view.Feedback = &AnswerFeedback{
			SelectedOptionIndex: a.SelectedOptionIndex,
			CorrectAnswerIndex:  q.CorrectAnswerIndex,
			IsCorrect:           a.IsCorrect,
			Explanation:         q.Explanation,
			TimeTaken:           a.TimeTaken,
		}
	}
	return view
}

// NewResultsResponse pairs the score with every question and the user's pick.
func NewResultsResponse(s *domain.Session, result domain.Result) ResultsResponse {
	items := domain.Review(s.Questions, s.Answers)
	review := make([]ReviewItemResponse, 0, len(items))
	for _, item := range items {
		review = append(review, ReviewItemResponse{
			QuestionID:          item.Question.ID,
			QuestionText:        item.Question.QuestionText,
			Options:             item.Question.Options,
			CorrectAnswerIndex:  item.Question.CorrectAnswerIndex,
			SelectedOptionIndex: item.SelectedIndex,
			IsCorrect:           item.IsCorrect,
			Explanation:         item.Question.Explanation,
			TimeTaken:           item.TimeTaken,
		})
	}
	return ResultsResponse{
		SessionID:       s.ID,
		Topic:           s.Settings.Topic,
		Difficulty:      s.Settings.Difficulty,
		CorrectCount:    result.CorrectCount,
		TotalQuestions:  result.Total,
		ScorePercentage: result.Percentage,
		Label:           result.Label,
		Review:          review,
	}
}

func NewDifficultiesResponse() DifficultiesResponse {
	return DifficultiesResponse{Difficulties: domain.Difficulties(), Default: domain.DefaultDifficulty}
}
