package domain

import (
	"fmt"
	"strings"
)

const (
	// QuestionCount is how many questions the generator asks for per quiz.
	QuestionCount = 10
	// OptionCount is the number of options every question must carry.
	OptionCount = 4
)

// Difficulty is the requested hardness of a generated quiz.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
	DifficultyExpert Difficulty = "Expert"

	DefaultDifficulty = DifficultyMedium
)

// Difficulties lists the allowed values in display order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}
}

// ParseDifficulty accepts any letter case. An empty string yields the default.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultDifficulty, nil
	}
	for _, d := range Difficulties() {
		if strings.EqualFold(string(d), s) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

func (d Difficulty) IsValid() bool {
	for _, v := range Difficulties() {
		if v == d {
			return true
		}
	}
	return false
}

// QuizSettings is what the user asked for. It is frozen once generation starts.
type QuizSettings struct {
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
}

// NewQuizSettings trims the topic and validates both fields.
func NewQuizSettings(topic string, difficulty Difficulty) (QuizSettings, error) {
	s := QuizSettings{Topic: strings.TrimSpace(topic), Difficulty: difficulty}
	if err := s.Validate(); err != nil {
		return QuizSettings{}, err
	}
	return s, nil
}

func (s QuizSettings) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(s.Topic) == "" {
		errs = append(errs, NewMissingFieldError("topic"))
	}
	if !s.Difficulty.IsValid() {
		errs = append(errs, NewInvalidFormatError("difficulty", string(s.Difficulty)))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Question is one generated multiple-choice item. Immutable after generation.
type Question struct {
	ID                 int      `json:"id"`
	QuestionText       string   `json:"questionText"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation"`
}

// Validate checks the structural guarantees the generator does not get from the model:
// non-empty text, exactly four distinct non-blank options and an index into them.
func (q Question) Validate() ValidationErrors {
	var errs ValidationErrors
	field := func(name string) string { return fmt.Sprintf("questions[%d].%s", q.ID, name) }

	if strings.TrimSpace(q.QuestionText) == "" {
		errs = append(errs, NewMissingFieldError(field("questionText")))
	}
	if len(q.Options) != OptionCount {
		errs = append(errs, NewFieldValidationError(field("options"),
			fmt.Sprintf("expected %d options, got %d", OptionCount, len(q.Options)), len(q.Options)))
	} else {
		seen := make(map[string]struct{}, len(q.Options))
		for i, opt := range q.Options {
			key := strings.ToLower(strings.TrimSpace(opt))
			if key == "" {
				errs = append(errs, NewMissingFieldError(fmt.Sprintf("%s[%d]", field("options"), i)))
				continue
			}
			if _, dup := seen[key]; dup {
				errs = append(errs, NewFieldValidationError(field("options"), "options must be distinct", opt))
			}
			seen[key] = struct{}{}
		}
	}
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
		errs = append(errs, NewOutOfRangeError(field("correctAnswerIndex"), q.CorrectAnswerIndex, 0, max(len(q.Options)-1, 0)))
	}
	return errs
}

// ValidateQuestions rejects an empty batch or any malformed question in it.
func ValidateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return ValidationErrors{NewFieldValidationError("questions", "no questions generated", 0)}
	}
	var errs ValidationErrors
	for i, q := range questions {
		if q.ID != i {
			errs = append(errs, NewFieldValidationError(fmt.Sprintf("questions[%d].id", i), "ids must follow array order", q.ID))
		}
		errs = append(errs, q.Validate()...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UserAnswer is the immutable record of one confirmed selection.
type UserAnswer struct {
	QuestionID          int     `json:"questionId"`
	SelectedOptionIndex int     `json:"selectedOptionIndex"`
	IsCorrect           bool    `json:"isCorrect"`
	TimeTaken           float64 `json:"timeTaken"` // seconds
}
