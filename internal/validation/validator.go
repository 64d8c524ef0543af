package validation

import (
	"strings"
	"unicode/utf8"

	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/util"
)

// MaxTopicLength bounds the topic that ends up in the prompt.
const MaxTopicLength = 200

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSessionID checks the :id path parameter.
func (v *Validator) ValidateSessionID(sessionID string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(sessionID) == "" {
		errors = append(errors, domain.NewMissingFieldError("session_id"))
	} else if !util.IsValidULID(sessionID) {
		errors = append(errors, domain.NewInvalidFormatError("session_id", sessionID))
	}

	return errors
}

// ValidateStartQuizRequest validates topic and difficulty. An empty difficulty is allowed
// and means the default.
func (v *Validator) ValidateStartQuizRequest(req *dto.StartQuizRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		errors = append(errors, domain.NewMissingFieldError("topic"))
	} else if n := utf8.RuneCountInString(topic); n > MaxTopicLength {
		errors = append(errors, domain.NewOutOfRangeError("topic", n, 1, MaxTopicLength))
	}

	if _, err := domain.ParseDifficulty(req.Difficulty); err != nil {
		errors = append(errors, domain.NewInvalidFormatError("difficulty", req.Difficulty))
	}

	return errors
}

// ValidateAnswerRequest requires an option index within the fixed option count.
func (v *Validator) ValidateAnswerRequest(req *dto.AnswerRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if req.OptionIndex == nil {
		errors = append(errors, domain.NewMissingFieldError("option_index"))
	} else if *req.OptionIndex < 0 || *req.OptionIndex >= domain.OptionCount {
		errors = append(errors, domain.NewOutOfRangeError("option_index", *req.OptionIndex, 0, domain.OptionCount-1))
	}

	return errors
}
