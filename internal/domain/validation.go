package domain

import (
	"fmt"
	"strings"
)

// ValidationError describes one invalid field, either in a request or in generated content.
type ValidationError struct {
	Code    ErrorCode   `json:"code"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects field errors so they can be reported together.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Is lets errors.Is(err, ErrValidation) match any ValidationErrors value.
func (e ValidationErrors) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == CodeValidation
}

// ErrValidation is the sentinel for rejected generated content or request input.
var ErrValidation = NewError(CodeValidation, "validation failed", nil)

func NewValidationError(message string) ValidationError {
	return ValidationError{Code: CodeValidation, Message: message}
}

func NewFieldValidationError(field, message string, value interface{}) ValidationError {
	return ValidationError{Code: CodeValidation, Field: field, Message: message, Value: value}
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Code: CodeMissingField, Field: field, Message: "field is required"}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Code: CodeInvalidFormat, Field: field, Message: "invalid format", Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) ValidationError {
	return ValidationError{
		Code:    CodeOutOfRange,
		Field:   field,
		Message: fmt.Sprintf("must be between %d and %d", min, max),
		Value:   value,
	}
}
