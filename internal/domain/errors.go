package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Quiz session errors
	CodeSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"
	CodeGeneration        ErrorCode = "GENERATION_ERROR"
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	CodeAlreadyAnswered   ErrorCode = "ALREADY_ANSWERED"
	CodeNotAnswered       ErrorCode = "NOT_ANSWERED"
	CodeStaleGeneration   ErrorCode = "STALE_GENERATION"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError carrying the same code, so sentinel values work with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithContext attaches a key/value pair that is surfaced as response details.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Sentinels for errors.Is checks. Compare by code only.
var (
	ErrInvalidTransition = NewError(CodeInvalidTransition, "transition not allowed in current phase", nil)
	ErrAlreadyAnswered   = NewError(CodeAlreadyAnswered, "current question already answered", nil)
	ErrNotAnswered       = NewError(CodeNotAnswered, "current question not answered yet", nil)
	ErrStaleGeneration   = NewError(CodeStaleGeneration, "generation result no longer applies to this session", nil)
	ErrSessionNotFound   = NewError(CodeSessionNotFound, "session not found", nil)
	ErrGeneration        = NewError(CodeGeneration, "quiz generation failed", nil)
)

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(CodeSessionNotFound, fmt.Sprintf("Session not found with ID: %s", sessionID), nil)
}

// NewGenerationError reports a failed, empty, or unparsable generator call.
func NewGenerationError(message string, err error) *DomainError {
	return NewError(CodeGeneration, message, err)
}

func NewInvalidTransitionError(from Phase, event string) *DomainError {
	return NewError(CodeInvalidTransition, fmt.Sprintf("cannot %s while session is %s", event, from), nil).
		WithContext("phase", string(from))
}

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
