package middleware

import (
	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// Locals keys set by the validation middleware.
const (
	LocalSessionID        = "validated_session_id"
	LocalStartQuizRequest = "validated_start_quiz_request"
	LocalAnswerRequest    = "validated_answer_request"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateSessionID validates the :id path parameter
func (vm *ValidationMiddleware) ValidateSessionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Params point into fasthttp's reusable buffer; the ID outlives the request.
		sessionID := utils.CopyString(c.Params("id"))
		if errors := vm.validator.ValidateSessionID(sessionID); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}
		c.Locals(LocalSessionID, sessionID)
		return c.Next()
	}
}

// ValidateStartQuizRequest parses and validates the start body
func (vm *ValidationMiddleware) ValidateStartQuizRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.StartQuizRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.NewInvalidInputError("invalid request body")
		}
		if errors := vm.validator.ValidateStartQuizRequest(&req); len(errors) > 0 {
			return errors
		}
		c.Locals(LocalStartQuizRequest, &req)
		return c.Next()
	}
}

// ValidateAnswerRequest parses and validates the answer body
func (vm *ValidationMiddleware) ValidateAnswerRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.AnswerRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.NewInvalidInputError("invalid request body")
		}
		if errors := vm.validator.ValidateAnswerRequest(&req); len(errors) > 0 {
			return errors
		}
		c.Locals(LocalAnswerRequest, &req)
		return c.Next()
	}
}
