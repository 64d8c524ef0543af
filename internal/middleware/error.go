package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"quiz-master/internal/domain"
	"quiz-master/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// generationRetryAfter is sent with 503 responses so clients back off before retrying.
const generationRetryAfter = 5

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse lists every field that failed validation.
type ValidationErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Errors  []domain.ValidationError `json:"errors"`
}

var statusByCode = map[domain.ErrorCode]int{
	domain.CodeNotFound:          http.StatusNotFound,
	domain.CodeSessionNotFound:   http.StatusNotFound,
	domain.CodeInvalidInput:      http.StatusBadRequest,
	domain.CodeValidation:        http.StatusBadRequest,
	domain.CodeMissingField:      http.StatusBadRequest,
	domain.CodeInvalidFormat:     http.StatusBadRequest,
	domain.CodeOutOfRange:        http.StatusBadRequest,
	domain.CodeInvalidTransition: http.StatusConflict,
	domain.CodeAlreadyAnswered:   http.StatusConflict,
	domain.CodeNotAnswered:       http.StatusConflict,
	domain.CodeStaleGeneration:   http.StatusConflict,
	domain.CodeGeneration:        http.StatusServiceUnavailable,
}

// statusFor maps a domain error code to its HTTP status. Unknown codes are 500.
func statusFor(code domain.ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorHandler turns handler errors into JSON responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get().With(zap.String("method", c.Method()), zap.String("path", c.Path()))

		var validationErrs domain.ValidationErrors
		if errors.As(err, &validationErrs) {
			log.Info("Request failed validation", zap.Int("error_count", len(validationErrs)))
			return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
				Code:    string(domain.CodeValidation),
				Message: "Request validation failed",
				Status:  http.StatusBadRequest,
				Errors:  validationErrs,
			})
		}

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			status := statusFor(domainErr.Code)
			fields := []zap.Field{zap.String("code", string(domainErr.Code)), zap.Int("status", status)}
			if status >= http.StatusInternalServerError {
				log.Error(domainErr.Message, append(fields, zap.Error(domainErr.Cause))...)
			} else {
				log.Info("Request rejected", fields...)
			}

			if domainErr.Code == domain.CodeGeneration {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(generationRetryAfter))
			}
			resp := ErrorResponse{Code: string(domainErr.Code), Message: domainErr.Message, Status: status}
			if len(domainErr.Context) > 0 {
				resp.Details = domainErr.Context
			}
			return c.Status(status).JSON(resp)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("HTTP error", zap.Int("status", fiberErr.Code), zap.String("message", fiberErr.Message))
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			})
		}

		log.Error("Unhandled error", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    string(domain.CodeInternal),
			Message: "Internal server error",
			Status:  http.StatusInternalServerError,
		})
	}
}
