package handler

import (
	"context"
	"time"

	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/middleware"
	"quiz-master/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// SessionHandler handles quiz session HTTP requests
type SessionHandler struct {
	service service.GameService
	now     func() time.Time
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(service service.GameService) *SessionHandler {
	return &SessionHandler{
		service: service,
		now:     time.Now,
	}
}

// RegisterRoutes mounts the session API on router.
func (h *SessionHandler) RegisterRoutes(router fiber.Router, vm *middleware.ValidationMiddleware) {
	router.Get("/difficulties", h.GetDifficulties)

	sessions := router.Group("/sessions")
	sessions.Post("/", h.CreateSession)

	byID := sessions.Group("/:id", vm.ValidateSessionID())
	byID.Get("/", h.GetSession)
	byID.Post("/start", vm.ValidateStartQuizRequest(), h.StartQuiz)
	byID.Post("/answer", vm.ValidateAnswerRequest(), h.SubmitAnswer)
	byID.Post("/next", h.Advance)
	byID.Post("/reset", h.Reset)
	byID.Get("/results", h.GetResults)
}

func sessionID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.LocalSessionID).(string); ok {
		return id
	}
	return utils.CopyString(c.Params("id"))
}

func (h *SessionHandler) respond(c *fiber.Ctx, status int, session *domain.Session) error {
	return c.Status(status).JSON(dto.NewSessionResponse(session, h.now()))
}

// CreateSession godoc
// @Summary Create a quiz session
// @Description Creates a new session in the SETUP phase
// @Tags sessions
// @Produce json
// @Success 201 {object} dto.SessionResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /api/sessions [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	session, err := h.service.CreateSession(c.UserContext())
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusCreated, session)
}

// GetSession godoc
// @Summary Get a quiz session
// @Description Returns the phase-specific view of a session. Poll it while LOADING.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /api/sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.service.GetSession(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, session)
}

// StartQuiz godoc
// @Summary Start generating a quiz
// @Description Freezes topic and difficulty and starts generation in the background
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.StartQuizRequest true "Quiz settings"
// @Success 202 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /api/sessions/{id}/start [post]
func (h *SessionHandler) StartQuiz(c *fiber.Ctx) error {
	req, ok := c.Locals(middleware.LocalStartQuizRequest).(*dto.StartQuizRequest)
	if !ok {
		return domain.NewInvalidInputError("missing start request")
	}
	session, err := h.service.StartQuiz(c.UserContext(), sessionID(c), req.Topic, req.Difficulty)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusAccepted, session)
}

// SubmitAnswer godoc
// @Summary Answer the current question
// @Description Records the selected option. The response reveals the correct answer and explanation.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.AnswerRequest true "Selected option"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /api/sessions/{id}/answer [post]
func (h *SessionHandler) SubmitAnswer(c *fiber.Ctx) error {
	req, ok := c.Locals(middleware.LocalAnswerRequest).(*dto.AnswerRequest)
	if !ok || req.OptionIndex == nil {
		return domain.NewInvalidInputError("missing answer request")
	}
	session, _, err := h.service.SubmitAnswer(c.UserContext(), sessionID(c), *req.OptionIndex)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, session)
}

// Advance godoc
// @Summary Go to the next question
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /api/sessions/{id}/next [post]
func (h *SessionHandler) Advance(c *fiber.Ctx) error {
	return h.transition(c, h.service.Advance)
}

// Reset godoc
// @Summary Return to setup
// @Description Play again after FINISHED or retry after ERROR
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /api/sessions/{id}/reset [post]
func (h *SessionHandler) Reset(c *fiber.Ctx) error {
	return h.transition(c, h.service.ResetToSetup)
}

func (h *SessionHandler) transition(c *fiber.Ctx, fn func(context.Context, string) (*domain.Session, error)) error {
	session, err := fn(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, session)
}

// GetResults godoc
// @Summary Get the score and review
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ResultsResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /api/sessions/{id}/results [get]
func (h *SessionHandler) GetResults(c *fiber.Ctx) error {
	session, result, err := h.service.GetResults(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewResultsResponse(session, result))
}

// GetDifficulties godoc
// @Summary List difficulties
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.DifficultiesResponse
// @Router /api/difficulties [get]
func (h *SessionHandler) GetDifficulties(c *fiber.Ctx) error {
	return c.JSON(dto.NewDifficultiesResponse())
}
