package handler

import (
	"context"
	"time"

	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HealthHandler reports whether the session store is reachable
type HealthHandler struct {
	cache   domain.Cache
	timeout time.Duration
}

func NewHealthHandler(cache domain.Cache) *HealthHandler {
	return &HealthHandler{cache: cache, timeout: 2 * time.Second}
}

// Check godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	if err := h.cache.Ping(ctx); err != nil {
		logger.Get().Warn("Health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "unavailable", Cache: "down"})
	}
	return c.JSON(dto.HealthResponse{Status: "ok", Cache: "up"})
}
