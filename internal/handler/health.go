package handler

import (
	"context"
	"time"

	"quizzy/internal/domain"
	"quizzy/internal/dto"
	"quizzy/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache domain.Cache
}

// NewHealthHandler accepts a nil cache when caching is disabled.
func NewHealthHandler(db Pinger, cache domain.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Health godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Message: "Server is running", Checks: map[string]string{}}
	status := fiber.StatusOK

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			logger.Get().Warn("Health check: database unreachable", zap.Error(err))
			resp.Checks["database"] = "down"
			resp.Status = "degraded"
			status = fiber.StatusServiceUnavailable
		} else {
			resp.Checks["database"] = "up"
		}
	}
	if h.cache != nil {
		// The cache is optional; failure does not change the status code.
		if err := h.cache.Ping(ctx); err != nil {
			logger.Get().Warn("Health check: cache unreachable", zap.Error(err))
			resp.Checks["cache"] = "down"
		} else {
			resp.Checks["cache"] = "up"
		}
	}

	return c.Status(status).JSON(resp)
}

// Root godoc
// @Summary Service information
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Quizzy Backend API",
		"status":  "running",
		"endpoints": fiber.Map{
			"health": "/api/health",
			"auth":   "/api/auth/*",
			"quiz":   "/api/quiz/*",
			"docs":   "/swagger/index.html",
		},
	})
}
