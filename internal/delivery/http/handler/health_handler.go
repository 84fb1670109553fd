package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"clarity/internal/database"
	"clarity/internal/infrastructure/cache"
	"clarity/internal/pkg/response"
)

type HealthHandler struct {
	db    database.DB
	cache *cache.Redis
}

func NewHealthHandler(db database.DB, c *cache.Redis) *HealthHandler {
	return &HealthHandler{db: db, cache: c}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}

	app.Get("/health", h.Live)
	app.Get("/health/ready", h.Ready)
}

func (h *HealthHandler) Live(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"status": "alive",
	})
}

// Ready reports per-dependency health. The cache is optional: its
// failure degrades the response body but not the status code.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	deadline, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{"database": "ok", "cache": "ok"}
	status := fiber.StatusOK

	if h.db == nil {
		checks["database"] = "not configured"
		status = fiber.StatusServiceUnavailable
	} else if err := h.db.Ping(deadline); err != nil {
		checks["database"] = err.Error()
		status = fiber.StatusServiceUnavailable
	}

	if h.cache == nil {
		checks["cache"] = "not configured"
	} else if err := h.cache.Ping(deadline); err != nil {
		checks["cache"] = err.Error()
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, response.MessageServiceUnavailable, map[string]any{"checks": checks})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{"checks": checks})
}
