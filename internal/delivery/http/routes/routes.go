package routes

import (
	"github.com/gofiber/fiber/v3"

	"clarity/internal/delivery/http/handler"
	v1 "clarity/internal/delivery/http/routes/v1"
)

type Registry struct {
	Health *handler.HealthHandler
	V1     v1.Handlers
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}

	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.V1)
}
