package v1

import (
	"github.com/gofiber/fiber/v3"

	"clarity/internal/delivery/http/handler"
	"clarity/internal/delivery/http/middleware"
	"clarity/internal/ws"
)

// Handlers collects everything mounted under /api/v1. Dev may be nil;
// its routes are simply not registered then.
type Handlers struct {
	Auth       *handler.AuthHandler
	Onboarding *handler.OnboardingHandler
	Workspace  *handler.WorkspaceHandler
	Tasks      *handler.TaskHandler
	History    *handler.HistoryHandler
	Dev        *handler.DevHandler
	WS         *ws.Handler
	AuthMw     *middleware.AuthMiddleware
}

func Register(r fiber.Router, h Handlers) {
	if r == nil || h.AuthMw == nil {
		return
	}

	h.Auth.RegisterRoutes(r.Group("/auth"), h.AuthMw)

	protected := r.Group("", h.AuthMw.Middleware())
	h.Onboarding.RegisterRoutes(protected.Group("/onboarding"))
	h.Workspace.RegisterRoutes(protected.Group("/workspace"))
	h.Tasks.RegisterRoutes(protected.Group("/tasks"))
	h.History.RegisterRoutes(protected.Group("/history"))

	if h.WS != nil {
		// The websocket handler authenticates via query token; it is
		// mounted outside the bearer middleware.
		r.Get("/ws/activity", h.WS.HandleActivityWS)
	}

	if h.Dev != nil {
		h.Dev.RegisterRoutes(protected.Group("/dev"))
	}
}
