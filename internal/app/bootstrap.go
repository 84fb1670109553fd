package app

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"

	"clarity/internal/config"
	"clarity/internal/delivery/http/handler"
	"clarity/internal/delivery/http/middleware"
	"clarity/internal/delivery/http/routes"
	v1 "clarity/internal/delivery/http/routes/v1"
	"clarity/internal/repository"
	"clarity/internal/ws"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg, nil)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
	})

	accessLog := middleware.NewAccessLogMiddleware(c.Logger)
	errMw := middleware.NewErrorMiddleware(c.Logger)
	f.Use(accessLog.Middleware())
	f.Use(errMw.Middleware())

	registry := buildRegistry(c)
	registry.Register(f)

	return &App{Fiber: f, Container: c}, c.Close, nil
}

func buildRegistry(c *Container) *routes.Registry {
	authMw := middleware.NewAuthMiddleware(c.JWT)

	var dev *handler.DevHandler
	if !c.Config.App.IsProduction() {
		dev = handler.NewDevHandler(c.DB, repository.NewPostgresSkillProofRepository(c.DB))
	}

	return &routes.Registry{
		Health: handler.NewHealthHandler(c.DB, c.Cache),
		V1: v1.Handlers{
			Auth:       handler.NewAuthHandler(c.AuthUC),
			Onboarding: handler.NewOnboardingHandler(c.OnboardingUC),
			Workspace:  handler.NewWorkspaceHandler(c.WorkspaceUC),
			Tasks:      handler.NewTaskHandler(c.TaskUC, c.Config.App),
			History:    handler.NewHistoryHandler(c.HistoryUC),
			Dev:        dev,
			WS:         ws.NewHandler(c.Hub, c.JWT, c.Logger),
			AuthMw:     authMw,
		},
	}
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
