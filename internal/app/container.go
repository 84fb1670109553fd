package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"clarity/internal/config"
	"clarity/internal/database"
	"clarity/internal/database/migrations"
	dbpostgres "clarity/internal/database/postgres"
	"clarity/internal/infrastructure/cache"
	"clarity/internal/pkg/jwt"
	"clarity/internal/repository"
	"clarity/internal/usecase"
	"clarity/internal/ws"
)

// Container wires configuration, infrastructure and usecases. It owns
// the resources it opens; Close releases them in reverse order.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub
	JWT   jwt.Service

	AuthUC       usecase.AuthUsecase
	OnboardingUC usecase.OnboardingUsecase
	TaskUC       usecase.TaskLifecycleUsecase
	WorkspaceUC  usecase.WorkspaceUsecase
	HistoryUC    usecase.HistoryUsecase
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := migrations.Up(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisCache := cache.NewRedis(cfg.Redis, logger)

	hub := ws.NewHub(logger)
	go hub.Run()
	notifier := ws.NewNotifier(hub)

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	users := repository.NewPostgresUserRepository(db)
	profiles := repository.NewPostgresOnboardingRepository(db)
	tasks := repository.NewPostgresTaskRepository(db)
	history := repository.NewPostgresHistoryRepository(db)
	proofs := repository.NewPostgresSkillProofRepository(db)

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  redisCache,
		Hub:    hub,
		JWT:    jwtSvc,

		AuthUC:       usecase.NewAuthUsecase(users, history, jwtSvc),
		OnboardingUC: usecase.NewOnboardingUsecase(users, profiles, history, notifier),
		TaskUC:       usecase.NewTaskLifecycleUsecase(db, tasks, history, notifier),
		WorkspaceUC:  usecase.NewWorkspaceUsecase(users, profiles, tasks, history, redisCache, notifier),
		HistoryUC:    usecase.NewHistoryUsecase(history, tasks, proofs),
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
