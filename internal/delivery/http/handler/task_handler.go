package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"clarity/internal/config"
	"clarity/internal/delivery/http/dto"
	"clarity/internal/delivery/http/middleware"
	"clarity/internal/domain"
	"clarity/internal/pkg/response"
	"clarity/internal/repository"
	"clarity/internal/usecase"
)

type TaskHandler struct {
	uc  usecase.TaskLifecycleUsecase
	app config.AppConfig
}

type taskTransitionRequest struct {
	TaskID string `json:"task_id"`
	Reason string `json:"reason"`
}

type systemTaskRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Type          string `json:"type"`
	Difficulty    string `json:"difficulty"`
	EstimatedTime string `json:"estimated_time"`
	AssignedDate  string `json:"assigned_date"`
	DueDate       string `json:"due_date"`
}

func NewTaskHandler(uc usecase.TaskLifecycleUsecase, app config.AppConfig) *TaskHandler {
	return &TaskHandler{uc: uc, app: app}
}

func (h *TaskHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/stats", h.Stats)
	r.Post("/complete", h.Complete)
	r.Post("/skip", h.Skip)
	r.Post("/system/create", h.SystemCreate)
}

func (h *TaskHandler) List(c fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var filter repository.TaskFilter
	if raw := c.Query("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", nil, err)
		}
		filter.Date = &d
	}
	if raw := c.Query("type"); raw != "" {
		t, err := domain.ParseTaskType(raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid task type", nil, err)
		}
		filter.Type = &t
	}

	tasks, err := h.uc.List(c.Context(), userID, filter)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"tasks": dto.NewTaskResponses(tasks),
	})
}

func (h *TaskHandler) Stats(c fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	stats, err := h.uc.Stats(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, stats)
}

func (h *TaskHandler) Complete(c fiber.Ctx) error {
	userID, taskID, _, err := h.transitionArgs(c)
	if err != nil {
		return err
	}

	t, err := h.uc.Complete(c.Context(), taskID, userID)
	if err != nil {
		return mapTaskTransitionError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewTaskResponse(t))
}

func (h *TaskHandler) Skip(c fiber.Ctx) error {
	userID, taskID, reason, err := h.transitionArgs(c)
	if err != nil {
		return err
	}

	t, err := h.uc.Skip(c.Context(), taskID, userID, reason)
	if err != nil {
		return mapTaskTransitionError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewTaskResponse(t))
}

// SystemCreate is a direct authoring convenience for non-production
// environments. Task creation is system-privileged; in production the
// only creator is workspace materialization.
func (h *TaskHandler) SystemCreate(c fiber.Ctx) error {
	if h.app.IsProduction() {
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
	}

	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req systemTaskRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	in := usecase.SystemTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Type:          req.Type,
		Difficulty:    req.Difficulty,
		EstimatedTime: req.EstimatedTime,
	}
	if req.AssignedDate != "" {
		d, err := time.Parse("2006-01-02", req.AssignedDate)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid assigned_date, expected YYYY-MM-DD", nil, err)
		}
		in.AssignedDate = &d
	}
	if req.DueDate != "" {
		d, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid due_date, expected YYYY-MM-DD", nil, err)
		}
		in.DueDate = &d
	}

	t, err := h.uc.CreateSystem(c.Context(), userID, in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewTaskResponse(t))
}

func (h *TaskHandler) transitionArgs(c fiber.Ctx) (userID, taskID uuid.UUID, reason string, err error) {
	userID, err = actorID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, "", err
	}

	var req taskTransitionRequest
	if err := c.Bind().Body(&req); err != nil {
		return uuid.Nil, uuid.Nil, "", middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	taskID, parseErr := uuid.Parse(req.TaskID)
	if parseErr != nil {
		return uuid.Nil, uuid.Nil, "", middleware.NewAppError(fiber.StatusBadRequest, "Invalid task_id", nil, parseErr)
	}
	return userID, taskID, req.Reason, nil
}

func mapTaskTransitionError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Task not found", nil, err)
	case errors.Is(err, usecase.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Task already completed or skipped", nil, err)
	default:
		return mapUsecaseError(err)
	}
}
