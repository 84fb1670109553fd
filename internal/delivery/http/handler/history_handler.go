package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"clarity/internal/delivery/http/dto"
	"clarity/internal/delivery/http/middleware"
	"clarity/internal/domain"
	"clarity/internal/pkg/response"
	"clarity/internal/usecase"
)

type HistoryHandler struct {
	uc usecase.HistoryUsecase
}

func NewHistoryHandler(uc usecase.HistoryUsecase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

func (h *HistoryHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.Events)
	r.Get("/tasks", h.Tasks)
	r.Get("/summary", h.Summary)
	r.Get("/candidate/:id", h.Candidate)
}

func (h *HistoryHandler) Events(c fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	limit, err := limitQuery(c, 50)
	if err != nil {
		return err
	}

	events, err := h.uc.Events(c.Context(), userID, c.Query("event_type"), limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"events": dto.NewHistoryEventResponses(events),
	})
}

func (h *HistoryHandler) Tasks(c fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	limit, err := limitQuery(c, 100)
	if err != nil {
		return err
	}

	tasks, err := h.uc.TaskHistory(c.Context(), userID, limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"tasks": dto.NewTaskResponses(tasks),
	})
}

func (h *HistoryHandler) Summary(c fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	summary, err := h.uc.Summary(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, summary)
}

// Candidate is the company-side read of a linked candidate's record.
func (h *HistoryHandler) Candidate(c fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}
	role, _ := c.Locals(middleware.CtxRoleKey).(domain.Role)

	candidateID, parseErr := uuid.Parse(c.Params("id"))
	if parseErr != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid candidate id", nil, parseErr)
	}

	record, err := h.uc.CandidateRecord(c.Context(), userID, role, candidateID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"events": dto.NewHistoryEventResponses(record.Events),
		"proofs": dto.NewSkillProofResponses(record.Proofs),
	})
}

func limitQuery(c fiber.Ctx, fallback int) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 500 {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}
	return limit, nil
}
