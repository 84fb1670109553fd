package handler

import (
	"github.com/gofiber/fiber/v3"

	"clarity/internal/delivery/http/middleware"
	"clarity/internal/pkg/response"
	"clarity/internal/usecase"
)

type WorkspaceHandler struct {
	uc usecase.WorkspaceUsecase
}

func NewWorkspaceHandler(uc usecase.WorkspaceUsecase) *WorkspaceHandler {
	return &WorkspaceHandler{uc: uc}
}

func (h *WorkspaceHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.Reconstruct)
	r.Get("/views", h.Views)
	r.Get("/info", h.Info)
}

func (h *WorkspaceHandler) Reconstruct(c fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	view := c.Query("view")
	if view == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing view parameter", nil, nil)
	}

	ws, err := h.uc.Reconstruct(c.Context(), userID, view)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, ws)
}

func (h *WorkspaceHandler) Views(c fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	views, err := h.uc.Views(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{"views": views})
}

func (h *WorkspaceHandler) Info(c fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	info, err := h.uc.Info(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, info)
}
