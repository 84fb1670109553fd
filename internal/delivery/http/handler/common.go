package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"clarity/internal/delivery/http/middleware"
	"clarity/internal/pkg/response"
	"clarity/internal/usecase"
)

// actorID pulls the authenticated user out of the request locals set
// by the auth middleware.
func actorID(c fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return userID, nil
}

// mapUsecaseError translates the usecase error taxonomy into HTTP
// statuses. Handlers with route-specific wording map first and fall
// back to this.
func mapUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Conflict", nil, err)
	case errors.Is(err, usecase.ErrInvalidView):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid view for role", nil, err)
	case errors.Is(err, usecase.ErrNotOnboarded):
		return middleware.NewAppError(fiber.StatusForbidden, "Onboarding not completed", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrUpstreamUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
