package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"clarity/internal/delivery/http/middleware"
	"clarity/internal/domain"
	"clarity/internal/pkg/response"
	"clarity/internal/usecase"
)

type OnboardingHandler struct {
	uc usecase.OnboardingUsecase
}

func NewOnboardingHandler(uc usecase.OnboardingUsecase) *OnboardingHandler {
	return &OnboardingHandler{uc: uc}
}

func (h *OnboardingHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/student", h.SubmitStudent)
	r.Post("/professional", h.SubmitProfessional)
	r.Post("/company", h.SubmitCompany)
	r.Get("/status", h.Status)
	r.Delete("/reset", h.Reset)
}

func (h *OnboardingHandler) SubmitStudent(c fiber.Ctx) error {
	var req domain.StudentAnswers
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	return h.submit(c, domain.OnboardingAnswers{Student: &req})
}

func (h *OnboardingHandler) SubmitProfessional(c fiber.Ctx) error {
	var req domain.ProfessionalAnswers
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	return h.submit(c, domain.OnboardingAnswers{Professional: &req})
}

func (h *OnboardingHandler) SubmitCompany(c fiber.Ctx) error {
	var req domain.CompanyAnswers
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	return h.submit(c, domain.OnboardingAnswers{Company: &req})
}

func (h *OnboardingHandler) submit(c fiber.Ctx, answers domain.OnboardingAnswers) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}
	role, _ := c.Locals(middleware.CtxRoleKey).(domain.Role)

	if err := h.uc.Submit(c.Context(), userID, role, answers); err != nil {
		if errors.Is(err, usecase.ErrConflict) {
			return middleware.NewAppError(fiber.StatusConflict, "Onboarding already completed", nil, err)
		}
		if errors.Is(err, usecase.ErrForbidden) {
			return middleware.NewAppError(fiber.StatusForbidden, "Answers do not match your role", nil, err)
		}
		return mapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageOK, map[string]any{
		"onboarding_completed": true,
	})
}

func (h *OnboardingHandler) Status(c fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	st, err := h.uc.Status(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}

	data := map[string]any{
		"onboarding_completed": st.Completed,
		"role":                 string(st.Role),
	}
	if st.Answers != nil {
		data["answers"] = st.Answers
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *OnboardingHandler) Reset(c fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Reset(c.Context(), userID); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"onboarding_completed": false,
	})
}
