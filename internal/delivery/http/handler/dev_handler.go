package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"clarity/internal/database"
	"clarity/internal/delivery/http/dto"
	"clarity/internal/delivery/http/middleware"
	"clarity/internal/pkg/response"
	"clarity/internal/repository"
)

// DevHandler exposes inspection, reset and seeding affordances for
// local development. Routes backed by it are never registered in
// production.
type DevHandler struct {
	db     database.DB
	proofs repository.SkillProofRepository
}

func NewDevHandler(db database.DB, proofs repository.SkillProofRepository) *DevHandler {
	return &DevHandler{db: db, proofs: proofs}
}

func (h *DevHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/collections", h.Collections)
	r.Delete("/reset", h.Reset)
	r.Post("/skill-proofs", h.SeedSkillProof)
}

var devTables = []string{"users", "onboarding_profiles", "tasks", "history_events", "skill_proofs"}

func (h *DevHandler) Collections(c fiber.Ctx) error {
	counts := make(map[string]int64, len(devTables))
	for _, table := range devTables {
		var n int64
		row := h.db.QueryRow(c.Context(), `SELECT COUNT(*) FROM `+table)
		if err := row.Scan(&n); err != nil {
			return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
		}
		counts[table] = n
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"collections": counts,
	})
}

func (h *DevHandler) Reset(c fiber.Ctx) error {
	for _, table := range devTables {
		if _, err := h.db.Exec(c.Context(), `TRUNCATE TABLE `+table+` CASCADE`); err != nil {
			return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
		}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"reset": true,
	})
}

type seedSkillProofRequest struct {
	CandidateID string         `json:"candidate_id"`
	CompanyID   string         `json:"company_id"`
	TaskName    string         `json:"task_name"`
	TaskType    string         `json:"task_type"`
	Score       int            `json:"score"`
	Flags       []string       `json:"flags"`
	Evaluation  map[string]any `json:"evaluation"`
}

// SeedSkillProof inserts a skill proof so the company candidate-read
// linkage can be exercised locally before the evaluation pipeline
// exists.
func (h *DevHandler) SeedSkillProof(c fiber.Ctx) error {
	var req seedSkillProofRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid candidate_id", nil, err)
	}
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid company_id", nil, err)
	}
	if req.TaskName == "" || req.Score < 0 || req.Score > 100 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, nil)
	}

	p := repository.SkillProof{
		ID:          uuid.New(),
		CandidateID: candidateID,
		CompanyID:   companyID,
		TaskName:    req.TaskName,
		TaskType:    req.TaskType,
		Score:       req.Score,
		Flags:       req.Flags,
		Evaluation:  req.Evaluation,
	}
	if err := h.proofs.Create(c.Context(), p); err != nil {
		return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewSkillProofResponse(p))
}
