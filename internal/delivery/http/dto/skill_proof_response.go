package dto

import (
	"time"

	"github.com/google/uuid"

	"clarity/internal/repository"
)

type SkillProofResponse struct {
	ID          uuid.UUID      `json:"id"`
	CandidateID uuid.UUID      `json:"candidate_id"`
	TaskName    string         `json:"task_name"`
	TaskType    string         `json:"task_type"`
	Score       int            `json:"score"`
	Flags       []string       `json:"flags,omitempty"`
	Evaluation  map[string]any `json:"evaluation,omitempty"`
	SubmittedAt time.Time      `json:"submitted_at"`
	EvaluatedAt *time.Time     `json:"evaluated_at,omitempty"`
}

func NewSkillProofResponse(p repository.SkillProof) SkillProofResponse {
	return SkillProofResponse{
		ID:          p.ID,
		CandidateID: p.CandidateID,
		TaskName:    p.TaskName,
		TaskType:    p.TaskType,
		Score:       p.Score,
		Flags:       p.Flags,
		Evaluation:  p.Evaluation,
		SubmittedAt: p.SubmittedAt,
		EvaluatedAt: p.EvaluatedAt,
	}
}

func NewSkillProofResponses(proofs []repository.SkillProof) []SkillProofResponse {
	out := make([]SkillProofResponse, 0, len(proofs))
	for _, p := range proofs {
		out = append(out, NewSkillProofResponse(p))
	}
	return out
}
