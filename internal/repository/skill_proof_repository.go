package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"clarity/internal/database"
)

// SkillProof records are never deleted (audit retention). The
// evaluation pipeline that scores them lives outside this service;
// this repository exists for the ownership and linkage contract.
type SkillProof struct {
	ID          uuid.UUID
	CandidateID uuid.UUID
	CompanyID   uuid.UUID
	TaskName    string
	TaskType    string
	Score       int
	Flags       []string
	Evaluation  map[string]any
	SubmittedAt time.Time
	EvaluatedAt *time.Time
}

type SkillProofRepository interface {
	Create(ctx context.Context, p SkillProof) error
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]SkillProof, error)

	// LinkExists answers the company→candidate linkage question the
	// access guard delegates here.
	LinkExists(ctx context.Context, companyID, candidateID uuid.UUID) (bool, error)
}

type PostgresSkillProofRepository struct {
	db database.DB
}

func NewPostgresSkillProofRepository(db database.DB) *PostgresSkillProofRepository {
	return &PostgresSkillProofRepository{db: db}
}

func (r *PostgresSkillProofRepository) Create(ctx context.Context, p SkillProof) error {
	var evaluation []byte
	if p.Evaluation != nil {
		b, err := json.Marshal(p.Evaluation)
		if err != nil {
			return err
		}
		evaluation = b
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO skill_proofs (id, candidate_id, company_id, task_name, task_type, score, flags, evaluation, evaluated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.CandidateID, p.CompanyID, p.TaskName, p.TaskType, p.Score, p.Flags, evaluation, p.EvaluatedAt,
	)
	return err
}

func (r *PostgresSkillProofRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]SkillProof, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, candidate_id, company_id, task_name, task_type, score, flags, evaluation, submitted_at, evaluated_at
		 FROM skill_proofs WHERE candidate_id = $1 ORDER BY submitted_at DESC`,
		candidateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProofs(rows)
}

func (r *PostgresSkillProofRepository) LinkExists(ctx context.Context, companyID, candidateID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM skill_proofs WHERE company_id = $1 AND candidate_id = $2)`,
		companyID, candidateID,
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func collectProofs(rows database.Rows) ([]SkillProof, error) {
	out := make([]SkillProof, 0)
	for rows.Next() {
		var p SkillProof
		var raw []byte
		if err := rows.Scan(&p.ID, &p.CandidateID, &p.CompanyID, &p.TaskName, &p.TaskType, &p.Score, &p.Flags, &raw, &p.SubmittedAt, &p.EvaluatedAt); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &p.Evaluation); err != nil {
				return nil, err
			}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
