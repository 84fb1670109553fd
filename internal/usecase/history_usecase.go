package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"clarity/internal/access"
	"clarity/internal/domain"
	"clarity/internal/repository"
)

type HistorySummary struct {
	Tasks       repository.TaskStats     `json:"tasks"`
	EventCounts map[domain.EventKind]int `json:"event_counts"`
}

type CandidateRecord struct {
	Events []repository.HistoryEvent
	Proofs []repository.SkillProof
}

type HistoryUsecase interface {
	Events(ctx context.Context, userID uuid.UUID, kind string, limit int) ([]repository.HistoryEvent, error)
	TaskHistory(ctx context.Context, userID uuid.UUID, limit int) ([]repository.Task, error)
	Summary(ctx context.Context, userID uuid.UUID) (HistorySummary, error)
	CandidateRecord(ctx context.Context, actorID uuid.UUID, actorRole domain.Role, candidateID uuid.UUID) (CandidateRecord, error)
}

// History exposes read-only projections over the append-only log and
// the terminal task records.
type History struct {
	events repository.HistoryRepository
	tasks  repository.TaskRepository
	proofs repository.SkillProofRepository
}

func NewHistoryUsecase(events repository.HistoryRepository, tasks repository.TaskRepository, proofs repository.SkillProofRepository) *History {
	return &History{events: events, tasks: tasks, proofs: proofs}
}

const summaryEventWindow = 1000

func (h *History) Events(ctx context.Context, userID uuid.UUID, kind string, limit int) ([]repository.HistoryEvent, error) {
	if kind == "" {
		out, err := h.events.ListByUser(ctx, userID, limit)
		if err != nil {
			return nil, ErrInternal
		}
		return out, nil
	}

	parsed, err := domain.ParseEventKind(kind)
	if err != nil {
		return nil, ErrInvalidInput
	}
	out, err := h.events.ListByUserAndKind(ctx, userID, parsed, time.Time{}, limit)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (h *History) TaskHistory(ctx context.Context, userID uuid.UUID, limit int) ([]repository.Task, error) {
	out, err := h.tasks.ListByUser(ctx, userID, repository.TaskFilter{TerminalOnly: true, Limit: limit})
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (h *History) Summary(ctx context.Context, userID uuid.UUID) (HistorySummary, error) {
	stats, err := h.tasks.Stats(ctx, userID)
	if err != nil {
		return HistorySummary{}, ErrInternal
	}
	counts, err := h.events.CountsByKind(ctx, userID, summaryEventWindow)
	if err != nil {
		return HistorySummary{}, ErrInternal
	}
	return HistorySummary{Tasks: stats, EventCounts: counts}, nil
}

// CandidateRecord is the company-side read of a candidate's history
// and skill proofs. Allowed only when a skill-proof linkage exists
// between the acting company and the candidate; reads only, always.
func (h *History) CandidateRecord(ctx context.Context, actorID uuid.UUID, actorRole domain.Role, candidateID uuid.UUID) (CandidateRecord, error) {
	linked, err := h.proofs.LinkExists(ctx, actorID, candidateID)
	if err != nil {
		return CandidateRecord{}, ErrInternal
	}

	allowed := access.Allow(access.Decision{
		ActorID:       actorID,
		ActorRole:     actorRole,
		ResourceOwner: candidateID,
		Resource:      access.ResourceHistory,
		Action:        access.ActionRead,
		CompanyLinked: linked,
	})
	if !allowed {
		return CandidateRecord{}, ErrForbidden
	}

	events, err := h.events.ListByUser(ctx, candidateID, 50)
	if err != nil {
		return CandidateRecord{}, ErrInternal
	}
	proofs, err := h.proofs.ListByCandidate(ctx, candidateID)
	if err != nil {
		return CandidateRecord{}, ErrInternal
	}
	return CandidateRecord{Events: events, Proofs: proofs}, nil
}
