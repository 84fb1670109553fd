package dto

import (
	"time"

	"github.com/google/uuid"

	"clarity/internal/repository"
)

type TaskResponse struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Type          string     `json:"type"`
	Difficulty    string     `json:"difficulty,omitempty"`
	EstimatedTime string     `json:"estimated_time,omitempty"`
	AssignedDate  string     `json:"assigned_date"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Skipped       bool       `json:"skipped"`
	SkipReason    string     `json:"skip_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewTaskResponse(t repository.Task) TaskResponse {
	return TaskResponse{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Type:          string(t.Type),
		Difficulty:    string(t.Difficulty),
		EstimatedTime: t.EstimatedTime,
		AssignedDate:  t.AssignedDate.Format("2006-01-02"),
		DueDate:       t.DueDate,
		Completed:     t.Completed,
		CompletedAt:   t.CompletedAt,
		Skipped:       t.Skipped,
		SkipReason:    t.SkipReason,
		CreatedAt:     t.CreatedAt,
	}
}

func NewTaskResponses(tasks []repository.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t))
	}
	return out
}
