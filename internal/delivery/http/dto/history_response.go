package dto

import (
	"time"

	"github.com/google/uuid"

	"clarity/internal/repository"
)

type HistoryEventResponse struct {
	ID          uuid.UUID      `json:"id"`
	EventType   string         `json:"event_type"`
	Description string         `json:"description"`
	Context     map[string]any `json:"context,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func NewHistoryEventResponse(e repository.HistoryEvent) HistoryEventResponse {
	return HistoryEventResponse{
		ID:          e.ID,
		EventType:   string(e.Kind),
		Description: e.Description,
		Context:     e.Context,
		CreatedAt:   e.CreatedAt,
	}
}

func NewHistoryEventResponses(events []repository.HistoryEvent) []HistoryEventResponse {
	out := make([]HistoryEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, NewHistoryEventResponse(e))
	}
	return out
}
