package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"clarity/internal/repository"
)

type activityEvent struct {
	Type        string         `json:"type"`
	EventID     uuid.UUID      `json:"event_id"`
	EventType   string         `json:"event_type"`
	Description string         `json:"description"`
	Context     map[string]any `json:"context,omitempty"`
	Timestamp   string         `json:"timestamp"`
}

// Notifier pushes freshly appended history events to the owning user's
// live connections. Satisfies the usecase layer's ActivityNotifier.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) HistoryAppended(userID uuid.UUID, event repository.HistoryEvent) {
	if n == nil || n.hub == nil {
		return
	}

	ts := event.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	evt := activityEvent{
		Type:        "history_appended",
		EventID:     event.ID,
		EventType:   string(event.Kind),
		Description: event.Description,
		Context:     event.Context,
		Timestamp:   ts.UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.SendToUser(userID, b)
}
