package usecase

import (
	"github.com/google/uuid"

	"clarity/internal/repository"
)

// ActivityNotifier pushes freshly persisted history events to connected
// clients. Implementations must not block the caller.
type ActivityNotifier interface {
	HistoryAppended(userID uuid.UUID, event repository.HistoryEvent)
}

// NoopNotifier satisfies ActivityNotifier when no transport is wired.
type NoopNotifier struct{}

func (NoopNotifier) HistoryAppended(uuid.UUID, repository.HistoryEvent) {}
