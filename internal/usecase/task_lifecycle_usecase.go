package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"clarity/internal/access"
	"clarity/internal/database"
	"clarity/internal/domain"
	"clarity/internal/repository"
)

type SystemTaskInput struct {
	Title         string
	Description   string
	Type          string
	Difficulty    string
	EstimatedTime string
	AssignedDate  *time.Time
	DueDate       *time.Time
}

type TaskLifecycleUsecase interface {
	Complete(ctx context.Context, taskID, actorID uuid.UUID) (repository.Task, error)
	Skip(ctx context.Context, taskID, actorID uuid.UUID, reason string) (repository.Task, error)
	List(ctx context.Context, userID uuid.UUID, f repository.TaskFilter) ([]repository.Task, error)
	Stats(ctx context.Context, userID uuid.UUID) (repository.TaskStats, error)
	CreateSystem(ctx context.Context, userID uuid.UUID, in SystemTaskInput) (repository.Task, error)
}

// TaskLifecycle owns the Pending -> Completed|Skipped transition.
// Both terminal states are final; the transition and its history event
// commit in one transaction so neither can exist without the other.
type TaskLifecycle struct {
	db       database.DB
	tasks    repository.TaskRepository
	history  repository.HistoryRepository
	notifier ActivityNotifier
	now      func() time.Time
}

func NewTaskLifecycleUsecase(db database.DB, tasks repository.TaskRepository, history repository.HistoryRepository, notifier ActivityNotifier) *TaskLifecycle {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &TaskLifecycle{
		db:       db,
		tasks:    tasks,
		history:  history,
		notifier: notifier,
		now:      time.Now,
	}
}

func (u *TaskLifecycle) Complete(ctx context.Context, taskID, actorID uuid.UUID) (repository.Task, error) {
	t, err := u.loadOwned(ctx, taskID, actorID)
	if err != nil {
		return repository.Task{}, err
	}

	at := u.now().UTC()
	event := repository.HistoryEvent{
		ID:          uuid.New(),
		UserID:      actorID,
		Kind:        domain.EventTaskCompleted,
		Description: "Completed task: " + t.Title,
		Context:     taskEventContext(t),
	}

	err = u.transition(ctx, event, func(q database.Querier) (bool, error) {
		return u.tasks.MarkCompleted(ctx, q, taskID, actorID, at)
	})
	if err != nil {
		return repository.Task{}, err
	}

	t.Completed = true
	t.CompletedAt = &at
	u.notifier.HistoryAppended(actorID, event)
	return t, nil
}

func (u *TaskLifecycle) Skip(ctx context.Context, taskID, actorID uuid.UUID, reason string) (repository.Task, error) {
	t, err := u.loadOwned(ctx, taskID, actorID)
	if err != nil {
		return repository.Task{}, err
	}

	reason = strings.TrimSpace(reason)
	eventCtx := taskEventContext(t)
	if reason != "" {
		eventCtx["reason"] = reason
	}
	event := repository.HistoryEvent{
		ID:          uuid.New(),
		UserID:      actorID,
		Kind:        domain.EventTaskSkipped,
		Description: "Skipped task: " + t.Title,
		Context:     eventCtx,
	}

	err = u.transition(ctx, event, func(q database.Querier) (bool, error) {
		return u.tasks.MarkSkipped(ctx, q, taskID, actorID, reason)
	})
	if err != nil {
		return repository.Task{}, err
	}

	t.Skipped = true
	t.SkipReason = reason
	u.notifier.HistoryAppended(actorID, event)
	return t, nil
}

func (u *TaskLifecycle) List(ctx context.Context, userID uuid.UUID, f repository.TaskFilter) ([]repository.Task, error) {
	out, err := u.tasks.ListByUser(ctx, userID, f)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *TaskLifecycle) Stats(ctx context.Context, userID uuid.UUID) (repository.TaskStats, error) {
	s, err := u.tasks.Stats(ctx, userID)
	if err != nil {
		return repository.TaskStats{}, ErrInternal
	}
	return s, nil
}

// CreateSystem inserts a task on behalf of the system. End users can
// never create tasks; the delivery layer only exposes this outside
// production.
func (u *TaskLifecycle) CreateSystem(ctx context.Context, userID uuid.UUID, in SystemTaskInput) (repository.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return repository.Task{}, ErrInvalidInput
	}
	taskType, err := domain.ParseTaskType(in.Type)
	if err != nil {
		return repository.Task{}, ErrInvalidInput
	}
	difficulty, err := domain.ParseDifficulty(in.Difficulty)
	if err != nil {
		return repository.Task{}, ErrInvalidInput
	}

	assigned := dateOnly(u.now().UTC())
	if in.AssignedDate != nil {
		assigned = dateOnly(in.AssignedDate.UTC())
	}

	t := repository.Task{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		Type:          taskType,
		Difficulty:    difficulty,
		EstimatedTime: in.EstimatedTime,
		AssignedDate:  assigned,
		DueDate:       in.DueDate,
	}
	if err := u.tasks.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrTaskDuplicateDaily) {
			return repository.Task{}, ErrConflict
		}
		return repository.Task{}, ErrInternal
	}
	return t, nil
}

// loadOwned resolves not-found before forbidden before conflict, so a
// caller probing another user's task learns nothing past 403.
func (u *TaskLifecycle) loadOwned(ctx context.Context, taskID, actorID uuid.UUID) (repository.Task, error) {
	t, err := u.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return repository.Task{}, ErrNotFound
		}
		return repository.Task{}, ErrInternal
	}
	if !access.OwnsTask(actorID, t.UserID) {
		return repository.Task{}, ErrForbidden
	}
	if !t.Pending() {
		return repository.Task{}, ErrConflict
	}
	return t, nil
}

func (u *TaskLifecycle) transition(ctx context.Context, event repository.HistoryEvent, mark func(database.Querier) (bool, error)) error {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return ErrInternal
	}
	// Rollback after a successful commit is a no-op error; ignore it.
	defer func() { _ = tx.Rollback(ctx) }()

	changed, err := mark(tx)
	if err != nil {
		return ErrInternal
	}
	if !changed {
		// Lost a race with a concurrent transition.
		return ErrConflict
	}

	if err := u.history.Append(ctx, tx, event); err != nil {
		return ErrInternal
	}
	if err := tx.Commit(ctx); err != nil {
		return ErrInternal
	}
	return nil
}

func taskEventContext(t repository.Task) map[string]any {
	return map[string]any{
		"task_id":       t.ID.String(),
		"task_title":    t.Title,
		"task_type":     string(t.Type),
		"assigned_date": t.AssignedDate.Format("2006-01-02"),
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
