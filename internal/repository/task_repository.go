package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"clarity/internal/database"
	"clarity/internal/domain"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskDuplicateDaily = errors.New("daily task already exists for date")
)

type Task struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Title         string
	Description   string
	Type          domain.TaskType
	Difficulty    domain.Difficulty
	EstimatedTime string
	AssignedDate  time.Time
	DueDate       *time.Time
	Completed     bool
	CompletedAt   *time.Time
	Skipped       bool
	SkipReason    string
	Archived      bool
	ArchivedAt    *time.Time
	CreatedAt     time.Time
}

// Pending reports whether the task is still open (neither terminal state).
func (t Task) Pending() bool {
	return !t.Completed && !t.Skipped
}

type TaskFilter struct {
	Date          *time.Time
	Type          *domain.TaskType
	AssignedSince *time.Time
	CompletedOnly bool
	TerminalOnly  bool
	Limit         int
}

type TaskStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
	Pending   int `json:"pending"`
}

type TaskRepository interface {
	Create(ctx context.Context, t Task) error
	GetByID(ctx context.Context, id uuid.UUID) (Task, error)
	ListByUser(ctx context.Context, userID uuid.UUID, f TaskFilter) ([]Task, error)
	Stats(ctx context.Context, userID uuid.UUID) (TaskStats, error)

	// MarkCompleted and MarkSkipped are compare-and-set transitions: the
	// update applies only while the row is owned by userID and not yet
	// terminal. They report whether a row changed. q may be an open
	// transaction so the paired audit write commits atomically.
	MarkCompleted(ctx context.Context, q database.Querier, id, userID uuid.UUID, at time.Time) (bool, error)
	MarkSkipped(ctx context.Context, q database.Querier, id, userID uuid.UUID, reason string) (bool, error)
}

type PostgresTaskRepository struct {
	db database.DB
}

func NewPostgresTaskRepository(db database.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

const taskColumns = `id, user_id, title, description, task_type, difficulty, estimated_time,
	assigned_date, due_date, completed, completed_at, skipped, skip_reason,
	archived, archived_at, created_at`

func (r *PostgresTaskRepository) Create(ctx context.Context, t Task) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tasks (id, user_id, title, description, task_type, difficulty,
		                    estimated_time, assigned_date, due_date)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8, $9)`,
		t.ID, t.UserID, t.Title, t.Description, string(t.Type), string(t.Difficulty),
		t.EstimatedTime, t.AssignedDate, t.DueDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTaskDuplicateDaily
		}
		return err
	}
	return nil
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (Task, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND archived = FALSE`, id)
	return scanTask(row)
}

func (r *PostgresTaskRepository) ListByUser(ctx context.Context, userID uuid.UUID, f TaskFilter) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 AND archived = FALSE`
	args := []any{userID}

	if f.Date != nil {
		args = append(args, *f.Date)
		query += ` AND assigned_date = $` + strconv.Itoa(len(args))
	}
	if f.Type != nil {
		args = append(args, string(*f.Type))
		query += ` AND task_type = $` + strconv.Itoa(len(args))
	}
	if f.AssignedSince != nil {
		args = append(args, *f.AssignedSince)
		query += ` AND assigned_date >= $` + strconv.Itoa(len(args))
	}
	if f.CompletedOnly {
		query += ` AND completed = TRUE`
	}
	if f.TerminalOnly {
		query += ` AND (completed = TRUE OR skipped = TRUE)`
	}

	query += ` ORDER BY assigned_date DESC, created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		t, err := scanTaskFrom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresTaskRepository) Stats(ctx context.Context, userID uuid.UUID) (TaskStats, error) {
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE completed),
		        COUNT(*) FILTER (WHERE skipped),
		        COUNT(*) FILTER (WHERE NOT completed AND NOT skipped)
		 FROM tasks WHERE user_id = $1 AND archived = FALSE`,
		userID,
	)

	var s TaskStats
	if err := row.Scan(&s.Total, &s.Completed, &s.Skipped, &s.Pending); err != nil {
		return TaskStats{}, err
	}
	return s, nil
}

func (r *PostgresTaskRepository) MarkCompleted(ctx context.Context, q database.Querier, id, userID uuid.UUID, at time.Time) (bool, error) {
	if q == nil {
		q = r.db
	}
	rowsAffected, err := q.Exec(ctx,
		`UPDATE tasks SET completed = TRUE, completed_at = $1
		 WHERE id = $2 AND user_id = $3 AND completed = FALSE AND skipped = FALSE AND archived = FALSE`,
		at, id, userID,
	)
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func (r *PostgresTaskRepository) MarkSkipped(ctx context.Context, q database.Querier, id, userID uuid.UUID, reason string) (bool, error) {
	if q == nil {
		q = r.db
	}
	rowsAffected, err := q.Exec(ctx,
		`UPDATE tasks SET skipped = TRUE, skip_reason = NULLIF($1, '')
		 WHERE id = $2 AND user_id = $3 AND completed = FALSE AND skipped = FALSE AND archived = FALSE`,
		reason, id, userID,
	)
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func scanTask(row database.Row) (Task, error) {
	t, err := scanTaskFrom(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Task{}, ErrTaskNotFound
		}
		return Task{}, err
	}
	return t, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTaskFrom(s scanner) (Task, error) {
	var t Task
	var taskType string
	var description, difficulty, skipReason sql.NullString
	if err := s.Scan(
		&t.ID, &t.UserID, &t.Title, &description, &taskType, &difficulty, &t.EstimatedTime,
		&t.AssignedDate, &t.DueDate, &t.Completed, &t.CompletedAt, &t.Skipped, &skipReason,
		&t.Archived, &t.ArchivedAt, &t.CreatedAt,
	); err != nil {
		return Task{}, err
	}
	t.Description = description.String
	t.Type = domain.TaskType(taskType)
	t.Difficulty = domain.Difficulty(difficulty.String)
	t.SkipReason = skipReason.String
	return t, nil
}

