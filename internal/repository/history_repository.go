package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"clarity/internal/database"
	"clarity/internal/domain"
)

var ErrEventInvalid = errors.New("invalid history event")

// HistoryEvent rows are append-only: this repository exposes no update
// or delete. Retention is an out-of-process concern.
type HistoryEvent struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Kind        domain.EventKind
	Description string
	Context     map[string]any
	CreatedAt   time.Time
}

type HistoryRepository interface {
	// Append inserts one event. q may be an open transaction when the
	// event must commit together with the state change it records.
	Append(ctx context.Context, q database.Querier, e HistoryEvent) error

	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]HistoryEvent, error)
	ListByUserAndKind(ctx context.Context, userID uuid.UUID, kind domain.EventKind, since time.Time, limit int) ([]HistoryEvent, error)
	CountByUserAndKindSince(ctx context.Context, userID uuid.UUID, kind domain.EventKind, since time.Time) (int, error)
	CountsByKind(ctx context.Context, userID uuid.UUID, limit int) (map[domain.EventKind]int, error)
}

type PostgresHistoryRepository struct {
	db database.DB
}

func NewPostgresHistoryRepository(db database.DB) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

func (r *PostgresHistoryRepository) Append(ctx context.Context, q database.Querier, e HistoryEvent) error {
	if e.ID == uuid.Nil || e.UserID == uuid.Nil {
		return ErrEventInvalid
	}
	if _, err := domain.ParseEventKind(string(e.Kind)); err != nil {
		return ErrEventInvalid
	}
	if q == nil {
		q = r.db
	}

	var rawContext []byte
	if e.Context != nil {
		b, err := json.Marshal(e.Context)
		if err != nil {
			return err
		}
		rawContext = b
	}

	_, err := q.Exec(ctx,
		`INSERT INTO history_events (id, user_id, event_type, description, context)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.UserID, string(e.Kind), e.Description, rawContext,
	)
	return err
}

func (r *PostgresHistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]HistoryEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, event_type, description, context, created_at
		 FROM history_events WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *PostgresHistoryRepository) ListByUserAndKind(ctx context.Context, userID uuid.UUID, kind domain.EventKind, since time.Time, limit int) ([]HistoryEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, event_type, description, context, created_at
		 FROM history_events
		 WHERE user_id = $1 AND event_type = $2 AND created_at >= $3
		 ORDER BY created_at DESC LIMIT $4`,
		userID, string(kind), since, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *PostgresHistoryRepository) CountByUserAndKindSince(ctx context.Context, userID uuid.UUID, kind domain.EventKind, since time.Time) (int, error) {
	var n int
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM history_events
		 WHERE user_id = $1 AND event_type = $2 AND created_at >= $3`,
		userID, string(kind), since,
	)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresHistoryRepository) CountsByKind(ctx context.Context, userID uuid.UUID, limit int) (map[domain.EventKind]int, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := r.db.Query(ctx,
		`SELECT event_type, COUNT(*)
		 FROM (SELECT event_type FROM history_events
		       WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2) recent
		 GROUP BY event_type`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[domain.EventKind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		out[domain.EventKind(kind)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func collectEvents(rows database.Rows) ([]HistoryEvent, error) {
	out := make([]HistoryEvent, 0)
	for rows.Next() {
		var e HistoryEvent
		var kind string
		var raw []byte
		if err := rows.Scan(&e.ID, &e.UserID, &kind, &e.Description, &raw, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = domain.EventKind(kind)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &e.Context); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
