package usecase

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"clarity/internal/database"
	"clarity/internal/domain"
	"clarity/internal/repository"
)

type mockUserRepo struct {
	users          map[uuid.UUID]repository.User
	setCompletedTo []bool
}

func newMockUserRepo(users ...repository.User) *mockUserRepo {
	m := &mockUserRepo{users: map[uuid.UUID]repository.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) Create(_ context.Context, u repository.User) error {
	if _, ok := m.users[u.ID]; ok {
		return repository.ErrUserDuplicate
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	u, ok := m.users[id]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (repository.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrUserNotFound
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *mockUserRepo) SetOnboardingCompleted(_ context.Context, id uuid.UUID, completed bool) error {
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.OnboardingCompleted = completed
	m.users[id] = u
	m.setCompletedTo = append(m.setCompletedTo, completed)
	return nil
}

type mockProfileRepo struct {
	profiles map[uuid.UUID]repository.OnboardingProfile
}

func newMockProfileRepo(profiles ...repository.OnboardingProfile) *mockProfileRepo {
	m := &mockProfileRepo{profiles: map[uuid.UUID]repository.OnboardingProfile{}}
	for _, p := range profiles {
		m.profiles[p.UserID] = p
	}
	return m
}

func (m *mockProfileRepo) Create(_ context.Context, p repository.OnboardingProfile) error {
	if _, ok := m.profiles[p.UserID]; ok {
		return repository.ErrProfileExists
	}
	m.profiles[p.UserID] = p
	return nil
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (repository.OnboardingProfile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return repository.OnboardingProfile{}, repository.ErrProfileNotFound
	}
	return p, nil
}

func (m *mockProfileRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	if _, ok := m.profiles[userID]; !ok {
		return repository.ErrProfileNotFound
	}
	delete(m.profiles, userID)
	return nil
}

// mockTaskRepo mirrors the store's filter and compare-and-set
// semantics in memory so usecase behavior can be exercised alone.
type mockTaskRepo struct {
	tasks     map[uuid.UUID]repository.Task
	createErr error

	markQueriers []database.Querier
}

func newMockTaskRepo(tasks ...repository.Task) *mockTaskRepo {
	m := &mockTaskRepo{tasks: map[uuid.UUID]repository.Task{}}
	for _, t := range tasks {
		m.tasks[t.ID] = t
	}
	return m
}

func (m *mockTaskRepo) Create(_ context.Context, t repository.Task) error {
	if m.createErr != nil {
		return m.createErr
	}
	if t.Type == domain.TaskTypeDaily {
		for _, existing := range m.tasks {
			if existing.UserID == t.UserID && existing.Type == domain.TaskTypeDaily &&
				existing.AssignedDate.Equal(t.AssignedDate) && !existing.Archived {
				return repository.ErrTaskDuplicateDaily
			}
		}
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Task, error) {
	t, ok := m.tasks[id]
	if !ok || t.Archived {
		return repository.Task{}, repository.ErrTaskNotFound
	}
	return t, nil
}

func (m *mockTaskRepo) ListByUser(_ context.Context, userID uuid.UUID, f repository.TaskFilter) ([]repository.Task, error) {
	out := make([]repository.Task, 0)
	for _, t := range m.tasks {
		if t.UserID != userID || t.Archived {
			continue
		}
		if f.Date != nil && !t.AssignedDate.Equal(*f.Date) {
			continue
		}
		if f.Type != nil && t.Type != *f.Type {
			continue
		}
		if f.AssignedSince != nil && t.AssignedDate.Before(*f.AssignedSince) {
			continue
		}
		if f.CompletedOnly && !t.Completed {
			continue
		}
		if f.TerminalOnly && t.Pending() {
			continue
		}
		out = append(out, t)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (m *mockTaskRepo) Stats(_ context.Context, userID uuid.UUID) (repository.TaskStats, error) {
	var s repository.TaskStats
	for _, t := range m.tasks {
		if t.UserID != userID || t.Archived {
			continue
		}
		s.Total++
		switch {
		case t.Completed:
			s.Completed++
		case t.Skipped:
			s.Skipped++
		default:
			s.Pending++
		}
	}
	return s, nil
}

func (m *mockTaskRepo) MarkCompleted(_ context.Context, q database.Querier, id, userID uuid.UUID, at time.Time) (bool, error) {
	m.markQueriers = append(m.markQueriers, q)
	t, ok := m.tasks[id]
	if !ok || t.UserID != userID || !t.Pending() || t.Archived {
		return false, nil
	}
	t.Completed = true
	t.CompletedAt = &at
	m.tasks[id] = t
	return true, nil
}

func (m *mockTaskRepo) MarkSkipped(_ context.Context, q database.Querier, id, userID uuid.UUID, reason string) (bool, error) {
	m.markQueriers = append(m.markQueriers, q)
	t, ok := m.tasks[id]
	if !ok || t.UserID != userID || !t.Pending() || t.Archived {
		return false, nil
	}
	t.Skipped = true
	t.SkipReason = reason
	m.tasks[id] = t
	return true, nil
}

type mockHistoryRepo struct {
	events    []repository.HistoryEvent
	appendErr error

	appendQueriers []database.Querier
	countSince     int
}

func (m *mockHistoryRepo) Append(_ context.Context, q database.Querier, e repository.HistoryEvent) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appendQueriers = append(m.appendQueriers, q)
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	m.events = append(m.events, e)
	return nil
}

func (m *mockHistoryRepo) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]repository.HistoryEvent, error) {
	out := make([]repository.HistoryEvent, 0)
	for _, e := range m.events {
		if e.UserID != userID {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockHistoryRepo) ListByUserAndKind(_ context.Context, userID uuid.UUID, kind domain.EventKind, since time.Time, limit int) ([]repository.HistoryEvent, error) {
	out := make([]repository.HistoryEvent, 0)
	for _, e := range m.events {
		if e.UserID != userID || e.Kind != kind || e.CreatedAt.Before(since) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockHistoryRepo) CountByUserAndKindSince(_ context.Context, _ uuid.UUID, _ domain.EventKind, _ time.Time) (int, error) {
	return m.countSince, nil
}

func (m *mockHistoryRepo) CountsByKind(_ context.Context, userID uuid.UUID, _ int) (map[domain.EventKind]int, error) {
	out := make(map[domain.EventKind]int)
	for _, e := range m.events {
		if e.UserID == userID {
			out[e.Kind]++
		}
	}
	return out, nil
}

func (m *mockHistoryRepo) eventsOfKind(kind domain.EventKind) []repository.HistoryEvent {
	out := make([]repository.HistoryEvent, 0)
	for _, e := range m.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// fakeDB hands out fakeTx transactions and records their outcomes.
type fakeDB struct {
	beginErr error
	txs      []*fakeTx
}

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (db *fakeDB) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.New("not implemented")
}
func (db *fakeDB) Query(context.Context, string, ...any) (database.Rows, error) {
	return nil, errors.New("not implemented")
}
func (db *fakeDB) QueryRow(context.Context, string, ...any) database.Row { return nil }
func (db *fakeDB) Ping(context.Context) error                            { return nil }
func (db *fakeDB) Close() error                                          { return nil }
func (db *fakeDB) SQLDB() *sql.DB                                        { return nil }

func (db *fakeDB) Begin(context.Context) (database.Tx, error) {
	if db.beginErr != nil {
		return nil, db.beginErr
	}
	tx := &fakeTx{}
	db.txs = append(db.txs, tx)
	return tx, nil
}

func (tx *fakeTx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.New("not implemented")
}
func (tx *fakeTx) Query(context.Context, string, ...any) (database.Rows, error) {
	return nil, errors.New("not implemented")
}
func (tx *fakeTx) QueryRow(context.Context, string, ...any) database.Row { return nil }

func (tx *fakeTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if tx.committed {
		return errors.New("tx closed")
	}
	tx.rolledBack = true
	return nil
}

type mockNotifier struct {
	notified []repository.HistoryEvent
}

func (m *mockNotifier) HistoryAppended(_ uuid.UUID, e repository.HistoryEvent) {
	m.notified = append(m.notified, e)
}
