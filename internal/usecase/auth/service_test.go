package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity/internal/database"
	"clarity/internal/domain"
	"clarity/internal/repository"
)

type stubUserRepo struct {
	users map[uuid.UUID]repository.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[uuid.UUID]repository.User{}}
}

func (m *stubUserRepo) Create(_ context.Context, u repository.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrUserDuplicate
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *stubUserRepo) GetByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	u, ok := m.users[id]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *stubUserRepo) GetByEmail(_ context.Context, email string) (repository.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrUserNotFound
}

func (m *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (m *stubUserRepo) SetOnboardingCompleted(_ context.Context, id uuid.UUID, completed bool) error {
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.OnboardingCompleted = completed
	m.users[id] = u
	return nil
}

type stubHistoryRepo struct {
	events []repository.HistoryEvent
}

func (m *stubHistoryRepo) Append(_ context.Context, _ database.Querier, e repository.HistoryEvent) error {
	m.events = append(m.events, e)
	return nil
}

func (m *stubHistoryRepo) ListByUser(context.Context, uuid.UUID, int) ([]repository.HistoryEvent, error) {
	return nil, nil
}

func (m *stubHistoryRepo) ListByUserAndKind(context.Context, uuid.UUID, domain.EventKind, time.Time, int) ([]repository.HistoryEvent, error) {
	return nil, nil
}

func (m *stubHistoryRepo) CountByUserAndKindSince(context.Context, uuid.UUID, domain.EventKind, time.Time) (int, error) {
	return 0, nil
}

func (m *stubHistoryRepo) CountsByKind(context.Context, uuid.UUID, int) (map[domain.EventKind]int, error) {
	return nil, nil
}

func TestService_Register(t *testing.T) {
	users := newStubUserRepo()
	history := &stubHistoryRepo{}
	svc := NewService(users, history)

	u, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ada",
		Email:    "  Ada@Example.com ",
		Password: "supersecret",
		Role:     "student",
	})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", u.Email, "email is normalized")
	assert.Equal(t, domain.RoleStudent, u.Role)
	assert.Empty(t, u.PasswordHash, "hash never leaves the service")

	stored := users.users[u.ID]
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "supersecret", stored.PasswordHash)

	require.Len(t, history.events, 1)
	assert.Equal(t, domain.EventOther, history.events[0].Kind)
	assert.Equal(t, "signup", history.events[0].Context["action"])
}

func TestService_Register_Validation(t *testing.T) {
	svc := NewService(newStubUserRepo(), &stubHistoryRepo{})

	cases := []RegisterInput{
		{Name: "Ada", Email: "", Password: "supersecret", Role: "student"},
		{Name: "Ada", Email: "a@b.c", Password: "short", Role: "student"},
		{Name: "", Email: "a@b.c", Password: "supersecret", Role: "student"},
		{Name: "Ada", Email: "a@b.c", Password: "supersecret", Role: "superuser"},
	}
	for _, in := range cases {
		_, err := svc.Register(context.Background(), in)
		assert.ErrorIs(t, err, ErrInvalidInput, "input %+v", in)
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc := NewService(newStubUserRepo(), &stubHistoryRepo{})

	in := RegisterInput{Name: "Ada", Email: "a@b.c", Password: "supersecret", Role: "student"}
	_, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), in)
	require.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestService_Login(t *testing.T) {
	users := newStubUserRepo()
	history := &stubHistoryRepo{}
	svc := NewService(users, history)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Ada", Email: "a@b.c", Password: "supersecret", Role: "professional",
	})
	require.NoError(t, err)

	u, err := svc.Login(context.Background(), LoginInput{Email: "A@B.C", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", u.Email)
	assert.Empty(t, u.PasswordHash)

	logins := 0
	for _, e := range history.events {
		if e.Kind == domain.EventLogin {
			logins++
		}
	}
	assert.Equal(t, 1, logins)

	_, err = svc.Login(context.Background(), LoginInput{Email: "a@b.c", Password: "wrongpass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@b.c", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
