package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"clarity/internal/domain"
	"clarity/internal/repository"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternal               = errors.New("internal error")
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type LoginInput struct {
	Email    string
	Password string
}

// Service covers credential handling only. Token issuance lives one
// layer up so this stays testable without a signing key.
type Service struct {
	users   repository.UserRepository
	history repository.HistoryRepository
}

func NewService(users repository.UserRepository, history repository.HistoryRepository) *Service {
	return &Service{users: users, history: history}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (repository.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return repository.User{}, ErrInvalidInput
	}
	if !isValidPassword(in.Password) {
		return repository.User{}, ErrInvalidInput
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return repository.User{}, ErrInvalidInput
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return repository.User{}, ErrInvalidInput
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return repository.User{}, ErrInternal
	}
	if exists {
		return repository.User{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return repository.User{}, ErrInternal
	}

	u := repository.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUserDuplicate) {
			return repository.User{}, ErrEmailAlreadyRegistered
		}
		return repository.User{}, ErrInternal
	}

	created, err := s.users.GetByID(ctx, u.ID)
	if err != nil {
		return repository.User{}, ErrInternal
	}

	s.recordEvent(ctx, created.ID, domain.EventOther, "Account created", map[string]any{
		"action": "signup",
		"role":   string(created.Role),
		"name":   created.Name,
	})

	return sanitizeUser(created), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (repository.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return repository.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return repository.User{}, ErrInvalidCredentials
		}
		return repository.User{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return repository.User{}, ErrInvalidCredentials
	}

	s.recordEvent(ctx, u.ID, domain.EventLogin, "Signed in", nil)

	return sanitizeUser(u), nil
}

// recordEvent is best-effort: a failed audit write must not reject an
// otherwise valid credential flow.
func (s *Service) recordEvent(ctx context.Context, userID uuid.UUID, kind domain.EventKind, description string, eventCtx map[string]any) {
	_ = s.history.Append(ctx, nil, repository.HistoryEvent{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        kind,
		Description: description,
		Context:     eventCtx,
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidPassword(pw string) bool {
	return len(strings.TrimSpace(pw)) >= 8
}

func sanitizeUser(u repository.User) repository.User {
	u.PasswordHash = ""
	return u
}
