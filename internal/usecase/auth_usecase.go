package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"clarity/internal/domain"
	"clarity/internal/pkg/jwt"
	"clarity/internal/repository"
	ucauth "clarity/internal/usecase/auth"
)

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (repository.User, string, string, error)
	Login(ctx context.Context, in ucauth.LoginInput) (repository.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	Me(ctx context.Context, userID uuid.UUID) (repository.User, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type Auth struct {
	authSvc *ucauth.Service
	users   repository.UserRepository
	history repository.HistoryRepository
	jwt     jwt.Service
}

func NewAuthUsecase(users repository.UserRepository, history repository.HistoryRepository, jwtSvc jwt.Service) *Auth {
	return &Auth{
		authSvc: ucauth.NewService(users, history),
		users:   users,
		history: history,
		jwt:     jwtSvc,
	}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (repository.User, string, string, error) {
	usr, err := u.authSvc.Register(ctx, in)
	if err != nil {
		return repository.User{}, "", "", err
	}
	access, refresh, err := u.issueTokens(usr)
	if err != nil {
		return repository.User{}, "", "", err
	}
	return usr, access, refresh, nil
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (repository.User, string, string, error) {
	usr, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return repository.User{}, "", "", err
	}
	access, refresh, err := u.issueTokens(usr)
	if err != nil {
		return repository.User{}, "", "", err
	}
	return usr, access, refresh, nil
}

// Refresh rotates both tokens. The user row is re-read so the new
// access token carries the current role and onboarding flag, not the
// ones frozen into the old pair.
func (u *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}
	if !u.jwt.IsRefreshToken(claims) {
		return "", "", ErrInvalidRefreshToken
	}

	usr, err := u.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", ErrInternal
	}

	return u.issueTokens(usr)
}

func (u *Auth) Me(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return repository.User{}, ErrNotFound
		}
		return repository.User{}, ErrInternal
	}
	usr.PasswordHash = ""
	return usr, nil
}

func (u *Auth) Logout(ctx context.Context, userID uuid.UUID) error {
	_ = u.history.Append(ctx, nil, repository.HistoryEvent{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        domain.EventOther,
		Description: "Signed out",
	})
	return nil
}

func (u *Auth) issueTokens(usr repository.User) (string, string, error) {
	access, err := u.jwt.GenerateAccessToken(usr.ID, usr.Email, usr.Role, usr.OnboardingCompleted)
	if err != nil {
		return "", "", ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(usr.ID)
	if err != nil {
		return "", "", ErrInternal
	}
	return access, refresh, nil
}
