package dto

import (
	"time"

	"github.com/google/uuid"

	"clarity/internal/repository"
)

// UserResponse is the public user shape. The credential hash is never
// part of any response.
type UserResponse struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Role                string    `json:"role"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
}

func NewUserResponse(u repository.User) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		Role:                string(u.Role),
		OnboardingCompleted: u.OnboardingCompleted,
		CreatedAt:           u.CreatedAt,
	}
}
