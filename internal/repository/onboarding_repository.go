package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"clarity/internal/database"
	"clarity/internal/domain"
)

var (
	ErrProfileNotFound = errors.New("onboarding profile not found")
	ErrProfileExists   = errors.New("onboarding profile already exists")
)

type OnboardingProfile struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Role        domain.Role
	Answers     domain.OnboardingAnswers
	CompletedAt time.Time
}

type OnboardingRepository interface {
	Create(ctx context.Context, p OnboardingProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (OnboardingProfile, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type PostgresOnboardingRepository struct {
	db database.DB
}

func NewPostgresOnboardingRepository(db database.DB) *PostgresOnboardingRepository {
	return &PostgresOnboardingRepository{db: db}
}

func (r *PostgresOnboardingRepository) Create(ctx context.Context, p OnboardingProfile) error {
	answers, err := json.Marshal(p.Answers)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO onboarding_profiles (id, user_id, role, answers, completed_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.UserID, string(p.Role), answers, p.CompletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrProfileExists
		}
		return err
	}
	return nil
}

func (r *PostgresOnboardingRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (OnboardingProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, role, answers, completed_at
		 FROM onboarding_profiles WHERE user_id = $1`,
		userID,
	)

	var p OnboardingProfile
	var role string
	var raw []byte
	if err := row.Scan(&p.ID, &p.UserID, &role, &raw, &p.CompletedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return OnboardingProfile{}, ErrProfileNotFound
		}
		return OnboardingProfile{}, err
	}
	p.Role = domain.Role(role)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p.Answers); err != nil {
			return OnboardingProfile{}, err
		}
	}
	return p, nil
}

func (r *PostgresOnboardingRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	rowsAffected, err := r.db.Exec(ctx,
		`DELETE FROM onboarding_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
