package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"clarity/internal/database"
	"clarity/internal/domain"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserDuplicate = errors.New("email already registered")
)

type User struct {
	ID                  uuid.UUID
	Name                string
	Email               string
	PasswordHash        string
	Role                domain.Role
	OnboardingCompleted bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type UserRepository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetOnboardingCompleted(ctx context.Context, id uuid.UUID, completed bool) error
}

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, onboarding_completed, created_at, updated_at`

func (r *PostgresUserRepository) Create(ctx context.Context, u User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, onboarding_completed)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.OnboardingCompleted,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserDuplicate
		}
		return err
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) SetOnboardingCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE users SET onboarding_completed = $1, updated_at = now() WHERE id = $2`,
		completed, id,
	)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row database.Row) (User, error) {
	var u User
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.OnboardingCompleted, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	u.Role = domain.Role(role)
	return u, nil
}

// isUniqueViolation reports a Postgres 23505 unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
