package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/GhadeBhavesh/QZone/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// UserRepository stores registered accounts for the score-history API.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user with an already-hashed password.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password) VALUES ($1, $2) RETURNING id, email, created_at`,
		email, passwordHash,
	).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// GetByEmail returns the user plus their password hash for verification.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, string, error) {
	var user domain.User
	var hash string
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password, created_at FROM users WHERE email=$1`,
		email,
	).Scan(&user.ID, &user.Email, &hash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, "", domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, "", fmt.Errorf("get user: %w", err)
	}
	return user, hash, nil
}

// GetByID returns the user without the password hash.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, created_at FROM users WHERE id=$1`,
		id,
	).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
