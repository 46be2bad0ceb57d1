package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/invoice-ledger/internal/domain/user"
	"github.com/invoice-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// UserRepository implements the user.Repository interface for PostgreSQL
type UserRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(logger *slog.Logger, db *persistence.PostgresDB) user.Repository {
	return &UserRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new user. Username and phone uniqueness is enforced by
// database constraints.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, phone, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.querier.Exec(ctx, query,
		u.ID,
		u.Username,
		u.PasswordHash,
		u.Phone,
		u.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create user", "username", u.Username, "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByUsername retrieves a user by username, returning (nil, nil) when absent
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `
		SELECT id, username, password_hash, phone, created_at
		FROM users
		WHERE username = $1
	`

	var u user.User
	err := r.querier.QueryRow(ctx, query, username).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Phone,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get user by username", "username", username, "error", err)
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &u, nil
}

// GetByUsernameOrPhone retrieves a user holding either identifier,
// returning (nil, nil) when both are free
func (r *UserRepository) GetByUsernameOrPhone(ctx context.Context, username, phone string) (*user.User, error) {
	query := `
		SELECT id, username, password_hash, phone, created_at
		FROM users
		WHERE username = $1 OR phone = $2
	`

	var u user.User
	err := r.querier.QueryRow(ctx, query, username, phone).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Phone,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get user by username or phone", "username", username, "error", err)
		return nil, fmt.Errorf("failed to get user by username or phone: %w", err)
	}

	return &u, nil
}
