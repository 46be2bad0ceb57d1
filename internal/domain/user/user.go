// Package user holds the account boundary for the mirror store. Credential
// hashing happens before a password reaches this system; only digests are
// stored and compared.
package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyUsername     = errors.New("username cannot be empty")
	ErrEmptyPasswordHash = errors.New("password hash cannot be empty")
	ErrEmptyPhone        = errors.New("phone cannot be empty")
)

// User represents a registered invoice owner
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser creates a user after checking the registration fields
func NewUser(username, passwordHash, phone string) (*User, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if passwordHash == "" {
		return nil, ErrEmptyPasswordHash
	}
	if phone == "" {
		return nil, ErrEmptyPhone
	}

	return &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		Phone:        phone,
		CreatedAt:    time.Now(),
	}, nil
}

// Repository defines user persistence operations
type Repository interface {
	Create(ctx context.Context, u *User) error

	// GetByUsername returns (nil, nil) when no user exists.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByUsernameOrPhone returns (nil, nil) when neither field is taken.
	// Used for idempotent-by-inspection registration.
	GetByUsernameOrPhone(ctx context.Context, username, phone string) (*User, error)
}
