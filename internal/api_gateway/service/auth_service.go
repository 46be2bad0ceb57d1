package service

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"github.com/invoice-ledger/internal/domain/user"
)

// AuthServiceImpl implements the AuthService interface. Passwords arrive
// already hashed; this layer only stores and compares digests.
type AuthServiceImpl struct {
	userRepo user.Repository
	logger   *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(logger *slog.Logger, userRepo user.Repository) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register creates a user account, refusing taken usernames and phone numbers
func (s *AuthServiceImpl) Register(ctx context.Context, username, passwordHash, phone string) (*user.User, error) {
	existing, err := s.userRepo.GetByUsernameOrPhone(ctx, username, phone)
	if err != nil {
		s.logger.Error("Failed to check for existing user",
			"username", username,
			"error", err,
		)
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists{Username: username}
	}

	u, err := user.NewUser(username, passwordHash, phone)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		s.logger.Error("Failed to create user",
			"username", username,
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("User registered", "username", username, "user_id", u.ID)
	return u, nil
}

// Login checks pre-hashed credentials against the stored digest
func (s *AuthServiceImpl) Login(ctx context.Context, username, passwordHash string) (*user.User, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		s.logger.Error("Failed to look up user for login",
			"username", username,
			"error", err,
		)
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials{}
	}

	if subtle.ConstantTimeCompare([]byte(u.PasswordHash), []byte(passwordHash)) != 1 {
		s.logger.Info("Login refused for credential mismatch", "username", username)
		return nil, ErrInvalidCredentials{}
	}

	return u, nil
}
