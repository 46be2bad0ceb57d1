package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoice-ledger/internal/api_gateway/service"
	"github.com/invoice-ledger/internal/domain/user"
)

// AuthHandler handles HTTP requests for registration and login
type AuthHandler struct {
	authService service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(logger *slog.Logger, authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register creates a new user account from pre-hashed credentials
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	u, err := h.authService.Register(c.Request.Context(), req.Username, req.PasswordHash, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists{}):
			RespondConflict(c, "Username or phone already registered")
		case errors.Is(err, user.ErrEmptyUsername),
			errors.Is(err, user.ErrEmptyPasswordHash),
			errors.Is(err, user.ErrEmptyPhone):
			RespondBadRequest(c, err.Error())
		default:
			h.logger.Error("Failed to register user", "username", req.Username, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, mapUserToResponse(u))
}

// Login checks pre-hashed credentials and returns the account on success
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	u, err := h.authService.Login(c.Request.Context(), req.Username, req.PasswordHash)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials{}) {
			RespondUnauthorized(c, "Invalid username or password")
			return
		}
		h.logger.Error("Failed to log in user", "username", req.Username, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapUserToResponse(u))
}

// mapUserToResponse maps a user to a response DTO
func mapUserToResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
