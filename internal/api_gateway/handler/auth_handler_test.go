package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoice-ledger/internal/api_gateway/service"
	"github.com/invoice-ledger/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, passwordHash, phone string) (*user.User, error) {
	args := m.Called(ctx, username, passwordHash, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, passwordHash string) (*user.User, error) {
	args := m.Called(ctx, username, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func postJSON(handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestAuthHandler_Register(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(logger, mockService)
		expected := &user.User{
			ID:        uuid.New(),
			Username:  "alice",
			Phone:     "+15550001234",
			CreatedAt: time.Now(),
		}

		mockService.On("Register", mock.Anything, "alice", "digest", "+15550001234").
			Return(expected, nil).Once()

		router := setupTestRouter()
		router.POST("/auth/register", handler.Register)
		rr := postJSON(router, "/auth/register", RegisterRequest{
			Username:     "alice",
			PasswordHash: "digest",
			Phone:        "+15550001234",
		})

		assert.Equal(t, http.StatusCreated, rr.Code)
		_, data := decodeData[UserResponse](t, rr.Body.Bytes())
		assert.Equal(t, expected.ID.String(), data.ID)
		assert.Equal(t, "alice", data.Username)
		assert.Equal(t, "+15550001234", data.Phone)
		mockService.AssertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/auth/register", handler.Register)
		rr := postJSON(router, "/auth/register", RegisterRequest{Username: "alice"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(logger, mockService)

		mockService.On("Register", mock.Anything, "alice", "digest", "+15550001234").
			Return(nil, service.ErrUserAlreadyExists{Username: "alice"}).Once()

		router := setupTestRouter()
		router.POST("/auth/register", handler.Register)
		rr := postJSON(router, "/auth/register", RegisterRequest{
			Username:     "alice",
			PasswordHash: "digest",
			Phone:        "+15550001234",
		})

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(logger, mockService)

		mockService.On("Register", mock.Anything, "alice", "digest", "+15550001234").
			Return(nil, errors.New("postgres down")).Once()

		router := setupTestRouter()
		router.POST("/auth/register", handler.Register)
		rr := postJSON(router, "/auth/register", RegisterRequest{
			Username:     "alice",
			PasswordHash: "digest",
			Phone:        "+15550001234",
		})

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(logger, mockService)
		expected := &user.User{
			ID:       uuid.New(),
			Username: "alice",
			Phone:    "+15550001234",
		}

		mockService.On("Login", mock.Anything, "alice", "digest").Return(expected, nil).Once()

		router := setupTestRouter()
		router.POST("/auth/login", handler.Login)
		rr := postJSON(router, "/auth/login", LoginRequest{Username: "alice", PasswordHash: "digest"})

		assert.Equal(t, http.StatusOK, rr.Code)
		_, data := decodeData[UserResponse](t, rr.Body.Bytes())
		assert.Equal(t, "alice", data.Username)
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(logger, mockService)

		mockService.On("Login", mock.Anything, "alice", "wrong").
			Return(nil, service.ErrInvalidCredentials{}).Once()

		router := setupTestRouter()
		router.POST("/auth/login", handler.Login)
		rr := postJSON(router, "/auth/login", LoginRequest{Username: "alice", PasswordHash: "wrong"})

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(logger, mockService)

		mockService.On("Login", mock.Anything, "alice", "digest").
			Return(nil, errors.New("postgres down")).Once()

		router := setupTestRouter()
		router.POST("/auth/login", handler.Login)
		rr := postJSON(router, "/auth/login", LoginRequest{Username: "alice", PasswordHash: "digest"})

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

var _ service.AuthService = (*MockAuthService)(nil)
