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

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pesawallet/wallet-ledger/internal/domain/account"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name string, phone string, pin string) (*account.Account, string, error) {
	args := m.Called(ctx, name, phone, pin)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*account.Account), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, phone string, pin string) (*account.Account, string, error) {
	args := m.Called(ctx, phone, pin)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*account.Account), args.String(1), args.Error(2)
}

func (m *MockAuthService) GetAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	return r
}

func decodeData[T any](t *testing.T, body []byte) T {
	t.Helper()
	var topLevel Response
	require.NoError(t, json.Unmarshal(body, &topLevel), "Failed to unmarshal top-level response")
	require.NotNil(t, topLevel.Data, "'data' field should not be nil")

	dataBytes, err := json.Marshal(topLevel.Data)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(dataBytes, &out))
	return out
}

func decodeError(t *testing.T, body []byte) *ErrorInfo {
	t.Helper()
	var topLevel Response
	require.NoError(t, json.Unmarshal(body, &topLevel))
	require.NotNil(t, topLevel.Error, "'error' field should not be nil")
	return topLevel.Error
}

func TestAuthHandler_Register(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	postRegister := func(handler *AuthHandler, body string) *httptest.ResponseRecorder {
		router := setupTestRouter()
		router.POST("/auth/register", handler.Register)
		req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(logger, mockService)

		acc := &account.Account{
			ID:       uuid.New(),
			Name:     "John Doe",
			Phone:    "+254712345678",
			Balance:  0,
			Currency: "USD",
		}
		mockService.On("Register", mock.Anything, "John Doe", "+254712345678", "1234").Return(acc, "session-token", nil)

		body, _ := json.Marshal(RegisterRequest{Name: "John Doe", Phone: "+254712345678", PIN: "1234"})
		rr := postRegister(handler, string(body))

		assert.Equal(t, http.StatusCreated, rr.Code)
		session := decodeData[SessionResponse](t, rr.Body.Bytes())
		assert.Equal(t, acc.ID.String(), session.Account.ID)
		assert.Equal(t, "John Doe", session.Account.Name)
		assert.Equal(t, int64(0), session.Account.Balance)
		assert.Equal(t, "session-token", session.Token)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidRequestBody", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(logger, mockService)

		rr := postRegister(handler, `{"invalid`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t) // Ensure no service methods were called
	})

	t.Run("MissingPIN", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(logger, mockService)

		body, _ := json.Marshal(map[string]string{"name": "John", "phone": "+254712345678"})
		rr := postRegister(handler, string(body))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("DuplicatePhone", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(logger, mockService)

		mockService.On("Register", mock.Anything, "John Doe", "+254712345678", "1234").
			Return(nil, "", account.ErrDuplicatePhone{Phone: "+254712345678"})

		body, _ := json.Marshal(RegisterRequest{Name: "John Doe", Phone: "+254712345678", PIN: "1234"})
		rr := postRegister(handler, string(body))

		assert.Equal(t, http.StatusConflict, rr.Code)
		errInfo := decodeError(t, rr.Body.Bytes())
		assert.Equal(t, "CONFLICT", errInfo.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("PINTooShort", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(logger, mockService)

		mockService.On("Register", mock.Anything, "John Doe", "+254712345678", "12").
			Return(nil, "", account.ErrPINTooShort)

		body, _ := json.Marshal(RegisterRequest{Name: "John Doe", Phone: "+254712345678", PIN: "12"})
		rr := postRegister(handler, string(body))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(logger, mockService)

		mockService.On("Register", mock.Anything, "John Doe", "+254712345678", "1234").
			Return(nil, "", errors.New("database down"))

		body, _ := json.Marshal(RegisterRequest{Name: "John Doe", Phone: "+254712345678", PIN: "1234"})
		rr := postRegister(handler, string(body))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	postLogin := func(handler *AuthHandler, body string) *httptest.ResponseRecorder {
		router := setupTestRouter()
		router.POST("/auth/login", handler.Login)
		req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(logger, mockService)

		acc := &account.Account{
			ID:       uuid.New(),
			Name:     "Jane Doe",
			Phone:    "+254712345678",
			Balance:  4050,
			Currency: "USD",
		}
		mockService.On("Login", mock.Anything, "+254712345678", "1234").Return(acc, "session-token", nil)

		body, _ := json.Marshal(LoginRequest{Phone: "+254712345678", PIN: "1234"})
		rr := postLogin(handler, string(body))

		assert.Equal(t, http.StatusOK, rr.Code)
		session := decodeData[SessionResponse](t, rr.Body.Bytes())
		assert.Equal(t, acc.ID.String(), session.Account.ID)
		assert.Equal(t, int64(4050), session.Account.Balance)
		assert.Equal(t, "session-token", session.Token)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(logger, mockService)

		mockService.On("Login", mock.Anything, "+254712345678", "9999").
			Return(nil, "", account.ErrInvalidCredentials)

		body, _ := json.Marshal(LoginRequest{Phone: "+254712345678", PIN: "9999"})
		rr := postLogin(handler, string(body))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		errInfo := decodeError(t, rr.Body.Bytes())
		assert.Equal(t, "UNAUTHORIZED", errInfo.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(logger, mockService)

		mockService.On("Login", mock.Anything, "+254712345678", "1234").
			Return(nil, "", errors.New("database down"))

		body, _ := json.Marshal(LoginRequest{Phone: "+254712345678", PIN: "1234"})
		rr := postLogin(handler, string(body))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockService.AssertExpectations(t)
	})
}
