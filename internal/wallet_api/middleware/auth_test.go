package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesawallet/wallet-ledger/internal/wallet_api/service"
)

func authTestRouter(tokens *service.TokenIssuer) (*gin.Engine, *uuid.UUID) {
	gin.SetMode(gin.TestMode)
	var seenAccountID uuid.UUID
	router := gin.New()
	router.Use(Auth(tokens))
	router.GET("/protected", func(c *gin.Context) {
		id, ok := GetAccountID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		seenAccountID = id
		c.Status(http.StatusOK)
	})
	return router, &seenAccountID
}

func TestAuthMiddleware(t *testing.T) {
	tokens := service.NewTokenIssuer("test-secret", time.Hour, "wallet_api_test")

	t.Run("ValidToken", func(t *testing.T) {
		router, seenAccountID := authTestRouter(tokens)

		accountID := uuid.New()
		token, err := tokens.Issue(accountID)
		require.NoError(t, err)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, accountID, *seenAccountID)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		router, _ := authTestRouter(tokens)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		router, _ := authTestRouter(tokens)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("TamperedToken", func(t *testing.T) {
		router, _ := authTestRouter(tokens)

		token, err := tokens.Issue(uuid.New())
		require.NoError(t, err)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		expiredIssuer := service.NewTokenIssuer("test-secret", -time.Minute, "wallet_api_test")
		router, _ := authTestRouter(tokens)

		token, err := expiredIssuer.Issue(uuid.New())
		require.NoError(t, err)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestGetAccountID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("ReturnsIDWhenSet", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		expected := uuid.New()
		c.Set(AccountIDKey, expected)

		id, ok := GetAccountID(c)
		assert.True(t, ok)
		assert.Equal(t, expected, id)
	})

	t.Run("ReturnsFalseWhenMissing", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		_, ok := GetAccountID(c)
		assert.False(t, ok)
	})

	t.Run("ReturnsFalseOnWrongType", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(AccountIDKey, "not-a-uuid-type")
		_, ok := GetAccountID(c)
		assert.False(t, ok)
	})
}
