package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/middleware"
)

type stubValidator struct {
	claims *middleware.TokenClaims
}

func (s *stubValidator) ValidateToken(token string) (*middleware.TokenClaims, error) {
	if token == "good-token" {
		return s.claims, nil
	}
	return nil, errors.New("invalid token")
}

func setupAuthRouter(handler gin.HandlerFunc) (*gin.Engine, uuid.UUID) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	validator := &stubValidator{claims: &middleware.TokenClaims{UserID: userID, Username: "chef_anna"}}

	engine := gin.New()
	engine.GET("/protected", middleware.AuthMiddleware(validator), handler)
	engine.GET("/open", middleware.OptionalAuth(validator), handler)
	return engine, userID
}

func identityHandler(c *gin.Context) {
	if id, ok := middleware.UserID(c); ok {
		c.JSON(http.StatusOK, gin.H{"user_id": id.String()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": nil})
}

func get(engine *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	engine, userID := setupAuthRouter(identityHandler)

	w := get(engine, "/protected", "Bearer good-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())

	w = get(engine, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(engine, "/protected", "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(engine, "/protected", "NotBearer good-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	engine, userID := setupAuthRouter(identityHandler)

	w := get(engine, "/open", "Bearer good-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())

	// Anonymous and garbage tokens both pass through without identity.
	for _, header := range []string{"", "Bearer bad-token", "garbage"} {
		w = get(engine, "/open", header)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), userID.String())
	}
}
