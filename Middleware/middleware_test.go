package Middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"AcuCare/Models"
	"AcuCare/Utils/Token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(maker *Token.Maker, roles []string, called *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := []gin.HandlerFunc{JwtAuthMiddleware(maker)}
	if roles != nil {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		*called = true
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestJwtAuthMiddlewareMissingToken(t *testing.T) {
	maker := Token.NewMaker("test-secret", time.Hour)
	called := false
	router := newRouter(maker, nil, &called)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestJwtAuthMiddlewareInvalidToken(t *testing.T) {
	maker := Token.NewMaker("test-secret", time.Hour)
	called := false
	router := newRouter(maker, nil, &called)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestJwtAuthMiddlewareExpiredToken(t *testing.T) {
	maker := Token.NewMaker("test-secret", -time.Minute)
	tokenString, err := maker.Generate(Token.Identity{UserID: 1, Role: Models.RoleAdmin})
	require.NoError(t, err)

	called := false
	router := newRouter(maker, nil, &called)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestJwtAuthMiddlewareValidToken(t *testing.T) {
	maker := Token.NewMaker("test-secret", time.Hour)
	tokenString, err := maker.Generate(Token.Identity{UserID: 7, Phone: "+911234567890", Role: Models.RolePatient})
	require.NoError(t, err)

	called := false
	router := newRouter(maker, nil, &called)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestRequireRolesForbidden(t *testing.T) {
	maker := Token.NewMaker("test-secret", time.Hour)
	tokenString, err := maker.Generate(Token.Identity{UserID: 7, Role: Models.RoleProvider})
	require.NoError(t, err)

	called := false
	router := newRouter(maker, []string{Models.RoleAdmin}, &called)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, called, "handler must not run for a forbidden role")
}

func TestRequireRolesAllowsAnyListedRole(t *testing.T) {
	maker := Token.NewMaker("test-secret", time.Hour)

	for _, role := range []string{Models.RoleProvider, Models.RoleAdmin} {
		tokenString, err := maker.Generate(Token.Identity{UserID: 7, Role: role})
		require.NoError(t, err)

		called := false
		router := newRouter(maker, []string{Models.RoleProvider, Models.RoleAdmin}, &called)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
	}
}
