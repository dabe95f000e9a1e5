package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"wallet-api/internal/auth"
	"wallet-api/internal/errs"
	"wallet-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeResolver map[string]*models.User

func (f fakeResolver) ResolveToken(_ context.Context, _ auth.UserFinder, token string) (*models.User, error) {
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, errs.ErrInvalidToken
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":  "abc",
		"bearer abc ": "abc",
		"Basic abc":   "",
		"Bearer":      "",
		"":            "",
	}
	for header, want := range tests {
		assert.Equal(t, want, bearerToken(header), header)
	}
}

func newEngine(resolver fakeResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(resolver, nil))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Username)
	})
	r.POST("/write", RequireActive(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newEngine(fakeResolver{
		"good":     {Username: "alice", IsActive: true},
		"inactive": {Username: "bob"},
	})

	serve := func(method, path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := serve(http.MethodGet, "/me", "good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())

	w = serve(http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w = serve(http.MethodGet, "/me", "forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Equal(t, http.StatusNoContent, serve(http.MethodPost, "/write", "good").Code)
	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/me", "inactive").Code)
	assert.Equal(t, http.StatusBadRequest, serve(http.MethodPost, "/write", "inactive").Code)
}
