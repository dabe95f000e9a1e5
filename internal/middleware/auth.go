package middleware

import (
	"context"
	"strings"

	"wallet-api/internal/auth"
	"wallet-api/internal/errs"
	"wallet-api/internal/models"
	"wallet-api/internal/util"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// TokenResolver turns a bearer token into a user.
type TokenResolver interface {
	ResolveToken(ctx context.Context, users auth.UserFinder, token string) (*models.User, error)
}

// AuthMiddleware reads "Authorization: Bearer <token>" and stores the
// resolved user in the gin context.
func AuthMiddleware(tokens TokenResolver, users auth.UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c.GetHeader("Authorization"))
		if tokenStr == "" {
			util.Fail(c, errs.ErrInvalidToken)
			return
		}

		user, err := tokens.ResolveToken(c.Request.Context(), users, tokenStr)
		if err != nil {
			util.Fail(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireActive must run after AuthMiddleware.
func RequireActive() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := auth.RequireActive(CurrentUser(c)); err != nil {
			util.Fail(c, err)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil outside AuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
