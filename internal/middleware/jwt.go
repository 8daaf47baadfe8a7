package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-hours-api/internal/models"
	appErrors "github.com/noah-isme/training-hours-api/pkg/errors"
	"github.com/noah-isme/training-hours-api/pkg/logger"
	"github.com/noah-isme/training-hours-api/pkg/response"
)

// ContextUserKey is the gin context key storing the authenticated account.
const ContextUserKey = "currentUser"

// Authenticator resolves a bearer token to the current user account.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.UserAccount, error)
}

// JWT protects routes by requiring a valid access token. The account is
// reloaded on every request so role changes apply immediately.
func JWT(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		logger.SetUser(c, user.Username)
		c.Next()
	}
}

// CurrentUser returns the account stored by JWT.
func CurrentUser(c *gin.Context) (*models.UserAccount, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.UserAccount)
	return user, ok && user != nil
}
