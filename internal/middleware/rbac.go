package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-hours-api/internal/models"
	appErrors "github.com/noah-isme/training-hours-api/pkg/errors"
	"github.com/noah-isme/training-hours-api/pkg/response"
)

// Capability is a role predicate evaluated against the current principal.
type Capability func(models.Principal) bool

// Require enforces capability checks for routes mounted after JWT.
func Require(capability Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if capability != nil && !capability(user.Principal()) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoles allows principals holding any of roles.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return Require(func(pr models.Principal) bool {
		for _, role := range roles {
			if pr.Roles.Has(role) {
				return true
			}
		}
		return false
	})
}
