package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/terra-do-sol/checkin-api/internal/models"
	appErrors "github.com/terra-do-sol/checkin-api/pkg/errors"
	"github.com/terra-do-sol/checkin-api/pkg/response"
)

// RequireRole allows only requests whose authenticated role is in the list.
// It must run after JWTAuth.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		value, exists := c.Get(ContextRole)
		if !exists {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing authentication"))
			c.Abort()
			return
		}

		role, ok := value.(models.UserRole)
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, ""))
			c.Abort()
			return
		}

		if _, ok := allowed[role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "insufficient role"))
			c.Abort()
			return
		}

		c.Next()
	}
}
