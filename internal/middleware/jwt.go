package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/terra-do-sol/checkin-api/internal/models"
	appErrors "github.com/terra-do-sol/checkin-api/pkg/errors"
	"github.com/terra-do-sol/checkin-api/pkg/response"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	ContextUserID = "user_id"
	ContextRole   = "user_role"
	ContextClaims = "user_claims"
)

type tokenValidator interface {
	ValidateToken(tokenString string) (*models.JWTClaims, error)
}

// JWTAuth rejects requests without a valid bearer token and stores the
// claims on the gin context.
func JWTAuth(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}
