package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/terra-do-sol/checkin-api/internal/models"
	appErrors "github.com/terra-do-sol/checkin-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator struct {
	claims *models.JWTClaims
	err    error
}

func (s *stubValidator) ValidateToken(string) (*models.JWTClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func protectedRouter(v tokenValidator, roles ...models.UserRole) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuth(v)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(ContextUserID)})
	})
	r.GET("/protected", handlers...)
	return r
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin}
}

func request(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMissingHeader(t *testing.T) {
	r := protectedRouter(&stubValidator{claims: adminClaims()})

	w := request(r, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMalformedHeader(t *testing.T) {
	r := protectedRouter(&stubValidator{claims: adminClaims()})

	w := request(r, "Token abc")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthInvalidToken(t *testing.T) {
	r := protectedRouter(&stubValidator{err: appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")})

	w := request(r, "Bearer bad")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthValidToken(t *testing.T) {
	r := protectedRouter(&stubValidator{claims: adminClaims()})

	w := request(r, "Bearer good")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-1")
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	r := protectedRouter(&stubValidator{claims: adminClaims()}, models.RoleAdmin, models.RoleSuperAdmin)

	w := request(r, "Bearer good")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	r := protectedRouter(&stubValidator{claims: adminClaims()}, models.RoleSuperAdmin)

	w := request(r, "Bearer good")

	assert.Equal(t, http.StatusForbidden, w.Code)
}
