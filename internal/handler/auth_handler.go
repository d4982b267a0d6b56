package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/terra-do-sol/checkin-api/internal/middleware"
	"github.com/terra-do-sol/checkin-api/internal/models"
	"github.com/terra-do-sol/checkin-api/internal/service"
	appErrors "github.com/terra-do-sol/checkin-api/pkg/errors"
	"github.com/terra-do-sol/checkin-api/pkg/response"
)

// AuthHandler exposes the session endpoints for dashboard operators.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login godoc
// @Summary      Operator login
// @Description  Authenticates a dashboard operator and issues a token pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      models.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Envelope{data=models.LoginResponse}
// @Failure      401      {object}  response.Envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Refresh godoc
// @Summary      Refresh session
// @Description  Rotates a refresh token and issues a new access token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      models.RefreshTokenRequest  true  "Refresh token"
// @Success      200      {object}  response.Envelope{data=models.RefreshTokenResponse}
// @Failure      401      {object}  response.Envelope
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	result, err := h.auth.RefreshToken(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Logout godoc
// @Summary      Logout
// @Description  Revokes the presented refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  models.LogoutRequest  true  "Refresh token"
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Session godoc
// @Summary      Current session
// @Description  Returns the authenticated operator from the access token.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=models.UserInfo}
// @Failure      401  {object}  response.Envelope
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	value, exists := c.Get(middleware.ContextClaims)
	if !exists {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}

	response.JSON(c, http.StatusOK, models.UserInfo{
		ID:       claims.UserID,
		Email:    claims.Email,
		FullName: claims.FullName,
		Role:     claims.Role,
	}, nil)
}
