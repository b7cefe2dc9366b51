package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/central-adp/central-admin-api/internal/models"
	"github.com/central-adp/central-admin-api/internal/service"
	appErrors "github.com/central-adp/central-admin-api/pkg/errors"
	"github.com/central-adp/central-admin-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
	metrics *service.MetricsService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService, metrics *service.MetricsService) *AuthHandler {
	return &AuthHandler{service: svc, metrics: metrics}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate a staff member or client by identifier and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.metrics.ObserveLogin("failure")
		response.Error(c, err)
		return
	}

	h.metrics.ObserveLogin("success")
	response.JSON(c, http.StatusOK, res, nil)
}

// Refresh godoc
// @Summary Refresh access token
// @Description Exchange a refresh token for a new access/refresh pair
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RefreshRequest true "Refresh payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.ObserveRefresh("failure")
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidRefreshToken, ""))
		return
	}

	res, err := h.service.Refresh(c.Request.Context(), req)
	if err != nil {
		h.metrics.ObserveRefresh("failure")
		response.Error(c, err)
		return
	}

	h.metrics.ObserveRefresh("success")
	response.JSON(c, http.StatusOK, res, nil)
}

// Logout godoc
// @Summary Logout current session
// @Description Retire the presented refresh token. Always succeeds.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LogoutRequest false "Refresh token"
// @Success 200 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// Malformed or missing bodies are deliberately tolerated: logout is
	// idempotent and never fails observably.
	var req models.LogoutRequest
	_ = c.ShouldBindJSON(&req)

	h.service.Logout(c.Request.Context(), req.RefreshToken)

	response.JSON(c, http.StatusOK, gin.H{"message": "Logged out successfully"}, nil)
}

// Me godoc
// @Summary Get current user
// @Description Returns the authenticated principal's identity claims
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"id":    claims.Subject,
		"email": claims.Email,
		"name":  claims.DisplayName,
		"role":  claims.Role,
	}, nil)
}
