package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/central-adp/central-admin-api/internal/dto"
	"github.com/central-adp/central-admin-api/internal/models"
	"github.com/central-adp/central-admin-api/internal/service"
	appErrors "github.com/central-adp/central-admin-api/pkg/errors"
	"github.com/central-adp/central-admin-api/pkg/response"
)

// UserHandler exposes unified user management endpoints.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List users
// @Description List staff and clients with optional type, role and search filters
// @Tags Users
// @Produce json
// @Param type query string false "staff or client"
// @Param role_id query string false "Role identifier"
// @Param search query string false "Name, email or user code fragment"
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	filter := models.UserFilter{
		UserType: c.Query("type"),
		RoleID:   c.Query("role_id"),
		Search:   c.Query("search"),
	}

	users, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	if users == nil {
		users = []dto.UnifiedUser{}
	}

	response.JSON(c, http.StatusOK, users, nil)
}

// Get godoc
// @Summary Get user
// @Tags Users
// @Produce json
// @Param type query string true "staff or client"
// @Param id path string true "User identifier"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.Query("type"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// CreateStaff godoc
// @Summary Create staff member
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body dto.CreateStaffRequest true "Staff payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users/staff [post]
func (h *UserHandler) CreateStaff(c *gin.Context) {
	var req dto.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid staff payload"))
		return
	}

	user, err := h.service.CreateStaff(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// CreateClient godoc
// @Summary Create client
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body dto.CreateClientRequest true "Client payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users/clients [post]
func (h *UserHandler) CreateClient(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid client payload"))
		return
	}

	user, err := h.service.CreateClient(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// Update godoc
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Param type query string true "staff or client"
// @Param id path string true "User identifier"
// @Param payload body dto.UpdateUserRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}

	user, err := h.service.Update(c.Request.Context(), c.Query("type"), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Delete godoc
// @Summary Delete user
// @Tags Users
// @Produce json
// @Param type query string true "staff or client"
// @Param id path string true "User identifier"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Query("type"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Roles godoc
// @Summary List roles
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roles [get]
func (h *UserHandler) Roles(c *gin.Context) {
	roles, err := h.service.Roles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if roles == nil {
		roles = []models.Role{}
	}
	response.JSON(c, http.StatusOK, roles, nil)
}
