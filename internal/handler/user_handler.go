package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/unikl-dcms/dcms-api/internal/dto"
	"github.com/unikl-dcms/dcms-api/internal/models"
	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
	"github.com/unikl-dcms/dcms-api/pkg/response"
)

type userService interface {
	List(ctx context.Context) ([]models.UserView, error)
	Create(ctx context.Context, actor *models.User, req dto.SaveUserRequest) (*models.User, error)
	Update(ctx context.Context, actor *models.User, username string, req dto.SaveUserRequest) (*models.User, error)
	Delete(ctx context.Context, actor *models.User, username string) error
}

// UserHandler wires user management to HTTP endpoints.
type UserHandler struct {
	service userService
}

// NewUserHandler constructs the handler.
func NewUserHandler(service userService) *UserHandler {
	return &UserHandler{service: service}
}

// List godoc
// @Summary List admin accounts
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

// Create godoc
// @Summary Create an admin account
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body dto.SaveUserRequest true "User"
// @Success 201 {object} response.Envelope
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.SaveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid user payload"))
		return
	}
	user, err := h.service.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// Update godoc
// @Summary Update an admin account
// @Tags Users
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Param payload body dto.SaveUserRequest true "User"
// @Success 200 {object} response.Envelope
// @Router /users/{username} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.SaveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid user payload"))
		return
	}
	user, err := h.service.Update(c.Request.Context(), actorFromContext(c), c.Param("username"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

// Delete godoc
// @Summary Delete an admin account
// @Tags Users
// @Param username path string true "Username"
// @Success 204
// @Router /users/{username} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actorFromContext(c), c.Param("username")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
