package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/unikl-dcms/dcms-api/internal/dto"
	"github.com/unikl-dcms/dcms-api/internal/models"
	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
	"github.com/unikl-dcms/dcms-api/pkg/response"
)

type contentService interface {
	ListCampuses(ctx context.Context) ([]models.Campus, error)
	GetCampus(ctx context.Context, id string) (*models.Campus, error)
	CreateCampus(ctx context.Context, actor *models.User, req dto.CreateCampusRequest) (*models.Campus, error)
	RenameCampus(ctx context.Context, actor *models.User, id string, req dto.RenameCampusRequest) (*models.Campus, error)
	DeleteCampus(ctx context.Context, actor *models.User, id string) error
	AddMode(ctx context.Context, actor *models.User, campusID string, req dto.SaveModeRequest) (*models.Campus, error)
	RenameMode(ctx context.Context, actor *models.User, campusID, oldKey string, req dto.SaveModeRequest) (*models.Campus, error)
	DeleteMode(ctx context.Context, actor *models.User, campusID, key string) error
}

// ContentHandler exposes the campus and mode levels of the content tree.
type ContentHandler struct {
	service contentService
}

// NewContentHandler constructs the handler.
func NewContentHandler(service contentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// List godoc
// @Summary List all campuses with their content trees
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /campuses [get]
func (h *ContentHandler) List(c *gin.Context) {
	campuses, err := h.service.ListCampuses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, campuses)
}

// Get godoc
// @Summary Fetch one campus subtree
// @Tags Content
// @Produce json
// @Param id path string true "Campus ID"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id} [get]
func (h *ContentHandler) Get(c *gin.Context) {
	campus, err := h.service.GetCampus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, campus)
}

// Create godoc
// @Summary Create a campus
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body dto.CreateCampusRequest true "Campus"
// @Success 201 {object} response.Envelope
// @Router /campuses [post]
func (h *ContentHandler) Create(c *gin.Context) {
	var req dto.CreateCampusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid campus payload"))
		return
	}
	campus, err := h.service.CreateCampus(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, campus)
}

// Rename godoc
// @Summary Rename a campus
// @Tags Content
// @Accept json
// @Produce json
// @Param id path string true "Campus ID"
// @Param payload body dto.RenameCampusRequest true "New name"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id} [put]
func (h *ContentHandler) Rename(c *gin.Context) {
	var req dto.RenameCampusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid campus payload"))
		return
	}
	campus, err := h.service.RenameCampus(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, campus)
}

// Delete godoc
// @Summary Delete a campus and its whole subtree
// @Tags Content
// @Param id path string true "Campus ID"
// @Success 204
// @Router /campuses/{id} [delete]
func (h *ContentHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteCampus(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddMode godoc
// @Summary Add a delivery mode to a campus
// @Tags Content
// @Accept json
// @Produce json
// @Param id path string true "Campus ID"
// @Param payload body dto.SaveModeRequest true "Mode key"
// @Success 201 {object} response.Envelope
// @Router /campuses/{id}/modes [post]
func (h *ContentHandler) AddMode(c *gin.Context) {
	var req dto.SaveModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid mode payload"))
		return
	}
	campus, err := h.service.AddMode(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, campus)
}

// RenameMode godoc
// @Summary Rename a delivery mode key
// @Tags Content
// @Accept json
// @Produce json
// @Param id path string true "Campus ID"
// @Param mode path string true "Current mode key"
// @Param payload body dto.SaveModeRequest true "New mode key"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/modes/{mode} [put]
func (h *ContentHandler) RenameMode(c *gin.Context) {
	var req dto.SaveModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid mode payload"))
		return
	}
	campus, err := h.service.RenameMode(c.Request.Context(), actorFromContext(c), c.Param("id"), c.Param("mode"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, campus)
}

// DeleteMode godoc
// @Summary Delete a delivery mode with its programmes
// @Tags Content
// @Param id path string true "Campus ID"
// @Param mode path string true "Mode key"
// @Success 204
// @Router /campuses/{id}/modes/{mode} [delete]
func (h *ContentHandler) DeleteMode(c *gin.Context) {
	if err := h.service.DeleteMode(c.Request.Context(), actorFromContext(c), c.Param("id"), c.Param("mode")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
