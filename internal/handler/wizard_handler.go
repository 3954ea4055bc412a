package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/unikl-dcms/dcms-api/internal/dto"
	"github.com/unikl-dcms/dcms-api/internal/models"
	"github.com/unikl-dcms/dcms-api/internal/service"
	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
	"github.com/unikl-dcms/dcms-api/pkg/response"
)

type wizardService interface {
	Start(ctx context.Context, req dto.CreateCampusRequest) (*service.WizardSession, error)
	Confirm(ctx context.Context, actor *models.User, sessionID string) (*service.WizardSession, error)
	Cancel(sessionID string) error
	Get(sessionID string) (*service.WizardSession, error)
}

// WizardHandler drives the campus creation confirmation chain over HTTP.
type WizardHandler struct {
	service wizardService
}

// NewWizardHandler constructs the handler.
func NewWizardHandler(service wizardService) *WizardHandler {
	return &WizardHandler{service: service}
}

// Start godoc
// @Summary Open a campus creation chain
// @Tags Wizard
// @Accept json
// @Produce json
// @Param payload body dto.CreateCampusRequest true "Campus"
// @Success 201 {object} response.Envelope
// @Router /wizard/campus [post]
func (h *WizardHandler) Start(c *gin.Context) {
	var req dto.CreateCampusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid campus payload"))
		return
	}
	sess, err := h.service.Start(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sess)
}

// Confirm godoc
// @Summary Confirm the pending wizard step
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/campus/{id}/confirm [post]
func (h *WizardHandler) Confirm(c *gin.Context) {
	sess, err := h.service.Confirm(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sess)
}

// Get godoc
// @Summary Inspect a wizard session
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/campus/{id} [get]
func (h *WizardHandler) Get(c *gin.Context) {
	sess, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sess)
}

// Cancel godoc
// @Summary Abandon a wizard session, keeping applied steps
// @Tags Wizard
// @Param id path string true "Session ID"
// @Success 204
// @Router /wizard/campus/{id} [delete]
func (h *WizardHandler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
