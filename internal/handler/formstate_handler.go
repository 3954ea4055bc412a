package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/unikl-dcms/dcms-api/internal/service"
	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
	"github.com/unikl-dcms/dcms-api/pkg/response"
)

type switchTabRequest struct {
	Tab   string `json:"tab"`
	Force bool   `json:"force"`
}

type formStateResponse struct {
	ActiveTab string `json:"activeTab"`
	Dirty     bool   `json:"dirty"`
}

// FormStateHandler exposes the per-user admin panel tab guard.
type FormStateHandler struct {
	guard *service.FormGuard
}

// NewFormStateHandler constructs the handler.
func NewFormStateHandler(guard *service.FormGuard) *FormStateHandler {
	return &FormStateHandler{guard: guard}
}

// State godoc
// @Summary Current tab and dirty flag
// @Tags FormState
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /formstate [get]
func (h *FormStateHandler) State(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	tab, dirty := h.guard.State(claims.Username)
	response.OK(c, formStateResponse{ActiveTab: tab, Dirty: dirty})
}

// MarkDirty godoc
// @Summary Flag an unsaved form for the current user
// @Tags FormState
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /formstate/dirty [post]
func (h *FormStateHandler) MarkDirty(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	h.guard.MarkDirty(claims.Username)
	tab, dirty := h.guard.State(claims.Username)
	response.OK(c, formStateResponse{ActiveTab: tab, Dirty: dirty})
}

// Reset godoc
// @Summary Clear the unsaved form flag
// @Tags FormState
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /formstate/reset [post]
func (h *FormStateHandler) Reset(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	h.guard.Reset(claims.Username)
	tab, dirty := h.guard.State(claims.Username)
	response.OK(c, formStateResponse{ActiveTab: tab, Dirty: dirty})
}

// SwitchTab godoc
// @Summary Switch tabs, guarded against unsaved changes
// @Tags FormState
// @Accept json
// @Produce json
// @Param payload body switchTabRequest true "Target tab"
// @Success 200 {object} response.Envelope
// @Router /formstate/tab [put]
func (h *FormStateHandler) SwitchTab(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req switchTabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid tab payload"))
		return
	}
	if err := h.guard.SwitchTab(claims.Username, req.Tab, req.Force); err != nil {
		response.Error(c, err)
		return
	}
	tab, dirty := h.guard.State(claims.Username)
	response.OK(c, formStateResponse{ActiveTab: tab, Dirty: dirty})
}
