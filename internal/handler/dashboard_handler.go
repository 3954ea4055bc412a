package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/unikl-dcms/dcms-api/internal/dto"
	"github.com/unikl-dcms/dcms-api/pkg/response"
)

type dashboardService interface {
	UniversityOverview(ctx context.Context) (*dto.UniversityOverview, error)
	CampusOverview(ctx context.Context, id string) (*dto.CampusOverview, error)
}

// DashboardHandler wires the dashboard aggregations to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// University godoc
// @Summary University-wide dashboard overview
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/university [get]
func (h *DashboardHandler) University(c *gin.Context) {
	overview, err := h.service.UniversityOverview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, overview)
}

// Campus godoc
// @Summary Campus drill-down overview
// @Tags Dashboard
// @Produce json
// @Param id path string true "Campus ID"
// @Success 200 {object} response.Envelope
// @Router /dashboard/campuses/{id} [get]
func (h *DashboardHandler) Campus(c *gin.Context) {
	overview, err := h.service.CampusOverview(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, overview)
}
