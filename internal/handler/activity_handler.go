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

type activityService interface {
	List(ctx context.Context) ([]models.ActivityItem, error)
	Log(ctx context.Context, author string, activityType models.ActivityType, message, targetView string, targetParams map[string]string) models.ActivityItem
	UpdateAnnouncement(ctx context.Context, id, message string) (*models.ActivityItem, error)
	DeleteAnnouncement(ctx context.Context, id string) error
}

type campusNamer interface {
	CampusName(ctx context.Context, id string) string
}

// ActivityHandler exposes the activity feed. Content mutations append to
// the feed server-side; the only entries written through this handler are
// announcements.
type ActivityHandler struct {
	service activityService
	namer   campusNamer
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(svc activityService, namer campusNamer) *ActivityHandler {
	return &ActivityHandler{service: svc, namer: namer}
}

// List godoc
// @Summary List the activity feed, newest first
// @Tags Activities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	activities, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, activities)
}

// PostAnnouncement godoc
// @Summary Publish an announcement
// @Tags Activities
// @Accept json
// @Produce json
// @Param payload body dto.PostAnnouncementRequest true "Announcement"
// @Success 201 {object} response.Envelope
// @Router /activities/announcements [post]
func (h *ActivityHandler) PostAnnouncement(c *gin.Context) {
	var req dto.PostAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "announcement message is required"))
		return
	}
	ctx := c.Request.Context()
	author := service.AuthorLabel(actorFromContext(c), func(campusID string) string {
		return h.namer.CampusName(ctx, campusID)
	})
	entry := h.service.Log(ctx, author, models.ActivityAnnouncement, req.Message, "", nil)
	response.Created(c, entry)
}

// UpdateAnnouncement godoc
// @Summary Edit an announcement message
// @Tags Activities
// @Accept json
// @Produce json
// @Param id path string true "Activity ID"
// @Param payload body dto.SaveActivityRequest true "New message"
// @Success 200 {object} response.Envelope
// @Router /activities/{id} [put]
func (h *ActivityHandler) UpdateAnnouncement(c *gin.Context) {
	var req dto.SaveActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "announcement message is required"))
		return
	}
	entry, err := h.service.UpdateAnnouncement(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entry)
}

// DeleteAnnouncement godoc
// @Summary Delete an announcement
// @Tags Activities
// @Param id path string true "Activity ID"
// @Success 204
// @Router /activities/{id} [delete]
func (h *ActivityHandler) DeleteAnnouncement(c *gin.Context) {
	if err := h.service.DeleteAnnouncement(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
