package dto

import "github.com/unikl-dcms/dcms-api/internal/models"

// SaveUserRequest carries account fields for create and update.
type SaveUserRequest struct {
	Username         string          `json:"username" validate:"required"`
	Password         string          `json:"password" validate:"required"`
	Role             models.UserRole `json:"role" validate:"required,oneof=super_admin campus_admin"`
	AssignedCampusID string          `json:"assignedCampusId"`
}

// SaveActivityRequest edits an announcement message.
type SaveActivityRequest struct {
	Message string `json:"message" validate:"required"`
}

// PostAnnouncementRequest publishes a new announcement to the feed.
type PostAnnouncementRequest struct {
	Message string `json:"message" validate:"required"`
}
