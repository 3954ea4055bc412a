package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password"`
}

// LoginResponse returns the issued session token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        UserInfo  `json:"user"`
}

// UserInfo describes the authenticated user in responses. The password is
// never echoed back.
type UserInfo struct {
	Username         string   `json:"username"`
	Role             UserRole `json:"role"`
	AssignedCampusID string   `json:"assignedCampusId,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Username         string   `json:"username"`
	Role             UserRole `json:"role"`
	AssignedCampusID string   `json:"assigned_campus_id,omitempty"`
	jwt.RegisteredClaims
}
