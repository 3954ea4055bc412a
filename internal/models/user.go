package models

// UserRole identifies the two admin tiers of the system.
type UserRole string

const (
	RoleSuperAdmin  UserRole = "super_admin"
	RoleCampusAdmin UserRole = "campus_admin"
)

// User is a system account. Passwords are stored and compared in plaintext;
// this mirrors the legacy data model and is explicitly not a security
// boundary. An empty password enables the dev-mode login fallback.
type User struct {
	Username         string   `json:"username"`
	Password         string   `json:"password,omitempty"`
	Role             UserRole `json:"role"`
	AssignedCampusID string   `json:"assignedCampusId,omitempty"`
}

// UserView is a user decorated with read-time referential checks.
// DanglingCampusRef is set when AssignedCampusID no longer resolves to an
// existing campus; the reference itself is kept intact.
type UserView struct {
	User
	DanglingCampusRef bool `json:"danglingCampusRef,omitempty"`
}
