package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Role represents a CRM role (matches user_role enum)
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleAdmin         Role = "admin"
	RoleSeniorManager Role = "senior_manager"
	RoleManager       Role = "manager"
	RoleTeamLeader    Role = "team_leader"
	RoleCounselor     Role = "counselor"

	// RoleDefault is the fallback row for unrecognized roles. It never
	// appears in the directory; lookups resolve to it when role
	// normalization finds nothing better.
	RoleDefault Role = "default"
)

// Status represents user status (matches user_status enum)
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User represents a directory user record
type User struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	Name         string         `db:"name" json:"name"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Role         Role           `db:"role" json:"role"`
	Status       Status         `db:"status" json:"status"`
	ReportsTo    uuid.NullUUID  `db:"reports_to" json:"reports_to,omitempty"`
	Department   sql.NullString `db:"department" json:"department,omitempty"`
	LastLoginAt  sql.NullTime   `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// IsActive returns true if the user may log in and be granted work
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// ValidRoles returns the roles accepted when creating a user
func ValidRoles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleSeniorManager, RoleManager, RoleTeamLeader, RoleCounselor}
}

// IsValidRole checks if role is valid for user creation
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if string(r) == role {
			return true
		}
	}
	return false
}
