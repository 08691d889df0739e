package user

import (
	"time"

	"github.com/google/uuid"
)

// CreateUserRequest for creating a directory user
type CreateUserRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required,min=2,max=255"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"required,role"`
	ReportsTo  string `json:"reports_to,omitempty" validate:"omitempty,uuid"`
	Department string `json:"department,omitempty" validate:"omitempty,max=255"`
}

// UpdateUserRequest patches profile fields; nil fields are left unchanged
type UpdateUserRequest struct {
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Name       *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Role       *string `json:"role,omitempty" validate:"omitempty,role"`
	Department *string `json:"department,omitempty" validate:"omitempty,max=255"`
}

// UpdateStatusRequest for activating/deactivating a user
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// ReassignRequest for changing who a user reports to.
// An empty reports_to detaches the user from the hierarchy.
type ReassignRequest struct {
	ReportsTo string `json:"reports_to,omitempty" validate:"omitempty,uuid"`
}

// UserResponse for API responses
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	ReportsTo  string    `json:"reports_to,omitempty"`
	Department string    `json:"department,omitempty"`
	CreatedAt  string    `json:"created_at"`
}

// ToResponse converts entity to response
func ToResponse(u *User) *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if u.ReportsTo.Valid {
		resp.ReportsTo = u.ReportsTo.UUID.String()
	}
	if u.Department.Valid {
		resp.Department = u.Department.String
	}
	return resp
}
