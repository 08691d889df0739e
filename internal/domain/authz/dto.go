package authz

import (
	"github.com/google/uuid"

	"github.com/loopcrm/loopcrm-api/internal/domain/restriction"
	"github.com/loopcrm/loopcrm-api/internal/domain/user"
)

type CheckRequest struct {
	Role    string `json:"role" validate:"required"`
	Feature string `json:"feature" validate:"required"`
}

type BulkCheckRequest struct {
	Role     string   `json:"role" validate:"required"`
	Features []string `json:"features" validate:"required,min=1,max=50"`
}

// UserSummary is the directory projection returned by assignment queries
type UserSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	Status string    `json:"status"`
}

type AssignableResponse struct {
	Actor        UserSummary                        `json:"actor"`
	Users        []UserSummary                      `json:"users"`
	Restrictions []*restriction.RestrictionResponse `json:"restrictions"`
}

func toSummary(u *user.User) UserSummary {
	return UserSummary{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   string(u.Role),
		Status: string(u.Status),
	}
}

func toAssignableResponse(set *AssignableSet) *AssignableResponse {
	resp := &AssignableResponse{
		Actor:        toSummary(set.Actor),
		Users:        make([]UserSummary, len(set.Users)),
		Restrictions: restriction.ToResponseList(set.Restrictions),
	}
	for i, u := range set.Users {
		resp.Users[i] = toSummary(u)
	}
	return resp
}
