package restriction

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateRestrictionRequest struct {
	RestrictedUserID uuid.UUID       `json:"restricted_user_id" validate:"required"`
	Scope            json.RawMessage `json:"scope,omitempty"`
	Notes            string          `json:"notes,omitempty" validate:"max=500"`
}

type UpdateRestrictionRequest struct {
	Scope json.RawMessage `json:"scope,omitempty"`
	Notes *string         `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type RestrictionResponse struct {
	ID               uuid.UUID       `json:"id"`
	AdminID          uuid.UUID       `json:"admin_id"`
	RestrictedUserID uuid.UUID       `json:"restricted_user_id"`
	Scope            json.RawMessage `json:"scope,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func ToResponse(r *Restriction) *RestrictionResponse {
	resp := &RestrictionResponse{
		ID:               r.ID,
		AdminID:          r.AdminID,
		RestrictedUserID: r.RestrictedUserID,
		Scope:            r.Scope,
		IsActive:         r.IsActive,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.Notes.Valid {
		resp.Notes = r.Notes.String
	}
	return resp
}

func ToResponseList(restrictions []*Restriction) []*RestrictionResponse {
	out := make([]*RestrictionResponse, 0, len(restrictions))
	for _, r := range restrictions {
		out = append(out, ToResponse(r))
	}
	return out
}
