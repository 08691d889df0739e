package lead

import (
	"time"

	"github.com/google/uuid"
)

type CreateLeadRequest struct {
	ContactName  string     `json:"contact_name" validate:"required,min=1,max=200"`
	ContactEmail string     `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string     `json:"contact_phone" validate:"omitempty,max=30"`
	CompanyName  string     `json:"company_name" validate:"omitempty,max=200"`
	Source       string     `json:"source" validate:"omitempty,lead_source"`
	Notes        string     `json:"notes" validate:"omitempty,max=2000"`
	AssignedTo   *uuid.UUID `json:"assigned_to,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,lead_status"`
	Notes  string `json:"notes" validate:"omitempty,max=2000"`
}

type AssignRequest struct {
	AssignedTo uuid.UUID `json:"assigned_to" validate:"required"`
}

type LeadResponse struct {
	ID           uuid.UUID  `json:"id"`
	ContactName  string     `json:"contact_name"`
	ContactEmail string     `json:"contact_email,omitempty"`
	ContactPhone string     `json:"contact_phone,omitempty"`
	CompanyName  string     `json:"company_name,omitempty"`
	Source       Source     `json:"source"`
	Status       Status     `json:"status"`
	AssignedTo   *uuid.UUID `json:"assigned_to,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	UTMSource    string     `json:"utm_source,omitempty"`
	UTMMedium    string     `json:"utm_medium,omitempty"`
	UTMCampaign  string     `json:"utm_campaign,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func ToResponse(l *Lead) *LeadResponse {
	resp := &LeadResponse{
		ID:           l.ID,
		ContactName:  l.ContactName,
		ContactEmail: l.ContactEmail.String,
		ContactPhone: l.ContactPhone.String,
		CompanyName:  l.CompanyName.String,
		Source:       l.Source,
		Status:       l.Status,
		Notes:        l.Notes.String,
		UTMSource:    l.UTMSource.String,
		UTMMedium:    l.UTMMedium.String,
		UTMCampaign:  l.UTMCampaign.String,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	if l.AssignedTo.Valid {
		id := l.AssignedTo.UUID
		resp.AssignedTo = &id
	}
	return resp
}

func ToResponseList(leads []*Lead) []*LeadResponse {
	out := make([]*LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, ToResponse(l))
	}
	return out
}
