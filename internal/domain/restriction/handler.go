package restriction

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/loopcrm/loopcrm-api/internal/middleware"
	"github.com/loopcrm/loopcrm-api/internal/pkg/response"
	"github.com/loopcrm/loopcrm-api/internal/pkg/validator"
)

// Handler handles restriction HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates restriction handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /restrictions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	var req CreateRestrictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	restriction, err := h.service.Create(r.Context(), adminID, req.RestrictedUserID, req.Scope, req.Notes)
	if err != nil {
		switch err {
		case ErrInvalidTarget:
			response.InvalidReference(w, "Restriction target must be an existing super admin")
		case ErrDuplicateRestriction:
			response.Conflict(w, "An active restriction for this user already exists")
		default:
			response.InternalError(w)
		}
		return
	}
	response.Created(w, ToResponse(restriction))
}

// List handles GET /restrictions
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	restrictions, err := h.service.List(r.Context(), adminID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, ToResponseList(restrictions))
}

// Update handles PATCH /restrictions/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid restriction ID")
		return
	}

	var req UpdateRestrictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	restriction, err := h.service.Update(r.Context(), id, adminID, &req)
	if err != nil {
		if err == ErrRestrictionNotFound {
			response.NotFound(w, "Restriction not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, ToResponse(restriction))
}

// Deactivate handles DELETE /restrictions/{id}
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid restriction ID")
		return
	}

	restriction, err := h.service.Deactivate(r.Context(), id, adminID)
	if err != nil {
		if err == ErrRestrictionNotFound {
			response.NotFound(w, "Restriction not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, ToResponse(restriction))
}
