package user

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/loopcrm/loopcrm-api/internal/pkg/response"
	"github.com/loopcrm/loopcrm-api/internal/pkg/validator"
)

// Handler handles directory HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates user handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var roles []Role
	if q := r.URL.Query().Get("role"); q != "" {
		roles = append(roles, Role(q))
	}

	users, err := h.service.List(r.Context(), roles...)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*UserResponse, len(users))
	for i, u := range users {
		items[i] = ToResponse(u)
	}
	response.OK(w, items)
}

// GetByID handles GET /users/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	u, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if err == ErrUserNotFound {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, ToResponse(u))
}

// Create handles POST /users
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	u, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case ErrEmailExists:
			response.Conflict(w, "Email already in use")
		case ErrManagerNotFound:
			response.InvalidReference(w, "Supervisor does not exist")
		default:
			response.InternalError(w)
		}
		return
	}
	response.Created(w, ToResponse(u))
}

// Update handles PATCH /users/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	u, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch err {
		case ErrUserNotFound:
			response.NotFound(w, "User not found")
		case ErrEmailExists:
			response.Conflict(w, "Email already in use")
		default:
			response.InternalError(w)
		}
		return
	}
	response.OK(w, ToResponse(u))
}

// UpdateStatus handles PATCH /users/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	u, err := h.service.UpdateStatus(r.Context(), id, Status(req.Status))
	if err != nil {
		if err == ErrUserNotFound {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, ToResponse(u))
}

// Reassign handles PATCH /users/{id}/reports-to
func (h *Handler) Reassign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req ReassignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	var managerID uuid.NullUUID
	if req.ReportsTo != "" {
		parsed, parseErr := uuid.Parse(req.ReportsTo)
		if parseErr != nil {
			response.BadRequest(w, "Invalid supervisor ID")
			return
		}
		managerID = uuid.NullUUID{UUID: parsed, Valid: true}
	}

	u, err := h.service.Reassign(r.Context(), id, managerID)
	if err != nil {
		switch err {
		case ErrUserNotFound:
			response.NotFound(w, "User not found")
		case ErrManagerNotFound:
			response.InvalidReference(w, "Supervisor does not exist")
		case ErrCyclicReporting:
			response.InvalidReference(w, "Reassignment would create a reporting cycle")
		default:
			response.InternalError(w)
		}
		return
	}
	response.OK(w, ToResponse(u))
}
