package lead

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/loopcrm/loopcrm-api/internal/domain/authz"
	"github.com/loopcrm/loopcrm-api/internal/middleware"
	"github.com/loopcrm/loopcrm-api/internal/pkg/response"
	"github.com/loopcrm/loopcrm-api/internal/pkg/validator"
)

// Handler handles lead HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates lead handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// writeResolverError maps assignment resolution failures shared by every
// lead endpoint.
func writeResolverError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authz.ErrActorNotFound):
		response.NotFound(w, "Actor not found in directory")
	case errors.Is(err, authz.ErrStoreUnavailable):
		response.Unavailable(w)
	default:
		response.InternalError(w)
	}
}

// List handles GET /leads
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	filter := ListFilter{Limit: 50}
	q := r.URL.Query()
	if s := q.Get("status"); s != "" {
		filter.Status = Status(s)
	}
	if s := q.Get("source"); s != "" {
		filter.Source = Source(s)
	}
	if s := q.Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 200 {
			filter.Limit = n
		}
	}
	if s := q.Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	leads, total, err := h.service.List(r.Context(), actorID, filter)
	if err != nil {
		writeResolverError(w, err)
		return
	}
	response.WithMeta(w, ToResponseList(leads), response.Meta{
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// GetByID handles GET /leads/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid lead ID")
		return
	}

	l, err := h.service.GetByID(r.Context(), actorID, id)
	if err != nil {
		if err == ErrLeadNotFound {
			response.NotFound(w, "Lead not found")
			return
		}
		writeResolverError(w, err)
		return
	}
	response.OK(w, ToResponse(l))
}

// Create handles POST /leads
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	l, err := h.service.Create(r.Context(), actorID, &req)
	if err != nil {
		if err == ErrNotAssignable {
			response.Forbidden(w, "Target user is outside your assignable set")
			return
		}
		writeResolverError(w, err)
		return
	}
	response.Created(w, ToResponse(l))
}

// UpdateStatus handles PATCH /leads/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid lead ID")
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

	l, err := h.service.UpdateStatus(r.Context(), actorID, id, Status(req.Status), req.Notes)
	if err != nil {
		switch err {
		case ErrLeadNotFound:
			response.NotFound(w, "Lead not found")
		case ErrInvalidTransition:
			response.Conflict(w, "Lead cannot move to the requested status")
		default:
			writeResolverError(w, err)
		}
		return
	}
	response.OK(w, ToResponse(l))
}

// Assign handles PATCH /leads/{id}/assign
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid lead ID")
		return
	}

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	l, err := h.service.Assign(r.Context(), actorID, id, req.AssignedTo)
	if err != nil {
		switch err {
		case ErrLeadNotFound:
			response.NotFound(w, "Lead not found")
		case ErrNotAssignable:
			response.Forbidden(w, "Target user is outside your assignable set")
		default:
			writeResolverError(w, err)
		}
		return
	}
	response.OK(w, ToResponse(l))
}

// ExportCSV handles GET /leads/export.csv
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)

	if err := h.service.WriteCSV(r.Context(), actorID, w); err != nil {
		// Headers may already be sent; nothing useful to write here.
		return
	}
}
