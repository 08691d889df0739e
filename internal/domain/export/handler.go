package export

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/loopcrm/loopcrm-api/internal/middleware"
	"github.com/loopcrm/loopcrm-api/internal/pkg/response"
	"github.com/loopcrm/loopcrm-api/internal/pkg/validator"
)

// Handler handles export job HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates export handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Request handles POST /exports
func (h *Handler) Request(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req RequestExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	job, err := h.service.Request(r.Context(), userID, Kind(req.Kind))
	if err != nil {
		if err == ErrUnknownKind {
			response.BadRequest(w, "Unknown export kind")
			return
		}
		response.InternalError(w)
		return
	}
	response.Created(w, toResponse(job, ""))
}

// List handles GET /exports
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	jobs, err := h.service.List(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*JobResponse, len(jobs))
	for i, job := range jobs {
		items[i] = toResponse(job, h.service.DownloadURL(job))
	}
	response.OK(w, items)
}

// GetByID handles GET /exports/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid export job ID")
		return
	}

	job, err := h.service.GetByID(r.Context(), id, userID)
	if err != nil {
		if err == ErrJobNotFound {
			response.NotFound(w, "Export job not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, toResponse(job, h.service.DownloadURL(job)))
}

// Routes returns export job routes, gated on the exports feature
func (h *Handler) Routes(authMiddleware, featureGate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(featureGate)

	r.Post("/", h.Request)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)

	return r
}
