package authz

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/loopcrm/loopcrm-api/internal/middleware"
	"github.com/loopcrm/loopcrm-api/internal/pkg/response"
	"github.com/loopcrm/loopcrm-api/internal/pkg/validator"
)

// Handler handles permission and assignment queries
type Handler struct {
	resolver *Resolver
}

// NewHandler creates authz handler
func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// Check handles POST /permissions/check
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}
	response.OK(w, CheckPermission(req.Role, req.Feature))
}

// BulkCheck handles POST /permissions/check-bulk
func (h *Handler) BulkCheck(w http.ResponseWriter, r *http.Request) {
	var req BulkCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}
	response.OK(w, BulkCheck(req.Role, req.Features))
}

// Resolve handles GET /permissions/resolve. With no query parameter it
// resolves the caller's own role.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		role = middleware.GetRole(r.Context())
	}
	response.OK(w, Resolve(role))
}

// Assignable handles GET /users/assignable
func (h *Handler) Assignable(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	set, err := h.resolver.AssignableUsersFor(r.Context(), actorID)
	if err != nil {
		switch {
		case errors.Is(err, ErrActorNotFound):
			response.NotFound(w, "Actor not found in directory")
		case errors.Is(err, ErrStoreUnavailable):
			response.Unavailable(w)
		default:
			response.InternalError(w)
		}
		return
	}
	response.OK(w, toAssignableResponse(set))
}
