package restriction

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loopcrm/loopcrm-api/internal/middleware"
)

// Routes returns restriction management routes. Only admins may manage
// restrictions; super admins are the targets, not the operators.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(middleware.RequireAdmin())

	r.Post("/", h.Create)
	r.Get("/", h.List)

	r.Route("/{id}", func(r chi.Router) {
		r.Patch("/", h.Update)
		r.Delete("/", h.Deactivate)
	})

	return r
}
