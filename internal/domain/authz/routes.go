package authz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns permission query routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Post("/check", h.Check)
	r.Post("/check-bulk", h.BulkCheck)
	r.Get("/resolve", h.Resolve)

	return r
}
