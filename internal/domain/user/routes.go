package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns directory routes. The feature gate and the assignable-set
// handler are supplied by the caller so this package stays independent of
// the authorization engine. Assignable is self-scoped and needs no feature
// beyond authentication; management endpoints sit behind the gate.
func (h *Handler) Routes(authMiddleware, featureGate func(http.Handler) http.Handler, assignable http.HandlerFunc) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/assignable", assignable)

	r.Group(func(r chi.Router) {
		r.Use(featureGate)

		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetByID)
			r.Patch("/", h.Update)
			r.Patch("/status", h.UpdateStatus)
			r.Patch("/reports-to", h.Reassign)
		})
	})

	return r
}
