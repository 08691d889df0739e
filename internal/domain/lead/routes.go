package lead

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns authenticated lead routes. exportGate additionally guards
// the CSV download for roles without the exports feature.
func (h *Handler) Routes(authMiddleware, featureGate, exportGate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(featureGate)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.With(exportGate).Get("/export.csv", h.ExportCSV)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetByID)
		r.Patch("/status", h.UpdateStatus)
		r.Patch("/assign", h.Assign)
	})

	return r
}
