package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all fund catalog routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/funds", func(r chi.Router) {
		r.Get("/search", h.HandleSearch)
		r.Get("/estimates", h.HandleBatchEstimates)

		r.Route("/{code}", func(r chi.Router) {
			r.Get("/estimate", func(w http.ResponseWriter, r *http.Request) {
				code := chi.URLParam(r, "code")
				h.HandleGetEstimate(w, r, code)
			})
			r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
				code := chi.URLParam(r, "code")
				h.HandleGetMetrics(w, r, code)
			})
			r.Post("/nav-history", func(w http.ResponseWriter, r *http.Request) {
				code := chi.URLParam(r, "code")
				h.HandleIngestNAVHistory(w, r, code)
			})
		})
	})
}
