package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all scoring routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/scores", func(r chi.Router) {
		r.Post("/", h.HandleScore)
		r.Post("/batch", h.HandleScoreBatch)
		r.Get("/weights", h.HandleGetWeights)
	})
}
