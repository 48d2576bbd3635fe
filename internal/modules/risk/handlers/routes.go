package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio risk routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/risk", func(r chi.Router) {
		r.Post("/portfolio", h.HandleAnalyzePortfolio)
		r.Post("/stress-test", h.HandleStressTest)
	})
}
