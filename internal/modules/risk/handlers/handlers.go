// Package handlers provides HTTP handlers for portfolio risk operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aristath/fundlens/internal/modules/risk"
	"github.com/rs/zerolog"
)

// Handler handles portfolio risk HTTP requests
type Handler struct {
	analyzer *risk.Analyzer
	log      zerolog.Logger
}

// NewHandler creates a new risk handler
func NewHandler(analyzer *risk.Analyzer, log zerolog.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		log:      log.With().Str("handler", "risk").Logger(),
	}
}

// HandleAnalyzePortfolio handles POST /api/risk/portfolio
func (h *Handler) HandleAnalyzePortfolio(w http.ResponseWriter, r *http.Request) {
	holdings, ok := h.decodeHoldings(w, r)
	if !ok {
		return
	}

	metrics := h.analyzer.AnalyzePortfolio(holdings)

	response := map[string]interface{}{
		"data": metrics,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleStressTest handles POST /api/risk/stress-test
func (h *Handler) HandleStressTest(w http.ResponseWriter, r *http.Request) {
	holdings, ok := h.decodeHoldings(w, r)
	if !ok {
		return
	}

	scenarios := h.analyzer.StressTest(holdings)

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"scenarios": scenarios,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// decodeHoldings parses and validates the holdings request body. The weight
// sum contract is enforced here, at the boundary, not inside the analyzer.
func (h *Handler) decodeHoldings(w http.ResponseWriter, r *http.Request) ([]risk.FundHolding, bool) {
	var req struct {
		Holdings []risk.FundHolding `json:"holdings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}

	if err := risk.ValidateWeights(req.Holdings); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	return req.Holdings, true
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
