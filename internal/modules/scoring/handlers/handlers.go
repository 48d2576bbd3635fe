// Package handlers provides HTTP handlers for fund scoring operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aristath/fundlens/internal/modules/funds"
	"github.com/aristath/fundlens/internal/modules/scoring"
	"github.com/rs/zerolog"
)

// Handler handles fund scoring HTTP requests
type Handler struct {
	scorer *scoring.Scorer
	log    zerolog.Logger
}

// NewHandler creates a new scoring handler
func NewHandler(scorer *scoring.Scorer, log zerolog.Logger) *Handler {
	return &Handler{
		scorer: scorer,
		log:    log.With().Str("handler", "scoring").Logger(),
	}
}

// HandleScore handles POST /api/scores
func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	var fund funds.FundRecord
	if err := json.NewDecoder(r.Body).Decode(&fund); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if fund.Code == "" {
		http.Error(w, "Fund code is required", http.StatusBadRequest)
		return
	}

	score := h.scorer.Score(fund)

	response := map[string]interface{}{
		"data": score,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleScoreBatch handles POST /api/scores/batch
func (h *Handler) HandleScoreBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Funds []funds.FundRecord `json:"funds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Funds) == 0 {
		http.Error(w, "At least one fund is required", http.StatusBadRequest)
		return
	}

	scores := h.scorer.ScoreBatch(req.Funds)

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"scores": scores,
			"count":  len(scores),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetWeights handles GET /api/scores/weights
func (h *Handler) HandleGetWeights(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"data": h.scorer.Weights(),
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
