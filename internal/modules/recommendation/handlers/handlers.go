// Package handlers provides HTTP handlers for fund recommendation operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/fundlens/internal/modules/recommendation"
	"github.com/rs/zerolog"
)

// Handler handles recommendation HTTP requests
type Handler struct {
	recommender *recommendation.Recommender
	historyRepo *recommendation.Repository
	log         zerolog.Logger
}

// NewHandler creates a new recommendation handler
func NewHandler(recommender *recommendation.Recommender, historyRepo *recommendation.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		recommender: recommender,
		historyRepo: historyRepo,
		log:         log.With().Str("handler", "recommendation").Logger(),
	}
}

type recommendRequest struct {
	Preferences recommendation.UserPreferences `json:"preferences"`
	Limit       int                            `json:"limit"`
}

// HandleRecommend handles POST /api/recommendations
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !validTolerance(req.Preferences.RiskTolerance) {
		http.Error(w, "Unknown risk tolerance", http.StatusBadRequest)
		return
	}

	recommendations, err := h.recommender.Recommend(r.Context(), req.Preferences, req.Limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Recommendation failed")
		http.Error(w, "Recommendation failed", http.StatusInternalServerError)
		return
	}

	if err := h.historyRepo.SaveBatch(recommendations, req.Preferences); err != nil {
		// History is best-effort; the recommendations themselves still go out.
		h.log.Warn().Err(err).Msg("Failed to store recommendation history")
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"recommendations": recommendations,
			"count":           len(recommendations),
			"advice":          h.recommender.GetInvestmentAdvice(recommendations, req.Preferences),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleAdvice handles POST /api/recommendations/advice
func (h *Handler) HandleAdvice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Recommendations []recommendation.FundRecommendation `json:"recommendations"`
		Preferences     recommendation.UserPreferences      `json:"preferences"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	advice := h.recommender.GetInvestmentAdvice(req.Recommendations, req.Preferences)

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"advice": advice,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleHistory handles GET /api/recommendations/history?limit=N
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := h.historyRepo.ListRecent(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list recommendation history")
		http.Error(w, "Failed to list recommendation history", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"history": entries,
			"count":   len(entries),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

func validTolerance(tolerance string) bool {
	switch tolerance {
	case recommendation.ToleranceConservative,
		recommendation.ToleranceModerate,
		recommendation.ToleranceAggressive:
		return true
	}
	return false
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
