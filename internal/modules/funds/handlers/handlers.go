// Package handlers provides HTTP handlers for fund catalog operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/aristath/fundlens/internal/modules/funds"
	"github.com/rs/zerolog"
)

// Handler handles fund catalog HTTP requests
type Handler struct {
	service *funds.Service
	log     zerolog.Logger
}

// NewHandler creates a new funds handler
func NewHandler(service *funds.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "funds").Logger(),
	}
}

// HandleSearch handles GET /api/funds/search?q=keyword
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("q"))
	if keyword == "" {
		http.Error(w, "Query parameter 'q' is required", http.StatusBadRequest)
		return
	}

	results, err := h.service.Search(r.Context(), keyword)
	if err != nil {
		h.log.Error().Err(err).Str("keyword", keyword).Msg("Fund search failed")
		http.Error(w, "Fund search failed", http.StatusBadGateway)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"query":   keyword,
			"results": results,
			"count":   len(results),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleBatchEstimates handles GET /api/funds/estimates?codes=000001,110022
func (h *Handler) HandleBatchEstimates(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("codes"))
	var codes []string
	for _, code := range strings.Split(raw, ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		http.Error(w, "Query parameter 'codes' is required", http.StatusBadRequest)
		return
	}

	estimates := h.service.GetBatchEstimates(r.Context(), codes)

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"estimates": estimates,
			"count":     len(estimates),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetEstimate handles GET /api/funds/{code}/estimate
func (h *Handler) HandleGetEstimate(w http.ResponseWriter, r *http.Request, code string) {
	estimate, err := h.service.GetEstimate(r.Context(), code)
	if err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("Failed to get estimate")
		http.Error(w, "Failed to get estimate", http.StatusBadGateway)
		return
	}

	response := map[string]interface{}{
		"data": estimate,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetMetrics handles GET /api/funds/{code}/metrics
func (h *Handler) HandleGetMetrics(w http.ResponseWriter, r *http.Request, code string) {
	fund, err := h.service.GetHistoricalMetrics(r.Context(), code)
	if err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("Failed to get fund metrics")
		http.Error(w, "Failed to get fund metrics", http.StatusInternalServerError)
		return
	}
	if fund == nil {
		http.Error(w, "Fund not found", http.StatusNotFound)
		return
	}

	response := map[string]interface{}{
		"data": fund,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleIngestNAVHistory handles POST /api/funds/{code}/nav-history
func (h *Handler) HandleIngestNAVHistory(w http.ResponseWriter, r *http.Request, code string) {
	var req struct {
		NAVs []float64 `json:"navs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.NAVs) < 2 {
		http.Error(w, "At least 2 NAV observations are required", http.StatusBadRequest)
		return
	}

	analysis, err := h.service.IngestNAVHistory(code, req.NAVs)
	if err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("NAV history ingest failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := map[string]interface{}{
		"data": analysis,
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
