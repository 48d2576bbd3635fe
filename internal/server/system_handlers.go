package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/fundlens/internal/database"
	"github.com/aristath/fundlens/internal/scheduler"
)

// SystemHandlers serves health, system stats and manual job triggers.
type SystemHandlers struct {
	log       zerolog.Logger
	dataDir   string
	catalogDB *database.DB
	cacheDB   *database.DB

	scheduler      *scheduler.Scheduler
	catalogSyncJob scheduler.Job
	cleanupJob     scheduler.Job
}

// NewSystemHandlers creates new system handlers
func NewSystemHandlers(
	log zerolog.Logger,
	dataDir string,
	catalogDB *database.DB,
	cacheDB *database.DB,
	sched *scheduler.Scheduler,
	catalogSyncJob scheduler.Job,
	cleanupJob scheduler.Job,
) *SystemHandlers {
	return &SystemHandlers{
		log:            log.With().Str("handler", "system").Logger(),
		dataDir:        dataDir,
		catalogDB:      catalogDB,
		cacheDB:        cacheDB,
		scheduler:      sched,
		catalogSyncJob: catalogSyncJob,
		cleanupJob:     cleanupJob,
	}
}

// HandleHealth handles GET /health and GET /api/health
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	databases := map[string]string{}
	healthy := true

	for _, db := range []*database.DB{h.catalogDB, h.cacheDB} {
		if db == nil {
			continue
		}
		if err := db.HealthCheck(r.Context()); err != nil {
			databases[db.Name()] = "unhealthy: " + err.Error()
			healthy = false
		} else {
			databases[db.Name()] = "ok"
		}
	}

	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"status":    status,
			"databases": databases,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, code, response)
}

// HandleSystemStats handles GET /api/system/stats
func (h *SystemHandlers) HandleSystemStats(w http.ResponseWriter, r *http.Request) {
	cpuPct, ramPct := h.getSystemStats()

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"cpu_percent": cpuPct,
			"ram_percent": ramPct,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleDatabaseStats handles GET /api/system/database/stats
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	type dbInfo struct {
		Name   string  `json:"name"`
		Path   string  `json:"path"`
		SizeMB float64 `json:"size_mb"`
	}

	databases := []dbInfo{}
	totalSizeMB := 0.0

	for _, db := range []*database.DB{h.catalogDB, h.cacheDB} {
		if db == nil {
			continue
		}
		path := db.Path()
		if info, err := os.Stat(path); err == nil {
			sizeMB := float64(info.Size()) / 1024 / 1024
			totalSizeMB += sizeMB
			databases = append(databases, dbInfo{
				Name:   filepath.Base(path),
				Path:   path,
				SizeMB: sizeMB,
			})
		}
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"databases":     databases,
			"total_size_mb": totalSizeMB,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleTriggerCatalogSync handles POST /api/jobs/catalog-sync
func (h *SystemHandlers) HandleTriggerCatalogSync(w http.ResponseWriter, r *http.Request) {
	h.triggerJob(w, h.catalogSyncJob)
}

// HandleTriggerCacheCleanup handles POST /api/jobs/cache-cleanup
func (h *SystemHandlers) HandleTriggerCacheCleanup(w http.ResponseWriter, r *http.Request) {
	h.triggerJob(w, h.cleanupJob)
}

func (h *SystemHandlers) triggerJob(w http.ResponseWriter, job scheduler.Job) {
	if job == nil || h.scheduler == nil {
		http.Error(w, "Job not configured", http.StatusServiceUnavailable)
		return
	}

	if err := h.scheduler.RunNow(job); err != nil {
		h.log.Error().Err(err).Str("job", job.Name()).Msg("Manual job run failed")
		http.Error(w, "Job failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"job":    job.Name(),
			"status": "completed",
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// getSystemStats calculates CPU and RAM usage percentages.
// Uses a 100ms CPU sampling window to keep the endpoint responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// writeJSON writes a JSON response
func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
