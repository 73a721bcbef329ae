package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/advisor/internal/database"
	"github.com/aristath/advisor/internal/di"
	"github.com/aristath/advisor/internal/marketdata"
	"github.com/aristath/advisor/internal/scheduler"
)

// SystemHandlers handles system monitoring and maintenance endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	dataDir     string
	startupTime time.Time
	cacheDB     *database.DB
	scheduler   *scheduler.Scheduler
	jobs        *di.JobInstances
	marketData  *marketdata.Factory
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(
	log zerolog.Logger,
	dataDir string,
	cacheDB *database.DB,
	sched *scheduler.Scheduler,
	jobs *di.JobInstances,
	marketData *marketdata.Factory,
) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		dataDir:     dataDir,
		startupTime: time.Now(),
		cacheDB:     cacheDB,
		scheduler:   sched,
		jobs:        jobs,
		marketData:  marketData,
	}
}

// SystemStatusResponse is the payload of GET /api/system/status
type SystemStatusResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	Goroutines    int     `json:"goroutines"`
	GoVersion     string  `json:"go_version"`
	DataDirMB     float64 `json:"data_dir_mb"`
	ScheduledJobs int     `json:"scheduled_jobs"`
	LiveData      bool    `json:"live_data"`
	SyntheticSeed uint64  `json:"synthetic_seed"`

	Jobs []scheduler.JobStatus `json:"jobs,omitempty"`
}

// HandleSystemStatus returns process and host status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, memPercent := h.getSystemStats()

	response := SystemStatusResponse{
		Status:        "healthy",
		Uptime:        time.Since(h.startupTime).Round(time.Second).String(),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		Goroutines:    runtime.NumGoroutine(),
		GoVersion:     runtime.Version(),
		DataDirMB:     h.getDirSize(h.dataDir),
	}
	if h.scheduler != nil {
		response.ScheduledJobs = h.scheduler.JobCount()
		response.Jobs = h.scheduler.Jobs()
	}
	if h.marketData != nil {
		response.LiveData = h.marketData.HasLiveSource("")
		response.SyntheticSeed = h.marketData.Synthetic().Seed()
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleDatabaseStats returns size information for the cache database
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cacheDB.GetStats()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get database stats")
		http.Error(w, "Failed to get database stats", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		h.cacheDB.Name(): stats,
	})
}

// HandleTriggerCacheCleanup runs the cache cleanup job immediately
// POST /api/system/jobs/cache-cleanup
func (h *SystemHandlers) HandleTriggerCacheCleanup(w http.ResponseWriter, r *http.Request) {
	h.triggerJob(w, h.jobs.CacheCleanup)
}

// HandleTriggerWALCheckpoint runs the WAL checkpoint job immediately
// POST /api/system/jobs/wal-checkpoint
func (h *SystemHandlers) HandleTriggerWALCheckpoint(w http.ResponseWriter, r *http.Request) {
	h.triggerJob(w, h.jobs.WALCheckpoint)
}

func (h *SystemHandlers) triggerJob(w http.ResponseWriter, job scheduler.Job) {
	if job == nil || h.scheduler == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "error",
			"message": "Job not registered",
		})
		return
	}

	if err := h.scheduler.RunNow(job); err != nil {
		h.log.Error().Err(err).Str("job", job.Name()).Msg("Manual job run failed")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"job":    job.Name(),
	})
}

// getDirSize calculates total size of a directory in MB
func (h *SystemHandlers) getDirSize(dirPath string) float64 {
	var totalSize int64

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})

	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(totalSize) / 1024 / 1024
}

// getSystemStats samples CPU over 100ms and reads memory usage
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

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
