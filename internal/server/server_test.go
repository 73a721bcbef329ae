package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/advisor/internal/config"
	"github.com/aristath/advisor/internal/di"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		DataDir:               t.TempDir(),
		Port:                  3000,
		DefaultStartDate:      time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		PriceCacheTTL:         time.Hour,
		SyntheticSeed:         7,
		RiskFreeRate:          0.02,
		CorrelationFallback:   0.3,
		OptimizerIterations:   200,
		LearningRate:          0.01,
		HorizonDays:           252,
		MinWeight:             0.01,
		MaxWeight:             0.4,
		CacheCleanupSchedule:  "@daily",
		WALCheckpointSchedule: "@hourly",
	}

	container, err := di.Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	return New(Config{Log: zerolog.Nop(), Port: cfg.Port, DevMode: true, Container: container})
}

func serve(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "advisor", body["service"])
}

func TestSystemStatus(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, "GET", "/api/system/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var status SystemStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, 2, status.ScheduledJobs)
	assert.False(t, status.LiveData)
	assert.Equal(t, uint64(7), status.SyntheticSeed)
	assert.Positive(t, status.Goroutines)
	assert.GreaterOrEqual(t, status.DataDirMB, 0.0)
}

func TestDatabaseStats(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, "GET", "/api/system/database/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "cache")
}

func TestTriggerJobs(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/system/jobs/cache-cleanup", "/api/system/jobs/wal-checkpoint"} {
		t.Run(path, func(t *testing.T) {
			w := serve(s, "POST", path, nil)
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"status":"success"`)
		})
	}

	w := serve(s, "GET", "/api/system/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status SystemStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	require.Len(t, status.Jobs, 2)
	for _, job := range status.Jobs {
		assert.Equal(t, 1, job.Runs, job.Name)
		assert.Empty(t, job.LastError, job.Name)
	}
}

func TestAnalyzeRoute(t *testing.T) {
	s := newTestServer(t)

	body := []byte(`{"symbols": ["AAPL", "MSFT", "TSLA"], "riskTolerance": 5, "investment": 1000}`)
	w := serve(s, "POST", "/api/portfolio/analyze", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"analysisId"`)
	assert.Contains(t, w.Body.String(), `"timestamp"`)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/api/portfolio/analyze", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
