package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ADVISOR_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, 0.02, cfg.RiskFreeRate)
	assert.Equal(t, 0.3, cfg.CorrelationFallback)
	assert.Equal(t, 1000, cfg.OptimizerIterations)
	assert.Equal(t, 0.01, cfg.LearningRate)
	assert.Equal(t, 252, cfg.HorizonDays)
	assert.Equal(t, 0.01, cfg.MinWeight)
	assert.Equal(t, 0.4, cfg.MaxWeight)
	assert.Equal(t, 6*time.Hour, cfg.PriceCacheTTL)
	assert.Equal(t, "@daily", cfg.CacheCleanupSchedule)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), cfg.DefaultStartDate)
	assert.Contains(t, cfg.CacheDBPath(), "cache.db")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ADVISOR_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("TIINGO_API_KEY", "tiingo")
	t.Setenv("RISK_FREE_RATE", "0.035")
	t.Setenv("PRICE_CACHE_TTL", "30m")
	t.Setenv("SYNTHETIC_SEED", "42")
	t.Setenv("DEFAULT_START_DATE", "2022-06-01")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "tiingo", cfg.TiingoAPIKey)
	assert.Equal(t, 0.035, cfg.RiskFreeRate)
	assert.Equal(t, 30*time.Minute, cfg.PriceCacheTTL)
	assert.Equal(t, uint64(42), cfg.SyntheticSeed)
	assert.Equal(t, 2022, cfg.DefaultStartDate.Year())
}

func TestLoad_InvalidValuesFallBackOrFail(t *testing.T) {
	t.Setenv("ADVISOR_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)

	t.Setenv("CORRELATION_FALLBACK", "2")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("CORRELATION_FALLBACK", "0.3")
	t.Setenv("DEFAULT_START_DATE", "yesterday")
	_, err = Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Port: 3000, CorrelationFallback: 0.3, OptimizerIterations: 10, LearningRate: 0.01,
		HorizonDays: 252, MinWeight: 0.01, MaxWeight: 0.4, PriceCacheTTL: time.Hour,
	}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.MinWeight = 0.5
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Port = 0
	assert.Error(t, bad.Validate())

	bad = valid
	bad.HorizonDays = 0
	assert.Error(t, bad.Validate())
}
