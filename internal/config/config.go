// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const dateLayout = "2006-01-02"

// Config holds application configuration
type Config struct {
	DataDir  string // Directory for the cache database (always absolute)
	LogLevel string
	Port     int
	DevMode  bool

	// Market data
	TiingoAPIKey     string
	TiingoBaseURL    string
	DefaultStartDate time.Time
	PriceCacheTTL    time.Duration
	SyntheticSeed    uint64 // 0 = seeded from the clock at startup

	// Optional AI commentary
	OpenAIAPIKey string
	OpenAIModel  string

	// Engine parameters
	RiskFreeRate        float64
	CorrelationFallback float64
	OptimizerIterations int
	LearningRate        float64
	HorizonDays         int
	MinWeight           float64
	MaxWeight           float64

	// Maintenance
	CacheCleanupSchedule  string
	WALCheckpointSchedule string
}

// Load reads configuration from the environment (and a .env file if present)
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir, err := filepath.Abs(getEnv("ADVISOR_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	startDate, err := time.Parse(dateLayout, getEnv("DEFAULT_START_DATE", "2023-01-01"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_START_DATE: %w", err)
	}

	cfg := &Config{
		DataDir:  dataDir,
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvAsInt("PORT", 3000),
		DevMode:  getEnvAsBool("DEV_MODE", false),

		TiingoAPIKey:     getEnv("TIINGO_API_KEY", ""),
		TiingoBaseURL:    getEnv("TIINGO_BASE_URL", "https://api.tiingo.com"),
		DefaultStartDate: startDate,
		PriceCacheTTL:    getEnvAsDuration("PRICE_CACHE_TTL", 6*time.Hour),
		SyntheticSeed:    uint64(getEnvAsInt("SYNTHETIC_SEED", 0)),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		RiskFreeRate:        getEnvAsFloat("RISK_FREE_RATE", 0.02),
		CorrelationFallback: getEnvAsFloat("CORRELATION_FALLBACK", 0.3),
		OptimizerIterations: getEnvAsInt("OPTIMIZER_ITERATIONS", 1000),
		LearningRate:        getEnvAsFloat("OPTIMIZER_LEARNING_RATE", 0.01),
		HorizonDays:         getEnvAsInt("HORIZON_DAYS", 252),
		MinWeight:           getEnvAsFloat("MIN_WEIGHT", 0.01),
		MaxWeight:           getEnvAsFloat("MAX_WEIGHT", 0.4),

		CacheCleanupSchedule:  getEnv("CACHE_CLEANUP_SCHEDULE", "@daily"),
		WALCheckpointSchedule: getEnv("WAL_CHECKPOINT_SCHEDULE", "@hourly"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	if c.CorrelationFallback < -1 || c.CorrelationFallback > 1 {
		return fmt.Errorf("CORRELATION_FALLBACK must be within [-1, 1], got %v", c.CorrelationFallback)
	}
	if c.OptimizerIterations <= 0 {
		return fmt.Errorf("OPTIMIZER_ITERATIONS must be positive, got %d", c.OptimizerIterations)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("OPTIMIZER_LEARNING_RATE must be positive, got %v", c.LearningRate)
	}
	if c.HorizonDays <= 0 {
		return fmt.Errorf("HORIZON_DAYS must be positive, got %d", c.HorizonDays)
	}
	if c.MinWeight < 0 || c.MaxWeight > 1 || c.MinWeight > c.MaxWeight {
		return fmt.Errorf("invalid weight bounds [%v, %v]", c.MinWeight, c.MaxWeight)
	}
	if c.PriceCacheTTL <= 0 {
		return fmt.Errorf("PRICE_CACHE_TTL must be positive, got %s", c.PriceCacheTTL)
	}
	return nil
}

// CacheDBPath is the location of the SQLite cache
func (c *Config) CacheDBPath() string {
	return filepath.Join(c.DataDir, "cache.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
