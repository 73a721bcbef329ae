// Package di provides dependency injection type definitions.
package di

import (
	"github.com/aristath/advisor/internal/cache"
	"github.com/aristath/advisor/internal/clients/tiingo"
	"github.com/aristath/advisor/internal/config"
	"github.com/aristath/advisor/internal/database"
	"github.com/aristath/advisor/internal/marketdata"
	"github.com/aristath/advisor/internal/modules/advice"
	"github.com/aristath/advisor/internal/modules/advisor"
	"github.com/aristath/advisor/internal/modules/optimization"
	"github.com/aristath/advisor/internal/scheduler"
)

// Container holds all application dependencies. It is created by Wire and
// handed to the server and CLI.
type Container struct {
	Config *config.Config

	// Databases
	CacheDB *database.DB

	// Repositories
	CacheRepo *cache.Repository

	// Clients
	TiingoClient *tiingo.Client

	// Market data
	Synthetic  *marketdata.SyntheticProvider
	MarketData *marketdata.Factory

	// Services
	Optimizer      *optimization.Optimizer
	Narrator       advice.Narrator // nil when no OpenAI key is configured
	AdvisorService *advisor.Service

	// Background jobs
	Scheduler *scheduler.Scheduler
	Jobs      *JobInstances
}

// JobInstances holds the registered background jobs for manual triggering
type JobInstances struct {
	CacheCleanup  scheduler.Job
	WALCheckpoint scheduler.Job
}

// Close releases resources held by the container
func (c *Container) Close() error {
	if c.CacheDB != nil {
		return c.CacheDB.Close()
	}
	return nil
}
