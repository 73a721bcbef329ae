package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/cache"
	"github.com/aristath/advisor/internal/config"
	"github.com/aristath/advisor/internal/scheduler"
)

// RegisterJobs creates the scheduler and registers maintenance jobs.
// The scheduler is not started here.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) error {
	sched := scheduler.New(log)

	jobs := &JobInstances{
		CacheCleanup:  cache.NewCleanupJob(container.CacheRepo, log),
		WALCheckpoint: scheduler.NewWALCheckpointJob(log, container.CacheDB),
	}

	if err := sched.AddJob(cfg.CacheCleanupSchedule, jobs.CacheCleanup); err != nil {
		return fmt.Errorf("failed to register cache cleanup job: %w", err)
	}
	if err := sched.AddJob(cfg.WALCheckpointSchedule, jobs.WALCheckpoint); err != nil {
		return fmt.Errorf("failed to register WAL checkpoint job: %w", err)
	}

	container.Scheduler = sched
	container.Jobs = jobs
	return nil
}
