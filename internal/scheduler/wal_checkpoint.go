package scheduler

import (
	"github.com/rs/zerolog"
)

// Checkpointer is satisfied by *database.DB
type Checkpointer interface {
	Name() string
	WALCheckpoint(mode string) error
}

// WALCheckpointJob truncates the WAL of each database to keep it from growing
type WALCheckpointJob struct {
	dbs []Checkpointer
	log zerolog.Logger
}

// NewWALCheckpointJob creates a checkpoint job for dbs
func NewWALCheckpointJob(log zerolog.Logger, dbs ...Checkpointer) *WALCheckpointJob {
	return &WALCheckpointJob{
		dbs: dbs,
		log: log.With().Str("job", "wal_checkpoint").Logger(),
	}
}

// Name returns the job name
func (j *WALCheckpointJob) Name() string {
	return "wal_checkpoint"
}

// Run checkpoints every database. Failures are logged and the last one is returned.
func (j *WALCheckpointJob) Run() error {
	var lastErr error
	for _, db := range j.dbs {
		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Warn().Err(err).Str("database", db.Name()).Msg("Failed to checkpoint WAL")
			lastErr = err
			continue
		}
		j.log.Debug().Str("database", db.Name()).Msg("WAL checkpointed")
	}
	return lastErr
}
