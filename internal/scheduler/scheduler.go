// Package scheduler runs the cache maintenance jobs (expired price cleanup,
// WAL checkpoints) on cron schedules and records how each run went.
package scheduler

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a unit of maintenance work
type Job interface {
	Run() error
	Name() string
}

// JobStatus is the last known state of a registered job
type JobStatus struct {
	Name      string    `json:"name"`
	Schedule  string    `json:"schedule"`
	NextRun   time.Time `json:"next_run,omitempty"`
	LastRun   time.Time `json:"last_run,omitempty"`
	LastError string    `json:"last_error,omitempty"`
	Duration  string    `json:"last_duration,omitempty"`
	Runs      int       `json:"runs"`
}

type entry struct {
	id     cron.EntryID
	status JobStatus
}

// Scheduler owns the cron runner for maintenance jobs. A job whose previous
// run is still in progress is skipped rather than stacked.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

// New creates a scheduler. Schedules accept an optional seconds field.
func New(log zerolog.Logger) *Scheduler {
	log = log.With().Str("component", "scheduler").Logger()
	cl := cronLogger{log: log}
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log:     log,
		entries: make(map[string]*entry),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", s.JobCount()).Msg("Scheduler started")
}

// Stop stops the scheduler and waits for a running cleanup or checkpoint to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers job under schedule, e.g. "@every 6h" for cache cleanup or
// "0 */30 * * * *" for checkpoints. Job names must be unique.
func (s *Scheduler) AddJob(schedule string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[job.Name()]; exists {
		return fmt.Errorf("job %s already registered", job.Name())
	}

	id, err := s.cron.AddFunc(schedule, func() {
		if err := s.execute(job); err != nil {
			s.log.Error().Err(err).Str("job", job.Name()).Msg("Job failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s (%q): %w", job.Name(), schedule, err)
	}

	s.entries[job.Name()] = &entry{
		id:     id,
		status: JobStatus{Name: job.Name(), Schedule: schedule},
	}
	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")
	return nil
}

// RunNow executes a job immediately, outside its schedule. The run is
// recorded in Jobs when the job is registered.
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("Running job immediately")
	return s.execute(job)
}

func (s *Scheduler) execute(job Job) error {
	start := time.Now()
	s.log.Debug().Str("job", job.Name()).Msg("Running job")

	err := job.Run()

	s.mu.Lock()
	if e, ok := s.entries[job.Name()]; ok {
		e.status.Runs++
		e.status.LastRun = start
		e.status.Duration = time.Since(start).Round(time.Millisecond).String()
		e.status.LastError = ""
		if err != nil {
			e.status.LastError = err.Error()
		}
	}
	s.mu.Unlock()

	if err == nil {
		s.log.Debug().Str("job", job.Name()).Dur("took", time.Since(start)).Msg("Job completed")
	}
	return err
}

// JobCount returns the number of registered jobs
func (s *Scheduler) JobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Jobs returns the status of every registered job, sorted by name
func (s *Scheduler) Jobs() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStatus, 0, len(s.entries))
	for _, e := range s.entries {
		st := e.status
		st.NextRun = s.cron.Entry(e.id).Next
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// cronLogger routes cron's internal messages through zerolog
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
