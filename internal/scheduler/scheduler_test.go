package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name string
	runs atomic.Int32
	err  error
}

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func (j *countingJob) Name() string {
	if j.name == "" {
		return "counting"
	}
	return j.name
}

func TestAddJob(t *testing.T) {
	s := New(zerolog.Nop())

	require.NoError(t, s.AddJob("@daily", &countingJob{name: "cache_cleanup"}))
	require.NoError(t, s.AddJob("0 */5 * * * *", &countingJob{name: "wal_checkpoint"}))
	require.NoError(t, s.AddJob("*/5 * * * *", &countingJob{name: "five_field"}))
	assert.Equal(t, 3, s.JobCount())

	assert.Error(t, s.AddJob("not a schedule", &countingJob{name: "bad"}))
	assert.Error(t, s.AddJob("@hourly", &countingJob{name: "cache_cleanup"}))
	assert.Equal(t, 3, s.JobCount())
}

func TestJobs_RecordsRuns(t *testing.T) {
	s := New(zerolog.Nop())
	ok := &countingJob{name: "cache_cleanup"}
	failing := &countingJob{name: "wal_checkpoint", err: errors.New("locked")}
	require.NoError(t, s.AddJob("@every 6h", ok))
	require.NoError(t, s.AddJob("@every 30m", failing))

	require.NoError(t, s.RunNow(ok))
	assert.Error(t, s.RunNow(failing))

	jobs := s.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "cache_cleanup", jobs[0].Name)
	assert.Equal(t, "@every 6h", jobs[0].Schedule)
	assert.Equal(t, 1, jobs[0].Runs)
	assert.Empty(t, jobs[0].LastError)
	assert.False(t, jobs[0].LastRun.IsZero())

	assert.Equal(t, "wal_checkpoint", jobs[1].Name)
	assert.Equal(t, 1, jobs[1].Runs)
	assert.Equal(t, "locked", jobs[1].LastError)
}

func TestScheduledJob_PanicIsRecovered(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{name: "after_panic"}

	require.NoError(t, s.AddJob("@every 1s", panicJob{}))
	require.NoError(t, s.AddJob("@every 1s", job))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return job.runs.Load() > 1 }, 4*time.Second, 50*time.Millisecond)
}

type panicJob struct{}

func (panicJob) Run() error   { panic("corrupt cache row") }
func (panicJob) Name() string { return "panicking" }

func TestScheduledJobRuns(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{}

	require.NoError(t, s.AddJob("@every 1s", job))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return job.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestRunNow(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{err: errors.New("boom")}

	assert.EqualError(t, s.RunNow(job), "boom")
	assert.Equal(t, int32(1), job.runs.Load())
}

type fakeDB struct {
	name  string
	err   error
	modes []string
}

func (f *fakeDB) Name() string { return f.name }

func (f *fakeDB) WALCheckpoint(mode string) error {
	f.modes = append(f.modes, mode)
	return f.err
}

func TestWALCheckpointJob(t *testing.T) {
	ok := &fakeDB{name: "cache"}
	bad := &fakeDB{name: "broken", err: errors.New("locked")}

	job := NewWALCheckpointJob(zerolog.Nop(), ok, bad)
	assert.Equal(t, "wal_checkpoint", job.Name())

	err := job.Run()
	assert.EqualError(t, err, "locked")
	assert.Equal(t, []string{"TRUNCATE"}, ok.modes)
	assert.Equal(t, []string{"TRUNCATE"}, bad.modes)
}
