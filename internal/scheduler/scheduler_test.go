package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdhawan/nifty-screener/pkg/config"
	"github.com/rdhawan/nifty-screener/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
}

func (j *fakeJob) Name() string                  { return j.name }
func (j *fakeJob) Schedule() string              { return j.schedule }
func (j *fakeJob) Run(ctx context.Context) error { return nil }

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
}

func TestAddJob(t *testing.T) {
	s := New(testLogger())

	job := &fakeJob{name: "monthly-screen", schedule: "0 0 18 1 * *"}
	require.NoError(t, s.AddJob(job))

	t.Run("duplicate name rejected", func(t *testing.T) {
		err := s.AddJob(&fakeJob{name: "monthly-screen", schedule: "@monthly"})
		assert.ErrorContains(t, err, "already exists")
	})

	t.Run("bad cron expression rejected", func(t *testing.T) {
		err := s.AddJob(&fakeJob{name: "broken", schedule: "not a schedule"})
		assert.Error(t, err)
	})

	t.Run("history starts empty", func(t *testing.T) {
		history, err := s.GetJobHistory("monthly-screen")
		require.NoError(t, err)
		assert.Empty(t, history.Results)
	})

	t.Run("unknown job has no history", func(t *testing.T) {
		_, err := s.GetJobHistory("nope")
		assert.Error(t, err)
	})
}

func TestRunJobUnknown(t *testing.T) {
	s := New(testLogger())
	assert.Error(t, s.RunJob("nope"))
}

func TestJobHistoryCap(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 150; i++ {
		h.AddResult(JobResult{JobName: "monthly-screen", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, 100)
	// Oldest results are dropped first: entry 50 is now the head.
	assert.Equal(t, true, h.Results[0].Success)
}
