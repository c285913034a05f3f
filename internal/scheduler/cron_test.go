package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/trendarr/internal/controllers"
	"github.com/amaumene/trendarr/internal/models"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) Run(context.Context) (*models.RunSummary, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return models.NewRunSummary("run-1", time.Now(), false), nil
}

func TestScheduler_RunsOnStart(t *testing.T) {
	logger, _ := test.NewNullLogger()
	runner := &countingRunner{}
	s := NewScheduler(runner, "@every 1h", logger)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return runner.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewScheduler(&countingRunner{}, "not a schedule", logger)

	err := s.Start(context.Background())

	assert.Error(t, err)
}

func TestScheduler_SkipsWhenContextCancelled(t *testing.T) {
	logger, _ := test.NewNullLogger()
	runner := &countingRunner{}
	s := NewScheduler(runner, "@every 1h", logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.Start(ctx))
	s.Stop()

	assert.Equal(t, int32(0), runner.calls.Load())
}

func TestScheduler_RunInProgressIsNotAnError(t *testing.T) {
	logger, hook := test.NewNullLogger()
	runner := &countingRunner{err: controllers.ErrRunInProgress}
	s := NewScheduler(runner, "@every 1h", logger)

	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	assert.Equal(t, int32(1), runner.calls.Load())
	for _, entry := range hook.AllEntries() {
		assert.NotEqual(t, "Sync job failed", entry.Message)
	}
}
