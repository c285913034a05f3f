package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/trendarr/internal/controllers"
	"github.com/amaumene/trendarr/internal/models"
)

// Runner performs one sync pass
type Runner interface {
	Run(ctx context.Context) (*models.RunSummary, error)
}

// Scheduler triggers sync runs on a cron schedule
type Scheduler struct {
	cron     *cron.Cron
	runner   Runner
	schedule string
	logger   *logrus.Logger

	mu  sync.Mutex
	ctx context.Context
	wg  sync.WaitGroup
}

// NewScheduler creates a new scheduler
func NewScheduler(runner Runner, schedule string, logger *logrus.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(logger)
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger))),
		runner:   runner,
		schedule: schedule,
		logger:   logger,
		ctx:      context.Background(),
	}
}

// Start registers the sync job, starts the scheduler and runs an initial
// sync in the background. Runs are cancelled through ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.WithField("schedule", s.schedule).Info("Starting scheduler")

	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	if _, err := s.cron.AddFunc(s.schedule, s.runSync); err != nil {
		return fmt.Errorf("failed to add sync job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runSync()
	}()

	return nil
}

// Stop stops the scheduler and waits for running jobs to return
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
	s.wg.Wait()
}

// runSync executes the sync job
func (s *Scheduler) runSync() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	s.logger.Info("Running scheduled sync")
	summary, err := s.runner.Run(ctx)
	switch {
	case errors.Is(err, controllers.ErrRunInProgress):
		s.logger.Info("Sync already running, skipping scheduled run")
	case err != nil:
		s.logger.WithError(err).Error("Sync job failed")
	default:
		s.logger.WithFields(logrus.Fields{
			"run_id": summary.RunID,
			"added":  summary.Added(),
		}).Info("Sync job completed successfully")
	}
}
