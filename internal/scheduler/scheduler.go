package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"renthub-backend/internal/jobs"
	"renthub-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner. It
// fails when a configured cron spec does not parse.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	entries := []struct {
		name string
		spec string
		run  func()
	}{
		{jobs.JobSettleCompletedRentals, cfg.SettleCompletedRentals, s.jobs.SettleCompletedRentals},
		{jobs.JobSendOverdueNotices, cfg.SendOverdueNotices, s.jobs.SendOverdueNotices},
	}
	for _, e := range entries {
		if _, err := s.cron.AddFunc(e.spec, e.run); err != nil {
			logger.Error("Failed to register job", "job", e.name, "spec", e.spec, "error", err)
			return fmt.Errorf("invalid schedule for %s: %w", e.name, err)
		}
		logger.Debug("Registered job", "job", e.name, "spec", e.spec)
	}

	logger.Info("All cron jobs registered successfully", "count", len(entries))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
