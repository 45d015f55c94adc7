package jobs

import (
	"context"
	"time"

	"renthub-backend/internal/config"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/metrics"
	"renthub-backend/internal/repository"
	"renthub-backend/internal/service"
)

const (
	JobSettleCompletedRentals = "settle-completed-rentals"
	JobSendOverdueNotices     = "send-overdue-notices"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	rentals  repository.RentalRepository
	services *Services
	config   *config.Config
	now      func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Rental  service.RentalService
	Message service.MessageService
	Email   service.EmailService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(rentals repository.RentalRepository, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		rentals:  rentals,
		services: services,
		config:   cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and records the run
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	start := time.Now()
	success := false
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
		metrics.RecordJobRun(jobName, time.Since(start), success)
	}()

	logger.Info("Starting job", "job", jobName)
	if err := jobFunc(context.Background()); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err)
		return
	}
	success = true
	logger.Info("Job completed", "job", jobName, "duration_ms", time.Since(start).Milliseconds())
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.SettleCompletedRentals()
	jr.SendOverdueNotices()
}
