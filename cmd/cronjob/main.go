package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"renthub-backend/internal/config"
	"renthub-backend/internal/events"
	"renthub-backend/internal/jobs"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/realtime"
	"renthub-backend/internal/repository/postgres"
	"renthub-backend/internal/scheduler"
	"renthub-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'settle-completed-rentals', 'send-overdue-notices', 'all')")
	flag.Parse()

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentHub cronjob runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := postgres.Open(context.Background(), cfg.GetDatabaseConnectionString(), cfg.Database.MaxOpenConns)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	// Notifications reach connected clients only through the Redis fanout;
	// without it they are picked up on the next inbox fetch.
	var broadcaster service.Broadcaster
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		broadcaster = realtime.NewHub(rdb, cfg.Redis.Channel, nil)
	}

	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	messageSvc := service.NewMessageService(store.MessageRepository, store.UserRepository, broadcaster)
	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.PropertyRepository,
		store.UserRepository,
		store.LedgerRepository,
		messageSvc,
		emailSvc,
		events.NoopPublisher{},
		cfg.Pricing.DeliveryFeeCents,
	)

	jobServices := &jobs.Services{
		Rental:  rentalSvc,
		Message: messageSvc,
		Email:   emailSvc,
	}
	jobRunner := jobs.NewJobRunner(store.RentalRepository, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "entries", cronScheduler.Entries())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case jobs.JobSettleCompletedRentals:
		jobRunner.SettleCompletedRentals()
	case jobs.JobSendOverdueNotices:
		jobRunner.SendOverdueNotices()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - %s\n", jobs.JobSettleCompletedRentals)
		fmt.Printf("  - %s\n", jobs.JobSendOverdueNotices)
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
