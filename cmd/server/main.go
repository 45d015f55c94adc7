package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	healthapi "renthub-backend/internal/api/grpc"
	httpapi "renthub-backend/internal/api/http"
	"renthub-backend/internal/config"
	"renthub-backend/internal/events"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/realtime"
	"renthub-backend/internal/repository/postgres"
	"renthub-backend/internal/security"
	"renthub-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Local development reads secrets from .env; missing is fine.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentHub backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "auth_provider", cfg.Auth.Provider)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString(), cfg.Database.MaxOpenConns)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if cfg.Database.MigrateOnStart {
		if err := postgres.MigrateUp(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	store := postgres.NewStore(db)

	// Realtime fanout goes through Redis when configured so every instance
	// reaches its own websocket clients.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer rdb.Close()
		logger.Info("Redis connection established", "addr", cfg.Redis.Addr, "channel", cfg.Redis.Channel)
	}
	hub := realtime.NewHub(rdb, cfg.Redis.Channel, cfg.Server.CORSOrigins)
	go func() {
		if err := hub.Run(ctx); err != nil {
			logger.Error("Realtime hub stopped", "error", err)
		}
	}()

	// Domain events
	var publisher interface {
		service.EventPublisher
		Close() error
	} = events.NoopPublisher{}
	if cfg.AMQP.URL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue)
		if err != nil {
			log.Fatalf("Failed to connect to message broker: %v", err)
		}
		publisher = p
		logger.Info("Event publishing enabled", "queue", cfg.AMQP.Queue)
	}
	defer publisher.Close()

	verifier, err := security.NewVerifier(ctx, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize token verifier: %v", err)
	}

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	messageSvc := service.NewMessageService(store.MessageRepository, store.UserRepository, hub)
	services := httpapi.Services{
		User:     service.NewUserService(store.UserRepository, cfg.Auth.BootstrapAdminEmails),
		Property: service.NewPropertyService(store.PropertyRepository),
		Rental: service.NewRentalService(
			store.RentalRepository,
			store.PropertyRepository,
			store.UserRepository,
			store.LedgerRepository,
			messageSvc,
			emailSvc,
			publisher,
			cfg.Pricing.DeliveryFeeCents,
		),
		Ledger: service.NewLedgerService(store.LedgerRepository),
		Withdrawal: service.NewWithdrawalService(
			store.WithdrawalRepository,
			store.UserRepository,
			messageSvc,
			emailSvc,
			publisher,
			cfg.Withdrawal.MinimumCents,
			cfg.Withdrawal.RefundOnReject,
		),
		Message:  messageSvc,
		Settings: service.NewSettingsService(store.SettingsRepository),
		Admin:    service.NewAdminService(store.UserRepository, store.PropertyRepository, store.SettingsRepository, messageSvc),
	}

	router := httpapi.NewRouter(services, verifier, hub, db, httpapi.Options{
		CORSOrigins:        cfg.Server.CORSOrigins,
		RateLimitPerSecond: cfg.Server.RateLimitPerSecond,
		RateLimitBurst:     cfg.Server.RateLimitBurst,
	})
	router.StartCleanup(ctx, 5*time.Minute)

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	var healthSrv *healthapi.HealthServer
	if cfg.Server.HealthPort != 0 {
		lis, err := net.Listen("tcp", cfg.GetHealthAddress())
		if err != nil {
			log.Fatalf("Failed to listen: %v", err)
		}
		healthSrv = healthapi.NewHealthServer(db)
		go healthSrv.Watch(ctx, 10*time.Second)
		go func() {
			logger.Info("gRPC health server listening", "address", cfg.GetHealthAddress())
			if err := healthSrv.Serve(lis); err != nil {
				logger.Error("gRPC health server error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if healthSrv != nil {
		healthSrv.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
