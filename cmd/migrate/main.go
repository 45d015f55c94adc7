package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"renthub-backend/internal/config"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository/postgres"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	direction := flag.String("direction", "up", "Migration direction: 'up' or 'down'")
	steps := flag.Int("steps", 1, "Number of migrations to roll back when direction is 'down'")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	db, err := postgres.Open(context.Background(), cfg.GetDatabaseConnectionString(), 2)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch *direction {
	case "up":
		err = postgres.MigrateUp(db)
	case "down":
		err = postgres.MigrateDown(db, *steps)
	default:
		log.Fatalf("Unknown direction %q", *direction)
	}
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	logger.Info("Migration completed", "direction", *direction)
}
