package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"renthub-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.PropertyRepository
	repository.RentalRepository
	repository.LedgerRepository
	repository.WithdrawalRepository
	repository.MessageRepository
	repository.SettingsRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                   db,
		UserRepository:       NewUserRepository(db),
		PropertyRepository:   NewPropertyRepository(db),
		RentalRepository:     NewRentalRepository(db),
		LedgerRepository:     NewLedgerRepository(db),
		WithdrawalRepository: NewWithdrawalRepository(db),
		MessageRepository:    NewMessageRepository(db),
		SettingsRepository:   NewSettingsRepository(db),
	}
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string, maxOpenConns int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns / 2)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// DB exposes the underlying pool for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}
