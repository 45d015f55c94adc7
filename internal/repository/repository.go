package repository

import (
	"context"
	"errors"
	"time"

	"renthub-backend/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientBalance is returned when a withdrawal would take the
	// owner's balance below the requested minimum.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrAlreadyProcessed is returned when a withdrawal decision loses to an
	// earlier one.
	ErrAlreadyProcessed = errors.New("already processed")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, role, query string, page, pageSize int32) ([]domain.User, int32, error)
}

type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) error
	GetByID(ctx context.Context, id int32) (*domain.Property, error)
	Update(ctx context.Context, p *domain.Property) error
	Delete(ctx context.Context, id int32) error
	// ListPublic returns approved listings not removed by an admin.
	ListPublic(ctx context.Context, query string, page, pageSize int32) ([]domain.Property, int32, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Property, error)
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.Property, int32, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	// UpdateStatus persists status and the lifecycle timestamps.
	UpdateStatus(ctx context.Context, rental *domain.Rental) error
	Delete(ctx context.Context, id int32) error
	ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, ownerEmail, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error)
	// ListUnsettled returns Completed or Returned rentals with no settlement row.
	ListUnsettled(ctx context.Context, limit int32) ([]domain.Rental, error)
	MarkOverdueNotified(ctx context.Context, id int32, on time.Time) error
}

type LedgerRepository interface {
	CreateTransaction(ctx context.Context, tx *domain.LedgerTransaction) error
	// GetBalance folds the owner's ledger entries.
	GetBalance(ctx context.Context, ownerID int32) (int64, error)
	ListTransactions(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.LedgerTransaction, int32, error)
	GetSummary(ctx context.Context, ownerID int32) (*domain.LedgerSummary, error)
	// SettleRental records the settlement guard row and its EARNING_CREDIT
	// atomically. It reports false, with no ledger change, when the rental
	// was already settled.
	SettleRental(ctx context.Context, s *domain.RentalSettlement, description string) (bool, error)
	GetSettlement(ctx context.Context, rentalID int32) (*domain.RentalSettlement, error)
}

type WithdrawalRepository interface {
	// CreateWithDebit takes the owner's full balance as w.AmountCents and
	// appends the matching WITHDRAWAL_DEBIT in one transaction. It returns
	// ErrInsufficientBalance when the balance is below minimumCents.
	CreateWithDebit(ctx context.Context, w *domain.Withdrawal, minimumCents int64) error
	GetByID(ctx context.Context, id int32) (*domain.Withdrawal, error)
	// Process moves a pending withdrawal to its decided status, appending
	// refund when non-nil. It returns ErrAlreadyProcessed if w is no longer pending.
	Process(ctx context.Context, w *domain.Withdrawal, refund *domain.LedgerTransaction) error
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Withdrawal, error)
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.Withdrawal, int32, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id int32) (*domain.Message, error)
	Delete(ctx context.Context, id int32) error
	ListConversation(ctx context.Context, userID, peerID int32, limit int32) ([]domain.Message, error)
	// ListInbox returns the latest message per conversation peer.
	ListInbox(ctx context.Context, userID int32) ([]domain.Message, error)
	List(ctx context.Context, page, pageSize int32) ([]domain.Message, int32, error)
}

type SettingsRepository interface {
	GetPaymentSettings(ctx context.Context, provider string) (*domain.PaymentSettings, error)
	UpsertPaymentSettings(ctx context.Context, s *domain.PaymentSettings) error
	GetAdminSummary(ctx context.Context) (*domain.AdminSummary, error)
}
