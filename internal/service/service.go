package service

import (
	"context"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/utils"
)

type UserService interface {
	// Authenticate resolves a verified identity to its user record,
	// registering a new profile on first sign-in.
	Authenticate(ctx context.Context, identity domain.Identity) (*domain.User, error)
	GetUserProfile(ctx context.Context, userID int32) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int32, name, phone, avatarURL string) (*domain.User, error)
}

type PropertyService interface {
	CreateProperty(ctx context.Context, owner *domain.User, p *domain.Property) error
	UpdateProperty(ctx context.Context, actor *domain.User, p *domain.Property) (*domain.Property, error)
	DeleteProperty(ctx context.Context, actor *domain.User, id int32) error
	// GetProperty returns rentable listings to anyone; owners and admins also see the rest.
	GetProperty(ctx context.Context, actor *domain.User, id int32) (*domain.Property, error)
	ListProperties(ctx context.Context, query string, page, pageSize int32) ([]domain.Property, int32, error)
	ListMyProperties(ctx context.Context, owner *domain.User) ([]domain.Property, error)
}

// CheckoutRequest carries a renter's booking of a listing.
type CheckoutRequest struct {
	PropertyID      int32                `json:"property_id"`
	RentalDays      int32                `json:"rental_days"`
	DateRented      string               `json:"date_rented"` // yyyy-mm-dd, optional
	Address         domain.Address       `json:"address"`
	PaymentMethod   domain.PaymentMethod `json:"payment_method"`
	PaymentProofURL string               `json:"payment_proof_url"`
	RenterName      string               `json:"renter_name"`
	RenterPhone     string               `json:"renter_phone"`
}

type RentalService interface {
	Quote(ctx context.Context, propertyID, rentalDays int32, province string) (*utils.RentalQuote, error)
	Checkout(ctx context.Context, renter *domain.User, req CheckoutRequest) (*domain.Rental, error)
	UpdateRentalStatus(ctx context.Context, actor *domain.User, rentalID int32, target domain.RentalStatus) (*domain.Rental, error)
	CancelRental(ctx context.Context, actor *domain.User, rentalID int32) (*domain.Rental, error)
	MarkReturned(ctx context.Context, actor *domain.User, rentalID int32) (*domain.Rental, error)
	DeleteRental(ctx context.Context, actor *domain.User, rentalID int32) error
	GetRental(ctx context.Context, actor *domain.User, rentalID int32) (*domain.RentalView, error)
	ListMyRentals(ctx context.Context, renter *domain.User, status string, page, pageSize int32) ([]domain.RentalView, int32, error)
	ListLendings(ctx context.Context, owner *domain.User, status string, page, pageSize int32) ([]domain.RentalView, int32, error)
	ListAllRentals(ctx context.Context, status string, page, pageSize int32) ([]domain.RentalView, int32, error)
	ListOverdue(ctx context.Context, now time.Time) ([]domain.RentalView, error)
	// SettleRental credits the owner of a Completed or Returned rental at most once.
	SettleRental(ctx context.Context, rental *domain.Rental) (bool, error)
}

type LedgerService interface {
	GetBalance(ctx context.Context, ownerID int32) (int64, error)
	GetTransactions(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.LedgerTransaction, int32, error)
	GetLedgerSummary(ctx context.Context, ownerID int32) (*domain.LedgerSummary, error)
}

// WithdrawalRequest is the owner's payout destination.
type WithdrawalRequest struct {
	Method      string `json:"method"`
	AccountName string `json:"account_name"`
	Phone       string `json:"phone"`
}

type WithdrawalService interface {
	RequestWithdrawal(ctx context.Context, owner *domain.User, req WithdrawalRequest) (*domain.Withdrawal, error)
	ApproveWithdrawal(ctx context.Context, admin *domain.User, withdrawalID int32) (*domain.Withdrawal, error)
	RejectWithdrawal(ctx context.Context, admin *domain.User, withdrawalID int32, reason string) (*domain.Withdrawal, error)
	ListMyWithdrawals(ctx context.Context, ownerID int32) ([]domain.Withdrawal, error)
	ListWithdrawals(ctx context.Context, status string, page, pageSize int32) ([]domain.Withdrawal, int32, error)
}

type MessageService interface {
	SendMessage(ctx context.Context, sender *domain.User, receiverID int32, text string) (*domain.Message, error)
	// SendSystemMessage delivers a notification with no human sender.
	SendSystemMessage(ctx context.Context, receiverID int32, text string, attrs map[string]string) (*domain.Message, error)
	ListConversation(ctx context.Context, userID, peerID int32, limit int32) ([]domain.Message, error)
	ListInbox(ctx context.Context, userID int32) ([]domain.Message, error)
	ListAllMessages(ctx context.Context, page, pageSize int32) ([]domain.Message, int32, error)
	DeleteMessage(ctx context.Context, id int32) error
}

type SettingsService interface {
	GetGCashSettings(ctx context.Context) (*domain.PaymentSettings, error)
	UpdateGCashSettings(ctx context.Context, admin *domain.User, s *domain.PaymentSettings) (*domain.PaymentSettings, error)
}

type AdminService interface {
	GetSummary(ctx context.Context) (*domain.AdminSummary, error)
	ListUsers(ctx context.Context, role, query string, page, pageSize int32) ([]domain.User, int32, error)
	BlockUser(ctx context.Context, admin *domain.User, userID int32, blocked bool) (*domain.User, error)
	SetUserRole(ctx context.Context, admin *domain.User, userID int32, role domain.UserRole) (*domain.User, error)
	DeleteUser(ctx context.Context, admin *domain.User, userID int32) error
	ListProperties(ctx context.Context, status string, page, pageSize int32) ([]domain.Property, int32, error)
	ReviewProperty(ctx context.Context, admin *domain.User, propertyID int32, approve bool, reason string) (*domain.Property, error)
	RemoveProperty(ctx context.Context, admin *domain.User, propertyID int32, removed bool) (*domain.Property, error)
}

type EmailService interface {
	SendEarningsCredited(ctx context.Context, email, name, propertyName string, amountCents int64) error
	SendRentalStatusUpdate(ctx context.Context, email, name, propertyName string, status domain.RentalStatus) error
	SendOverdueNotice(ctx context.Context, email, name, propertyName string, dueDate time.Time, daysOverdue int) error
	SendWithdrawalDecision(ctx context.Context, email, name string, w *domain.Withdrawal) error
}

// EventPublisher emits domain events for downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// Broadcaster pushes a stored message to the connected clients of its participants.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message) error
}

// Domain event types.
const (
	EventRentalCreated       = "rental.created"
	EventRentalStatusChanged = "rental.status_changed"
	EventRentalSettled       = "rental.settled"
	EventWithdrawalRequested = "withdrawal.requested"
	EventWithdrawalApproved  = "withdrawal.approved"
	EventWithdrawalRejected  = "withdrawal.rejected"
)
