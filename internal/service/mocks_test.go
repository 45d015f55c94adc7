package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"renthub-backend/internal/domain"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) List(ctx context.Context, role, query string, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, role, query, page, pageSize)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}

// MockPropertyRepo
type MockPropertyRepo struct {
	mock.Mock
}

func (m *MockPropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPropertyRepo) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) Update(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPropertyRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPropertyRepo) ListPublic(ctx context.Context, query string, page, pageSize int32) ([]domain.Property, int32, error) {
	args := m.Called(ctx, query, page, pageSize)
	return args.Get(0).([]domain.Property), args.Get(1).(int32), args.Error(2)
}
func (m *MockPropertyRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Property, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Property, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Property), args.Get(1).(int32), args.Error(2)
}

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rt *domain.Rental) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) UpdateStatus(ctx context.Context, rt *domain.Rental) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}
func (m *MockRentalRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRentalRepo) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) ListByOwner(ctx context.Context, ownerID int32, ownerEmail, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, ownerID, ownerEmail, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListUnsettled(ctx context.Context, limit int32) ([]domain.Rental, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) MarkOverdueNotified(ctx context.Context, id int32, on time.Time) error {
	args := m.Called(ctx, id, on)
	return args.Error(0)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) CreateTransaction(ctx context.Context, tx *domain.LedgerTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockLedgerRepo) GetBalance(ctx context.Context, ownerID int32) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockLedgerRepo) ListTransactions(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	return args.Get(0).([]domain.LedgerTransaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockLedgerRepo) GetSummary(ctx context.Context, ownerID int32) (*domain.LedgerSummary, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerSummary), args.Error(1)
}
func (m *MockLedgerRepo) SettleRental(ctx context.Context, s *domain.RentalSettlement, description string) (bool, error) {
	args := m.Called(ctx, s, description)
	return args.Bool(0), args.Error(1)
}
func (m *MockLedgerRepo) GetSettlement(ctx context.Context, rentalID int32) (*domain.RentalSettlement, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalSettlement), args.Error(1)
}

// MockWithdrawalRepo
type MockWithdrawalRepo struct {
	mock.Mock
}

func (m *MockWithdrawalRepo) CreateWithDebit(ctx context.Context, w *domain.Withdrawal, minimumCents int64) error {
	args := m.Called(ctx, w, minimumCents)
	return args.Error(0)
}
func (m *MockWithdrawalRepo) GetByID(ctx context.Context, id int32) (*domain.Withdrawal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}
func (m *MockWithdrawalRepo) Process(ctx context.Context, w *domain.Withdrawal, refund *domain.LedgerTransaction) error {
	args := m.Called(ctx, w, refund)
	return args.Error(0)
}
func (m *MockWithdrawalRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Withdrawal, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Withdrawal), args.Error(1)
}
func (m *MockWithdrawalRepo) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Withdrawal, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Withdrawal), args.Get(1).(int32), args.Error(2)
}

// MockMessageRepo
type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
func (m *MockMessageRepo) GetByID(ctx context.Context, id int32) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}
func (m *MockMessageRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockMessageRepo) ListConversation(ctx context.Context, userID, peerID int32, limit int32) ([]domain.Message, error) {
	args := m.Called(ctx, userID, peerID, limit)
	return args.Get(0).([]domain.Message), args.Error(1)
}
func (m *MockMessageRepo) ListInbox(ctx context.Context, userID int32) ([]domain.Message, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Message), args.Error(1)
}
func (m *MockMessageRepo) List(ctx context.Context, page, pageSize int32) ([]domain.Message, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Message), args.Get(1).(int32), args.Error(2)
}

// MockMessageService
type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) SendMessage(ctx context.Context, sender *domain.User, receiverID int32, text string) (*domain.Message, error) {
	args := m.Called(ctx, sender, receiverID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}
func (m *MockMessageService) SendSystemMessage(ctx context.Context, receiverID int32, text string, attrs map[string]string) (*domain.Message, error) {
	args := m.Called(ctx, receiverID, text, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}
func (m *MockMessageService) ListConversation(ctx context.Context, userID, peerID int32, limit int32) ([]domain.Message, error) {
	args := m.Called(ctx, userID, peerID, limit)
	return args.Get(0).([]domain.Message), args.Error(1)
}
func (m *MockMessageService) ListInbox(ctx context.Context, userID int32) ([]domain.Message, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Message), args.Error(1)
}
func (m *MockMessageService) ListAllMessages(ctx context.Context, page, pageSize int32) ([]domain.Message, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Message), args.Get(1).(int32), args.Error(2)
}
func (m *MockMessageService) DeleteMessage(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendEarningsCredited(ctx context.Context, email, name, propertyName string, amountCents int64) error {
	args := m.Called(ctx, email, name, propertyName, amountCents)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalStatusUpdate(ctx context.Context, email, name, propertyName string, status domain.RentalStatus) error {
	args := m.Called(ctx, email, name, propertyName, status)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueNotice(ctx context.Context, email, name, propertyName string, dueDate time.Time, daysOverdue int) error {
	args := m.Called(ctx, email, name, propertyName, dueDate, daysOverdue)
	return args.Error(0)
}
func (m *MockEmailService) SendWithdrawalDecision(ctx context.Context, email, name string, w *domain.Withdrawal) error {
	args := m.Called(ctx, email, name, w)
	return args.Error(0)
}

// MockEvents
type MockEvents struct {
	mock.Mock
}

func (m *MockEvents) Publish(ctx context.Context, eventType string, payload any) error {
	args := m.Called(ctx, eventType, payload)
	return args.Error(0)
}

// MockBroadcaster
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockSettingsRepo
type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) GetPaymentSettings(ctx context.Context, provider string) (*domain.PaymentSettings, error) {
	args := m.Called(ctx, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentSettings), args.Error(1)
}

func (m *MockSettingsRepo) UpsertPaymentSettings(ctx context.Context, s *domain.PaymentSettings) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSettingsRepo) GetAdminSummary(ctx context.Context) (*domain.AdminSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminSummary), args.Error(1)
}
