package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
	"renthub-backend/internal/service"
)

// withdrawalStore keeps withdrawals and ledger balances in memory with the
// same debit and processing rules as the postgres repository.
type withdrawalStore struct {
	MockWithdrawalRepo
	mu          sync.Mutex
	balances    map[int32]int64
	withdrawals map[int32]*domain.Withdrawal
	nextID      int32
}

func newWithdrawalStore() *withdrawalStore {
	return &withdrawalStore{balances: map[int32]int64{}, withdrawals: map[int32]*domain.Withdrawal{}}
}

func (s *withdrawalStore) CreateWithDebit(ctx context.Context, w *domain.Withdrawal, minimumCents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance := s.balances[w.OwnerID]
	if balance <= 0 || balance < minimumCents {
		return repository.ErrInsufficientBalance
	}
	s.nextID++
	w.ID = s.nextID
	w.AmountCents = balance
	w.Status = domain.WithdrawalStatusPending
	s.balances[w.OwnerID] = 0
	cp := *w
	s.withdrawals[w.ID] = &cp
	return nil
}

func (s *withdrawalStore) GetByID(ctx context.Context, id int32) (*domain.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.withdrawals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (s *withdrawalStore) Process(ctx context.Context, w *domain.Withdrawal, refund *domain.LedgerTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.withdrawals[w.ID]
	if !ok || stored.Status != domain.WithdrawalStatusPending {
		return repository.ErrAlreadyProcessed
	}
	cp := *w
	s.withdrawals[w.ID] = &cp
	if refund != nil {
		s.balances[refund.OwnerID] += refund.AmountCents
	}
	return nil
}

type withdrawalFixture struct {
	store  *withdrawalStore
	users  *MockUserRepo
	msgs   *MockMessageService
	email  *MockEmailService
	events *MockEvents
}

func newWithdrawalFixture() *withdrawalFixture {
	f := &withdrawalFixture{
		store:  newWithdrawalStore(),
		users:  new(MockUserRepo),
		msgs:   new(MockMessageService),
		email:  new(MockEmailService),
		events: new(MockEvents),
	}
	f.users.On("GetByID", mock.Anything, mock.Anything).Return(ownerUser, nil).Maybe()
	f.msgs.On("SendSystemMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&domain.Message{}, nil).Maybe()
	f.email.On("SendWithdrawalDecision", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.events.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

func (f *withdrawalFixture) service(refundOnReject bool) service.WithdrawalService {
	return service.NewWithdrawalService(f.store, f.users, f.msgs, f.email, f.events, 50000, refundOnReject)
}

var payout = service.WithdrawalRequest{Method: "GCash", AccountName: " Ana Reyes ", Phone: "09171234567"}

func TestWithdrawalService_RequestDebitsFullBalance(t *testing.T) {
	f := newWithdrawalFixture()
	svc := f.service(false)
	ctx := context.Background()
	f.store.balances[ownerUser.ID] = 70000

	w, err := svc.RequestWithdrawal(ctx, ownerUser, payout)
	require.NoError(t, err)
	assert.Equal(t, int64(70000), w.AmountCents)
	assert.Equal(t, domain.WithdrawalStatusPending, w.Status)
	assert.Equal(t, "Ana Reyes", w.AccountName)
	assert.Equal(t, int64(0), f.store.balances[ownerUser.ID])
	f.events.AssertCalled(t, "Publish", ctx, service.EventWithdrawalRequested, mock.Anything)
}

func TestWithdrawalService_RequestBelowMinimum(t *testing.T) {
	f := newWithdrawalFixture()
	svc := f.service(false)
	f.store.balances[ownerUser.ID] = 49999

	_, err := svc.RequestWithdrawal(context.Background(), ownerUser, payout)
	assert.ErrorIs(t, err, service.ErrInsufficientBalance)
	assert.Equal(t, int64(49999), f.store.balances[ownerUser.ID])
}

func TestWithdrawalService_RequestValidation(t *testing.T) {
	f := newWithdrawalFixture()
	svc := f.service(false)
	ctx := context.Background()

	_, err := svc.RequestWithdrawal(ctx, renterUser, payout)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.RequestWithdrawal(ctx, ownerUser, service.WithdrawalRequest{Method: "GCash", AccountName: "  "})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestWithdrawalService_RejectKeepsBalanceDebited(t *testing.T) {
	f := newWithdrawalFixture()
	svc := f.service(false)
	ctx := context.Background()
	f.store.balances[ownerUser.ID] = 70000

	w, err := svc.RequestWithdrawal(ctx, ownerUser, payout)
	require.NoError(t, err)

	rejected, err := svc.RejectWithdrawal(ctx, adminUser, w.ID, "wrong number")
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusRejected, rejected.Status)
	assert.Equal(t, "wrong number", rejected.RejectionReason)
	require.NotNil(t, rejected.ProcessedBy)
	assert.Equal(t, adminUser.ID, *rejected.ProcessedBy)
	assert.NotNil(t, rejected.ProcessedAt)
	assert.Equal(t, int64(0), f.store.balances[ownerUser.ID])
	f.msgs.AssertCalled(t, "SendSystemMessage", ctx, ownerUser.ID, mock.Anything, mock.Anything)
}

func TestWithdrawalService_RejectWithRefund(t *testing.T) {
	f := newWithdrawalFixture()
	svc := f.service(true)
	ctx := context.Background()
	f.store.balances[ownerUser.ID] = 70000

	w, err := svc.RequestWithdrawal(ctx, ownerUser, payout)
	require.NoError(t, err)

	_, err = svc.RejectWithdrawal(ctx, adminUser, w.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(70000), f.store.balances[ownerUser.ID])
}

func TestWithdrawalService_RefundTransactionShape(t *testing.T) {
	repo := new(MockWithdrawalRepo)
	f := newWithdrawalFixture()
	svc := service.NewWithdrawalService(repo, f.users, f.msgs, f.email, f.events, 50000, true)
	ctx := context.Background()

	repo.On("GetByID", ctx, int32(5)).Return(&domain.Withdrawal{ID: 5, OwnerID: 3, AmountCents: 70000, Status: domain.WithdrawalStatusPending}, nil)
	repo.On("Process", ctx, mock.AnythingOfType("*domain.Withdrawal"), mock.MatchedBy(func(tx *domain.LedgerTransaction) bool {
		return tx != nil &&
			tx.OwnerID == 3 &&
			tx.AmountCents == 70000 &&
			tx.Type == domain.TransactionTypeWithdrawalRefund &&
			tx.RelatedWithdrawalID != nil && *tx.RelatedWithdrawalID == 5
	})).Return(nil)

	_, err := svc.RejectWithdrawal(ctx, adminUser, 5, "duplicate")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestWithdrawalService_ApproveOnlyOnce(t *testing.T) {
	f := newWithdrawalFixture()
	svc := f.service(false)
	ctx := context.Background()
	f.store.balances[ownerUser.ID] = 60000

	w, err := svc.RequestWithdrawal(ctx, ownerUser, payout)
	require.NoError(t, err)

	approved, err := svc.ApproveWithdrawal(ctx, adminUser, w.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusApproved, approved.Status)

	_, err = svc.ApproveWithdrawal(ctx, adminUser, w.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyProcessed)
	_, err = svc.RejectWithdrawal(ctx, adminUser, w.ID, "")
	assert.ErrorIs(t, err, service.ErrAlreadyProcessed)
}

func TestWithdrawalService_ConcurrentDecisionLosesRace(t *testing.T) {
	repo := new(MockWithdrawalRepo)
	f := newWithdrawalFixture()
	svc := service.NewWithdrawalService(repo, f.users, f.msgs, f.email, f.events, 50000, false)
	ctx := context.Background()

	repo.On("GetByID", ctx, int32(5)).Return(&domain.Withdrawal{ID: 5, OwnerID: 3, Status: domain.WithdrawalStatusPending}, nil)
	repo.On("Process", ctx, mock.Anything, (*domain.LedgerTransaction)(nil)).Return(repository.ErrAlreadyProcessed)

	_, err := svc.ApproveWithdrawal(ctx, adminUser, 5)
	assert.ErrorIs(t, err, service.ErrAlreadyProcessed)
	f.msgs.AssertNotCalled(t, "SendSystemMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWithdrawalService_DecisionRequiresAdmin(t *testing.T) {
	f := newWithdrawalFixture()
	svc := f.service(false)

	_, err := svc.ApproveWithdrawal(context.Background(), ownerUser, 1)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestWithdrawalService_UnknownWithdrawal(t *testing.T) {
	f := newWithdrawalFixture()
	svc := f.service(false)

	_, err := svc.RejectWithdrawal(context.Background(), adminUser, 404, "")
	assert.ErrorIs(t, err, service.ErrWithdrawalNotFound)
}
