package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/metrics"
	"renthub-backend/internal/repository"
	"renthub-backend/internal/utils"
)

type withdrawalService struct {
	withdrawalRepo repository.WithdrawalRepository
	userRepo       repository.UserRepository
	messageSvc     MessageService
	emailSvc       EmailService
	events         EventPublisher
	minimumCents   int64
	refundOnReject bool
}

func NewWithdrawalService(
	withdrawalRepo repository.WithdrawalRepository,
	userRepo repository.UserRepository,
	messageSvc MessageService,
	emailSvc EmailService,
	events EventPublisher,
	minimumCents int64,
	refundOnReject bool,
) WithdrawalService {
	return &withdrawalService{
		withdrawalRepo: withdrawalRepo,
		userRepo:       userRepo,
		messageSvc:     messageSvc,
		emailSvc:       emailSvc,
		events:         events,
		minimumCents:   minimumCents,
		refundOnReject: refundOnReject,
	}
}

func (s *withdrawalService) RequestWithdrawal(ctx context.Context, owner *domain.User, req WithdrawalRequest) (*domain.Withdrawal, error) {
	logger.EnterMethod("withdrawalService.RequestWithdrawal", "ownerID", owner.ID)

	if owner.Role != domain.UserRoleOwner {
		return nil, ErrForbidden
	}
	req.Method = strings.TrimSpace(req.Method)
	req.AccountName = strings.TrimSpace(req.AccountName)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Method == "" || req.AccountName == "" || req.Phone == "" {
		return nil, invalidInput("method, account name and phone are required")
	}

	w := &domain.Withdrawal{
		OwnerID:     owner.ID,
		OwnerEmail:  owner.Email,
		Method:      req.Method,
		AccountName: req.AccountName,
		Phone:       req.Phone,
	}
	if err := s.withdrawalRepo.CreateWithDebit(ctx, w, s.minimumCents); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			err = fmt.Errorf("%w: minimum is %s", ErrInsufficientBalance, utils.FormatPesos(s.minimumCents))
		}
		logger.ExitMethodWithError("withdrawalService.RequestWithdrawal", err, "ownerID", owner.ID)
		return nil, err
	}

	metrics.RecordWithdrawal("requested")
	s.publish(ctx, EventWithdrawalRequested, w)
	logger.ExitMethod("withdrawalService.RequestWithdrawal", "withdrawalID", w.ID, "amount", w.AmountCents)
	return w, nil
}

func (s *withdrawalService) ApproveWithdrawal(ctx context.Context, admin *domain.User, withdrawalID int32) (*domain.Withdrawal, error) {
	w, err := s.decide(ctx, admin, withdrawalID, domain.WithdrawalStatusApproved, "")
	if err != nil {
		return nil, err
	}
	s.notifyDecision(ctx, w, fmt.Sprintf("Your withdrawal of %s has been approved and sent to your %s account.",
		utils.FormatPesos(w.AmountCents), w.Method))
	s.publish(ctx, EventWithdrawalApproved, w)
	return w, nil
}

func (s *withdrawalService) RejectWithdrawal(ctx context.Context, admin *domain.User, withdrawalID int32, reason string) (*domain.Withdrawal, error) {
	w, err := s.decide(ctx, admin, withdrawalID, domain.WithdrawalStatusRejected, strings.TrimSpace(reason))
	if err != nil {
		return nil, err
	}
	text := fmt.Sprintf("Your withdrawal of %s was rejected.", utils.FormatPesos(w.AmountCents))
	if w.RejectionReason != "" {
		text += " Reason: " + w.RejectionReason
	}
	s.notifyDecision(ctx, w, text)
	s.publish(ctx, EventWithdrawalRejected, w)
	return w, nil
}

func (s *withdrawalService) decide(ctx context.Context, admin *domain.User, withdrawalID int32, status domain.WithdrawalStatus, reason string) (*domain.Withdrawal, error) {
	logger.EnterMethod("withdrawalService.decide", "adminID", admin.ID, "withdrawalID", withdrawalID, "status", status)

	if !admin.IsAdmin() {
		return nil, ErrForbidden
	}
	w, err := s.withdrawalRepo.GetByID(ctx, withdrawalID)
	if err != nil {
		return nil, notFoundAs(err, ErrWithdrawalNotFound)
	}
	if w.Status != domain.WithdrawalStatusPending {
		return nil, ErrAlreadyProcessed
	}

	now := time.Now().UTC()
	adminID := admin.ID
	w.Status = status
	w.RejectionReason = reason
	w.ProcessedBy = &adminID
	w.ProcessedAt = &now

	var refund *domain.LedgerTransaction
	if status == domain.WithdrawalStatusRejected {
		if s.refundOnReject {
			wid := w.ID
			refund = &domain.LedgerTransaction{
				OwnerID:             w.OwnerID,
				AmountCents:         w.AmountCents,
				Type:                domain.TransactionTypeWithdrawalRefund,
				RelatedWithdrawalID: &wid,
				Description:         fmt.Sprintf("Refund of rejected withdrawal #%d", w.ID),
			}
		} else {
			logger.Warn("Rejected withdrawal amount is not returned to the owner balance",
				"withdrawalID", w.ID, "ownerID", w.OwnerID, "amount", w.AmountCents)
		}
	}

	if err := s.withdrawalRepo.Process(ctx, w, refund); err != nil {
		if errors.Is(err, repository.ErrAlreadyProcessed) {
			return nil, ErrAlreadyProcessed
		}
		logger.ExitMethodWithError("withdrawalService.decide", err, "withdrawalID", withdrawalID)
		return nil, fmt.Errorf("failed to process withdrawal: %w", err)
	}

	metrics.RecordWithdrawal(string(status))
	logger.ExitMethod("withdrawalService.decide", "withdrawalID", w.ID, "status", w.Status, "refunded", refund != nil)
	return w, nil
}

func (s *withdrawalService) notifyDecision(ctx context.Context, w *domain.Withdrawal, text string) {
	_, _ = s.messageSvc.SendSystemMessage(ctx, w.OwnerID, text, map[string]string{
		"type":          "WITHDRAWAL_" + strings.ToUpper(string(w.Status)),
		"withdrawal_id": fmt.Sprintf("%d", w.ID),
	})
	name := ""
	if owner, err := s.userRepo.GetByID(ctx, w.OwnerID); err == nil {
		name = owner.Name
	}
	_ = s.emailSvc.SendWithdrawalDecision(ctx, w.OwnerEmail, name, w)
}

func (s *withdrawalService) ListMyWithdrawals(ctx context.Context, ownerID int32) ([]domain.Withdrawal, error) {
	return s.withdrawalRepo.ListByOwner(ctx, ownerID)
}

func (s *withdrawalService) ListWithdrawals(ctx context.Context, status string, page, pageSize int32) ([]domain.Withdrawal, int32, error) {
	return s.withdrawalRepo.List(ctx, status, page, pageSize)
}

func (s *withdrawalService) publish(ctx context.Context, eventType string, payload any) {
	if err := s.events.Publish(ctx, eventType, payload); err != nil {
		logger.Warn("Failed to publish event", "event", eventType, "error", err)
	}
}
