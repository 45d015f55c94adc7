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

type rentalService struct {
	rentalRepo       repository.RentalRepository
	propertyRepo     repository.PropertyRepository
	userRepo         repository.UserRepository
	ledgerRepo       repository.LedgerRepository
	messageSvc       MessageService
	emailSvc         EmailService
	events           EventPublisher
	deliveryFeeCents int64
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	propertyRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	ledgerRepo repository.LedgerRepository,
	messageSvc MessageService,
	emailSvc EmailService,
	events EventPublisher,
	deliveryFeeCents int64,
) RentalService {
	return &rentalService{
		rentalRepo:       rentalRepo,
		propertyRepo:     propertyRepo,
		userRepo:         userRepo,
		ledgerRepo:       ledgerRepo,
		messageSvc:       messageSvc,
		emailSvc:         emailSvc,
		events:           events,
		deliveryFeeCents: deliveryFeeCents,
	}
}

func (s *rentalService) Quote(ctx context.Context, propertyID, rentalDays int32, province string) (*utils.RentalQuote, error) {
	prop, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, notFoundAs(err, ErrPropertyNotFound)
	}
	if !prop.Rentable() {
		return nil, ErrPropertyUnavailable
	}
	quote, err := utils.QuoteRental(prop.PriceCents, rentalDays, province, s.deliveryFeeCents)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return &quote, nil
}

func (s *rentalService) Checkout(ctx context.Context, renter *domain.User, req CheckoutRequest) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.Checkout", "renterID", renter.ID, "propertyID", req.PropertyID, "days", req.RentalDays)

	if !renter.IsActive() {
		return nil, ErrAccountInactive
	}
	if req.PaymentMethod != domain.PaymentMethodGCash && req.PaymentMethod != domain.PaymentMethodCOD {
		return nil, invalidInput("payment method must be GCASH or COD")
	}
	if strings.TrimSpace(req.Address.Province) == "" {
		return nil, invalidInput("province is required")
	}

	var dateRented *time.Time
	if req.DateRented != "" {
		d, err := utils.ParseDate(req.DateRented)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		dateRented = &d
	}

	prop, err := s.propertyRepo.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, notFoundAs(err, ErrPropertyNotFound)
	}
	if !prop.Rentable() {
		return nil, ErrPropertyUnavailable
	}
	if prop.OwnerID == renter.ID {
		return nil, invalidInput("cannot rent your own listing")
	}

	quote, err := utils.QuoteRental(prop.PriceCents, req.RentalDays, req.Address.Province, s.deliveryFeeCents)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	name := req.RenterName
	if name == "" {
		name = renter.Name
	}
	phone := req.RenterPhone
	if phone == "" {
		phone = renter.Phone
	}

	ownerID := prop.OwnerID
	rental := &domain.Rental{
		PropertyID:       prop.ID,
		PropertyName:     prop.Name,
		PropertyImage:    prop.ImageURL,
		OwnerID:          &ownerID,
		OwnerEmail:       prop.OwnerEmail,
		RenterID:         renter.ID,
		RenterEmail:      renter.Email,
		RenterName:       name,
		RenterPhone:      phone,
		Address:          req.Address,
		PaymentMethod:    req.PaymentMethod,
		PaymentProofURL:  req.PaymentProofURL,
		DailyRateCents:   quote.DailyRateCents,
		RentalDays:       quote.RentalDays,
		ServiceFeeCents:  quote.ServiceFeeCents,
		DeliveryFeeCents: quote.DeliveryFeeCents,
		TotalAmountCents: quote.TotalCents,
		Status:           domain.RentalStatusToPay,
		DateRented:       dateRented,
	}
	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		logger.ExitMethodWithError("rentalService.Checkout", err)
		return nil, fmt.Errorf("failed to create rental: %w", err)
	}

	_, _ = s.messageSvc.SendSystemMessage(ctx, ownerID,
		fmt.Sprintf("%s booked %s for %d day(s)", name, prop.Name, rental.RentalDays),
		rentalAttrs(rental, "RENTAL_CREATED"))
	s.publish(ctx, EventRentalCreated, rental)

	logger.ExitMethod("rentalService.Checkout", "rentalID", rental.ID, "total", rental.TotalAmountCents)
	return rental, nil
}

func (s *rentalService) UpdateRentalStatus(ctx context.Context, actor *domain.User, rentalID int32, target domain.RentalStatus) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.UpdateRentalStatus", "actorID", actor.ID, "rentalID", rentalID, "target", target)

	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		err = notFoundAs(err, ErrRentalNotFound)
		logger.ExitMethodWithError("rentalService.UpdateRentalStatus", err, "rentalID", rentalID)
		return nil, err
	}

	if err := authorizeTransition(actor, rt, target); err != nil {
		logger.ExitMethodWithError("rentalService.UpdateRentalStatus", err, "rentalID", rentalID, "from", rt.Status)
		return nil, err
	}

	if rt.Status != target {
		previous := rt.Status
		now := time.Now().UTC()
		rt.Status = target
		switch target {
		case domain.RentalStatusCompleted:
			rt.CompletedAt = &now
		case domain.RentalStatusReturned:
			rt.ReturnedAt = &now
		case domain.RentalStatusCancelled:
			rt.CancelledAt = &now
		}
		if err := s.rentalRepo.UpdateStatus(ctx, rt); err != nil {
			logger.ExitMethodWithError("rentalService.UpdateRentalStatus", err, "rentalID", rentalID)
			return nil, fmt.Errorf("failed to update rental status: %w", notFoundAs(err, ErrRentalNotFound))
		}
		logger.Info("Rental status changed", "rentalID", rt.ID, "from", previous, "to", target, "actorID", actor.ID)
		if previous.Settles() && !target.Settles() {
			s.warnCreditKept(ctx, rt, previous)
		}
		s.notifyStatusChange(ctx, rt)
		s.publish(ctx, EventRentalStatusChanged, map[string]any{
			"rental_id": rt.ID,
			"from":      previous,
			"to":        target,
			"actor_id":  actor.ID,
		})
	}

	// Settlement is attempted on every transition to Completed; the
	// settlement guard makes repeats no-ops.
	if target == domain.RentalStatusCompleted {
		if _, err := s.SettleRental(ctx, rt); err != nil {
			logger.ExitMethodWithError("rentalService.UpdateRentalStatus", err, "rentalID", rentalID)
			return rt, fmt.Errorf("rental %d completed but settlement failed: %w", rt.ID, err)
		}
	}

	logger.ExitMethod("rentalService.UpdateRentalStatus", "rentalID", rt.ID, "status", rt.Status)
	return rt, nil
}

func (s *rentalService) CancelRental(ctx context.Context, actor *domain.User, rentalID int32) (*domain.Rental, error) {
	return s.UpdateRentalStatus(ctx, actor, rentalID, domain.RentalStatusCancelled)
}

func (s *rentalService) MarkReturned(ctx context.Context, actor *domain.User, rentalID int32) (*domain.Rental, error) {
	return s.UpdateRentalStatus(ctx, actor, rentalID, domain.RentalStatusReturned)
}

func (s *rentalService) SettleRental(ctx context.Context, rt *domain.Rental) (bool, error) {
	if !rt.Status.Settles() {
		return false, ErrInvalidTransition
	}
	// Only a rental that went through Completed earns; an admin may close
	// one straight to Returned.
	if rt.CompletedAt == nil {
		return false, fmt.Errorf("%w: rental %d was never completed", ErrInvalidTransition, rt.ID)
	}

	owner, err := s.resolveOwner(ctx, rt)
	if err != nil {
		metrics.RecordSettlement(metrics.SettlementFailed, 0)
		return false, err
	}
	if owner == nil {
		logger.Warn("Owner account not found, skipping earnings credit",
			"rentalID", rt.ID, "ownerID", rt.OwnerID, "ownerEmail", rt.OwnerEmail)
		metrics.RecordSettlement(metrics.SettlementOwnerMissing, 0)
		return false, nil
	}

	settlement := &domain.RentalSettlement{
		RentalID:    rt.ID,
		OwnerID:     owner.ID,
		AmountCents: rt.TotalAmountCents,
	}
	credited, err := s.ledgerRepo.SettleRental(ctx, settlement, fmt.Sprintf("Earnings for rental #%d (%s)", rt.ID, rt.PropertyName))
	if err != nil {
		metrics.RecordSettlement(metrics.SettlementFailed, 0)
		return false, fmt.Errorf("failed to credit owner: %w", err)
	}
	if !credited {
		logger.Info("Rental already settled", "rentalID", rt.ID, "ownerID", owner.ID)
		metrics.RecordSettlement(metrics.SettlementDuplicate, 0)
		return false, nil
	}

	logger.Info("Owner credited for completed rental",
		"rentalID", rt.ID, "ownerID", owner.ID, "amount", rt.TotalAmountCents, "transactionID", settlement.TransactionID)
	metrics.RecordSettlement(metrics.SettlementCredited, rt.TotalAmountCents)

	// Confirmation is best-effort once the credit is committed.
	text := fmt.Sprintf("You earned %s from the rental of %s. It has been added to your balance.",
		utils.FormatPesos(rt.TotalAmountCents), rt.PropertyName)
	if _, err := s.messageSvc.SendSystemMessage(ctx, owner.ID, text, rentalAttrs(rt, "EARNINGS_CREDITED")); err != nil {
		logger.Error("Failed to send earnings confirmation", "rentalID", rt.ID, "ownerID", owner.ID, "error", err)
	}
	if err := s.emailSvc.SendEarningsCredited(ctx, owner.Email, owner.Name, rt.PropertyName, rt.TotalAmountCents); err != nil {
		logger.Error("Failed to email earnings confirmation", "rentalID", rt.ID, "ownerID", owner.ID, "error", err)
	}
	s.publish(ctx, EventRentalSettled, settlement)
	return true, nil
}

// resolveOwner finds the owner account by stored id, then by email. It
// returns nil, nil when neither matches.
func (s *rentalService) resolveOwner(ctx context.Context, rt *domain.Rental) (*domain.User, error) {
	if rt.OwnerID != nil {
		owner, err := s.userRepo.GetByID(ctx, *rt.OwnerID)
		if err == nil {
			return owner, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to load owner: %w", err)
		}
	}
	if rt.OwnerEmail == "" {
		return nil, nil
	}
	owner, err := s.userRepo.GetByEmail(ctx, rt.OwnerEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load owner by email: %w", err)
	}
	return owner, nil
}

func (s *rentalService) DeleteRental(ctx context.Context, actor *domain.User, rentalID int32) error {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return notFoundAs(err, ErrRentalNotFound)
	}
	if !actor.IsAdmin() {
		if rt.RenterID != actor.ID {
			return ErrForbidden
		}
		// Renters may only remove rentals that are not in flight.
		if rt.Status != domain.RentalStatusToPay && !rt.Status.IsTerminal() {
			return fmt.Errorf("%w: cannot remove a rental in status %s", ErrInvalidTransition, rt.Status)
		}
	}
	if err := s.rentalRepo.Delete(ctx, rentalID); err != nil {
		return notFoundAs(err, ErrRentalNotFound)
	}
	logger.Info("Rental deleted", "rentalID", rentalID, "actorID", actor.ID, "status", rt.Status)
	return nil
}

func (s *rentalService) GetRental(ctx context.Context, actor *domain.User, rentalID int32) (*domain.RentalView, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, notFoundAs(err, ErrRentalNotFound)
	}
	if !actor.IsAdmin() && rt.RenterID != actor.ID && !isRentalOwner(actor, rt) {
		return nil, ErrForbidden
	}
	view := domain.NewRentalView(*rt, time.Now())
	return &view, nil
}

func (s *rentalService) ListMyRentals(ctx context.Context, renter *domain.User, status string, page, pageSize int32) ([]domain.RentalView, int32, error) {
	rentals, count, err := s.rentalRepo.ListByRenter(ctx, renter.ID, status, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return views(rentals, time.Now()), count, nil
}

func (s *rentalService) ListLendings(ctx context.Context, owner *domain.User, status string, page, pageSize int32) ([]domain.RentalView, int32, error) {
	rentals, count, err := s.rentalRepo.ListByOwner(ctx, owner.ID, owner.Email, status, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return views(rentals, time.Now()), count, nil
}

func (s *rentalService) ListAllRentals(ctx context.Context, status string, page, pageSize int32) ([]domain.RentalView, int32, error) {
	rentals, count, err := s.rentalRepo.List(ctx, status, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return views(rentals, time.Now()), count, nil
}

func (s *rentalService) ListOverdue(ctx context.Context, now time.Time) ([]domain.RentalView, error) {
	rentals, err := s.rentalRepo.ListByStatus(ctx, domain.RentalStatusCompleted)
	if err != nil {
		return nil, err
	}
	var overdue []domain.RentalView
	for _, rt := range rentals {
		v := domain.NewRentalView(rt, now)
		if v.IsOverdue {
			overdue = append(overdue, v)
		}
	}
	return overdue, nil
}

func (s *rentalService) notifyStatusChange(ctx context.Context, rt *domain.Rental) {
	text := fmt.Sprintf("Your rental of %s is now %s.", rt.PropertyName, rt.Status)
	_, _ = s.messageSvc.SendSystemMessage(ctx, rt.RenterID, text, rentalAttrs(rt, "RENTAL_STATUS"))
	_ = s.emailSvc.SendRentalStatusUpdate(ctx, rt.RenterEmail, rt.RenterName, rt.PropertyName, rt.Status)

	if rt.OwnerID != nil && (rt.Status == domain.RentalStatusCancelled || rt.Status == domain.RentalStatusReturned) {
		ownerText := fmt.Sprintf("The rental of %s by %s is now %s.", rt.PropertyName, rt.RenterName, rt.Status)
		_, _ = s.messageSvc.SendSystemMessage(ctx, *rt.OwnerID, ownerText, rentalAttrs(rt, "RENTAL_STATUS"))
	}
}

// warnCreditKept logs an owner credit that stays on the ledger after its
// rental left Completed. Credits are never reversed automatically.
func (s *rentalService) warnCreditKept(ctx context.Context, rt *domain.Rental, previous domain.RentalStatus) {
	settlement, err := s.ledgerRepo.GetSettlement(ctx, rt.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error("Failed to look up settlement", "rentalID", rt.ID, "error", err)
		}
		return
	}
	logger.Warn("Rental left a settled status; owner credit is not reversed",
		"rentalID", rt.ID, "from", previous, "to", rt.Status,
		"ownerID", settlement.OwnerID, "creditedAmount", settlement.AmountCents)
}

func (s *rentalService) publish(ctx context.Context, eventType string, payload any) {
	if err := s.events.Publish(ctx, eventType, payload); err != nil {
		logger.Warn("Failed to publish event", "event", eventType, "error", err)
	}
}

// authorizeTransition enforces who may move a rental from its current status to target.
func authorizeTransition(actor *domain.User, rt *domain.Rental, target domain.RentalStatus) error {
	if !target.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}

	isRenter := rt.RenterID == actor.ID
	isOwner := isRentalOwner(actor, rt)
	if !actor.IsAdmin() && !isRenter && !isOwner {
		return ErrForbidden
	}

	if rt.Status == target {
		// Re-completing retries settlement.
		if target == domain.RentalStatusCompleted && (actor.IsAdmin() || isRenter) {
			return nil
		}
		return fmt.Errorf("%w: rental is already %s", ErrInvalidTransition, target)
	}
	if rt.Status.IsTerminal() {
		return fmt.Errorf("%w: rental is %s", ErrInvalidTransition, rt.Status)
	}
	if actor.IsAdmin() {
		return nil
	}

	if isRenter {
		switch {
		case target == domain.RentalStatusCancelled &&
			(rt.Status == domain.RentalStatusToPay || rt.Status == domain.RentalStatusToShip):
			return nil
		case target == domain.RentalStatusCompleted && rt.Status == domain.RentalStatusToReceive:
			return nil
		case target == domain.RentalStatusReturned && rt.Status == domain.RentalStatusCompleted:
			return nil
		}
	}
	if isOwner && target == domain.RentalStatusToDeliver && rt.Status == domain.RentalStatusToShip {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rt.Status, target)
}

func isRentalOwner(actor *domain.User, rt *domain.Rental) bool {
	if rt.OwnerID != nil {
		return *rt.OwnerID == actor.ID
	}
	return rt.OwnerEmail != "" && strings.EqualFold(rt.OwnerEmail, actor.Email)
}

func rentalAttrs(rt *domain.Rental, kind string) map[string]string {
	return map[string]string{
		"type":      kind,
		"rental_id": fmt.Sprintf("%d", rt.ID),
		"status":    string(rt.Status),
	}
}

func views(rentals []domain.Rental, now time.Time) []domain.RentalView {
	out := make([]domain.RentalView, 0, len(rentals))
	for _, rt := range rentals {
		out = append(out, domain.NewRentalView(rt, now))
	}
	return out
}
