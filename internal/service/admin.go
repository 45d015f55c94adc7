package service

import (
	"context"
	"fmt"
	"strings"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

type adminService struct {
	userRepo     repository.UserRepository
	propertyRepo repository.PropertyRepository
	settingsRepo repository.SettingsRepository
	messageSvc   MessageService
}

func NewAdminService(
	userRepo repository.UserRepository,
	propertyRepo repository.PropertyRepository,
	settingsRepo repository.SettingsRepository,
	messageSvc MessageService,
) AdminService {
	return &adminService{
		userRepo:     userRepo,
		propertyRepo: propertyRepo,
		settingsRepo: settingsRepo,
		messageSvc:   messageSvc,
	}
}

func (s *adminService) GetSummary(ctx context.Context) (*domain.AdminSummary, error) {
	return s.settingsRepo.GetAdminSummary(ctx)
}

func (s *adminService) ListUsers(ctx context.Context, role, query string, page, pageSize int32) ([]domain.User, int32, error) {
	return s.userRepo.List(ctx, role, strings.TrimSpace(query), page, pageSize)
}

func (s *adminService) BlockUser(ctx context.Context, admin *domain.User, userID int32, blocked bool) (*domain.User, error) {
	logger.EnterMethod("adminService.BlockUser", "adminID", admin.ID, "userID", userID, "blocked", blocked)
	if userID == admin.ID {
		return nil, invalidInput("admins cannot block themselves")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	user.Blocked = blocked
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	logger.ExitMethod("adminService.BlockUser", "userID", userID, "blocked", blocked)
	return user, nil
}

func (s *adminService) SetUserRole(ctx context.Context, admin *domain.User, userID int32, role domain.UserRole) (*domain.User, error) {
	if !role.Valid() {
		return nil, invalidInput("unknown role %q", role)
	}
	if userID == admin.ID && role != domain.UserRoleAdmin {
		return nil, invalidInput("admins cannot demote themselves")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	previous := user.Role
	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	logger.Info("User role changed", "userID", userID, "from", previous, "to", role, "adminID", admin.ID)
	return user, nil
}

func (s *adminService) DeleteUser(ctx context.Context, admin *domain.User, userID int32) error {
	if userID == admin.ID {
		return invalidInput("admins cannot delete themselves")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFoundAs(err, ErrUserNotFound)
	}
	// Soft delete keeps ledger and rental history intact.
	user.Deleted = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	logger.Info("User deleted", "userID", userID, "adminID", admin.ID)
	return nil
}

func (s *adminService) ListProperties(ctx context.Context, status string, page, pageSize int32) ([]domain.Property, int32, error) {
	return s.propertyRepo.List(ctx, status, page, pageSize)
}

func (s *adminService) ReviewProperty(ctx context.Context, admin *domain.User, propertyID int32, approve bool, reason string) (*domain.Property, error) {
	p, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, notFoundAs(err, ErrPropertyNotFound)
	}
	if approve {
		p.Status = domain.PropertyStatusApproved
		p.RejectionReason = ""
	} else {
		p.Status = domain.PropertyStatusRejected
		p.RejectionReason = strings.TrimSpace(reason)
	}
	if err := s.propertyRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	text := fmt.Sprintf("Your listing %s was %s.", p.Name, p.Status)
	if p.RejectionReason != "" {
		text += " Reason: " + p.RejectionReason
	}
	_, _ = s.messageSvc.SendSystemMessage(ctx, p.OwnerID, text, map[string]string{
		"type":        "PROPERTY_REVIEWED",
		"property_id": fmt.Sprintf("%d", p.ID),
		"status":      string(p.Status),
	})
	logger.Info("Listing reviewed", "propertyID", p.ID, "status", p.Status, "adminID", admin.ID)
	return p, nil
}

func (s *adminService) RemoveProperty(ctx context.Context, admin *domain.User, propertyID int32, removed bool) (*domain.Property, error) {
	p, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, notFoundAs(err, ErrPropertyNotFound)
	}
	p.RemovedByAdmin = removed
	if err := s.propertyRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	logger.Info("Listing visibility changed", "propertyID", p.ID, "removed", removed, "adminID", admin.ID)
	return p, nil
}
