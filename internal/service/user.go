package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

type userService struct {
	userRepo        repository.UserRepository
	bootstrapAdmins map[string]bool
}

// NewUserService returns a UserService. Emails in bootstrapAdmins receive the
// admin role when their profile is first created.
func NewUserService(userRepo repository.UserRepository, bootstrapAdmins []string) UserService {
	admins := make(map[string]bool, len(bootstrapAdmins))
	for _, e := range bootstrapAdmins {
		admins[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &userService{userRepo: userRepo, bootstrapAdmins: admins}
}

func (s *userService) Authenticate(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	email := strings.TrimSpace(identity.Email)
	if email == "" {
		return nil, invalidInput("token carries no email")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		if !user.IsActive() {
			return nil, ErrAccountInactive
		}
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	role := domain.UserRoleRenter
	if identity.RequestedRole == domain.UserRoleOwner {
		role = domain.UserRoleOwner
	}
	if s.bootstrapAdmins[strings.ToLower(email)] {
		role = domain.UserRoleAdmin
	}

	user = &domain.User{
		Email:     email,
		Name:      identity.Name,
		AvatarURL: identity.Picture,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent first request.
		if existing, getErr := s.userRepo.GetByEmail(ctx, email); getErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	logger.Info("Registered new user", "userID", user.ID, "role", user.Role)
	return user, nil
}

func (s *userService) GetUserProfile(ctx context.Context, userID int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int32, name, phone, avatarURL string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	if strings.TrimSpace(name) == "" {
		return nil, invalidInput("name is required")
	}
	user.Name = strings.TrimSpace(name)
	user.Phone = strings.TrimSpace(phone)
	user.AvatarURL = avatarURL
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
