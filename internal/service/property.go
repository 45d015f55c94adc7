package service

import (
	"context"
	"strings"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

type propertyService struct {
	propertyRepo repository.PropertyRepository
}

func NewPropertyService(propertyRepo repository.PropertyRepository) PropertyService {
	return &propertyService{propertyRepo: propertyRepo}
}

func validateProperty(p *domain.Property) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalidInput("name is required")
	}
	if p.PriceCents <= 0 {
		return invalidInput("price must be positive")
	}
	return nil
}

func (s *propertyService) CreateProperty(ctx context.Context, owner *domain.User, p *domain.Property) error {
	if owner.Role != domain.UserRoleOwner && !owner.IsAdmin() {
		return ErrForbidden
	}
	if err := validateProperty(p); err != nil {
		return err
	}
	p.OwnerID = owner.ID
	p.OwnerEmail = owner.Email
	p.Status = domain.PropertyStatusPending
	p.RejectionReason = ""
	p.RemovedByAdmin = false
	if err := s.propertyRepo.Create(ctx, p); err != nil {
		return err
	}
	logger.Info("Listing created", "propertyID", p.ID, "ownerID", owner.ID)
	return nil
}

func (s *propertyService) UpdateProperty(ctx context.Context, actor *domain.User, update *domain.Property) (*domain.Property, error) {
	p, err := s.propertyRepo.GetByID(ctx, update.ID)
	if err != nil {
		return nil, notFoundAs(err, ErrPropertyNotFound)
	}
	if p.OwnerID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := validateProperty(update); err != nil {
		return nil, err
	}

	// Price or description edits go back through review.
	if update.PriceCents != p.PriceCents || update.Description != p.Description {
		p.Status = domain.PropertyStatusPending
		p.RejectionReason = ""
	}
	p.Name = update.Name
	p.Description = update.Description
	p.Location = update.Location
	p.ImageURL = update.ImageURL
	p.PriceCents = update.PriceCents

	if err := s.propertyRepo.Update(ctx, p); err != nil {
		return nil, notFoundAs(err, ErrPropertyNotFound)
	}
	return p, nil
}

func (s *propertyService) DeleteProperty(ctx context.Context, actor *domain.User, id int32) error {
	p, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return notFoundAs(err, ErrPropertyNotFound)
	}
	if p.OwnerID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}
	return notFoundAs(s.propertyRepo.Delete(ctx, id), ErrPropertyNotFound)
}

func (s *propertyService) GetProperty(ctx context.Context, actor *domain.User, id int32) (*domain.Property, error) {
	p, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrPropertyNotFound)
	}
	if p.Rentable() {
		return p, nil
	}
	if actor != nil && (actor.IsAdmin() || actor.ID == p.OwnerID) {
		return p, nil
	}
	return nil, ErrPropertyNotFound
}

func (s *propertyService) ListProperties(ctx context.Context, query string, page, pageSize int32) ([]domain.Property, int32, error) {
	return s.propertyRepo.ListPublic(ctx, strings.TrimSpace(query), page, pageSize)
}

func (s *propertyService) ListMyProperties(ctx context.Context, owner *domain.User) ([]domain.Property, error) {
	return s.propertyRepo.ListByOwner(ctx, owner.ID)
}
