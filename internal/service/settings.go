package service

import (
	"context"
	"strings"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
)

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) GetGCashSettings(ctx context.Context) (*domain.PaymentSettings, error) {
	settings, err := s.settingsRepo.GetPaymentSettings(ctx, domain.PaymentProviderGCash)
	if err != nil {
		return nil, notFoundAs(err, ErrSettingsNotFound)
	}
	return settings, nil
}

func (s *settingsService) UpdateGCashSettings(ctx context.Context, admin *domain.User, settings *domain.PaymentSettings) (*domain.PaymentSettings, error) {
	if !admin.IsAdmin() {
		return nil, ErrForbidden
	}
	settings.AccountName = strings.TrimSpace(settings.AccountName)
	settings.AccountNumber = strings.TrimSpace(settings.AccountNumber)
	if settings.AccountName == "" || settings.AccountNumber == "" {
		return nil, invalidInput("account name and number are required")
	}
	adminID := admin.ID
	settings.Provider = domain.PaymentProviderGCash
	settings.UpdatedBy = &adminID
	if err := s.settingsRepo.UpsertPaymentSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
