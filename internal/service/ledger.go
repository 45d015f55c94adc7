package service

import (
	"context"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
)

type ledgerService struct {
	ledgerRepo repository.LedgerRepository
}

func NewLedgerService(ledgerRepo repository.LedgerRepository) LedgerService {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

func (s *ledgerService) GetBalance(ctx context.Context, ownerID int32) (int64, error) {
	return s.ledgerRepo.GetBalance(ctx, ownerID)
}

func (s *ledgerService) GetTransactions(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	return s.ledgerRepo.ListTransactions(ctx, ownerID, page, pageSize)
}

func (s *ledgerService) GetLedgerSummary(ctx context.Context, ownerID int32) (*domain.LedgerSummary, error) {
	return s.ledgerRepo.GetSummary(ctx, ownerID)
}
