package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

const ledgerColumns = `id, owner_id, amount_cents, type, related_rental_id, related_withdrawal_id, description, created_at`

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

// execQuerier is satisfied by *sql.DB and *sql.Tx.
type execQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertLedgerTransaction(ctx context.Context, q execQuerier, tx *domain.LedgerTransaction) error {
	query := `INSERT INTO ledger_transactions (owner_id, amount_cents, type, related_rental_id, related_withdrawal_id, description, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	return q.QueryRowContext(ctx, query, tx.OwnerID, tx.AmountCents, tx.Type, tx.RelatedRentalID, tx.RelatedWithdrawalID, tx.Description, tx.CreatedAt).Scan(&tx.ID)
}

func balanceOf(ctx context.Context, q execQuerier, ownerID int32) (int64, error) {
	var balance int64
	err := q.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount_cents), 0) FROM ledger_transactions WHERE owner_id = $1`, ownerID).Scan(&balance)
	return balance, err
}

func (r *ledgerRepository) CreateTransaction(ctx context.Context, tx *domain.LedgerTransaction) error {
	logger.DatabaseCall("INSERT", "ledger_transactions", "ownerID", tx.OwnerID, "type", tx.Type, "amount", tx.AmountCents)
	err := insertLedgerTransaction(ctx, r.db, tx)
	logger.DatabaseResult("INSERT ledger_transactions", 1, err, "transactionID", tx.ID)
	return err
}

func (r *ledgerRepository) GetBalance(ctx context.Context, ownerID int32) (int64, error) {
	return balanceOf(ctx, r.db, ownerID)
}

func (r *ledgerRepository) ListTransactions(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	limit, offset := paginate(page, pageSize)

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM ledger_transactions WHERE owner_id = $1`, ownerID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + ledgerColumns + ` FROM ledger_transactions WHERE owner_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.LedgerTransaction
	for rows.Next() {
		var tx domain.LedgerTransaction
		var rentalID, withdrawalID sql.NullInt32
		if err := rows.Scan(&tx.ID, &tx.OwnerID, &tx.AmountCents, &tx.Type, &rentalID, &withdrawalID, &tx.Description, &tx.CreatedAt); err != nil {
			return nil, 0, err
		}
		tx.RelatedRentalID = nullInt32(rentalID)
		tx.RelatedWithdrawalID = nullInt32(withdrawalID)
		txs = append(txs, tx)
	}
	return txs, count, rows.Err()
}

func (r *ledgerRepository) GetSummary(ctx context.Context, ownerID int32) (*domain.LedgerSummary, error) {
	summary := &domain.LedgerSummary{}

	query := `SELECT
	              COALESCE(SUM(amount_cents), 0),
	              COALESCE(SUM(amount_cents) FILTER (WHERE type = $2), 0),
	              COALESCE(-SUM(amount_cents) FILTER (WHERE type = $3), 0),
	              COALESCE(SUM(amount_cents) FILTER (WHERE type = $4), 0)
	          FROM ledger_transactions WHERE owner_id = $1`
	err := r.db.QueryRowContext(ctx, query, ownerID,
		domain.TransactionTypeEarningCredit, domain.TransactionTypeWithdrawalDebit, domain.TransactionTypeWithdrawalRefund,
	).Scan(&summary.BalanceCents, &summary.TotalEarnedCents, &summary.TotalWithdrawnCents, &summary.TotalRefundedCents)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `SELECT count(*) FROM rental_settlements WHERE owner_id = $1`, ownerID).Scan(&summary.SettledRentals)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *ledgerRepository) SettleRental(ctx context.Context, s *domain.RentalSettlement, description string) (bool, error) {
	logger.DatabaseCall("SETTLE", "rental_settlements", "rentalID", s.RentalID, "ownerID", s.OwnerID, "amount", s.AmountCents)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin settlement: %w", err)
	}
	defer tx.Rollback()

	if s.SettledAt.IsZero() {
		s.SettledAt = time.Now().UTC()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO rental_settlements (rental_id, owner_id, amount_cents, settled_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (rental_id) DO NOTHING`,
		s.RentalID, s.OwnerID, s.AmountCents, s.SettledAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert settlement guard: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, err
	} else if n == 0 {
		logger.DatabaseResult("SETTLE rental_settlements", 0, nil, "rentalID", s.RentalID, "alreadySettled", true)
		return false, nil
	}

	rentalID := s.RentalID
	credit := &domain.LedgerTransaction{
		OwnerID:         s.OwnerID,
		AmountCents:     s.AmountCents,
		Type:            domain.TransactionTypeEarningCredit,
		RelatedRentalID: &rentalID,
		Description:     description,
		CreatedAt:       s.SettledAt,
	}
	if err := insertLedgerTransaction(ctx, tx, credit); err != nil {
		return false, fmt.Errorf("failed to insert earning credit: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE rental_settlements SET transaction_id = $1 WHERE rental_id = $2`, credit.ID, s.RentalID); err != nil {
		return false, fmt.Errorf("failed to link settlement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit settlement: %w", err)
	}
	s.TransactionID = credit.ID
	logger.DatabaseResult("SETTLE rental_settlements", 1, nil, "rentalID", s.RentalID, "transactionID", credit.ID)
	return true, nil
}

func (r *ledgerRepository) GetSettlement(ctx context.Context, rentalID int32) (*domain.RentalSettlement, error) {
	s := &domain.RentalSettlement{}
	var txID sql.NullInt32
	err := r.db.QueryRowContext(ctx,
		`SELECT rental_id, owner_id, amount_cents, transaction_id, settled_at FROM rental_settlements WHERE rental_id = $1`,
		rentalID).Scan(&s.RentalID, &s.OwnerID, &s.AmountCents, &txID, &s.SettledAt)
	if err != nil {
		return nil, translate(err)
	}
	s.TransactionID = txID.Int32
	return s, nil
}
