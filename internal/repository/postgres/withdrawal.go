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

const withdrawalColumns = `id, owner_id, owner_email, amount_cents, method, account_name, phone, status, rejection_reason, processed_by, processed_at, created_at, updated_at`

type withdrawalRepository struct {
	db *sql.DB
}

func NewWithdrawalRepository(db *sql.DB) repository.WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func scanWithdrawal(row rowScanner) (*domain.Withdrawal, error) {
	w := &domain.Withdrawal{}
	var processedBy sql.NullInt32
	var processedAt sql.NullTime
	err := row.Scan(&w.ID, &w.OwnerID, &w.OwnerEmail, &w.AmountCents, &w.Method, &w.AccountName, &w.Phone,
		&w.Status, &w.RejectionReason, &processedBy, &processedAt, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	w.ProcessedBy = nullInt32(processedBy)
	w.ProcessedAt = nullTime(processedAt)
	return w, nil
}

func (r *withdrawalRepository) CreateWithDebit(ctx context.Context, w *domain.Withdrawal, minimumCents int64) error {
	logger.DatabaseCall("INSERT", "withdrawals", "ownerID", w.OwnerID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin withdrawal: %w", err)
	}
	defer tx.Rollback()

	// Serialises withdrawals of the same owner.
	var lockedID int32
	if err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, w.OwnerID).Scan(&lockedID); err != nil {
		return translate(err)
	}

	balance, err := balanceOf(ctx, tx, w.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to read balance: %w", err)
	}
	if balance <= 0 || balance < minimumCents {
		return repository.ErrInsufficientBalance
	}

	now := time.Now().UTC()
	w.AmountCents = balance
	w.Status = domain.WithdrawalStatusPending
	w.CreatedAt = now
	w.UpdatedAt = now
	err = tx.QueryRowContext(ctx,
		`INSERT INTO withdrawals (owner_id, owner_email, amount_cents, method, account_name, phone, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		w.OwnerID, w.OwnerEmail, w.AmountCents, w.Method, w.AccountName, w.Phone, w.Status, w.CreatedAt, w.UpdatedAt).Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("failed to insert withdrawal: %w", err)
	}

	withdrawalID := w.ID
	debit := &domain.LedgerTransaction{
		OwnerID:             w.OwnerID,
		AmountCents:         -balance,
		Type:                domain.TransactionTypeWithdrawalDebit,
		RelatedWithdrawalID: &withdrawalID,
		Description:         fmt.Sprintf("Withdrawal #%d via %s", w.ID, w.Method),
		CreatedAt:           now,
	}
	if err := insertLedgerTransaction(ctx, tx, debit); err != nil {
		return fmt.Errorf("failed to insert withdrawal debit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withdrawal: %w", err)
	}
	logger.DatabaseResult("INSERT withdrawals", 1, nil, "withdrawalID", w.ID, "amount", w.AmountCents)
	return nil
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id int32) (*domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE id = $1`
	w, err := scanWithdrawal(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return w, nil
}

func (r *withdrawalRepository) Process(ctx context.Context, w *domain.Withdrawal, refund *domain.LedgerTransaction) error {
	logger.DatabaseCall("UPDATE", "withdrawals", "withdrawalID", w.ID, "status", w.Status)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin withdrawal decision: %w", err)
	}
	defer tx.Rollback()

	w.UpdatedAt = time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`UPDATE withdrawals SET status=$1, rejection_reason=$2, processed_by=$3, processed_at=$4, updated_at=$5
		 WHERE id=$6 AND status=$7`,
		w.Status, w.RejectionReason, w.ProcessedBy, w.ProcessedAt, w.UpdatedAt, w.ID, domain.WithdrawalStatusPending)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return repository.ErrAlreadyProcessed
	}

	if refund != nil {
		if err := insertLedgerTransaction(ctx, tx, refund); err != nil {
			return fmt.Errorf("failed to insert withdrawal refund: %w", err)
		}
	}

	return tx.Commit()
}

func (r *withdrawalRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWithdrawals(rows)
}

func (r *withdrawalRepository) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Withdrawal, int32, error) {
	limit, offset := paginate(page, pageSize)
	where := ` FROM withdrawals WHERE 1=1`
	args := []any{}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*)`+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + withdrawalColumns + where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	ws, err := collectWithdrawals(rows)
	if err != nil {
		return nil, 0, err
	}
	return ws, count, nil
}

func collectWithdrawals(rows *sql.Rows) ([]domain.Withdrawal, error) {
	var ws []domain.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		ws = append(ws, *w)
	}
	return ws, rows.Err()
}
