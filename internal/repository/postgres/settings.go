package postgres

import (
	"context"
	"database/sql"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetPaymentSettings(ctx context.Context, provider string) (*domain.PaymentSettings, error) {
	s := &domain.PaymentSettings{}
	var updatedBy sql.NullInt32
	err := r.db.QueryRowContext(ctx,
		`SELECT provider, account_name, account_number, qr_image_url, updated_by, updated_at FROM payment_settings WHERE provider = $1`,
		provider).Scan(&s.Provider, &s.AccountName, &s.AccountNumber, &s.QRImageURL, &updatedBy, &s.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	s.UpdatedBy = nullInt32(updatedBy)
	return s, nil
}

func (r *settingsRepository) UpsertPaymentSettings(ctx context.Context, s *domain.PaymentSettings) error {
	logger.DatabaseCall("UPSERT", "payment_settings", "provider", s.Provider)
	s.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payment_settings (provider, account_name, account_number, qr_image_url, updated_by, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (provider) DO UPDATE SET account_name = EXCLUDED.account_name, account_number = EXCLUDED.account_number,
		     qr_image_url = EXCLUDED.qr_image_url, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`,
		s.Provider, s.AccountName, s.AccountNumber, s.QRImageURL, s.UpdatedBy, s.UpdatedAt)
	return err
}

func (r *settingsRepository) GetAdminSummary(ctx context.Context) (*domain.AdminSummary, error) {
	summary := &domain.AdminSummary{
		UsersByRole:        make(map[string]int32),
		PropertiesByStatus: make(map[string]int32),
		RentalsByStatus:    make(map[string]int32),
	}

	groups := []struct {
		query string
		into  map[string]int32
	}{
		{`SELECT role, count(*) FROM users WHERE deleted = FALSE GROUP BY role`, summary.UsersByRole},
		{`SELECT status, count(*) FROM properties GROUP BY status`, summary.PropertiesByStatus},
		{`SELECT status, count(*) FROM rentals GROUP BY status`, summary.RentalsByStatus},
	}
	for _, g := range groups {
		if err := r.countInto(ctx, g.query, g.into); err != nil {
			return nil, err
		}
	}

	err := r.db.QueryRowContext(ctx,
		`SELECT count(*), COALESCE(SUM(amount_cents), 0) FROM withdrawals WHERE status = $1`,
		domain.WithdrawalStatusPending).Scan(&summary.PendingWithdrawals, &summary.PendingWithdrawalCents)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(service_fee_cents), 0) FROM rentals WHERE status IN ($1, $2)`,
		domain.RentalStatusCompleted, domain.RentalStatusReturned).Scan(&summary.CommissionEarnedCents)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *settingsRepository) countInto(ctx context.Context, query string, into map[string]int32) error {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var count int32
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		into[key] = count
	}
	return rows.Err()
}
