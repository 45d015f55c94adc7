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

const rentalColumns = `id, property_id, property_name, property_image, owner_id, owner_email,
	renter_id, renter_email, renter_name, renter_phone,
	street, barangay, city, province, zip_code,
	payment_method, payment_proof_url,
	daily_rate_cents, rental_days, service_fee_cents, delivery_fee_cents, total_amount_cents,
	status, created_at, date_rented, completed_at, returned_at, cancelled_at, overdue_notified_on, updated_at`

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var ownerID sql.NullInt32
	var dateRented, completedAt, returnedAt, cancelledAt, notifiedOn sql.NullTime
	err := row.Scan(&rt.ID, &rt.PropertyID, &rt.PropertyName, &rt.PropertyImage, &ownerID, &rt.OwnerEmail,
		&rt.RenterID, &rt.RenterEmail, &rt.RenterName, &rt.RenterPhone,
		&rt.Address.Street, &rt.Address.Barangay, &rt.Address.City, &rt.Address.Province, &rt.Address.ZipCode,
		&rt.PaymentMethod, &rt.PaymentProofURL,
		&rt.DailyRateCents, &rt.RentalDays, &rt.ServiceFeeCents, &rt.DeliveryFeeCents, &rt.TotalAmountCents,
		&rt.Status, &rt.CreatedAt, &dateRented, &completedAt, &returnedAt, &cancelledAt, &notifiedOn, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rt.OwnerID = nullInt32(ownerID)
	rt.DateRented = nullTime(dateRented)
	rt.CompletedAt = nullTime(completedAt)
	rt.ReturnedAt = nullTime(returnedAt)
	rt.CancelledAt = nullTime(cancelledAt)
	rt.OverdueNotifiedOn = nullTime(notifiedOn)
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	logger.DatabaseCall("INSERT", "rentals", "propertyID", rt.PropertyID, "renterID", rt.RenterID)
	query := `INSERT INTO rentals (property_id, property_name, property_image, owner_id, owner_email,
	              renter_id, renter_email, renter_name, renter_phone,
	              street, barangay, city, province, zip_code,
	              payment_method, payment_proof_url,
	              daily_rate_cents, rental_days, service_fee_cents, delivery_fee_cents, total_amount_cents,
	              status, created_at, date_rented, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
	          RETURNING id`
	now := time.Now().UTC()
	rt.CreatedAt = now
	rt.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, query, rt.PropertyID, rt.PropertyName, rt.PropertyImage, rt.OwnerID, rt.OwnerEmail,
		rt.RenterID, rt.RenterEmail, rt.RenterName, rt.RenterPhone,
		rt.Address.Street, rt.Address.Barangay, rt.Address.City, rt.Address.Province, rt.Address.ZipCode,
		rt.PaymentMethod, rt.PaymentProofURL,
		rt.DailyRateCents, rt.RentalDays, rt.ServiceFeeCents, rt.DeliveryFeeCents, rt.TotalAmountCents,
		rt.Status, rt.CreatedAt, rt.DateRented, rt.UpdatedAt).Scan(&rt.ID)
	logger.DatabaseResult("INSERT rentals", 1, err, "rentalID", rt.ID)
	return err
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return rt, nil
}

func (r *rentalRepository) UpdateStatus(ctx context.Context, rt *domain.Rental) error {
	logger.DatabaseCall("UPDATE", "rentals", "rentalID", rt.ID, "status", rt.Status)
	query := `UPDATE rentals SET status=$1, completed_at=$2, returned_at=$3, cancelled_at=$4, updated_at=$5 WHERE id=$6`
	rt.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, rt.Status, rt.CompletedAt, rt.ReturnedAt, rt.CancelledAt, rt.UpdatedAt, rt.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *rentalRepository) Delete(ctx context.Context, id int32) error {
	logger.DatabaseCall("DELETE", "rentals", "rentalID", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return r.listPage(ctx, ` FROM rentals WHERE renter_id = $1`, []any{renterID}, status, page, pageSize)
}

// ListByOwner also matches legacy rows that only carry the owner's email.
func (r *rentalRepository) ListByOwner(ctx context.Context, ownerID int32, ownerEmail, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	where := ` FROM rentals WHERE (owner_id = $1 OR (owner_id IS NULL AND LOWER(owner_email) = LOWER($2)))`
	return r.listPage(ctx, where, []any{ownerID, ownerEmail}, status, page, pageSize)
}

func (r *rentalRepository) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return r.listPage(ctx, ` FROM rentals WHERE 1=1`, []any{}, status, page, pageSize)
}

func (r *rentalRepository) listPage(ctx context.Context, where string, args []any, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	limit, offset := paginate(page, pageSize)
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*)`+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + rentalColumns + where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	rentals, err := collectRentals(rows)
	if err != nil {
		return nil, 0, err
	}
	return rentals, count, nil
}

func (r *rentalRepository) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE status = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

func (r *rentalRepository) ListUnsettled(ctx context.Context, limit int32) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals r
	          WHERE r.status IN ($1, $2)
	            AND r.completed_at IS NOT NULL
	            AND NOT EXISTS (SELECT 1 FROM rental_settlements s WHERE s.rental_id = r.id)
	          ORDER BY r.id LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusCompleted, domain.RentalStatusReturned, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

func (r *rentalRepository) MarkOverdueNotified(ctx context.Context, id int32, on time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE rentals SET overdue_notified_on = $1 WHERE id = $2`, on.Format("2006-01-02"), id)
	return err
}

func collectRentals(rows *sql.Rows) ([]domain.Rental, error) {
	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}
