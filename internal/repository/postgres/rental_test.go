package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
	"renthub-backend/internal/repository/postgres"
)

var rentalCols = []string{
	"id", "property_id", "property_name", "property_image", "owner_id", "owner_email",
	"renter_id", "renter_email", "renter_name", "renter_phone",
	"street", "barangay", "city", "province", "zip_code",
	"payment_method", "payment_proof_url",
	"daily_rate_cents", "rental_days", "service_fee_cents", "delivery_fee_cents", "total_amount_cents",
	"status", "created_at", "date_rented", "completed_at", "returned_at", "cancelled_at", "overdue_notified_on", "updated_at",
}

func legacyRentalRow(rows *sqlmock.Rows, id int32, status domain.RentalStatus, created time.Time) *sqlmock.Rows {
	return rows.AddRow(id, 4, "Cabin", "https://cdn/cabin.jpg", nil, "Owner@RentHub.ph",
		2, "renter@renthub.ph", "Rita", "0917",
		"1 Rizal St", "Centro", "Ilagan", "Isabela", "3300",
		"GCASH", "",
		int64(50000), 2, int64(15000), int64(0), int64(115000),
		string(status), created, nil, nil, nil, nil, nil, created)
}

func TestRentalRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewRentalRepository(db)

	ownerID := int32(3)
	rt := &domain.Rental{
		PropertyID:       4,
		PropertyName:     "Cabin",
		OwnerID:          &ownerID,
		OwnerEmail:       "owner@renthub.ph",
		RenterID:         2,
		PaymentMethod:    domain.PaymentMethodCOD,
		DailyRateCents:   50000,
		RentalDays:       2,
		ServiceFeeCents:  15000,
		TotalAmountCents: 115000,
		Status:           domain.RentalStatusToPay,
	}

	mock.ExpectQuery("INSERT INTO rentals").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))

	err = repo.Create(context.Background(), rt)
	assert.NoError(t, err)
	assert.Equal(t, int32(21), rt.ID)
	assert.False(t, rt.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewRentalRepository(db)
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("LegacyRowWithoutOwnerID", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1").
			WithArgs(int32(21)).
			WillReturnRows(legacyRentalRow(sqlmock.NewRows(rentalCols), 21, domain.RentalStatusCompleted, created))

		rt, err := repo.GetByID(context.Background(), 21)
		require.NoError(t, err)
		assert.Nil(t, rt.OwnerID)
		assert.Equal(t, "Owner@RentHub.ph", rt.OwnerEmail)
		assert.Equal(t, "Isabela", rt.Address.Province)
		assert.Equal(t, domain.RentalStatusCompleted, rt.Status)
		assert.Nil(t, rt.DateRented)
		assert.Equal(t, int64(115000), rt.TotalAmountCents)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows(rentalCols))

		_, err := repo.GetByID(context.Background(), 99)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestRentalRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewRentalRepository(db)
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE rentals SET status").
		WithArgs(domain.RentalStatusCompleted, now, nil, nil, sqlmock.AnyArg(), int32(21)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE rentals SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateStatus(context.Background(), &domain.Rental{ID: 21, Status: domain.RentalStatusCompleted, CompletedAt: &now})
	assert.NoError(t, err)

	err = repo.UpdateStatus(context.Background(), &domain.Rental{ID: 22, Status: domain.RentalStatusCompleted})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRentalRepository_ListUnsettled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewRentalRepository(db)
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(rentalCols)
	legacyRentalRow(rows, 21, domain.RentalStatusCompleted, created)
	legacyRentalRow(rows, 22, domain.RentalStatusReturned, created)
	mock.ExpectQuery("r.completed_at IS NOT NULL\\s+AND NOT EXISTS \\(SELECT 1 FROM rental_settlements").
		WithArgs(domain.RentalStatusCompleted, domain.RentalStatusReturned, int32(50)).
		WillReturnRows(rows)

	rentals, err := repo.ListUnsettled(context.Background(), 50)
	require.NoError(t, err)
	assert.Len(t, rentals, 2)
	assert.Equal(t, domain.RentalStatusReturned, rentals[1].Status)
}

func TestRentalRepository_ListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewRentalRepository(db)
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM rentals WHERE \\(owner_id = \\$1 OR").
		WithArgs(int32(3), "owner@renthub.ph", "Completed").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM rentals WHERE \\(owner_id = \\$1 OR (.+) LIMIT \\$4 OFFSET \\$5").
		WithArgs(int32(3), "owner@renthub.ph", "Completed", int32(20), int32(0)).
		WillReturnRows(legacyRentalRow(sqlmock.NewRows(rentalCols), 21, domain.RentalStatusCompleted, created))

	rentals, count, err := repo.ListByOwner(context.Background(), 3, "owner@renthub.ph", "Completed", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), count)
	assert.Len(t, rentals, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
