package domain

import (
	"math"
	"time"
)

type RentalStatus string

const (
	RentalStatusToPay     RentalStatus = "To Pay"
	RentalStatusToShip    RentalStatus = "To Ship"
	RentalStatusToDeliver RentalStatus = "To Deliver"
	RentalStatusToReceive RentalStatus = "To Receive"
	RentalStatusCompleted RentalStatus = "Completed"
	RentalStatusReturned  RentalStatus = "Returned"
	RentalStatusCancelled RentalStatus = "Cancelled"
)

// Valid reports whether s is one of the known rental statuses.
func (s RentalStatus) Valid() bool {
	switch s {
	case RentalStatusToPay, RentalStatusToShip, RentalStatusToDeliver, RentalStatusToReceive,
		RentalStatusCompleted, RentalStatusReturned, RentalStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed out of s.
func (s RentalStatus) IsTerminal() bool {
	return s == RentalStatusReturned || s == RentalStatusCancelled
}

// Settles reports whether a rental in status s has earned its owner a credit.
func (s RentalStatus) Settles() bool {
	return s == RentalStatusCompleted || s == RentalStatusReturned
}

type PaymentMethod string

const (
	PaymentMethodGCash PaymentMethod = "GCASH"
	PaymentMethodCOD   PaymentMethod = "COD"
)

type Address struct {
	Street   string `json:"street"`
	Barangay string `json:"barangay"`
	City     string `json:"city"`
	Province string `json:"province"`
	ZipCode  string `json:"zip_code"`
}

type Rental struct {
	ID            int32  `json:"id"`
	PropertyID    int32  `json:"property_id"`
	PropertyName  string `json:"property_name"`
	PropertyImage string `json:"property_image"`
	// OwnerID is nil on rows imported from the legacy store; settlement then
	// falls back to OwnerEmail.
	OwnerID         *int32        `json:"owner_id,omitempty"`
	OwnerEmail      string        `json:"owner_email"`
	RenterID        int32         `json:"renter_id"`
	RenterEmail     string        `json:"renter_email"`
	RenterName      string        `json:"renter_name"`
	RenterPhone     string        `json:"renter_phone"`
	Address         Address       `json:"address"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	PaymentProofURL string        `json:"payment_proof_url,omitempty"`
	// Price snapshot, captured at checkout.
	DailyRateCents    int64        `json:"daily_rate_cents"`
	RentalDays        int32        `json:"rental_days"`
	ServiceFeeCents   int64        `json:"service_fee_cents"`
	DeliveryFeeCents  int64        `json:"delivery_fee_cents"`
	TotalAmountCents  int64        `json:"total_amount_cents"`
	Status            RentalStatus `json:"status"`
	CreatedAt         time.Time    `json:"created_at"`
	DateRented        *time.Time   `json:"date_rented,omitempty"`
	CompletedAt       *time.Time   `json:"completed_at,omitempty"`
	ReturnedAt        *time.Time   `json:"returned_at,omitempty"`
	CancelledAt       *time.Time   `json:"cancelled_at,omitempty"`
	OverdueNotifiedOn *time.Time   `json:"-"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// StartDate is the date the rental period starts counting from.
func (r *Rental) StartDate() time.Time {
	if r.DateRented != nil && !r.DateRented.IsZero() {
		return *r.DateRented
	}
	return r.CreatedAt
}

// DueDate is the start date plus the rented number of days.
func (r *Rental) DueDate() time.Time {
	return r.StartDate().Add(time.Duration(r.RentalDays) * 24 * time.Hour)
}

type OverdueStatus struct {
	DueDate     time.Time `json:"due_date"`
	IsOverdue   bool      `json:"is_overdue"`
	DaysOverdue int       `json:"days_overdue"`
}

// Overdue derives the overdue view of the rental at now. Only rentals that
// are Completed (item in the renter's hands) can be overdue.
func (r *Rental) Overdue(now time.Time) OverdueStatus {
	due := r.DueDate()
	st := OverdueStatus{DueDate: due}
	if r.Status != RentalStatusCompleted || !now.After(due) {
		return st
	}
	days := int(math.Ceil(now.Sub(due).Hours() / 24))
	if days < 0 {
		days = 0
	}
	st.IsOverdue = true
	st.DaysOverdue = days
	return st
}

// RentalView is a rental together with its derived overdue fields.
type RentalView struct {
	Rental
	OverdueStatus
}

func NewRentalView(r Rental, now time.Time) RentalView {
	return RentalView{Rental: r, OverdueStatus: r.Overdue(now)}
}
