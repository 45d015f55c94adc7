package domain

import "time"

const PaymentProviderGCash = "gcash"

type PaymentSettings struct {
	Provider      string    `json:"provider"`
	AccountName   string    `json:"account_name"`
	AccountNumber string    `json:"account_number"`
	QRImageURL    string    `json:"qr_image_url"`
	UpdatedBy     *int32    `json:"updated_by,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AdminSummary backs the admin dashboard counters.
type AdminSummary struct {
	UsersByRole            map[string]int32 `json:"users_by_role"`
	PropertiesByStatus     map[string]int32 `json:"properties_by_status"`
	RentalsByStatus        map[string]int32 `json:"rentals_by_status"`
	PendingWithdrawals     int32            `json:"pending_withdrawals"`
	PendingWithdrawalCents int64            `json:"pending_withdrawal_cents"`
	CommissionEarnedCents  int64            `json:"commission_earned_cents"`
}
