package domain

import "time"

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

type Withdrawal struct {
	ID              int32            `json:"id"`
	OwnerID         int32            `json:"owner_id"`
	OwnerEmail      string           `json:"owner_email"`
	AmountCents     int64            `json:"amount_cents"`
	Method          string           `json:"method"`
	AccountName     string           `json:"account_name"`
	Phone           string           `json:"phone"`
	Status          WithdrawalStatus `json:"status"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	ProcessedBy     *int32           `json:"processed_by,omitempty"`
	ProcessedAt     *time.Time       `json:"processed_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
