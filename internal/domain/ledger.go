package domain

import "time"

type TransactionType string

const (
	TransactionTypeEarningCredit    TransactionType = "EARNING_CREDIT"
	TransactionTypeWithdrawalDebit  TransactionType = "WITHDRAWAL_DEBIT"
	TransactionTypeWithdrawalRefund TransactionType = "WITHDRAWAL_REFUND"
	TransactionTypeAdjustment       TransactionType = "ADJUSTMENT"
)

type LedgerTransaction struct {
	ID                  int32           `json:"id"`
	OwnerID             int32           `json:"owner_id"`
	AmountCents         int64           `json:"amount_cents"` // positive for credit, negative for debit
	Type                TransactionType `json:"type"`
	RelatedRentalID     *int32          `json:"related_rental_id,omitempty"`
	RelatedWithdrawalID *int32          `json:"related_withdrawal_id,omitempty"`
	Description         string          `json:"description"`
	CreatedAt           time.Time       `json:"created_at"`
}

type LedgerSummary struct {
	BalanceCents        int64 `json:"balance_cents"`
	TotalEarnedCents    int64 `json:"total_earned_cents"`
	TotalWithdrawnCents int64 `json:"total_withdrawn_cents"`
	TotalRefundedCents  int64 `json:"total_refunded_cents"`
	SettledRentals      int32 `json:"settled_rentals"`
}

// RentalSettlement is the guard row proving a rental's earnings were credited.
type RentalSettlement struct {
	RentalID      int32     `json:"rental_id"`
	OwnerID       int32     `json:"owner_id"`
	AmountCents   int64     `json:"amount_cents"`
	TransactionID int32     `json:"transaction_id"`
	SettledAt     time.Time `json:"settled_at"`
}
