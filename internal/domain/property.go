package domain

import "time"

type PropertyStatus string

const (
	PropertyStatusPending  PropertyStatus = "pending"
	PropertyStatusApproved PropertyStatus = "approved"
	PropertyStatusRejected PropertyStatus = "rejected"
)

type Property struct {
	ID              int32          `json:"id"`
	OwnerID         int32          `json:"owner_id"`
	OwnerEmail      string         `json:"owner_email"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Location        string         `json:"location"`
	ImageURL        string         `json:"image_url"`
	PriceCents      int64          `json:"price_cents"` // daily rate
	Status          PropertyStatus `json:"status"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	RemovedByAdmin  bool           `json:"removed_by_admin"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Rentable reports whether renters may check out this listing.
func (p *Property) Rentable() bool {
	return p.Status == PropertyStatusApproved && !p.RemovedByAdmin
}
