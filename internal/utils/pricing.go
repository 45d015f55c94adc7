package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MinimumCommissionCents is the commission floor inside the service area (₱60).
const MinimumCommissionCents int64 = 6000

var (
	baseCommissionRate     = decimal.RequireFromString("0.15")
	outOfAreaSurchargeRate = decimal.RequireFromString("0.19")

	// serviceAreaProvinces are the provinces served without the delivery surcharge.
	serviceAreaProvinces = map[string]struct{}{
		"isabela":           {},
		"negros occidental": {},
	}
)

var (
	ErrInvalidRentalDays = errors.New("rental days must be at least 1")
	ErrInvalidPrice      = errors.New("price must not be negative")
)

// RentalQuote is the checkout price breakdown for a rental.
type RentalQuote struct {
	DailyRateCents   int64 `json:"daily_rate_cents"`
	RentalDays       int32 `json:"rental_days"`
	PriceCents       int64 `json:"price_cents"`
	ServiceFeeCents  int64 `json:"service_fee_cents"`
	DeliveryFeeCents int64 `json:"delivery_fee_cents"`
	TotalCents       int64 `json:"total_cents"`
	InServiceArea    bool  `json:"in_service_area"`
}

// InServiceArea reports whether the province is one of the served provinces.
func InServiceArea(province string) bool {
	_, ok := serviceAreaProvinces[strings.ToLower(strings.TrimSpace(province))]
	return ok
}

// Commission returns the platform commission for a listed price delivered to
// the given province, and the price plus that commission.
//
// The base rate is 15%. Deliveries outside the service area pay an extra 19%.
// Inside the service area the commission never drops below ₱60.
// Amounts are rounded half away from zero to the centavo.
func Commission(priceCents int64, province string) (commissionCents, totalCents int64) {
	rate := baseCommissionRate
	inArea := InServiceArea(province)
	if !inArea {
		rate = rate.Add(outOfAreaSurchargeRate)
	}

	commissionCents = decimal.NewFromInt(priceCents).Mul(rate).Round(0).IntPart()
	if inArea && commissionCents < MinimumCommissionCents {
		commissionCents = MinimumCommissionCents
	}
	return commissionCents, priceCents + commissionCents
}

// QuoteRental prices a rental of the given number of days.
func QuoteRental(dailyRateCents int64, rentalDays int32, province string, deliveryFeeCents int64) (RentalQuote, error) {
	if rentalDays < 1 {
		return RentalQuote{}, ErrInvalidRentalDays
	}
	if dailyRateCents < 0 || deliveryFeeCents < 0 {
		return RentalQuote{}, ErrInvalidPrice
	}

	price := dailyRateCents * int64(rentalDays)
	commission, subtotal := Commission(price, province)

	return RentalQuote{
		DailyRateCents:   dailyRateCents,
		RentalDays:       rentalDays,
		PriceCents:       price,
		ServiceFeeCents:  commission,
		DeliveryFeeCents: deliveryFeeCents,
		TotalCents:       subtotal + deliveryFeeCents,
		InServiceArea:    InServiceArea(province),
	}, nil
}

// FormatPesos renders an amount in centavos as a peso string, e.g. "₱1,150.00".
func FormatPesos(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	fixed := decimal.New(cents, -2).StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s₱%s.%s", sign, b.String(), frac)
}

// ParseDate converts a yyyy-mm-dd formatted string into a UTC date.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}
	return t, nil
}
