package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommission(t *testing.T) {
	tests := []struct {
		name           string
		priceCents     int64
		province       string
		wantCommission int64
		wantTotal      int64
	}{
		{"service area base rate", 100000, "Isabela", 15000, 115000},
		{"outside service area adds surcharge", 100000, "Manila", 34000, 134000},
		{"service area floor", 10000, "Negros Occidental", 6000, 16000},
		{"province match ignores case and spaces", 100000, "  isabela ", 15000, 115000},
		{"no floor outside service area", 10000, "Cebu", 3400, 13400},
		{"rounds to the centavo", 333, "Isabela", 6000, 6333},
		{"rounds half away from zero", 25, "Manila", 9, 34},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commission, total := Commission(tt.priceCents, tt.province)
			assert.Equal(t, tt.wantCommission, commission)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestQuoteRental(t *testing.T) {
	t.Run("Valid quote", func(t *testing.T) {
		q, err := QuoteRental(50000, 2, "Isabela", 2500)
		assert.NoError(t, err)
		assert.Equal(t, int64(100000), q.PriceCents)
		assert.Equal(t, int64(15000), q.ServiceFeeCents)
		assert.Equal(t, int64(2500), q.DeliveryFeeCents)
		assert.Equal(t, int64(117500), q.TotalCents)
		assert.True(t, q.InServiceArea)
	})

	t.Run("Zero days", func(t *testing.T) {
		_, err := QuoteRental(50000, 0, "Isabela", 0)
		assert.ErrorIs(t, err, ErrInvalidRentalDays)
	})

	t.Run("Negative rate", func(t *testing.T) {
		_, err := QuoteRental(-1, 1, "Isabela", 0)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}

func TestFormatPesos(t *testing.T) {
	assert.Equal(t, "₱1,150.00", FormatPesos(115000))
	assert.Equal(t, "₱60.00", FormatPesos(6000))
	assert.Equal(t, "₱0.05", FormatPesos(5))
	assert.Equal(t, "₱1,234,567.89", FormatPesos(123456789))
	assert.Equal(t, "-₱700.00", FormatPesos(-70000))
}

func TestParseDate(t *testing.T) {
	t.Run("Valid date", func(t *testing.T) {
		d, err := ParseDate("2024-01-15")
		assert.NoError(t, err)
		assert.Equal(t, 2024, d.Year())
		assert.Equal(t, 15, d.Day())
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := ParseDate("2024/01/15")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid date format")
	})
}
