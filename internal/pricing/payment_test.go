package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trackinn-backend/internal/models"
	"trackinn-backend/internal/pricing"
)

func TestDerivePayment(t *testing.T) {
	tests := []struct {
		name          string
		paid          float64
		total         float64
		wantStatus    models.PaymentStatus
		wantRemaining float64
	}{
		{"hiç ödeme yok", 0, 3600, models.PaymentUnpaid, 3600},
		{"negatif ödeme", -50, 3600, models.PaymentUnpaid, 3650},
		{"kısmi ödeme", 1000, 3600, models.PaymentPartiallyPaid, 2600},
		{"bir kuruş eksik", 3599.99, 3600, models.PaymentPartiallyPaid, 0.01},
		{"tam ödeme", 3600, 3600, models.PaymentPaid, 0},
		{"fazla ödeme kalanı sıfıra kırpar", 4000, 3600, models.PaymentPaid, 0},
		{"kuruşlu kısmi", 1234.56, 2000.10, models.PaymentPartiallyPaid, 765.54},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, remaining := pricing.DerivePayment(tt.paid, tt.total)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantRemaining, remaining)
		})
	}
}

func TestDerivePayment_ExampleScenario(t *testing.T) {
	// Örnek senaryo: toplam satış 3600, peşin tahsil edildi
	status, remaining := pricing.DerivePayment(3600, 3600)
	assert.Equal(t, models.PaymentPaid, status)
	assert.Equal(t, 0.0, remaining)
}
