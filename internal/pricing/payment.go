package pricing

import (
	"github.com/shopspring/decimal"

	"trackinn-backend/internal/models"
)

// DerivePayment - Ödeme durumunu (ödenen, toplam) ikilisinden türetir:
//
//	paid <= 0          -> UNPAID
//	0 < paid < total   -> PARTIALLY_PAID
//	paid >= total      -> PAID
//
// Kalan tutar max(total - paid, 0) olarak 2 haneye yuvarlanır. Durum tek
// başına bağımsız bir doğruluk kaynağı değildir: ödenen veya toplam tutarı
// değiştiren her yazma yolu durumu ve kalanı birlikte yeniden hesaplayıp
// kaydetmek zorundadır. (Hızlı durum değiştirme endpoint'i bilinçli bir
// istisnadır, bkz. sales paketi.)
func DerivePayment(paid, total float64) (models.PaymentStatus, float64) {
	p := decimal.NewFromFloat(paid)
	t := decimal.NewFromFloat(total)

	remaining := t.Sub(p)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	var status models.PaymentStatus
	switch {
	case p.LessThanOrEqual(decimal.Zero):
		status = models.PaymentUnpaid
	case p.GreaterThanOrEqual(t):
		status = models.PaymentPaid
	default:
		status = models.PaymentPartiallyPaid
	}

	return status, remaining.Round(2).InexactFloat64()
}
