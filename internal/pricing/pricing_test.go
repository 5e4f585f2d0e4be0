package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trackinn-backend/internal/pricing"
)

func TestQuoteFromMargin_ExampleScenario(t *testing.T) {
	// 1000 TL gecelik, 3 gece, %20 marj
	q := pricing.QuoteFromMargin(1000, 3, 0.2).Round()

	assert.Equal(t, 3000.0, q.TotalCost)
	assert.Equal(t, 1200.0, q.NightlySell)
	assert.Equal(t, 3600.0, q.TotalSell)
	assert.Equal(t, 600.0, q.Profit)
	assert.Equal(t, 20.0, q.ProfitPercent)
}

func TestQuoteFromNightlySell(t *testing.T) {
	tests := []struct {
		name          string
		nightlyCost   float64
		nights        int
		nightlySell   float64
		wantTotalSell float64
		wantProfit    float64
		wantPercent   float64
	}{
		{
			name:        "kar ile satış",
			nightlyCost: 500, nights: 4, nightlySell: 650,
			wantTotalSell: 2600, wantProfit: 600, wantPercent: 30,
		},
		{
			name:        "zararına satış negatif kar",
			nightlyCost: 1000, nights: 2, nightlySell: 900,
			wantTotalSell: 1800, wantProfit: -200, wantPercent: -10,
		},
		{
			name:        "maliyetine satış",
			nightlyCost: 750, nights: 3, nightlySell: 750,
			wantTotalSell: 2250, wantProfit: 0, wantPercent: 0,
		},
		{
			name:        "tek gece",
			nightlyCost: 1234.56, nights: 1, nightlySell: 1500,
			wantTotalSell: 1500, wantProfit: 265.44, wantPercent: 21.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := pricing.QuoteFromNightlySell(tt.nightlyCost, tt.nights, tt.nightlySell).Round()
			assert.Equal(t, tt.wantTotalSell, q.TotalSell)
			assert.Equal(t, tt.wantProfit, q.Profit)
			assert.InDelta(t, tt.wantPercent, q.ProfitPercent, 0.01)
		})
	}
}

func TestQuoteFromSell_CallerTotalWins(t *testing.T) {
	// Çağıran toplam satışı elle düzeltmişse o toplam esas alınır
	q := pricing.QuoteFromSell(1000, 3, 1200, 3500).Round()
	assert.Equal(t, 3500.0, q.TotalSell)
	assert.Equal(t, 500.0, q.Profit)

	// Toplam verilmemişse gecelikten türetilir
	q = pricing.QuoteFromSell(1000, 3, 1200, 0).Round()
	assert.Equal(t, 3600.0, q.TotalSell)
}

func TestQuote_ZeroCostGuard(t *testing.T) {
	// Toplam maliyet sıfırken kar oranı tanımsız, sıfır döner
	q := pricing.QuoteFromNightlySell(0, 3, 100).Round()
	assert.Equal(t, 0.0, q.TotalCost)
	assert.Equal(t, 300.0, q.Profit)
	assert.Equal(t, 0.0, q.ProfitPercent)

	q = pricing.QuoteFromNightlySell(1000, 0, 1200).Round()
	assert.Equal(t, 0.0, q.TotalCost)
	assert.Equal(t, 0.0, q.ProfitPercent)
}

func TestQuote_MarginProfitNonNegative(t *testing.T) {
	// margin >= 0 için profit = totalSell - totalCost >= 0 ve
	// profitPercent = 100 * profit / totalCost (0.01 tolerans içinde)
	margins := []float64{0, 0.05, 0.1, 0.2, 0.333, 0.5, 1, 2.5}
	for _, m := range margins {
		q := pricing.QuoteFromMargin(899.99, 7, m).Round()
		assert.GreaterOrEqual(t, q.Profit, 0.0, "margin %v", m)
		if q.TotalCost > 0 {
			assert.InDelta(t, 100*q.Profit/q.TotalCost, q.ProfitPercent, 0.01, "margin %v", m)
		}
	}
}

func TestQuote_RoundingOnlyAtRound(t *testing.T) {
	// 3 x 33.335: ara değer yuvarlanmaz, toplam 100.005 -> 100.01
	q := pricing.QuoteFromNightlySell(0, 3, 33.335)
	assert.Equal(t, "100.005", q.TotalSell.String())
	assert.Equal(t, 100.01, q.Round().TotalSell)
}
