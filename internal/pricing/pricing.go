package pricing

import "github.com/shopspring/decimal"

// Quote - Bir alış kaydından hesaplanan satış tarafı rakamları. Ara değerler
// yuvarlanmadan tutulur; yuvarlama hatası birikmesin diye 2 haneye yuvarlama
// sadece kayıt anında, Round() ile yapılır. Saf hesaplamadır, commit öncesi
// önizleme için de kullanılır.
type Quote struct {
	NightlyCost   decimal.Decimal
	TotalCost     decimal.Decimal
	NightlySell   decimal.Decimal
	TotalSell     decimal.Decimal
	Profit        decimal.Decimal
	ProfitPercent decimal.Decimal
}

// RoundedQuote - Kayıt anında persist edilecek, 2 haneye yuvarlanmış değerler.
type RoundedQuote struct {
	NightlyCost   float64
	TotalCost     float64
	NightlySell   float64
	TotalSell     float64
	Profit        float64
	ProfitPercent float64
}

var hundred = decimal.NewFromInt(100)

// QuoteFromNightlySell - Gecelik satış fiyatı verilen hesap.
// totalSell = nightlySell x nights.
func QuoteFromNightlySell(nightlyCost float64, nights int, nightlySell float64) Quote {
	sell := decimal.NewFromFloat(nightlySell)
	return buildQuote(nightlyCost, nights, sell, sell.Mul(decimal.NewFromInt(int64(nights))))
}

// QuoteFromSell - Gecelik ve toplam satış fiyatının ikisi de çağıran
// tarafından verildiğinde (ör. önizleme modalında toplam elle düzeltilmişse)
// kullanılır. totalSell <= 0 ise gecelikten türetilir.
func QuoteFromSell(nightlyCost float64, nights int, nightlySell, totalSell float64) Quote {
	if totalSell <= 0 {
		return QuoteFromNightlySell(nightlyCost, nights, nightlySell)
	}
	return buildQuote(nightlyCost, nights, decimal.NewFromFloat(nightlySell), decimal.NewFromFloat(totalSell))
}

// QuoteFromMargin - Kar marjı oranı verilen hesap.
// nightlySell = nightlyCost x (1 + margin).
func QuoteFromMargin(nightlyCost float64, nights int, margin float64) Quote {
	sell := decimal.NewFromFloat(nightlyCost).Mul(decimal.NewFromFloat(1).Add(decimal.NewFromFloat(margin)))
	return buildQuote(nightlyCost, nights, sell, sell.Mul(decimal.NewFromInt(int64(nights))))
}

func buildQuote(nightlyCost float64, nights int, nightlySell, totalSell decimal.Decimal) Quote {
	cost := decimal.NewFromFloat(nightlyCost)
	totalCost := cost.Mul(decimal.NewFromInt(int64(nights)))
	profit := totalSell.Sub(totalCost)

	// totalCost sıfırken kar oranı tanımsız, sıfır kabul edilir
	profitPercent := decimal.Zero
	if !totalCost.IsZero() {
		profitPercent = profit.Div(totalCost).Mul(hundred)
	}

	return Quote{
		NightlyCost:   cost,
		TotalCost:     totalCost,
		NightlySell:   nightlySell,
		TotalSell:     totalSell,
		Profit:        profit,
		ProfitPercent: profitPercent,
	}
}

// TotalCost - Gecelik ücretten toplam alış maliyeti, 2 haneye yuvarlanmış.
func TotalCost(nightlyCost float64, nights int) float64 {
	return decimal.NewFromFloat(nightlyCost).
		Mul(decimal.NewFromInt(int64(nights))).
		Round(2).InexactFloat64()
}

// Round - Parasal değerleri 2 haneye yuvarlar. Persist edilecek tek biçim budur.
func (q Quote) Round() RoundedQuote {
	return RoundedQuote{
		NightlyCost:   q.NightlyCost.Round(2).InexactFloat64(),
		TotalCost:     q.TotalCost.Round(2).InexactFloat64(),
		NightlySell:   q.NightlySell.Round(2).InexactFloat64(),
		TotalSell:     q.TotalSell.Round(2).InexactFloat64(),
		Profit:        q.Profit.Round(2).InexactFloat64(),
		ProfitPercent: q.ProfitPercent.Round(2).InexactFloat64(),
	}
}
