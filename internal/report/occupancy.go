package report

import (
	"sort"
	"strconv"
	"time"

	"trackinn-backend/internal/models"
)

// Stay - Puantaj tablosuna giren tek konaklama satırı. Alış ve satış
// kayıtlarının ortak alt kümesi; satış tarafında satış alanları dolu gelir.
type Stay struct {
	GuestName      string
	Title          string
	HotelName      string
	CustomerName   string
	TotalCost      float64
	TotalSellPrice float64
	Profit         float64
	ProfitPercent  float64
	PaymentStatus  models.PaymentStatus
	CheckIn        time.Time
	CheckOut       time.Time
}

// Table - Başlık satırı ve hücre değerleriyle düz tablo. Excel'e veya
// başka bir çıktıya çevrilmeye hazırdır.
type Table struct {
	Headers []string
	Rows    [][]string
	// DayColumns - Gün hücrelerinin başladığı sütun indeksi
	DayColumns int
}

const dateLayout = "02.01.2006"

// BuildOccupancyTable - Konaklamaları gün bazında işaretlenmiş puantaj
// tablosuna çevirir. Pencere sınırları verilmemişse verideki en erken giriş
// ve en geç çıkış tarihinden türetilir. Giriş ve çıkış günleri dahil olmak
// üzere her konaklama günü işaretlenir.
func BuildOccupancyTable(stays []Stay, from, to *time.Time) Table {
	start, end, ok := resolveWindow(stays, from, to)
	if !ok {
		return Table{Headers: baseHeaders(), DayColumns: len(baseHeaders())}
	}

	// Pencereyle kesişmeyen konaklamalar elenir; giriş günü penceresi
	// bitiminden sonra veya çıkış günü pencere başından önce olanlar
	var included []Stay
	for _, s := range stays {
		if dayOf(s.CheckIn).After(end) || dayOf(s.CheckOut).Before(start) {
			continue
		}
		included = append(included, s)
	}

	sort.SliceStable(included, func(i, j int) bool {
		return included[i].CheckIn.Before(included[j].CheckIn)
	})

	headers := baseHeaders()
	dayStart := len(headers)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		headers = append(headers, d.Format(dateLayout))
	}

	rows := make([][]string, 0, len(included))
	for _, s := range included {
		row := make([]string, 0, len(headers))
		row = append(row,
			s.GuestName,
			s.Title,
			s.HotelName,
			s.CustomerName,
			formatAmount(s.TotalCost),
			formatAmount(s.TotalSellPrice),
			formatAmount(s.Profit),
			formatPercent(s.ProfitPercent),
			paymentLabel(s.PaymentStatus),
			s.CheckIn.Format(dateLayout),
			s.CheckOut.Format(dateLayout),
		)

		in, out := dayOf(s.CheckIn), dayOf(s.CheckOut)
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if !d.Before(in) && !d.After(out) {
				row = append(row, "✓")
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}

	return Table{Headers: headers, Rows: rows, DayColumns: dayStart}
}

func baseHeaders() []string {
	return []string{
		"Misafir", "Ünvan", "Otel", "Müşteri",
		"Maliyet", "Satış Tutarı", "Kâr", "Kâr %",
		"Ödeme Durumu", "Giriş", "Çıkış",
	}
}

// resolveWindow - Eksik pencere sınırlarını verideki uç tarihlerle doldurur.
// Veri de pencere de boşsa tablo kurulamaz.
func resolveWindow(stays []Stay, from, to *time.Time) (time.Time, time.Time, bool) {
	var start, end time.Time
	if from != nil {
		start = dayOf(*from)
	}
	if to != nil {
		end = dayOf(*to)
	}

	if start.IsZero() || end.IsZero() {
		for _, s := range stays {
			in, out := dayOf(s.CheckIn), dayOf(s.CheckOut)
			if from == nil && (start.IsZero() || in.Before(start)) {
				start = in
			}
			if to == nil && (end.IsZero() || out.After(end)) {
				end = out
			}
		}
	}
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

func paymentLabel(s models.PaymentStatus) string {
	switch s {
	case models.PaymentPaid:
		return "Ödendi"
	case models.PaymentPartiallyPaid:
		return "Kısmi Ödendi"
	case models.PaymentUnpaid:
		return "Ödenmedi"
	}
	return ""
}
