package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackinn-backend/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestBuildOccupancyTable_MarksInclusiveDays(t *testing.T) {
	stays := []Stay{{
		GuestName:     "Ahmet Yılmaz",
		HotelName:     "Grand Hotel",
		PaymentStatus: models.PaymentPaid,
		CheckIn:       day(2024, 3, 1),
		CheckOut:      day(2024, 3, 3),
	}}

	table := BuildOccupancyTable(stays, ptr(day(2024, 3, 1)), ptr(day(2024, 3, 5)))

	// 5 gün sütunu: 01..05 Mart
	require.Len(t, table.Headers, table.DayColumns+5)
	assert.Equal(t, "01.03.2024", table.Headers[table.DayColumns])
	assert.Equal(t, "05.03.2024", table.Headers[len(table.Headers)-1])

	require.Len(t, table.Rows, 1)
	days := table.Rows[0][table.DayColumns:]
	// Giriş ve çıkış günleri dahil işaretlenir
	assert.Equal(t, []string{"✓", "✓", "✓", "", ""}, days)
}

func TestBuildOccupancyTable_RowOrderByCheckIn(t *testing.T) {
	// A1 ve A2 aynı gün giriş yapar; eşit tarihlerde geliş sırası korunur
	stays := []Stay{
		{GuestName: "C", CheckIn: day(2024, 3, 5), CheckOut: day(2024, 3, 6)},
		{GuestName: "A1", CheckIn: day(2024, 3, 1), CheckOut: day(2024, 3, 2)},
		{GuestName: "B", CheckIn: day(2024, 3, 3), CheckOut: day(2024, 3, 4)},
		{GuestName: "A2", CheckIn: day(2024, 3, 1), CheckOut: day(2024, 3, 3)},
	}

	table := BuildOccupancyTable(stays, nil, nil)

	require.Len(t, table.Rows, 4)
	assert.Equal(t, "A1", table.Rows[0][0])
	assert.Equal(t, "A2", table.Rows[1][0])
	assert.Equal(t, "B", table.Rows[2][0])
	assert.Equal(t, "C", table.Rows[3][0])
}

func TestBuildOccupancyTable_WindowFromData(t *testing.T) {
	stays := []Stay{
		{GuestName: "A", CheckIn: day(2024, 3, 2), CheckOut: day(2024, 3, 4)},
		{GuestName: "B", CheckIn: day(2024, 3, 1), CheckOut: day(2024, 3, 3)},
	}

	table := BuildOccupancyTable(stays, nil, nil)

	// Pencere veriden: en erken giriş 01.03, en geç çıkış 04.03
	assert.Equal(t, "01.03.2024", table.Headers[table.DayColumns])
	assert.Equal(t, "04.03.2024", table.Headers[len(table.Headers)-1])
}

func TestBuildOccupancyTable_FiltersOutsideWindow(t *testing.T) {
	stays := []Stay{
		{GuestName: "içeride", CheckIn: day(2024, 3, 4), CheckOut: day(2024, 3, 6)},
		{GuestName: "önce", CheckIn: day(2024, 2, 1), CheckOut: day(2024, 2, 28)},
		{GuestName: "sonra", CheckIn: day(2024, 4, 1), CheckOut: day(2024, 4, 3)},
		{GuestName: "sınırda", CheckIn: day(2024, 3, 10), CheckOut: day(2024, 3, 15)},
	}

	table := BuildOccupancyTable(stays, ptr(day(2024, 3, 1)), ptr(day(2024, 3, 10)))

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "içeride", table.Rows[0][0])
	// Çıkışı pencere dışına taşsa da girişi pencere içinde olan dahil edilir
	assert.Equal(t, "sınırda", table.Rows[1][0])
}

func TestBuildOccupancyTable_Empty(t *testing.T) {
	table := BuildOccupancyTable(nil, nil, nil)
	assert.Empty(t, table.Rows)
	assert.Len(t, table.Headers, table.DayColumns)
}

func TestBuildOccupancyTable_PaymentAndAmountColumns(t *testing.T) {
	stays := []Stay{{
		GuestName:      "Ahmet Yılmaz",
		CustomerName:   "Acenta A",
		TotalCost:      3000,
		TotalSellPrice: 3600,
		Profit:         600,
		ProfitPercent:  20,
		PaymentStatus:  models.PaymentPartiallyPaid,
		CheckIn:        day(2024, 3, 1),
		CheckOut:       day(2024, 3, 2),
	}}

	table := BuildOccupancyTable(stays, nil, nil)

	require.Len(t, table.Rows, 1)
	row := table.Rows[0]
	assert.Equal(t, "3000.00", row[4])
	assert.Equal(t, "3600.00", row[5])
	assert.Equal(t, "600.00", row[6])
	assert.Equal(t, "20.00%", row[7])
	assert.Equal(t, "Kısmi Ödendi", row[8])
}

func TestRenderExcel(t *testing.T) {
	stays := []Stay{{
		GuestName: "Ahmet Yılmaz",
		CheckIn:   day(2024, 3, 1),
		CheckOut:  day(2024, 3, 2),
	}}

	buf, err := RenderExcel(BuildOccupancyTable(stays, nil, nil))
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}
