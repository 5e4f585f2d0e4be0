package transfer_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trackinn-backend/internal/database"
	"trackinn-backend/internal/models"
	"trackinn-backend/internal/transfer"
)

func newTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newCompany(t *testing.T, db *gorm.DB, plan models.CompanyPlan) models.Company {
	company := models.Company{Name: "Test Turizm", Plan: plan}
	require.NoError(t, db.Create(&company).Error)
	return company
}

func newAccommodation(t *testing.T, db *gorm.DB, companyID uint, nightlyCost float64, nights int) models.Accommodation {
	checkIn := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	acc := models.Accommodation{
		CompanyID:    companyID,
		GuestName:    "Ahmet Yılmaz",
		Title:        "Bay",
		Country:      "Türkiye",
		City:         "Antalya",
		CheckInDate:  checkIn,
		CheckOutDate: checkIn.AddDate(0, 0, nights),
		Nights:       nights,
		RoomType:     "Standart",
		BoardType:    "Yarım Pansiyon",
		HotelName:    "Grand Hotel Antalya",
		NightlyCost:  nightlyCost,
		TotalCost:    nightlyCost * float64(nights),
		IsIndividual: true,
	}
	require.NoError(t, db.Create(&acc).Error)
	return acc
}

type allowAllGuard struct{}

func (allowAllGuard) Check(*gorm.DB, uint, int) (transfer.Decision, error) {
	return transfer.Decision{}, nil
}

type blockingGuard struct{}

func (blockingGuard) Check(*gorm.DB, uint, int) (transfer.Decision, error) {
	return transfer.Decision{Blocked: &transfer.BlockedInfo{
		AccommodationCount:     5,
		AccommodationSaleCount: 10,
		Message:                "Demo plan satış limitine ulaşıldı",
	}}, nil
}

func TestExecute_CreatesSales(t *testing.T) {
	db := newTestDB(t)
	company := newCompany(t, db, models.PlanPro)
	acc := newAccommodation(t, db, company.ID, 1000, 3)

	result, err := transfer.Execute(db, company.ID, transfer.Request{
		IDs:        []uint{acc.ID},
		Prices:     map[uint]transfer.SellPrice{acc.ID: {NightlySellPrice: 1200}},
		PaidPolicy: transfer.PaidPolicyFull,
	}, allowAllGuard{})

	require.NoError(t, err)
	assert.Nil(t, result.PaymentRequired)
	assert.Equal(t, 1, result.CreatedCount)
	require.Len(t, result.CreatedIDs, 1)
	assert.Empty(t, result.AlreadyTransferred)
	assert.Empty(t, result.FailedIDs)

	var sale models.AccommodationSale
	require.NoError(t, db.First(&sale, result.CreatedIDs[0]).Error)
	assert.Equal(t, acc.ID, sale.AccommodationID)
	assert.Equal(t, company.ID, sale.CompanyID)
	assert.Equal(t, "Ahmet Yılmaz", sale.GuestName)
	assert.Equal(t, "Grand Hotel Antalya", sale.HotelName)
	assert.Equal(t, 3000.0, sale.TotalCost)
	assert.Equal(t, 1200.0, sale.NightlySellPrice)
	assert.Equal(t, 3600.0, sale.TotalSellPrice)
	assert.Equal(t, 600.0, sale.Profit)
	assert.Equal(t, 20.0, sale.ProfitPercent)

	// Peşin politika: tamamı tahsil edilmiş, kalan sıfır
	assert.Equal(t, models.PaymentPaid, sale.PaymentStatus)
	assert.Equal(t, 3600.0, sale.PaidAmount)
	assert.Equal(t, 0.0, sale.RemainingAmount)
	assert.Equal(t, models.InvoicePending, sale.InvoiceStatus)
}

func TestExecute_UnpaidPolicyByDefault(t *testing.T) {
	db := newTestDB(t)
	company := newCompany(t, db, models.PlanPro)
	acc := newAccommodation(t, db, company.ID, 800, 2)

	result, err := transfer.Execute(db, company.ID, transfer.Request{
		IDs:    []uint{acc.ID},
		Prices: map[uint]transfer.SellPrice{acc.ID: {NightlySellPrice: 1000}},
	}, allowAllGuard{})

	require.NoError(t, err)
	require.Equal(t, 1, result.CreatedCount)

	var sale models.AccommodationSale
	require.NoError(t, db.First(&sale, result.CreatedIDs[0]).Error)
	assert.Equal(t, models.PaymentUnpaid, sale.PaymentStatus)
	assert.Equal(t, 0.0, sale.PaidAmount)
	assert.Equal(t, 2000.0, sale.RemainingAmount)
}

func TestExecute_SecondCallIsNoOp(t *testing.T) {
	db := newTestDB(t)
	company := newCompany(t, db, models.PlanPro)
	acc1 := newAccommodation(t, db, company.ID, 1000, 3)
	acc2 := newAccommodation(t, db, company.ID, 500, 2)

	req := transfer.Request{
		IDs: []uint{acc1.ID, acc2.ID},
		Prices: map[uint]transfer.SellPrice{
			acc1.ID: {NightlySellPrice: 1200},
			acc2.ID: {NightlySellPrice: 700},
		},
	}

	first, err := transfer.Execute(db, company.ID, req, allowAllGuard{})
	require.NoError(t, err)
	assert.Equal(t, 2, first.CreatedCount)

	// İkinci çağrı: hepsi zaten aktarılmış, hiçbir şey oluşmaz
	second, err := transfer.Execute(db, company.ID, req, allowAllGuard{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.CreatedCount)
	assert.ElementsMatch(t, []uint{acc1.ID, acc2.ID}, second.AlreadyTransferred)

	var count int64
	db.Model(&models.AccommodationSale{}).Where("company_id = ?", company.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestExecute_MixedBatch(t *testing.T) {
	db := newTestDB(t)
	company := newCompany(t, db, models.PlanPro)
	acc1 := newAccommodation(t, db, company.ID, 1000, 3)
	acc2 := newAccommodation(t, db, company.ID, 500, 2)

	_, err := transfer.Execute(db, company.ID, transfer.Request{
		IDs:    []uint{acc1.ID},
		Prices: map[uint]transfer.SellPrice{acc1.ID: {NightlySellPrice: 1200}},
	}, allowAllGuard{})
	require.NoError(t, err)

	// acc1 zaten aktarılmış; acc2 yine de işlenmeli
	result, err := transfer.Execute(db, company.ID, transfer.Request{
		IDs: []uint{acc1.ID, acc2.ID},
		Prices: map[uint]transfer.SellPrice{
			acc1.ID: {NightlySellPrice: 1200},
			acc2.ID: {NightlySellPrice: 700},
		},
	}, allowAllGuard{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedCount)
	assert.Equal(t, []uint{acc1.ID}, result.AlreadyTransferred)
}

func TestExecute_GuardBlocksBeforeAnyPersistence(t *testing.T) {
	db := newTestDB(t)
	company := newCompany(t, db, models.PlanDemo)
	acc1 := newAccommodation(t, db, company.ID, 1000, 3)
	acc2 := newAccommodation(t, db, company.ID, 500, 2)

	result, err := transfer.Execute(db, company.ID, transfer.Request{
		IDs: []uint{acc1.ID, acc2.ID},
		Prices: map[uint]transfer.SellPrice{
			acc1.ID: {NightlySellPrice: 1200},
			acc2.ID: {NightlySellPrice: 700},
		},
	}, blockingGuard{})

	require.NoError(t, err)
	require.NotNil(t, result.PaymentRequired)
	assert.Equal(t, int64(5), result.PaymentRequired.AccommodationCount)
	assert.Equal(t, int64(10), result.PaymentRequired.AccommodationSaleCount)
	assert.NotEmpty(t, result.PaymentRequired.Message)
	assert.Equal(t, 0, result.CreatedCount)

	var count int64
	db.Model(&models.AccommodationSale{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestExecute_ValidationErrors(t *testing.T) {
	db := newTestDB(t)
	company := newCompany(t, db, models.PlanPro)
	other := newCompany(t, db, models.PlanPro)
	acc := newAccommodation(t, db, company.ID, 1000, 3)
	foreign := newAccommodation(t, db, other.ID, 1000, 3)

	t.Run("boş id listesi", func(t *testing.T) {
		_, err := transfer.Execute(db, company.ID, transfer.Request{}, allowAllGuard{})
		var vErr *transfer.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("bilinmeyen id", func(t *testing.T) {
		_, err := transfer.Execute(db, company.ID, transfer.Request{
			IDs:    []uint{acc.ID, 9999},
			Prices: map[uint]transfer.SellPrice{acc.ID: {NightlySellPrice: 1200}},
		}, allowAllGuard{})
		var vErr *transfer.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, []uint{9999}, vErr.IDs)
	})

	t.Run("başka firmanın kaydı", func(t *testing.T) {
		_, err := transfer.Execute(db, company.ID, transfer.Request{
			IDs:    []uint{foreign.ID},
			Prices: map[uint]transfer.SellPrice{foreign.ID: {NightlySellPrice: 1200}},
		}, allowAllGuard{})
		var vErr *transfer.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, []uint{foreign.ID}, vErr.IDs)
	})

	t.Run("fiyat girilmemiş", func(t *testing.T) {
		_, err := transfer.Execute(db, company.ID, transfer.Request{
			IDs: []uint{acc.ID},
		}, allowAllGuard{})
		var vErr *transfer.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, []uint{acc.ID}, vErr.IDs)
	})

	// Doğrulama hataları hiçbir şey persist etmemeli
	var count int64
	db.Model(&models.AccommodationSale{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestExecute_DuplicateIDsInRequest(t *testing.T) {
	db := newTestDB(t)
	company := newCompany(t, db, models.PlanPro)
	acc := newAccommodation(t, db, company.ID, 1000, 3)

	result, err := transfer.Execute(db, company.ID, transfer.Request{
		IDs:    []uint{acc.ID, acc.ID, acc.ID},
		Prices: map[uint]transfer.SellPrice{acc.ID: {NightlySellPrice: 1200}},
	}, allowAllGuard{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedCount)
}

func TestPlanGuard(t *testing.T) {
	t.Run("pro plan her zaman serbest", func(t *testing.T) {
		db := newTestDB(t)
		company := newCompany(t, db, models.PlanPro)

		decision, err := transfer.PlanGuard{}.Check(db, company.ID, 100)
		require.NoError(t, err)
		assert.Nil(t, decision.Blocked)
	})

	t.Run("demo plan limit altında serbest", func(t *testing.T) {
		db := newTestDB(t)
		company := newCompany(t, db, models.PlanDemo)

		decision, err := transfer.PlanGuard{}.Check(db, company.ID, models.DemoSaleLimit)
		require.NoError(t, err)
		assert.Nil(t, decision.Blocked)
	})

	t.Run("demo plan limit aşımında engeller", func(t *testing.T) {
		db := newTestDB(t)
		company := newCompany(t, db, models.PlanDemo)

		// Limitin hemen altına kadar satış doldur
		for i := 0; i < models.DemoSaleLimit; i++ {
			acc := newAccommodation(t, db, company.ID, 500, 1)
			sale := models.AccommodationSale{
				CompanyID:       company.ID,
				AccommodationID: acc.ID,
				GuestName:       acc.GuestName,
				CheckInDate:     acc.CheckInDate,
				CheckOutDate:    acc.CheckOutDate,
				Nights:          acc.Nights,
				NightlyCost:     acc.NightlyCost,
				TotalCost:       acc.TotalCost,
			}
			require.NoError(t, db.Create(&sale).Error)
		}

		decision, err := transfer.PlanGuard{}.Check(db, company.ID, 1)
		require.NoError(t, err)
		require.NotNil(t, decision.Blocked)
		assert.Equal(t, int64(models.DemoSaleLimit), decision.Blocked.AccommodationSaleCount)
		assert.Equal(t, int64(models.DemoSaleLimit), decision.Blocked.AccommodationCount)
		assert.NotEmpty(t, decision.Blocked.Message)
	})
}

func TestTransferredLookup(t *testing.T) {
	db := newTestDB(t)
	company := newCompany(t, db, models.PlanPro)
	acc1 := newAccommodation(t, db, company.ID, 1000, 3)
	acc2 := newAccommodation(t, db, company.ID, 500, 2)

	result, err := transfer.Execute(db, company.ID, transfer.Request{
		IDs:    []uint{acc1.ID},
		Prices: map[uint]transfer.SellPrice{acc1.ID: {NightlySellPrice: 1200}},
	}, allowAllGuard{})
	require.NoError(t, err)

	lookup, err := transfer.TransferredLookup(db, company.ID)
	require.NoError(t, err)
	assert.Equal(t, map[uint]uint{acc1.ID: result.CreatedIDs[0]}, lookup)
	_, ok := lookup[acc2.ID]
	assert.False(t, ok)
}
