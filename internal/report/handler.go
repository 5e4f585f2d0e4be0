package report

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"trackinn-backend/internal/auth"
	"trackinn-backend/internal/database"
	"trackinn-backend/internal/models"
)

// -------------------------
// GET /api/reports/occupancy?side=purchase|sale&from=2006-01-02&to=2006-01-02
// -------------------------
func OccupancyReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		side := c.Query("side", "purchase")
		if side != "purchase" && side != "sale" {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz rapor tarafı: purchase veya sale olmalı")
		}

		from, err := parseDateQuery(c, "from")
		if err != nil {
			return err
		}
		to, err := parseDateQuery(c, "to")
		if err != nil {
			return err
		}
		if from != nil && to != nil && to.Before(*from) {
			return fiber.NewError(fiber.StatusBadRequest, "Bitiş tarihi başlangıçtan önce olamaz")
		}

		var stays []Stay
		if side == "purchase" {
			stays, err = purchaseStays(companyID, from, to)
		} else {
			stays, err = saleStays(companyID, from, to)
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor verisi yüklenemedi")
		}

		buf, err := RenderExcel(BuildOccupancyTable(stays, from, to))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor dosyası oluşturulamadı")
		}

		filename := fmt.Sprintf("puantaj_%s_%s.xlsx", side, time.Now().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}

func parseDateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Geçersiz tarih formatı (%s): YYYY-AA-GG bekleniyor", name))
	}
	return &t, nil
}

// Pencere verilmişse sorgu da daraltılır; verilmemişse tüm kayıtlar çekilir
// ve pencere tablo kurulurken veriden türetilir.
func windowScope(from, to *time.Time) (string, []interface{}) {
	where := "company_id = ?"
	var args []interface{}
	if from != nil {
		where += " AND check_out_date >= ?"
		args = append(args, *from)
	}
	if to != nil {
		where += " AND check_in_date <= ?"
		args = append(args, *to)
	}
	return where, args
}

func purchaseStays(companyID uint, from, to *time.Time) ([]Stay, error) {
	where, args := windowScope(from, to)
	args = append([]interface{}{companyID}, args...)

	var records []models.Accommodation
	if err := database.DB.Where(where, args...).Find(&records).Error; err != nil {
		return nil, err
	}

	stays := make([]Stay, 0, len(records))
	for _, r := range records {
		stays = append(stays, Stay{
			GuestName: r.GuestName,
			Title:     r.Title,
			HotelName: r.HotelName,
			TotalCost: r.TotalCost,
			CheckIn:   r.CheckInDate,
			CheckOut:  r.CheckOutDate,
		})
	}
	return stays, nil
}

func saleStays(companyID uint, from, to *time.Time) ([]Stay, error) {
	where, args := windowScope(from, to)
	args = append([]interface{}{companyID}, args...)

	var records []models.AccommodationSale
	if err := database.DB.Where(where, args...).Find(&records).Error; err != nil {
		return nil, err
	}

	stays := make([]Stay, 0, len(records))
	for _, r := range records {
		stays = append(stays, Stay{
			GuestName:      r.GuestName,
			Title:          r.Title,
			HotelName:      r.HotelName,
			CustomerName:   r.CustomerName,
			TotalCost:      r.TotalCost,
			TotalSellPrice: r.TotalSellPrice,
			Profit:         r.Profit,
			ProfitPercent:  r.ProfitPercent,
			PaymentStatus:  r.PaymentStatus,
			CheckIn:        r.CheckInDate,
			CheckOut:       r.CheckOutDate,
		})
	}
	return stays, nil
}
