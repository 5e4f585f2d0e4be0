package sales

import (
	"fmt"
	"log"
	"strings"
	"time"

	"trackinn-backend/internal/audit"
	"trackinn-backend/internal/auth"
	"trackinn-backend/internal/database"
	"trackinn-backend/internal/models"
	"trackinn-backend/internal/pricing"
	"trackinn-backend/internal/report"

	"github.com/gofiber/fiber/v2"
)

type UpdateSaleRequest struct {
	CustomerName        *string `json:"customer_name"`
	CustomerAccountCode *string `json:"customer_account_code"`
	Notes               *string `json:"notes"`

	NightlySellPrice *float64 `json:"nightly_sell_price"`
	TotalSellPrice   *float64 `json:"total_sell_price"`
	PaidAmount       *float64 `json:"paid_amount"`

	InvoiceStatus *models.InvoiceStatus `json:"invoice_status"`
}

type PaymentStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"payment_status"`
}

type BulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}

type SaleResponse struct {
	ID              uint   `json:"id"`
	AccommodationID uint   `json:"accommodation_id"`
	GuestName       string `json:"guest_name"`
	Title           string `json:"title"`
	Country         string `json:"country"`
	City            string `json:"city"`
	CheckInDate     string `json:"check_in_date"`
	CheckOutDate    string `json:"check_out_date"`
	Nights          int    `json:"nights"`
	RoomType        string `json:"room_type"`
	BoardType       string `json:"board_type"`
	HotelName       string `json:"hotel_name"`

	NightlyCost      float64 `json:"nightly_cost"`
	TotalCost        float64 `json:"total_cost"`
	NightlySellPrice float64 `json:"nightly_sell_price"`
	TotalSellPrice   float64 `json:"total_sell_price"`
	Profit           float64 `json:"profit"`
	ProfitPercent    float64 `json:"profit_percent"`

	CustomerName        string `json:"customer_name"`
	CustomerAccountCode string `json:"customer_account_code"`

	InvoiceStatus   models.InvoiceStatus `json:"invoice_status"`
	PaymentStatus   models.PaymentStatus `json:"payment_status"`
	PaidAmount      float64              `json:"paid_amount"`
	RemainingAmount float64              `json:"remaining_amount"`

	Notes string `json:"notes"`
}

type SaleStatsResponse struct {
	TotalCount     int64   `json:"total_count"`
	TotalCost      float64 `json:"total_cost"`
	TotalSellPrice float64 `json:"total_sell_price"`
	TotalProfit    float64 `json:"total_profit"`
	TotalPaid      float64 `json:"total_paid"`
	TotalRemaining float64 `json:"total_remaining"`
	UnpaidCount    int64   `json:"unpaid_count"`
	PaidCount      int64   `json:"paid_count"`
}

func toResponse(s models.AccommodationSale) SaleResponse {
	return SaleResponse{
		ID:                  s.ID,
		AccommodationID:     s.AccommodationID,
		GuestName:           s.GuestName,
		Title:               s.Title,
		Country:             s.Country,
		City:                s.City,
		CheckInDate:         s.CheckInDate.Format("2006-01-02"),
		CheckOutDate:        s.CheckOutDate.Format("2006-01-02"),
		Nights:              s.Nights,
		RoomType:            s.RoomType,
		BoardType:           s.BoardType,
		HotelName:           s.HotelName,
		NightlyCost:         s.NightlyCost,
		TotalCost:           s.TotalCost,
		NightlySellPrice:    s.NightlySellPrice,
		TotalSellPrice:      s.TotalSellPrice,
		Profit:              s.Profit,
		ProfitPercent:       s.ProfitPercent,
		CustomerName:        s.CustomerName,
		CustomerAccountCode: s.CustomerAccountCode,
		InvoiceStatus:       s.InvoiceStatus,
		PaymentStatus:       s.PaymentStatus,
		PaidAmount:          s.PaidAmount,
		RemainingAmount:     s.RemainingAmount,
		Notes:               s.Notes,
	}
}

// Geri alma snapshot'ı: kolon adlarıyla tam kopya, undo bu haritadan geri yükler
func auditSnapshot(s models.AccommodationSale) map[string]interface{} {
	return map[string]interface{}{
		"id":                    s.ID,
		"company_id":            s.CompanyID,
		"accommodation_id":      s.AccommodationID,
		"guest_name":            s.GuestName,
		"title":                 s.Title,
		"country":               s.Country,
		"city":                  s.City,
		"check_in_date":         s.CheckInDate.Format("2006-01-02"),
		"check_out_date":        s.CheckOutDate.Format("2006-01-02"),
		"nights":                s.Nights,
		"room_type":             s.RoomType,
		"board_type":            s.BoardType,
		"hotel_name":            s.HotelName,
		"nightly_cost":          s.NightlyCost,
		"total_cost":            s.TotalCost,
		"nightly_sell_price":    s.NightlySellPrice,
		"total_sell_price":      s.TotalSellPrice,
		"profit":                s.Profit,
		"profit_percent":        s.ProfitPercent,
		"customer_name":         s.CustomerName,
		"customer_account_code": s.CustomerAccountCode,
		"invoice_status":        s.InvoiceStatus,
		"payment_status":        s.PaymentStatus,
		"paid_amount":           s.PaidAmount,
		"remaining_amount":      s.RemainingAmount,
		"notes":                 s.Notes,
	}
}

// -------------------------
// GET /api/accommodation-sales?from=...&to=...&payment_status=...&customer=...
// -------------------------
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.AccommodationSale{}).Where("company_id = ?", companyID)

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from geçersiz")
			}
			dbq = dbq.Where("check_out_date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to geçersiz")
			}
			dbq = dbq.Where("check_in_date <= ?", to)
		}
		if status := c.Query("payment_status"); status != "" {
			ps := models.PaymentStatus(status)
			if ps != models.PaymentUnpaid && ps != models.PaymentPartiallyPaid && ps != models.PaymentPaid {
				return fiber.NewError(fiber.StatusBadRequest, "payment_status geçersiz")
			}
			dbq = dbq.Where("payment_status = ?", ps)
		}
		if customer := c.Query("customer"); customer != "" {
			dbq = dbq.Where("customer_name ILIKE ?", "%"+customer+"%")
		}

		var rows []models.AccommodationSale
		if err := dbq.Order("check_in_date asc, id asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satışlar listelenemedi")
		}

		resp := make([]SaleResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, toResponse(r))
		}
		return c.JSON(resp)
	}
}

// -------------------------
// GET /api/accommodation-sales/:id
// -------------------------
func GetSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var sale models.AccommodationSale
		if err := database.DB.First(&sale, "id = ? AND company_id = ?", c.Params("id"), companyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Satış bulunamadı")
		}

		return c.JSON(toResponse(sale))
	}
}

// -------------------------
// PUT /api/accommodation-sales/:id
// -------------------------
func UpdateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var sale models.AccommodationSale
		if err := database.DB.First(&sale, "id = ? AND company_id = ?", c.Params("id"), companyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Satış bulunamadı")
		}

		var body UpdateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		before := auditSnapshot(sale)

		if body.CustomerName != nil {
			sale.CustomerName = strings.TrimSpace(*body.CustomerName)
		}
		if body.CustomerAccountCode != nil {
			sale.CustomerAccountCode = strings.TrimSpace(*body.CustomerAccountCode)
		}
		if body.Notes != nil {
			sale.Notes = *body.Notes
		}
		if body.InvoiceStatus != nil {
			is := *body.InvoiceStatus
			if is != models.InvoicePending && is != models.InvoiceIssued && is != models.InvoiceCancelled {
				return fiber.NewError(fiber.StatusBadRequest, "invoice_status geçersiz")
			}
			sale.InvoiceStatus = is
		}

		// Satış fiyatı değişirse kar rakamları, ödenen değişirse ödeme durumu
		// ve kalan tutar birlikte yeniden hesaplanıp kaydedilir
		priceChanged := body.NightlySellPrice != nil || body.TotalSellPrice != nil
		if priceChanged {
			nightlySell := sale.NightlySellPrice
			totalSell := 0.0
			if body.NightlySellPrice != nil {
				if *body.NightlySellPrice <= 0 {
					return fiber.NewError(fiber.StatusBadRequest, "Gecelik satış fiyatı pozitif olmalı")
				}
				nightlySell = *body.NightlySellPrice
			}
			if body.TotalSellPrice != nil {
				if *body.TotalSellPrice <= 0 {
					return fiber.NewError(fiber.StatusBadRequest, "Toplam satış fiyatı pozitif olmalı")
				}
				totalSell = *body.TotalSellPrice
			}

			quote := pricing.QuoteFromSell(sale.NightlyCost, sale.Nights, nightlySell, totalSell).Round()
			sale.NightlySellPrice = quote.NightlySell
			sale.TotalSellPrice = quote.TotalSell
			sale.Profit = quote.Profit
			sale.ProfitPercent = quote.ProfitPercent
		}

		if body.PaidAmount != nil {
			if *body.PaidAmount < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Ödenen tutar negatif olamaz")
			}
			sale.PaidAmount = *body.PaidAmount
		}
		if priceChanged || body.PaidAmount != nil {
			status, remaining := pricing.DerivePayment(sale.PaidAmount, sale.TotalSellPrice)
			sale.PaymentStatus = status
			sale.RemainingAmount = remaining
		}

		if err := database.DB.Save(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış güncellenemedi")
		}

		writeAudit(c, companyID, sale.ID, models.AuditActionUpdate,
			fmt.Sprintf("Satış güncellendi: %s", sale.GuestName),
			before, auditSnapshot(sale))

		return c.JSON(toResponse(sale))
	}
}

// -------------------------
// PUT /api/accommodation-sales/:id/payment-status
//
// Hızlı durum değişikliği. Ödenen/kalan tutara dokunmaz; tutar bazlı
// güncelleme için PUT /accommodation-sales/:id kullanılır.
// -------------------------
func UpdatePaymentStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var sale models.AccommodationSale
		if err := database.DB.First(&sale, "id = ? AND company_id = ?", c.Params("id"), companyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Satış bulunamadı")
		}

		var body PaymentStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.PaymentStatus != models.PaymentUnpaid &&
			body.PaymentStatus != models.PaymentPartiallyPaid &&
			body.PaymentStatus != models.PaymentPaid {
			return fiber.NewError(fiber.StatusBadRequest, "payment_status geçersiz")
		}

		before := auditSnapshot(sale)
		sale.PaymentStatus = body.PaymentStatus

		if err := database.DB.Save(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme durumu güncellenemedi")
		}

		writeAudit(c, companyID, sale.ID, models.AuditActionUpdate,
			fmt.Sprintf("Ödeme durumu değiştirildi: %s -> %s", before["payment_status"], sale.PaymentStatus),
			before, auditSnapshot(sale))

		return c.JSON(toResponse(sale))
	}
}

// -------------------------
// DELETE /api/accommodation-sales/:id
// -------------------------
func DeleteSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var sale models.AccommodationSale
		if err := database.DB.First(&sale, "id = ? AND company_id = ?", c.Params("id"), companyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Satış bulunamadı")
		}

		if err := database.DB.Delete(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış silinemedi")
		}

		writeAudit(c, companyID, sale.ID, models.AuditActionDelete,
			fmt.Sprintf("Satış silindi: %s - %s", sale.GuestName, sale.HotelName),
			auditSnapshot(sale), nil)

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------
// DELETE /api/accommodation-sales/bulk
// -------------------------
func BulkDeleteSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var body BulkDeleteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if len(body.IDs) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Silinecek kayıt seçilmedi")
		}

		res := database.DB.Where("company_id = ? AND id IN ?", companyID, body.IDs).
			Delete(&models.AccommodationSale{})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satışlar silinemedi")
		}

		writeAudit(c, companyID, 0, models.AuditActionDelete,
			fmt.Sprintf("%d satış toplu silindi", res.RowsAffected),
			map[string]interface{}{"ids": body.IDs}, nil)

		return c.JSON(fiber.Map{"deleted_count": res.RowsAffected})
	}
}

// -------------------------
// GET /api/accommodation-sales/stats
// -------------------------
func SaleStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		type row struct {
			Count          int64   `gorm:"column:count"`
			TotalCost      float64 `gorm:"column:total_cost"`
			TotalSellPrice float64 `gorm:"column:total_sell_price"`
			TotalProfit    float64 `gorm:"column:total_profit"`
			TotalPaid      float64 `gorm:"column:total_paid"`
			TotalRemaining float64 `gorm:"column:total_remaining"`
		}
		var r row
		if err := database.DB.Model(&models.AccommodationSale{}).
			Select(`COUNT(*) as count,
				COALESCE(SUM(total_cost), 0) as total_cost,
				COALESCE(SUM(total_sell_price), 0) as total_sell_price,
				COALESCE(SUM(profit), 0) as total_profit,
				COALESCE(SUM(paid_amount), 0) as total_paid,
				COALESCE(SUM(remaining_amount), 0) as total_remaining`).
			Where("company_id = ?", companyID).
			Scan(&r).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İstatistik hesaplanamadı")
		}

		stats := SaleStatsResponse{
			TotalCount:     r.Count,
			TotalCost:      r.TotalCost,
			TotalSellPrice: r.TotalSellPrice,
			TotalProfit:    r.TotalProfit,
			TotalPaid:      r.TotalPaid,
			TotalRemaining: r.TotalRemaining,
		}

		if err := database.DB.Model(&models.AccommodationSale{}).
			Where("company_id = ? AND payment_status = ?", companyID, models.PaymentUnpaid).
			Count(&stats.UnpaidCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İstatistik hesaplanamadı")
		}
		if err := database.DB.Model(&models.AccommodationSale{}).
			Where("company_id = ? AND payment_status = ?", companyID, models.PaymentPaid).
			Count(&stats.PaidCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İstatistik hesaplanamadı")
		}

		return c.JSON(stats)
	}
}

// -------------------------
// GET /api/accommodation-sales/export?from=...&to=...
//
// Satış listesini puantaj düzeninde xlsx olarak indirir.
// -------------------------
func ExportSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var from, to *time.Time
		if fromStr := c.Query("from"); fromStr != "" {
			t, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from geçersiz")
			}
			from = &t
		}
		if toStr := c.Query("to"); toStr != "" {
			t, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to geçersiz")
			}
			to = &t
		}

		dbq := database.DB.Where("company_id = ?", companyID)
		if from != nil {
			dbq = dbq.Where("check_out_date >= ?", *from)
		}
		if to != nil {
			dbq = dbq.Where("check_in_date <= ?", *to)
		}

		var rows []models.AccommodationSale
		if err := dbq.Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satışlar yüklenemedi")
		}

		stays := make([]report.Stay, 0, len(rows))
		for _, r := range rows {
			stays = append(stays, report.Stay{
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

		buf, err := report.RenderExcel(report.BuildOccupancyTable(stays, from, to))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor dosyası oluşturulamadı")
		}

		filename := fmt.Sprintf("satislar_%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}

func writeAudit(c *fiber.Ctx, companyID, entityID uint, action models.AuditAction, description string, before, after map[string]interface{}) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return
	}

	if logErr := audit.WriteLog(audit.LogOptions{
		CompanyID:   companyID,
		UserID:      userID,
		UserName:    user.Name,
		EntityType:  "accommodation_sale",
		EntityID:    entityID,
		Action:      action,
		Description: description,
		Before:      before,
		After:       after,
	}); logErr != nil {
		log.Printf("Audit log yazılamadı: %v", logErr)
	}
}
