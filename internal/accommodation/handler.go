package accommodation

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

	"github.com/gofiber/fiber/v2"
)

type CreateAccommodationRequest struct {
	GuestName    string  `json:"guest_name"`
	Title        string  `json:"title"`
	Country      string  `json:"country"`
	City         string  `json:"city"`
	CheckInDate  string  `json:"check_in_date"`  // "2025-03-01"
	CheckOutDate string  `json:"check_out_date"` // "2025-03-04"
	RoomType     string  `json:"room_type"`
	BoardType    string  `json:"board_type"`
	HotelName    string  `json:"hotel_name"`
	NightlyCost  float64 `json:"nightly_cost"`

	IsIndividual        *bool  `json:"is_individual"`
	OrganizationID      *uint  `json:"organization_id"`
	OrganizationAccount string `json:"organization_account"`
}

type UpdateAccommodationRequest struct {
	GuestName    *string  `json:"guest_name"`
	Title        *string  `json:"title"`
	Country      *string  `json:"country"`
	City         *string  `json:"city"`
	CheckInDate  *string  `json:"check_in_date"`
	CheckOutDate *string  `json:"check_out_date"`
	RoomType     *string  `json:"room_type"`
	BoardType    *string  `json:"board_type"`
	HotelName    *string  `json:"hotel_name"`
	NightlyCost  *float64 `json:"nightly_cost"`

	IsIndividual        *bool   `json:"is_individual"`
	OrganizationID      *uint   `json:"organization_id"`
	OrganizationAccount *string `json:"organization_account"`
}

type BulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}

type AccommodationResponse struct {
	ID           uint    `json:"id"`
	GuestName    string  `json:"guest_name"`
	Title        string  `json:"title"`
	Country      string  `json:"country"`
	City         string  `json:"city"`
	CheckInDate  string  `json:"check_in_date"`
	CheckOutDate string  `json:"check_out_date"`
	Nights       int     `json:"nights"`
	RoomType     string  `json:"room_type"`
	BoardType    string  `json:"board_type"`
	HotelName    string  `json:"hotel_name"`
	NightlyCost  float64 `json:"nightly_cost"`
	TotalCost    float64 `json:"total_cost"`

	IsIndividual        bool   `json:"is_individual"`
	OrganizationID      *uint  `json:"organization_id"`
	OrganizationAccount string `json:"organization_account"`

	Transferred bool  `json:"transferred"`
	SaleID      *uint `json:"sale_id"`
}

type AccommodationStatsResponse struct {
	TotalCount       int64   `json:"total_count"`
	TransferredCount int64   `json:"transferred_count"`
	TotalCost        float64 `json:"total_cost"`
	TotalNights      int64   `json:"total_nights"`
}

func toResponse(a models.Accommodation, saleID *uint) AccommodationResponse {
	return AccommodationResponse{
		ID:                  a.ID,
		GuestName:           a.GuestName,
		Title:               a.Title,
		Country:             a.Country,
		City:                a.City,
		CheckInDate:         a.CheckInDate.Format("2006-01-02"),
		CheckOutDate:        a.CheckOutDate.Format("2006-01-02"),
		Nights:              a.Nights,
		RoomType:            a.RoomType,
		BoardType:           a.BoardType,
		HotelName:           a.HotelName,
		NightlyCost:         a.NightlyCost,
		TotalCost:           a.TotalCost,
		IsIndividual:        a.IsIndividual,
		OrganizationID:      a.OrganizationID,
		OrganizationAccount: a.OrganizationAccount,
		Transferred:         saleID != nil,
		SaleID:              saleID,
	}
}

// Giriş/çıkış tarihlerini doğrular, gece sayısını türetir
func parseStayDates(checkInStr, checkOutStr string) (time.Time, time.Time, int, error) {
	checkIn, err := time.Parse("2006-01-02", checkInStr)
	if err != nil {
		return time.Time{}, time.Time{}, 0, fiber.NewError(fiber.StatusBadRequest, "Giriş tarihi formatı 'YYYY-MM-DD' olmalı")
	}
	checkOut, err := time.Parse("2006-01-02", checkOutStr)
	if err != nil {
		return time.Time{}, time.Time{}, 0, fiber.NewError(fiber.StatusBadRequest, "Çıkış tarihi formatı 'YYYY-MM-DD' olmalı")
	}
	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights <= 0 {
		return time.Time{}, time.Time{}, 0, fiber.NewError(fiber.StatusBadRequest, "Çıkış tarihi giriş tarihinden sonra olmalı")
	}
	return checkIn, checkOut, nights, nil
}

// Geri alma snapshot'ı: kolon adlarıyla tam kopya, undo bu haritadan geri yükler
func auditSnapshot(a models.Accommodation) map[string]interface{} {
	return map[string]interface{}{
		"id":                   a.ID,
		"company_id":           a.CompanyID,
		"guest_name":           a.GuestName,
		"title":                a.Title,
		"country":              a.Country,
		"city":                 a.City,
		"check_in_date":        a.CheckInDate.Format("2006-01-02"),
		"check_out_date":       a.CheckOutDate.Format("2006-01-02"),
		"nights":               a.Nights,
		"room_type":            a.RoomType,
		"board_type":           a.BoardType,
		"hotel_name":           a.HotelName,
		"nightly_cost":         a.NightlyCost,
		"total_cost":           a.TotalCost,
		"is_individual":        a.IsIndividual,
		"organization_id":      a.OrganizationID,
		"organization_account": a.OrganizationAccount,
	}
}

// -------------------------
// POST /api/accommodations
// -------------------------
func CreateAccommodationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var body CreateAccommodationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.GuestName = strings.TrimSpace(body.GuestName)
		if body.GuestName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Misafir adı zorunlu")
		}
		if body.NightlyCost < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Gecelik ücret negatif olamaz")
		}

		checkIn, checkOut, nights, err := parseStayDates(body.CheckInDate, body.CheckOutDate)
		if err != nil {
			return err
		}

		isIndividual := true
		if body.IsIndividual != nil {
			isIndividual = *body.IsIndividual
		}
		if !isIndividual && body.OrganizationID != nil {
			var org models.Organization
			if err := database.DB.First(&org, "id = ? AND company_id = ?", *body.OrganizationID, companyID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Organizasyon bulunamadı")
			}
		}

		acc := models.Accommodation{
			CompanyID:           companyID,
			GuestName:           body.GuestName,
			Title:               strings.TrimSpace(body.Title),
			Country:             body.Country,
			City:                body.City,
			CheckInDate:         checkIn,
			CheckOutDate:        checkOut,
			Nights:              nights,
			RoomType:            body.RoomType,
			BoardType:           body.BoardType,
			HotelName:           strings.TrimSpace(body.HotelName),
			NightlyCost:         body.NightlyCost,
			TotalCost:           pricing.TotalCost(body.NightlyCost, nights),
			IsIndividual:        isIndividual,
			OrganizationID:      body.OrganizationID,
			OrganizationAccount: body.OrganizationAccount,
		}

		if err := database.DB.Create(&acc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Konaklama kaydedilemedi")
		}

		writeAudit(c, companyID, acc.ID, models.AuditActionCreate,
			fmt.Sprintf("Konaklama eklendi: %s - %s", acc.GuestName, acc.HotelName),
			nil, auditSnapshot(acc))

		return c.Status(fiber.StatusCreated).JSON(toResponse(acc, nil))
	}
}

// -------------------------
// GET /api/accommodations?from=...&to=...&hotel=...&guest=...
// -------------------------
func ListAccommodationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Accommodation{}).Where("company_id = ?", companyID)

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
		if hotel := c.Query("hotel"); hotel != "" {
			dbq = dbq.Where("hotel_name ILIKE ?", "%"+hotel+"%")
		}
		if guest := c.Query("guest"); guest != "" {
			dbq = dbq.Where("guest_name ILIKE ?", "%"+guest+"%")
		}

		var rows []models.Accommodation
		if err := dbq.Order("check_in_date asc, id asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Konaklamalar listelenemedi")
		}

		lookup, err := transferredLookup(companyID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Aktarım bilgisi yüklenemedi")
		}

		resp := make([]AccommodationResponse, 0, len(rows))
		for _, r := range rows {
			var saleID *uint
			if sid, ok := lookup[r.ID]; ok {
				saleID = &sid
			}
			resp = append(resp, toResponse(r, saleID))
		}
		return c.JSON(resp)
	}
}

// -------------------------
// GET /api/accommodations/:id
// -------------------------
func GetAccommodationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var acc models.Accommodation
		if err := database.DB.First(&acc, "id = ? AND company_id = ?", c.Params("id"), companyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Konaklama bulunamadı")
		}

		var saleID *uint
		var sale models.AccommodationSale
		if err := database.DB.Select("id").
			First(&sale, "accommodation_id = ? AND company_id = ?", acc.ID, companyID).Error; err == nil {
			saleID = &sale.ID
		}

		return c.JSON(toResponse(acc, saleID))
	}
}

// -------------------------
// PUT /api/accommodations/:id
// -------------------------
func UpdateAccommodationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var acc models.Accommodation
		if err := database.DB.First(&acc, "id = ? AND company_id = ?", c.Params("id"), companyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Konaklama bulunamadı")
		}

		var body UpdateAccommodationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		before := auditSnapshot(acc)

		if body.GuestName != nil {
			name := strings.TrimSpace(*body.GuestName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Misafir adı boş olamaz")
			}
			acc.GuestName = name
		}
		if body.Title != nil {
			acc.Title = strings.TrimSpace(*body.Title)
		}
		if body.Country != nil {
			acc.Country = *body.Country
		}
		if body.City != nil {
			acc.City = *body.City
		}
		if body.RoomType != nil {
			acc.RoomType = *body.RoomType
		}
		if body.BoardType != nil {
			acc.BoardType = *body.BoardType
		}
		if body.HotelName != nil {
			acc.HotelName = strings.TrimSpace(*body.HotelName)
		}
		if body.IsIndividual != nil {
			acc.IsIndividual = *body.IsIndividual
		}
		if body.OrganizationID != nil {
			var org models.Organization
			if err := database.DB.First(&org, "id = ? AND company_id = ?", *body.OrganizationID, companyID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Organizasyon bulunamadı")
			}
			acc.OrganizationID = body.OrganizationID
		}
		if body.OrganizationAccount != nil {
			acc.OrganizationAccount = *body.OrganizationAccount
		}

		// Tarih veya ücret değişiyorsa gece sayısı ve toplam maliyet yeniden türetilir
		if body.CheckInDate != nil || body.CheckOutDate != nil {
			inStr := acc.CheckInDate.Format("2006-01-02")
			outStr := acc.CheckOutDate.Format("2006-01-02")
			if body.CheckInDate != nil {
				inStr = *body.CheckInDate
			}
			if body.CheckOutDate != nil {
				outStr = *body.CheckOutDate
			}
			checkIn, checkOut, nights, err := parseStayDates(inStr, outStr)
			if err != nil {
				return err
			}
			acc.CheckInDate = checkIn
			acc.CheckOutDate = checkOut
			acc.Nights = nights
		}
		if body.NightlyCost != nil {
			if *body.NightlyCost < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Gecelik ücret negatif olamaz")
			}
			acc.NightlyCost = *body.NightlyCost
		}
		if body.CheckInDate != nil || body.CheckOutDate != nil || body.NightlyCost != nil {
			acc.TotalCost = pricing.TotalCost(acc.NightlyCost, acc.Nights)
		}

		if err := database.DB.Save(&acc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Konaklama güncellenemedi")
		}

		writeAudit(c, companyID, acc.ID, models.AuditActionUpdate,
			fmt.Sprintf("Konaklama güncellendi: %s", acc.GuestName),
			before, auditSnapshot(acc))

		return c.JSON(toResponse(acc, nil))
	}
}

// -------------------------
// DELETE /api/accommodations/:id
// -------------------------
func DeleteAccommodationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var acc models.Accommodation
		if err := database.DB.First(&acc, "id = ? AND company_id = ?", c.Params("id"), companyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Konaklama bulunamadı")
		}

		// Satışa aktarılmış alış silinemez, önce satış kaydı kaldırılmalı
		var saleCount int64
		database.DB.Model(&models.AccommodationSale{}).
			Where("accommodation_id = ?", acc.ID).Count(&saleCount)
		if saleCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Satışa aktarılmış konaklama silinemez")
		}

		if err := database.DB.Delete(&acc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Konaklama silinemedi")
		}

		writeAudit(c, companyID, acc.ID, models.AuditActionDelete,
			fmt.Sprintf("Konaklama silindi: %s - %s", acc.GuestName, acc.HotelName),
			auditSnapshot(acc), nil)

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------
// DELETE /api/accommodations/bulk
// -------------------------
func BulkDeleteAccommodationsHandler() fiber.Handler {
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

		var transferredCount int64
		database.DB.Model(&models.AccommodationSale{}).
			Where("company_id = ? AND accommodation_id IN ?", companyID, body.IDs).
			Count(&transferredCount)
		if transferredCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Seçimde satışa aktarılmış konaklamalar var")
		}

		res := database.DB.Where("company_id = ? AND id IN ?", companyID, body.IDs).
			Delete(&models.Accommodation{})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Konaklamalar silinemedi")
		}

		writeAudit(c, companyID, 0, models.AuditActionDelete,
			fmt.Sprintf("%d konaklama toplu silindi", res.RowsAffected),
			map[string]interface{}{"ids": body.IDs}, nil)

		return c.JSON(fiber.Map{"deleted_count": res.RowsAffected})
	}
}

// -------------------------
// GET /api/accommodations/stats
// -------------------------
func AccommodationStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var stats AccommodationStatsResponse
		type row struct {
			Count       int64   `gorm:"column:count"`
			TotalCost   float64 `gorm:"column:total_cost"`
			TotalNights int64   `gorm:"column:total_nights"`
		}
		var r row
		if err := database.DB.Model(&models.Accommodation{}).
			Select("COUNT(*) as count, COALESCE(SUM(total_cost), 0) as total_cost, COALESCE(SUM(nights), 0) as total_nights").
			Where("company_id = ?", companyID).
			Scan(&r).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İstatistik hesaplanamadı")
		}
		stats.TotalCount = r.Count
		stats.TotalCost = r.TotalCost
		stats.TotalNights = r.TotalNights

		if err := database.DB.Model(&models.AccommodationSale{}).
			Where("company_id = ?", companyID).
			Count(&stats.TransferredCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İstatistik hesaplanamadı")
		}

		return c.JSON(stats)
	}
}

func transferredLookup(companyID uint) (map[uint]uint, error) {
	var sales []models.AccommodationSale
	if err := database.DB.Select("id, accommodation_id").
		Where("company_id = ?", companyID).
		Find(&sales).Error; err != nil {
		return nil, err
	}
	lookup := make(map[uint]uint, len(sales))
	for _, s := range sales {
		lookup[s.AccommodationID] = s.ID
	}
	return lookup, nil
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
		EntityType:  "accommodation",
		EntityID:    entityID,
		Action:      action,
		Description: description,
		Before:      before,
		After:       after,
	}); logErr != nil {
		log.Printf("Audit log yazılamadı: %v", logErr)
	}
}
