package finance

import (
	"fmt"
	"log"
	"strings"
	"time"

	"trackinn-backend/internal/audit"
	"trackinn-backend/internal/auth"
	"trackinn-backend/internal/database"
	"trackinn-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateTransactionRequest struct {
	Type        models.FinancialTransactionType `json:"type"`
	Category    models.FinancialCategory        `json:"category"`
	Description string                          `json:"description"`
	Amount      float64                         `json:"amount"`
	Date        string                          `json:"date"` // "2025-12-09"
	Notes       string                          `json:"notes"`
}

type UpdateTransactionRequest struct {
	Type        *models.FinancialTransactionType `json:"type"`
	Category    *models.FinancialCategory        `json:"category"`
	Description *string                          `json:"description"`
	Amount      *float64                         `json:"amount"`
	Date        *string                          `json:"date"`
	Notes       *string                          `json:"notes"`
}

type TransactionResponse struct {
	ID          uint                            `json:"id"`
	UserID      uint                            `json:"user_id"`
	Type        models.FinancialTransactionType `json:"type"`
	Category    models.FinancialCategory        `json:"category"`
	Description string                          `json:"description"`
	Amount      float64                         `json:"amount"`
	Date        string                          `json:"date"`
	Notes       string                          `json:"notes"`
}

type MonthlySummaryItem struct {
	Category models.FinancialCategory `json:"category"`
	Total    float64                  `json:"total"`
}

type MonthlySummaryResponse struct {
	Year         int                  `json:"year"`
	Month        int                  `json:"month"`
	Income       []MonthlySummaryItem `json:"income"`
	Expense      []MonthlySummaryItem `json:"expense"`
	TotalIncome  float64              `json:"total_income"`
	TotalExpense float64              `json:"total_expense"`
	Net          float64              `json:"net"`
}

func validCategory(cat models.FinancialCategory) bool {
	switch cat {
	case models.CategoryAccommodation, models.CategoryTransport, models.CategoryOfficeExpenses,
		models.CategorySupplier, models.CategorySalary, models.CategoryTax, models.CategoryOther:
		return true
	}
	return false
}

func toResponse(tx models.FinancialTransaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Type:        tx.Type,
		Category:    tx.Category,
		Description: tx.Description,
		Amount:      tx.Amount,
		Date:        tx.Date.Format("2006-01-02"),
		Notes:       tx.Notes,
	}
}

// Geri alma snapshot'ı: kolon adlarıyla tam kopya, undo bu haritadan geri yükler
func auditSnapshot(tx models.FinancialTransaction) map[string]interface{} {
	return map[string]interface{}{
		"id":          tx.ID,
		"company_id":  tx.CompanyID,
		"user_id":     tx.UserID,
		"type":        tx.Type,
		"category":    tx.Category,
		"description": tx.Description,
		"amount":      tx.Amount,
		"date":        tx.Date.Format("2006-01-02"),
		"notes":       tx.Notes,
	}
}

// -------------------------
// POST /api/financial-transactions
// -------------------------
func CreateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}
		userIDVal := c.Locals(auth.CtxUserIDKey)
		userID, ok := userIDVal.(uint)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
		}

		var body CreateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Type != models.FinancialIncome && body.Type != models.FinancialExpense {
			return fiber.NewError(fiber.StatusBadRequest, "type INCOME veya EXPENSE olmalı")
		}
		if !validCategory(body.Category) {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori geçersiz")
		}
		body.Description = strings.TrimSpace(body.Description)
		if body.Description == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Açıklama zorunlu")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Tutar pozitif olmalı")
		}
		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		tx := models.FinancialTransaction{
			CompanyID:   companyID,
			UserID:      userID,
			Type:        body.Type,
			Category:    body.Category,
			Description: body.Description,
			Amount:      body.Amount,
			Date:        date,
			Notes:       body.Notes,
		}

		if err := database.DB.Create(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem kaydedilemedi")
		}

		writeAudit(c, companyID, tx.ID, models.AuditActionCreate,
			fmt.Sprintf("Finansal işlem eklendi: %s - %.2f", tx.Description, tx.Amount),
			nil, auditSnapshot(tx))

		return c.Status(fiber.StatusCreated).JSON(toResponse(tx))
	}
}

// -------------------------
// GET /api/financial-transactions?from=...&to=...&type=...&category=...
// -------------------------
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.FinancialTransaction{}).Where("company_id = ?", companyID)

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from geçersiz")
			}
			dbq = dbq.Where("date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to geçersiz")
			}
			dbq = dbq.Where("date <= ?", to)
		}
		if typeStr := c.Query("type"); typeStr != "" {
			tt := models.FinancialTransactionType(typeStr)
			if tt != models.FinancialIncome && tt != models.FinancialExpense {
				return fiber.NewError(fiber.StatusBadRequest, "type geçersiz")
			}
			dbq = dbq.Where("type = ?", tt)
		}
		if catStr := c.Query("category"); catStr != "" {
			cat := models.FinancialCategory(catStr)
			if !validCategory(cat) {
				return fiber.NewError(fiber.StatusBadRequest, "category geçersiz")
			}
			dbq = dbq.Where("category = ?", cat)
		}

		var rows []models.FinancialTransaction
		if err := dbq.Order("date asc, id asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlemler listelenemedi")
		}

		resp := make([]TransactionResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, toResponse(r))
		}
		return c.JSON(resp)
	}
}

// -------------------------
// PUT /api/financial-transactions/:id
// -------------------------
func UpdateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var tx models.FinancialTransaction
		if err := database.DB.First(&tx, "id = ? AND company_id = ?", c.Params("id"), companyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "İşlem bulunamadı")
		}

		var body UpdateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		before := auditSnapshot(tx)

		if body.Type != nil {
			if *body.Type != models.FinancialIncome && *body.Type != models.FinancialExpense {
				return fiber.NewError(fiber.StatusBadRequest, "type INCOME veya EXPENSE olmalı")
			}
			tx.Type = *body.Type
		}
		if body.Category != nil {
			if !validCategory(*body.Category) {
				return fiber.NewError(fiber.StatusBadRequest, "Kategori geçersiz")
			}
			tx.Category = *body.Category
		}
		if body.Description != nil {
			desc := strings.TrimSpace(*body.Description)
			if desc == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Açıklama boş olamaz")
			}
			tx.Description = desc
		}
		if body.Amount != nil {
			if *body.Amount <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Tutar pozitif olmalı")
			}
			tx.Amount = *body.Amount
		}
		if body.Date != nil {
			d, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			tx.Date = d
		}
		if body.Notes != nil {
			tx.Notes = *body.Notes
		}

		if err := database.DB.Save(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem güncellenemedi")
		}

		writeAudit(c, companyID, tx.ID, models.AuditActionUpdate,
			fmt.Sprintf("Finansal işlem güncellendi: %s", tx.Description),
			before, auditSnapshot(tx))

		return c.JSON(toResponse(tx))
	}
}

// -------------------------
// DELETE /api/financial-transactions/:id
// -------------------------
func DeleteTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var tx models.FinancialTransaction
		if err := database.DB.First(&tx, "id = ? AND company_id = ?", c.Params("id"), companyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "İşlem bulunamadı")
		}

		if err := database.DB.Delete(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem silinemedi")
		}

		writeAudit(c, companyID, tx.ID, models.AuditActionDelete,
			fmt.Sprintf("Finansal işlem silindi: %s - %.2f", tx.Description, tx.Amount),
			auditSnapshot(tx), nil)

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------
// Aylık gelir/gider özeti
// GET /api/financial-transactions/summary/monthly?year=2025&month=12
// -------------------------
func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		yearStr := c.Query("year")
		monthStr := c.Query("month")
		if yearStr == "" || monthStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "year ve month zorunlu")
		}

		var year, month int
		if _, err := fmt.Sscan(yearStr, &year); err != nil || year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year geçersiz")
		}
		if _, err := fmt.Sscan(monthStr, &month); err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month geçersiz")
		}

		firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		lastDay := firstDay.AddDate(0, 1, -1)

		type row struct {
			Type     models.FinancialTransactionType `gorm:"column:type"`
			Category models.FinancialCategory        `gorm:"column:category"`
			Total    float64                         `gorm:"column:total"`
		}
		var rows []row

		if err := database.DB.
			Model(&models.FinancialTransaction{}).
			Select("type, category, SUM(amount) as total").
			Where("company_id = ? AND date >= ? AND date <= ?", companyID, firstDay, lastDay).
			Group("type, category").
			Order("type, category").
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}

		resp := MonthlySummaryResponse{
			Year:    year,
			Month:   month,
			Income:  make([]MonthlySummaryItem, 0),
			Expense: make([]MonthlySummaryItem, 0),
		}
		for _, r := range rows {
			item := MonthlySummaryItem{Category: r.Category, Total: r.Total}
			if r.Type == models.FinancialIncome {
				resp.Income = append(resp.Income, item)
				resp.TotalIncome += r.Total
			} else {
				resp.Expense = append(resp.Expense, item)
				resp.TotalExpense += r.Total
			}
		}
		resp.Net = resp.TotalIncome - resp.TotalExpense

		return c.JSON(resp)
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
		EntityType:  "financial_transaction",
		EntityID:    entityID,
		Action:      action,
		Description: description,
		Before:      before,
		After:       after,
	}); logErr != nil {
		log.Printf("Audit log yazılamadı: %v", logErr)
	}
}
