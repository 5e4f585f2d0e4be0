package transfer

import (
	"errors"
	"log"

	"trackinn-backend/internal/audit"
	"trackinn-backend/internal/auth"
	"trackinn-backend/internal/database"
	"trackinn-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// POST /api/accommodations/transfer-to-sales
//
// Guard engellediğinde 402 döner; gövde, ödeme akışını açmaya yetecek
// yapısal sayıları taşır. 400/500 ile karıştırılmaz.
func TransferToSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var body Request
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		result, err := Execute(database.DB, companyID, body, PlanGuard{})
		if err != nil {
			var vErr *ValidationError
			if errors.As(err, &vErr) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": vErr.Reason,
					"ids":   vErr.IDs,
				})
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Aktarım gerçekleştirilemedi")
		}

		if result.PaymentRequired != nil {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error":       result.PaymentRequired.Message,
				"paymentData": result.PaymentRequired,
			})
		}

		// Audit log yaz
		userID, userName, uErr := getUserInfo(c)
		if uErr == nil {
			for _, saleID := range result.CreatedIDs {
				if logErr := audit.WriteLog(audit.LogOptions{
					CompanyID:   companyID,
					UserID:      userID,
					UserName:    userName,
					EntityType:  "accommodation_sale",
					EntityID:    saleID,
					Action:      models.AuditActionCreate,
					Description: "Alış kaydı satışa aktarıldı",
					Before:      nil,
					After:       fiber.Map{"id": saleID},
				}); logErr != nil {
					log.Printf("Audit log yazılamadı: %v", logErr)
				}
			}
		}

		status := fiber.StatusOK
		if result.CreatedCount > 0 {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(result)
	}
}

// GET /api/accommodations/transferred-ids
// Alış id -> satış id eşlemesi; UI aktarılmış satırları pasifleştirmek için kullanır.
func TransferredIDsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		lookup, err := TransferredLookup(database.DB, companyID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Aktarım bilgisi sorgulanamadı")
		}

		return c.JSON(fiber.Map{"transferred": lookup})
	}
}

func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}

	return userID, user.Name, nil
}
