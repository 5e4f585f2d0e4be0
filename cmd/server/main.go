package main

import (
	"log"
	"strings"

	"trackinn-backend/internal/accommodation"
	"trackinn-backend/internal/audit"
	"trackinn-backend/internal/auth"
	"trackinn-backend/internal/config"
	"trackinn-backend/internal/database"
	"trackinn-backend/internal/finance"
	"trackinn-backend/internal/models"
	"trackinn-backend/internal/organization"
	"trackinn-backend/internal/report"
	"trackinn-backend/internal/sales"
	"trackinn-backend/internal/transfer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den temizleyerek geçir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Konaklama alış kayıtları
	protected.Post("/accommodations", accommodation.CreateAccommodationHandler())
	protected.Get("/accommodations", accommodation.ListAccommodationsHandler())
	protected.Get("/accommodations/stats", accommodation.AccommodationStatsHandler())
	protected.Get("/accommodations/transferred-ids", transfer.TransferredIDsHandler())
	protected.Post("/accommodations/transfer-to-sales", transfer.TransferToSalesHandler())
	protected.Delete("/accommodations/bulk", accommodation.BulkDeleteAccommodationsHandler())
	protected.Get("/accommodations/:id", accommodation.GetAccommodationHandler())
	protected.Put("/accommodations/:id", accommodation.UpdateAccommodationHandler())
	protected.Delete("/accommodations/:id", accommodation.DeleteAccommodationHandler())

	// Konaklama satış kayıtları
	protected.Get("/accommodation-sales", sales.ListSalesHandler())
	protected.Get("/accommodation-sales/stats", sales.SaleStatsHandler())
	protected.Get("/accommodation-sales/export", sales.ExportSalesHandler())
	protected.Delete("/accommodation-sales/bulk", sales.BulkDeleteSalesHandler())
	protected.Get("/accommodation-sales/:id", sales.GetSaleHandler())
	protected.Put("/accommodation-sales/:id", sales.UpdateSaleHandler())
	protected.Put("/accommodation-sales/:id/payment-status", sales.UpdatePaymentStatusHandler())
	protected.Delete("/accommodation-sales/:id", sales.DeleteSaleHandler())

	// Puantaj raporu
	protected.Get("/reports/occupancy", report.OccupancyReportHandler())

	// Gelir/gider defteri
	protected.Post("/financial-transactions", finance.CreateTransactionHandler())
	protected.Get("/financial-transactions", finance.ListTransactionsHandler())
	protected.Get("/financial-transactions/summary/monthly", finance.MonthlySummaryHandler())
	protected.Put("/financial-transactions/:id", finance.UpdateTransactionHandler())
	protected.Delete("/financial-transactions/:id", finance.DeleteTransactionHandler())

	// Organizasyonlar
	protected.Post("/organizations", organization.CreateOrganizationHandler())
	protected.Get("/organizations", organization.ListOrganizationsHandler())
	protected.Get("/organizations/:id", organization.GetOrganizationHandler())
	protected.Put("/organizations/:id", organization.UpdateOrganizationHandler())
	protected.Delete("/organizations/:id", organization.DeleteOrganizationHandler())

	// Audit logs (sadece admin geri alabilir)
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", auth.RequireRole(models.RoleAdmin), audit.UndoAuditLogHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
