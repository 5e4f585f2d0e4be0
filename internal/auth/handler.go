package auth

import (
	"strings"

	"trackinn-backend/internal/config"
	"trackinn-backend/internal/database"
	"trackinn-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterAdminRequest struct {
	CompanyName string `json:"company_name"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register-admin
// Yeni firma + firma yöneticisi kaydı. Firma demo planda başlar.
func RegisterAdminHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.CompanyName = strings.TrimSpace(body.CompanyName)

		if body.Email == "" || body.Password == "" || body.Name == "" || body.CompanyName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Firma adı, isim, email ve şifre zorunlu")
		}

		var count int64
		database.DB.Model(&models.User{}).
			Where("email = ?", body.Email).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu email ile kayıtlı kullanıcı zaten var")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		var user models.User
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			company := models.Company{
				Name: body.CompanyName,
				Plan: models.PlanDemo,
			}
			if err := tx.Create(&company).Error; err != nil {
				return err
			}

			user = models.User{
				CompanyID:    company.ID,
				Name:         body.Name,
				Email:        body.Email,
				PasswordHash: string(hash),
				Role:         models.RoleAdmin,
			}
			return tx.Create(&user).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":         user.ID,
			"email":      user.Email,
			"role":       user.Role,
			"company_id": user.CompanyID,
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":         user.ID,
				"name":       user.Name,
				"email":      user.Email,
				"role":       user.Role,
				"company_id": user.CompanyID,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDVal := c.Locals(CtxUserIDKey)
		roleVal := c.Locals(CtxUserRoleKey)
		companyIDVal := c.Locals(CtxCompanyIDKey)

		// Kullanıcı bilgilerini veritabanından çek
		var user models.User
		if userID, ok := userIDVal.(uint); ok {
			if err := database.DB.First(&user, userID).Error; err == nil {
				response := fiber.Map{
					"user_id":    user.ID,
					"name":       user.Name,
					"email":      user.Email,
					"role":       user.Role,
					"company_id": user.CompanyID,
				}

				var company models.Company
				if err := database.DB.First(&company, user.CompanyID).Error; err == nil {
					response["company"] = fiber.Map{
						"id":   company.ID,
						"name": company.Name,
						"plan": company.Plan,
					}
				}

				return c.JSON(response)
			}
		}

		// Fallback: Eğer veritabanından çekilemezse locals'dan döndür
		return c.JSON(fiber.Map{
			"user_id":    userIDVal,
			"role":       roleVal,
			"company_id": companyIDVal,
		})
	}
}
