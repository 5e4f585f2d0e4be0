package organization

import (
	"strings"

	"trackinn-backend/internal/auth"
	"trackinn-backend/internal/database"
	"trackinn-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateOrganizationRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	ContactPerson string `json:"contact_person"`
	ContactEmail  string `json:"contact_email"`
	ContactPhone  string `json:"contact_phone"`
	Country       string `json:"country"`
	City          string `json:"city"`
}

type UpdateOrganizationRequest struct {
	Name          *string                    `json:"name"`
	Description   *string                    `json:"description"`
	ContactPerson *string                    `json:"contact_person"`
	ContactEmail  *string                    `json:"contact_email"`
	ContactPhone  *string                    `json:"contact_phone"`
	Country       *string                    `json:"country"`
	City          *string                    `json:"city"`
	Status        *models.OrganizationStatus `json:"status"`
}

type OrganizationResponse struct {
	ID            uint                      `json:"id"`
	Name          string                    `json:"name"`
	Description   string                    `json:"description"`
	ContactPerson string                    `json:"contact_person"`
	ContactEmail  string                    `json:"contact_email"`
	ContactPhone  string                    `json:"contact_phone"`
	Country       string                    `json:"country"`
	City          string                    `json:"city"`
	Status        models.OrganizationStatus `json:"status"`
}

func toResponse(org models.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:            org.ID,
		Name:          org.Name,
		Description:   org.Description,
		ContactPerson: org.ContactPerson,
		ContactEmail:  org.ContactEmail,
		ContactPhone:  org.ContactPhone,
		Country:       org.Country,
		City:          org.City,
		Status:        org.Status,
	}
}

// -------------------------
// POST /api/organizations
// -------------------------
func CreateOrganizationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var body CreateOrganizationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Organizasyon adı zorunlu")
		}

		org := models.Organization{
			CompanyID:     companyID,
			Name:          body.Name,
			Description:   body.Description,
			ContactPerson: body.ContactPerson,
			ContactEmail:  body.ContactEmail,
			ContactPhone:  body.ContactPhone,
			Country:       body.Country,
			City:          body.City,
			Status:        models.OrganizationActive,
		}

		if err := database.DB.Create(&org).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Organizasyon oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(org))
	}
}

// -------------------------
// GET /api/organizations?status=ACTIVE
// -------------------------
func ListOrganizationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Where("company_id = ?", companyID)
		if statusStr := c.Query("status"); statusStr != "" {
			status := models.OrganizationStatus(statusStr)
			if status != models.OrganizationActive && status != models.OrganizationPassive {
				return fiber.NewError(fiber.StatusBadRequest, "status geçersiz")
			}
			dbq = dbq.Where("status = ?", status)
		}

		var orgs []models.Organization
		if err := dbq.Order("name asc").Find(&orgs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Organizasyonlar listelenemedi")
		}

		resp := make([]OrganizationResponse, 0, len(orgs))
		for _, org := range orgs {
			resp = append(resp, toResponse(org))
		}
		return c.JSON(resp)
	}
}

// -------------------------
// GET /api/organizations/:id
// -------------------------
func GetOrganizationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var org models.Organization
		if err := database.DB.First(&org, "id = ? AND company_id = ?", c.Params("id"), companyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Organizasyon bulunamadı")
		}

		return c.JSON(toResponse(org))
	}
}

// -------------------------
// PUT /api/organizations/:id
// -------------------------
func UpdateOrganizationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var org models.Organization
		if err := database.DB.First(&org, "id = ? AND company_id = ?", c.Params("id"), companyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Organizasyon bulunamadı")
		}

		var body UpdateOrganizationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Organizasyon adı boş olamaz")
			}
			org.Name = name
		}
		if body.Description != nil {
			org.Description = *body.Description
		}
		if body.ContactPerson != nil {
			org.ContactPerson = *body.ContactPerson
		}
		if body.ContactEmail != nil {
			org.ContactEmail = *body.ContactEmail
		}
		if body.ContactPhone != nil {
			org.ContactPhone = *body.ContactPhone
		}
		if body.Country != nil {
			org.Country = *body.Country
		}
		if body.City != nil {
			org.City = *body.City
		}
		if body.Status != nil {
			if *body.Status != models.OrganizationActive && *body.Status != models.OrganizationPassive {
				return fiber.NewError(fiber.StatusBadRequest, "status geçersiz")
			}
			org.Status = *body.Status
		}

		if err := database.DB.Save(&org).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Organizasyon güncellenemedi")
		}

		return c.JSON(toResponse(org))
	}
}

// -------------------------
// DELETE /api/organizations/:id
// -------------------------
func DeleteOrganizationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := auth.CompanyIDFromContext(c)
		if err != nil {
			return err
		}

		var org models.Organization
		if err := database.DB.First(&org, "id = ? AND company_id = ?", c.Params("id"), companyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Organizasyon bulunamadı")
		}

		// Konaklaması olan organizasyon silinmez, pasife çekilir
		var inUse int64
		database.DB.Model(&models.Accommodation{}).
			Where("organization_id = ?", org.ID).Count(&inUse)
		if inUse > 0 {
			return fiber.NewError(fiber.StatusConflict, "Konaklama kaydı olan organizasyon silinemez, pasife alın")
		}

		if err := database.DB.Delete(&org).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Organizasyon silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
