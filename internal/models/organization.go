package models

import "time"

// OrganizationStatus - Organizasyon durumu
type OrganizationStatus string

const (
	OrganizationActive  OrganizationStatus = "ACTIVE"
	OrganizationPassive OrganizationStatus = "PASSIVE"
)

// Organization - Kurumsal faturalama yapılan organizasyon (acente, şirket).
// Münferit konaklamalarda organizasyon bağlantısı bulunmaz.
type Organization struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"index;not null"`
	Company   Company

	Name          string             `gorm:"size:150;not null"`
	Description   string             `gorm:"size:500"`
	ContactPerson string             `gorm:"size:100"`
	ContactEmail  string             `gorm:"size:100"`
	ContactPhone  string             `gorm:"size:30"`
	Country       string             `gorm:"size:100"`
	City          string             `gorm:"size:100"`
	Status        OrganizationStatus `gorm:"size:20;not null;default:ACTIVE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
