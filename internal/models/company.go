package models

import "time"

// CompanyPlan - Firma abonelik planı
type CompanyPlan string

const (
	PlanDemo CompanyPlan = "demo"
	PlanPro  CompanyPlan = "pro"
)

// DemoSaleLimit - Demo plandaki firmaların oluşturabileceği toplam satış
// kaydı sayısı. Limit aşımında satışa aktarım 402 ile engellenir.
const DemoSaleLimit = 10

// Company - Tüm kayıtların sahibi olan firma. Her sorgu firma kapsamıyla
// daraltılır, firmalar birbirinin verisini göremez.
type Company struct {
	ID   uint        `gorm:"primaryKey"`
	Name string      `gorm:"size:150;not null"`
	Plan CompanyPlan `gorm:"size:10;not null;default:demo"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
