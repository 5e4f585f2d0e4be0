package models

import "time"

// FinancialTransactionType - İşlem yönü
type FinancialTransactionType string

const (
	FinancialIncome  FinancialTransactionType = "INCOME"  // Gelir
	FinancialExpense FinancialTransactionType = "EXPENSE" // Gider
)

// FinancialCategory - İşlem kategorisi
type FinancialCategory string

const (
	CategoryAccommodation  FinancialCategory = "ACCOMMODATION"
	CategoryTransport      FinancialCategory = "TRANSPORT"
	CategoryOfficeExpenses FinancialCategory = "OFFICE_EXPENSES"
	CategorySupplier       FinancialCategory = "SUPPLIER_PAYMENT"
	CategorySalary         FinancialCategory = "SALARY"
	CategoryTax            FinancialCategory = "TAX"
	CategoryOther          FinancialCategory = "OTHER"
)

// FinancialTransaction - Gelir/gider defteri kaydı. Konaklama hattından
// bağımsızdır, sadece firma kapsamını paylaşır.
type FinancialTransaction struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"index;not null"`
	Company   Company
	UserID    uint `gorm:"index;not null"` // Kaydı giren kullanıcı
	User      User

	Type        FinancialTransactionType `gorm:"size:10;not null;index"`
	Category    FinancialCategory        `gorm:"size:30;not null;index"`
	Description string                   `gorm:"size:500;not null"`
	Amount      float64                  `gorm:"not null"`
	Date        time.Time                `gorm:"index;not null"`
	Notes       string                   `gorm:"size:500"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
