package models

import "time"

// InvoiceStatus - Fatura durumu
type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "PENDING"
	InvoiceIssued    InvoiceStatus = "ISSUED"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// PaymentStatus - Ödeme durumu. Ödenen/toplam tutardan türetilir,
// internal/pricing.DerivePayment ile hesaplanır.
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "UNPAID"
	PaymentPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentPaid          PaymentStatus = "PAID"
)

// AccommodationSale - Konaklama satış kaydı. Tam olarak bir alış kaydından
// türetilir; AccommodationID üzerindeki unique index aynı alışın iki kez
// satışa aktarılmasını veritabanı seviyesinde engeller.
type AccommodationSale struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"index;not null"`
	Company   Company

	AccommodationID uint `gorm:"uniqueIndex;not null"` // Kaynak alış kaydı
	Accommodation   Accommodation

	// Alış kaydından kopyalanan tanımlayıcı alanlar (denormalize)
	GuestName    string    `gorm:"size:150;not null"`
	Title        string    `gorm:"size:50"`
	Country      string    `gorm:"size:100"`
	City         string    `gorm:"size:100"`
	CheckInDate  time.Time `gorm:"index;not null"`
	CheckOutDate time.Time `gorm:"index;not null"`
	Nights       int       `gorm:"not null"`
	RoomType     string    `gorm:"size:100"`
	BoardType    string    `gorm:"size:100"`
	HotelName    string    `gorm:"size:150"`

	// Maliyet tarafı (alıştan kopya) ve satış tarafı
	NightlyCost      float64 `gorm:"not null"`
	TotalCost        float64 `gorm:"not null"`
	NightlySellPrice float64 `gorm:"not null"` // Gecelik satış fiyatı
	TotalSellPrice   float64 `gorm:"not null"` // Toplam satış fiyatı
	Profit           float64 `gorm:"not null"` // Kar
	ProfitPercent    float64 `gorm:"not null"` // Kar oranı (%)

	CustomerName        string `gorm:"size:150"`
	CustomerAccountCode string `gorm:"size:50"` // Müşteri cari kodu

	InvoiceStatus   InvoiceStatus `gorm:"size:20;not null;default:PENDING"`
	PaymentStatus   PaymentStatus `gorm:"size:20;not null;default:UNPAID"`
	PaidAmount      float64       `gorm:"not null;default:0"` // Ödenen tutar
	RemainingAmount float64       `gorm:"not null;default:0"` // Kalan tutar

	Notes string `gorm:"size:500"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
