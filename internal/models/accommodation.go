package models

import "time"

// Accommodation - Konaklama alış kaydı. Otelden misafir adına satın alınan
// konaklamanın maliyet tarafı. Satışa aktarıldıktan sonra da yerinde kalır,
// aktarım ilişkisi AccommodationSale.AccommodationID üzerinden takip edilir.
type Accommodation struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"index;not null"`
	Company   Company

	GuestName string `gorm:"size:150;not null"` // Misafir adı soyadı
	Title     string `gorm:"size:50"`           // Ünvan (Bay, Bayan, Dr. ...)
	Country   string `gorm:"size:100"`
	City      string `gorm:"size:100"`

	CheckInDate  time.Time `gorm:"index;not null"` // Giriş tarihi
	CheckOutDate time.Time `gorm:"index;not null"` // Çıkış tarihi
	Nights       int       `gorm:"not null"`       // Gece sayısı

	RoomType  string `gorm:"size:100"` // Oda tipi
	BoardType string `gorm:"size:100"` // Konaklama tipi (OK, YP, TP, HD...)
	HotelName string `gorm:"size:150"`

	NightlyCost float64 `gorm:"not null"` // Gecelik alış ücreti
	TotalCost   float64 `gorm:"not null"` // Toplam alış ücreti (gecelik x gece)

	// Münferit (bireysel) kayıtlarda organizasyon bağlantısı yoktur
	IsIndividual        bool `gorm:"not null;default:true"`
	OrganizationID      *uint
	Organization        *Organization
	OrganizationAccount string `gorm:"size:50"` // Kurum cari kodu

	CreatedAt time.Time
	UpdatedAt time.Time
}
