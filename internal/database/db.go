package database

import (
	"log"

	"trackinn-backend/internal/config"
	"trackinn-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	// TranslateError: unique index ihlalleri gorm.ErrDuplicatedKey olarak
	// dönsün diye (transfer motoru bu hatayı ayırt eder)
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate - Tüm modelleri migrate eder. Testlerde sqlite üzerinde de kullanılır.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Organization{},
		&models.Accommodation{},
		&models.AccommodationSale{}, // accommodation_id üzerinde unique index taşır
		&models.FinancialTransaction{},
		&models.AuditLog{},
	)
}
