package transfer

import (
	"fmt"

	"trackinn-backend/internal/models"

	"gorm.io/gorm"
)

// BlockedInfo - Transfer engellendiğinde çağırana dönen yapısal yük.
// UI bu sayılarla "ödeme gerekli" akışını açar; jenerik bir hata mesajı değildir.
type BlockedInfo struct {
	AccommodationCount     int64  `json:"accommodationCount"`
	AccommodationSaleCount int64  `json:"accommodationSaleCount"`
	Message                string `json:"message"`
}

// Decision - Etiketli sonuç: Blocked nil ise transfer serbest. Guard'ın iki
// dalını da çağıranın açıkça ele alması için hata kanalı yerine bu tip kullanılır.
type Decision struct {
	Blocked *BlockedInfo
}

// Guard - Toplu alış->satış aktarımı öncesi faturalama ön koşulunu denetler.
// Kalıcı hiçbir şey yazmaz; faturalama durumu çağrılar arasında değişebileceği
// için her parti öncesi taze sorgulanır, sonuç cache'lenmez.
type Guard interface {
	Check(db *gorm.DB, companyID uint, candidateCount int) (Decision, error)
}

// PlanGuard - Plan limitine dayalı üretim guard'ı. Demo plandaki firmalar
// satış kaydı limitini aşacaksa aktarım engellenir ve mevcut sayılar döner.
type PlanGuard struct{}

func (PlanGuard) Check(db *gorm.DB, companyID uint, candidateCount int) (Decision, error) {
	var company models.Company
	if err := db.First(&company, "id = ?", companyID).Error; err != nil {
		return Decision{}, fmt.Errorf("firma bulunamadı: %w", err)
	}

	var accommodationCount, saleCount int64
	if err := db.Model(&models.Accommodation{}).
		Where("company_id = ?", companyID).
		Count(&accommodationCount).Error; err != nil {
		return Decision{}, err
	}
	if err := db.Model(&models.AccommodationSale{}).
		Where("company_id = ?", companyID).
		Count(&saleCount).Error; err != nil {
		return Decision{}, err
	}

	if company.Plan != models.PlanPro && saleCount+int64(candidateCount) > models.DemoSaleLimit {
		return Decision{Blocked: &BlockedInfo{
			AccommodationCount:     accommodationCount,
			AccommodationSaleCount: saleCount,
			Message:                fmt.Sprintf("Demo plan satış limitine ulaşıldı (%d kayıt). Aktarıma devam etmek için Pro plana geçin.", models.DemoSaleLimit),
		}}, nil
	}

	return Decision{}, nil
}
