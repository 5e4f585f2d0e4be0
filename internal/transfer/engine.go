package transfer

import (
	"errors"
	"fmt"

	"trackinn-backend/internal/models"
	"trackinn-backend/internal/pricing"

	"gorm.io/gorm"
)

// SellPrice - Çağıranın (UI önizlemesinde pricing ile seçtiği) satış fiyatı.
type SellPrice struct {
	NightlySellPrice float64 `json:"nightly_sell_price"`
	TotalSellPrice   float64 `json:"total_sell_price"`
}

// PaidPolicy - Yeni satış kaydının başlangıç tahsilat politikası.
type PaidPolicy string

const (
	PaidPolicyUnpaid PaidPolicy = "unpaid"       // Varsayılan: tahsilat yok
	PaidPolicyFull   PaidPolicy = "paid_in_full" // Peşin: toplam satış tutarı tahsil edilmiş sayılır
)

// Request - Toplu aktarım isteği. Prices her aday alış id'si için zorunludur.
type Request struct {
	IDs        []uint             `json:"ids"`
	Prices     map[uint]SellPrice `json:"prices"`
	PaidPolicy PaidPolicy         `json:"paid_policy"`
}

// Result - Parti sonucu. Oluşanların tam listesi her zaman döner; kısmi
// hata durumunda çağıran sadece FailedIDs kalanını yeniden deneyebilir.
// PaymentRequired dolu ise hiçbir kayıt oluşturulmamıştır.
type Result struct {
	PaymentRequired *BlockedInfo `json:"payment_required,omitempty"`

	CreatedIDs         []uint `json:"created_ids"`          // Oluşan satış kayıtlarının id'leri
	CreatedCount       int    `json:"created_count"`
	AlreadyTransferred []uint `json:"already_transferred"`  // Daha önce aktarılmış alış id'leri
	FailedIDs          []uint `json:"failed_ids"`           // Kalıcılık hatası alan alış id'leri
	Message            string `json:"message"`
}

// ValidationError - Hiçbir şey persist edilmeden reddedilen istekler.
// Sorunlu id'ler raporlanır.
type ValidationError struct {
	Reason string
	IDs    []uint
}

func (e *ValidationError) Error() string {
	if len(e.IDs) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.IDs)
}

// Execute - Seçilen alış kayıtlarını satış kayıtlarına aktarır.
//
// Sıra: doğrulama -> daha önce aktarılmışları ayıkla -> guard -> kayıt başına
// oluştur. Guard engellediyse hiçbir kayıt yazılmaz. Aynı alışın iki eş zamanlı
// istekle iki kez aktarılması, accommodation_id üzerindeki unique index ile
// yazma anında engellenir; index ihlali AlreadyTransferred olarak raporlanır.
func Execute(db *gorm.DB, companyID uint, req Request, guard Guard) (*Result, error) {
	ids := dedupe(req.IDs)
	if len(ids) == 0 {
		return nil, &ValidationError{Reason: "Aktarılacak kayıt seçilmedi"}
	}
	if req.PaidPolicy == "" {
		req.PaidPolicy = PaidPolicyUnpaid
	}
	if req.PaidPolicy != PaidPolicyUnpaid && req.PaidPolicy != PaidPolicyFull {
		return nil, &ValidationError{Reason: fmt.Sprintf("Geçersiz tahsilat politikası: %s", req.PaidPolicy)}
	}

	// Alış kayıtlarını firma kapsamında yükle; bulunamayan veya başka
	// firmaya ait id'ler doğrulama hatasıdır
	var accommodations []models.Accommodation
	if err := db.Where("company_id = ? AND id IN ?", companyID, ids).
		Find(&accommodations).Error; err != nil {
		return nil, fmt.Errorf("alış kayıtları yüklenemedi: %w", err)
	}

	byID := make(map[uint]models.Accommodation, len(accommodations))
	for _, acc := range accommodations {
		byID[acc.ID] = acc
	}

	var missing []uint
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Reason: "Alış kaydı bulunamadı", IDs: missing}
	}

	// Daha önce aktarılmış id'leri ayıkla; kalan adaylar işlenmeye devam eder
	var existing []models.AccommodationSale
	if err := db.Select("accommodation_id").
		Where("company_id = ? AND accommodation_id IN ?", companyID, ids).
		Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("mevcut satışlar sorgulanamadı: %w", err)
	}
	transferred := make(map[uint]bool, len(existing))
	for _, s := range existing {
		transferred[s.AccommodationID] = true
	}

	result := &Result{
		CreatedIDs:         []uint{},
		AlreadyTransferred: []uint{},
		FailedIDs:          []uint{},
	}

	var candidates []uint
	for _, id := range ids {
		if transferred[id] {
			result.AlreadyTransferred = append(result.AlreadyTransferred, id)
			continue
		}
		candidates = append(candidates, id)
	}

	// Adayların tamamı için fiyat girilmiş olmalı; eksik varsa hiçbir şey yazılmaz
	var missingPrice []uint
	for _, id := range candidates {
		price, ok := req.Prices[id]
		if !ok || price.NightlySellPrice <= 0 {
			missingPrice = append(missingPrice, id)
		}
	}
	if len(missingPrice) > 0 {
		return nil, &ValidationError{Reason: "Satış fiyatı girilmemiş", IDs: missingPrice}
	}

	if len(candidates) == 0 {
		result.Message = fmt.Sprintf("Seçilen %d kayıt zaten satışa aktarılmış", len(result.AlreadyTransferred))
		return result, nil
	}

	// Faturalama ön koşulu her parti için taze kontrol edilir
	decision, err := guard.Check(db, companyID, len(candidates))
	if err != nil {
		return nil, fmt.Errorf("transfer ön koşulu kontrol edilemedi: %w", err)
	}
	if decision.Blocked != nil {
		result.PaymentRequired = decision.Blocked
		return result, nil
	}

	for _, id := range candidates {
		acc := byID[id]
		price := req.Prices[id]

		quote := pricing.QuoteFromSell(acc.NightlyCost, acc.Nights, price.NightlySellPrice, price.TotalSellPrice).Round()

		paid := 0.0
		if req.PaidPolicy == PaidPolicyFull {
			paid = quote.TotalSell
		}
		status, remaining := pricing.DerivePayment(paid, quote.TotalSell)

		sale := models.AccommodationSale{
			CompanyID:       companyID,
			AccommodationID: acc.ID,

			GuestName:    acc.GuestName,
			Title:        acc.Title,
			Country:      acc.Country,
			City:         acc.City,
			CheckInDate:  acc.CheckInDate,
			CheckOutDate: acc.CheckOutDate,
			Nights:       acc.Nights,
			RoomType:     acc.RoomType,
			BoardType:    acc.BoardType,
			HotelName:    acc.HotelName,

			NightlyCost:      acc.NightlyCost,
			TotalCost:        acc.TotalCost,
			NightlySellPrice: quote.NightlySell,
			TotalSellPrice:   quote.TotalSell,
			Profit:           quote.Profit,
			ProfitPercent:    quote.ProfitPercent,

			InvoiceStatus:   models.InvoicePending,
			PaymentStatus:   status,
			PaidAmount:      paid,
			RemainingAmount: remaining,
		}

		if err := db.Create(&sale).Error; err != nil {
			// Eş zamanlı ikinci istek aynı alışı bizden önce aktardıysa
			// unique index ihlali alırız; bu bir hata değil, aktarılmış demektir
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				result.AlreadyTransferred = append(result.AlreadyTransferred, id)
				continue
			}
			result.FailedIDs = append(result.FailedIDs, id)
			continue
		}

		result.CreatedIDs = append(result.CreatedIDs, sale.ID)
	}

	result.CreatedCount = len(result.CreatedIDs)
	result.Message = buildMessage(result)
	return result, nil
}

// TransferredLookup - Alış id -> satış id eşlemesi. Alış listesinde aktarılmış
// kayıtların işaretlenmesi için kullanılır; arama yabancı anahtar üzerinden
// yapılır, alış kaydı satışını bilmez.
func TransferredLookup(db *gorm.DB, companyID uint) (map[uint]uint, error) {
	var sales []models.AccommodationSale
	if err := db.Select("id", "accommodation_id").
		Where("company_id = ?", companyID).
		Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("satış kayıtları sorgulanamadı: %w", err)
	}

	lookup := make(map[uint]uint, len(sales))
	for _, s := range sales {
		lookup[s.AccommodationID] = s.ID
	}
	return lookup, nil
}

func buildMessage(r *Result) string {
	msg := fmt.Sprintf("%d kayıt satışa aktarıldı", r.CreatedCount)
	if len(r.AlreadyTransferred) > 0 {
		msg += fmt.Sprintf(", %d kayıt zaten aktarılmıştı", len(r.AlreadyTransferred))
	}
	if len(r.FailedIDs) > 0 {
		msg += fmt.Sprintf(", %d kayıt aktarılamadı", len(r.FailedIDs))
	}
	return msg
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
