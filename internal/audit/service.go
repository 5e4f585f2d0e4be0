package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"trackinn-backend/internal/database"
	"trackinn-backend/internal/models"
)

type LogOptions struct {
	CompanyID   uint
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// PostgreSQL jsonb için boş string yerine "null" JSON string'i kullanmalıyız
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		CompanyID:   opts.CompanyID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		Undone:      false,
		IsUndone:    false,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}

	return nil
}

// UndoLog - Bir audit log'u undo et
func UndoLog(logID uint, userID uint, userName string) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log bulunamadı: %w", err)
	}

	// Zaten undo edilmiş mi?
	if log.IsUndone {
		return fmt.Errorf("bu işlem zaten geri alınmış")
	}

	// Undo işlemini gerçekleştir
	switch log.Action {
	case models.AuditActionCreate:
		// Create ise entity'yi sil
		if err := deleteEntity(log.EntityType, log.EntityID); err != nil {
			return fmt.Errorf("entity silinemedi: %w", err)
		}

	case models.AuditActionUpdate:
		// Update ise önceki haline geri döndür
		if err := restoreEntity(log.EntityType, log.EntityID, log.BeforeData); err != nil {
			return fmt.Errorf("entity geri yüklenemedi: %w", err)
		}

	case models.AuditActionDelete:
		// Delete loglarında silinen halin snapshot'ı Before tarafındadır
		// (After boş); geri oluşturma o snapshot'tan yapılır
		if err := recreateEntity(log.EntityType, log.BeforeData); err != nil {
			return fmt.Errorf("entity geri oluşturulamadı: %w", err)
		}

	default:
		return fmt.Errorf("bu işlem türü geri alınamaz")
	}

	// Log'u işaretle
	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("log güncellenemedi: %w", err)
	}

	// Undo işlemi için yeni bir log oluştur
	undoLog := models.AuditLog{
		CompanyID:   log.CompanyID,
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Geri alındı: %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
		Undone:      true,
		IsUndone:    false,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("undo log kaydedilemedi: %w", err)
	}

	return nil
}

// deleteEntity - Entity'yi sil
func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "accommodation":
		return database.DB.Delete(&models.Accommodation{}, "id = ?", entityID).Error
	case "accommodation_sale":
		return database.DB.Delete(&models.AccommodationSale{}, "id = ?", entityID).Error
	case "financial_transaction":
		return database.DB.Delete(&models.FinancialTransaction{}, "id = ?", entityID).Error
	case "organization":
		return database.DB.Delete(&models.Organization{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}


// Snapshot'lar kolon adlarıyla (snake_case) yazılır; geri alma sırasında
// model struct'ına değil doğrudan kolon haritasına çözülür. Bilinmeyen
// anahtarlar elenir, id hiçbir zaman taşınmaz.
var entityColumns = map[string][]string{
	"accommodation": {
		"company_id", "guest_name", "title", "country", "city",
		"check_in_date", "check_out_date", "nights", "room_type", "board_type",
		"hotel_name", "nightly_cost", "total_cost",
		"is_individual", "organization_id", "organization_account",
	},
	"accommodation_sale": {
		"company_id", "accommodation_id", "guest_name", "title", "country", "city",
		"check_in_date", "check_out_date", "nights", "room_type", "board_type",
		"hotel_name", "nightly_cost", "total_cost",
		"nightly_sell_price", "total_sell_price", "profit", "profit_percent",
		"customer_name", "customer_account_code",
		"invoice_status", "payment_status", "paid_amount", "remaining_amount", "notes",
	},
	"financial_transaction": {
		"company_id", "user_id", "type", "category", "description", "amount", "date", "notes",
	},
	"organization": {
		"company_id", "name", "description", "contact_person", "contact_email",
		"contact_phone", "country", "city", "status",
	},
}

func modelFor(entityType string) (interface{}, error) {
	switch entityType {
	case "accommodation":
		return &models.Accommodation{}, nil
	case "accommodation_sale":
		return &models.AccommodationSale{}, nil
	case "financial_transaction":
		return &models.FinancialTransaction{}, nil
	case "organization":
		return &models.Organization{}, nil
	default:
		return nil, fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

func snapshotColumns(entityType, dataJSON string) (map[string]interface{}, error) {
	cols, ok := entityColumns[entityType]
	if !ok {
		return nil, fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(dataJSON), &raw); err != nil {
		return nil, fmt.Errorf("snapshot çözümlenemedi: %w", err)
	}

	values := make(map[string]interface{}, len(cols))
	for _, col := range cols {
		if v, ok := raw[col]; ok {
			values[col] = v
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("snapshot boş, geri alınamaz")
	}
	return values, nil
}

// recreateEntity - Silinen entity'yi snapshot'ından geri oluştur
func recreateEntity(entityType string, dataJSON string) error {
	model, err := modelFor(entityType)
	if err != nil {
		return err
	}
	values, err := snapshotColumns(entityType, dataJSON)
	if err != nil {
		return err
	}
	// Kaynak alış bu arada yeniden satışa aktarıldıysa accommodation_id
	// üzerindeki unique index engeller; hata olduğu gibi yukarı döner
	return database.DB.Model(model).Create(values).Error
}

// restoreEntity - Entity'yi update öncesi haline geri yükle
func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	model, err := modelFor(entityType)
	if err != nil {
		return err
	}
	values, err := snapshotColumns(entityType, dataJSON)
	if err != nil {
		return err
	}
	// Firma kapsamı güncellemeyle değişmez
	delete(values, "company_id")
	return database.DB.Model(model).Where("id = ?", entityID).Updates(values).Error
}
