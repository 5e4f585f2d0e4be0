package audit_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trackinn-backend/internal/audit"
	"trackinn-backend/internal/database"
	"trackinn-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db
	return db
}

func newCompanyAndUser(t *testing.T, db *gorm.DB) (models.Company, models.User) {
	company := models.Company{Name: "Test Turizm", Plan: models.PlanDemo}
	require.NoError(t, db.Create(&company).Error)
	user := models.User{
		CompanyID:    company.ID,
		Name:         "Ayşe Demir",
		Email:        fmt.Sprintf("%s@test.local", t.Name()),
		PasswordHash: "x",
		Role:         models.RoleAdmin,
	}
	require.NoError(t, db.Create(&user).Error)
	return company, user
}

// Handler'ların delete akışıyla birebir: snapshot Before tarafına yazılır,
// After boş kalır
func accommodationSnapshot(a models.Accommodation) map[string]interface{} {
	return map[string]interface{}{
		"id":                   a.ID,
		"company_id":           a.CompanyID,
		"guest_name":           a.GuestName,
		"title":                a.Title,
		"country":              a.Country,
		"city":                 a.City,
		"check_in_date":        a.CheckInDate.Format("2006-01-02"),
		"check_out_date":       a.CheckOutDate.Format("2006-01-02"),
		"nights":               a.Nights,
		"room_type":            a.RoomType,
		"board_type":           a.BoardType,
		"hotel_name":           a.HotelName,
		"nightly_cost":         a.NightlyCost,
		"total_cost":           a.TotalCost,
		"is_individual":        a.IsIndividual,
		"organization_id":      a.OrganizationID,
		"organization_account": a.OrganizationAccount,
	}
}

func newAccommodation(t *testing.T, db *gorm.DB, companyID uint) models.Accommodation {
	acc := models.Accommodation{
		CompanyID:    companyID,
		GuestName:    "Ahmet Yılmaz",
		Title:        "Bay",
		Country:      "Türkiye",
		City:         "Antalya",
		CheckInDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Nights:       3,
		RoomType:     "Standart",
		BoardType:    "Yarım Pansiyon",
		HotelName:    "Grand Hotel Antalya",
		NightlyCost:  1000,
		TotalCost:    3000,
		IsIndividual: true,
	}
	require.NoError(t, db.Create(&acc).Error)
	return acc
}

func TestUndoLog_DeleteRecreatesEntity(t *testing.T) {
	db := newTestDB(t)
	company, user := newCompanyAndUser(t, db)
	acc := newAccommodation(t, db, company.ID)

	snapshot := accommodationSnapshot(acc)
	require.NoError(t, db.Delete(&acc).Error)

	require.NoError(t, audit.WriteLog(audit.LogOptions{
		CompanyID:   company.ID,
		UserID:      user.ID,
		UserName:    user.Name,
		EntityType:  "accommodation",
		EntityID:    acc.ID,
		Action:      models.AuditActionDelete,
		Description: "Konaklama silindi",
		Before:      snapshot,
		After:       nil,
	}))

	var log models.AuditLog
	require.NoError(t, db.First(&log, "entity_type = ? AND entity_id = ?", "accommodation", acc.ID).Error)

	require.NoError(t, audit.UndoLog(log.ID, user.ID, user.Name))

	var restored models.Accommodation
	require.NoError(t, db.First(&restored, "company_id = ? AND guest_name = ?", company.ID, "Ahmet Yılmaz").Error)
	assert.Equal(t, "Grand Hotel Antalya", restored.HotelName)
	assert.Equal(t, 3, restored.Nights)
	assert.Equal(t, 3000.0, restored.TotalCost)
	assert.Equal(t, "2024-03-01", restored.CheckInDate.Format("2006-01-02"))
	assert.True(t, restored.IsIndividual)

	// Log geri alındı olarak işaretlenir ve bir undo logu düşülür
	require.NoError(t, db.First(&log, log.ID).Error)
	assert.True(t, log.IsUndone)
	var undoCount int64
	db.Model(&models.AuditLog{}).
		Where("action = ?", models.AuditActionUndo).Count(&undoCount)
	assert.Equal(t, int64(1), undoCount)
}

func TestUndoLog_UpdateRestoresBefore(t *testing.T) {
	db := newTestDB(t)
	company, user := newCompanyAndUser(t, db)
	acc := newAccommodation(t, db, company.ID)

	before := accommodationSnapshot(acc)
	require.NoError(t, db.Model(&acc).Updates(map[string]interface{}{
		"guest_name":   "Mehmet Kaya",
		"nightly_cost": 1500.0,
		"total_cost":   4500.0,
	}).Error)

	require.NoError(t, audit.WriteLog(audit.LogOptions{
		CompanyID:  company.ID,
		UserID:     user.ID,
		UserName:   user.Name,
		EntityType: "accommodation",
		EntityID:   acc.ID,
		Action:     models.AuditActionUpdate,
		Before:     before,
		After:      map[string]interface{}{"guest_name": "Mehmet Kaya"},
	}))

	var log models.AuditLog
	require.NoError(t, db.First(&log, "action = ?", models.AuditActionUpdate).Error)
	require.NoError(t, audit.UndoLog(log.ID, user.ID, user.Name))

	var restored models.Accommodation
	require.NoError(t, db.First(&restored, acc.ID).Error)
	assert.Equal(t, "Ahmet Yılmaz", restored.GuestName)
	assert.Equal(t, 1000.0, restored.NightlyCost)
	assert.Equal(t, 3000.0, restored.TotalCost)
}

func TestUndoLog_CreateDeletesEntity(t *testing.T) {
	db := newTestDB(t)
	company, user := newCompanyAndUser(t, db)
	acc := newAccommodation(t, db, company.ID)

	require.NoError(t, audit.WriteLog(audit.LogOptions{
		CompanyID:  company.ID,
		UserID:     user.ID,
		UserName:   user.Name,
		EntityType: "accommodation",
		EntityID:   acc.ID,
		Action:     models.AuditActionCreate,
		Before:     nil,
		After:      accommodationSnapshot(acc),
	}))

	var log models.AuditLog
	require.NoError(t, db.First(&log, "action = ?", models.AuditActionCreate).Error)
	require.NoError(t, audit.UndoLog(log.ID, user.ID, user.Name))

	var count int64
	db.Model(&models.Accommodation{}).Where("id = ?", acc.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUndoLog_AlreadyUndone(t *testing.T) {
	db := newTestDB(t)
	company, user := newCompanyAndUser(t, db)
	acc := newAccommodation(t, db, company.ID)

	require.NoError(t, audit.WriteLog(audit.LogOptions{
		CompanyID:  company.ID,
		UserID:     user.ID,
		UserName:   user.Name,
		EntityType: "accommodation",
		EntityID:   acc.ID,
		Action:     models.AuditActionCreate,
		After:      accommodationSnapshot(acc),
	}))

	var log models.AuditLog
	require.NoError(t, db.First(&log, "action = ?", models.AuditActionCreate).Error)
	require.NoError(t, audit.UndoLog(log.ID, user.ID, user.Name))

	err := audit.UndoLog(log.ID, user.ID, user.Name)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zaten geri alınmış")
}
