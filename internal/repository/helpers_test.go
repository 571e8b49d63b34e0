package repository

import (
	"testing"
	"time"

	"github.com/GabeHenrique/ong-connect-api/internal/database"
	"github.com/GabeHenrique/ong-connect-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A second connection would open a different in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		Name:         email,
		PasswordHash: "hashed",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestEvent(t *testing.T, db *gorm.DB, creatorID uint64, name string, date time.Time) *models.Event {
	t.Helper()
	event := &models.Event{
		Name:        name,
		Description: "Descrição de " + name,
		Location:    "São Paulo",
		Date:        date,
		Image:       "https://ong-connect.s3.sa-east-1.amazonaws.com/1-" + name + ".jpg",
		Vagas:       10,
		CreatorID:   creatorID,
	}
	require.NoError(t, db.Omit("Creator", "Volunteers", "Applications").Create(event).Error)
	return event
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
