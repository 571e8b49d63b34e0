package database

import (
	"testing"

	"github.com/GabeHenrique/ong-connect-api/internal/config"
	"github.com/GabeHenrique/ong-connect-api/internal/logger"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrateDatabase_Idempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	log := logger.Discard()

	require.NoError(t, MigrateDatabase(db, log))
	require.NoError(t, MigrateDatabase(db, log))

	migrator := db.Migrator()
	require.True(t, migrator.HasTable("event_volunteers"))
	require.True(t, migrator.HasTable("volunteer_applications"))
	require.True(t, migrator.HasIndex("event_volunteers", "idx_event_volunteers_user_id"))
}

func TestDialectorFor_UnsupportedDriver(t *testing.T) {
	_, err := dialectorFor(&config.Config{DBDriver: "oracle"})
	require.Error(t, err)
}
