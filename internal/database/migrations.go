package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// AddIndexes creates lookup indexes that the model tags do not declare.
func AddIndexes(db *gorm.DB, log *slog.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Roster lookups by volunteer (events of a user)
		{"event_volunteers", "idx_event_volunteers_user_id", "user_id"},

		// Applications by user
		{"volunteer_applications", "idx_volunteer_applications_user_id", "user_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}

// MigrateDatabase runs model migrations followed by index creation.
func MigrateDatabase(db *gorm.DB, log *slog.Logger) error {
	if err := Migrate(db); err != nil {
		return err
	}

	if err := AddIndexes(db, log); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
