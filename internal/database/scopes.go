package database

import (
	"strings"

	"gorm.io/gorm"
)

// Limit caps the number of rows. Non-positive values leave the query uncapped.
func Limit(n int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if n <= 0 {
			return db
		}
		return db.Limit(n)
	}
}

// SearchEvents matches term as a case-insensitive substring of the event
// name, description or location.
func SearchEvents(term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}

		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		return db.Where(
			"(LOWER(events.name) LIKE ? ESCAPE '!' OR LOWER(events.description) LIKE ? ESCAPE '!' OR LOWER(events.location) LIKE ? ESCAPE '!')",
			pattern, pattern, pattern,
		)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
