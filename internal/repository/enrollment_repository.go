package repository

import (
	"context"
	"fmt"

	"github.com/GabeHenrique/ong-connect-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEnrollmentRepository is a GORM implementation of EnrollmentRepository.
// Each mutation brackets its statements with an explicit Begin/Commit and
// rolls back on the first failure.
type GormEnrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &GormEnrollmentRepository{db: db}
}

// IsMember reports whether the user is on the event roster
func (r *GormEnrollmentRepository) IsMember(ctx context.Context, eventID, userID uint64) (bool, error) {
	return isMember(r.db.WithContext(ctx), eventID, userID)
}

// Join adds the user to the roster. The application table is not touched.
func (r *GormEnrollmentRepository) Join(ctx context.Context, eventID, userID uint64, capacity int) error {
	tx := r.db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return fmt.Errorf("begin join: %w", err)
	}

	if err := ensureCapacity(tx, eventID, capacity); err != nil {
		tx.Rollback()
		return err
	}

	if err := addToRoster(tx, eventID, userID); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// Leave deletes the user's application, if any, and removes the roster row.
func (r *GormEnrollmentRepository) Leave(ctx context.Context, eventID, userID uint64) error {
	tx := r.db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return fmt.Errorf("begin leave: %w", err)
	}

	if err := tx.Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&models.VolunteerApplication{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete application: %w", err)
	}

	if err := tx.Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&models.EventVolunteer{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("remove from roster: %w", err)
	}

	return tx.Commit().Error
}

// Apply creates or overwrites the (event, user) application and connects the
// user to the roster, which is a no-op for existing members. Capacity is only
// checked for users not yet on the roster.
func (r *GormEnrollmentRepository) Apply(ctx context.Context, application *models.VolunteerApplication, capacity int) error {
	tx := r.db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return fmt.Errorf("begin apply: %w", err)
	}

	member, err := isMember(tx, application.EventID, application.UserID)
	if err != nil {
		tx.Rollback()
		return err
	}

	if !member {
		if err := ensureCapacity(tx, application.EventID, capacity); err != nil {
			tx.Rollback()
			return err
		}
	}

	err = tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"phone", "qualifications", "observations", "updated_at"}),
		}).
		Create(application).Error
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("upsert application: %w", err)
	}

	if err := addToRoster(tx, application.EventID, application.UserID); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func isMember(db *gorm.DB, eventID, userID uint64) (bool, error) {
	var count int64
	err := db.Model(&models.EventVolunteer{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check roster membership: %w", err)
	}
	return count > 0, nil
}

// ensureCapacity locks the event row before counting so that concurrent
// enrollments for the same event are serialized until commit.
func ensureCapacity(tx *gorm.DB, eventID uint64, capacity int) error {
	if capacity <= 0 {
		return nil
	}

	var event models.Event
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", eventID).
		Take(&event).Error
	if err != nil {
		return fmt.Errorf("lock event: %w", err)
	}

	var count int64
	if err := tx.Model(&models.EventVolunteer{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
		return fmt.Errorf("count roster: %w", err)
	}
	if count >= int64(capacity) {
		return ErrCapacityReached
	}
	return nil
}

func addToRoster(tx *gorm.DB, eventID, userID uint64) error {
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.EventVolunteer{EventID: eventID, UserID: userID}).Error
	if err != nil {
		return fmt.Errorf("add to roster: %w", err)
	}
	return nil
}
