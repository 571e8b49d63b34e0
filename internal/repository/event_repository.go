package repository

import (
	"context"
	"fmt"

	"github.com/GabeHenrique/ong-connect-api/internal/database"
	"github.com/GabeHenrique/ong-connect-api/internal/models"
	"gorm.io/gorm"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create creates a new event
func (r *GormEventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Omit("Creator", "Volunteers", "Applications").Create(event).Error
}

// FindByID finds an event by ID with optional preloading
func (r *GormEventRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Event, error) {
	var event models.Event
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&event, id).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

// List retrieves events ordered by ascending date
func (r *GormEventRepository) List(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	events := []models.Event{}

	query := r.db.WithContext(ctx).Model(&models.Event{}).
		Scopes(database.SearchEvents(filter.Search), database.Limit(filter.Limit))

	if filter.CreatorID != nil {
		query = query.Where("events.creator_id = ?", *filter.CreatorID)
	}
	if filter.VolunteerID != nil {
		rosterSubQuery := r.db.Model(&models.EventVolunteer{}).
			Select("1").
			Where("event_volunteers.event_id = events.id").
			Where("event_volunteers.user_id = ?", *filter.VolunteerID)
		query = query.Where("EXISTS (?)", rosterSubQuery)
	}

	err := query.
		Preload("Creator").
		Preload("Volunteers").
		Order("events.date ASC").
		Order("events.id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

// Update applies column updates to an event
func (r *GormEventRepository) Update(ctx context.Context, event *models.Event, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(event).Omit("Creator", "Volunteers", "Applications").Updates(fields).Error
}

// Delete removes applications, roster rows and the event in one transaction.
func (r *GormEventRepository) Delete(ctx context.Context, id uint64) error {
	tx := r.db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return fmt.Errorf("begin delete event: %w", err)
	}

	if err := tx.Where("event_id = ?", id).Delete(&models.VolunteerApplication{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete applications: %w", err)
	}

	if err := tx.Where("event_id = ?", id).Delete(&models.EventVolunteer{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete roster: %w", err)
	}

	result := tx.Delete(&models.Event{}, id)
	if result.Error != nil {
		tx.Rollback()
		return fmt.Errorf("delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return gorm.ErrRecordNotFound
	}

	return tx.Commit().Error
}

// ListApplicants lists the applications of an event with applicant and event names
func (r *GormEventRepository) ListApplicants(ctx context.Context, eventID uint64) ([]Applicant, error) {
	applicants := []Applicant{}

	err := r.db.WithContext(ctx).
		Table("volunteer_applications").
		Select(`users.name AS name,
			users.email AS email,
			volunteer_applications.phone AS phone,
			volunteer_applications.qualifications AS qualifications,
			volunteer_applications.observations AS observations,
			events.name AS event_name`).
		Joins("JOIN users ON users.id = volunteer_applications.user_id").
		Joins("JOIN events ON events.id = volunteer_applications.event_id").
		Where("volunteer_applications.event_id = ?", eventID).
		Order("volunteer_applications.created_at ASC").
		Order("volunteer_applications.id ASC").
		Scan(&applicants).Error
	if err != nil {
		return nil, err
	}

	return applicants, nil
}
