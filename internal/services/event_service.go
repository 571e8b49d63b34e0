package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GabeHenrique/ong-connect-api/internal/models"
	"github.com/GabeHenrique/ong-connect-api/internal/repository"
	"github.com/GabeHenrique/ong-connect-api/internal/storage"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrImageRequired       = errors.New("image is required")
	ErrImageUpload         = errors.New("failed to create event")
	ErrImageDelete         = errors.New("failed to delete event image")
	ErrInvalidDate         = errors.New("invalid event date")
	ErrInvalidVagas        = errors.New("vagas must be an integer")
	ErrFailedToCreateEvent = errors.New("failed to create event")
	ErrFailedToUpdateEvent = errors.New("failed to update event")
	ErrFailedToDeleteEvent = errors.New("failed to delete event")
)

// Associations loaded for the different event views.
var (
	eventSummaryPreloads = []string{"Creator", "Volunteers"}
	eventDetailPreloads  = []string{"Creator", "Volunteers", "Applications", "Applications.User"}
)

var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// EventService handles event related business logic.
type EventService struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
	storage   storage.Storage
	validate  *validator.Validate
}

// NewEventService creates a new EventService.
func NewEventService(eventRepo repository.EventRepository, userRepo repository.UserRepository, store storage.Storage) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		storage:   store,
		validate:  newValidator(),
	}
}

// CreateEventInput carries the multipart form fields of a new event.
// Date and Vagas arrive as strings and are coerced here.
type CreateEventInput struct {
	Name        string `form:"name" json:"name" validate:"required,max=255"`
	Description string `form:"description" json:"description"`
	Location    string `form:"location" json:"location" validate:"max=255"`
	Date        string `form:"date" json:"date" validate:"required"`
	Vagas       string `form:"vagas" json:"vagas"`
}

// UpdateEventInput carries the fields of a partial update. Nil fields are
// left untouched.
type UpdateEventInput struct {
	Name        *string `form:"name" json:"name"`
	Description *string `form:"description" json:"description"`
	Location    *string `form:"location" json:"location"`
	Date        *string `form:"date" json:"date"`
	Vagas       *string `form:"vagas" json:"vagas"`
}

// FindAll lists events by ascending date. A non-positive limit means no cap.
func (s *EventService) FindAll(ctx context.Context, limit int, search string) ([]models.Event, error) {
	events, err := s.eventRepo.List(ctx, repository.EventFilter{
		Search: strings.TrimSpace(search),
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// FindOne retrieves an event with its creator and roster.
func (s *EventService) FindOne(ctx context.Context, id uint64) (*models.Event, error) {
	return s.findEvent(ctx, id, eventSummaryPreloads...)
}

// Create uploads the image and stores a new event owned by creatorID.
func (s *EventService) Create(ctx context.Context, creatorID uint64, input CreateEventInput, image *storage.File) (*models.Event, error) {
	if image == nil {
		return nil, ErrImageRequired
	}

	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	date, err := ParseEventDate(input.Date)
	if err != nil {
		return nil, err
	}
	vagas, err := parseVagas(input.Vagas)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.Upload(ctx, *image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
	}

	event := &models.Event{
		Name:        input.Name,
		Description: input.Description,
		Location:    input.Location,
		Date:        date,
		Image:       url,
		Vagas:       vagas,
		CreatorID:   creatorID,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateEvent, err)
	}

	return s.findEvent(ctx, event.ID, eventSummaryPreloads...)
}

// Update merges the provided fields into the event. A new image replaces the
// previous one, which is deleted from storage first.
func (s *EventService) Update(ctx context.Context, id uint64, input UpdateEventInput, image *storage.File) (*models.Event, error) {
	event, err := s.findEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, &ValidationError{Fields: map[string]string{"name": "is required"}}
		}
		fields["name"] = name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Location != nil {
		fields["location"] = *input.Location
	}
	if input.Date != nil {
		date, err := ParseEventDate(*input.Date)
		if err != nil {
			return nil, err
		}
		fields["date"] = date
	}
	if input.Vagas != nil {
		vagas, err := parseVagas(*input.Vagas)
		if err != nil {
			return nil, err
		}
		fields["vagas"] = vagas
	}

	if image != nil {
		if err := s.deleteImage(ctx, event.Image); err != nil {
			return nil, err
		}

		url, err := s.storage.Upload(ctx, *image)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
		}
		fields["image"] = url
	}

	if len(fields) > 0 {
		if err := s.eventRepo.Update(ctx, event, fields); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToUpdateEvent, err)
		}
	}

	return s.findEvent(ctx, id, eventSummaryPreloads...)
}

// Delete removes the event image, then the event with its applications and
// roster rows.
func (s *EventService) Delete(ctx context.Context, id uint64) error {
	event, err := s.findEvent(ctx, id)
	if err != nil {
		return err
	}

	if err := s.deleteImage(ctx, event.Image); err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("%w: %v", ErrFailedToDeleteEvent, err)
	}

	return nil
}

// FindEventsByUser lists the events an ONG created, or the events a
// volunteer is on the roster of.
func (s *EventService) FindEventsByUser(ctx context.Context, email string) ([]models.Event, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	filter := repository.EventFilter{}
	if user.Role == models.RoleONG {
		filter.CreatorID = &user.ID
	} else {
		filter.VolunteerID = &user.ID
	}

	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ListApplications lists the applications of an event with the applicant's
// name and email.
func (s *EventService) ListApplications(ctx context.Context, eventID uint64) ([]repository.Applicant, error) {
	if _, err := s.findEvent(ctx, eventID); err != nil {
		return nil, err
	}

	applicants, err := s.eventRepo.ListApplicants(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return applicants, nil
}

func (s *EventService) findEvent(ctx context.Context, id uint64, preload ...string) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

// deleteImage removes a stored image. Images that do not live in the
// configured bucket are left alone.
func (s *EventService) deleteImage(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	if err := s.storage.Delete(ctx, url); err != nil {
		if errors.Is(err, storage.ErrUnknownObject) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrImageDelete, err)
	}
	return nil
}

// ParseEventDate accepts RFC 3339 timestamps, HTML datetime-local values and
// plain dates.
func ParseEventDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

func parseVagas(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	vagas, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVagas, value)
	}
	if vagas < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVagas, value)
	}
	return vagas, nil
}
