package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GabeHenrique/ong-connect-api/internal/models"
	"github.com/GabeHenrique/ong-connect-api/internal/repository"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var (
	ErrEventFull            = errors.New("event has no vacancies left")
	ErrFailedToUpdateRoster = errors.New("failed to update attendance")
	ErrFailedToApply        = errors.New("failed to apply for event")
)

// EnrollmentService manages the volunteer roster and applications of events.
type EnrollmentService struct {
	eventRepo      repository.EventRepository
	userRepo       repository.UserRepository
	enrollmentRepo repository.EnrollmentRepository
	validate       *validator.Validate
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(eventRepo repository.EventRepository, userRepo repository.UserRepository, enrollmentRepo repository.EnrollmentRepository) *EnrollmentService {
	return &EnrollmentService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		enrollmentRepo: enrollmentRepo,
		validate:       newValidator(),
	}
}

// ApplyInput is a volunteer's application to an event. Name is accepted for
// client compatibility; the stored name is the account's.
type ApplyInput struct {
	Email          string `json:"email" validate:"required,email"`
	Name           string `json:"name"`
	Phone          string `json:"phone" validate:"required,max=50"`
	Qualifications string `json:"qualifications"`
	Observations   string `json:"observations"`
}

// ToggleAttendance removes the user from the roster when enrolled, together
// with any application, and adds them otherwise.
func (s *EnrollmentService) ToggleAttendance(ctx context.Context, eventID uint64, email string) (*models.Event, error) {
	event, user, err := s.loadPair(ctx, eventID, email)
	if err != nil {
		return nil, err
	}

	member, err := s.enrollmentRepo.IsMember(ctx, event.ID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToUpdateRoster, err)
	}

	if member {
		err = s.enrollmentRepo.Leave(ctx, event.ID, user.ID)
	} else {
		err = s.enrollmentRepo.Join(ctx, event.ID, user.ID, capacityOf(event))
	}
	if err != nil {
		if errors.Is(err, repository.ErrCapacityReached) {
			return nil, ErrEventFull
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToUpdateRoster, err)
	}

	return s.detail(ctx, event.ID)
}

// ApplyForEvent creates or replaces the user's application and puts the user
// on the roster.
func (s *EnrollmentService) ApplyForEvent(ctx context.Context, eventID uint64, input ApplyInput) (*models.Event, error) {
	input.Email = normalizeEmail(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	event, user, err := s.loadPair(ctx, eventID, input.Email)
	if err != nil {
		return nil, err
	}

	application := &models.VolunteerApplication{
		EventID:        event.ID,
		UserID:         user.ID,
		Phone:          input.Phone,
		Qualifications: input.Qualifications,
		Observations:   input.Observations,
	}

	if err := s.enrollmentRepo.Apply(ctx, application, capacityOf(event)); err != nil {
		if errors.Is(err, repository.ErrCapacityReached) {
			return nil, ErrEventFull
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToApply, err)
	}

	return s.detail(ctx, event.ID)
}

func (s *EnrollmentService) loadPair(ctx context.Context, eventID uint64, email string) (*models.Event, *models.User, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrEventNotFound
		}
		return nil, nil, fmt.Errorf("failed to find event: %w", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	return event, user, nil
}

func (s *EnrollmentService) detail(ctx context.Context, eventID uint64) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID, eventDetailPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return event, nil
}

// capacityOf returns the roster cap of event, 0 meaning unlimited.
func capacityOf(event *models.Event) int {
	if !event.HasCapacityLimit() {
		return 0
	}
	return event.Vagas
}
