package repository

import (
	"context"
	"errors"

	"github.com/GabeHenrique/ong-connect-api/internal/models"
)

// ErrCapacityReached is returned when adding a volunteer would exceed the
// event's capacity.
var ErrCapacityReached = errors.New("enrollment repository: event capacity reached")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// SetResetToken stores the pending password-reset token of a user
	SetResetToken(ctx context.Context, userID uint64, token string) error

	// ConsumeResetToken swaps the password hash and clears the reset token
	// only while token is still the stored one
	ConsumeResetToken(ctx context.Context, userID uint64, token, passwordHash string) error
}

// EventFilter holds filtering options for listing events
type EventFilter struct {
	Search      string
	Limit       int
	CreatorID   *uint64
	VolunteerID *uint64
}

// Applicant is one row of an event's applications listing
type Applicant struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Qualifications string `json:"qualifications"`
	Observations   string `json:"observations"`
	EventName      string `json:"eventName"`
}

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create creates a new event
	Create(ctx context.Context, event *models.Event) error

	// FindByID finds an event by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Event, error)

	// List retrieves events ordered by date with filtering
	List(ctx context.Context, filter EventFilter) ([]models.Event, error)

	// Update applies the given column updates to an event
	Update(ctx context.Context, event *models.Event, fields map[string]interface{}) error

	// Delete removes an event together with its applications and roster
	Delete(ctx context.Context, id uint64) error

	// ListApplicants lists the applications of an event joined with the applicant
	ListApplicants(ctx context.Context, eventID uint64) ([]Applicant, error)
}

// EnrollmentRepository keeps the roster and the applications of an event
// consistent. Every mutating method runs in its own transaction.
type EnrollmentRepository interface {
	// IsMember reports whether the user is on the event roster
	IsMember(ctx context.Context, eventID, userID uint64) (bool, error)

	// Join adds the user to the roster without an application
	Join(ctx context.Context, eventID, userID uint64, capacity int) error

	// Leave removes the user's application and roster membership
	Leave(ctx context.Context, eventID, userID uint64) error

	// Apply upserts the application and adds the user to the roster
	Apply(ctx context.Context, application *models.VolunteerApplication, capacity int) error
}
