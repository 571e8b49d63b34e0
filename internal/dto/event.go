package dto

import (
	"time"

	"github.com/GabeHenrique/ong-connect-api/internal/models"
)

// CreatorDTO is the owning ONG as shown on an event
type CreatorDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// VolunteerDTO is one roster entry
type VolunteerDTO struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ApplicantDTO identifies who sent an application
type ApplicantDTO struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ApplicationDTO represents a volunteer application in API responses
type ApplicationDTO struct {
	User           ApplicantDTO `json:"user"`
	Phone          string       `json:"phone"`
	Qualifications string       `json:"qualifications"`
	Observations   string       `json:"observations"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// EventDTO represents an event in API responses
type EventDTO struct {
	ID          uint64         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	Date        time.Time      `json:"date"`
	Image       string         `json:"image"`
	Vagas       int            `json:"vagas"`
	CreatorID   uint64         `json:"creatorId"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Creator     *CreatorDTO    `json:"creator,omitempty"`
	Volunteers  []VolunteerDTO `json:"volunteers"`
}

// EventDetailDTO is an event together with its applications
type EventDetailDTO struct {
	EventDTO
	Applications []ApplicationDTO `json:"applications"`
}

// ToEventDTO converts an Event model to EventDTO
func ToEventDTO(event models.Event) EventDTO {
	dto := EventDTO{
		ID:          event.ID,
		Name:        event.Name,
		Description: event.Description,
		Location:    event.Location,
		Date:        event.Date,
		Image:       event.Image,
		Vagas:       event.Vagas,
		CreatorID:   event.CreatorID,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
		Volunteers:  make([]VolunteerDTO, len(event.Volunteers)),
	}

	// Include creator if preloaded
	if event.Creator.ID != 0 {
		dto.Creator = &CreatorDTO{
			ID:    event.Creator.ID,
			Name:  event.Creator.Name,
			Email: event.Creator.Email,
		}
	}

	for i, volunteer := range event.Volunteers {
		dto.Volunteers[i] = VolunteerDTO{
			ID:    volunteer.ID,
			Email: volunteer.Email,
			Name:  volunteer.Name,
		}
	}

	return dto
}

// ToEventDetailDTO converts an Event model with applications to EventDetailDTO
func ToEventDetailDTO(event models.Event) EventDetailDTO {
	applications := make([]ApplicationDTO, len(event.Applications))
	for i, application := range event.Applications {
		applications[i] = ApplicationDTO{
			User: ApplicantDTO{
				Email: application.User.Email,
				Name:  application.User.Name,
			},
			Phone:          application.Phone,
			Qualifications: application.Qualifications,
			Observations:   application.Observations,
			CreatedAt:      application.CreatedAt,
		}
	}

	return EventDetailDTO{
		EventDTO:     ToEventDTO(event),
		Applications: applications,
	}
}

// ToEventDTOs converts a slice of events
func ToEventDTOs(events []models.Event) []EventDTO {
	items := make([]EventDTO, len(events))
	for i, event := range events {
		items[i] = ToEventDTO(event)
	}
	return items
}
