package models

import (
	"time"
)

type Event struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"type:varchar(255)" json:"location"`
	Date        time.Time `gorm:"not null;index:idx_events_date" json:"date"`
	Image       string    `gorm:"type:varchar(1024)" json:"image"`
	Vagas       int       `gorm:"not null;default:0" json:"vagas"`
	CreatorID   uint64    `gorm:"not null;index:idx_events_creator_id" json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relations
	Creator      User                   `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Volunteers   []User                 `gorm:"many2many:event_volunteers" json:"volunteers,omitempty"`
	Applications []VolunteerApplication `gorm:"foreignKey:EventID" json:"applications,omitempty"`
}

// HasCapacityLimit reports whether Vagas caps the roster size.
func (e *Event) HasCapacityLimit() bool {
	return e.Vagas > 0
}
