package models

import "time"

type VolunteerApplication struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	EventID        uint64    `gorm:"not null;uniqueIndex:idx_applications_event_user" json:"eventId"`
	UserID         uint64    `gorm:"not null;uniqueIndex:idx_applications_event_user" json:"userId"`
	Phone          string    `gorm:"type:varchar(50);not null" json:"phone"`
	Qualifications string    `gorm:"type:text" json:"qualifications"`
	Observations   string    `gorm:"type:text" json:"observations"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
