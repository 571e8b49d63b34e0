package models

import "time"

// EventVolunteer is the roster join row between an event and a user.
type EventVolunteer struct {
	EventID   uint64    `gorm:"primarykey" json:"eventId"`
	UserID    uint64    `gorm:"primarykey" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (EventVolunteer) TableName() string {
	return "event_volunteers"
}
