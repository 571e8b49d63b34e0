package models

import (
	"time"
)

type UserRole string

const (
	RoleONG       UserRole = "ONG"
	RoleVolunteer UserRole = "VOLUNTEER"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	return r == RoleONG || r == RoleVolunteer
}

type User struct {
	ID                 uint64    `gorm:"primarykey" json:"id"`
	Email              string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name               string    `gorm:"type:varchar(255);not null" json:"name"`
	PasswordHash       string    `gorm:"type:varchar(255);not null" json:"-"`
	Role               UserRole  `gorm:"type:varchar(20);not null;default:'VOLUNTEER'" json:"role"`
	ResetPasswordToken *string   `gorm:"type:text" json:"-"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`

	// Relations
	CreatedEvents []Event                `gorm:"foreignKey:CreatorID" json:"-"`
	Applications  []VolunteerApplication `gorm:"foreignKey:UserID" json:"-"`
}
