package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room is a bookable campus space.
type Room struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string         `gorm:"size:128;not null" json:"name"`
	Type      string         `gorm:"size:64;not null" json:"type"`
	Building  string         `gorm:"size:128;not null" json:"building"`
	Floor     int            `gorm:"not null" json:"floor"`
	Capacity  int            `gorm:"not null" json:"capacity"`
	Features  map[string]any `gorm:"serializer:json;type:text" json:"features,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null" json:"updatedAt"`

	// Associations
	Bookings []Booking `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"bookings,omitempty"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
