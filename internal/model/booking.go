package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	return s == BookingActive || s == BookingCancelled
}

// Booking reserves a room for the half-open interval [StartTime, EndTime).
type Booking struct {
	ID        string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	RoomID    string        `gorm:"type:varchar(36);not null;index:idx_bookings_room_start,priority:1" json:"roomId"`
	UserID    int64         `gorm:"not null;index" json:"userId"`
	StartTime time.Time     `gorm:"not null;index:idx_bookings_room_start,priority:2" json:"startTime"`
	EndTime   time.Time     `gorm:"not null" json:"endTime"`
	Purpose   string        `gorm:"size:512;not null" json:"purpose"`
	Status    BookingStatus `gorm:"size:16;not null;default:active" json:"status"`
	CreatedAt time.Time     `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time     `gorm:"not null" json:"updatedAt"`

	// Associations
	User *User `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
