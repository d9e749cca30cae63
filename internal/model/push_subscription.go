package model

import "time"

// PushSubscription holds the information for a browser push subscription.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey" json:"endpoint"`
	UserID    int64     `gorm:"not null;index" json:"userId"`
	P256DH    string    `gorm:"column:p256dh;not null" json:"-"`
	Auth      string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}
