package model

import "time"

// Notification is a message addressed to one user.
type Notification struct {
	ID      int64     `gorm:"primaryKey" json:"notificationId"`
	UserID  int64     `gorm:"not null;index" json:"userId"`
	Message string    `gorm:"type:text;not null" json:"message"`
	Type    string    `gorm:"size:32;not null" json:"type"`
	SentAt  time.Time `gorm:"not null" json:"sentAt"`
	IsRead  bool      `gorm:"not null;default:false" json:"isRead"`
}
