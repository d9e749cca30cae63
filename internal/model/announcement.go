package model

import "time"

// Announcement is a campus-wide post.
type Announcement struct {
	ID        int64     `gorm:"primaryKey" json:"announcementId"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  int64     `gorm:"not null;index" json:"userId"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}
