package model

import "time"

// TimetableEntry is one weekly class slot for a user. Entries may overlap.
type TimetableEntry struct {
	ID         int64     `gorm:"primaryKey" json:"timetableId"`
	UserID     int64     `gorm:"not null;index" json:"userId"`
	Course     string    `gorm:"size:128;not null" json:"course"`
	Day        string    `gorm:"size:16;not null" json:"day"`
	StartTime  string    `gorm:"size:5;not null" json:"startTime"` // HH:MM
	EndTime    string    `gorm:"size:5;not null" json:"endTime"`   // HH:MM
	Location   string    `gorm:"size:255" json:"location"`
	Instructor string    `gorm:"size:128" json:"instructor"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"not null" json:"updatedAt"`
}

// TableName overrides the pluralized default.
func (TimetableEntry) TableName() string { return "timetable" }
