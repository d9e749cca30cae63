package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Maintenance priorities and statuses.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"

	MaintenanceOpen       = "open"
	MaintenanceInProgress = "in_progress"
	MaintenanceResolved   = "resolved"
	MaintenanceClosed     = "closed"
)

// MaintenanceRequest is a reported facilities issue.
type MaintenanceRequest struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ReporterID  int64     `gorm:"not null;index" json:"reporterId"`
	Description string    `gorm:"type:text;not null" json:"description"`
	PhotoURL    string    `gorm:"size:512" json:"photoUrl"`
	Priority    string    `gorm:"size:16;not null;default:medium" json:"priority"`
	Status      string    `gorm:"size:16;not null;default:open;index" json:"status"`
	Location    string    `gorm:"size:255;not null" json:"location"`
	Category    string    `gorm:"size:64;not null" json:"category"`
	AssigneeID  *int64    `gorm:"index" json:"assigneeId"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Updates []MaintenanceUpdate `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"updates,omitempty"`
}

// MaintenanceUpdate is an append-only log entry on a request.
type MaintenanceUpdate struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	RequestID string    `gorm:"type:varchar(36);not null;index" json:"requestId"`
	AuthorID  int64     `gorm:"not null" json:"authorId"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	Status    string    `gorm:"size:16;not null" json:"status"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (m *MaintenanceRequest) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID when the caller did not.
func (u *MaintenanceUpdate) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
