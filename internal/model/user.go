package model

import (
	"strings"
	"time"
)

// User is a campus account. Users are never deleted.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"userId"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FirstName    string    `gorm:"size:128;not null" json:"firstName"`
	LastName     string    `gorm:"size:128;not null" json:"lastName"`
	RoleID       int64     `gorm:"not null;index" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"-"`
	UpdatedAt    time.Time `gorm:"not null" json:"-"`

	// Associations
	Role Role `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
}

// Name is the display name built from the name parts.
func (u User) Name() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// PublicUser is the projection of a User returned to clients.
type PublicUser struct {
	ID        int64     `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	RoleID    int64     `json:"roleId"`
	RoleName  string    `json:"roleName"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public strips credentials. Role must be preloaded for RoleName to be set.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		RoleID:    u.RoleID,
		RoleName:  u.Role.Name,
		CreatedAt: u.CreatedAt,
	}
}
