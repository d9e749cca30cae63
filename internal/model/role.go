package model

// Role names. Role claims are compared case-sensitively against these.
const (
	RoleAdmin    = "ADMIN"
	RoleLecturer = "LECTURER"
	RoleStaff    = "STAFF"
	RoleStudent  = "STUDENT"
)

// DefaultRoles are seeded into the roles table at startup.
var DefaultRoles = []string{RoleAdmin, RoleLecturer, RoleStaff, RoleStudent}

// Role is a named permission class referenced by every user.
type Role struct {
	ID   int64  `gorm:"primaryKey" json:"roleId"`
	Name string `gorm:"uniqueIndex;size:32;not null" json:"name"`
}

// PublisherRoles may post notifications and announcements and manage
// notifications addressed to other users.
var PublisherRoles = []string{RoleAdmin, RoleStaff, RoleLecturer}

// IsPublisher reports whether role is one of PublisherRoles.
func IsPublisher(role string) bool {
	for _, r := range PublisherRoles {
		if r == role {
			return true
		}
	}
	return false
}
