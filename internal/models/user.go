// Package models contains data structures for the application's domain models.
package models

import "time"

// Role is the privilege level of a user account.
type Role string

const (
	RoleGuest  Role = "guest"
	RoleUser   Role = "user"
	RoleAuthor Role = "author"
)

// Roles lists every valid role in ascending privilege order.
var Roles = []Role{RoleGuest, RoleUser, RoleAuthor}

// ParseRole returns the role named by s, or false if s is not a known role.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// User represents an account in the Inkwell application.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:text;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Status    Role      `gorm:"size:16;not null;default:guest" json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// IsAuthor reports whether the user holds the author role.
func (u *User) IsAuthor() bool {
	return u != nil && u.Status == RoleAuthor
}

// OwnerID returns the user's own id; an account is owned by itself.
func (u *User) OwnerID() uint { return u.ID }
