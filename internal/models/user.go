// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import "time"

// Role represents a user's permission level in the system.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// User is an account that can author reviews and comments.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	Role         Role      `json:"role"`
	Bio          string    `json:"bio"`
	CreatedAt    time.Time `json:"-"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsModerator returns true for moderators and admins.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}

// CanModify reports whether the user may edit or delete a record written
// by authorID: authors own their records, moderators and admins own all.
func (u *User) CanModify(authorID int64) bool {
	return u.ID == authorID || u.IsModerator()
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}
