// Package models - user.go defines the User model for panel accounts with email,
// display name, and bcrypt credential hash.
package models

import "time"

// User account statuses
const (
	UserStatusActive  = "active"
	UserStatusInvited = "invited"
)

// User represents a user in the system
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash *string // nil until an invited user sets a password
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanSignIn reports whether the account has completed setup and may log in
func (u *User) CanSignIn() bool {
	return u.Status == UserStatusActive && u.PasswordHash != nil
}
