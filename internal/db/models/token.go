// Package models - token.go defines one-time credential tokens (password reset and
// invitation). Only a SHA-256 hash of the token is ever stored.
package models

import "time"

// PasswordResetToken is a single-use token allowing a user to set a new password
type PasswordResetToken struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Usable reports whether the token can still be redeemed at the given instant
func (t *PasswordResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}

// Invitation is a single-use token allowing an invited user to activate their
// account by choosing a password
type Invitation struct {
	TokenHash  string
	UserID     string
	OrgID      string
	ExpiresAt  time.Time
	AcceptedAt *time.Time
	CreatedAt  time.Time
}

// Usable reports whether the invitation can still be accepted at the given instant
func (i *Invitation) Usable(now time.Time) bool {
	return i.AcceptedAt == nil && now.Before(i.ExpiresAt)
}
