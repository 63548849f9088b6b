// Package models - organization.go defines the Organization model representing a tenant
// in the admin panel.
package models

import "time"

// Organization represents a tenant organization
type Organization struct {
	ID        string
	Name      string
	Subdomain *string // optional vanity subdomain
	CreatedAt time.Time
	UpdatedAt time.Time
}
