// Package models - role.go defines per-organization role assignments. A user may hold
// several roles in the same organization; flags like is_admin are derived from the set.
package models

import "time"

// Role names recognized by the panel
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleHR    = "hr"
)

// UserOrgRole represents a single role a user holds in an organization
type UserOrgRole struct {
	OrgID     string
	UserID    string
	Role      string
	CreatedAt time.Time
}

// ValidRole reports whether name is one of the recognized role names
func ValidRole(name string) bool {
	switch name {
	case RoleAdmin, RoleUser, RoleHR:
		return true
	}
	return false
}

// HasRole reports whether the given role name appears in roles
func HasRole(roles []string, name string) bool {
	for _, r := range roles {
		if r == name {
			return true
		}
	}
	return false
}
