// Package models - employee.go defines the Employee model linking a user account to
// an organization, plus the enriched view joining per-user role assignments.
package models

import "time"

// Employee statuses
const (
	EmployeeStatusActive  = "active"
	EmployeeStatusInvited = "invited"
)

// Employee represents a person employed by an organization. An employee may exist
// without a linked user account (UserID nil) for purely administrative records.
type Employee struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	UserID      *string   `json:"user_id,omitempty"`
	PersonnelNo string    `json:"personnel_no"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Position    string    `json:"position"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// EmployeeWithRoles includes the role names held by the employee's linked user
// in the employee's organization, for the people listing.
type EmployeeWithRoles struct {
	Employee
	Roles []string `json:"roles"`
}
