// Package identity resolves a validated session into the caller's organization
// context: which org they belong to, the org's name, and their role flags.
// Every lookup failure degrades the affected field to absent rather than failing
// the request, so a half-provisioned account still gets a usable (org-less) session.
package identity

import (
	"context"
	"log/slog"

	"github.com/flx-software/asset-admin/internal/db/models"
)

// Identity is the resolved caller context attached to each authenticated request
type Identity struct {
	UserID  string  `json:"user_id"`
	Email   string  `json:"email"`
	OrgID   *string `json:"org_id,omitempty"`
	OrgName *string `json:"org_name,omitempty"`
	IsAdmin bool    `json:"is_admin"`
	IsHR    bool    `json:"is_hr"`
}

// HasOrg reports whether the caller is linked to an organization
func (id *Identity) HasOrg() bool {
	return id.OrgID != nil
}

// employeeLinker is the subset of the employee repository the resolver needs
type employeeLinker interface {
	GetActiveByUserID(ctx context.Context, userID string) (*models.Employee, error)
}

// roleReader is the subset of the role repository the resolver needs
type roleReader interface {
	ListForUser(ctx context.Context, orgID, userID string) ([]string, error)
}

// orgReader is the subset of the organization repository the resolver needs
type orgReader interface {
	GetByID(ctx context.Context, orgID string) (*models.Organization, error)
}

// Resolver builds Identities from repository lookups
type Resolver struct {
	employees employeeLinker
	roles     roleReader
	orgs      orgReader
	logger    *slog.Logger
}

// NewResolver creates a Resolver over the given repositories
func NewResolver(employees employeeLinker, roles roleReader, orgs orgReader, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{employees: employees, roles: roles, orgs: orgs, logger: logger}
}

// Resolve builds the caller's Identity. The org link comes from the earliest
// active employee record; role flags come from a single read of the role table;
// the org name is looked up for every member, admin or not. Lookup errors are
// logged and leave the corresponding fields absent.
func (r *Resolver) Resolve(ctx context.Context, userID, email string) *Identity {
	id := &Identity{UserID: userID, Email: email}

	emp, err := r.employees.GetActiveByUserID(ctx, userID)
	if err != nil {
		r.logger.Warn("identity: employee lookup failed", "user_id", userID, "error", err)
		return id
	}
	if emp == nil {
		return id
	}

	orgID := emp.OrgID
	id.OrgID = &orgID

	roles, err := r.roles.ListForUser(ctx, orgID, userID)
	if err != nil {
		r.logger.Warn("identity: role lookup failed", "user_id", userID, "org_id", orgID, "error", err)
	} else {
		id.IsAdmin = models.HasRole(roles, models.RoleAdmin)
		id.IsHR = models.HasRole(roles, models.RoleHR)
	}

	org, err := r.orgs.GetByID(ctx, orgID)
	if err != nil {
		r.logger.Warn("identity: org lookup failed", "org_id", orgID, "error", err)
	} else if org != nil {
		name := org.Name
		id.OrgName = &name
	}

	return id
}
