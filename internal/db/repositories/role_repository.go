// role_repository.go implements RoleRepository, providing database queries for
// per-organization role assignments. Flags such as is_admin are derived from the
// role set by callers; this layer only reads and writes rows.
package repositories

import (
	"context"
	"database/sql"
	"time"
)

// RoleRepository handles role assignment database operations
type RoleRepository struct {
	db *sql.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Add grants a role to a user in an organization. Granting an already-held role
// is a no-op.
func (r *RoleRepository) Add(ctx context.Context, orgID, userID, role string) error {
	query := `
		INSERT INTO user_org_roles (org_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (org_id, user_id, role) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, orgID, userID, role, time.Now())
	return err
}

// AddTx grants a role inside an existing transaction
func (r *RoleRepository) AddTx(ctx context.Context, tx *sql.Tx, orgID, userID, role string) error {
	query := `
		INSERT INTO user_org_roles (org_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (org_id, user_id, role) DO NOTHING
	`
	_, err := tx.ExecContext(ctx, query, orgID, userID, role, time.Now())
	return err
}

// Remove revokes a role from a user in an organization
func (r *RoleRepository) Remove(ctx context.Context, orgID, userID, role string) error {
	query := `DELETE FROM user_org_roles WHERE org_id = $1 AND user_id = $2 AND role = $3`
	_, err := r.db.ExecContext(ctx, query, orgID, userID, role)
	return err
}

// ListForUser returns the role names a user holds in an organization
func (r *RoleRepository) ListForUser(ctx context.Context, orgID, userID string) ([]string, error) {
	query := `
		SELECT role
		FROM user_org_roles
		WHERE org_id = $1 AND user_id = $2
		ORDER BY role ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orgID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]string, 0)
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	return roles, rows.Err()
}

// ListByOrg returns every role assignment in an organization, keyed by user ID.
// Used by the people listing to decorate employees with their roles in one query.
func (r *RoleRepository) ListByOrg(ctx context.Context, orgID string) (map[string][]string, error) {
	query := `
		SELECT user_id, role
		FROM user_org_roles
		WHERE org_id = $1
		ORDER BY user_id, role ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byUser := make(map[string][]string)
	for rows.Next() {
		var userID, role string
		if err := rows.Scan(&userID, &role); err != nil {
			return nil, err
		}
		byUser[userID] = append(byUser[userID], role)
	}

	return byUser, rows.Err()
}

// HasRole reports whether a user holds a specific role in an organization
func (r *RoleRepository) HasRole(ctx context.Context, orgID, userID, role string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM user_org_roles
			WHERE org_id = $1 AND user_id = $2 AND role = $3
		)
	`

	var has bool
	err := r.db.QueryRowContext(ctx, query, orgID, userID, role).Scan(&has)
	if err != nil {
		return false, err
	}
	return has, nil
}
