// employee_repository.go implements EmployeeRepository, providing database queries
// for employee records and the employee-to-user link that scopes a session to an org.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/flx-software/asset-admin/internal/db/models"
)

// EmployeeRepository handles employee database operations
type EmployeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *sql.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create creates a new employee record
func (r *EmployeeRepository) Create(ctx context.Context, emp *models.Employee) error {
	emp.ID = uuid.New().String()
	emp.CreatedAt = time.Now()
	if emp.Status == "" {
		emp.Status = models.EmployeeStatusActive
	}

	query := `
		INSERT INTO employees (id, org_id, user_id, personnel_no, email, first_name, last_name, position, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		emp.ID,
		emp.OrgID,
		emp.UserID,
		emp.PersonnelNo,
		emp.Email,
		emp.FirstName,
		emp.LastName,
		emp.Position,
		emp.Status,
		emp.CreatedAt,
	)

	return err
}

// CreateTx creates a new employee record inside an existing transaction
func (r *EmployeeRepository) CreateTx(ctx context.Context, tx *sql.Tx, emp *models.Employee) error {
	emp.ID = uuid.New().String()
	emp.CreatedAt = time.Now()
	if emp.Status == "" {
		emp.Status = models.EmployeeStatusActive
	}

	query := `
		INSERT INTO employees (id, org_id, user_id, personnel_no, email, first_name, last_name, position, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.ExecContext(ctx, query,
		emp.ID,
		emp.OrgID,
		emp.UserID,
		emp.PersonnelNo,
		emp.Email,
		emp.FirstName,
		emp.LastName,
		emp.Position,
		emp.Status,
		emp.CreatedAt,
	)

	return err
}

// IsPersonnelNoConflict reports whether err is the unique violation raised when a
// personnel number already exists in the organization.
func IsPersonnelNoConflict(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505" && pqErr.Constraint == "employees_org_id_personnel_no_key"
}

// GetActiveByUserID retrieves the user's active employee link. When a user is linked
// to several organizations, the earliest-created active link wins.
func (r *EmployeeRepository) GetActiveByUserID(ctx context.Context, userID string) (*models.Employee, error) {
	query := `
		SELECT id, org_id, user_id, personnel_no, email, first_name, last_name, position, status, created_at
		FROM employees
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at ASC
		LIMIT 1
	`

	emp := &models.Employee{}
	err := r.db.QueryRowContext(ctx, query, userID, models.EmployeeStatusActive).Scan(
		&emp.ID,
		&emp.OrgID,
		&emp.UserID,
		&emp.PersonnelNo,
		&emp.Email,
		&emp.FirstName,
		&emp.LastName,
		&emp.Position,
		&emp.Status,
		&emp.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return emp, nil
}

// ListByOrg retrieves all employees of an organization, oldest first
func (r *EmployeeRepository) ListByOrg(ctx context.Context, orgID string) ([]*models.Employee, error) {
	query := `
		SELECT id, org_id, user_id, personnel_no, email, first_name, last_name, position, status, created_at
		FROM employees
		WHERE org_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*models.Employee, 0)
	for rows.Next() {
		emp := &models.Employee{}
		err := rows.Scan(
			&emp.ID,
			&emp.OrgID,
			&emp.UserID,
			&emp.PersonnelNo,
			&emp.Email,
			&emp.FirstName,
			&emp.LastName,
			&emp.Position,
			&emp.Status,
			&emp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	return employees, rows.Err()
}

// ActivateByUserID flips an invited employee record to active when the linked
// user accepts their invitation
func (r *EmployeeRepository) ActivateByUserID(ctx context.Context, orgID, userID string) error {
	query := `
		UPDATE employees
		SET status = $1
		WHERE org_id = $2 AND user_id = $3 AND status = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.EmployeeStatusActive, orgID, userID, models.EmployeeStatusInvited)
	return err
}

// CountByOrg returns the number of employees in an organization
func (r *EmployeeRepository) CountByOrg(ctx context.Context, orgID string) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM employees WHERE org_id = $1`
	err := r.db.QueryRowContext(ctx, query, orgID).Scan(&total)
	return total, err
}
