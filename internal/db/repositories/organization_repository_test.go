package repositories

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/flx-software/asset-admin/internal/db/models"
)

var orgCols = []string{"id", "name", "subdomain", "created_at", "updated_at"}

func sampleOrgRow() *sqlmock.Rows {
	return sqlmock.NewRows(orgCols).
		AddRow("org-1", "Acme Works", "acme", time.Now(), time.Now())
}

func newOrgRepo(t *testing.T) (*OrganizationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewOrganizationRepository(db), mock
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCreateOrganization_Success(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectExec("INSERT INTO organizations").
		WillReturnResult(sqlmock.NewResult(1, 1))

	subdomain := "acme"
	org := &models.Organization{Name: "Acme Works", Subdomain: &subdomain}
	if err := repo.Create(context.Background(), org); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org.ID == "" {
		t.Error("expected ID to be set")
	}
}

func TestCreateOrganization_DBError(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectExec("INSERT INTO organizations").
		WillReturnError(errDB)

	org := &models.Organization{Name: "Acme Works"}
	if err := repo.Create(context.Background(), org); err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// GetByID
// ---------------------------------------------------------------------------

func TestGetOrganizationByID_Found(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectQuery("SELECT.*FROM organizations.*WHERE id").
		WithArgs("org-1").
		WillReturnRows(sampleOrgRow())

	org, err := repo.GetByID(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org == nil || org.Name != "Acme Works" {
		t.Errorf("org = %v, want Acme Works", org)
	}
}

func TestGetOrganizationByID_NotFound(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectQuery("SELECT.*FROM organizations.*WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(orgCols))

	org, err := repo.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org != nil {
		t.Errorf("expected nil org, got %v", org)
	}
}

// ---------------------------------------------------------------------------
// GetByName
// ---------------------------------------------------------------------------

func TestGetOrganizationByName_Found(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectQuery("SELECT.*FROM organizations.*WHERE name").
		WithArgs("Acme Works").
		WillReturnRows(sampleOrgRow())

	org, err := repo.GetByName(context.Background(), "Acme Works")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org == nil || org.ID != "org-1" {
		t.Errorf("org = %v, want org-1", org)
	}
}

func TestGetOrganizationByName_NotFound(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectQuery("SELECT.*FROM organizations.*WHERE name").
		WillReturnRows(sqlmock.NewRows(orgCols))

	org, err := repo.GetByName(context.Background(), "Nobody Inc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org != nil {
		t.Errorf("expected nil org, got %v", org)
	}
}
