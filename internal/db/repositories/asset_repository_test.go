package repositories

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

var assetCols = []string{
	"id", "org_id", "name", "category", "location", "status",
	"inventory_no", "props", "next_inspection_at", "created_at", "updated_at",
}

func sampleAssetRow(id string, props driver.Value, nextInspection driver.Value) []driver.Value {
	now := time.Now()
	return []driver.Value{id, "org-1", "Forklift", "vehicles", "Warehouse A", "active", "INV-" + id, props, nextInspection, now, now}
}

func newAssetRepo(t *testing.T) (*AssetRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewAssetRepository(db), mock
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestListAssets_NoSearch(t *testing.T) {
	repo, mock := newAssetRepo(t)
	mock.ExpectQuery("SELECT COUNT.*FROM assets.*WHERE org_id").
		WithArgs("org-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT.*FROM assets.*ORDER BY created_at DESC.*LIMIT").
		WithArgs("org-1", 10, 0).
		WillReturnRows(sqlmock.NewRows(assetCols).
			AddRow(sampleAssetRow("a1", nil, nil)...).
			AddRow(sampleAssetRow("a2", nil, nil)...))

	assets, total, err := repo.List(context.Background(), "org-1", "", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(assets) != 2 {
		t.Errorf("len(assets) = %d, want 2", len(assets))
	}
}

func TestListAssets_SearchAddsFilter(t *testing.T) {
	repo, mock := newAssetRepo(t)
	mock.ExpectQuery("SELECT COUNT.*FROM assets.*ILIKE").
		WithArgs("org-1", "%fork%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT.*FROM assets.*ILIKE.*ORDER BY created_at DESC").
		WithArgs("org-1", "%fork%", 10, 0).
		WillReturnRows(sqlmock.NewRows(assetCols).
			AddRow(sampleAssetRow("a1", nil, nil)...))

	assets, total, err := repo.List(context.Background(), "org-1", "fork", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(assets) != 1 {
		t.Errorf("total = %d len = %d, want 1/1", total, len(assets))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListAssets_Empty(t *testing.T) {
	repo, mock := newAssetRepo(t)
	mock.ExpectQuery("SELECT COUNT.*FROM assets").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT.*FROM assets").
		WillReturnRows(sqlmock.NewRows(assetCols))

	assets, total, err := repo.List(context.Background(), "org-1", "", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
	if assets == nil || len(assets) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", assets)
	}
}

func TestListAssets_CountError(t *testing.T) {
	repo, mock := newAssetRepo(t)
	mock.ExpectQuery("SELECT COUNT.*FROM assets").
		WillReturnError(errDB)

	_, _, err := repo.List(context.Background(), "org-1", "", 10, 0)
	if err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// GetByID
// ---------------------------------------------------------------------------

func TestGetAssetByID_Found(t *testing.T) {
	repo, mock := newAssetRepo(t)
	mock.ExpectQuery("SELECT.*FROM assets.*WHERE org_id.*id").
		WithArgs("org-1", "a1").
		WillReturnRows(sqlmock.NewRows(assetCols).
			AddRow(sampleAssetRow("a1", nil, nil)...))

	asset, err := repo.GetByID(context.Background(), "org-1", "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset == nil || asset.Name != "Forklift" {
		t.Errorf("asset = %v, want Forklift", asset)
	}
}

func TestGetAssetByID_NotFound(t *testing.T) {
	repo, mock := newAssetRepo(t)
	mock.ExpectQuery("SELECT.*FROM assets.*WHERE org_id").
		WillReturnRows(sqlmock.NewRows(assetCols))

	asset, err := repo.GetByID(context.Background(), "org-1", "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset != nil {
		t.Errorf("expected nil asset, got %v", asset)
	}
}

// ---------------------------------------------------------------------------
// Inspection timestamp normalization
// ---------------------------------------------------------------------------

func TestGetAssetByID_ColumnWinsOverProps(t *testing.T) {
	repo, mock := newAssetRepo(t)
	columnDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	props := []byte(`{"next_inspection_at":"2030-01-01T00:00:00Z"}`)

	mock.ExpectQuery("SELECT.*FROM assets").
		WillReturnRows(sqlmock.NewRows(assetCols).
			AddRow(sampleAssetRow("a1", props, columnDate)...))

	asset, err := repo.GetByID(context.Background(), "org-1", "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset.NextInspectionAt == nil || !asset.NextInspectionAt.Equal(columnDate) {
		t.Errorf("NextInspectionAt = %v, want the dedicated column value", asset.NextInspectionAt)
	}
}

func TestGetAssetByID_PropsFallback(t *testing.T) {
	repo, mock := newAssetRepo(t)
	props := []byte(`{"next_inspection_at":"2026-09-15T00:00:00Z"}`)

	mock.ExpectQuery("SELECT.*FROM assets").
		WillReturnRows(sqlmock.NewRows(assetCols).
			AddRow(sampleAssetRow("a1", props, nil)...))

	asset, err := repo.GetByID(context.Background(), "org-1", "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	if asset.NextInspectionAt == nil || !asset.NextInspectionAt.Equal(want) {
		t.Errorf("NextInspectionAt = %v, want %v from props", asset.NextInspectionAt, want)
	}
}

func TestGetAssetByID_NoInspectionAnywhere(t *testing.T) {
	repo, mock := newAssetRepo(t)

	mock.ExpectQuery("SELECT.*FROM assets").
		WillReturnRows(sqlmock.NewRows(assetCols).
			AddRow(sampleAssetRow("a1", []byte(`{"serial":"X100"}`), nil)...))

	asset, err := repo.GetByID(context.Background(), "org-1", "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset.NextInspectionAt != nil {
		t.Errorf("NextInspectionAt = %v, want nil", asset.NextInspectionAt)
	}
}

// ---------------------------------------------------------------------------
// ListRecent / Count
// ---------------------------------------------------------------------------

func TestListRecentAssets(t *testing.T) {
	repo, mock := newAssetRepo(t)
	mock.ExpectQuery("SELECT.*FROM assets.*ORDER BY created_at DESC.*LIMIT").
		WithArgs("org-1", 200).
		WillReturnRows(sqlmock.NewRows(assetCols).
			AddRow(sampleAssetRow("a1", nil, nil)...))

	assets, err := repo.ListRecent(context.Background(), "org-1", 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assets) != 1 {
		t.Errorf("len(assets) = %d, want 1", len(assets))
	}
}

func TestCountAssets(t *testing.T) {
	repo, mock := newAssetRepo(t)
	mock.ExpectQuery("SELECT COUNT.*FROM assets").
		WithArgs("org-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	total, err := repo.Count(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 7 {
		t.Errorf("total = %d, want 7", total)
	}
}
