// asset_repository.go implements AssetRepository, providing org-scoped queries for
// the asset list, detail, and dashboard views. The next-inspection timestamp is
// normalized at scan time: the dedicated column wins, otherwise the props bag is
// consulted, so no caller ever parses JSON.
package repositories

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/flx-software/asset-admin/internal/db/models"
)

// placeholder formats a positional query parameter ($1, $2, ...)
func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// AssetRepository handles asset database operations
type AssetRepository struct {
	db *sql.DB
}

// NewAssetRepository creates a new AssetRepository
func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetColumns = `id, org_id, name, category, location, status, inventory_no, props, next_inspection_at, created_at, updated_at`

// scanAsset scans one row into an Asset and resolves its inspection timestamp
func scanAsset(scan func(dest ...any) error) (*models.Asset, error) {
	asset := &models.Asset{}
	var nextInspection sql.NullTime
	err := scan(
		&asset.ID,
		&asset.OrgID,
		&asset.Name,
		&asset.Category,
		&asset.Location,
		&asset.Status,
		&asset.InventoryNo,
		&asset.Props,
		&nextInspection,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if nextInspection.Valid {
		t := nextInspection.Time
		asset.NextInspectionAt = &t
	} else {
		asset.NextInspectionAt = models.InspectionFromProps(asset.Props)
	}
	return asset, nil
}

// List retrieves a page of an organization's assets, newest first, optionally
// filtered by a case-insensitive substring match over name, inventory number,
// category, and location. Returns the page plus the total matching count.
func (r *AssetRepository) List(ctx context.Context, orgID, search string, limit, offset int) ([]*models.Asset, int, error) {
	where := `WHERE org_id = $1`
	args := []any{orgID}
	if search != "" {
		where += ` AND (name ILIKE $2 OR inventory_no ILIKE $2 OR category ILIKE $2 OR location ILIKE $2)`
		args = append(args, "%"+search+"%")
	}

	// Get total count with the same filter
	var total int
	countQuery := `SELECT COUNT(*) FROM assets ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + assetColumns + `
		FROM assets
		` + where + `
		ORDER BY created_at DESC
		LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	assets := make([]*models.Asset, 0)
	for rows.Next() {
		asset, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		assets = append(assets, asset)
	}

	return assets, total, rows.Err()
}

// GetByID retrieves a single asset scoped to an organization
func (r *AssetRepository) GetByID(ctx context.Context, orgID, assetID string) (*models.Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE org_id = $1 AND id = $2
	`

	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, orgID, assetID).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// ListRecent retrieves up to limit of the organization's newest assets, for the
// dashboard inspection aggregation
func (r *AssetRepository) ListRecent(ctx context.Context, orgID string, limit int) ([]*models.Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := make([]*models.Asset, 0)
	for rows.Next() {
		asset, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	return assets, rows.Err()
}

// Count returns the exact number of assets in an organization
func (r *AssetRepository) Count(ctx context.Context, orgID string) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM assets WHERE org_id = $1`
	err := r.db.QueryRowContext(ctx, query, orgID).Scan(&total)
	return total, err
}
