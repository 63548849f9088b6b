// Package dashboard aggregates the landing-page numbers: exact asset and
// employee counts plus the inspection schedule derived from the newest assets.
package dashboard

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/flx-software/asset-admin/internal/db/models"
	"github.com/flx-software/asset-admin/internal/db/repositories"
	"github.com/flx-software/asset-admin/internal/middleware"
)

// inspectionWindowDays is how far ahead an inspection counts as "upcoming"
const inspectionWindowDays = 30

// recentAssetLimit bounds how many assets feed the inspection partition. The
// counts shown next to it stay exact; only the schedule itself is computed
// from the newest slice.
const recentAssetLimit = 200

// Handlers serves the /dashboard endpoint
type Handlers struct {
	db        *sqlx.DB
	assetRepo *repositories.AssetRepository
}

// NewHandlers creates the dashboard handlers. The sqlx handle is used for the
// single aggregate round-trip; asset rows come through the repository so props
// normalization applies.
func NewHandlers(db *sqlx.DB, assetRepo *repositories.AssetRepository) *Handlers {
	return &Handlers{db: db, assetRepo: assetRepo}
}

// orgCounts holds the aggregate counts fetched in one round-trip.
type orgCounts struct {
	Assets    int `db:"asset_count"`
	Employees int `db:"employee_count"`
}

// Dashboard is the response payload.
type Dashboard struct {
	TotalAssets     int             `json:"total_assets"`
	TotalEmployees  int             `json:"total_employees"`
	WindowDays      int             `json:"window_days"`
	Upcoming        []*models.Asset `json:"upcoming"`
	Overdue         []*models.Asset `json:"overdue"`
	NextInspections []*models.Asset `json:"next_inspections"`
}

// @Summary      Dashboard
// @Description  Returns exact asset and employee counts and the inspection schedule: assets with an inspection due in the next 30 days (upcoming) or already past (overdue), each ordered by inspection date.
// @Tags         Dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  Dashboard
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/dashboard [get]
// Get returns the dashboard aggregation for the caller's organization.
func (h *Handlers) Get(c *gin.Context) {
	id := middleware.CurrentIdentity(c)

	out := Dashboard{
		WindowDays:      inspectionWindowDays,
		Upcoming:        []*models.Asset{},
		Overdue:         []*models.Asset{},
		NextInspections: []*models.Asset{},
	}

	if id == nil || !id.HasOrg() {
		c.JSON(http.StatusOK, out)
		return
	}
	orgID := *id.OrgID
	ctx := c.Request.Context()

	// Exact counts — single round-trip.
	query := `
		SELECT
			(SELECT COUNT(*) FROM assets WHERE org_id = $1) AS asset_count,
			(SELECT COUNT(*) FROM employees WHERE org_id = $1) AS employee_count
	`
	var counts orgCounts
	if err := h.db.GetContext(ctx, &counts, query, orgID); err != nil {
		slog.Error("dashboard: count query failed", "org_id", orgID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}
	out.TotalAssets = counts.Assets
	out.TotalEmployees = counts.Employees

	recent, err := h.assetRepo.ListRecent(ctx, orgID, recentAssetLimit)
	if err != nil {
		slog.Error("dashboard: recent assets query failed", "org_id", orgID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	now := time.Now()
	out.Upcoming, out.Overdue = partitionInspections(recent, now)

	next := out.Upcoming
	if len(next) > 5 {
		next = next[:5]
	}
	out.NextInspections = next

	c.JSON(http.StatusOK, out)
}

// partitionInspections splits assets into upcoming (inspection due within the
// window, boundaries inclusive) and overdue (inspection date in the past),
// each sorted by inspection date ascending. Assets without an inspection date
// belong to neither bucket.
func partitionInspections(assets []*models.Asset, now time.Time) (upcoming, overdue []*models.Asset) {
	upcoming = []*models.Asset{}
	overdue = []*models.Asset{}
	horizon := now.AddDate(0, 0, inspectionWindowDays)

	for _, a := range assets {
		if a.NextInspectionAt == nil {
			continue
		}
		t := *a.NextInspectionAt
		switch {
		case t.Before(now):
			overdue = append(overdue, a)
		case !t.After(horizon):
			upcoming = append(upcoming, a)
		}
	}

	byInspection := func(s []*models.Asset) {
		sort.SliceStable(s, func(i, j int) bool {
			return s[i].NextInspectionAt.Before(*s[j].NextInspectionAt)
		})
	}
	byInspection(upcoming)
	byInspection(overdue)
	return upcoming, overdue
}
