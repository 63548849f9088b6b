// Package assets implements the org-scoped asset list and detail endpoints.
package assets

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flx-software/asset-admin/internal/db/models"
	"github.com/flx-software/asset-admin/internal/db/repositories"
	"github.com/flx-software/asset-admin/internal/middleware"
	"github.com/flx-software/asset-admin/internal/validation"
)

// Handlers serves the /assets endpoint group
type Handlers struct {
	assetRepo *repositories.AssetRepository
}

// NewHandlers creates the asset endpoint handlers.
func NewHandlers(assetRepo *repositories.AssetRepository) *Handlers {
	return &Handlers{assetRepo: assetRepo}
}

// @Summary      List assets
// @Description  Returns the caller's organization's assets, newest first, with pagination and free-text search over name, inventory number, category, and location.
// @Tags         Assets
// @Security     Bearer
// @Produce      json
// @Param        page    query  int     false  "Page number (default 1)"
// @Param        limit   query  int     false  "Items per page, max 50 (default 10)"
// @Param        search  query  string  false  "Case-insensitive substring match"
// @Success      200  {object}  map[string]interface{}  "assets, pagination"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/assets [get]
// List returns a page of the caller's organization's assets.
func (h *Handlers) List(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	p := validation.ParsePagination(c.Query("page"), c.Query("limit"))

	// A caller without an org link sees an empty inventory, not an error; the
	// frontend renders the same table with zero rows.
	if id == nil || !id.HasOrg() {
		c.JSON(http.StatusOK, gin.H{
			"assets": []*models.Asset{},
			"pagination": gin.H{
				"page":        p.Page,
				"limit":       p.Limit,
				"total":       0,
				"total_pages": 1,
			},
		})
		return
	}

	search := strings.TrimSpace(c.Query("search"))
	assets, total, err := h.assetRepo.List(c.Request.Context(), *id.OrgID, search, p.Limit, p.Offset())
	if err != nil {
		slog.Error("assets: list failed", "org_id", *id.OrgID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list assets"})
		return
	}
	if assets == nil {
		assets = []*models.Asset{}
	}

	c.JSON(http.StatusOK, gin.H{
		"assets": assets,
		"pagination": gin.H{
			"page":        p.Page,
			"limit":       p.Limit,
			"total":       total,
			"total_pages": p.TotalPages(total),
		},
	})
}

// @Summary      Get asset
// @Description  Returns one asset from the caller's organization.
// @Tags         Assets
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Asset ID"
// @Success      200  {object}  models.Asset
// @Failure      404  {object}  map[string]interface{}  "Asset not found"
// @Router       /api/v1/assets/{id} [get]
// Get returns a single asset by ID, scoped to the caller's organization.
func (h *Handlers) Get(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	if id == nil || !id.HasOrg() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}

	assetID := c.Param("id")
	if err := validation.ValidateUUID(assetID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}

	asset, err := h.assetRepo.GetByID(c.Request.Context(), *id.OrgID, assetID)
	if err != nil {
		slog.Error("assets: get failed", "asset_id", assetID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load asset"})
		return
	}
	if asset == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}

	c.JSON(http.StatusOK, asset)
}
