package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/constructerp/attendance-api/internal/models"
)

const siteColumns = `id, name, location, incharge_id, incharge_name, is_active, created_at`

// SiteRepository provides database access for construction sites.
type SiteRepository struct {
	db *sqlx.DB
}

// NewSiteRepository creates a new instance of SiteRepository.
func NewSiteRepository(db *sqlx.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// FindByID returns a site by identifier.
func (r *SiteRepository) FindByID(ctx context.Context, id string) (*models.Site, error) {
	const query = `SELECT ` + siteColumns + ` FROM sites WHERE id = $1 LIMIT 1`
	var site models.Site
	if err := r.db.GetContext(ctx, &site, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find site by id: %w", err)
	}
	return &site, nil
}

// List returns all sites, active first, newest first within each group.
func (r *SiteRepository) List(ctx context.Context) ([]models.Site, error) {
	const query = `SELECT ` + siteColumns + ` FROM sites ORDER BY is_active DESC, created_at DESC`
	var sites []models.Site
	if err := r.db.SelectContext(ctx, &sites, query); err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	return sites, nil
}

// Create inserts a new site.
func (r *SiteRepository) Create(ctx context.Context, site *models.Site) error {
	if site.ID == "" {
		site.ID = uuid.NewString()
	}
	if site.CreatedAt.IsZero() {
		site.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO sites (id, name, location, incharge_id, incharge_name, is_active, created_at)
VALUES (:id, :name, :location, :incharge_id, :incharge_name, :is_active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, site); err != nil {
		return fmt.Errorf("create site: %w", err)
	}
	return nil
}

// Update persists the mutable fields of a site.
func (r *SiteRepository) Update(ctx context.Context, site *models.Site) error {
	const query = `UPDATE sites SET name = :name, location = :location, incharge_id = :incharge_id, incharge_name = :incharge_name, is_active = :is_active WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, site); err != nil {
		return fmt.Errorf("update site: %w", err)
	}
	return nil
}

// ClearIncharge detaches the given incharge from any site referencing them.
// Used when the incharge account is deleted.
func (r *SiteRepository) ClearIncharge(ctx context.Context, inchargeID string) error {
	const query = `UPDATE sites SET incharge_id = NULL, incharge_name = NULL WHERE incharge_id = $1`
	if _, err := r.db.ExecContext(ctx, query, inchargeID); err != nil {
		return fmt.Errorf("clear site incharge: %w", err)
	}
	return nil
}

// CountActive returns the number of active sites.
func (r *SiteRepository) CountActive(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM sites WHERE is_active = TRUE`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count active sites: %w", err)
	}
	return count, nil
}
