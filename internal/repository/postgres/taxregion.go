package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/omnierp/taxengine/internal/domain/taxregion"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/logger"
	"github.com/omnierp/taxengine/internal/postgres"
	"github.com/omnierp/taxengine/internal/types"
)

const taxRegionColumns = `id, tax_config_id, code, name, regional_tax_rate,
	has_local_tax, local_tax_rate, display_order, is_active,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

var taxRegionSortColumns = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"code":          true,
	"display_order": true,
}

type taxRegionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTaxRegionRepository(db *postgres.DB, logger *logger.Logger) taxregion.Repository {
	return &taxRegionRepository{db: db, logger: logger}
}

func (r *taxRegionRepository) Create(ctx context.Context, region *taxregion.Region) error {
	r.logger.Debugw("creating tax region", "tax_region_id", region.ID, "tenant_id", region.TenantID)

	query := `INSERT INTO tax_regions (` + taxRegionColumns + `) VALUES (
		:id, :tax_config_id, :code, :name, :regional_tax_rate,
		:has_local_tax, :local_tax_rate, :display_order, :is_active,
		:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by)`

	if _, err := r.db.NamedExecContext(ctx, query, region); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create tax region").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *taxRegionRepository) Get(ctx context.Context, id string) (*taxregion.Region, error) {
	query := `SELECT ` + taxRegionColumns + ` FROM tax_regions
		WHERE id = $1 AND tenant_id = $2 AND status != $3`

	var region taxregion.Region
	err := r.db.GetQuerier(ctx).GetContext(ctx, &region, query, id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("tax region not found").
				WithHintf("Tax region %s was not found", id).
				WithReportableDetails(map[string]any{
					"tax_region_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get tax region").
			Mark(ierr.ErrDatabase)
	}
	return &region, nil
}

func (r *taxRegionRepository) List(ctx context.Context, filter *types.TaxRegionFilter) ([]*taxregion.Region, error) {
	qb := r.buildConditions(ctx, filter)

	query := `SELECT ` + taxRegionColumns + ` FROM tax_regions` + qb.where() +
		orderBy(filter.GetSort(), filter.GetOrder(), taxRegionSortColumns) +
		paginate(filter)

	regions := make([]*taxregion.Region, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &regions, query, qb.args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list tax regions").
			Mark(ierr.ErrDatabase)
	}
	return regions, nil
}

func (r *taxRegionRepository) Count(ctx context.Context, filter *types.TaxRegionFilter) (int, error) {
	qb := r.buildConditions(ctx, filter)

	query := `SELECT COUNT(*) FROM tax_regions` + qb.where()

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, qb.args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count tax regions").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *taxRegionRepository) Update(ctx context.Context, region *taxregion.Region) error {
	region.UpdatedAt = time.Now().UTC()
	region.UpdatedBy = types.GetUserID(ctx)

	query := `UPDATE tax_regions SET
		code = :code, name = :name, regional_tax_rate = :regional_tax_rate,
		has_local_tax = :has_local_tax, local_tax_rate = :local_tax_rate,
		display_order = :display_order, is_active = :is_active, status = :status,
		updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := r.db.NamedExecContext(ctx, query, region)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update tax region").
			Mark(ierr.ErrDatabase)
	}
	return requireRowAffected(result, "tax region", region.ID)
}

func (r *taxRegionRepository) Delete(ctx context.Context, region *taxregion.Region) error {
	region.Status = types.StatusDeleted
	region.IsActive = false
	return r.Update(ctx, region)
}

func (r *taxRegionRepository) GetByCode(ctx context.Context, taxConfigID, code string) (*taxregion.Region, error) {
	query := `SELECT ` + taxRegionColumns + ` FROM tax_regions
		WHERE tax_config_id = $1 AND UPPER(code) = UPPER($2) AND tenant_id = $3 AND status != $4`

	var region taxregion.Region
	err := r.db.GetQuerier(ctx).GetContext(ctx, &region, query, taxConfigID, code, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("tax region not found").
				WithHintf("No region with code %s exists for this configuration", code).
				WithReportableDetails(map[string]any{
					"tax_config_id": taxConfigID,
					"code":          code,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get tax region by code").
			Mark(ierr.ErrDatabase)
	}
	return &region, nil
}

func (r *taxRegionRepository) buildConditions(ctx context.Context, filter *types.TaxRegionFilter) *queryBuilder {
	qb := &queryBuilder{}
	qb.add("tenant_id = $%d", types.GetTenantID(ctx))
	qb.add("status = $%d", filter.GetStatus())

	qb.addIn("id", filter.TaxRegionIDs)
	qb.addIn("code", filter.RegionCodes)
	if filter.TaxConfigID != "" {
		qb.add("tax_config_id = $%d", filter.TaxConfigID)
	}
	if filter.IsActive != nil {
		qb.add("is_active = $%d", *filter.IsActive)
	}
	qb.addTimeRange(filter.TimeRangeFilter)
	return qb
}
