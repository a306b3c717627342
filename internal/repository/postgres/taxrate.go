package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/omnierp/taxengine/internal/domain/taxrate"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/logger"
	"github.com/omnierp/taxengine/internal/postgres"
	"github.com/omnierp/taxengine/internal/types"
)

const taxRateColumns = `id, tax_config_id, name, code, description,
	combined_rate, central_rate, regional_rate, inter_regional_rate,
	is_zero_rated, is_exempt, is_default, display_order, tax_rate_status,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

var taxRateSortColumns = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"code":          true,
	"display_order": true,
	"combined_rate": true,
}

type taxRateRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTaxRateRepository(db *postgres.DB, logger *logger.Logger) taxrate.Repository {
	return &taxRateRepository{db: db, logger: logger}
}

func (r *taxRateRepository) Create(ctx context.Context, rate *taxrate.RateDefinition) error {
	r.logger.Debugw("creating rate definition", "tax_rate_id", rate.ID, "tenant_id", rate.TenantID)

	query := `INSERT INTO tax_rates (` + taxRateColumns + `) VALUES (
		:id, :tax_config_id, :name, :code, :description,
		:combined_rate, :central_rate, :regional_rate, :inter_regional_rate,
		:is_zero_rated, :is_exempt, :is_default, :display_order, :tax_rate_status,
		:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by)`

	if _, err := r.db.NamedExecContext(ctx, query, rate); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create rate definition").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *taxRateRepository) Get(ctx context.Context, id string) (*taxrate.RateDefinition, error) {
	query := `SELECT ` + taxRateColumns + ` FROM tax_rates
		WHERE id = $1 AND tenant_id = $2 AND status != $3`

	var rate taxrate.RateDefinition
	err := r.db.GetQuerier(ctx).GetContext(ctx, &rate, query, id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("rate definition not found").
				WithHintf("Rate definition %s was not found", id).
				WithReportableDetails(map[string]any{
					"tax_rate_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get rate definition").
			Mark(ierr.ErrDatabase)
	}
	return &rate, nil
}

func (r *taxRateRepository) List(ctx context.Context, filter *types.TaxRateFilter) ([]*taxrate.RateDefinition, error) {
	qb := r.buildConditions(ctx, filter)

	query := `SELECT ` + taxRateColumns + ` FROM tax_rates` + qb.where() +
		orderBy(filter.GetSort(), filter.GetOrder(), taxRateSortColumns) +
		paginate(filter)

	rates := make([]*taxrate.RateDefinition, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rates, query, qb.args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list rate definitions").
			Mark(ierr.ErrDatabase)
	}
	return rates, nil
}

func (r *taxRateRepository) Count(ctx context.Context, filter *types.TaxRateFilter) (int, error) {
	qb := r.buildConditions(ctx, filter)

	query := `SELECT COUNT(*) FROM tax_rates` + qb.where()

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, qb.args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count rate definitions").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *taxRateRepository) Update(ctx context.Context, rate *taxrate.RateDefinition) error {
	rate.UpdatedAt = time.Now().UTC()
	rate.UpdatedBy = types.GetUserID(ctx)

	query := `UPDATE tax_rates SET
		name = :name, code = :code, description = :description,
		combined_rate = :combined_rate, central_rate = :central_rate,
		regional_rate = :regional_rate, inter_regional_rate = :inter_regional_rate,
		is_zero_rated = :is_zero_rated, is_exempt = :is_exempt,
		is_default = :is_default, display_order = :display_order,
		tax_rate_status = :tax_rate_status, status = :status,
		updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := r.db.NamedExecContext(ctx, query, rate)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update rate definition").
			Mark(ierr.ErrDatabase)
	}
	return requireRowAffected(result, "rate definition", rate.ID)
}

// Delete soft-deletes; historical invoice lines keep resolving the slab by ID
func (r *taxRateRepository) Delete(ctx context.Context, rate *taxrate.RateDefinition) error {
	rate.Status = types.StatusDeleted
	rate.TaxRateStatus = types.TaxRateStatusInactive
	return r.Update(ctx, rate)
}

func (r *taxRateRepository) GetByCode(ctx context.Context, taxConfigID, code string) (*taxrate.RateDefinition, error) {
	query := `SELECT ` + taxRateColumns + ` FROM tax_rates
		WHERE tax_config_id = $1 AND code = $2 AND tenant_id = $3 AND status != $4`

	var rate taxrate.RateDefinition
	err := r.db.GetQuerier(ctx).GetContext(ctx, &rate, query, taxConfigID, code, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("rate definition not found").
				WithHintf("No rate definition with code %s exists for this configuration", code).
				WithReportableDetails(map[string]any{
					"tax_config_id": taxConfigID,
					"code":          code,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get rate definition by code").
			Mark(ierr.ErrDatabase)
	}
	return &rate, nil
}

func (r *taxRateRepository) GetDefault(ctx context.Context, taxConfigID string) (*taxrate.RateDefinition, error) {
	query := `SELECT ` + taxRateColumns + ` FROM tax_rates
		WHERE tax_config_id = $1 AND tenant_id = $2 AND is_default = true AND status = $3
		ORDER BY updated_at DESC LIMIT 1`

	var rate taxrate.RateDefinition
	err := r.db.GetQuerier(ctx).GetContext(ctx, &rate, query, taxConfigID, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("no default rate definition").
				WithHint("The configuration has no default rate definition").
				WithReportableDetails(map[string]any{
					"tax_config_id": taxConfigID,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get default rate definition").
			Mark(ierr.ErrDatabase)
	}
	return &rate, nil
}

func (r *taxRateRepository) buildConditions(ctx context.Context, filter *types.TaxRateFilter) *queryBuilder {
	qb := &queryBuilder{}
	qb.add("tenant_id = $%d", types.GetTenantID(ctx))
	qb.add("status = $%d", filter.GetStatus())

	qb.addIn("id", filter.TaxRateIDs)
	qb.addIn("code", filter.TaxRateCodes)
	if filter.TaxConfigID != "" {
		qb.add("tax_config_id = $%d", filter.TaxConfigID)
	}
	if filter.TaxRateStatus != "" {
		qb.add("tax_rate_status = $%d", filter.TaxRateStatus)
	}
	if filter.IsDefault != nil {
		qb.add("is_default = $%d", *filter.IsDefault)
	}
	qb.addTimeRange(filter.TimeRangeFilter)
	return qb
}
