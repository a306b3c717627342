package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/omnierp/taxengine/internal/domain/taxconfig"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/logger"
	"github.com/omnierp/taxengine/internal/postgres"
	"github.com/omnierp/taxengine/internal/types"
)

const taxConfigColumns = `id, code, name, country_code, tax_system,
	tax_id_label, tax_id_format, central_tax_label, regional_tax_label,
	inter_regional_tax_label, combined_tax_label, product_code_label,
	service_code_label, has_regional_tax, has_inter_regional_tax,
	calculation_method, decimal_places, round_at_line_level, currency,
	is_default, is_active, tenant_id, status, created_at, updated_at,
	created_by, updated_by`

var taxConfigSortColumns = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"country_code": true,
}

type taxConfigRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTaxConfigRepository(db *postgres.DB, logger *logger.Logger) taxconfig.Repository {
	return &taxConfigRepository{db: db, logger: logger}
}

func (r *taxConfigRepository) Create(ctx context.Context, cfg *taxconfig.TaxConfiguration) error {
	r.logger.Debugw("creating tax configuration", "tax_config_id", cfg.ID, "tenant_id", cfg.TenantID)

	query := `INSERT INTO tax_configs (` + taxConfigColumns + `) VALUES (
		:id, :code, :name, :country_code, :tax_system,
		:tax_id_label, :tax_id_format, :central_tax_label, :regional_tax_label,
		:inter_regional_tax_label, :combined_tax_label, :product_code_label,
		:service_code_label, :has_regional_tax, :has_inter_regional_tax,
		:calculation_method, :decimal_places, :round_at_line_level, :currency,
		:is_default, :is_active, :tenant_id, :status, :created_at, :updated_at,
		:created_by, :updated_by)`

	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create tax configuration").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *taxConfigRepository) Get(ctx context.Context, id string) (*taxconfig.TaxConfiguration, error) {
	query := `SELECT ` + taxConfigColumns + ` FROM tax_configs
		WHERE id = $1 AND tenant_id = $2 AND status != $3`

	var cfg taxconfig.TaxConfiguration
	err := r.db.GetQuerier(ctx).GetContext(ctx, &cfg, query, id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("tax configuration not found").
				WithHintf("Tax configuration %s was not found", id).
				WithReportableDetails(map[string]any{
					"tax_config_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get tax configuration").
			Mark(ierr.ErrDatabase)
	}
	return &cfg, nil
}

func (r *taxConfigRepository) List(ctx context.Context, filter *types.TaxConfigFilter) ([]*taxconfig.TaxConfiguration, error) {
	qb := r.buildConditions(ctx, filter)

	query := `SELECT ` + taxConfigColumns + ` FROM tax_configs` + qb.where() +
		orderBy(filter.GetSort(), filter.GetOrder(), taxConfigSortColumns) +
		paginate(filter)

	configs := make([]*taxconfig.TaxConfiguration, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &configs, query, qb.args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list tax configurations").
			Mark(ierr.ErrDatabase)
	}
	return configs, nil
}

func (r *taxConfigRepository) Count(ctx context.Context, filter *types.TaxConfigFilter) (int, error) {
	qb := r.buildConditions(ctx, filter)

	query := `SELECT COUNT(*) FROM tax_configs` + qb.where()

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, qb.args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count tax configurations").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *taxConfigRepository) Update(ctx context.Context, cfg *taxconfig.TaxConfiguration) error {
	cfg.UpdatedAt = time.Now().UTC()
	cfg.UpdatedBy = types.GetUserID(ctx)

	query := `UPDATE tax_configs SET
		name = :name, country_code = :country_code, tax_system = :tax_system,
		tax_id_label = :tax_id_label, tax_id_format = :tax_id_format,
		central_tax_label = :central_tax_label, regional_tax_label = :regional_tax_label,
		inter_regional_tax_label = :inter_regional_tax_label,
		combined_tax_label = :combined_tax_label, product_code_label = :product_code_label,
		service_code_label = :service_code_label, has_regional_tax = :has_regional_tax,
		has_inter_regional_tax = :has_inter_regional_tax,
		calculation_method = :calculation_method, decimal_places = :decimal_places,
		round_at_line_level = :round_at_line_level, currency = :currency,
		is_default = :is_default, is_active = :is_active, status = :status,
		updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := r.db.NamedExecContext(ctx, query, cfg)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update tax configuration").
			Mark(ierr.ErrDatabase)
	}
	return requireRowAffected(result, "tax configuration", cfg.ID)
}

// Delete soft-deletes; the row is kept so historical documents can still
// resolve the configuration they were posted under
func (r *taxConfigRepository) Delete(ctx context.Context, cfg *taxconfig.TaxConfiguration) error {
	cfg.Status = types.StatusDeleted
	cfg.IsActive = false
	return r.Update(ctx, cfg)
}

func (r *taxConfigRepository) GetDefault(ctx context.Context) (*taxconfig.TaxConfiguration, error) {
	query := `SELECT ` + taxConfigColumns + ` FROM tax_configs
		WHERE tenant_id = $1 AND is_default = true AND status = $2
		ORDER BY updated_at DESC LIMIT 1`

	var cfg taxconfig.TaxConfiguration
	err := r.db.GetQuerier(ctx).GetContext(ctx, &cfg, query, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("no default tax configuration").
				WithHint("The tenant has no default tax configuration").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get default tax configuration").
			Mark(ierr.ErrDatabase)
	}
	return &cfg, nil
}

func (r *taxConfigRepository) buildConditions(ctx context.Context, filter *types.TaxConfigFilter) *queryBuilder {
	qb := &queryBuilder{}
	qb.add("tenant_id = $%d", types.GetTenantID(ctx))
	qb.add("status = $%d", filter.GetStatus())

	qb.addIn("id", filter.TaxConfigIDs)
	if filter.CountryCode != "" {
		qb.add("country_code = $%d", filter.CountryCode)
	}
	if filter.TaxSystem != "" {
		qb.add("tax_system = $%d", filter.TaxSystem)
	}
	if filter.IsDefault != nil {
		qb.add("is_default = $%d", *filter.IsDefault)
	}
	if filter.IsActive != nil {
		qb.add("is_active = $%d", *filter.IsActive)
	}
	qb.addTimeRange(filter.TimeRangeFilter)
	return qb
}
