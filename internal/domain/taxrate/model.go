package taxrate

import (
	"github.com/shopspring/decimal"

	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/types"
)

// RateDefinition is a named tax rate ("slab") belonging to exactly one tax
// configuration. The central/regional/inter-regional split rates are only
// meaningful when the owning configuration levies regional tax.
type RateDefinition struct {
	ID          string `db:"id" json:"id"`
	TaxConfigID string `db:"tax_config_id" json:"tax_config_id"`
	Name        string `db:"name" json:"name"`
	Code        string `db:"code" json:"code"`
	Description string `db:"description" json:"description"`

	CombinedRate      decimal.Decimal `db:"combined_rate" json:"combined_rate"`
	CentralRate       decimal.Decimal `db:"central_rate" json:"central_rate"`
	RegionalRate      decimal.Decimal `db:"regional_rate" json:"regional_rate"`
	InterRegionalRate decimal.Decimal `db:"inter_regional_rate" json:"inter_regional_rate"`

	IsZeroRated bool `db:"is_zero_rated" json:"is_zero_rated"`
	IsExempt    bool `db:"is_exempt" json:"is_exempt"`
	IsDefault   bool `db:"is_default" json:"is_default"`

	DisplayOrder  int                 `db:"display_order" json:"display_order"`
	TaxRateStatus types.TaxRateStatus `db:"tax_rate_status" json:"tax_rate_status"`

	types.BaseModel
}

// IsActive reports whether the slab may be used for new calculations
func (r *RateDefinition) IsActive() bool {
	return r.TaxRateStatus == types.TaxRateStatusActive && r.Status == types.StatusPublished
}

// IsTaxFree reports whether the slab yields no tax regardless of stored rates
func (r *RateDefinition) IsTaxFree() bool {
	return r.IsExempt || r.IsZeroRated
}

// Validate checks the invariants a slab must hold whenever it is saved:
// every rate within [0, 100], zero-rated and exempt mutually exclusive, and
// neither carrying a nonzero combined rate
func (r *RateDefinition) Validate() error {
	for field, rate := range map[string]decimal.Decimal{
		"combined_rate":       r.CombinedRate,
		"central_rate":        r.CentralRate,
		"regional_rate":       r.RegionalRate,
		"inter_regional_rate": r.InterRegionalRate,
	} {
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return ierr.NewError("rate out of range").
				WithHintf("%s (%s) must be between 0 and 100", field, rate.String()).
				WithReportableDetails(map[string]any{
					"field": field,
					"value": rate.String(),
				}).
				Mark(ierr.ErrValidation)
		}
	}

	if r.IsZeroRated && r.IsExempt {
		return ierr.NewError("is_zero_rated and is_exempt are mutually exclusive").
			WithHint("A rate definition cannot be both zero-rated and exempt").
			Mark(ierr.ErrValidation)
	}

	if r.IsTaxFree() && !r.CombinedRate.IsZero() {
		return ierr.NewError("zero-rated or exempt rates cannot carry a combined rate").
			WithHintf("Combined rate must be 0 for a zero-rated or exempt definition, got %s", r.CombinedRate.String()).
			WithReportableDetails(map[string]any{
				"field":         "combined_rate",
				"combined_rate": r.CombinedRate.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
