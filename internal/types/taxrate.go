package types

import (
	ierr "github.com/omnierp/taxengine/internal/errors"
)

// TaxRateFilter represents filters for rate definition (slab) queries
type TaxRateFilter struct {
	*QueryFilter
	*TimeRangeFilter
	TaxRateIDs    []string      `json:"tax_rate_ids,omitempty" form:"tax_rate_ids" validate:"omitempty"`
	TaxRateCodes  []string      `json:"tax_rate_codes,omitempty" form:"tax_rate_codes" validate:"omitempty"`
	TaxConfigID   string        `json:"tax_config_id,omitempty" form:"tax_config_id" validate:"omitempty"`
	TaxRateStatus TaxRateStatus `json:"tax_rate_status,omitempty" form:"tax_rate_status" validate:"omitempty"`
	IsDefault     *bool         `json:"is_default,omitempty" form:"is_default" validate:"omitempty"`
}

// NewDefaultTaxRateFilter creates a new TaxRateFilter with default values
func NewDefaultTaxRateFilter() *TaxRateFilter {
	return &TaxRateFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitTaxRateFilter creates a new TaxRateFilter with no pagination limits
func NewNoLimitTaxRateFilter() *TaxRateFilter {
	return &TaxRateFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

// Validate validates the TaxRateFilter
func (f TaxRateFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}

	if f.TimeRangeFilter != nil {
		if err := f.TimeRangeFilter.Validate(); err != nil {
			return err
		}
	}

	for _, id := range f.TaxRateIDs {
		if id == "" {
			return ierr.NewError("tax_rate_ids cannot contain empty strings").
				WithHint("Tax rate IDs must be non-empty strings").
				Mark(ierr.ErrValidation)
		}
	}

	for _, code := range f.TaxRateCodes {
		if code == "" {
			return ierr.NewError("tax_rate_codes cannot contain empty strings").
				WithHint("Tax rate codes must be non-empty strings").
				Mark(ierr.ErrValidation)
		}
	}

	if f.TaxRateStatus != "" {
		if err := f.TaxRateStatus.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// GetLimit returns the limit for the TaxRateFilter
func (f TaxRateFilter) GetLimit() int {
	return f.QueryFilter.GetLimit()
}

// GetOffset returns the offset for the TaxRateFilter
func (f TaxRateFilter) GetOffset() int {
	return f.QueryFilter.GetOffset()
}
