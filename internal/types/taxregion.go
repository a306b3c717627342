package types

import (
	ierr "github.com/omnierp/taxengine/internal/errors"
)

// TaxRegionFilter represents filters for region queries
type TaxRegionFilter struct {
	*QueryFilter
	*TimeRangeFilter
	TaxRegionIDs []string `json:"tax_region_ids,omitempty" form:"tax_region_ids" validate:"omitempty"`
	RegionCodes  []string `json:"region_codes,omitempty" form:"region_codes" validate:"omitempty"`
	TaxConfigID  string   `json:"tax_config_id,omitempty" form:"tax_config_id" validate:"omitempty"`
	IsActive     *bool    `json:"is_active,omitempty" form:"is_active" validate:"omitempty"`
}

// NewDefaultTaxRegionFilter creates a new TaxRegionFilter with default values
func NewDefaultTaxRegionFilter() *TaxRegionFilter {
	return &TaxRegionFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitTaxRegionFilter creates a new TaxRegionFilter with no pagination limits
func NewNoLimitTaxRegionFilter() *TaxRegionFilter {
	return &TaxRegionFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

// Validate validates the TaxRegionFilter
func (f TaxRegionFilter) Validate() error {
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

	for _, id := range f.TaxRegionIDs {
		if id == "" {
			return ierr.NewError("tax_region_ids cannot contain empty strings").
				WithHint("Tax region IDs must be non-empty strings").
				Mark(ierr.ErrValidation)
		}
	}

	for _, code := range f.RegionCodes {
		if code == "" {
			return ierr.NewError("region_codes cannot contain empty strings").
				WithHint("Region codes must be non-empty strings").
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

// GetLimit returns the limit for the TaxRegionFilter
func (f TaxRegionFilter) GetLimit() int {
	return f.QueryFilter.GetLimit()
}

// GetOffset returns the offset for the TaxRegionFilter
func (f TaxRegionFilter) GetOffset() int {
	return f.QueryFilter.GetOffset()
}
