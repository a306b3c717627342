package types

import (
	ierr "github.com/omnierp/taxengine/internal/errors"
)

// TaxConfigFilter represents filters for tax configuration queries
type TaxConfigFilter struct {
	*QueryFilter
	*TimeRangeFilter
	TaxConfigIDs []string  `json:"tax_config_ids,omitempty" form:"tax_config_ids" validate:"omitempty"`
	CountryCode  string    `json:"country_code,omitempty" form:"country_code" validate:"omitempty"`
	TaxSystem    TaxSystem `json:"tax_system,omitempty" form:"tax_system" validate:"omitempty"`
	IsDefault    *bool     `json:"is_default,omitempty" form:"is_default" validate:"omitempty"`
	IsActive     *bool     `json:"is_active,omitempty" form:"is_active" validate:"omitempty"`
}

// NewDefaultTaxConfigFilter creates a new TaxConfigFilter with default values
func NewDefaultTaxConfigFilter() *TaxConfigFilter {
	return &TaxConfigFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitTaxConfigFilter creates a new TaxConfigFilter with no pagination limits
func NewNoLimitTaxConfigFilter() *TaxConfigFilter {
	return &TaxConfigFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

// Validate validates the TaxConfigFilter
func (f TaxConfigFilter) Validate() error {
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

	for _, id := range f.TaxConfigIDs {
		if id == "" {
			return ierr.NewError("tax_config_ids cannot contain empty strings").
				WithHint("Tax configuration IDs must be non-empty strings").
				Mark(ierr.ErrValidation)
		}
	}

	if f.TaxSystem != "" {
		if err := f.TaxSystem.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// GetLimit returns the limit for the TaxConfigFilter
func (f TaxConfigFilter) GetLimit() int {
	return f.QueryFilter.GetLimit()
}

// GetOffset returns the offset for the TaxConfigFilter
func (f TaxConfigFilter) GetOffset() int {
	return f.QueryFilter.GetOffset()
}
