package dto

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/omnierp/taxengine/internal/domain/taxrate"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/types"
	"github.com/omnierp/taxengine/internal/validator"
)

// TaxRateResponse represents the response for rate definition operations
type TaxRateResponse struct {
	*taxrate.RateDefinition `json:",inline"`
}

// ListTaxRatesResponse represents the response for listing rate definitions
type ListTaxRatesResponse struct {
	Items      []*TaxRateResponse        `json:"items"`
	Pagination *types.PaginationResponse `json:"pagination,omitempty"`
}

// CreateTaxRateRequest represents the request to create a rate definition
type CreateTaxRateRequest struct {
	TaxConfigID string `json:"tax_config_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Description string `json:"description,omitempty"`

	CombinedRate      decimal.Decimal `json:"combined_rate"`
	CentralRate       decimal.Decimal `json:"central_rate"`
	RegionalRate      decimal.Decimal `json:"regional_rate"`
	InterRegionalRate decimal.Decimal `json:"inter_regional_rate"`

	IsZeroRated bool `json:"is_zero_rated"`
	IsExempt    bool `json:"is_exempt"`

	DisplayOrder int `json:"display_order"`
}

// UpdateTaxRateRequest represents the request to update a rate definition.
// All fields are optional - only provided fields are updated
type UpdateTaxRateRequest struct {
	Name        string `json:"name,omitempty"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`

	CombinedRate      *decimal.Decimal `json:"combined_rate,omitempty"`
	CentralRate       *decimal.Decimal `json:"central_rate,omitempty"`
	RegionalRate      *decimal.Decimal `json:"regional_rate,omitempty"`
	InterRegionalRate *decimal.Decimal `json:"inter_regional_rate,omitempty"`

	IsZeroRated *bool `json:"is_zero_rated,omitempty"`
	IsExempt    *bool `json:"is_exempt,omitempty"`

	DisplayOrder  *int                `json:"display_order,omitempty"`
	TaxRateStatus types.TaxRateStatus `json:"tax_rate_status,omitempty"`
}

// Validate validates the CreateTaxRateRequest
func (r CreateTaxRateRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.TaxConfigID == "" {
		return ierr.NewError("tax_config_id is required").
			WithHint("A rate definition must belong to a tax configuration").
			Mark(ierr.ErrValidation)
	}

	if r.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Rate definition name is required").
			Mark(ierr.ErrValidation)
	}

	if r.Code == "" {
		return ierr.NewError("code is required").
			WithHint("Rate definition code is required").
			Mark(ierr.ErrValidation)
	}

	if err := validateRateRange("combined_rate", r.CombinedRate); err != nil {
		return err
	}
	if err := validateRateRange("central_rate", r.CentralRate); err != nil {
		return err
	}
	if err := validateRateRange("regional_rate", r.RegionalRate); err != nil {
		return err
	}
	if err := validateRateRange("inter_regional_rate", r.InterRegionalRate); err != nil {
		return err
	}

	if r.IsZeroRated && r.IsExempt {
		return ierr.NewError("is_zero_rated and is_exempt are mutually exclusive").
			WithHint("A rate definition cannot be both zero-rated and exempt").
			Mark(ierr.ErrValidation)
	}

	if (r.IsZeroRated || r.IsExempt) && !r.CombinedRate.IsZero() {
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

// ToRateDefinition converts a CreateTaxRateRequest to a domain RateDefinition
func (r CreateTaxRateRequest) ToRateDefinition(ctx context.Context) *taxrate.RateDefinition {
	return &taxrate.RateDefinition{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TAX_RATE),
		TaxConfigID:       r.TaxConfigID,
		Name:              r.Name,
		Code:              r.Code,
		Description:       r.Description,
		CombinedRate:      r.CombinedRate,
		CentralRate:       r.CentralRate,
		RegionalRate:      r.RegionalRate,
		InterRegionalRate: r.InterRegionalRate,
		IsZeroRated:       r.IsZeroRated,
		IsExempt:          r.IsExempt,
		IsDefault:         false,
		DisplayOrder:      r.DisplayOrder,
		TaxRateStatus:     types.TaxRateStatusActive,
		BaseModel:         types.GetDefaultBaseModel(ctx),
	}
}

// ApplyTo applies the non-empty update fields onto an existing rate definition
func (r UpdateTaxRateRequest) ApplyTo(rate *taxrate.RateDefinition) {
	if r.Name != "" {
		rate.Name = r.Name
	}
	if r.Code != "" {
		rate.Code = r.Code
	}
	if r.Description != "" {
		rate.Description = r.Description
	}
	if r.CombinedRate != nil {
		rate.CombinedRate = lo.FromPtr(r.CombinedRate)
	}
	if r.CentralRate != nil {
		rate.CentralRate = lo.FromPtr(r.CentralRate)
	}
	if r.RegionalRate != nil {
		rate.RegionalRate = lo.FromPtr(r.RegionalRate)
	}
	if r.InterRegionalRate != nil {
		rate.InterRegionalRate = lo.FromPtr(r.InterRegionalRate)
	}
	if r.IsZeroRated != nil {
		rate.IsZeroRated = lo.FromPtr(r.IsZeroRated)
	}
	if r.IsExempt != nil {
		rate.IsExempt = lo.FromPtr(r.IsExempt)
	}
	if r.DisplayOrder != nil {
		rate.DisplayOrder = lo.FromPtr(r.DisplayOrder)
	}
	if r.TaxRateStatus != "" {
		rate.TaxRateStatus = r.TaxRateStatus
	}
}

func validateRateRange(field string, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return ierr.NewError("rate out of range").
			WithHintf("%s (%s) must be between 0 and 100", field, rate.String()).
			WithReportableDetails(map[string]any{
				"field": field,
				"value": rate.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
