package dto

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/omnierp/taxengine/internal/domain/taxregion"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/types"
	"github.com/omnierp/taxengine/internal/validator"
)

// TaxRegionResponse represents the response for region operations
type TaxRegionResponse struct {
	*taxregion.Region `json:",inline"`
}

// ListTaxRegionsResponse represents the response for listing regions
type ListTaxRegionsResponse struct {
	Items      []*TaxRegionResponse      `json:"items"`
	Pagination *types.PaginationResponse `json:"pagination,omitempty"`
}

// CreateTaxRegionRequest represents the request to create a region
type CreateTaxRegionRequest struct {
	TaxConfigID string `json:"tax_config_id" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`

	RegionalTaxRate *decimal.Decimal `json:"regional_tax_rate,omitempty"`
	HasLocalTax     bool             `json:"has_local_tax"`
	LocalTaxRate    *decimal.Decimal `json:"local_tax_rate,omitempty"`

	DisplayOrder int `json:"display_order"`
}

// UpdateTaxRegionRequest represents the request to update a region.
// All fields are optional - only provided fields are updated
type UpdateTaxRegionRequest struct {
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`

	RegionalTaxRate *decimal.Decimal `json:"regional_tax_rate,omitempty"`
	HasLocalTax     *bool            `json:"has_local_tax,omitempty"`
	LocalTaxRate    *decimal.Decimal `json:"local_tax_rate,omitempty"`

	DisplayOrder *int  `json:"display_order,omitempty"`
	IsActive     *bool `json:"is_active,omitempty"`
}

// Validate validates the CreateTaxRegionRequest
func (r CreateTaxRegionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.TaxConfigID == "" {
		return ierr.NewError("tax_config_id is required").
			WithHint("A region must belong to a tax configuration").
			Mark(ierr.ErrValidation)
	}

	if r.Code == "" {
		return ierr.NewError("code is required").
			WithHint("Region code is required").
			Mark(ierr.ErrValidation)
	}

	if r.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Region name is required").
			Mark(ierr.ErrValidation)
	}

	if r.RegionalTaxRate != nil {
		if err := validateRateRange("regional_tax_rate", lo.FromPtr(r.RegionalTaxRate)); err != nil {
			return err
		}
	}

	if r.LocalTaxRate != nil {
		if !r.HasLocalTax {
			return ierr.NewError("local_tax_rate requires has_local_tax").
				WithHint("A local tax rate can only be set when the region levies local tax").
				Mark(ierr.ErrValidation)
		}
		if err := validateRateRange("local_tax_rate", lo.FromPtr(r.LocalTaxRate)); err != nil {
			return err
		}
	}

	return nil
}

// ToRegion converts a CreateTaxRegionRequest to a domain Region
func (r CreateTaxRegionRequest) ToRegion(ctx context.Context) *taxregion.Region {
	return &taxregion.Region{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TAX_REGION),
		TaxConfigID:     r.TaxConfigID,
		Code:            r.Code,
		Name:            r.Name,
		RegionalTaxRate: r.RegionalTaxRate,
		HasLocalTax:     r.HasLocalTax,
		LocalTaxRate:    r.LocalTaxRate,
		DisplayOrder:    r.DisplayOrder,
		IsActive:        true,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
}

// ApplyTo applies the non-empty update fields onto an existing region
func (r UpdateTaxRegionRequest) ApplyTo(region *taxregion.Region) {
	if r.Code != "" {
		region.Code = r.Code
	}
	if r.Name != "" {
		region.Name = r.Name
	}
	if r.RegionalTaxRate != nil {
		region.RegionalTaxRate = r.RegionalTaxRate
	}
	if r.HasLocalTax != nil {
		region.HasLocalTax = lo.FromPtr(r.HasLocalTax)
	}
	if r.LocalTaxRate != nil {
		region.LocalTaxRate = r.LocalTaxRate
	}
	if r.DisplayOrder != nil {
		region.DisplayOrder = lo.FromPtr(r.DisplayOrder)
	}
	if r.IsActive != nil {
		region.IsActive = lo.FromPtr(r.IsActive)
	}
}
