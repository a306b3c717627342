package dto

import (
	"context"

	"github.com/samber/lo"

	"github.com/omnierp/taxengine/internal/domain/taxconfig"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/types"
	"github.com/omnierp/taxengine/internal/validator"
)

// TaxConfigResponse represents the response for tax configuration operations
type TaxConfigResponse struct {
	*taxconfig.TaxConfiguration `json:",inline"`
}

// ListTaxConfigsResponse represents the response for listing tax configurations
type ListTaxConfigsResponse struct {
	Items      []*TaxConfigResponse      `json:"items"`
	Pagination *types.PaginationResponse `json:"pagination,omitempty"`
}

// CreateTaxConfigRequest represents the request to create a tax configuration
type CreateTaxConfigRequest struct {
	Name        string          `json:"name" validate:"required"`
	CountryCode string          `json:"country_code,omitempty"`
	TaxSystem   types.TaxSystem `json:"tax_system" validate:"required"`

	TaxIDLabel            string `json:"tax_id_label,omitempty"`
	TaxIDFormat           string `json:"tax_id_format,omitempty"`
	CentralTaxLabel       string `json:"central_tax_label,omitempty"`
	RegionalTaxLabel      string `json:"regional_tax_label,omitempty"`
	InterRegionalTaxLabel string `json:"inter_regional_tax_label,omitempty"`
	CombinedTaxLabel      string `json:"combined_tax_label,omitempty"`
	ProductCodeLabel      string `json:"product_code_label,omitempty"`
	ServiceCodeLabel      string `json:"service_code_label,omitempty"`

	HasRegionalTax      bool `json:"has_regional_tax"`
	HasInterRegionalTax bool `json:"has_inter_regional_tax"`

	CalculationMethod types.CalculationMethod `json:"calculation_method" validate:"required"`
	DecimalPlaces     int                     `json:"decimal_places"`
	RoundAtLineLevel  bool                    `json:"round_at_line_level"`

	Currency string `json:"currency,omitempty"`
}

// UpdateTaxConfigRequest represents the request to update an existing tax
// configuration. All fields are optional - only provided fields are updated
type UpdateTaxConfigRequest struct {
	Name        string `json:"name,omitempty"`
	CountryCode string `json:"country_code,omitempty"`

	TaxIDLabel            string  `json:"tax_id_label,omitempty"`
	TaxIDFormat           *string `json:"tax_id_format,omitempty"`
	CentralTaxLabel       string  `json:"central_tax_label,omitempty"`
	RegionalTaxLabel      string  `json:"regional_tax_label,omitempty"`
	InterRegionalTaxLabel string  `json:"inter_regional_tax_label,omitempty"`
	CombinedTaxLabel      string  `json:"combined_tax_label,omitempty"`
	ProductCodeLabel      string  `json:"product_code_label,omitempty"`
	ServiceCodeLabel      string  `json:"service_code_label,omitempty"`

	CalculationMethod types.CalculationMethod `json:"calculation_method,omitempty"`
	DecimalPlaces     *int                    `json:"decimal_places,omitempty"`
	RoundAtLineLevel  *bool                   `json:"round_at_line_level,omitempty"`

	Currency string `json:"currency,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// Validate validates the CreateTaxConfigRequest
func (r CreateTaxConfigRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Tax configuration name is required").
			Mark(ierr.ErrValidation)
	}

	if err := r.TaxSystem.Validate(); err != nil {
		return err
	}

	if err := r.CalculationMethod.Validate(); err != nil {
		return err
	}

	if r.DecimalPlaces < 0 {
		return ierr.NewError("decimal_places cannot be negative").
			WithHint("Decimal places must be zero or greater").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// ToTaxConfiguration converts a CreateTaxConfigRequest to a domain TaxConfiguration
func (r CreateTaxConfigRequest) ToTaxConfiguration(ctx context.Context) *taxconfig.TaxConfiguration {
	return &taxconfig.TaxConfiguration{
		ID:                    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TAX_CONFIG),
		Code:                  types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_TAX_CONFIG),
		Name:                  r.Name,
		CountryCode:           r.CountryCode,
		TaxSystem:             r.TaxSystem,
		TaxIDLabel:            r.TaxIDLabel,
		TaxIDFormat:           r.TaxIDFormat,
		CentralTaxLabel:       r.CentralTaxLabel,
		RegionalTaxLabel:      r.RegionalTaxLabel,
		InterRegionalTaxLabel: r.InterRegionalTaxLabel,
		CombinedTaxLabel:      r.CombinedTaxLabel,
		ProductCodeLabel:      r.ProductCodeLabel,
		ServiceCodeLabel:      r.ServiceCodeLabel,
		HasRegionalTax:        r.HasRegionalTax,
		HasInterRegionalTax:   r.HasInterRegionalTax,
		CalculationMethod:     r.CalculationMethod,
		DecimalPlaces:         r.DecimalPlaces,
		RoundAtLineLevel:      r.RoundAtLineLevel,
		Currency:              r.Currency,
		IsDefault:             false,
		IsActive:              true,
		BaseModel:             types.GetDefaultBaseModel(ctx),
	}
}

// ApplyTo applies the non-empty update fields onto an existing configuration
func (r UpdateTaxConfigRequest) ApplyTo(cfg *taxconfig.TaxConfiguration) {
	if r.Name != "" {
		cfg.Name = r.Name
	}
	if r.CountryCode != "" {
		cfg.CountryCode = r.CountryCode
	}
	if r.TaxIDLabel != "" {
		cfg.TaxIDLabel = r.TaxIDLabel
	}
	if r.TaxIDFormat != nil {
		cfg.TaxIDFormat = lo.FromPtr(r.TaxIDFormat)
	}
	if r.CentralTaxLabel != "" {
		cfg.CentralTaxLabel = r.CentralTaxLabel
	}
	if r.RegionalTaxLabel != "" {
		cfg.RegionalTaxLabel = r.RegionalTaxLabel
	}
	if r.InterRegionalTaxLabel != "" {
		cfg.InterRegionalTaxLabel = r.InterRegionalTaxLabel
	}
	if r.CombinedTaxLabel != "" {
		cfg.CombinedTaxLabel = r.CombinedTaxLabel
	}
	if r.ProductCodeLabel != "" {
		cfg.ProductCodeLabel = r.ProductCodeLabel
	}
	if r.ServiceCodeLabel != "" {
		cfg.ServiceCodeLabel = r.ServiceCodeLabel
	}
	if r.CalculationMethod != "" {
		cfg.CalculationMethod = r.CalculationMethod
	}
	if r.DecimalPlaces != nil {
		cfg.DecimalPlaces = lo.FromPtr(r.DecimalPlaces)
	}
	if r.RoundAtLineLevel != nil {
		cfg.RoundAtLineLevel = lo.FromPtr(r.RoundAtLineLevel)
	}
	if r.Currency != "" {
		cfg.Currency = r.Currency
	}
	if r.IsActive != nil {
		cfg.IsActive = lo.FromPtr(r.IsActive)
	}
}
