package templates

import (
	"context"
	"strings"

	"github.com/omnierp/taxengine/internal/domain/taxconfig"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/types"
)

// Template is a national preset used to bootstrap a tenant's tax
// configuration without hand-entering every label and format. Templates carry
// no rate definitions or regions; those are tenant-specific and created by the
// administrator afterwards.
type Template struct {
	CountryCode string
	Name        string
	TaxSystem   types.TaxSystem

	TaxIDLabel            string
	TaxIDFormat           string
	CentralTaxLabel       string
	RegionalTaxLabel      string
	InterRegionalTaxLabel string
	CombinedTaxLabel      string
	ProductCodeLabel      string
	ServiceCodeLabel      string

	HasRegionalTax      bool
	HasInterRegionalTax bool

	CalculationMethod types.CalculationMethod
	DecimalPlaces     int
	Currency          string
}

const (
	CountryIndia     = "IN"
	CountryUK        = "GB"
	CountryUSA       = "US"
	CountryCanada    = "CA"
	CountryAustralia = "AU"
	CountryEU        = "EU"
	CountryUAE       = "AE"
	CountrySingapore = "SG"
	CountryNone      = "NONE"
)

// catalog is the fixed set of national presets. Static data by design: a map
// from country code to record, not a hierarchy of per-country types.
var catalog = map[string]Template{
	CountryIndia: {
		CountryCode:           CountryIndia,
		Name:                  "India GST",
		TaxSystem:             types.TaxSystemGST,
		TaxIDLabel:            "GSTIN",
		TaxIDFormat:           `^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`,
		CentralTaxLabel:       "CGST",
		RegionalTaxLabel:      "SGST",
		InterRegionalTaxLabel: "IGST",
		CombinedTaxLabel:      "GST",
		ProductCodeLabel:      "HSN Code",
		ServiceCodeLabel:      "SAC Code",
		HasRegionalTax:        true,
		HasInterRegionalTax:   true,
		CalculationMethod:     types.CalculationMethodExclusive,
		DecimalPlaces:         2,
		Currency:              "INR",
	},
	CountryUK: {
		CountryCode:       CountryUK,
		Name:              "United Kingdom VAT",
		TaxSystem:         types.TaxSystemVAT,
		TaxIDLabel:        "VAT Number",
		TaxIDFormat:       `^GB[0-9]{9}$`,
		CombinedTaxLabel:  "VAT",
		ProductCodeLabel:  "Commodity Code",
		ServiceCodeLabel:  "Service Code",
		CalculationMethod: types.CalculationMethodExclusive,
		DecimalPlaces:     2,
		Currency:          "GBP",
	},
	CountryUSA: {
		CountryCode:       CountryUSA,
		Name:              "United States Sales Tax",
		TaxSystem:         types.TaxSystemSalesTax,
		TaxIDLabel:        "EIN",
		TaxIDFormat:       `^[0-9]{2}-[0-9]{7}$`,
		RegionalTaxLabel:  "State Tax",
		CombinedTaxLabel:  "Sales Tax",
		ProductCodeLabel:  "Product Code",
		ServiceCodeLabel:  "Service Code",
		HasRegionalTax:    true,
		CalculationMethod: types.CalculationMethodExclusive,
		DecimalPlaces:     2,
		Currency:          "USD",
	},
	CountryCanada: {
		CountryCode:       CountryCanada,
		Name:              "Canada GST/PST",
		TaxSystem:         types.TaxSystemGSTPST,
		TaxIDLabel:        "Business Number",
		TaxIDFormat:       `^[0-9]{9}$`,
		CentralTaxLabel:   "GST",
		RegionalTaxLabel:  "PST",
		CombinedTaxLabel:  "GST/PST",
		ProductCodeLabel:  "Product Code",
		ServiceCodeLabel:  "Service Code",
		HasRegionalTax:    true,
		CalculationMethod: types.CalculationMethodExclusive,
		DecimalPlaces:     2,
		Currency:          "CAD",
	},
	CountryAustralia: {
		CountryCode:       CountryAustralia,
		Name:              "Australia GST",
		TaxSystem:         types.TaxSystemGST,
		TaxIDLabel:        "ABN",
		TaxIDFormat:       `^[0-9]{11}$`,
		CombinedTaxLabel:  "GST",
		ProductCodeLabel:  "Product Code",
		ServiceCodeLabel:  "Service Code",
		CalculationMethod: types.CalculationMethodInclusive,
		DecimalPlaces:     2,
		Currency:          "AUD",
	},
	CountryEU: {
		CountryCode:       CountryEU,
		Name:              "European Union VAT",
		TaxSystem:         types.TaxSystemVAT,
		TaxIDLabel:        "VAT Number",
		TaxIDFormat:       `^[A-Z]{2}[0-9A-Z]{2,12}$`,
		CombinedTaxLabel:  "VAT",
		ProductCodeLabel:  "CN Code",
		ServiceCodeLabel:  "Service Code",
		CalculationMethod: types.CalculationMethodExclusive,
		DecimalPlaces:     2,
		Currency:          "EUR",
	},
	CountryUAE: {
		CountryCode:       CountryUAE,
		Name:              "United Arab Emirates VAT",
		TaxSystem:         types.TaxSystemVAT,
		TaxIDLabel:        "TRN",
		TaxIDFormat:       `^[0-9]{15}$`,
		CombinedTaxLabel:  "VAT",
		ProductCodeLabel:  "Product Code",
		ServiceCodeLabel:  "Service Code",
		CalculationMethod: types.CalculationMethodExclusive,
		DecimalPlaces:     2,
		Currency:          "AED",
	},
	CountrySingapore: {
		CountryCode:       CountrySingapore,
		Name:              "Singapore GST",
		TaxSystem:         types.TaxSystemGST,
		TaxIDLabel:        "GST Registration Number",
		TaxIDFormat:       `^[0-9]{8,9}[A-Z]$`,
		CombinedTaxLabel:  "GST",
		ProductCodeLabel:  "Product Code",
		ServiceCodeLabel:  "Service Code",
		CalculationMethod: types.CalculationMethodExclusive,
		DecimalPlaces:     2,
		Currency:          "SGD",
	},
	CountryNone: {
		CountryCode:       CountryNone,
		Name:              "No Tax",
		TaxSystem:         types.TaxSystemNone,
		TaxIDLabel:        "Tax ID",
		CombinedTaxLabel:  "Tax",
		ProductCodeLabel:  "Product Code",
		ServiceCodeLabel:  "Service Code",
		CalculationMethod: types.CalculationMethodExclusive,
		DecimalPlaces:     2,
		Currency:          "USD",
	},
}

// Resolve looks up the template for a country code. Pure in-memory lookup; no
// network or persistence access.
func Resolve(countryCode string) (*Template, error) {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	tpl, ok := catalog[code]
	if !ok {
		return nil, ierr.NewError("unknown tax template").
			WithHintf("No tax template exists for country code %s", countryCode).
			WithReportableDetails(map[string]any{
				"country_code": countryCode,
			}).
			Mark(ierr.ErrNotFound)
	}
	return &tpl, nil
}

// CountryCodes returns the country codes of the fixed catalog
func CountryCodes() []string {
	codes := make([]string, 0, len(catalog))
	for code := range catalog {
		codes = append(codes, code)
	}
	return codes
}

// ToTaxConfiguration builds a fully populated tenant configuration from the
// template. The result carries no rate definitions or regions and is never
// marked default; promoting it is an explicit admin action.
func (t *Template) ToTaxConfiguration(ctx context.Context) *taxconfig.TaxConfiguration {
	return &taxconfig.TaxConfiguration{
		ID:                    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TAX_CONFIG),
		Code:                  types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_TAX_CONFIG),
		Name:                  t.Name,
		CountryCode:           t.CountryCode,
		TaxSystem:             t.TaxSystem,
		TaxIDLabel:            t.TaxIDLabel,
		TaxIDFormat:           t.TaxIDFormat,
		CentralTaxLabel:       t.CentralTaxLabel,
		RegionalTaxLabel:      t.RegionalTaxLabel,
		InterRegionalTaxLabel: t.InterRegionalTaxLabel,
		CombinedTaxLabel:      t.CombinedTaxLabel,
		ProductCodeLabel:      t.ProductCodeLabel,
		ServiceCodeLabel:      t.ServiceCodeLabel,
		HasRegionalTax:        t.HasRegionalTax,
		HasInterRegionalTax:   t.HasInterRegionalTax,
		CalculationMethod:     t.CalculationMethod,
		DecimalPlaces:         t.DecimalPlaces,
		RoundAtLineLevel:      true,
		Currency:              t.Currency,
		IsDefault:             false,
		IsActive:              true,
		BaseModel:             types.GetDefaultBaseModel(ctx),
	}
}
