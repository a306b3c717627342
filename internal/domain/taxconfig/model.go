package taxconfig

import (
	"regexp"

	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/types"
)

// TaxConfiguration is a tenant-scoped aggregate selecting one national tax
// system together with its display terminology, calculation method and
// rounding policy. The HasRegionalTax/HasInterRegionalTax flags, not the
// TaxSystem enum, drive all calculation branching.
type TaxConfiguration struct {
	ID          string          `db:"id" json:"id"`
	Code        string          `db:"code" json:"code"`
	Name        string          `db:"name" json:"name"`
	CountryCode string          `db:"country_code" json:"country_code"`
	TaxSystem   types.TaxSystem `db:"tax_system" json:"tax_system"`

	// Display labels; never used for calculation branching
	TaxIDLabel            string `db:"tax_id_label" json:"tax_id_label"`
	TaxIDFormat           string `db:"tax_id_format" json:"tax_id_format"`
	CentralTaxLabel       string `db:"central_tax_label" json:"central_tax_label"`
	RegionalTaxLabel      string `db:"regional_tax_label" json:"regional_tax_label"`
	InterRegionalTaxLabel string `db:"inter_regional_tax_label" json:"inter_regional_tax_label"`
	CombinedTaxLabel      string `db:"combined_tax_label" json:"combined_tax_label"`
	ProductCodeLabel      string `db:"product_code_label" json:"product_code_label"`
	ServiceCodeLabel      string `db:"service_code_label" json:"service_code_label"`

	HasRegionalTax      bool `db:"has_regional_tax" json:"has_regional_tax"`
	HasInterRegionalTax bool `db:"has_inter_regional_tax" json:"has_inter_regional_tax"`

	CalculationMethod types.CalculationMethod `db:"calculation_method" json:"calculation_method"`
	DecimalPlaces     int                     `db:"decimal_places" json:"decimal_places"`
	RoundAtLineLevel  bool                    `db:"round_at_line_level" json:"round_at_line_level"`

	Currency  string `db:"currency" json:"currency"`
	IsDefault bool   `db:"is_default" json:"is_default"`
	IsActive  bool   `db:"is_active" json:"is_active"`

	types.BaseModel
}

// Validate checks the structural invariants of the configuration
func (c *TaxConfiguration) Validate() error {
	if c.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Tax configuration name is required").
			Mark(ierr.ErrValidation)
	}

	if err := c.TaxSystem.Validate(); err != nil {
		return err
	}

	if err := c.CalculationMethod.Validate(); err != nil {
		return err
	}

	if c.DecimalPlaces < 0 {
		return ierr.NewError("decimal_places cannot be negative").
			WithHint("Decimal places must be zero or greater").
			Mark(ierr.ErrValidation)
	}

	if c.TaxIDFormat != "" {
		if _, err := regexp.Compile(c.TaxIDFormat); err != nil {
			return ierr.WithError(err).
				WithHintf("Tax ID format %q is not a valid pattern", c.TaxIDFormat).
				WithReportableDetails(map[string]any{
					"field":         "tax_id_format",
					"tax_id_format": c.TaxIDFormat,
				}).
				Mark(ierr.ErrValidation)
		}
	}

	if c.HasInterRegionalTax && !c.HasRegionalTax {
		return ierr.NewError("inter-regional tax requires regional tax").
			WithHint("A configuration cannot levy inter-regional tax without regional tax").
			WithReportableDetails(map[string]any{
				"field": "has_inter_regional_tax",
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// MatchesTaxIDFormat reports whether the given tax identifier matches the
// configured validation pattern. An empty pattern accepts everything.
func (c *TaxConfiguration) MatchesTaxIDFormat(taxID string) bool {
	if c.TaxIDFormat == "" {
		return true
	}
	re, err := regexp.Compile(c.TaxIDFormat)
	if err != nil {
		return false
	}
	return re.MatchString(taxID)
}
