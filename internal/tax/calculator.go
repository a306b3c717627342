package tax

import (
	"github.com/shopspring/decimal"

	"github.com/omnierp/taxengine/internal/domain/taxconfig"
	"github.com/omnierp/taxengine/internal/domain/taxrate"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/types"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Calculate computes the tax breakdown for a single line amount using the
// given rate definition. It is a pure function: no I/O, no logging, no shared
// state, deterministic for identical inputs and safe for concurrent use across
// parallel invoice-line processing.
//
// Branching keys off cfg.HasRegionalTax and cfg.HasInterRegionalTax only. An
// inter-regional transaction under a configuration without inter-regional tax
// (US-style sales tax) falls back to the intra-regional branch; the caller is
// responsible for supplying a slab already adjusted to the buyer region's rate.
func Calculate(amount decimal.Decimal, slab *taxrate.RateDefinition, isInterRegional bool, cfg *taxconfig.TaxConfiguration) (*Result, error) {
	if err := validateInput(amount, slab, cfg); err != nil {
		return nil, err
	}

	result := &Result{
		CombinedRate:          slab.CombinedRate,
		CentralRate:           slab.CentralRate,
		RegionalRate:          slab.RegionalRate,
		InterRegionalRate:     slab.InterRegionalRate,
		CentralTaxLabel:       cfg.CentralTaxLabel,
		RegionalTaxLabel:      cfg.RegionalTaxLabel,
		InterRegionalTaxLabel: cfg.InterRegionalTaxLabel,
		CombinedTaxLabel:      cfg.CombinedTaxLabel,
		IsInterRegional:       isInterRegional,
	}

	// Exempt and zero-rated supplies short-circuit: no tax, total equals the
	// stated amount regardless of the rates stored on the slab.
	if slab.IsTaxFree() {
		result.TaxableAmount = amount
		result.TotalAmount = amount
		if cfg.RoundAtLineLevel {
			result.Round(cfg.DecimalPlaces)
		}
		return result, nil
	}

	taxableAmount := amount
	if cfg.CalculationMethod == types.CalculationMethodInclusive {
		// Inclusive pricing: extract the taxable base from the gross amount
		divisor := one.Add(slab.CombinedRate.Div(hundred))
		taxableAmount = amount.Div(divisor)
		if cfg.RoundAtLineLevel {
			taxableAmount = taxableAmount.Round(int32(cfg.DecimalPlaces))
		}
	}
	result.TaxableAmount = taxableAmount

	switch {
	case !cfg.HasRegionalTax:
		// Single combined levy (VAT, simple GST, consumption tax)
		result.TotalTaxAmount = taxableAmount.Mul(slab.CombinedRate).Div(hundred)

	case isInterRegional && cfg.HasInterRegionalTax:
		// Cross-region supply under a split system (IGST-style)
		result.InterRegionalTaxAmount = taxableAmount.Mul(slab.InterRegionalRate).Div(hundred)
		result.TotalTaxAmount = result.InterRegionalTaxAmount

	default:
		// Intra-region split, or inter-regional fallback when the system has
		// no inter-regional concept
		result.CentralTaxAmount = taxableAmount.Mul(slab.CentralRate).Div(hundred)
		result.RegionalTaxAmount = taxableAmount.Mul(slab.RegionalRate).Div(hundred)
		if cfg.RoundAtLineLevel {
			// Round the parts first so central + regional always equals total
			dp := int32(cfg.DecimalPlaces)
			result.CentralTaxAmount = result.CentralTaxAmount.Round(dp)
			result.RegionalTaxAmount = result.RegionalTaxAmount.Round(dp)
		}
		result.TotalTaxAmount = result.CentralTaxAmount.Add(result.RegionalTaxAmount)
	}

	if cfg.CalculationMethod == types.CalculationMethodInclusive {
		// Tax was already embedded in the stated amount
		result.TotalAmount = amount
	} else {
		result.TotalAmount = taxableAmount.Add(result.TotalTaxAmount)
	}

	if cfg.RoundAtLineLevel {
		result.Round(cfg.DecimalPlaces)
	}

	return result, nil
}

func validateInput(amount decimal.Decimal, slab *taxrate.RateDefinition, cfg *taxconfig.TaxConfiguration) error {
	if cfg == nil {
		return ierr.NewError("tax configuration is required").
			WithHint("A tax configuration must be supplied for calculation").
			Mark(ierr.ErrValidation)
	}

	if slab == nil {
		return ierr.NewError("rate definition is required").
			WithHint("A rate definition must be supplied for calculation").
			Mark(ierr.ErrValidation)
	}

	if !slab.IsActive() {
		return ierr.NewError("rate definition is not active").
			WithHintf("Rate definition %s is not active for new calculations", slab.ID).
			WithReportableDetails(map[string]any{
				"tax_rate_id":     slab.ID,
				"tax_rate_status": slab.TaxRateStatus,
			}).
			Mark(ierr.ErrValidation)
	}

	if amount.IsNegative() {
		return ierr.NewError("amount cannot be negative").
			WithHint("Taxable amount must be zero or greater").
			WithReportableDetails(map[string]any{
				"amount": amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	rates := map[string]decimal.Decimal{
		"combined_rate":       slab.CombinedRate,
		"central_rate":        slab.CentralRate,
		"regional_rate":       slab.RegionalRate,
		"inter_regional_rate": slab.InterRegionalRate,
	}
	for field, rate := range rates {
		if rate.IsNegative() || rate.GreaterThan(hundred) {
			return ierr.NewError("rate out of range").
				WithHintf("%s (%s) must be between 0 and 100", field, rate.String()).
				WithReportableDetails(map[string]any{
					"field": field,
					"value": rate.String(),
				}).
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}
