package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/omnierp/taxengine/internal/domain/taxconfig"
	"github.com/omnierp/taxengine/internal/domain/taxrate"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/types"
)

func splitConfig() *taxconfig.TaxConfiguration {
	return &taxconfig.TaxConfiguration{
		ID:                    "taxcfg_split",
		Name:                  "India GST",
		TaxSystem:             types.TaxSystemGST,
		CentralTaxLabel:       "CGST",
		RegionalTaxLabel:      "SGST",
		InterRegionalTaxLabel: "IGST",
		CombinedTaxLabel:      "GST",
		HasRegionalTax:        true,
		HasInterRegionalTax:   true,
		CalculationMethod:     types.CalculationMethodExclusive,
		DecimalPlaces:         2,
		RoundAtLineLevel:      true,
		BaseModel:             types.BaseModel{Status: types.StatusPublished},
	}
}

func combinedConfig() *taxconfig.TaxConfiguration {
	return &taxconfig.TaxConfiguration{
		ID:                "taxcfg_vat",
		Name:              "United Kingdom VAT",
		TaxSystem:         types.TaxSystemVAT,
		CombinedTaxLabel:  "VAT",
		CalculationMethod: types.CalculationMethodExclusive,
		DecimalPlaces:     2,
		RoundAtLineLevel:  true,
		BaseModel:         types.BaseModel{Status: types.StatusPublished},
	}
}

func splitSlab() *taxrate.RateDefinition {
	return &taxrate.RateDefinition{
		ID:                "taxrate_18",
		TaxConfigID:       "taxcfg_split",
		Name:              "GST 18%",
		Code:              "GST18",
		CombinedRate:      decimal.NewFromInt(18),
		CentralRate:       decimal.NewFromInt(9),
		RegionalRate:      decimal.NewFromInt(9),
		InterRegionalRate: decimal.NewFromInt(18),
		TaxRateStatus:     types.TaxRateStatusActive,
		BaseModel:         types.BaseModel{Status: types.StatusPublished},
	}
}

func combinedSlab(rate int64) *taxrate.RateDefinition {
	return &taxrate.RateDefinition{
		ID:            "taxrate_std",
		TaxConfigID:   "taxcfg_vat",
		Name:          "Standard Rate",
		Code:          "STD",
		CombinedRate:  decimal.NewFromInt(rate),
		TaxRateStatus: types.TaxRateStatusActive,
		BaseModel:     types.BaseModel{Status: types.StatusPublished},
	}
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, field string) {
	t.Helper()
	require.True(t, actual.Equal(decimal.RequireFromString(expected)),
		"%s: expected %s, got %s", field, expected, actual.String())
}

func TestCalculateIntraRegionalSplit(t *testing.T) {
	result, err := Calculate(decimal.NewFromInt(1000), splitSlab(), false, splitConfig())
	require.NoError(t, err)

	assertDecimal(t, "1000", result.TaxableAmount, "taxable_amount")
	assertDecimal(t, "90", result.CentralTaxAmount, "central_tax_amount")
	assertDecimal(t, "90", result.RegionalTaxAmount, "regional_tax_amount")
	assertDecimal(t, "0", result.InterRegionalTaxAmount, "inter_regional_tax_amount")
	assertDecimal(t, "180", result.TotalTaxAmount, "total_tax_amount")
	assertDecimal(t, "1180", result.TotalAmount, "total_amount")
	require.False(t, result.IsInterRegional)
	require.Equal(t, "CGST", result.CentralTaxLabel)
	require.Equal(t, "SGST", result.RegionalTaxLabel)
}

func TestCalculateInterRegionalSplit(t *testing.T) {
	result, err := Calculate(decimal.NewFromInt(1000), splitSlab(), true, splitConfig())
	require.NoError(t, err)

	assertDecimal(t, "0", result.CentralTaxAmount, "central_tax_amount")
	assertDecimal(t, "0", result.RegionalTaxAmount, "regional_tax_amount")
	assertDecimal(t, "180", result.InterRegionalTaxAmount, "inter_regional_tax_amount")
	assertDecimal(t, "180", result.TotalTaxAmount, "total_tax_amount")
	assertDecimal(t, "1180", result.TotalAmount, "total_amount")
	require.True(t, result.IsInterRegional)
	require.Equal(t, "IGST", result.InterRegionalTaxLabel)
}

func TestCalculateCombinedLevy(t *testing.T) {
	result, err := Calculate(decimal.NewFromInt(500), combinedSlab(20), false, combinedConfig())
	require.NoError(t, err)

	assertDecimal(t, "500", result.TaxableAmount, "taxable_amount")
	assertDecimal(t, "100", result.TotalTaxAmount, "total_tax_amount")
	assertDecimal(t, "600", result.TotalAmount, "total_amount")
	assertDecimal(t, "0", result.CentralTaxAmount, "central_tax_amount")
	assertDecimal(t, "0", result.RegionalTaxAmount, "regional_tax_amount")
}

// A combined-levy system has no inter-regional concept; a cross-region flag
// must not change the outcome.
func TestCalculateCombinedLevyIgnoresInterRegional(t *testing.T) {
	intra, err := Calculate(decimal.NewFromInt(500), combinedSlab(20), false, combinedConfig())
	require.NoError(t, err)

	inter, err := Calculate(decimal.NewFromInt(500), combinedSlab(20), true, combinedConfig())
	require.NoError(t, err)

	require.True(t, intra.TotalTaxAmount.Equal(inter.TotalTaxAmount))
	require.True(t, intra.TotalAmount.Equal(inter.TotalAmount))
}

// US-style sales tax levies regional tax but has no inter-regional levy, so a
// cross-region sale falls back to the intra-regional branch.
func TestCalculateRegionalFallbackWithoutInterRegionalTax(t *testing.T) {
	cfg := splitConfig()
	cfg.TaxSystem = types.TaxSystemSalesTax
	cfg.HasInterRegionalTax = false

	slab := splitSlab()
	slab.CentralRate = decimal.Zero
	slab.RegionalRate = decimal.RequireFromString("8.5")
	slab.CombinedRate = decimal.RequireFromString("8.5")
	slab.InterRegionalRate = decimal.Zero

	result, err := Calculate(decimal.NewFromInt(200), slab, true, cfg)
	require.NoError(t, err)

	assertDecimal(t, "0", result.CentralTaxAmount, "central_tax_amount")
	assertDecimal(t, "17", result.RegionalTaxAmount, "regional_tax_amount")
	assertDecimal(t, "0", result.InterRegionalTaxAmount, "inter_regional_tax_amount")
	assertDecimal(t, "17", result.TotalTaxAmount, "total_tax_amount")
	assertDecimal(t, "217", result.TotalAmount, "total_amount")
}

func TestCalculateExemptSlab(t *testing.T) {
	slab := splitSlab()
	slab.IsExempt = true

	result, err := Calculate(decimal.NewFromInt(250), slab, false, splitConfig())
	require.NoError(t, err)

	assertDecimal(t, "250", result.TaxableAmount, "taxable_amount")
	assertDecimal(t, "0", result.TotalTaxAmount, "total_tax_amount")
	assertDecimal(t, "0", result.CentralTaxAmount, "central_tax_amount")
	assertDecimal(t, "0", result.RegionalTaxAmount, "regional_tax_amount")
	assertDecimal(t, "250", result.TotalAmount, "total_amount")
}

func TestCalculateZeroRatedSlab(t *testing.T) {
	slab := splitSlab()
	slab.IsZeroRated = true

	result, err := Calculate(decimal.NewFromInt(250), slab, true, splitConfig())
	require.NoError(t, err)

	assertDecimal(t, "0", result.TotalTaxAmount, "total_tax_amount")
	assertDecimal(t, "0", result.InterRegionalTaxAmount, "inter_regional_tax_amount")
	assertDecimal(t, "250", result.TotalAmount, "total_amount")
}

func TestCalculateInclusiveExtraction(t *testing.T) {
	cfg := combinedConfig()
	cfg.CalculationMethod = types.CalculationMethodInclusive

	result, err := Calculate(decimal.NewFromInt(118), combinedSlab(18), false, cfg)
	require.NoError(t, err)

	assertDecimal(t, "100", result.TaxableAmount, "taxable_amount")
	assertDecimal(t, "18", result.TotalTaxAmount, "total_tax_amount")
	assertDecimal(t, "118", result.TotalAmount, "total_amount")
}

func TestCalculateInclusiveSplit(t *testing.T) {
	cfg := splitConfig()
	cfg.CalculationMethod = types.CalculationMethodInclusive

	result, err := Calculate(decimal.NewFromInt(1180), splitSlab(), false, cfg)
	require.NoError(t, err)

	assertDecimal(t, "1000", result.TaxableAmount, "taxable_amount")
	assertDecimal(t, "90", result.CentralTaxAmount, "central_tax_amount")
	assertDecimal(t, "90", result.RegionalTaxAmount, "regional_tax_amount")
	assertDecimal(t, "1180", result.TotalAmount, "total_amount")
}

// With line-level rounding the rounded parts must sum exactly to the total,
// even when the unrounded halves land on a half-cent.
func TestCalculateSplitAdditivityUnderRounding(t *testing.T) {
	slab := splitSlab()

	amounts := []string{"33.33", "99.99", "0.01", "123.45", "10.005"}
	for _, a := range amounts {
		result, err := Calculate(decimal.RequireFromString(a), slab, false, splitConfig())
		require.NoError(t, err)

		sum := result.CentralTaxAmount.Add(result.RegionalTaxAmount)
		require.True(t, sum.Equal(result.TotalTaxAmount),
			"amount %s: %s + %s != %s", a,
			result.CentralTaxAmount.String(), result.RegionalTaxAmount.String(),
			result.TotalTaxAmount.String())
	}
}

// Document-level rounding keeps line results at full precision so the caller
// can round only the aggregate.
func TestCalculateDocumentLevelRoundingKeepsPrecision(t *testing.T) {
	cfg := splitConfig()
	cfg.RoundAtLineLevel = false

	result, err := Calculate(decimal.RequireFromString("33.33"), splitSlab(), false, cfg)
	require.NoError(t, err)

	// 33.33 * 9% = 2.9997, unrounded
	assertDecimal(t, "2.9997", result.CentralTaxAmount, "central_tax_amount")
	assertDecimal(t, "2.9997", result.RegionalTaxAmount, "regional_tax_amount")
	assertDecimal(t, "5.9994", result.TotalTaxAmount, "total_tax_amount")
}

func TestCalculateZeroAmount(t *testing.T) {
	result, err := Calculate(decimal.Zero, splitSlab(), false, splitConfig())
	require.NoError(t, err)

	assertDecimal(t, "0", result.TaxableAmount, "taxable_amount")
	assertDecimal(t, "0", result.TotalTaxAmount, "total_tax_amount")
	assertDecimal(t, "0", result.TotalAmount, "total_amount")
}

func TestCalculateIsDeterministic(t *testing.T) {
	first, err := Calculate(decimal.RequireFromString("4321.99"), splitSlab(), false, splitConfig())
	require.NoError(t, err)

	second, err := Calculate(decimal.RequireFromString("4321.99"), splitSlab(), false, splitConfig())
	require.NoError(t, err)

	require.True(t, first.TotalTaxAmount.Equal(second.TotalTaxAmount))
	require.True(t, first.TotalAmount.Equal(second.TotalAmount))
	require.True(t, first.CentralTaxAmount.Equal(second.CentralTaxAmount))
}

func TestCalculateValidation(t *testing.T) {
	t.Run("negative amount", func(t *testing.T) {
		_, err := Calculate(decimal.NewFromInt(-1), splitSlab(), false, splitConfig())
		require.Error(t, err)
		require.True(t, ierr.IsValidation(err))
	})

	t.Run("nil slab", func(t *testing.T) {
		_, err := Calculate(decimal.NewFromInt(100), nil, false, splitConfig())
		require.Error(t, err)
		require.True(t, ierr.IsValidation(err))
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := Calculate(decimal.NewFromInt(100), splitSlab(), false, nil)
		require.Error(t, err)
		require.True(t, ierr.IsValidation(err))
	})

	t.Run("inactive slab", func(t *testing.T) {
		slab := splitSlab()
		slab.TaxRateStatus = types.TaxRateStatusInactive

		_, err := Calculate(decimal.NewFromInt(100), slab, false, splitConfig())
		require.Error(t, err)
		require.True(t, ierr.IsValidation(err))
	})

	t.Run("archived slab", func(t *testing.T) {
		slab := splitSlab()
		slab.Status = types.StatusArchived

		_, err := Calculate(decimal.NewFromInt(100), slab, false, splitConfig())
		require.Error(t, err)
		require.True(t, ierr.IsValidation(err))
	})

	t.Run("rate above 100", func(t *testing.T) {
		slab := splitSlab()
		slab.CombinedRate = decimal.NewFromInt(101)

		_, err := Calculate(decimal.NewFromInt(100), slab, false, splitConfig())
		require.Error(t, err)
		require.True(t, ierr.IsValidation(err))
	})
}

func TestResultAddAggregatesFieldWise(t *testing.T) {
	cfg := splitConfig()
	cfg.RoundAtLineLevel = false

	total := &Result{}
	for _, a := range []string{"100", "33.33", "250.50"} {
		line, err := Calculate(decimal.RequireFromString(a), splitSlab(), false, cfg)
		require.NoError(t, err)
		total.Add(line)
	}

	// 383.83 * 18% = 69.0894
	assertDecimal(t, "383.83", total.TaxableAmount, "taxable_amount")
	assertDecimal(t, "69.0894", total.TotalTaxAmount, "total_tax_amount")

	total.Round(2)
	assertDecimal(t, "69.09", total.TotalTaxAmount, "total_tax_amount")
}
