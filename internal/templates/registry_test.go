package templates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/types"
)

func TestResolveKnownCountries(t *testing.T) {
	for _, code := range CountryCodes() {
		tpl, err := Resolve(code)
		require.NoError(t, err, "country %s", code)
		require.Equal(t, code, tpl.CountryCode)
		require.NotEmpty(t, tpl.Name)
		require.NoError(t, tpl.TaxSystem.Validate())
		require.NoError(t, tpl.CalculationMethod.Validate())
	}
}

func TestResolveNormalizesCode(t *testing.T) {
	tpl, err := Resolve(" in ")
	require.NoError(t, err)
	require.Equal(t, CountryIndia, tpl.CountryCode)
}

func TestResolveUnknownCountry(t *testing.T) {
	_, err := Resolve("ZZ")
	require.Error(t, err)
	require.True(t, ierr.IsNotFound(err))
}

func TestIndiaTemplate(t *testing.T) {
	tpl, err := Resolve(CountryIndia)
	require.NoError(t, err)

	require.Equal(t, types.TaxSystemGST, tpl.TaxSystem)
	require.True(t, tpl.HasRegionalTax)
	require.True(t, tpl.HasInterRegionalTax)
	require.Equal(t, "CGST", tpl.CentralTaxLabel)
	require.Equal(t, "SGST", tpl.RegionalTaxLabel)
	require.Equal(t, "IGST", tpl.InterRegionalTaxLabel)
	require.Equal(t, "GSTIN", tpl.TaxIDLabel)
	require.Equal(t, "HSN Code", tpl.ProductCodeLabel)
	require.Equal(t, "SAC Code", tpl.ServiceCodeLabel)
}

func TestUSATemplateHasNoInterRegionalTax(t *testing.T) {
	tpl, err := Resolve(CountryUSA)
	require.NoError(t, err)

	require.True(t, tpl.HasRegionalTax)
	require.False(t, tpl.HasInterRegionalTax)
}

func TestAustraliaTemplateIsInclusive(t *testing.T) {
	tpl, err := Resolve(CountryAustralia)
	require.NoError(t, err)

	require.Equal(t, types.CalculationMethodInclusive, tpl.CalculationMethod)
}

// Every template must produce a configuration that passes domain validation,
// which also guarantees the inter-regional flag never appears without the
// regional flag.
func TestTemplatesProduceValidConfigurations(t *testing.T) {
	ctx := context.WithValue(context.Background(), types.CtxTenantID, types.DefaultTenantID)

	for _, code := range CountryCodes() {
		tpl, err := Resolve(code)
		require.NoError(t, err)

		cfg := tpl.ToTaxConfiguration(ctx)
		require.NoError(t, cfg.Validate(), "country %s", code)
		require.False(t, cfg.IsDefault, "country %s", code)
		require.True(t, cfg.IsActive, "country %s", code)
		require.True(t, cfg.RoundAtLineLevel, "country %s", code)
		require.Equal(t, types.DefaultTenantID, cfg.TenantID)
		require.NotEmpty(t, cfg.ID)
		require.NotEmpty(t, cfg.Code)
	}
}

func TestNoneTemplateDisablesTax(t *testing.T) {
	tpl, err := Resolve(CountryNone)
	require.NoError(t, err)

	require.Equal(t, types.TaxSystemNone, tpl.TaxSystem)
	require.False(t, tpl.HasRegionalTax)
	require.False(t, tpl.HasInterRegionalTax)
}
