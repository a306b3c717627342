package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/omnierp/taxengine/internal/api/dto"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/tax"
	"github.com/omnierp/taxengine/internal/templates"
	"github.com/omnierp/taxengine/internal/testutil"
)

type TaxCalculationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service       TaxCalculationService
	configService TaxConfigService
	rateService   TaxRateService
	regionService TaxRegionService
}

func TestTaxCalculationService(t *testing.T) {
	suite.Run(t, new(TaxCalculationServiceSuite))
}

func (s *TaxCalculationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	params := ServiceParams{
		Logger:        s.GetLogger(),
		Config:        s.GetConfig(),
		DB:            s.GetDB(),
		TaxConfigRepo: stores.TaxConfigRepo,
		TaxRateRepo:   stores.TaxRateRepo,
		TaxRegionRepo: stores.TaxRegionRepo,
	}
	s.service = NewTaxCalculationService(params)
	s.configService = NewTaxConfigService(params)
	s.rateService = NewTaxRateService(params)
	s.regionService = NewTaxRegionService(params)
}

// setupIndia bootstraps the India GST template as the tenant default with a
// default 18% slab. Returns the configuration ID.
func (s *TaxCalculationServiceSuite) setupIndia() string {
	cfg, err := s.configService.CreateTaxConfigFromTemplate(s.GetContext(), templates.CountryIndia)
	s.Require().NoError(err)
	_, err = s.configService.SetAsDefault(s.GetContext(), cfg.ID)
	s.Require().NoError(err)

	rate, err := s.rateService.CreateTaxRate(s.GetContext(), dto.CreateTaxRateRequest{
		TaxConfigID:       cfg.ID,
		Name:              "GST 18%",
		Code:              "GST18",
		CombinedRate:      decimal.NewFromInt(18),
		CentralRate:       decimal.NewFromInt(9),
		RegionalRate:      decimal.NewFromInt(9),
		InterRegionalRate: decimal.NewFromInt(18),
	})
	s.Require().NoError(err)
	_, err = s.rateService.SetDefaultTaxRate(s.GetContext(), rate.ID)
	s.Require().NoError(err)

	return cfg.ID
}

// setupUSA bootstraps the US template as default with a base sales tax slab
// and a California region carrying its own rate plus a local add-on.
func (s *TaxCalculationServiceSuite) setupUSA() string {
	cfg, err := s.configService.CreateTaxConfigFromTemplate(s.GetContext(), templates.CountryUSA)
	s.Require().NoError(err)
	_, err = s.configService.SetAsDefault(s.GetContext(), cfg.ID)
	s.Require().NoError(err)

	rate, err := s.rateService.CreateTaxRate(s.GetContext(), dto.CreateTaxRateRequest{
		TaxConfigID:  cfg.ID,
		Name:         "Base Sales Tax",
		Code:         "BASE",
		CombinedRate: decimal.RequireFromString("6.0"),
		RegionalRate: decimal.RequireFromString("6.0"),
	})
	s.Require().NoError(err)
	_, err = s.rateService.SetDefaultTaxRate(s.GetContext(), rate.ID)
	s.Require().NoError(err)

	_, err = s.regionService.CreateTaxRegion(s.GetContext(), dto.CreateTaxRegionRequest{
		TaxConfigID:     cfg.ID,
		Code:            "CA",
		Name:            "California",
		RegionalTaxRate: decimalPtr("7.25"),
		HasLocalTax:     true,
		LocalTaxRate:    decimalPtr("1.0"),
	})
	s.Require().NoError(err)

	return cfg.ID
}

func (s *TaxCalculationServiceSuite) assertAmount(expected string, actual decimal.Decimal, field string) {
	s.True(actual.Equal(decimal.RequireFromString(expected)),
		"%s: expected %s, got %s", field, expected, actual.String())
}

func (s *TaxCalculationServiceSuite) TestUnconfiguredTenantGetsZeroTax() {
	resp, err := s.service.CalculateLineTax(s.GetContext(), dto.CalculateLineTaxRequest{
		Amount: decimal.NewFromInt(1000),
	})
	s.Require().NoError(err)

	s.assertAmount("1000", resp.TaxableAmount, "taxable_amount")
	s.assertAmount("0", resp.TotalTaxAmount, "total_tax_amount")
	s.assertAmount("1000", resp.TotalAmount, "total_amount")
	s.Empty(resp.TaxConfigID)
}

func (s *TaxCalculationServiceSuite) TestNoTaxSystemGetsZeroTax() {
	cfg, err := s.configService.CreateTaxConfigFromTemplate(s.GetContext(), templates.CountryNone)
	s.Require().NoError(err)
	_, err = s.configService.SetAsDefault(s.GetContext(), cfg.ID)
	s.Require().NoError(err)

	resp, err := s.service.CalculateLineTax(s.GetContext(), dto.CalculateLineTaxRequest{
		Amount: decimal.NewFromInt(500),
	})
	s.Require().NoError(err)
	s.assertAmount("0", resp.TotalTaxAmount, "total_tax_amount")
	s.assertAmount("500", resp.TotalAmount, "total_amount")
}

func (s *TaxCalculationServiceSuite) TestIntraRegionalGST() {
	cfgID := s.setupIndia()

	resp, err := s.service.CalculateLineTax(s.GetContext(), dto.CalculateLineTaxRequest{
		Amount:           decimal.NewFromInt(1000),
		SellerRegionCode: "MH",
		BuyerRegionCode:  "MH",
	})
	s.Require().NoError(err)

	s.Equal(cfgID, resp.TaxConfigID)
	s.False(resp.IsInterRegional)
	s.assertAmount("90", resp.CentralTaxAmount, "central_tax_amount")
	s.assertAmount("90", resp.RegionalTaxAmount, "regional_tax_amount")
	s.assertAmount("180", resp.TotalTaxAmount, "total_tax_amount")
	s.assertAmount("1180", resp.TotalAmount, "total_amount")
}

func (s *TaxCalculationServiceSuite) TestInterRegionalGST() {
	s.setupIndia()

	resp, err := s.service.CalculateLineTax(s.GetContext(), dto.CalculateLineTaxRequest{
		Amount:           decimal.NewFromInt(1000),
		SellerRegionCode: "MH",
		BuyerRegionCode:  "KA",
	})
	s.Require().NoError(err)

	s.True(resp.IsInterRegional)
	s.assertAmount("0", resp.CentralTaxAmount, "central_tax_amount")
	s.assertAmount("0", resp.RegionalTaxAmount, "regional_tax_amount")
	s.assertAmount("180", resp.InterRegionalTaxAmount, "inter_regional_tax_amount")
	s.assertAmount("1180", resp.TotalAmount, "total_amount")
}

func (s *TaxCalculationServiceSuite) TestMissingBuyerRegionIsIntraRegional() {
	s.setupIndia()

	resp, err := s.service.CalculateLineTax(s.GetContext(), dto.CalculateLineTaxRequest{
		Amount:           decimal.NewFromInt(1000),
		SellerRegionCode: "MH",
	})
	s.Require().NoError(err)

	s.False(resp.IsInterRegional)
	s.assertAmount("90", resp.CentralTaxAmount, "central_tax_amount")
}

func (s *TaxCalculationServiceSuite) TestExplicitRateCode() {
	cfgID := s.setupIndia()

	rate, err := s.rateService.CreateTaxRate(s.GetContext(), dto.CreateTaxRateRequest{
		TaxConfigID:       cfgID,
		Name:              "GST 5%",
		Code:              "GST5",
		CombinedRate:      decimal.NewFromInt(5),
		CentralRate:       decimal.RequireFromString("2.5"),
		RegionalRate:      decimal.RequireFromString("2.5"),
		InterRegionalRate: decimal.NewFromInt(5),
	})
	s.Require().NoError(err)

	resp, err := s.service.CalculateLineTax(s.GetContext(), dto.CalculateLineTaxRequest{
		Amount:      decimal.NewFromInt(1000),
		TaxRateCode: "GST5",
	})
	s.Require().NoError(err)

	s.Equal(rate.ID, resp.TaxRateID)
	s.assertAmount("50", resp.TotalTaxAmount, "total_tax_amount")
}

func (s *TaxCalculationServiceSuite) TestUnknownExplicitRateCodeFails() {
	s.setupIndia()

	_, err := s.service.CalculateLineTax(s.GetContext(), dto.CalculateLineTaxRequest{
		Amount:      decimal.NewFromInt(1000),
		TaxRateCode: "MISSING",
	})
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TaxCalculationServiceSuite) TestConfigWithoutDefaultSlabGetsZeroTax() {
	cfg, err := s.configService.CreateTaxConfigFromTemplate(s.GetContext(), templates.CountryUK)
	s.Require().NoError(err)
	_, err = s.configService.SetAsDefault(s.GetContext(), cfg.ID)
	s.Require().NoError(err)

	resp, err := s.service.CalculateLineTax(s.GetContext(), dto.CalculateLineTaxRequest{
		Amount: decimal.NewFromInt(750),
	})
	s.Require().NoError(err)
	s.assertAmount("0", resp.TotalTaxAmount, "total_tax_amount")
	s.assertAmount("750", resp.TotalAmount, "total_amount")
	s.Equal(cfg.ID, resp.TaxConfigID)
	s.Empty(resp.TaxRateID)
}

// A destination-based sales tax sale into a region with its own rate uses
// that region's rate plus the local add-on, replacing the slab's base rate.
func (s *TaxCalculationServiceSuite) TestRegionRateOverrideWithLocalTax() {
	s.setupUSA()

	resp, err := s.service.CalculateLineTax(s.GetContext(), dto.CalculateLineTaxRequest{
		Amount:           decimal.NewFromInt(100),
		SellerRegionCode: "WA",
		BuyerRegionCode:  "CA",
	})
	s.Require().NoError(err)

	// 7.25 regional + 1.0 local = 8.25 on 100
	s.assertAmount("8.25", resp.RegionalTaxAmount, "regional_tax_amount")
	s.assertAmount("8.25", resp.TotalTaxAmount, "total_tax_amount")
	s.assertAmount("108.25", resp.TotalAmount, "total_amount")
	s.assertAmount("0", resp.InterRegionalTaxAmount, "inter_regional_tax_amount")
}

// Sales into a region without its own record fall back to the slab's base
// rate.
func (s *TaxCalculationServiceSuite) TestUnknownRegionFallsBackToSlabRate() {
	s.setupUSA()

	resp, err := s.service.CalculateLineTax(s.GetContext(), dto.CalculateLineTaxRequest{
		Amount:           decimal.NewFromInt(100),
		SellerRegionCode: "WA",
		BuyerRegionCode:  "MT",
	})
	s.Require().NoError(err)

	s.assertAmount("6", resp.TotalTaxAmount, "total_tax_amount")
	s.assertAmount("106", resp.TotalAmount, "total_amount")
}

func (s *TaxCalculationServiceSuite) TestNegativeAmountRejected() {
	s.setupIndia()

	_, err := s.service.CalculateLineTax(s.GetContext(), dto.CalculateLineTaxRequest{
		Amount: decimal.NewFromInt(-10),
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TaxCalculationServiceSuite) TestAggregateLineResults() {
	cfgID := s.setupIndia()

	cfg, err := s.configService.GetTaxConfig(s.GetContext(), cfgID)
	s.Require().NoError(err)

	var lines []*tax.Result
	for _, amount := range []int64{1000, 500, 250} {
		resp, err := s.service.CalculateLineTax(s.GetContext(), dto.CalculateLineTaxRequest{
			Amount:           decimal.NewFromInt(amount),
			SellerRegionCode: "MH",
			BuyerRegionCode:  "MH",
		})
		s.Require().NoError(err)
		lines = append(lines, resp.Result)
	}

	total := s.service.AggregateLineResults(cfg.TaxConfiguration, lines)

	s.assertAmount("1750", total.TaxableAmount, "taxable_amount")
	s.assertAmount("157.5", total.CentralTaxAmount, "central_tax_amount")
	s.assertAmount("157.5", total.RegionalTaxAmount, "regional_tax_amount")
	s.assertAmount("315", total.TotalTaxAmount, "total_tax_amount")
	s.assertAmount("2065", total.TotalAmount, "total_amount")
}
