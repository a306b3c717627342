package service

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/omnierp/taxengine/internal/api/dto"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/templates"
	"github.com/omnierp/taxengine/internal/testutil"
	"github.com/omnierp/taxengine/internal/types"
)

type TaxConfigServiceSuite struct {
	testutil.BaseServiceTestSuite
	service TaxConfigService
}

func TestTaxConfigService(t *testing.T) {
	suite.Run(t, new(TaxConfigServiceSuite))
}

func (s *TaxConfigServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewTaxConfigService(s.params())
}

func (s *TaxConfigServiceSuite) params() ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:        s.GetLogger(),
		Config:        s.GetConfig(),
		DB:            s.GetDB(),
		TaxConfigRepo: stores.TaxConfigRepo,
		TaxRateRepo:   stores.TaxRateRepo,
		TaxRegionRepo: stores.TaxRegionRepo,
	}
}

func (s *TaxConfigServiceSuite) createConfig(name string) *dto.TaxConfigResponse {
	resp, err := s.service.CreateTaxConfig(s.GetContext(), dto.CreateTaxConfigRequest{
		Name:              name,
		CountryCode:       "GB",
		TaxSystem:         types.TaxSystemVAT,
		CombinedTaxLabel:  "VAT",
		CalculationMethod: types.CalculationMethodExclusive,
		DecimalPlaces:     2,
		RoundAtLineLevel:  true,
	})
	s.Require().NoError(err)
	return resp
}

func (s *TaxConfigServiceSuite) TestCreateTaxConfig() {
	resp := s.createConfig("UK VAT")

	s.NotEmpty(resp.ID)
	s.NotEmpty(resp.Code)
	s.Equal(types.TaxSystemVAT, resp.TaxSystem)
	s.False(resp.IsDefault)
	s.True(resp.IsActive)
	s.Equal(types.DefaultTenantID, resp.TenantID)

	got, err := s.service.GetTaxConfig(s.GetContext(), resp.ID)
	s.Require().NoError(err)
	s.Equal("UK VAT", got.Name)
}

func (s *TaxConfigServiceSuite) TestCreateTaxConfigInvalidSystem() {
	_, err := s.service.CreateTaxConfig(s.GetContext(), dto.CreateTaxConfigRequest{
		Name:              "Broken",
		TaxSystem:         types.TaxSystem("martian"),
		CalculationMethod: types.CalculationMethodExclusive,
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TaxConfigServiceSuite) TestCreateTaxConfigRejectsInterRegionalWithoutRegional() {
	_, err := s.service.CreateTaxConfig(s.GetContext(), dto.CreateTaxConfigRequest{
		Name:                "Broken Flags",
		TaxSystem:           types.TaxSystemCustom,
		HasRegionalTax:      false,
		HasInterRegionalTax: true,
		CalculationMethod:   types.CalculationMethodExclusive,
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TaxConfigServiceSuite) TestCreateFromTemplate() {
	resp, err := s.service.CreateTaxConfigFromTemplate(s.GetContext(), templates.CountryIndia)
	s.Require().NoError(err)

	s.Equal(types.TaxSystemGST, resp.TaxSystem)
	s.Equal("CGST", resp.CentralTaxLabel)
	s.Equal("IGST", resp.InterRegionalTaxLabel)
	s.True(resp.HasRegionalTax)
	s.True(resp.HasInterRegionalTax)
	s.False(resp.IsDefault)
	s.Equal("INR", resp.Currency)
}

func (s *TaxConfigServiceSuite) TestCreateFromTemplateUnknownCountry() {
	_, err := s.service.CreateTaxConfigFromTemplate(s.GetContext(), "ZZ")
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TaxConfigServiceSuite) TestGetCurrentTaxConfigWhenUnconfigured() {
	resp, err := s.service.GetCurrentTaxConfig(s.GetContext())
	s.Require().NoError(err)
	s.Nil(resp)
}

func (s *TaxConfigServiceSuite) TestSetAsDefaultIsExclusive() {
	first := s.createConfig("First")
	second := s.createConfig("Second")

	_, err := s.service.SetAsDefault(s.GetContext(), first.ID)
	s.Require().NoError(err)

	current, err := s.service.GetCurrentTaxConfig(s.GetContext())
	s.Require().NoError(err)
	s.Require().NotNil(current)
	s.Equal(first.ID, current.ID)

	_, err = s.service.SetAsDefault(s.GetContext(), second.ID)
	s.Require().NoError(err)

	current, err = s.service.GetCurrentTaxConfig(s.GetContext())
	s.Require().NoError(err)
	s.Require().NotNil(current)
	s.Equal(second.ID, current.ID)

	// The old default must have been demoted
	demoted, err := s.service.GetTaxConfig(s.GetContext(), first.ID)
	s.Require().NoError(err)
	s.False(demoted.IsDefault)
}

func (s *TaxConfigServiceSuite) TestSetAsDefaultIsIdempotent() {
	cfg := s.createConfig("Only")

	_, err := s.service.SetAsDefault(s.GetContext(), cfg.ID)
	s.Require().NoError(err)

	resp, err := s.service.SetAsDefault(s.GetContext(), cfg.ID)
	s.Require().NoError(err)
	s.True(resp.IsDefault)
}

func (s *TaxConfigServiceSuite) TestSetAsDefaultRejectsInactive() {
	cfg := s.createConfig("Inactive")

	_, err := s.service.UpdateTaxConfig(s.GetContext(), cfg.ID, dto.UpdateTaxConfigRequest{
		IsActive: boolPtr(false),
	})
	s.Require().NoError(err)

	_, err = s.service.SetAsDefault(s.GetContext(), cfg.ID)
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TaxConfigServiceSuite) TestDeleteDefaultIsRejected() {
	cfg := s.createConfig("Default")

	_, err := s.service.SetAsDefault(s.GetContext(), cfg.ID)
	s.Require().NoError(err)

	err = s.service.DeleteTaxConfig(s.GetContext(), cfg.ID)
	s.Require().Error(err)
	s.True(ierr.IsConflict(err))
}

func (s *TaxConfigServiceSuite) TestDeleteNonDefault() {
	cfg := s.createConfig("Disposable")

	err := s.service.DeleteTaxConfig(s.GetContext(), cfg.ID)
	s.Require().NoError(err)

	_, err = s.service.GetTaxConfig(s.GetContext(), cfg.ID)
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TaxConfigServiceSuite) TestUpdateTaxConfig() {
	cfg := s.createConfig("Original")

	resp, err := s.service.UpdateTaxConfig(s.GetContext(), cfg.ID, dto.UpdateTaxConfigRequest{
		Name:             "Renamed",
		CombinedTaxLabel: "Value Added Tax",
	})
	s.Require().NoError(err)
	s.Equal("Renamed", resp.Name)
	s.Equal("Value Added Tax", resp.CombinedTaxLabel)
	// Untouched fields keep their values
	s.Equal(types.TaxSystemVAT, resp.TaxSystem)
}

func (s *TaxConfigServiceSuite) TestListFiltersByCountry() {
	s.createConfig("UK One")
	s.createConfig("UK Two")
	_, err := s.service.CreateTaxConfigFromTemplate(s.GetContext(), templates.CountryIndia)
	s.Require().NoError(err)

	filter := types.NewDefaultTaxConfigFilter()
	filter.CountryCode = "GB"

	resp, err := s.service.ListTaxConfigs(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(2, resp.Pagination.Total)
}

func (s *TaxConfigServiceSuite) TestTenantIsolation() {
	cfg := s.createConfig("Tenant A Config")

	s.SetContextTenant("tenant-b")

	_, err := s.service.GetTaxConfig(s.GetContext(), cfg.ID)
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))

	resp, err := s.service.GetCurrentTaxConfig(s.GetContext())
	s.Require().NoError(err)
	s.Nil(resp)
}

func boolPtr(b bool) *bool {
	return &b
}
