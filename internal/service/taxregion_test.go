package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/omnierp/taxengine/internal/api/dto"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/templates"
	"github.com/omnierp/taxengine/internal/testutil"
)

type TaxRegionServiceSuite struct {
	testutil.BaseServiceTestSuite
	service       TaxRegionService
	configService TaxConfigService
	usConfigID    string
	vatConfigID   string
}

func TestTaxRegionService(t *testing.T) {
	suite.Run(t, new(TaxRegionServiceSuite))
}

func (s *TaxRegionServiceSuite) SetupTest() {
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
	s.service = NewTaxRegionService(params)
	s.configService = NewTaxConfigService(params)

	us, err := s.configService.CreateTaxConfigFromTemplate(s.GetContext(), templates.CountryUSA)
	s.Require().NoError(err)
	s.usConfigID = us.ID

	vat, err := s.configService.CreateTaxConfigFromTemplate(s.GetContext(), templates.CountryUK)
	s.Require().NoError(err)
	s.vatConfigID = vat.ID
}

func (s *TaxRegionServiceSuite) TestCreateRegion() {
	resp, err := s.service.CreateTaxRegion(s.GetContext(), dto.CreateTaxRegionRequest{
		TaxConfigID:     s.usConfigID,
		Code:            "CA",
		Name:            "California",
		RegionalTaxRate: decimalPtr("7.25"),
		HasLocalTax:     true,
		LocalTaxRate:    decimalPtr("1.0"),
	})
	s.Require().NoError(err)

	s.NotEmpty(resp.ID)
	s.True(resp.IsActive)
	s.True(resp.HasLocalTax)
	s.True(resp.RegionalTaxRate.Equal(decimal.RequireFromString("7.25")))
}

func (s *TaxRegionServiceSuite) TestCreateRegionRejectedForCombinedSystem() {
	_, err := s.service.CreateTaxRegion(s.GetContext(), dto.CreateTaxRegionRequest{
		TaxConfigID: s.vatConfigID,
		Code:        "LDN",
		Name:        "London",
	})
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *TaxRegionServiceSuite) TestCreateRegionRejectsDuplicateCode() {
	_, err := s.service.CreateTaxRegion(s.GetContext(), dto.CreateTaxRegionRequest{
		TaxConfigID: s.usConfigID,
		Code:        "NY",
		Name:        "New York",
	})
	s.Require().NoError(err)

	_, err = s.service.CreateTaxRegion(s.GetContext(), dto.CreateTaxRegionRequest{
		TaxConfigID: s.usConfigID,
		Code:        "NY",
		Name:        "New York again",
	})
	s.Require().Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *TaxRegionServiceSuite) TestCreateRegionLocalRateRequiresFlag() {
	_, err := s.service.CreateTaxRegion(s.GetContext(), dto.CreateTaxRegionRequest{
		TaxConfigID:  s.usConfigID,
		Code:         "TX",
		Name:         "Texas",
		LocalTaxRate: decimalPtr("2.0"),
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TaxRegionServiceSuite) TestGetRegionByCodeIsCaseInsensitive() {
	created, err := s.service.CreateTaxRegion(s.GetContext(), dto.CreateTaxRegionRequest{
		TaxConfigID: s.usConfigID,
		Code:        "WA",
		Name:        "Washington",
	})
	s.Require().NoError(err)

	resp, err := s.service.GetTaxRegionByCode(s.GetContext(), s.usConfigID, "wa")
	s.Require().NoError(err)
	s.Equal(created.ID, resp.ID)
}

func (s *TaxRegionServiceSuite) TestListActiveOrdersByDisplayOrder() {
	for _, r := range []struct {
		code  string
		name  string
		order int
	}{
		{"CA", "California", 2},
		{"NY", "New York", 1},
		{"TX", "Texas", 3},
	} {
		_, err := s.service.CreateTaxRegion(s.GetContext(), dto.CreateTaxRegionRequest{
			TaxConfigID:  s.usConfigID,
			Code:         r.code,
			Name:         r.name,
			DisplayOrder: r.order,
		})
		s.Require().NoError(err)
	}

	resp, err := s.service.ListActiveTaxRegions(s.GetContext(), s.usConfigID)
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 3)
	s.Equal("NY", resp.Items[0].Code)
	s.Equal("CA", resp.Items[1].Code)
	s.Equal("TX", resp.Items[2].Code)
}

func (s *TaxRegionServiceSuite) TestDeactivatedRegionExcludedFromActiveList() {
	created, err := s.service.CreateTaxRegion(s.GetContext(), dto.CreateTaxRegionRequest{
		TaxConfigID: s.usConfigID,
		Code:        "OR",
		Name:        "Oregon",
	})
	s.Require().NoError(err)

	_, err = s.service.UpdateTaxRegion(s.GetContext(), created.ID, dto.UpdateTaxRegionRequest{
		IsActive: boolPtr(false),
	})
	s.Require().NoError(err)

	resp, err := s.service.ListActiveTaxRegions(s.GetContext(), s.usConfigID)
	s.Require().NoError(err)
	s.Len(resp.Items, 0)
}

func (s *TaxRegionServiceSuite) TestDeleteRegion() {
	created, err := s.service.CreateTaxRegion(s.GetContext(), dto.CreateTaxRegionRequest{
		TaxConfigID: s.usConfigID,
		Code:        "NV",
		Name:        "Nevada",
	})
	s.Require().NoError(err)

	err = s.service.DeleteTaxRegion(s.GetContext(), created.ID)
	s.Require().NoError(err)

	_, err = s.service.GetTaxRegion(s.GetContext(), created.ID)
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}
