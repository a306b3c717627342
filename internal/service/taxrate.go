package service

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/omnierp/taxengine/internal/api/dto"
	"github.com/omnierp/taxengine/internal/domain/taxconfig"
	"github.com/omnierp/taxengine/internal/domain/taxrate"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/types"
)

// splitRateEpsilon is the tolerance for the central + regional = combined
// check. Rates are entered by hand and half-rate splits like 9.25% leave
// sub-cent residue, so exact equality is too strict.
var splitRateEpsilon = decimal.NewFromFloat(0.01)

// TaxRateService manages the rate definitions (slabs) of a configuration
type TaxRateService interface {
	CreateTaxRate(ctx context.Context, req dto.CreateTaxRateRequest) (*dto.TaxRateResponse, error)
	GetTaxRate(ctx context.Context, id string) (*dto.TaxRateResponse, error)
	GetTaxRateByCode(ctx context.Context, taxConfigID, code string) (*dto.TaxRateResponse, error)
	ListTaxRates(ctx context.Context, filter *types.TaxRateFilter) (*dto.ListTaxRatesResponse, error)
	ListActiveTaxRates(ctx context.Context, taxConfigID string) (*dto.ListTaxRatesResponse, error)
	UpdateTaxRate(ctx context.Context, id string, req dto.UpdateTaxRateRequest) (*dto.TaxRateResponse, error)
	SetDefaultTaxRate(ctx context.Context, id string) (*dto.TaxRateResponse, error)
	DeleteTaxRate(ctx context.Context, id string) error
}

type taxRateService struct {
	ServiceParams
}

func NewTaxRateService(params ServiceParams) TaxRateService {
	return &taxRateService{
		ServiceParams: params,
	}
}

func (s *taxRateService) CreateTaxRate(ctx context.Context, req dto.CreateTaxRateRequest) (*dto.TaxRateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cfg, err := s.TaxConfigRepo.Get(ctx, req.TaxConfigID)
	if err != nil {
		return nil, err
	}

	rate := req.ToRateDefinition(ctx)
	if err := validateSplitRates(cfg, rate); err != nil {
		return nil, err
	}

	existing, err := s.TaxRateRepo.GetByCode(ctx, req.TaxConfigID, req.Code)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ierr.NewError("rate definition code already exists").
			WithHintf("A rate definition with code %s already exists for this configuration", req.Code).
			WithReportableDetails(map[string]any{
				"tax_config_id": req.TaxConfigID,
				"code":          req.Code,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	if err := s.TaxRateRepo.Create(ctx, rate); err != nil {
		return nil, err
	}

	s.Logger.Infow("created rate definition",
		"tax_rate_id", rate.ID,
		"tax_config_id", rate.TaxConfigID,
		"code", rate.Code,
		"combined_rate", rate.CombinedRate)

	return &dto.TaxRateResponse{RateDefinition: rate}, nil
}

func (s *taxRateService) GetTaxRate(ctx context.Context, id string) (*dto.TaxRateResponse, error) {
	if id == "" {
		return nil, ierr.NewError("tax rate id is required").
			WithHint("Tax rate ID is required").
			Mark(ierr.ErrValidation)
	}

	rate, err := s.TaxRateRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.TaxRateResponse{RateDefinition: rate}, nil
}

func (s *taxRateService) GetTaxRateByCode(ctx context.Context, taxConfigID, code string) (*dto.TaxRateResponse, error) {
	if taxConfigID == "" || code == "" {
		return nil, ierr.NewError("tax_config_id and code are required").
			WithHint("Both the configuration ID and the rate code are required").
			Mark(ierr.ErrValidation)
	}

	rate, err := s.TaxRateRepo.GetByCode(ctx, taxConfigID, code)
	if err != nil {
		return nil, err
	}

	return &dto.TaxRateResponse{RateDefinition: rate}, nil
}

func (s *taxRateService) ListTaxRates(ctx context.Context, filter *types.TaxRateFilter) (*dto.ListTaxRatesResponse, error) {
	if filter == nil {
		filter = types.NewDefaultTaxRateFilter()
	}

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	rates, err := s.TaxRateRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.TaxRateRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListTaxRatesResponse{
		Items: lo.Map(rates, func(rate *taxrate.RateDefinition, _ int) *dto.TaxRateResponse {
			return &dto.TaxRateResponse{RateDefinition: rate}
		}),
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

// ListActiveTaxRates returns the slabs selectable on new document lines,
// ordered for dropdown rendering
func (s *taxRateService) ListActiveTaxRates(ctx context.Context, taxConfigID string) (*dto.ListTaxRatesResponse, error) {
	filter := types.NewNoLimitTaxRateFilter()
	filter.TaxConfigID = taxConfigID
	filter.TaxRateStatus = types.TaxRateStatusActive

	rates, err := s.TaxRateRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rates, func(i, j int) bool {
		if rates[i].DisplayOrder != rates[j].DisplayOrder {
			return rates[i].DisplayOrder < rates[j].DisplayOrder
		}
		return rates[i].Name < rates[j].Name
	})

	return &dto.ListTaxRatesResponse{
		Items: lo.Map(rates, func(rate *taxrate.RateDefinition, _ int) *dto.TaxRateResponse {
			return &dto.TaxRateResponse{RateDefinition: rate}
		}),
		Pagination: types.NewPaginationResponse(len(rates), filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *taxRateService) UpdateTaxRate(ctx context.Context, id string, req dto.UpdateTaxRateRequest) (*dto.TaxRateResponse, error) {
	rate, err := s.TaxRateRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cfg, err := s.TaxConfigRepo.Get(ctx, rate.TaxConfigID)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(rate)

	if err := rate.Validate(); err != nil {
		return nil, err
	}

	if err := validateSplitRates(cfg, rate); err != nil {
		return nil, err
	}

	if err := s.TaxRateRepo.Update(ctx, rate); err != nil {
		return nil, err
	}

	return &dto.TaxRateResponse{RateDefinition: rate}, nil
}

// SetDefaultTaxRate promotes the slab to its configuration's default,
// demoting the previous default in the same transaction
func (s *taxRateService) SetDefaultTaxRate(ctx context.Context, id string) (*dto.TaxRateResponse, error) {
	rate, err := s.TaxRateRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Inactive slabs are invisible to default promotion, same as deleted ones
	if !rate.IsActive() {
		return nil, ierr.NewError("active rate definition not found").
			WithHint("Activate the rate definition before setting it as default").
			WithReportableDetails(map[string]any{
				"tax_rate_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	if rate.IsDefault {
		return &dto.TaxRateResponse{RateDefinition: rate}, nil
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		filter := types.NewNoLimitTaxRateFilter()
		filter.TaxConfigID = rate.TaxConfigID
		filter.IsDefault = lo.ToPtr(true)

		defaults, err := s.TaxRateRepo.List(ctx, filter)
		if err != nil {
			return err
		}

		for _, existing := range defaults {
			existing.IsDefault = false
			if err := s.TaxRateRepo.Update(ctx, existing); err != nil {
				return err
			}
		}

		rate.IsDefault = true
		return s.TaxRateRepo.Update(ctx, rate)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("set default rate definition",
		"tax_rate_id", rate.ID,
		"tax_config_id", rate.TaxConfigID)

	return &dto.TaxRateResponse{RateDefinition: rate}, nil
}

func (s *taxRateService) DeleteTaxRate(ctx context.Context, id string) error {
	rate, err := s.TaxRateRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.TaxRateRepo.Delete(ctx, rate); err != nil {
		return err
	}

	s.Logger.Infow("deleted rate definition", "tax_rate_id", id)
	return nil
}

// validateSplitRates enforces central + regional = combined (within epsilon)
// for split systems. The check only applies when the owning configuration
// levies regional tax and the slab actually carries tax; custom systems are
// treated as split once they populate a central component.
func validateSplitRates(cfg *taxconfig.TaxConfiguration, rate *taxrate.RateDefinition) error {
	if !cfg.HasRegionalTax || rate.IsTaxFree() {
		return nil
	}

	split := cfg.TaxSystem.IsSplitSystem() ||
		(cfg.TaxSystem == types.TaxSystemCustom && rate.CentralRate.IsPositive())
	if !split {
		return nil
	}

	sum := rate.CentralRate.Add(rate.RegionalRate)
	if sum.Sub(rate.CombinedRate).Abs().GreaterThan(splitRateEpsilon) {
		return ierr.NewError("split rates do not add up to combined rate").
			WithHintf("central rate + regional rate (%s) does not equal combined rate (%s)",
				sum.String(), rate.CombinedRate.String()).
			WithReportableDetails(map[string]any{
				"central_rate":  rate.CentralRate.String(),
				"regional_rate": rate.RegionalRate.String(),
				"combined_rate": rate.CombinedRate.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
