package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/omnierp/taxengine/internal/api/dto"
	"github.com/omnierp/taxengine/internal/domain/taxconfig"
	"github.com/omnierp/taxengine/internal/domain/taxrate"
	"github.com/omnierp/taxengine/internal/domain/taxregion"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/tax"
	"github.com/omnierp/taxengine/internal/types"
)

// TaxCalculationService resolves the tenant's configuration, slab and regions
// for a document line and delegates the arithmetic to the pure calculator
type TaxCalculationService interface {
	CalculateLineTax(ctx context.Context, req dto.CalculateLineTaxRequest) (*dto.CalculateLineTaxResponse, error)
	AggregateLineResults(cfg *taxconfig.TaxConfiguration, results []*tax.Result) *tax.Result
}

type taxCalculationService struct {
	ServiceParams
}

func NewTaxCalculationService(params ServiceParams) TaxCalculationService {
	return &taxCalculationService{
		ServiceParams: params,
	}
}

// CalculateLineTax computes the tax breakdown for one document line. Tenants
// without a default configuration, or configured with the no-tax system, get a
// zero breakdown instead of an error so document flows never branch on tax
// being set up.
func (s *taxCalculationService) CalculateLineTax(ctx context.Context, req dto.CalculateLineTaxRequest) (*dto.CalculateLineTaxResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cfg, err := s.resolveConfig(ctx, req.TaxConfigID)
	if err != nil {
		return nil, err
	}
	if cfg == nil || cfg.TaxSystem == types.TaxSystemNone {
		return &dto.CalculateLineTaxResponse{Result: zeroResult(req.Amount)}, nil
	}

	slab, err := s.resolveSlab(ctx, cfg.ID, req)
	if err != nil {
		return nil, err
	}
	if slab == nil {
		return &dto.CalculateLineTaxResponse{
			Result:      zeroResult(req.Amount),
			TaxConfigID: cfg.ID,
		}, nil
	}

	isInterRegional := taxregion.IsInterRegional(req.SellerRegionCode, req.BuyerRegionCode)

	// Destination-based regional systems without an inter-regional levy (US
	// sales tax) charge the buyer region's own rate. Split systems keep the
	// slab's statutory rates untouched.
	if cfg.HasRegionalTax && !cfg.HasInterRegionalTax && !slab.IsTaxFree() {
		slab, err = s.applyRegionRates(ctx, cfg.ID, slab, req)
		if err != nil {
			return nil, err
		}
	}

	result, err := tax.Calculate(req.Amount, slab, isInterRegional, cfg)
	if err != nil {
		return nil, err
	}

	return &dto.CalculateLineTaxResponse{
		Result:      result,
		TaxConfigID: cfg.ID,
		TaxRateID:   slab.ID,
	}, nil
}

// AggregateLineResults sums line breakdowns into a document total. On
// document-level rounding the lines arrive at full precision and only the
// aggregate is rounded.
func (s *taxCalculationService) AggregateLineResults(cfg *taxconfig.TaxConfiguration, results []*tax.Result) *tax.Result {
	total := &tax.Result{}
	for _, r := range results {
		total.Add(r)
	}

	if cfg != nil && !cfg.RoundAtLineLevel {
		total.Round(cfg.DecimalPlaces)
	}

	return total
}

func (s *taxCalculationService) resolveConfig(ctx context.Context, taxConfigID string) (*taxconfig.TaxConfiguration, error) {
	if taxConfigID != "" {
		return s.TaxConfigRepo.Get(ctx, taxConfigID)
	}

	cfg, err := s.TaxConfigRepo.GetDefault(ctx)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return cfg, nil
}

// resolveSlab picks the rate definition by ID, then code, then the
// configuration's default. A missing explicit slab is an error; a missing
// default only means the tenant has not set one up, which yields no tax.
func (s *taxCalculationService) resolveSlab(ctx context.Context, taxConfigID string, req dto.CalculateLineTaxRequest) (*taxrate.RateDefinition, error) {
	if req.TaxRateID != "" {
		return s.TaxRateRepo.Get(ctx, req.TaxRateID)
	}

	if req.TaxRateCode != "" {
		return s.TaxRateRepo.GetByCode(ctx, taxConfigID, req.TaxRateCode)
	}

	slab, err := s.TaxRateRepo.GetDefault(ctx, taxConfigID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return slab, nil
}

// applyRegionRates returns a copy of the slab with the regional rate replaced
// by the destination region's own rate plus its local add-on. The stored slab
// is never mutated. Unknown or inactive regions leave the slab untouched.
func (s *taxCalculationService) applyRegionRates(ctx context.Context, taxConfigID string, slab *taxrate.RateDefinition, req dto.CalculateLineTaxRequest) (*taxrate.RateDefinition, error) {
	regionCode := req.BuyerRegionCode
	if regionCode == "" {
		regionCode = req.SellerRegionCode
	}
	if regionCode == "" {
		return slab, nil
	}

	region, err := s.TaxRegionRepo.GetByCode(ctx, taxConfigID, regionCode)
	if err != nil {
		if ierr.IsNotFound(err) {
			return slab, nil
		}
		return nil, err
	}
	if !region.IsActive {
		return slab, nil
	}

	regionalRate := slab.RegionalRate
	if region.RegionalTaxRate != nil {
		regionalRate = lo.FromPtr(region.RegionalTaxRate)
	}
	if region.HasLocalTax && region.LocalTaxRate != nil {
		regionalRate = regionalRate.Add(lo.FromPtr(region.LocalTaxRate))
	}

	adjusted := *slab
	adjusted.RegionalRate = regionalRate
	adjusted.CombinedRate = slab.CentralRate.Add(regionalRate)
	return &adjusted, nil
}

func zeroResult(amount decimal.Decimal) *tax.Result {
	return &tax.Result{
		TaxableAmount: amount,
		TotalAmount:   amount,
	}
}
