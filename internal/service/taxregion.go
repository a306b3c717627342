package service

import (
	"context"
	"sort"

	"github.com/samber/lo"

	"github.com/omnierp/taxengine/internal/api/dto"
	"github.com/omnierp/taxengine/internal/domain/taxregion"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/types"
)

// TaxRegionService manages the sub-national regions of a configuration
type TaxRegionService interface {
	CreateTaxRegion(ctx context.Context, req dto.CreateTaxRegionRequest) (*dto.TaxRegionResponse, error)
	GetTaxRegion(ctx context.Context, id string) (*dto.TaxRegionResponse, error)
	GetTaxRegionByCode(ctx context.Context, taxConfigID, code string) (*dto.TaxRegionResponse, error)
	ListTaxRegions(ctx context.Context, filter *types.TaxRegionFilter) (*dto.ListTaxRegionsResponse, error)
	ListActiveTaxRegions(ctx context.Context, taxConfigID string) (*dto.ListTaxRegionsResponse, error)
	UpdateTaxRegion(ctx context.Context, id string, req dto.UpdateTaxRegionRequest) (*dto.TaxRegionResponse, error)
	DeleteTaxRegion(ctx context.Context, id string) error
}

type taxRegionService struct {
	ServiceParams
}

func NewTaxRegionService(params ServiceParams) TaxRegionService {
	return &taxRegionService{
		ServiceParams: params,
	}
}

func (s *taxRegionService) CreateTaxRegion(ctx context.Context, req dto.CreateTaxRegionRequest) (*dto.TaxRegionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cfg, err := s.TaxConfigRepo.Get(ctx, req.TaxConfigID)
	if err != nil {
		return nil, err
	}

	if !cfg.HasRegionalTax {
		return nil, ierr.NewError("configuration does not levy regional tax").
			WithHint("Regions can only be defined for configurations with regional tax").
			WithReportableDetails(map[string]any{
				"tax_config_id": req.TaxConfigID,
				"tax_system":    cfg.TaxSystem,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	existing, err := s.TaxRegionRepo.GetByCode(ctx, req.TaxConfigID, req.Code)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ierr.NewError("region code already exists").
			WithHintf("A region with code %s already exists for this configuration", req.Code).
			WithReportableDetails(map[string]any{
				"tax_config_id": req.TaxConfigID,
				"code":          req.Code,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	region := req.ToRegion(ctx)
	if err := s.TaxRegionRepo.Create(ctx, region); err != nil {
		return nil, err
	}

	s.Logger.Infow("created tax region",
		"tax_region_id", region.ID,
		"tax_config_id", region.TaxConfigID,
		"code", region.Code)

	return &dto.TaxRegionResponse{Region: region}, nil
}

func (s *taxRegionService) GetTaxRegion(ctx context.Context, id string) (*dto.TaxRegionResponse, error) {
	if id == "" {
		return nil, ierr.NewError("tax region id is required").
			WithHint("Tax region ID is required").
			Mark(ierr.ErrValidation)
	}

	region, err := s.TaxRegionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.TaxRegionResponse{Region: region}, nil
}

func (s *taxRegionService) GetTaxRegionByCode(ctx context.Context, taxConfigID, code string) (*dto.TaxRegionResponse, error) {
	if taxConfigID == "" || code == "" {
		return nil, ierr.NewError("tax_config_id and code are required").
			WithHint("Both the configuration ID and the region code are required").
			Mark(ierr.ErrValidation)
	}

	region, err := s.TaxRegionRepo.GetByCode(ctx, taxConfigID, code)
	if err != nil {
		return nil, err
	}

	return &dto.TaxRegionResponse{Region: region}, nil
}

func (s *taxRegionService) ListTaxRegions(ctx context.Context, filter *types.TaxRegionFilter) (*dto.ListTaxRegionsResponse, error) {
	if filter == nil {
		filter = types.NewDefaultTaxRegionFilter()
	}

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	regions, err := s.TaxRegionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.TaxRegionRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListTaxRegionsResponse{
		Items: lo.Map(regions, func(region *taxregion.Region, _ int) *dto.TaxRegionResponse {
			return &dto.TaxRegionResponse{Region: region}
		}),
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

// ListActiveTaxRegions returns the regions selectable on addresses and
// documents, ordered for dropdown rendering
func (s *taxRegionService) ListActiveTaxRegions(ctx context.Context, taxConfigID string) (*dto.ListTaxRegionsResponse, error) {
	filter := types.NewNoLimitTaxRegionFilter()
	filter.TaxConfigID = taxConfigID
	filter.IsActive = lo.ToPtr(true)

	regions, err := s.TaxRegionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].DisplayOrder != regions[j].DisplayOrder {
			return regions[i].DisplayOrder < regions[j].DisplayOrder
		}
		return regions[i].Name < regions[j].Name
	})

	return &dto.ListTaxRegionsResponse{
		Items: lo.Map(regions, func(region *taxregion.Region, _ int) *dto.TaxRegionResponse {
			return &dto.TaxRegionResponse{Region: region}
		}),
		Pagination: types.NewPaginationResponse(len(regions), filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *taxRegionService) UpdateTaxRegion(ctx context.Context, id string, req dto.UpdateTaxRegionRequest) (*dto.TaxRegionResponse, error) {
	region, err := s.TaxRegionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(region)

	if region.LocalTaxRate != nil && !region.HasLocalTax {
		return nil, ierr.NewError("local_tax_rate requires has_local_tax").
			WithHint("A local tax rate can only be set when the region levies local tax").
			Mark(ierr.ErrValidation)
	}

	if err := s.TaxRegionRepo.Update(ctx, region); err != nil {
		return nil, err
	}

	return &dto.TaxRegionResponse{Region: region}, nil
}

func (s *taxRegionService) DeleteTaxRegion(ctx context.Context, id string) error {
	region, err := s.TaxRegionRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.TaxRegionRepo.Delete(ctx, region); err != nil {
		return err
	}

	s.Logger.Infow("deleted tax region", "tax_region_id", id)
	return nil
}
