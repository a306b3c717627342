package service

import (
	"context"

	"github.com/samber/lo"

	"github.com/omnierp/taxengine/internal/api/dto"
	"github.com/omnierp/taxengine/internal/domain/taxconfig"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/templates"
	"github.com/omnierp/taxengine/internal/types"
)

// TaxConfigService manages tenant tax configurations
type TaxConfigService interface {
	CreateTaxConfig(ctx context.Context, req dto.CreateTaxConfigRequest) (*dto.TaxConfigResponse, error)
	CreateTaxConfigFromTemplate(ctx context.Context, countryCode string) (*dto.TaxConfigResponse, error)
	GetTaxConfig(ctx context.Context, id string) (*dto.TaxConfigResponse, error)
	GetCurrentTaxConfig(ctx context.Context) (*dto.TaxConfigResponse, error)
	ListTaxConfigs(ctx context.Context, filter *types.TaxConfigFilter) (*dto.ListTaxConfigsResponse, error)
	UpdateTaxConfig(ctx context.Context, id string, req dto.UpdateTaxConfigRequest) (*dto.TaxConfigResponse, error)
	SetAsDefault(ctx context.Context, id string) (*dto.TaxConfigResponse, error)
	DeleteTaxConfig(ctx context.Context, id string) error
}

type taxConfigService struct {
	ServiceParams
}

func NewTaxConfigService(params ServiceParams) TaxConfigService {
	return &taxConfigService{
		ServiceParams: params,
	}
}

func (s *taxConfigService) CreateTaxConfig(ctx context.Context, req dto.CreateTaxConfigRequest) (*dto.TaxConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cfg := req.ToTaxConfiguration(ctx)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := s.TaxConfigRepo.Create(ctx, cfg); err != nil {
		return nil, err
	}

	s.Logger.Infow("created tax configuration",
		"tax_config_id", cfg.ID,
		"tax_system", cfg.TaxSystem,
		"country_code", cfg.CountryCode)

	return &dto.TaxConfigResponse{TaxConfiguration: cfg}, nil
}

func (s *taxConfigService) CreateTaxConfigFromTemplate(ctx context.Context, countryCode string) (*dto.TaxConfigResponse, error) {
	tpl, err := templates.Resolve(countryCode)
	if err != nil {
		return nil, err
	}

	cfg := tpl.ToTaxConfiguration(ctx)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := s.TaxConfigRepo.Create(ctx, cfg); err != nil {
		return nil, err
	}

	s.Logger.Infow("created tax configuration from template",
		"tax_config_id", cfg.ID,
		"country_code", tpl.CountryCode,
		"tax_system", tpl.TaxSystem)

	return &dto.TaxConfigResponse{TaxConfiguration: cfg}, nil
}

func (s *taxConfigService) GetTaxConfig(ctx context.Context, id string) (*dto.TaxConfigResponse, error) {
	if id == "" {
		return nil, ierr.NewError("tax configuration id is required").
			WithHint("Tax configuration ID is required").
			Mark(ierr.ErrValidation)
	}

	cfg, err := s.TaxConfigRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.TaxConfigResponse{TaxConfiguration: cfg}, nil
}

// GetCurrentTaxConfig returns the tenant's default configuration, or nil when
// the tenant has not configured tax yet. The absence of a default is a normal
// state, not an error; callers render tax-free documents in that case.
func (s *taxConfigService) GetCurrentTaxConfig(ctx context.Context) (*dto.TaxConfigResponse, error) {
	cfg, err := s.TaxConfigRepo.GetDefault(ctx)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return &dto.TaxConfigResponse{TaxConfiguration: cfg}, nil
}

func (s *taxConfigService) ListTaxConfigs(ctx context.Context, filter *types.TaxConfigFilter) (*dto.ListTaxConfigsResponse, error) {
	if filter == nil {
		filter = types.NewDefaultTaxConfigFilter()
	}

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	configs, err := s.TaxConfigRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.TaxConfigRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListTaxConfigsResponse{
		Items: lo.Map(configs, func(cfg *taxconfig.TaxConfiguration, _ int) *dto.TaxConfigResponse {
			return &dto.TaxConfigResponse{TaxConfiguration: cfg}
		}),
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *taxConfigService) UpdateTaxConfig(ctx context.Context, id string, req dto.UpdateTaxConfigRequest) (*dto.TaxConfigResponse, error) {
	cfg, err := s.TaxConfigRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := s.TaxConfigRepo.Update(ctx, cfg); err != nil {
		return nil, err
	}

	return &dto.TaxConfigResponse{TaxConfiguration: cfg}, nil
}

// SetAsDefault promotes the configuration to the tenant's single default. The
// previous default is demoted in the same transaction so the tenant never has
// two defaults, even under concurrent promotion.
func (s *taxConfigService) SetAsDefault(ctx context.Context, id string) (*dto.TaxConfigResponse, error) {
	cfg, err := s.TaxConfigRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// An inactive configuration is invisible to default promotion, same as a
	// deleted or absent one
	if !cfg.IsActive {
		return nil, ierr.NewError("active tax configuration not found").
			WithHint("Activate the tax configuration before setting it as default").
			WithReportableDetails(map[string]any{
				"tax_config_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	if cfg.IsDefault {
		return &dto.TaxConfigResponse{TaxConfiguration: cfg}, nil
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		filter := types.NewNoLimitTaxConfigFilter()
		filter.IsDefault = lo.ToPtr(true)

		defaults, err := s.TaxConfigRepo.List(ctx, filter)
		if err != nil {
			return err
		}

		for _, existing := range defaults {
			existing.IsDefault = false
			if err := s.TaxConfigRepo.Update(ctx, existing); err != nil {
				return err
			}
		}

		cfg.IsDefault = true
		return s.TaxConfigRepo.Update(ctx, cfg)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("set default tax configuration", "tax_config_id", cfg.ID)

	return &dto.TaxConfigResponse{TaxConfiguration: cfg}, nil
}

func (s *taxConfigService) DeleteTaxConfig(ctx context.Context, id string) error {
	cfg, err := s.TaxConfigRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if cfg.IsDefault {
		return ierr.NewError("default tax configuration cannot be deleted").
			WithHint("Set another configuration as default before deleting this one").
			WithReportableDetails(map[string]any{
				"tax_config_id": id,
			}).
			Mark(ierr.ErrConflict)
	}

	if err := s.TaxConfigRepo.Delete(ctx, cfg); err != nil {
		return err
	}

	s.Logger.Infow("deleted tax configuration", "tax_config_id", id)
	return nil
}
