package testutil

import (
	"context"

	"github.com/omnierp/taxengine/internal/domain/taxconfig"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/types"
)

// InMemoryTaxConfigStore is an in-memory implementation of taxconfig.Repository
type InMemoryTaxConfigStore struct {
	*InMemoryStore[*taxconfig.TaxConfiguration]
}

func NewInMemoryTaxConfigStore() *InMemoryTaxConfigStore {
	return &InMemoryTaxConfigStore{
		InMemoryStore: NewInMemoryStore[*taxconfig.TaxConfiguration](),
	}
}

var _ taxconfig.Repository = (*InMemoryTaxConfigStore)(nil)

func (s *InMemoryTaxConfigStore) Create(ctx context.Context, cfg *taxconfig.TaxConfiguration) error {
	if cfg == nil {
		return ierr.NewError("tax configuration cannot be nil").
			Mark(ierr.ErrValidation)
	}

	cp := *cfg
	if err := s.InMemoryStore.Create(ctx, cfg.ID, &cp); err != nil {
		return ierr.WithError(err).
			WithHintf("Tax configuration %s already exists", cfg.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryTaxConfigStore) Get(ctx context.Context, id string) (*taxconfig.TaxConfiguration, error) {
	cfg, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || cfg.TenantID != types.GetTenantID(ctx) || cfg.Status == types.StatusDeleted {
		return nil, ierr.NewError("tax configuration not found").
			WithHintf("Tax configuration %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	cp := *cfg
	return &cp, nil
}

func (s *InMemoryTaxConfigStore) List(ctx context.Context, filter *types.TaxConfigFilter) ([]*taxconfig.TaxConfiguration, error) {
	items, err := s.InMemoryStore.List(ctx, filter, taxConfigFilterFn, taxConfigSortFn)
	if err != nil {
		return nil, err
	}

	items = paginateItems(items, filter)

	result := make([]*taxconfig.TaxConfiguration, 0, len(items))
	for _, item := range items {
		cp := *item
		result = append(result, &cp)
	}
	return result, nil
}

func (s *InMemoryTaxConfigStore) Count(ctx context.Context, filter *types.TaxConfigFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, taxConfigFilterFn)
}

func (s *InMemoryTaxConfigStore) Update(ctx context.Context, cfg *taxconfig.TaxConfiguration) error {
	if cfg == nil {
		return ierr.NewError("tax configuration cannot be nil").
			Mark(ierr.ErrValidation)
	}

	existing, err := s.InMemoryStore.Get(ctx, cfg.ID)
	if err != nil || existing.TenantID != types.GetTenantID(ctx) {
		return ierr.NewError("tax configuration not found").
			WithHintf("Tax configuration %s was not found", cfg.ID).
			Mark(ierr.ErrNotFound)
	}

	cp := *cfg
	return s.InMemoryStore.Update(ctx, cfg.ID, &cp)
}

func (s *InMemoryTaxConfigStore) Delete(ctx context.Context, cfg *taxconfig.TaxConfiguration) error {
	cfg.Status = types.StatusDeleted
	cfg.IsActive = false
	return s.Update(ctx, cfg)
}

func (s *InMemoryTaxConfigStore) GetDefault(ctx context.Context) (*taxconfig.TaxConfiguration, error) {
	items, err := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, cfg *taxconfig.TaxConfiguration, _ interface{}) bool {
			return cfg.TenantID == types.GetTenantID(ctx) &&
				cfg.IsDefault &&
				cfg.Status == types.StatusPublished
		}, nil)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, ierr.NewError("no default tax configuration").
			WithHint("The tenant has no default tax configuration").
			Mark(ierr.ErrNotFound)
	}

	cp := *items[0]
	return &cp, nil
}

func taxConfigFilterFn(ctx context.Context, cfg *taxconfig.TaxConfiguration, filter interface{}) bool {
	f, ok := filter.(*types.TaxConfigFilter)
	if !ok {
		return true
	}

	if cfg.TenantID != types.GetTenantID(ctx) {
		return false
	}
	if string(cfg.Status) != f.GetStatus() {
		return false
	}
	if len(f.TaxConfigIDs) > 0 && !containsString(f.TaxConfigIDs, cfg.ID) {
		return false
	}
	if f.CountryCode != "" && cfg.CountryCode != f.CountryCode {
		return false
	}
	if f.TaxSystem != "" && cfg.TaxSystem != f.TaxSystem {
		return false
	}
	if f.IsDefault != nil && cfg.IsDefault != *f.IsDefault {
		return false
	}
	if f.IsActive != nil && cfg.IsActive != *f.IsActive {
		return false
	}
	return matchesTimeRange(cfg.CreatedAt, f.TimeRangeFilter)
}

func taxConfigSortFn(i, j *taxconfig.TaxConfiguration) bool {
	return i.CreatedAt.After(j.CreatedAt)
}
