package testutil

import (
	"context"
	"strings"

	"github.com/omnierp/taxengine/internal/domain/taxregion"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/types"
)

// InMemoryTaxRegionStore is an in-memory implementation of taxregion.Repository
type InMemoryTaxRegionStore struct {
	*InMemoryStore[*taxregion.Region]
}

func NewInMemoryTaxRegionStore() *InMemoryTaxRegionStore {
	return &InMemoryTaxRegionStore{
		InMemoryStore: NewInMemoryStore[*taxregion.Region](),
	}
}

var _ taxregion.Repository = (*InMemoryTaxRegionStore)(nil)

func (s *InMemoryTaxRegionStore) Create(ctx context.Context, region *taxregion.Region) error {
	if region == nil {
		return ierr.NewError("region cannot be nil").
			Mark(ierr.ErrValidation)
	}

	cp := *region
	if err := s.InMemoryStore.Create(ctx, region.ID, &cp); err != nil {
		return ierr.WithError(err).
			WithHintf("Region %s already exists", region.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryTaxRegionStore) Get(ctx context.Context, id string) (*taxregion.Region, error) {
	region, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || region.TenantID != types.GetTenantID(ctx) || region.Status == types.StatusDeleted {
		return nil, ierr.NewError("tax region not found").
			WithHintf("Tax region %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	cp := *region
	return &cp, nil
}

func (s *InMemoryTaxRegionStore) List(ctx context.Context, filter *types.TaxRegionFilter) ([]*taxregion.Region, error) {
	items, err := s.InMemoryStore.List(ctx, filter, taxRegionFilterFn, taxRegionSortFn)
	if err != nil {
		return nil, err
	}

	items = paginateItems(items, filter)

	result := make([]*taxregion.Region, 0, len(items))
	for _, item := range items {
		cp := *item
		result = append(result, &cp)
	}
	return result, nil
}

func (s *InMemoryTaxRegionStore) Count(ctx context.Context, filter *types.TaxRegionFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, taxRegionFilterFn)
}

func (s *InMemoryTaxRegionStore) Update(ctx context.Context, region *taxregion.Region) error {
	if region == nil {
		return ierr.NewError("region cannot be nil").
			Mark(ierr.ErrValidation)
	}

	existing, err := s.InMemoryStore.Get(ctx, region.ID)
	if err != nil || existing.TenantID != types.GetTenantID(ctx) {
		return ierr.NewError("tax region not found").
			WithHintf("Tax region %s was not found", region.ID).
			Mark(ierr.ErrNotFound)
	}

	cp := *region
	return s.InMemoryStore.Update(ctx, region.ID, &cp)
}

func (s *InMemoryTaxRegionStore) Delete(ctx context.Context, region *taxregion.Region) error {
	region.Status = types.StatusDeleted
	region.IsActive = false
	return s.Update(ctx, region)
}

func (s *InMemoryTaxRegionStore) GetByCode(ctx context.Context, taxConfigID, code string) (*taxregion.Region, error) {
	items, err := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, region *taxregion.Region, _ interface{}) bool {
			return region.TenantID == types.GetTenantID(ctx) &&
				region.TaxConfigID == taxConfigID &&
				strings.EqualFold(region.Code, code) &&
				region.Status != types.StatusDeleted
		}, nil)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, ierr.NewError("tax region not found").
			WithHintf("No region with code %s exists for this configuration", code).
			Mark(ierr.ErrNotFound)
	}

	cp := *items[0]
	return &cp, nil
}

func taxRegionFilterFn(ctx context.Context, region *taxregion.Region, filter interface{}) bool {
	f, ok := filter.(*types.TaxRegionFilter)
	if !ok {
		return true
	}

	if region.TenantID != types.GetTenantID(ctx) {
		return false
	}
	if string(region.Status) != f.GetStatus() {
		return false
	}
	if len(f.TaxRegionIDs) > 0 && !containsString(f.TaxRegionIDs, region.ID) {
		return false
	}
	if len(f.RegionCodes) > 0 && !containsString(f.RegionCodes, region.Code) {
		return false
	}
	if f.TaxConfigID != "" && region.TaxConfigID != f.TaxConfigID {
		return false
	}
	if f.IsActive != nil && region.IsActive != *f.IsActive {
		return false
	}
	return matchesTimeRange(region.CreatedAt, f.TimeRangeFilter)
}

func taxRegionSortFn(i, j *taxregion.Region) bool {
	if i.DisplayOrder != j.DisplayOrder {
		return i.DisplayOrder < j.DisplayOrder
	}
	return strings.Compare(i.Name, j.Name) < 0
}
