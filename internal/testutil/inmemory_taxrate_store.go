package testutil

import (
	"context"
	"strings"

	"github.com/omnierp/taxengine/internal/domain/taxrate"
	ierr "github.com/omnierp/taxengine/internal/errors"
	"github.com/omnierp/taxengine/internal/types"
)

// InMemoryTaxRateStore is an in-memory implementation of taxrate.Repository
type InMemoryTaxRateStore struct {
	*InMemoryStore[*taxrate.RateDefinition]
}

func NewInMemoryTaxRateStore() *InMemoryTaxRateStore {
	return &InMemoryTaxRateStore{
		InMemoryStore: NewInMemoryStore[*taxrate.RateDefinition](),
	}
}

var _ taxrate.Repository = (*InMemoryTaxRateStore)(nil)

func (s *InMemoryTaxRateStore) Create(ctx context.Context, rate *taxrate.RateDefinition) error {
	if rate == nil {
		return ierr.NewError("rate definition cannot be nil").
			Mark(ierr.ErrValidation)
	}

	cp := *rate
	if err := s.InMemoryStore.Create(ctx, rate.ID, &cp); err != nil {
		return ierr.WithError(err).
			WithHintf("Rate definition %s already exists", rate.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryTaxRateStore) Get(ctx context.Context, id string) (*taxrate.RateDefinition, error) {
	rate, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || rate.TenantID != types.GetTenantID(ctx) || rate.Status == types.StatusDeleted {
		return nil, ierr.NewError("rate definition not found").
			WithHintf("Rate definition %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	cp := *rate
	return &cp, nil
}

func (s *InMemoryTaxRateStore) List(ctx context.Context, filter *types.TaxRateFilter) ([]*taxrate.RateDefinition, error) {
	items, err := s.InMemoryStore.List(ctx, filter, taxRateFilterFn, taxRateSortFn)
	if err != nil {
		return nil, err
	}

	items = paginateItems(items, filter)

	result := make([]*taxrate.RateDefinition, 0, len(items))
	for _, item := range items {
		cp := *item
		result = append(result, &cp)
	}
	return result, nil
}

func (s *InMemoryTaxRateStore) Count(ctx context.Context, filter *types.TaxRateFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, taxRateFilterFn)
}

func (s *InMemoryTaxRateStore) Update(ctx context.Context, rate *taxrate.RateDefinition) error {
	if rate == nil {
		return ierr.NewError("rate definition cannot be nil").
			Mark(ierr.ErrValidation)
	}

	existing, err := s.InMemoryStore.Get(ctx, rate.ID)
	if err != nil || existing.TenantID != types.GetTenantID(ctx) {
		return ierr.NewError("rate definition not found").
			WithHintf("Rate definition %s was not found", rate.ID).
			Mark(ierr.ErrNotFound)
	}

	cp := *rate
	return s.InMemoryStore.Update(ctx, rate.ID, &cp)
}

func (s *InMemoryTaxRateStore) Delete(ctx context.Context, rate *taxrate.RateDefinition) error {
	rate.Status = types.StatusDeleted
	rate.TaxRateStatus = types.TaxRateStatusInactive
	return s.Update(ctx, rate)
}

func (s *InMemoryTaxRateStore) GetByCode(ctx context.Context, taxConfigID, code string) (*taxrate.RateDefinition, error) {
	items, err := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, rate *taxrate.RateDefinition, _ interface{}) bool {
			return rate.TenantID == types.GetTenantID(ctx) &&
				rate.TaxConfigID == taxConfigID &&
				rate.Code == code &&
				rate.Status != types.StatusDeleted
		}, nil)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, ierr.NewError("rate definition not found").
			WithHintf("No rate definition with code %s exists for this configuration", code).
			Mark(ierr.ErrNotFound)
	}

	cp := *items[0]
	return &cp, nil
}

func (s *InMemoryTaxRateStore) GetDefault(ctx context.Context, taxConfigID string) (*taxrate.RateDefinition, error) {
	items, err := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, rate *taxrate.RateDefinition, _ interface{}) bool {
			return rate.TenantID == types.GetTenantID(ctx) &&
				rate.TaxConfigID == taxConfigID &&
				rate.IsDefault &&
				rate.Status == types.StatusPublished
		}, nil)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, ierr.NewError("no default rate definition").
			WithHint("The configuration has no default rate definition").
			Mark(ierr.ErrNotFound)
	}

	cp := *items[0]
	return &cp, nil
}

func taxRateFilterFn(ctx context.Context, rate *taxrate.RateDefinition, filter interface{}) bool {
	f, ok := filter.(*types.TaxRateFilter)
	if !ok {
		return true
	}

	if rate.TenantID != types.GetTenantID(ctx) {
		return false
	}
	if string(rate.Status) != f.GetStatus() {
		return false
	}
	if len(f.TaxRateIDs) > 0 && !containsString(f.TaxRateIDs, rate.ID) {
		return false
	}
	if len(f.TaxRateCodes) > 0 && !containsString(f.TaxRateCodes, rate.Code) {
		return false
	}
	if f.TaxConfigID != "" && rate.TaxConfigID != f.TaxConfigID {
		return false
	}
	if f.TaxRateStatus != "" && rate.TaxRateStatus != f.TaxRateStatus {
		return false
	}
	if f.IsDefault != nil && rate.IsDefault != *f.IsDefault {
		return false
	}
	return matchesTimeRange(rate.CreatedAt, f.TimeRangeFilter)
}

func taxRateSortFn(i, j *taxrate.RateDefinition) bool {
	if i.DisplayOrder != j.DisplayOrder {
		return i.DisplayOrder < j.DisplayOrder
	}
	return strings.Compare(i.Name, j.Name) < 0
}
