package taxrate

import (
	"context"

	"github.com/omnierp/taxengine/internal/types"
)

// Repository defines the interface for rate definition persistence operations
type Repository interface {
	// Core operations
	Create(ctx context.Context, rate *RateDefinition) error
	Get(ctx context.Context, id string) (*RateDefinition, error)
	List(ctx context.Context, filter *types.TaxRateFilter) ([]*RateDefinition, error)
	Count(ctx context.Context, filter *types.TaxRateFilter) (int, error)
	Update(ctx context.Context, rate *RateDefinition) error
	Delete(ctx context.Context, rate *RateDefinition) error

	// Lookup operations
	GetByCode(ctx context.Context, taxConfigID, code string) (*RateDefinition, error)
	GetDefault(ctx context.Context, taxConfigID string) (*RateDefinition, error)
}
