package taxconfig

import (
	"context"

	"github.com/omnierp/taxengine/internal/types"
)

// Repository defines the interface for tax configuration persistence operations
type Repository interface {
	// Core operations
	Create(ctx context.Context, cfg *TaxConfiguration) error
	Get(ctx context.Context, id string) (*TaxConfiguration, error)
	List(ctx context.Context, filter *types.TaxConfigFilter) ([]*TaxConfiguration, error)
	Count(ctx context.Context, filter *types.TaxConfigFilter) (int, error)
	Update(ctx context.Context, cfg *TaxConfiguration) error
	Delete(ctx context.Context, cfg *TaxConfiguration) error

	// Lookup operations
	GetDefault(ctx context.Context) (*TaxConfiguration, error)
}
