package taxregion

import (
	"context"

	"github.com/omnierp/taxengine/internal/types"
)

// Repository defines the interface for region persistence operations
type Repository interface {
	// Core operations
	Create(ctx context.Context, region *Region) error
	Get(ctx context.Context, id string) (*Region, error)
	List(ctx context.Context, filter *types.TaxRegionFilter) ([]*Region, error)
	Count(ctx context.Context, filter *types.TaxRegionFilter) (int, error)
	Update(ctx context.Context, region *Region) error
	Delete(ctx context.Context, region *Region) error

	// Lookup operations
	GetByCode(ctx context.Context, taxConfigID, code string) (*Region, error)
}
