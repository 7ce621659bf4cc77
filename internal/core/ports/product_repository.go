package ports

import (
	"context"

	"github.com/udtn/catalog-api/internal/core/domain"
)

// ListProductsFilter carries the resolved paging and sort parameters.
type ListProductsFilter struct {
	Skip   int64
	Limit  int64
	SortBy string // one of domain.SortableProductFields
	Order  domain.SortOrder
}

// ProductRepository defines persistence operations for products.
// Lookups by an unknown or malformed ID return domain.ErrProductNotFound.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// List returns one page of products and the total number of products.
	List(ctx context.Context, filter ListProductsFilter) ([]*domain.Product, int64, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// IdempotencyStore remembers which product a client-supplied idempotency key created.
type IdempotencyStore interface {
	// Lookup returns the product ID stored for key, or "" when the key is unknown.
	Lookup(ctx context.Context, key string) (string, error)
	Remember(ctx context.Context, key, productID string) error
}
