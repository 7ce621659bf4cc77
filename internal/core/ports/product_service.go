package ports

import (
	"context"

	"github.com/udtn/catalog-api/internal/core/domain"
)

// CreateProductInput carries all data needed to create a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
}

// ListProductsInput is the raw list query. Zero values select the defaults.
type ListProductsInput struct {
	Page   int
	Limit  int
	SortBy string
	Order  string
}

// ProductPage is one page of the catalog plus size metadata.
type ProductPage struct {
	Products   []*domain.Product `json:"products"`
	TotalItems int64             `json:"totalItems"`
	TotalPages int               `json:"totalPages"`
}

// ProductService defines catalog use cases.
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput, idempotencyKey string) (*domain.Product, error)
	List(ctx context.Context, input ListProductsInput) (*ProductPage, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
