package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/udtn/catalog-api/internal/core/domain"
	"github.com/udtn/catalog-api/internal/core/ports"
	"github.com/udtn/catalog-api/internal/pkg/metrics"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type ProductService struct {
	repo        ports.ProductRepository
	idempotency ports.IdempotencyStore
	logger      zerolog.Logger
}

// NewProductService wires the catalog use cases. idempotency may be nil, in
// which case Idempotency-Key headers are ignored.
func NewProductService(repo ports.ProductRepository, idempotency ports.IdempotencyStore, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, idempotency: idempotency, logger: logger}
}

// Create stores a new product. If idempotencyKey was already used, the product
// created by the first request is returned and nothing is inserted.
func (s *ProductService) Create(ctx context.Context, input ports.CreateProductInput, idempotencyKey string) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	if existing := s.replay(ctx, idempotencyKey); existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Stock:       input.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, fmt.Errorf("create product: %w", err)
	}

	if idempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, idempotencyKey, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", idempotencyKey).Msg("failed to remember idempotency key")
		}
	}

	metrics.ProductMutationsTotal.WithLabelValues("create").Inc()
	s.logger.Info().Str("product_id", created.ID).Msg("product created")
	return created, nil
}

// replay returns the product previously created under key, or nil.
// Store failures are logged and treated as a miss.
func (s *ProductService) replay(ctx context.Context, key string) *domain.Product {
	if key == "" || s.idempotency == nil {
		return nil
	}
	id, err := s.idempotency.Lookup(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed")
		return nil
	}
	if id == "" {
		return nil
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		// product was deleted since; create a fresh one
		return nil
	}
	metrics.IdempotencyReplaysTotal.Inc()
	s.logger.Info().Str("idempotency_key", key).Str("product_id", existing.ID).Msg("idempotent replay")
	return existing
}

// List returns one page of the catalog.
func (s *ProductService) List(ctx context.Context, input ports.ListProductsInput) (*ports.ProductPage, error) {
	filter, err := resolveListFilter(input)
	if err != nil {
		return nil, err
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []*domain.Product{}
	}

	return &ports.ProductPage{
		Products:   products,
		TotalItems: total,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial update. At least one field must be set.
func (s *ProductService) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.Empty() {
		return nil, domain.NewValidationError("at least one field must be provided")
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	metrics.ProductMutationsTotal.WithLabelValues("update").Inc()
	s.logger.Info().Str("product_id", id).Msg("product updated")
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return err
		}
		return fmt.Errorf("delete product: %w", err)
	}

	metrics.ProductMutationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

func validateProductInput(in ports.CreateProductInput) error {
	var msgs []string
	if strings.TrimSpace(in.Name) == "" {
		msgs = append(msgs, "name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		msgs = append(msgs, "description is required")
	}
	if in.Price < 0 {
		msgs = append(msgs, "price must be greater than or equal to 0")
	}
	if in.Stock < 0 {
		msgs = append(msgs, "stock must be greater than or equal to 0")
	}
	if len(msgs) > 0 {
		return domain.NewValidationError(msgs...)
	}
	return nil
}

func validatePatch(p domain.ProductPatch) error {
	var msgs []string
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		msgs = append(msgs, "name must not be empty")
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		msgs = append(msgs, "description must not be empty")
	}
	if p.Price != nil && *p.Price < 0 {
		msgs = append(msgs, "price must be greater than or equal to 0")
	}
	if p.Stock != nil && *p.Stock < 0 {
		msgs = append(msgs, "stock must be greater than or equal to 0")
	}
	if len(msgs) > 0 {
		return domain.NewValidationError(msgs...)
	}
	return nil
}

// resolveListFilter applies defaults and bounds. Non-positive page and limit
// fall back to their defaults; unknown sort keys are rejected.
func resolveListFilter(in ports.ListProductsInput) (ports.ListProductsFilter, error) {
	page := in.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := in.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	sortBy := in.SortBy
	if sortBy == "" {
		sortBy = domain.SortByName
	}
	order := domain.SortOrder(strings.ToLower(in.Order))
	if order == "" {
		order = domain.SortAsc
	}

	var msgs []string
	if !domain.IsSortableProductField(sortBy) {
		msgs = append(msgs, fmt.Sprintf("sortBy must be one of: %s", strings.Join(domain.SortableProductFields, " ")))
	}
	if order != domain.SortAsc && order != domain.SortDesc {
		msgs = append(msgs, "order must be one of: asc desc")
	}
	if len(msgs) > 0 {
		return ports.ListProductsFilter{}, domain.NewValidationError(msgs...)
	}

	return ports.ListProductsFilter{
		Skip:   int64(page-1) * int64(limit),
		Limit:  int64(limit),
		SortBy: sortBy,
		Order:  order,
	}, nil
}

func totalPages(total, limit int64) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + limit - 1) / limit)
}
