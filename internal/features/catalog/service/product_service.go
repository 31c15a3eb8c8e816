package service

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/features/catalog/domain"
	"storefront/internal/features/catalog/ports"

	"golang.org/x/text/cases"
)

// ProductService implements ports.ProductModel.
type ProductService struct {
	provider ports.CatalogProvider
}

// NewProductService creates a new ProductService.
func NewProductService(provider ports.CatalogProvider) *ProductService {
	return &ProductService{provider: provider}
}

// GetProducts returns the full catalog.
func (s *ProductService) GetProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.provider.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get products: %w", err)
	}
	return products, nil
}

// GetProductByID returns a single product. Prices are always read from the provider.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	// Path escaping leaves dot segments intact, and the store would resolve them to another route.
	if id == "" || id == "." || id == ".." {
		return nil, domain.ErrInvalidProductID
	}

	product, err := s.provider.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return product, nil
}

// GetProductsByCategory returns the products of one category, compared case-insensitively.
// An empty category returns the whole catalog.
func (s *ProductService) GetProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := s.GetProducts(ctx)
	if err != nil {
		return nil, err
	}

	category = strings.TrimSpace(category)
	if category == "" {
		return products, nil
	}

	fold := cases.Fold()
	want := fold.String(category)

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if fold.String(strings.TrimSpace(p.Category)) == want {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}
