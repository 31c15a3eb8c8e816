package ports

import (
	"context"

	"storefront/internal/features/catalog/domain"
)

// ProductModel defines the primary port for reading the catalog.
type ProductModel interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
}

// CatalogProvider defines the secondary port for fetching products from the remote store.
// GetProductByID must return domain.ErrProductNotFound for unknown IDs.
type CatalogProvider interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
}
