package adapters

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/core/storeapi"
	"storefront/internal/features/catalog/domain"
)

// StoreAPICatalog implements ports.CatalogProvider on top of the store API client.
type StoreAPICatalog struct {
	client storeapi.APIClient
}

// NewStoreAPICatalog creates a new StoreAPICatalog.
func NewStoreAPICatalog(client storeapi.APIClient) *StoreAPICatalog {
	return &StoreAPICatalog{client: client}
}

// GetProducts fetches the catalog and maps it to domain products.
func (a *StoreAPICatalog) GetProducts(ctx context.Context) ([]domain.Product, error) {
	dtos, err := a.client.GetProducts(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(dtos))
	for _, dto := range dtos {
		products = append(products, mapToDomain(dto))
	}
	return products, nil
}

// GetProductByID fetches a single product.
func (a *StoreAPICatalog) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	dto, err := a.client.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, storeapi.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
		}
		return nil, err
	}

	p := mapToDomain(*dto)
	return &p, nil
}

func mapToDomain(dto storeapi.ProductDTO) domain.Product {
	return domain.Product{
		ID:          dto.ID,
		Name:        dto.Title,
		Description: dto.Description,
		Price:       dto.Price,
		Image:       dto.Image,
		Category:    dto.Category,
	}
}
