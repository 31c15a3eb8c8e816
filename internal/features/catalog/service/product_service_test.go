package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/features/catalog/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogProvider is a mock implementation of ports.CatalogProvider
type MockCatalogProvider struct {
	mock.Mock
}

func (m *MockCatalogProvider) GetProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogProvider) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func price(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

var catalogFixture = []domain.Product{
	{ID: "p-1", Name: "+1 час в сутках", Category: "софт-скил", Price: price(750)},
	{ID: "p-2", Name: "HEX-леденец", Category: "другое", Price: price(1450)},
	{ID: "p-3", Name: "Мамка-таймер", Category: "Софт-Скил"},
}

func TestProductService_GetProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		provider := new(MockCatalogProvider)
		provider.On("GetProducts", ctx).Return(catalogFixture, nil).Once()

		products, err := NewProductService(provider).GetProducts(ctx)
		require.NoError(t, err)
		assert.Len(t, products, 3)
		provider.AssertExpectations(t)
	})

	t.Run("ProviderError", func(t *testing.T) {
		provider := new(MockCatalogProvider)
		provider.On("GetProducts", ctx).Return(nil, errors.New("timeout")).Once()

		products, err := NewProductService(provider).GetProducts(ctx)
		assert.Error(t, err)
		assert.Nil(t, products)
	})
}

func TestProductService_GetProductByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		provider := new(MockCatalogProvider)
		provider.On("GetProductByID", ctx, "p-1").Return(&catalogFixture[0], nil).Once()

		p, err := NewProductService(provider).GetProductByID(ctx, " p-1 ")
		require.NoError(t, err)
		assert.Equal(t, "p-1", p.ID)
		provider.AssertExpectations(t)
	})

	for _, id := range []string{"  ", ".", "..", " .. "} {
		t.Run("InvalidID "+id, func(t *testing.T) {
			provider := new(MockCatalogProvider)

			_, err := NewProductService(provider).GetProductByID(ctx, id)
			assert.ErrorIs(t, err, domain.ErrInvalidProductID)
			provider.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything)
		})
	}

	t.Run("DotsInsideIDPassThrough", func(t *testing.T) {
		provider := new(MockCatalogProvider)
		provider.On("GetProductByID", ctx, "tea..green").Return(&catalogFixture[0], nil).Once()

		_, err := NewProductService(provider).GetProductByID(ctx, "tea..green")
		assert.NoError(t, err)
		provider.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		provider := new(MockCatalogProvider)
		provider.On("GetProductByID", ctx, "p-9").Return(nil, domain.ErrProductNotFound).Once()

		_, err := NewProductService(provider).GetProductByID(ctx, "p-9")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("NilProduct", func(t *testing.T) {
		provider := new(MockCatalogProvider)
		provider.On("GetProductByID", ctx, "p-9").Return(nil, nil).Once()

		_, err := NewProductService(provider).GetProductByID(ctx, "p-9")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestProductService_GetProductsByCategory(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		category string
		wantIDs  []string
	}{
		{name: "CaseInsensitive", category: "СОФТ-СКИЛ", wantIDs: []string{"p-1", "p-3"}},
		{name: "Exact", category: "другое", wantIDs: []string{"p-2"}},
		{name: "Unknown", category: "кнопка", wantIDs: []string{}},
		{name: "Empty", category: "", wantIDs: []string{"p-1", "p-2", "p-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(MockCatalogProvider)
			provider.On("GetProducts", ctx).Return(catalogFixture, nil).Once()

			products, err := NewProductService(provider).GetProductsByCategory(ctx, tt.category)
			require.NoError(t, err)

			ids := make([]string, 0, len(products))
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}
