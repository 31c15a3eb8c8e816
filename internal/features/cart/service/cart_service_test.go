package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"storefront/internal/features/cart/domain"
	catalog "storefront/internal/features/catalog/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartRepository is a mock implementation of ports.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, cartID string) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

// fakeCatalog is a mutable in-memory ports.ProductLookup.
type fakeCatalog struct {
	mu       sync.Mutex
	products map[string]catalog.Product
	calls    int
}

func newFakeCatalog(products ...catalog.Product) *fakeCatalog {
	f := &fakeCatalog{products: map[string]catalog.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeCatalog) GetProductByID(_ context.Context, id string) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	p, ok := f.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &p, nil
}

func (f *fakeCatalog) setPrice(id string, price int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.products[id]
	p.Price = decimal.NewNullDecimal(decimal.NewFromInt(price))
	f.products[id] = p
}

func product(id string, price int64) catalog.Product {
	return catalog.Product{ID: id, Name: "Product " + id, Price: decimal.NewNullDecimal(decimal.NewFromInt(price))}
}

func cartWith(t *testing.T, id string, items ...domain.CartItem) *domain.Cart {
	t.Helper()
	cart, err := domain.NewCart(id)
	require.NoError(t, err)
	for _, it := range items {
		require.NoError(t, cart.AddItem(it.ProductID, it.Quantity))
	}
	return cart
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("NewCart", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, newFakeCatalog(product("p-1", 750)))

		repo.On("Get", ctx, "c-1").Return(nil, nil).Once()
		repo.On("Save", ctx, mock.MatchedBy(func(c *domain.Cart) bool {
			return c.ID == "c-1" && len(c.Items) == 1 && c.Items[0].Quantity == 2
		})).Return(nil).Once()

		cart, err := svc.AddItem(ctx, "c-1", "p-1", 2)
		require.NoError(t, err)
		assert.Equal(t, []domain.CartItem{{ProductID: "p-1", Quantity: 2}}, cart.GetItems())
		repo.AssertExpectations(t)
	})

	t.Run("ExistingProductIncreasesQuantity", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, newFakeCatalog(product("p-1", 750)))

		existing := cartWith(t, "c-1", domain.CartItem{ProductID: "p-1", Quantity: 1})
		repo.On("Get", ctx, "c-1").Return(existing, nil).Once()
		repo.On("Save", ctx, existing).Return(nil).Once()

		cart, err := svc.AddItem(ctx, "c-1", "p-1", 3)
		require.NoError(t, err)
		assert.Equal(t, []domain.CartItem{{ProductID: "p-1", Quantity: 4}}, cart.GetItems())
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, newFakeCatalog())

		_, err := svc.AddItem(ctx, "c-1", "p-9", 1)
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("PricelessProduct", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, newFakeCatalog(catalog.Product{ID: "p-2"}))

		_, err := svc.AddItem(ctx, "c-1", "p-2", 1)
		assert.ErrorIs(t, err, domain.ErrProductNotPurchasable)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("InvalidQuantity", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, newFakeCatalog(product("p-1", 750)))

		_, err := svc.AddItem(ctx, "c-1", "p-1", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("EmptyCartID", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, newFakeCatalog(product("p-1", 750)))

		_, err := svc.AddItem(ctx, " ", "p-1", 1)
		assert.ErrorIs(t, err, domain.ErrInvalidCartID)
	})

	t.Run("SaveError", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, newFakeCatalog(product("p-1", 750)))

		repo.On("Get", ctx, "c-1").Return(nil, nil).Once()
		repo.On("Save", ctx, mock.Anything).Return(errors.New("redis down")).Once()

		_, err := svc.AddItem(ctx, "c-1", "p-1", 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save cart")
	})
}

func TestCartService_RemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("RemovesWholeLine", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, newFakeCatalog())

		existing := cartWith(t, "c-1",
			domain.CartItem{ProductID: "p-1", Quantity: 5},
			domain.CartItem{ProductID: "p-2", Quantity: 1},
		)
		repo.On("Get", ctx, "c-1").Return(existing, nil).Once()
		repo.On("Save", ctx, existing).Return(nil).Once()

		cart, err := svc.RemoveItem(ctx, "c-1", "p-1")
		require.NoError(t, err)
		assert.Equal(t, []domain.CartItem{{ProductID: "p-2", Quantity: 1}}, cart.GetItems())
		repo.AssertExpectations(t)
	})

	t.Run("AbsentProductIsNoop", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, newFakeCatalog())

		existing := cartWith(t, "c-1", domain.CartItem{ProductID: "p-1", Quantity: 1})
		repo.On("Get", ctx, "c-1").Return(existing, nil).Once()

		cart, err := svc.RemoveItem(ctx, "c-1", "p-9")
		require.NoError(t, err)
		assert.Len(t, cart.GetItems(), 1)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCartService_GetItems(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCartRepository)
	svc := NewCartService(repo, newFakeCatalog())

	t.Run("MissingCartIsEmpty", func(t *testing.T) {
		repo.On("Get", ctx, "c-0").Return(nil, nil).Once()

		items, err := svc.GetItems(ctx, "c-0")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("RepoError", func(t *testing.T) {
		repo.On("Get", ctx, "c-1").Return(nil, errors.New("redis down")).Once()

		_, err := svc.GetItems(ctx, "c-1")
		assert.Error(t, err)
	})
}

func TestCartService_GetTotal(t *testing.T) {
	ctx := context.Background()

	t.Run("SumsPriceTimesQuantity", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, newFakeCatalog(product("p-1", 750), product("p-2", 1450)))

		existing := cartWith(t, "c-1",
			domain.CartItem{ProductID: "p-1", Quantity: 2},
			domain.CartItem{ProductID: "p-2", Quantity: 1},
		)
		repo.On("Get", ctx, "c-1").Return(existing, nil)

		total, err := svc.GetTotal(ctx, "c-1")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(2950).Equal(total), "got %s", total)
	})

	t.Run("ReflectsCatalogPriceChange", func(t *testing.T) {
		repo := new(MockCartRepository)
		products := newFakeCatalog(product("p-1", 750))
		svc := NewCartService(repo, products)

		existing := cartWith(t, "c-1", domain.CartItem{ProductID: "p-1", Quantity: 3})
		repo.On("Get", ctx, "c-1").Return(existing, nil)

		before, err := svc.GetTotal(ctx, "c-1")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(2250).Equal(before))

		products.setPrice("p-1", 500)

		after, err := svc.GetTotal(ctx, "c-1")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1500).Equal(after), "got %s", after)
	})

	t.Run("EmptyCartIsZero", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, newFakeCatalog())

		repo.On("Get", ctx, "c-1").Return(nil, nil)

		total, err := svc.GetTotal(ctx, "c-1")
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})

	t.Run("ProductDisappeared", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, newFakeCatalog(product("p-1", 750)))

		existing := cartWith(t, "c-1",
			domain.CartItem{ProductID: "p-1", Quantity: 1},
			domain.CartItem{ProductID: "gone", Quantity: 1},
		)
		repo.On("Get", ctx, "c-1").Return(existing, nil)

		_, err := svc.GetTotal(ctx, "c-1")
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})

	t.Run("ProductLostPrice", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, newFakeCatalog(catalog.Product{ID: "p-1"}))

		existing := cartWith(t, "c-1", domain.CartItem{ProductID: "p-1", Quantity: 1})
		repo.On("Get", ctx, "c-1").Return(existing, nil)

		_, err := svc.GetTotal(ctx, "c-1")
		assert.ErrorIs(t, err, domain.ErrProductNotPurchasable)
	})
}

func TestCartService_GetQuote(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCartRepository)
	svc := NewCartService(repo, newFakeCatalog(product("p-1", 750), product("p-2", 1450)))

	existing := cartWith(t, "c-1",
		domain.CartItem{ProductID: "p-2", Quantity: 1},
		domain.CartItem{ProductID: "p-1", Quantity: 2},
	)
	repo.On("Get", ctx, "c-1").Return(existing, nil)

	quote, err := svc.GetQuote(ctx, "c-1")
	require.NoError(t, err)

	require.Len(t, quote.Lines, 2)
	assert.Equal(t, "p-2", quote.Lines[0].ProductID, "lines keep cart order")
	assert.Equal(t, "Product p-1", quote.Lines[1].Name)
	assert.True(t, decimal.NewFromInt(1500).Equal(quote.Lines[1].Subtotal))
	assert.Equal(t, 3, quote.Count)
	assert.True(t, decimal.NewFromInt(2950).Equal(quote.Total))
}

func TestCartService_Clear(t *testing.T) {
	ctx := context.Background()

	repo := new(MockCartRepository)
	svc := NewCartService(repo, newFakeCatalog())

	repo.On("Delete", ctx, "c-1").Return(nil).Once()
	assert.NoError(t, svc.Clear(ctx, "c-1"))

	repo.On("Delete", ctx, "c-2").Return(errors.New("redis down")).Once()
	assert.Error(t, svc.Clear(ctx, "c-2"))

	assert.ErrorIs(t, svc.Clear(ctx, ""), domain.ErrInvalidCartID)
	repo.AssertExpectations(t)
}

func TestCartService_AddItem_QuantityTooLarge(t *testing.T) {
	ctx := context.Background()

	for _, qty := range []int{domain.MaxQuantity + 1, 1_000_000_000, math.MaxInt} {
		repo := new(MockCartRepository)
		products := newFakeCatalog(product("p-1", 750))
		svc := NewCartService(repo, products)

		_, err := svc.AddItem(ctx, "c-1", "p-1", qty)
		assert.ErrorIs(t, err, domain.ErrQuantityTooLarge)
		assert.Zero(t, products.calls, "catalog is not asked for a rejected quantity")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	}
}

func TestCartService_AddItem_MergeOverLimit(t *testing.T) {
	ctx := context.Background()

	repo := new(MockCartRepository)
	svc := NewCartService(repo, newFakeCatalog(product("p-1", 750)))

	existing := cartWith(t, "c-1", domain.CartItem{ProductID: "p-1", Quantity: domain.MaxQuantity})
	repo.On("Get", ctx, "c-1").Return(existing, nil).Once()

	_, err := svc.AddItem(ctx, "c-1", "p-1", 1)
	assert.ErrorIs(t, err, domain.ErrQuantityTooLarge)
	assert.Equal(t, domain.MaxQuantity, existing.Items[0].Quantity)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartService_ReleaseOrdered(t *testing.T) {
	ctx := context.Background()

	t.Run("AllOrderedDeletesCart", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, newFakeCatalog())

		existing := cartWith(t, "c-1", domain.CartItem{ProductID: "p-1", Quantity: 2})
		repo.On("Get", ctx, "c-1").Return(existing, nil).Once()
		repo.On("Delete", ctx, "c-1").Return(nil).Once()

		require.NoError(t, svc.ReleaseOrdered(ctx, "c-1", []domain.CartItem{{ProductID: "p-1", Quantity: 2}}))
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("KeepsUnitsAddedAfterPricing", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, newFakeCatalog())

		existing := cartWith(t, "c-1",
			domain.CartItem{ProductID: "p-1", Quantity: 3},
			domain.CartItem{ProductID: "p-2", Quantity: 1},
		)
		repo.On("Get", ctx, "c-1").Return(existing, nil).Once()
		repo.On("Save", ctx, mock.MatchedBy(func(c *domain.Cart) bool {
			return len(c.Items) == 2 && c.Items[0].Quantity == 1 && c.Items[1].ProductID == "p-2"
		})).Return(nil).Once()

		require.NoError(t, svc.ReleaseOrdered(ctx, "c-1", []domain.CartItem{{ProductID: "p-1", Quantity: 2}}))
		repo.AssertExpectations(t)
	})

	t.Run("DeleteError", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := NewCartService(repo, newFakeCatalog())

		repo.On("Get", ctx, "c-1").Return(cartWith(t, "c-1", domain.CartItem{ProductID: "p-1", Quantity: 1}), nil).Once()
		repo.On("Delete", ctx, "c-1").Return(errors.New("redis down")).Once()

		err := svc.ReleaseOrdered(ctx, "c-1", []domain.CartItem{{ProductID: "p-1", Quantity: 1}})
		assert.ErrorContains(t, err, "failed to clear cart")
	})

	t.Run("EmptyCartID", func(t *testing.T) {
		svc := NewCartService(new(MockCartRepository), newFakeCatalog())
		assert.ErrorIs(t, svc.ReleaseOrdered(ctx, " ", nil), domain.ErrInvalidCartID)
	})
}
