package ports

import (
	"context"

	"storefront/internal/features/cart/domain"
	catalog "storefront/internal/features/catalog/domain"

	"github.com/shopspring/decimal"
)

// CartModel defines the primary port for cart operations.
type CartModel interface {
	AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, cartID, productID string) (*domain.Cart, error)
	GetItems(ctx context.Context, cartID string) ([]domain.CartItem, error)
	GetQuote(ctx context.Context, cartID string) (*domain.Quote, error)
	GetTotal(ctx context.Context, cartID string) (decimal.Decimal, error)
	Clear(ctx context.Context, cartID string) error
}

// CartRepository defines the secondary port for cart storage.
// Get returns nil, nil when the cart does not exist.
type CartRepository interface {
	Get(ctx context.Context, cartID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, cartID string) error
}

// ProductLookup resolves current catalog data for a product.
type ProductLookup interface {
	GetProductByID(ctx context.Context, id string) (*catalog.Product, error)
}
