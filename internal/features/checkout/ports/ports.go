package ports

import (
	"context"

	cart "storefront/internal/features/cart/domain"
	"storefront/internal/features/checkout/domain"
)

// OrderModel defines the primary port for the checkout flow.
type OrderModel interface {
	GetCheckout(ctx context.Context, cartID string) (*domain.Checkout, error)
	SetPaymentMethod(ctx context.Context, cartID string, method domain.PaymentMethod) (*domain.Checkout, error)
	SetDeliveryAddress(ctx context.Context, cartID, address string) (*domain.Checkout, error)
	SetDelivery(ctx context.Context, cartID string, method domain.PaymentMethod, address string) (*domain.Checkout, error)
	SetContactInfo(ctx context.Context, cartID, email, phone string) (*domain.Checkout, error)
	SubmitOrder(ctx context.Context, cartID string) (*domain.Receipt, error)
}

// CheckoutRepository stores order drafts. Get returns nil, nil when there is no draft.
type CheckoutRepository interface {
	Get(ctx context.Context, cartID string) (*domain.Checkout, error)
	Save(ctx context.Context, checkout *domain.Checkout) error
	Delete(ctx context.Context, cartID string) error
}

// OrderSubmitter sends a finished order to the store.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, order *domain.Order) (*domain.Receipt, error)
}

// CartReader is the part of the cart the checkout needs.
// GetQuote prices a single read of the cart, so its lines and total always agree.
// ReleaseOrdered removes only the ordered units and keeps anything added since.
type CartReader interface {
	GetItems(ctx context.Context, cartID string) ([]cart.CartItem, error)
	GetQuote(ctx context.Context, cartID string) (*cart.Quote, error)
	ReleaseOrdered(ctx context.Context, cartID string, ordered []cart.CartItem) error
}
