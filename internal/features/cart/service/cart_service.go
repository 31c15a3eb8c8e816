package service

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/core/keylock"
	"storefront/internal/core/logger"
	"storefront/internal/features/cart/domain"
	"storefront/internal/features/cart/ports"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxPriceLookups bounds concurrent catalog requests while quoting a cart.
const maxPriceLookups = 4

// CartService implements ports.CartModel.
type CartService struct {
	repo     ports.CartRepository
	products ports.ProductLookup
	logger   *zap.Logger

	// locks serialises read-modify-write cycles on the same cart inside this process.
	locks *keylock.Striped
}

// NewCartService creates a new CartService.
func NewCartService(repo ports.CartRepository, products ports.ProductLookup) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		logger:   logger.Named("cart"),
		locks:    keylock.New(),
	}
}

func (s *CartService) lock(cartID string) func() {
	return s.locks.Lock(strings.TrimSpace(cartID))
}

// load returns the stored cart or a fresh empty one.
func (s *CartService) load(ctx context.Context, cartID string) (*domain.Cart, error) {
	cartID = strings.TrimSpace(cartID)
	if cartID == "" {
		return nil, domain.ErrInvalidCartID
	}

	cart, err := s.repo.Get(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load cart: %w", err)
	}
	if cart == nil {
		return domain.NewCart(cartID)
	}
	return cart, nil
}

// AddItem checks the product is for sale and adds it to the cart.
func (s *CartService) AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, domain.ErrInvalidProductID
	}
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if quantity > domain.MaxQuantity {
		return nil, domain.ErrQuantityTooLarge
	}

	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Purchasable() {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotPurchasable, productID)
	}

	unlock := s.lock(cartID)
	defer unlock()

	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if err := cart.AddItem(productID, quantity); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("service: failed to save cart: %w", err)
	}

	s.logger.Debug("Item added",
		zap.String("cart_id", cart.ID),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
	)
	return cart, nil
}

// RemoveItem deletes a product line from the cart. Removing an absent product is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	unlock := s.lock(cartID)
	defer unlock()

	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if !cart.RemoveItem(strings.TrimSpace(productID)) {
		return cart, nil
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("service: failed to save cart: %w", err)
	}
	return cart, nil
}

// GetItems returns the cart lines.
func (s *CartService) GetItems(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return cart.GetItems(), nil
}

// GetQuote prices every line against the catalog as it is right now.
func (s *CartService) GetQuote(ctx context.Context, cartID string) (*domain.Quote, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	items := cart.GetItems()
	lines := make([]domain.PricedLine, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxPriceLookups)

	for i, item := range items {
		g.Go(func() error {
			product, err := s.products.GetProductByID(gctx, item.ProductID)
			if err != nil {
				return err
			}
			if !product.Purchasable() {
				return fmt.Errorf("%w: %s", domain.ErrProductNotPurchasable, item.ProductID)
			}
			lines[i] = domain.NewPricedLine(item, product.Name, product.Price.Decimal)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("service: failed to price cart %s: %w", cart.ID, err)
	}

	return domain.NewQuote(cart.ID, lines), nil
}

// GetTotal returns the sum of price × quantity over all lines.
func (s *CartService) GetTotal(ctx context.Context, cartID string) (decimal.Decimal, error) {
	quote, err := s.GetQuote(ctx, cartID)
	if err != nil {
		return decimal.Zero, err
	}
	return quote.Total, nil
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, cartID string) error {
	cartID = strings.TrimSpace(cartID)
	if cartID == "" {
		return domain.ErrInvalidCartID
	}

	unlock := s.lock(cartID)
	defer unlock()

	if err := s.repo.Delete(ctx, cartID); err != nil {
		return fmt.Errorf("service: failed to clear cart: %w", err)
	}
	return nil
}

// ReleaseOrdered takes the units of a placed order out of the cart. Units added
// after the order was priced stay in the cart; an emptied cart is deleted.
func (s *CartService) ReleaseOrdered(ctx context.Context, cartID string, ordered []domain.CartItem) error {
	unlock := s.lock(cartID)
	defer unlock()

	cart, err := s.load(ctx, cartID)
	if err != nil {
		return err
	}

	cart.Subtract(ordered)

	if cart.IsEmpty() {
		if err := s.repo.Delete(ctx, cart.ID); err != nil {
			return fmt.Errorf("service: failed to clear cart: %w", err)
		}
		return nil
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return fmt.Errorf("service: failed to save cart: %w", err)
	}
	s.logger.Debug("Cart kept items added during checkout",
		zap.String("cart_id", cart.ID),
		zap.Int("count", cart.Count()),
	)
	return nil
}
