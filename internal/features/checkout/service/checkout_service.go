package service

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/core/keylock"
	"storefront/internal/core/logger"
	"storefront/internal/core/metrics"
	cart "storefront/internal/features/cart/domain"
	"storefront/internal/features/checkout/domain"
	"storefront/internal/features/checkout/ports"

	"go.uber.org/zap"
)

// CheckoutService implements ports.OrderModel.
type CheckoutService struct {
	repo      ports.CheckoutRepository
	carts     ports.CartReader
	submitter ports.OrderSubmitter
	logger    *zap.Logger

	locks *keylock.Striped
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(repo ports.CheckoutRepository, carts ports.CartReader, submitter ports.OrderSubmitter) *CheckoutService {
	return &CheckoutService{
		repo:      repo,
		carts:     carts,
		submitter: submitter,
		logger:    logger.Named("checkout"),
		locks:     keylock.New(),
	}
}

func (s *CheckoutService) lock(cartID string) func() {
	return s.locks.Lock(cartID)
}

// GetCheckout returns the draft for a cart, or an empty one.
func (s *CheckoutService) GetCheckout(ctx context.Context, cartID string) (*domain.Checkout, error) {
	cartID = strings.TrimSpace(cartID)
	if cartID == "" {
		return nil, cart.ErrInvalidCartID
	}

	draft, err := s.repo.Get(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load checkout: %w", err)
	}
	if draft == nil {
		return domain.NewCheckout(cartID), nil
	}
	return draft, nil
}

// update loads the draft, applies fn and saves the result.
func (s *CheckoutService) update(ctx context.Context, cartID string, fn func(*domain.Checkout) error) (*domain.Checkout, error) {
	cartID = strings.TrimSpace(cartID)
	if cartID == "" {
		return nil, cart.ErrInvalidCartID
	}

	unlock := s.lock(cartID)
	defer unlock()

	draft, err := s.GetCheckout(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := fn(draft); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("service: failed to save checkout: %w", err)
	}
	return draft, nil
}

// SetPaymentMethod selects the payment method.
func (s *CheckoutService) SetPaymentMethod(ctx context.Context, cartID string, method domain.PaymentMethod) (*domain.Checkout, error) {
	return s.update(ctx, cartID, func(c *domain.Checkout) error {
		return c.SetPaymentMethod(method)
	})
}

// SetDeliveryAddress stores the delivery address.
func (s *CheckoutService) SetDeliveryAddress(ctx context.Context, cartID, address string) (*domain.Checkout, error) {
	return s.update(ctx, cartID, func(c *domain.Checkout) error {
		return c.SetDeliveryAddress(address)
	})
}

// SetDelivery completes the delivery step in one save. Nothing is stored if either value is invalid.
func (s *CheckoutService) SetDelivery(ctx context.Context, cartID string, method domain.PaymentMethod, address string) (*domain.Checkout, error) {
	return s.update(ctx, cartID, func(c *domain.Checkout) error {
		if err := c.SetPaymentMethod(method); err != nil {
			return err
		}
		return c.SetDeliveryAddress(address)
	})
}

// SetContactInfo completes the contacts step.
func (s *CheckoutService) SetContactInfo(ctx context.Context, cartID, email, phone string) (*domain.Checkout, error) {
	return s.update(ctx, cartID, func(c *domain.Checkout) error {
		return c.SetContactInfo(email, phone)
	})
}

// SubmitOrder validates the draft against the cart, prices it and sends it to the store.
// The ordered units and the draft are cleared only after the store accepts the order.
func (s *CheckoutService) SubmitOrder(ctx context.Context, cartID string) (*domain.Receipt, error) {
	cartID = strings.TrimSpace(cartID)
	if cartID == "" {
		return nil, cart.ErrInvalidCartID
	}

	unlock := s.lock(cartID)
	defer unlock()

	draft, err := s.GetCheckout(ctx, cartID)
	if err != nil {
		return nil, err
	}

	items, err := s.carts.GetItems(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load cart items: %w", err)
	}

	if err := draft.Validate(items); err != nil {
		metrics.RecordOrder(metrics.OrderResultInvalid)
		return nil, err
	}

	// The order is built from the quote alone: its lines and total come from one read of the cart.
	quote, err := s.carts.GetQuote(ctx, cartID)
	if err != nil {
		metrics.RecordOrder(metrics.OrderResultFailed)
		return nil, fmt.Errorf("service: failed to compute total: %w", err)
	}
	items = quote.Items()

	order, err := domain.NewOrder(draft, items, quote.Total)
	if err != nil {
		metrics.RecordOrder(metrics.OrderResultInvalid)
		return nil, err
	}

	receipt, err := s.submitter.SubmitOrder(ctx, order)
	if err != nil {
		metrics.RecordOrder(metrics.OrderResultFailed)
		s.logger.Warn("Order submission failed",
			zap.String("cart_id", cartID),
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("service: failed to submit order: %w", err)
	}
	metrics.RecordOrder(metrics.OrderResultAccepted)

	if receipt.OrderID == "" {
		receipt.OrderID = order.ID
	}
	if receipt.Total.IsZero() {
		receipt.Total = order.Total
	}

	// The order is placed; cleanup failures are logged, not returned.
	if err := s.carts.ReleaseOrdered(ctx, cartID, order.Items); err != nil {
		s.logger.Error("Failed to clear cart after order", zap.String("cart_id", cartID), zap.Error(err))
	}
	if err := s.repo.Delete(ctx, cartID); err != nil {
		s.logger.Error("Failed to delete checkout after order", zap.String("cart_id", cartID), zap.Error(err))
	}

	s.logger.Info("Order placed",
		zap.String("cart_id", cartID),
		zap.String("order_id", receipt.OrderID),
		zap.String("total", receipt.Total.String()),
	)
	return receipt, nil
}
