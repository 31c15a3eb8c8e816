package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/core/cache"
	"storefront/internal/features/checkout/domain"
)

const checkoutKeyPrefix = "checkout:"

// RedisCheckoutRepository implements ports.CheckoutRepository on top of the cache.
type RedisCheckoutRepository struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisCheckoutRepository creates a new RedisCheckoutRepository. Drafts expire ttl after their last save.
func NewRedisCheckoutRepository(c cache.Cache, ttl time.Duration) *RedisCheckoutRepository {
	return &RedisCheckoutRepository{cache: c, ttl: ttl}
}

// Save stores the draft.
func (r *RedisCheckoutRepository) Save(ctx context.Context, checkout *domain.Checkout) error {
	data, err := json.Marshal(checkout)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout: %w", err)
	}
	if err := r.cache.Set(ctx, checkoutKeyPrefix+checkout.CartID, data, r.ttl); err != nil {
		return fmt.Errorf("failed to save checkout to cache: %w", err)
	}
	return nil
}

// Get retrieves a draft. It returns nil, nil when there is none.
func (r *RedisCheckoutRepository) Get(ctx context.Context, cartID string) (*domain.Checkout, error) {
	data, err := r.cache.Get(ctx, checkoutKeyPrefix+cartID)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get checkout from cache: %w", err)
	}

	var checkout domain.Checkout
	if err := json.Unmarshal(data, &checkout); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkout: %w", err)
	}
	return &checkout, nil
}

// Delete removes the draft.
func (r *RedisCheckoutRepository) Delete(ctx context.Context, cartID string) error {
	if err := r.cache.Delete(ctx, checkoutKeyPrefix+cartID); err != nil {
		return fmt.Errorf("failed to delete checkout from cache: %w", err)
	}
	return nil
}
