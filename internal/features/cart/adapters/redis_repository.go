package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/core/cache"
	"storefront/internal/features/cart/domain"
)

const cartKeyPrefix = "cart:"

// RedisCartRepository implements ports.CartRepository on top of the cache.
type RedisCartRepository struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisCartRepository creates a new RedisCartRepository.
// Every save refreshes the TTL, so a cart expires after ttl of inactivity. A ttl of 0 keeps carts forever.
func NewRedisCartRepository(c cache.Cache, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{
		cache: c,
		ttl:   ttl,
	}
}

func cartKey(cartID string) string {
	return cartKeyPrefix + cartID
}

// Save stores the cart.
func (r *RedisCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	if err := r.cache.Set(ctx, cartKey(cart.ID), data, r.ttl); err != nil {
		return fmt.Errorf("failed to save cart to cache: %w", err)
	}
	return nil
}

// Get retrieves a cart. It returns nil, nil when the cart does not exist.
func (r *RedisCartRepository) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	data, err := r.cache.Get(ctx, cartKey(cartID))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart from cache: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}

	return &cart, nil
}

// Delete removes the cart.
func (r *RedisCartRepository) Delete(ctx context.Context, cartID string) error {
	if err := r.cache.Delete(ctx, cartKey(cartID)); err != nil {
		return fmt.Errorf("failed to delete cart from cache: %w", err)
	}
	return nil
}
