package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrInvalidQuantity is returned when a non-positive quantity is added.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	// ErrInvalidProductID is returned for an empty product ID.
	ErrInvalidProductID = errors.New("product id is required")
	// ErrInvalidCartID is returned for an empty cart ID.
	ErrInvalidCartID = errors.New("cart id is required")
	// ErrProductNotPurchasable is returned when a product has no price in the catalog.
	ErrProductNotPurchasable = errors.New("product is not for sale")
	// ErrQuantityTooLarge is returned when a line would exceed MaxQuantity units.
	ErrQuantityTooLarge = errors.New("quantity exceeds the per-product limit")
)

// MaxQuantity is the most units of one product a cart may hold.
const MaxQuantity = 99

// CartItem links a catalog product to a quantity. Prices are never stored here.
type CartItem struct {
	// ProductID is the catalog ID of the product.
	ProductID string `json:"product_id"`
	// Quantity is the number of units, always positive.
	Quantity int `json:"quantity"`
}

// Cart is a shopper's basket.
type Cart struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart creates an empty cart.
func NewCart(id string) (*Cart, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidCartID
	}
	return &Cart{ID: id, Items: []CartItem{}}, nil
}

// AddItem adds quantity units of a product. A product already in the cart has its
// quantity increased; it never appears twice.
func (c *Cart) AddItem(productID string, quantity int) error {
	if productID == "" {
		return ErrInvalidProductID
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > MaxQuantity {
		return ErrQuantityTooLarge
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			// Both operands are bounded by MaxQuantity, so the comparison cannot overflow.
			if c.Items[i].Quantity > MaxQuantity-quantity {
				return ErrQuantityTooLarge
			}
			c.Items[i].Quantity += quantity
			c.touch()
			return nil
		}
	}

	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity})
	c.touch()
	return nil
}

// Subtract takes ordered units out of the cart. Lines that reach zero are removed,
// and units added after the order was priced stay in the cart.
func (c *Cart) Subtract(ordered []CartItem) {
	take := make(map[string]int, len(ordered))
	for _, item := range ordered {
		take[item.ProductID] += item.Quantity
	}

	kept := c.Items[:0]
	for _, item := range c.Items {
		item.Quantity -= take[item.ProductID]
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}
	c.Items = kept
	c.touch()
}

// RemoveItem deletes the product's entry regardless of its quantity.
// It reports whether the product was in the cart.
func (c *Cart) RemoveItem(productID string) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch()
			return true
		}
	}
	return false
}

// GetItems returns a copy of the cart lines in insertion order.
func (c *Cart) GetItems() []CartItem {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return items
}

// Clear removes every item.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.touch()
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Count returns the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}
