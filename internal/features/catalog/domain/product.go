package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrProductNotFound is returned when the catalog has no product with the given ID.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidProductID is returned for an empty product ID or a bare "." or "..".
	ErrInvalidProductID = errors.New("invalid product id")
)

// Product represents an item of the remote catalog.
type Product struct {
	// ID is the catalog identifier of the product.
	ID string `json:"id"`
	// Name is the display title.
	Name string `json:"name"`
	// Description is the long description shown on the detail screen.
	Description string `json:"description"`
	// Price is the unit price. It is null for items that are not for sale.
	Price decimal.NullDecimal `json:"price"`
	// Image is the absolute URL of the product picture.
	Image string `json:"image"`
	// Category groups products in the catalog (e.g., "софт-скил", "другое").
	Category string `json:"category"`
}

// Purchasable reports whether the product can be put into a cart.
func (p Product) Purchasable() bool {
	return p.Price.Valid
}
