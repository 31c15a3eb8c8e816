package domain

import (
	"errors"

	cart "storefront/internal/features/cart/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a validated checkout ready to be sent to the store.
type Order struct {
	ID              string          `json:"id"`
	Items           []cart.CartItem `json:"items"`
	PaymentMethod   PaymentMethod   `json:"payment"`
	DeliveryAddress string          `json:"address"`
	ContactEmail    string          `json:"email"`
	ContactPhone    string          `json:"phone"`
	Total           decimal.Decimal `json:"total"`
}

// NewOrder validates the draft against items and builds an order with a fresh ID.
func NewOrder(c *Checkout, items []cart.CartItem, total decimal.Decimal) (*Order, error) {
	if err := c.Validate(items); err != nil {
		return nil, err
	}

	lines := make([]cart.CartItem, len(items))
	copy(lines, items)

	return &Order{
		ID:              uuid.NewString(),
		Items:           lines,
		PaymentMethod:   c.PaymentMethod,
		DeliveryAddress: c.DeliveryAddress,
		ContactEmail:    c.ContactEmail,
		ContactPhone:    c.ContactPhone,
		Total:           total,
	}, nil
}

// UnitIDs lists one product ID per unit ordered, in cart order.
func (o *Order) UnitIDs() []string {
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		for i := 0; i < item.Quantity; i++ {
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}

// Receipt is the store's confirmation of a placed order.
type Receipt struct {
	OrderID string          `json:"id"`
	Total   decimal.Decimal `json:"total"`
}

// ErrOrderRejected is returned when the store refuses the order, for example over a stale total.
var ErrOrderRejected = errors.New("order rejected by store")
