package domain

import "github.com/shopspring/decimal"

// PricedLine is a cart line priced against the catalog at quote time.
type PricedLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Quote is a priced snapshot of a cart. It is computed on demand and never stored.
type Quote struct {
	CartID string          `json:"cart_id"`
	Lines  []PricedLine    `json:"lines"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// NewPricedLine prices a single line.
func NewPricedLine(item CartItem, name string, price decimal.Decimal) PricedLine {
	return PricedLine{
		ProductID: item.ProductID,
		Name:      name,
		Price:     price,
		Quantity:  item.Quantity,
		Subtotal:  price.Mul(decimal.NewFromInt(int64(item.Quantity))),
	}
}

// NewQuote sums the lines into a quote.
func NewQuote(cartID string, lines []PricedLine) *Quote {
	q := &Quote{CartID: cartID, Lines: lines, Total: decimal.Zero}
	for _, l := range lines {
		q.Count += l.Quantity
		q.Total = q.Total.Add(l.Subtotal)
	}
	return q
}

// Items returns the quoted lines as cart items, in quote order.
func (q *Quote) Items() []CartItem {
	items := make([]CartItem, len(q.Lines))
	for i, l := range q.Lines {
		items[i] = CartItem{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return items
}
