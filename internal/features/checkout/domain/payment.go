package domain

import (
	"errors"
	"strings"
)

// ErrInvalidPaymentMethod is returned for anything other than online or cash.
var ErrInvalidPaymentMethod = errors.New("payment method must be online or cash")

// PaymentMethod is how the shopper pays for the order.
type PaymentMethod string

const (
	PaymentOnline PaymentMethod = "online"
	PaymentCash   PaymentMethod = "cash"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentOnline || m == PaymentCash
}

// ParsePaymentMethod parses a case-insensitive payment method name.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", ErrInvalidPaymentMethod
	}
	return m, nil
}
