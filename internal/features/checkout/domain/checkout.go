package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	cart "storefront/internal/features/cart/domain"
)

var (
	// ErrInvalidAddress is returned for a blank delivery address.
	ErrInvalidAddress = errors.New("delivery address is required")
	// ErrInvalidEmail is returned when the contact email does not parse.
	ErrInvalidEmail = errors.New("contact email is invalid")
	// ErrInvalidPhone is returned when the contact phone is not a plausible number.
	ErrInvalidPhone = errors.New("contact phone is invalid")
	// ErrStepOutOfOrder is returned when contacts are set before delivery is complete.
	ErrStepOutOfOrder = errors.New("delivery step must be completed first")
	// ErrValidation is wrapped by every ValidationError.
	ErrValidation = errors.New("order is incomplete")
)

// Field names reported by ValidationError.
const (
	FieldPayment = "payment"
	FieldAddress = "address"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldItems   = "items"
)

const (
	minPhoneDigits = 5
	maxPhoneDigits = 20
)

// Step is the checkout screen the shopper is on.
type Step string

const (
	// StepDelivery collects payment method and address.
	StepDelivery Step = "delivery"
	// StepContacts collects email and phone.
	StepContacts Step = "contacts"
	// StepReady means the order can be submitted.
	StepReady Step = "ready"
)

// ValidationError lists the order fields that are missing.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": missing " + strings.Join(e.Missing, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Checkout is the order draft for one cart.
type Checkout struct {
	CartID          string        `json:"cart_id"`
	PaymentMethod   PaymentMethod `json:"payment"`
	DeliveryAddress string        `json:"address"`
	ContactEmail    string        `json:"email"`
	ContactPhone    string        `json:"phone"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// NewCheckout creates an empty draft.
func NewCheckout(cartID string) *Checkout {
	return &Checkout{CartID: cartID}
}

// Step returns the first incomplete step.
func (c *Checkout) Step() Step {
	switch {
	case !c.deliveryDone():
		return StepDelivery
	case c.ContactEmail == "" || c.ContactPhone == "":
		return StepContacts
	default:
		return StepReady
	}
}

func (c *Checkout) deliveryDone() bool {
	return c.PaymentMethod.Valid() && c.DeliveryAddress != ""
}

// SetPaymentMethod selects how the order is paid.
func (c *Checkout) SetPaymentMethod(m PaymentMethod) error {
	if !m.Valid() {
		return ErrInvalidPaymentMethod
	}
	c.PaymentMethod = m
	c.touch()
	return nil
}

// SetDeliveryAddress stores the trimmed address.
func (c *Checkout) SetDeliveryAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrInvalidAddress
	}
	c.DeliveryAddress = address
	c.touch()
	return nil
}

// SetContactInfo stores email and phone. It is refused until the delivery step is done.
func (c *Checkout) SetContactInfo(email, phone string) error {
	if !c.deliveryDone() {
		return ErrStepOutOfOrder
	}

	email = strings.TrimSpace(email)
	if !validEmail(email) {
		return ErrInvalidEmail
	}

	phone = strings.TrimSpace(phone)
	if !validPhone(phone) {
		return ErrInvalidPhone
	}

	c.ContactEmail = email
	c.ContactPhone = phone
	c.touch()
	return nil
}

// Validate checks that the draft and items form a complete order.
func (c *Checkout) Validate(items []cart.CartItem) error {
	var missing []string
	if !c.PaymentMethod.Valid() {
		missing = append(missing, FieldPayment)
	}
	if c.DeliveryAddress == "" {
		missing = append(missing, FieldAddress)
	}
	if c.ContactEmail == "" {
		missing = append(missing, FieldEmail)
	}
	if c.ContactPhone == "" {
		missing = append(missing, FieldPhone)
	}
	if len(items) == 0 {
		missing = append(missing, FieldItems)
	}

	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

func (c *Checkout) touch() {
	c.UpdatedAt = time.Now()
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// validPhone accepts digits with optional "+", "-", "(", ")" and spaces.
func validPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case strings.ContainsRune("+-() ", r):
		default:
			return false
		}
	}
	return digits >= minPhoneDigits && digits <= maxPhoneDigits
}
