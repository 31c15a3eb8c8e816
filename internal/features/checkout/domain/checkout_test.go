package domain

import (
	"errors"
	"testing"

	cart "storefront/internal/features/cart/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyCheckout(t *testing.T) *Checkout {
	t.Helper()
	c := NewCheckout("c-1")
	require.NoError(t, c.SetPaymentMethod(PaymentOnline))
	require.NoError(t, c.SetDeliveryAddress("ул. Пушкина, 1"))
	require.NoError(t, c.SetContactInfo("test@test.ru", "+7 (912) 345-67-89"))
	return c
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod(" Online ")
	require.NoError(t, err)
	assert.Equal(t, PaymentOnline, m)

	m, err = ParsePaymentMethod("cash")
	require.NoError(t, err)
	assert.Equal(t, PaymentCash, m)

	_, err = ParsePaymentMethod("crypto")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	_, err = ParsePaymentMethod("")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestCheckout_Steps(t *testing.T) {
	c := NewCheckout("c-1")
	assert.Equal(t, StepDelivery, c.Step())

	require.NoError(t, c.SetPaymentMethod(PaymentCash))
	assert.Equal(t, StepDelivery, c.Step(), "address still missing")

	require.NoError(t, c.SetDeliveryAddress("  Москва  "))
	assert.Equal(t, "Москва", c.DeliveryAddress)
	assert.Equal(t, StepContacts, c.Step())

	require.NoError(t, c.SetContactInfo("a@b.ru", "12345"))
	assert.Equal(t, StepReady, c.Step())
	assert.False(t, c.UpdatedAt.IsZero())
}

func TestCheckout_SetContactInfoBeforeDelivery(t *testing.T) {
	c := NewCheckout("c-1")
	require.NoError(t, c.SetPaymentMethod(PaymentOnline))

	err := c.SetContactInfo("a@b.ru", "+71234567890")
	assert.ErrorIs(t, err, ErrStepOutOfOrder)
	assert.Empty(t, c.ContactEmail)
	assert.Empty(t, c.ContactPhone)
}

func TestCheckout_SetDeliveryAddressBlank(t *testing.T) {
	c := NewCheckout("c-1")
	assert.ErrorIs(t, c.SetDeliveryAddress("   "), ErrInvalidAddress)
	assert.ErrorIs(t, c.SetPaymentMethod("barter"), ErrInvalidPaymentMethod)
}

func TestCheckout_ContactValidation(t *testing.T) {
	tests := []struct {
		name  string
		email string
		phone string
		want  error
	}{
		{"Valid", "test@test.ru", "+7 (912) 345-67-89", nil},
		{"EmailWithoutAt", "test.ru", "+71234567890", ErrInvalidEmail},
		{"EmailWithDisplayName", "Test <test@test.ru>", "+71234567890", ErrInvalidEmail},
		{"EmptyEmail", "", "+71234567890", ErrInvalidEmail},
		{"PhoneTooShort", "test@test.ru", "1234", ErrInvalidPhone},
		{"PhoneTooLong", "test@test.ru", "123456789012345678901", ErrInvalidPhone},
		{"PhoneWithLetters", "test@test.ru", "+7 912 CALL ME", ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCheckout("c-1")
			require.NoError(t, c.SetPaymentMethod(PaymentOnline))
			require.NoError(t, c.SetDeliveryAddress("Москва"))

			err := c.SetContactInfo(tt.email, tt.phone)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCheckout_Validate(t *testing.T) {
	items := []cart.CartItem{{ProductID: "p-1", Quantity: 1}}

	t.Run("Complete", func(t *testing.T) {
		assert.NoError(t, readyCheckout(t).Validate(items))
	})

	t.Run("EmptyDraft", func(t *testing.T) {
		err := NewCheckout("c-1").Validate(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{FieldPayment, FieldAddress, FieldEmail, FieldPhone, FieldItems}, verr.Missing)
		assert.Contains(t, err.Error(), "missing payment, address, email, phone, items")
	})

	t.Run("NoItems", func(t *testing.T) {
		var verr *ValidationError
		require.True(t, errors.As(readyCheckout(t).Validate([]cart.CartItem{}), &verr))
		assert.Equal(t, []string{FieldItems}, verr.Missing)
	})
}

func TestNewOrder(t *testing.T) {
	items := []cart.CartItem{
		{ProductID: "p-1", Quantity: 2},
		{ProductID: "p-2", Quantity: 1},
	}

	t.Run("Valid", func(t *testing.T) {
		order, err := NewOrder(readyCheckout(t), items, decimal.NewFromInt(2950))
		require.NoError(t, err)

		_, err = uuid.Parse(order.ID)
		assert.NoError(t, err)
		assert.Equal(t, PaymentOnline, order.PaymentMethod)
		assert.Equal(t, "test@test.ru", order.ContactEmail)
		assert.True(t, decimal.NewFromInt(2950).Equal(order.Total))
		assert.Equal(t, []string{"p-1", "p-1", "p-2"}, order.UnitIDs())

		items[0].Quantity = 10
		assert.Equal(t, 2, order.Items[0].Quantity, "order owns its items")
	})

	t.Run("Incomplete", func(t *testing.T) {
		order, err := NewOrder(NewCheckout("c-1"), items, decimal.Zero)
		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("UniqueIDs", func(t *testing.T) {
		a, err := NewOrder(readyCheckout(t), items, decimal.Zero)
		require.NoError(t, err)
		b, err := NewOrder(readyCheckout(t), items, decimal.Zero)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}
