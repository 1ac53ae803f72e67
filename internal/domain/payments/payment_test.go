package payments

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	payment, err := NewPayment(uuid.New(), uuid.New(), due)
	require.NoError(t, err)

	assert.Equal(t, due, payment.CreatedAt)
	assert.True(t, payment.WaitingForPayment)
	assert.False(t, payment.PaymentAccepted)
	assert.Nil(t, payment.Amount)
	assert.Nil(t, payment.PaymentDate)
}

func TestNewPaymentRequiresReferences(t *testing.T) {
	_, err := NewPayment(uuid.Nil, uuid.New(), time.Now())
	require.Error(t, err)
	_, err = NewPayment(uuid.New(), uuid.Nil, time.Now())
	require.Error(t, err)
}

func TestPaymentFulfill(t *testing.T) {
	today := time.Date(2025, 3, 2, 10, 30, 0, 0, time.UTC)

	t.Run("records the charge and accepts the payment", func(t *testing.T) {
		payment, err := NewPayment(uuid.New(), uuid.New(), time.Now())
		require.NoError(t, err)

		amount := decimal.NewFromInt(1200)
		require.NoError(t, payment.Fulfill(amount, "ch_123", today))

		assert.True(t, payment.PaymentAccepted)
		assert.False(t, payment.WaitingForPayment)
		assert.Equal(t, "ch_123", payment.ChargeReference)
		require.NotNil(t, payment.Amount)
		assert.True(t, amount.Equal(*payment.Amount))
		require.NotNil(t, payment.PaymentDate)
		assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), *payment.PaymentDate)
	})

	t.Run("second fulfillment of the same payment fails", func(t *testing.T) {
		payment, err := NewPayment(uuid.New(), uuid.New(), time.Now())
		require.NoError(t, err)
		require.NoError(t, payment.Fulfill(decimal.NewFromInt(1200), "ch_123", today))

		err = payment.Fulfill(decimal.NewFromInt(1200), "ch_123", today)
		require.Error(t, err)
		assert.Equal(t, "INVALID_STATE", err.(*shared.DomainError).Code)
	})
}

func TestPaymentAttachCheckout(t *testing.T) {
	payment, err := NewPayment(uuid.New(), uuid.New(), time.Now())
	require.NoError(t, err)

	require.NoError(t, payment.AttachCheckout("cs_123", "https://checkout.example/cs_123"))
	assert.Equal(t, "cs_123", payment.CheckoutID)

	require.NoError(t, payment.Fulfill(decimal.NewFromInt(100), "ch_1", time.Now()))
	err = payment.AttachCheckout("cs_456", "https://checkout.example/cs_456")
	require.Error(t, err)
}
