package payment

import (
	"testing"

	"github.com/propstack/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validStripeConfig() config.StripeConfig {
	return config.StripeConfig{
		SecretKey:     "sk_test_123",
		WebhookSecret: "whsec_123",
		Currency:      "eur",
		SuccessURL:    "https://app.example.com/payments/success",
		CancelURL:     "https://app.example.com/payments/cancel",
	}
}

func TestNewStripeAdapterValidatesConfig(t *testing.T) {
	_, err := NewStripeAdapter(validStripeConfig(), zap.NewNop())
	require.NoError(t, err)

	cfg := validStripeConfig()
	cfg.SecretKey = ""
	_, err = NewStripeAdapter(cfg, zap.NewNop())
	assert.Error(t, err)

	cfg = validStripeConfig()
	cfg.SuccessURL = ""
	_, err = NewStripeAdapter(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestAmountToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(120000), amountToMinorUnits(decimal.NewFromInt(1200)))
	assert.Equal(t, int64(123456), amountToMinorUnits(decimal.NewFromFloat(1234.56)))
	assert.Equal(t, int64(100), amountToMinorUnits(decimal.NewFromFloat(0.999)))
}
