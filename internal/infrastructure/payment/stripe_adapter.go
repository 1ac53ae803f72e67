package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/propstack/backend/internal/domain/payments"
	"github.com/propstack/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"go.uber.org/zap"
)

var minorUnitFactor = decimal.NewFromInt(100)

// StripeAdapter implements the payment processor port using Stripe Checkout
type StripeAdapter struct {
	config config.StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter creates a new Stripe adapter and sets the global API key
func NewStripeAdapter(cfg config.StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe: secret key is required")
	}
	if cfg.SuccessURL == "" || cfg.CancelURL == "" {
		return nil, errors.New("stripe: success and cancel URLs are required")
	}

	stripe.Key = cfg.SecretKey

	return &StripeAdapter{
		config: cfg,
		logger: logger.Named("stripe"),
	}, nil
}

// CreateCheckout opens a one-off Checkout session for a rent payment
func (a *StripeAdapter) CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(a.config.SuccessURL),
		CancelURL:  stripe.String(a.config.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(amountToMinorUnits(req.Amount)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Rent payment"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}

	sess, err := session.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe checkout session",
			zap.String("currency", req.Currency),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	a.logger.Info("Created Stripe checkout session",
		zap.String("checkout_id", sess.ID))

	return &payments.CheckoutSession{
		CheckoutID:  sess.ID,
		CheckoutURL: sess.URL,
	}, nil
}

// amountToMinorUnits converts a decimal major-unit amount to integer cents
func amountToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitFactor).Round(0).IntPart()
}

// Ensure StripeAdapter implements Processor
var _ payments.Processor = (*StripeAdapter)(nil)
