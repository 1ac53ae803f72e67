package payments

import (
	"context"

	"github.com/shopspring/decimal"
)

// CheckoutRequest asks the payment processor to open a checkout for one
// payment obligation. Metadata is echoed back on the completion event and
// carries the correlation identifiers.
type CheckoutRequest struct {
	Amount   decimal.Decimal
	Currency string
	Metadata map[string]string
}

// CheckoutSession is the processor's reference for a pending checkout
type CheckoutSession struct {
	CheckoutID  string
	CheckoutURL string
}

// CompletionEvent is a completed-checkout notification from the payment
// processor. Signature verification happens at the transport boundary
// before the event reaches the application layer.
type CompletionEvent struct {
	PaymentID       string
	LeaseID         string
	TenantID        string
	ChargedAmount   decimal.Decimal
	ChargeReference string
}

// Processor is the external payment-processor collaborator
type Processor interface {
	// CreateCheckout opens a checkout session for the given amount
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}
