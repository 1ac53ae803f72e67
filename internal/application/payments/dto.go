package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/payments"
	"github.com/shopspring/decimal"
)

// ListPaymentsFilter narrows payment listings
type ListPaymentsFilter struct {
	Accepted bool
	Waiting  bool
	TenantID *uuid.UUID
	LeaseID  *uuid.UUID
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// PaymentBasicResponse is the projection exposed to non-staff callers
type PaymentBasicResponse struct {
	ID                uuid.UUID        `json:"id"`
	LeaseID           uuid.UUID        `json:"lease_id"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	PaymentDate       *time.Time       `json:"payment_date,omitempty"`
	WaitingForPayment bool             `json:"waiting_for_payment"`
	PaymentAccepted   bool             `json:"payment_accepted"`
	CheckoutURL       string           `json:"checkout_url,omitempty"`
}

// PaymentResponse is the detailed projection exposed to staff callers
type PaymentResponse struct {
	ID                uuid.UUID        `json:"id"`
	LeaseID           uuid.UUID        `json:"lease_id"`
	TenantID          uuid.UUID        `json:"tenant_id"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	PaymentDate       *time.Time       `json:"payment_date,omitempty"`
	WaitingForPayment bool             `json:"waiting_for_payment"`
	PaymentAccepted   bool             `json:"payment_accepted"`
	CheckoutID        string           `json:"checkout_id,omitempty"`
	CheckoutURL       string           `json:"checkout_url,omitempty"`
	ChargeReference   string           `json:"charge_reference,omitempty"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// Basic reduces the detailed projection to the non-staff view
func (r PaymentResponse) Basic() PaymentBasicResponse {
	return PaymentBasicResponse{
		ID:                r.ID,
		LeaseID:           r.LeaseID,
		Amount:            r.Amount,
		CreatedAt:         r.CreatedAt,
		PaymentDate:       r.PaymentDate,
		WaitingForPayment: r.WaitingForPayment,
		PaymentAccepted:   r.PaymentAccepted,
		CheckoutURL:       r.CheckoutURL,
	}
}

// ToPaymentResponse maps a payment aggregate to its detailed projection
func ToPaymentResponse(payment *payments.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                payment.ID,
		LeaseID:           payment.LeaseID,
		TenantID:          payment.TenantID,
		Amount:            payment.Amount,
		CreatedAt:         payment.CreatedAt,
		PaymentDate:       payment.PaymentDate,
		WaitingForPayment: payment.WaitingForPayment,
		PaymentAccepted:   payment.PaymentAccepted,
		CheckoutID:        payment.CheckoutID,
		CheckoutURL:       payment.CheckoutURL,
		ChargeReference:   payment.ChargeReference,
		UpdatedAt:         payment.UpdatedAt,
	}
}

// ToPaymentResponses maps a slice of payments to detailed projections
func ToPaymentResponses(items []payments.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(items))
	for i := range items {
		out[i] = ToPaymentResponse(&items[i])
	}
	return out
}

// BillingRunResult summarizes one payment-generation sweep
type BillingRunResult struct {
	Issued int
	Failed int
}
