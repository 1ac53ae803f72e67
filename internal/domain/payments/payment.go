package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Payment is a rent payment obligation for a single billing cycle.
// It is created waiting for payment and becomes accepted exactly once,
// when the payment processor reports a completed checkout. CreatedAt is
// overridden to the lease's due date rather than the insert time.
type Payment struct {
	shared.BaseAggregateRoot
	LeaseID           uuid.UUID        `gorm:"type:uuid;not null;index"`
	TenantID          uuid.UUID        `gorm:"type:uuid;not null;index"`
	Amount            *decimal.Decimal `gorm:"type:numeric(12,2)"`
	PaymentDate       *time.Time       `gorm:"type:date"`
	WaitingForPayment bool             `gorm:"not null;default:true"`
	PaymentAccepted   bool             `gorm:"not null;default:false"`
	CheckoutID        string           `gorm:"size:255"`
	CheckoutURL       string           `gorm:"size:500"`
	ChargeReference   string           `gorm:"size:255"`
}

// NewPayment creates a payment obligation due on dueDate
func NewPayment(leaseID, tenantID uuid.UUID, dueDate time.Time) (*Payment, error) {
	if leaseID == uuid.Nil || tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Lease and tenant references are required")
	}

	base := shared.NewBaseAggregateRoot()
	base.CreatedAt = shared.DateOf(dueDate)

	return &Payment{
		BaseAggregateRoot: base,
		LeaseID:           leaseID,
		TenantID:          tenantID,
		WaitingForPayment: true,
	}, nil
}

// AttachCheckout stores the checkout reference issued by the payment processor
func (p *Payment) AttachCheckout(checkoutID, checkoutURL string) error {
	if !p.WaitingForPayment || p.PaymentAccepted {
		return shared.NewDomainError("INVALID_STATE", "Payment has already been accepted")
	}
	p.CheckoutID = checkoutID
	p.CheckoutURL = checkoutURL
	p.UpdatedAt = time.Now()
	return nil
}

// Fulfill records a completed checkout reported by the payment processor.
// A second delivery of the same completion event fails here rather than
// silently re-applying, which makes the handler idempotent without event
// deduplication.
func (p *Payment) Fulfill(amount decimal.Decimal, chargeReference string, today time.Time) error {
	if p.PaymentAccepted || !p.WaitingForPayment {
		return shared.NewDomainError("INVALID_STATE", "Payment has already been accepted")
	}
	day := shared.DateOf(today)
	p.Amount = &amount
	p.ChargeReference = chargeReference
	p.WaitingForPayment = false
	p.PaymentAccepted = true
	p.PaymentDate = &day
	p.UpdatedAt = time.Now()
	return nil
}
