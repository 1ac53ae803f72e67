package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Lease represents a rental agreement between a property owner and a
// tenant. It carries its own owner reference to decouple historical
// ownership from the property's current owner.
//
// A lease with a nil expiration date is open-ended: it is never picked
// up by the expiration sweep and never blocks future leases on the
// property through the overlap check.
type Lease struct {
	shared.BaseAggregateRoot
	StartDate            time.Time  `gorm:"type:date;not null"`
	EndDate              *time.Time `gorm:"type:date"`
	RentAmount           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	InitialDepositAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	BillingPeriod        BillingPeriod   `gorm:"type:varchar(10);not null"`
	PaymentBankAccount   string          `gorm:"size:75"`
	NextPaymentDate      time.Time       `gorm:"type:date;not null"`
	LeaseExpirationDate  *time.Time      `gorm:"type:date"`
	RenewalAccepted      bool            `gorm:"not null;default:false"`
	LeaseExpired         bool            `gorm:"not null;default:false"`
	OwnerID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	PropertyID           uuid.UUID       `gorm:"type:uuid;not null;index"`
}

// NewLeaseParams carries the input for creating a lease
type NewLeaseParams struct {
	StartDate            time.Time
	EndDate              *time.Time
	RentAmount           decimal.Decimal
	InitialDepositAmount decimal.Decimal
	BillingPeriod        BillingPeriod
	PaymentBankAccount   string
	OwnerID              uuid.UUID
	TenantID             uuid.UUID
	PropertyID           uuid.UUID
}

// NewLease creates a lease with derived defaults: the first payment falls
// one billing period after the start date (clipped to the end date), and
// the expiration date defaults to the end date.
func NewLease(p NewLeaseParams) (*Lease, error) {
	if p.OwnerID == uuid.Nil || p.TenantID == uuid.Nil || p.PropertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Owner, tenant and property references are required")
	}
	if p.OwnerID == p.TenantID {
		return nil, shared.NewDomainError("INVALID_INPUT", "Users cannot rent their property for themselves")
	}
	if p.StartDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Start date is required")
	}
	startDate := shared.DateOf(p.StartDate)
	var endDate *time.Time
	if p.EndDate != nil {
		d := shared.DateOf(*p.EndDate)
		if startDate.After(d) {
			return nil, shared.NewDomainError("INVALID_INPUT", "Incorrect lease dates: end date cannot precede start date")
		}
		endDate = &d
	}

	if !p.BillingPeriod.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Incorrect billing period value")
	}
	if p.RentAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Rent amount cannot be negative")
	}
	if p.InitialDepositAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Initial deposit amount cannot be negative")
	}

	nextPayment := p.BillingPeriod.NextPaymentDate(startDate)
	if endDate != nil && nextPayment.After(*endDate) {
		nextPayment = *endDate
	}

	var expiration *time.Time
	if endDate != nil {
		d := *endDate
		expiration = &d
	}

	return &Lease{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		StartDate:            startDate,
		EndDate:              endDate,
		RentAmount:           p.RentAmount,
		InitialDepositAmount: p.InitialDepositAmount,
		BillingPeriod:        p.BillingPeriod,
		PaymentBankAccount:   p.PaymentBankAccount,
		NextPaymentDate:      nextPayment,
		LeaseExpirationDate:  expiration,
		OwnerID:              p.OwnerID,
		TenantID:             p.TenantID,
		PropertyID:           p.PropertyID,
	}, nil
}

// IsOpenEnded reports whether the lease has no expiration date
func (l *Lease) IsOpenEnded() bool {
	return l.LeaseExpirationDate == nil
}

// TermExpiredOn reports whether the lease term has ended as of the given date
func (l *Lease) TermExpiredOn(today time.Time) bool {
	if l.LeaseExpirationDate == nil {
		return false
	}
	return l.LeaseExpirationDate.Before(shared.DateOf(today))
}

// AcceptRenewal records the tenant's intent to continue the lease.
// Repeating an acceptance is an error, not a no-op.
func (l *Lease) AcceptRenewal() error {
	if l.LeaseExpired {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify an expired lease")
	}
	if l.RenewalAccepted {
		return shared.NewDomainError("INVALID_STATE", "Tenant has already accepted the lease renewal")
	}
	l.RenewalAccepted = true
	l.UpdatedAt = time.Now()
	return nil
}

// DiscardRenewal withdraws the tenant's renewal intent.
// Repeating a discard is an error, not a no-op.
func (l *Lease) DiscardRenewal() error {
	if l.LeaseExpired {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify an expired lease")
	}
	if !l.RenewalAccepted {
		return shared.NewDomainError("INVALID_STATE", "Tenant has already discarded the lease renewal")
	}
	l.RenewalAccepted = false
	l.UpdatedAt = time.Now()
	return nil
}

// ChangeExpirationDate moves the lease expiration date. The new date must
// not precede the lease start date nor the current date. A non-nil end
// date is synchronized to the new expiration date.
func (l *Lease) ChangeExpirationDate(newDate, today time.Time) error {
	if l.LeaseExpired {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify an expired lease")
	}
	d := shared.DateOf(newDate)
	if d.Before(l.StartDate) || d.Before(shared.DateOf(today)) {
		return shared.NewDomainError("INVALID_INPUT",
			"Expiration date cannot be smaller than the lease start date or the current date")
	}
	if l.EndDate != nil {
		end := d
		l.EndDate = &end
	}
	exp := d
	l.LeaseExpirationDate = &exp
	l.UpdatedAt = time.Now()
	return nil
}

// UpdateRentAmount changes the rent charged each billing period
func (l *Lease) UpdateRentAmount(amount decimal.Decimal) error {
	if l.LeaseExpired {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify an expired lease")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Rent amount cannot be negative")
	}
	l.RentAmount = amount
	l.UpdatedAt = time.Now()
	return nil
}

// UpdateDepositAmount changes the initial deposit
func (l *Lease) UpdateDepositAmount(amount decimal.Decimal) error {
	if l.LeaseExpired {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify an expired lease")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Initial deposit amount cannot be negative")
	}
	l.InitialDepositAmount = amount
	l.UpdatedAt = time.Now()
	return nil
}

// UpdateBankAccount changes the account rent is collected from
func (l *Lease) UpdateBankAccount(account string) error {
	if l.LeaseExpired {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify an expired lease")
	}
	l.PaymentBankAccount = account
	l.UpdatedAt = time.Now()
	return nil
}

// MarkExpired closes the lease. Once expired only the renewal/expiration
// transition itself may touch the lease.
func (l *Lease) MarkExpired() error {
	if l.LeaseExpired {
		return shared.NewDomainError("INVALID_STATE", "Lease is already expired")
	}
	l.LeaseExpired = true
	l.UpdatedAt = time.Now()
	return nil
}

// MakeSuccessor builds the renewal lease: it starts tomorrow and runs for
// the same term length as the expired lease (expiration minus start,
// inclusive). Rent, deposit, billing period, bank account and all party
// references carry over.
func (l *Lease) MakeSuccessor(today time.Time) (*Lease, error) {
	if !l.RenewalAccepted {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot renew a lease without an accepted renewal")
	}
	if l.LeaseExpirationDate == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot renew an open-ended lease")
	}

	day := shared.DateOf(today)
	termDays := int(l.LeaseExpirationDate.Sub(l.StartDate).Hours()/24) + 1
	start := day.AddDate(0, 0, 1)
	end := day.AddDate(0, 0, termDays)

	return NewLease(NewLeaseParams{
		StartDate:            start,
		EndDate:              &end,
		RentAmount:           l.RentAmount,
		InitialDepositAmount: l.InitialDepositAmount,
		BillingPeriod:        l.BillingPeriod,
		PaymentBankAccount:   l.PaymentBankAccount,
		OwnerID:              l.OwnerID,
		TenantID:             l.TenantID,
		PropertyID:           l.PropertyID,
	})
}

// AdvanceNextPaymentDate moves the next payment date one billing period
// forward, never past the lease expiration date.
func (l *Lease) AdvanceNextPaymentDate() time.Time {
	next := l.BillingPeriod.NextPaymentDate(l.NextPaymentDate)
	if l.LeaseExpirationDate != nil && next.After(*l.LeaseExpirationDate) {
		next = *l.LeaseExpirationDate
	}
	l.NextPaymentDate = next
	l.UpdatedAt = time.Now()
	return next
}
