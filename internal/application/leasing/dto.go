package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/leasing"
	"github.com/shopspring/decimal"
)

// CreateLeaseRequest is the input for creating a lease
type CreateLeaseRequest struct {
	StartDate            time.Time        `json:"start_date" binding:"required"`
	EndDate              *time.Time       `json:"end_date"`
	RentAmount           decimal.Decimal  `json:"rent_amount" binding:"required"`
	InitialDepositAmount *decimal.Decimal `json:"initial_deposit_amount"`
	BillingPeriod        string           `json:"billing_period" binding:"required"`
	PaymentBankAccount   string           `json:"payment_bank_account" binding:"required"`
	OwnerID              uuid.UUID        `json:"owner_id" binding:"required"`
	TenantID             uuid.UUID        `json:"tenant_id" binding:"required"`
	PropertyID           uuid.UUID        `json:"property_id" binding:"required"`
}

// UpdateLeaseRequest carries the patchable lease fields. Nil fields are
// left untouched.
type UpdateLeaseRequest struct {
	RentAmount           *decimal.Decimal `json:"rent_amount"`
	InitialDepositAmount *decimal.Decimal `json:"initial_deposit_amount"`
	PaymentBankAccount   *string          `json:"payment_bank_account"`
	LeaseExpirationDate  *time.Time       `json:"lease_expiration_date"`
}

// ListLeasesFilter narrows lease listings
type ListLeasesFilter struct {
	RenewalAccepted bool
	Expired         bool
	Active          bool
	OwnerID         *uuid.UUID
	TenantID        *uuid.UUID
	Page            int
	PageSize        int
	OrderBy         string
	OrderDir        string
}

// LeaseBasicResponse is the projection exposed to non-staff callers
type LeaseBasicResponse struct {
	ID                 uuid.UUID       `json:"id"`
	StartDate          time.Time       `json:"start_date"`
	EndDate            *time.Time      `json:"end_date,omitempty"`
	RentAmount         decimal.Decimal `json:"rent_amount"`
	BillingPeriod      string          `json:"billing_period"`
	NextPaymentDate    time.Time       `json:"next_payment_date"`
	RenewalAccepted    bool            `json:"renewal_accepted"`
	PropertyID         uuid.UUID       `json:"property_id"`
}

// LeaseResponse is the detailed projection exposed to staff callers
type LeaseResponse struct {
	ID                   uuid.UUID       `json:"id"`
	StartDate            time.Time       `json:"start_date"`
	EndDate              *time.Time      `json:"end_date,omitempty"`
	RentAmount           decimal.Decimal `json:"rent_amount"`
	InitialDepositAmount decimal.Decimal `json:"initial_deposit_amount"`
	BillingPeriod        string          `json:"billing_period"`
	PaymentBankAccount   string          `json:"payment_bank_account"`
	NextPaymentDate      time.Time       `json:"next_payment_date"`
	LeaseExpirationDate  *time.Time      `json:"lease_expiration_date,omitempty"`
	RenewalAccepted      bool            `json:"renewal_accepted"`
	LeaseExpired         bool            `json:"lease_expired"`
	OwnerID              uuid.UUID       `json:"owner_id"`
	TenantID             uuid.UUID       `json:"tenant_id"`
	PropertyID           uuid.UUID       `json:"property_id"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// Basic reduces the detailed projection to the non-staff view
func (r LeaseResponse) Basic() LeaseBasicResponse {
	return LeaseBasicResponse{
		ID:              r.ID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		RentAmount:      r.RentAmount,
		BillingPeriod:   r.BillingPeriod,
		NextPaymentDate: r.NextPaymentDate,
		RenewalAccepted: r.RenewalAccepted,
		PropertyID:      r.PropertyID,
	}
}

// ToLeaseResponse maps a lease aggregate to its detailed projection
func ToLeaseResponse(lease *leasing.Lease) LeaseResponse {
	return LeaseResponse{
		ID:                   lease.ID,
		StartDate:            lease.StartDate,
		EndDate:              lease.EndDate,
		RentAmount:           lease.RentAmount,
		InitialDepositAmount: lease.InitialDepositAmount,
		BillingPeriod:        lease.BillingPeriod.String(),
		PaymentBankAccount:   lease.PaymentBankAccount,
		NextPaymentDate:      lease.NextPaymentDate,
		LeaseExpirationDate:  lease.LeaseExpirationDate,
		RenewalAccepted:      lease.RenewalAccepted,
		LeaseExpired:         lease.LeaseExpired,
		OwnerID:              lease.OwnerID,
		TenantID:             lease.TenantID,
		PropertyID:           lease.PropertyID,
		CreatedAt:            lease.CreatedAt,
		UpdatedAt:            lease.UpdatedAt,
	}
}

// ToLeaseResponses maps a slice of leases to detailed projections
func ToLeaseResponses(leases []leasing.Lease) []LeaseResponse {
	out := make([]LeaseResponse, len(leases))
	for i := range leases {
		out[i] = ToLeaseResponse(&leases[i])
	}
	return out
}

// SweepResult summarizes one run of a lease sweep
type SweepResult struct {
	Processed int
	Renewed   int
	Failed    int
}
