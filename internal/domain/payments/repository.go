package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/leasing"
	"github.com/propstack/backend/internal/domain/shared"
)

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindAll finds payments with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Payment, error)

	// FindByTenant finds payments for a tenant
	FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Payment, error)

	// FindByLease finds payments for a lease
	FindByLease(ctx context.Context, leaseID uuid.UUID, filter shared.Filter) ([]Payment, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *Payment) error

	// SaveWithLock saves with optimistic locking, guarding against two
	// concurrent fulfillments of the same payment
	SaveWithLock(ctx context.Context, payment *Payment) error

	// CreateWithLease inserts the payment and persists the lease's
	// advanced next payment date in one atomic unit of work
	CreateWithLease(ctx context.Context, payment *Payment, lease *leasing.Lease) error

	// Count counts payments matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
