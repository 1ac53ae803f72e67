package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/realty"
	"github.com/propstack/backend/internal/domain/shared"
)

// LeaseRepository defines the interface for lease persistence
type LeaseRepository interface {
	// FindByID finds a lease by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Lease, error)

	// FindAll finds leases with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Lease, error)

	// ExistsActiveOverlapping reports whether the property already has a
	// non-expired lease whose expiration date is on or after startDate.
	// Open-ended leases (nil expiration) are not considered overlapping.
	ExistsActiveOverlapping(ctx context.Context, propertyID uuid.UUID, startDate time.Time) (bool, error)

	// FindExpiredBefore finds non-expired leases whose expiration date
	// precedes the given date (candidates for the expiration sweep)
	FindExpiredBefore(ctx context.Context, date time.Time) ([]Lease, error)

	// FindStartingOn finds non-expired leases whose start date equals the
	// given date (candidates for the activation sweep)
	FindStartingOn(ctx context.Context, date time.Time) ([]Lease, error)

	// FindDueForPayment finds non-expired leases whose next payment date
	// equals the given date
	FindDueForPayment(ctx context.Context, date time.Time) ([]Lease, error)

	// Save creates or updates a lease
	Save(ctx context.Context, lease *Lease) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, lease *Lease) error

	// CreateWithProperty inserts the lease and persists the reserved
	// property in one atomic unit of work. Concurrent creations for the
	// same property are serialized so two leases can never both reserve it.
	CreateWithProperty(ctx context.Context, lease *Lease, property *realty.Property) error

	// ExpireWithProperty persists one lease's expiration transition: the
	// expired lease, the property's new status and, when a renewal was
	// accepted, the successor lease, all in one transaction.
	ExpireWithProperty(ctx context.Context, lease *Lease, property *realty.Property, successor *Lease) error

	// Count counts leases matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
