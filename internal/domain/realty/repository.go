package realty

import (
	"context"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/shared"
)

// PropertyRepository defines the interface for property persistence
type PropertyRepository interface {
	// FindByID finds a property by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)

	// FindAll finds properties with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Property, error)

	// FindByOwner finds properties owned by a user
	FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Property, error)

	// FindByStatus finds properties in a given status
	FindByStatus(ctx context.Context, status PropertyStatus, filter shared.Filter) ([]Property, error)

	// Save creates or updates a property
	Save(ctx context.Context, property *Property) error

	// Count counts properties matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// AddressRepository defines the interface for address persistence
type AddressRepository interface {
	// FindByID finds an address by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Address, error)

	// FindByProperty finds the address attached to a property
	FindByProperty(ctx context.Context, propertyID uuid.UUID) (*Address, error)

	// Save creates or updates an address
	Save(ctx context.Context, address *Address) error

	// Delete removes an address
	Delete(ctx context.Context, id uuid.UUID) error
}
