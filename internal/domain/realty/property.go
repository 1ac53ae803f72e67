package realty

import (
	"time"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Property represents a rentable unit. Its status moves between
// AVAILABLE, RESERVED and RENTED under control of the lease engine;
// UNAVAILABLE is an administrative state set by the owner.
type Property struct {
	shared.BaseAggregateRoot
	PropertyType     PropertyType   `gorm:"type:varchar(20);not null"`
	Status           PropertyStatus `gorm:"type:varchar(20);not null"`
	ShortDescription string         `gorm:"size:100;not null"`
	Description      string         `gorm:"size:500"`
	PropertyValue    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	SquareMeter      decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	RoomsAmount      *int
	YearBuilt        *int
	OwnerID          *uuid.UUID `gorm:"type:uuid;index"`
}

// NewProperty creates a new property in AVAILABLE status without an owner
func NewProperty(propertyType PropertyType, shortDescription string, value, squareMeter decimal.Decimal) (*Property, error) {
	if !propertyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Incorrect property type")
	}
	if shortDescription == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Short description cannot be empty")
	}
	if value.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Property value cannot be negative")
	}
	if squareMeter.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Square meter must be positive")
	}

	return &Property{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PropertyType:      propertyType,
		Status:            PropertyStatusAvailable,
		ShortDescription:  shortDescription,
		PropertyValue:     value,
		SquareMeter:       squareMeter,
	}, nil
}

// HasOwner reports whether an owner is assigned
func (p *Property) HasOwner() bool {
	return p.OwnerID != nil && *p.OwnerID != uuid.Nil
}

// AssignOwner sets the owning user
func (p *Property) AssignOwner(ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Owner ID cannot be empty")
	}
	p.OwnerID = &ownerID
	p.UpdatedAt = time.Now()
	return nil
}

// Reserve marks the property reserved for a newly created lease
func (p *Property) Reserve() error {
	if p.Status != PropertyStatusAvailable {
		return shared.NewDomainError("INVALID_STATE", "Only an available property can be reserved")
	}
	p.Status = PropertyStatusReserved
	p.UpdatedAt = time.Now()
	return nil
}

// MarkRented marks the property occupied by an active lease
func (p *Property) MarkRented() {
	p.Status = PropertyStatusRented
	p.UpdatedAt = time.Now()
}

// Release returns the property to the rental market after its lease
// expired without an accepted renewal
func (p *Property) Release() {
	p.Status = PropertyStatusAvailable
	p.UpdatedAt = time.Now()
}

// SetStatus applies an administrative status change. RESERVED and RENTED
// are driven by the lease engine and cannot be set by hand.
func (p *Property) SetStatus(status PropertyStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Incorrect property status")
	}
	if status.Occupied() {
		return shared.NewDomainError("INVALID_STATE", "Reserved and rented statuses are managed by the lease engine")
	}
	if p.Status.Occupied() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change status of a property with an active lease")
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	return nil
}
