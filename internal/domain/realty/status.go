package realty

import (
	"fmt"
	"strings"

	"github.com/propstack/backend/internal/domain/shared"
)

// PropertyStatus represents the availability state of a rentable unit
type PropertyStatus string

const (
	PropertyStatusAvailable   PropertyStatus = "AVAILABLE"
	PropertyStatusUnavailable PropertyStatus = "UNAVAILABLE"
	PropertyStatusReserved    PropertyStatus = "RESERVED"
	PropertyStatusRented      PropertyStatus = "RENTED"
)

// IsValid checks if the status is a valid PropertyStatus
func (s PropertyStatus) IsValid() bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusUnavailable, PropertyStatusReserved, PropertyStatusRented:
		return true
	}
	return false
}

// String returns the string representation of PropertyStatus
func (s PropertyStatus) String() string {
	return string(s)
}

// Occupied reports whether the status implies a live lease on the property
func (s PropertyStatus) Occupied() bool {
	return s == PropertyStatusReserved || s == PropertyStatusRented
}

// ParsePropertyStatus parses a string into a PropertyStatus.
// This is the single place property status strings are validated.
func ParsePropertyStatus(value string) (PropertyStatus, error) {
	s := PropertyStatus(strings.ToUpper(strings.TrimSpace(value)))
	if !s.IsValid() {
		return "", shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Incorrect property status %q, must be one of AVAILABLE, UNAVAILABLE, RESERVED, RENTED", value))
	}
	return s, nil
}

// PropertyType classifies the kind of rentable unit
type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "HOUSE"
	PropertyTypeApartment  PropertyType = "APARTMENT"
	PropertyTypeCommercial PropertyType = "COMMERCIAL"
	PropertyTypeLand       PropertyType = "LAND"
)

// IsValid checks if the type is a valid PropertyType
func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyTypeHouse, PropertyTypeApartment, PropertyTypeCommercial, PropertyTypeLand:
		return true
	}
	return false
}

// String returns the string representation of PropertyType
func (t PropertyType) String() string {
	return string(t)
}

// ParsePropertyType parses a string into a PropertyType
func ParsePropertyType(value string) (PropertyType, error) {
	t := PropertyType(strings.ToUpper(strings.TrimSpace(value)))
	if !t.IsValid() {
		return "", shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Incorrect property type %q, must be one of HOUSE, APARTMENT, COMMERCIAL, LAND", value))
	}
	return t, nil
}
