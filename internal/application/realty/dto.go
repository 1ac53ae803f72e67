package realty

import (
	"time"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/realty"
	"github.com/shopspring/decimal"
)

// CreatePropertyRequest is the input for creating a property
type CreatePropertyRequest struct {
	PropertyType     string          `json:"property_type" binding:"required"`
	ShortDescription string          `json:"short_description" binding:"required"`
	Description      string          `json:"description"`
	PropertyValue    decimal.Decimal `json:"property_value" binding:"required"`
	SquareMeter      decimal.Decimal `json:"square_meter" binding:"required"`
	RoomsAmount      *int            `json:"rooms_amount"`
	YearBuilt        *int            `json:"year_built"`
	OwnerID          *uuid.UUID      `json:"owner_id"`
	Address          *AddressRequest `json:"address"`
}

// UpdatePropertyRequest carries the patchable property fields
type UpdatePropertyRequest struct {
	ShortDescription *string          `json:"short_description"`
	Description      *string          `json:"description"`
	PropertyValue    *decimal.Decimal `json:"property_value"`
	RoomsAmount      *int             `json:"rooms_amount"`
	YearBuilt        *int             `json:"year_built"`
}

// AddressRequest is the input for attaching an address
type AddressRequest struct {
	Country         string `json:"country" binding:"required"`
	State           string `json:"state"`
	City            string `json:"city" binding:"required"`
	PostalCode      string `json:"postal_code" binding:"required"`
	Street          string `json:"street"`
	HouseNumber     string `json:"house_number" binding:"required"`
	ApartmentNumber string `json:"apartment_number"`
}

// ListPropertiesFilter narrows property listings
type ListPropertiesFilter struct {
	Status       string
	PropertyType string
	OwnerID      *uuid.UUID
	Page         int
	PageSize     int
	OrderBy      string
	OrderDir     string
}

// AddressResponse is the address projection returned by the API
type AddressResponse struct {
	ID              uuid.UUID `json:"id"`
	Country         string    `json:"country"`
	State           string    `json:"state,omitempty"`
	City            string    `json:"city"`
	PostalCode      string    `json:"postal_code"`
	Street          string    `json:"street,omitempty"`
	HouseNumber     string    `json:"house_number"`
	ApartmentNumber string    `json:"apartment_number,omitempty"`
}

// PropertyResponse is the property projection returned by the API
type PropertyResponse struct {
	ID               uuid.UUID        `json:"id"`
	PropertyType     string           `json:"property_type"`
	Status           string           `json:"status"`
	ShortDescription string           `json:"short_description"`
	Description      string           `json:"description,omitempty"`
	PropertyValue    decimal.Decimal  `json:"property_value"`
	SquareMeter      decimal.Decimal  `json:"square_meter"`
	RoomsAmount      *int             `json:"rooms_amount,omitempty"`
	YearBuilt        *int             `json:"year_built,omitempty"`
	OwnerID          *uuid.UUID       `json:"owner_id,omitempty"`
	Address          *AddressResponse `json:"address,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// ToAddressResponse maps an address entity to its projection
func ToAddressResponse(address *realty.Address) *AddressResponse {
	if address == nil {
		return nil
	}
	return &AddressResponse{
		ID:              address.ID,
		Country:         address.Country,
		State:           address.State,
		City:            address.City,
		PostalCode:      address.PostalCode,
		Street:          address.Street,
		HouseNumber:     address.HouseNumber,
		ApartmentNumber: address.ApartmentNumber,
	}
}

// ToPropertyResponse maps a property aggregate to its projection
func ToPropertyResponse(property *realty.Property, address *realty.Address) PropertyResponse {
	return PropertyResponse{
		ID:               property.ID,
		PropertyType:     property.PropertyType.String(),
		Status:           property.Status.String(),
		ShortDescription: property.ShortDescription,
		Description:      property.Description,
		PropertyValue:    property.PropertyValue,
		SquareMeter:      property.SquareMeter,
		RoomsAmount:      property.RoomsAmount,
		YearBuilt:        property.YearBuilt,
		OwnerID:          property.OwnerID,
		Address:          ToAddressResponse(address),
		CreatedAt:        property.CreatedAt,
		UpdatedAt:        property.UpdatedAt,
	}
}

// ToPropertyResponses maps a slice of properties to projections
func ToPropertyResponses(properties []realty.Property) []PropertyResponse {
	out := make([]PropertyResponse, len(properties))
	for i := range properties {
		out[i] = ToPropertyResponse(&properties[i], nil)
	}
	return out
}
