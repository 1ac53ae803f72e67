package realty

import (
	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/shared"
)

// Address is a postal address attached to a property or a company
type Address struct {
	shared.BaseEntity
	Country         string `gorm:"size:100;not null"`
	State           string `gorm:"size:50"`
	City            string `gorm:"size:100;not null"`
	PostalCode      string `gorm:"size:30;not null"`
	Street          string `gorm:"size:100"`
	HouseNumber     string `gorm:"size:15;not null"`
	ApartmentNumber string `gorm:"size:10"`
	PropertyID      *uuid.UUID `gorm:"type:uuid;index"`
	CompanyID       *uuid.UUID `gorm:"type:uuid;index"`
}

// NewAddress creates a new address
func NewAddress(country, city, postalCode, houseNumber string) (*Address, error) {
	if country == "" || city == "" || postalCode == "" || houseNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Country, city, postal code and house number are required")
	}
	return &Address{
		BaseEntity:  shared.NewBaseEntity(),
		Country:     country,
		City:        city,
		PostalCode:  postalCode,
		HouseNumber: houseNumber,
	}, nil
}
