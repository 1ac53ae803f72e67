package directory

import (
	"time"

	"github.com/propstack/backend/internal/domain/shared"
)

// Company groups user accounts under a single business entity
type Company struct {
	shared.BaseAggregateRoot
	CompanyName    string `gorm:"not null"`
	FoundationYear int    `gorm:"not null"`
	PhoneNumber    string
}

// NewCompany creates a new company
func NewCompany(name string, foundationYear int, phoneNumber string) (*Company, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company name cannot be empty")
	}
	if foundationYear <= 0 || foundationYear > time.Now().Year() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Foundation year is out of range")
	}

	return &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CompanyName:       name,
		FoundationYear:    foundationYear,
		PhoneNumber:       phoneNumber,
	}, nil
}

// Rename changes the company name
func (c *Company) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Company name cannot be empty")
	}
	c.CompanyName = name
	c.UpdatedAt = time.Now()
	return nil
}
