package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/realty"
	"github.com/propstack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAddressRepository implements AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByID finds an address by its ID
func (r *GormAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*realty.Address, error) {
	var address realty.Address
	if err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &address, nil
}

// FindByProperty finds the address attached to a property
func (r *GormAddressRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID) (*realty.Address, error) {
	var address realty.Address
	if err := r.db.WithContext(ctx).First(&address, "property_id = ?", propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &address, nil
}

// Save creates or updates an address
func (r *GormAddressRepository) Save(ctx context.Context, address *realty.Address) error {
	return r.db.WithContext(ctx).Save(address).Error
}

// Delete removes an address
func (r *GormAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&realty.Address{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAddressRepository implements AddressRepository
var _ realty.AddressRepository = (*GormAddressRepository)(nil)
