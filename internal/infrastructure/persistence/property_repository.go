package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/realty"
	"github.com/propstack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var propertySortable = map[string]bool{
	"created_at":     true,
	"property_value": true,
	"square_meter":   true,
}

// GormPropertyRepository implements PropertyRepository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByID finds a property by its ID
func (r *GormPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*realty.Property, error) {
	var property realty.Property
	if err := r.db.WithContext(ctx).First(&property, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &property, nil
}

// FindAll finds properties matching the filter
func (r *GormPropertyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]realty.Property, error) {
	var properties []realty.Property
	query := r.applyFilter(r.db.WithContext(ctx).Model(&realty.Property{}), filter)
	query = applyPagination(query, filter, propertySortable, "created_at DESC")

	if err := query.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// FindByOwner finds properties owned by a user
func (r *GormPropertyRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]realty.Property, error) {
	var properties []realty.Property
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&realty.Property{}).Where("owner_id = ?", ownerID),
		filter,
	)
	query = applyPagination(query, filter, propertySortable, "created_at DESC")

	if err := query.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// FindByStatus finds properties in a given status
func (r *GormPropertyRepository) FindByStatus(ctx context.Context, status realty.PropertyStatus, filter shared.Filter) ([]realty.Property, error) {
	var properties []realty.Property
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&realty.Property{}).Where("status = ?", status),
		filter,
	)
	query = applyPagination(query, filter, propertySortable, "created_at DESC")

	if err := query.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// Save creates or updates a property
func (r *GormPropertyRepository) Save(ctx context.Context, property *realty.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

// Count counts properties matching the filter
func (r *GormPropertyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&realty.Property{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPropertyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("short_description ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "property_type":
			query = query.Where("property_type = ?", value)
		case "owner_id":
			query = query.Where("owner_id = ?", value)
		}
	}
	return query
}

// Ensure GormPropertyRepository implements PropertyRepository
var _ realty.PropertyRepository = (*GormPropertyRepository)(nil)
