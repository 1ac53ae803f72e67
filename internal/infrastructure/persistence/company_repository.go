package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/directory"
	"github.com/propstack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var companySortable = map[string]bool{
	"created_at":   true,
	"company_name": true,
}

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by its ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Company, error) {
	var company directory.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindAll finds companies matching the filter
func (r *GormCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]directory.Company, error) {
	var companies []directory.Company
	query := r.db.WithContext(ctx).Model(&directory.Company{})
	if filter.Search != "" {
		query = query.Where("company_name ILIKE ?", "%"+filter.Search+"%")
	}
	query = applyPagination(query, filter, companySortable, "created_at DESC")

	if err := query.Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, company *directory.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

// Count counts companies matching the filter
func (r *GormCompanyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&directory.Company{})
	if filter.Search != "" {
		query = query.Where("company_name ILIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormCompanyRepository implements CompanyRepository
var _ directory.CompanyRepository = (*GormCompanyRepository)(nil)
