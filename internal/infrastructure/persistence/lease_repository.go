package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/leasing"
	"github.com/propstack/backend/internal/domain/realty"
	"github.com/propstack/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var leaseSortable = map[string]bool{
	"created_at":        true,
	"start_date":        true,
	"next_payment_date": true,
	"rent_amount":       true,
}

// GormLeaseRepository implements LeaseRepository using GORM
type GormLeaseRepository struct {
	db *gorm.DB
}

// NewGormLeaseRepository creates a new GormLeaseRepository
func NewGormLeaseRepository(db *gorm.DB) *GormLeaseRepository {
	return &GormLeaseRepository{db: db}
}

// FindByID finds a lease by its ID
func (r *GormLeaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Lease, error) {
	var lease leasing.Lease
	if err := r.db.WithContext(ctx).First(&lease, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lease, nil
}

// FindAll finds leases matching the filter
func (r *GormLeaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]leasing.Lease, error) {
	var leases []leasing.Lease
	query := r.applyFilter(r.db.WithContext(ctx).Model(&leasing.Lease{}), filter)
	query = applyPagination(query, filter, leaseSortable, "created_at DESC")

	if err := query.Find(&leases).Error; err != nil {
		return nil, err
	}
	return leases, nil
}

// ExistsActiveOverlapping reports whether the property already has a
// non-expired lease whose expiration date is on or after startDate.
// Open-ended leases carry a NULL expiration and never match.
func (r *GormLeaseRepository) ExistsActiveOverlapping(ctx context.Context, propertyID uuid.UUID, startDate time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&leasing.Lease{}).
		Where("property_id = ? AND lease_expired = ? AND lease_expiration_date >= ?",
			propertyID, false, shared.DateOf(startDate)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindExpiredBefore finds non-expired leases whose expiration date precedes the given date
func (r *GormLeaseRepository) FindExpiredBefore(ctx context.Context, date time.Time) ([]leasing.Lease, error) {
	var leases []leasing.Lease
	if err := r.db.WithContext(ctx).
		Where("lease_expired = ? AND lease_expiration_date < ?", false, shared.DateOf(date)).
		Find(&leases).Error; err != nil {
		return nil, err
	}
	return leases, nil
}

// FindStartingOn finds non-expired leases whose start date equals the given date
func (r *GormLeaseRepository) FindStartingOn(ctx context.Context, date time.Time) ([]leasing.Lease, error) {
	var leases []leasing.Lease
	if err := r.db.WithContext(ctx).
		Where("lease_expired = ? AND start_date = ?", false, shared.DateOf(date)).
		Find(&leases).Error; err != nil {
		return nil, err
	}
	return leases, nil
}

// FindDueForPayment finds non-expired leases whose next payment date equals the given date
func (r *GormLeaseRepository) FindDueForPayment(ctx context.Context, date time.Time) ([]leasing.Lease, error) {
	var leases []leasing.Lease
	if err := r.db.WithContext(ctx).
		Where("lease_expired = ? AND next_payment_date = ?", false, shared.DateOf(date)).
		Find(&leases).Error; err != nil {
		return nil, err
	}
	return leases, nil
}

// Save creates or updates a lease
func (r *GormLeaseRepository) Save(ctx context.Context, lease *leasing.Lease) error {
	return r.db.WithContext(ctx).Save(lease).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormLeaseRepository) SaveWithLock(ctx context.Context, lease *leasing.Lease) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveLeaseWithLock(tx, lease)
	})
}

// CreateWithProperty inserts the lease and persists the reserved property
// in one transaction. A row lock on the property serializes concurrent
// creations so two leases can never both reserve it.
func (r *GormLeaseRepository) CreateWithProperty(ctx context.Context, lease *leasing.Lease, property *realty.Property) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current realty.Property
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, "id = ?", property.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if current.Status != realty.PropertyStatusAvailable {
			return shared.NewDomainError("CONFLICT", "Property already has an active lease")
		}

		if err := tx.Create(lease).Error; err != nil {
			return err
		}
		return tx.Save(property).Error
	})
}

// ExpireWithProperty persists one lease's expiration transition: the
// expired lease, the property's new status and, when present, the
// successor lease, all in one transaction.
func (r *GormLeaseRepository) ExpireWithProperty(ctx context.Context, lease *leasing.Lease, property *realty.Property, successor *leasing.Lease) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveLeaseWithLock(tx, lease); err != nil {
			return err
		}
		if err := tx.Save(property).Error; err != nil {
			return err
		}
		if successor != nil {
			if err := tx.Create(successor).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count counts leases matching the filter
func (r *GormLeaseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&leasing.Lease{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormLeaseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "lease_expired":
			query = query.Where("lease_expired = ?", value)
		case "renewal_accepted":
			query = query.Where("renewal_accepted = ?", value)
		case "owner_id":
			query = query.Where("owner_id = ?", value)
		case "tenant_id":
			query = query.Where("tenant_id = ?", value)
		case "property_id":
			query = query.Where("property_id = ?", value)
		}
	}
	return query
}

// saveLeaseWithLock updates a lease guarded by its version column
func saveLeaseWithLock(tx *gorm.DB, lease *leasing.Lease) error {
	var currentVersion int
	if err := tx.Model(&leasing.Lease{}).
		Where("id = ?", lease.ID).
		Select("version").
		Scan(&currentVersion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}

	if currentVersion != lease.Version {
		return shared.NewDomainError("CONFLICT", "The lease has been modified by another transaction")
	}

	lease.Version++
	lease.UpdatedAt = time.Now()

	result := tx.Model(&leasing.Lease{}).
		Where("id = ? AND version = ?", lease.ID, currentVersion).
		Updates(map[string]interface{}{
			"rent_amount":            lease.RentAmount,
			"initial_deposit_amount": lease.InitialDepositAmount,
			"payment_bank_account":   lease.PaymentBankAccount,
			"end_date":               lease.EndDate,
			"next_payment_date":      lease.NextPaymentDate,
			"lease_expiration_date":  lease.LeaseExpirationDate,
			"renewal_accepted":       lease.RenewalAccepted,
			"lease_expired":          lease.LeaseExpired,
			"version":                lease.Version,
			"updated_at":             lease.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONFLICT", "The lease has been modified by another transaction")
	}
	return nil
}

// Ensure GormLeaseRepository implements LeaseRepository
var _ leasing.LeaseRepository = (*GormLeaseRepository)(nil)
