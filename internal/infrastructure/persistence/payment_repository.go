package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/leasing"
	"github.com/propstack/backend/internal/domain/payments"
	"github.com/propstack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var paymentSortable = map[string]bool{
	"created_at":   true,
	"payment_date": true,
	"amount":       true,
}

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payments.Payment, error) {
	var payment payments.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindAll finds payments matching the filter
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payments.Payment, error) {
	var items []payments.Payment
	query := r.applyFilter(r.db.WithContext(ctx).Model(&payments.Payment{}), filter)
	query = applyPagination(query, filter, paymentSortable, "created_at DESC")

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByTenant finds payments for a tenant
func (r *GormPaymentRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]payments.Payment, error) {
	var items []payments.Payment
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&payments.Payment{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	query = applyPagination(query, filter, paymentSortable, "created_at DESC")

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByLease finds payments for a lease
func (r *GormPaymentRepository) FindByLease(ctx context.Context, leaseID uuid.UUID, filter shared.Filter) ([]payments.Payment, error) {
	var items []payments.Payment
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&payments.Payment{}).Where("lease_id = ?", leaseID),
		filter,
	)
	query = applyPagination(query, filter, paymentSortable, "created_at DESC")

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *payments.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// SaveWithLock saves with optimistic locking, guarding against two
// concurrent fulfillments of the same payment
func (r *GormPaymentRepository) SaveWithLock(ctx context.Context, payment *payments.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&payments.Payment{}).
			Where("id = ?", payment.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != payment.Version {
			return shared.NewDomainError("CONFLICT", "The payment has been modified by another transaction")
		}

		payment.Version++
		payment.UpdatedAt = time.Now()

		result := tx.Model(&payments.Payment{}).
			Where("id = ? AND version = ?", payment.ID, currentVersion).
			Updates(map[string]interface{}{
				"amount":              payment.Amount,
				"payment_date":        payment.PaymentDate,
				"waiting_for_payment": payment.WaitingForPayment,
				"payment_accepted":    payment.PaymentAccepted,
				"checkout_id":         payment.CheckoutID,
				"checkout_url":        payment.CheckoutURL,
				"charge_reference":    payment.ChargeReference,
				"version":             payment.Version,
				"updated_at":          payment.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONFLICT", "The payment has been modified by another transaction")
		}
		return nil
	})
}

// CreateWithLease inserts the payment and persists the lease's advanced
// next payment date in one transaction
func (r *GormPaymentRepository) CreateWithLease(ctx context.Context, payment *payments.Payment, lease *leasing.Lease) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		return saveLeaseWithLock(tx, lease)
	})
}

// Count counts payments matching the filter
func (r *GormPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&payments.Payment{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "waiting_for_payment":
			query = query.Where("waiting_for_payment = ?", value)
		case "payment_accepted":
			query = query.Where("payment_accepted = ?", value)
		case "tenant_id":
			query = query.Where("tenant_id = ?", value)
		case "lease_id":
			query = query.Where("lease_id = ?", value)
		}
	}
	return query
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ payments.PaymentRepository = (*GormPaymentRepository)(nil)
