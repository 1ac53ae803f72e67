package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/directory"
	"github.com/propstack/backend/internal/domain/leasing"
	"github.com/propstack/backend/internal/domain/realty"
	"github.com/propstack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LeaseService drives the lease lifecycle: creation, updates, renewal
// intent, and the nightly expiration/activation sweeps. Property status
// transitions (AVAILABLE/RESERVED/RENTED) happen only through here.
type LeaseService struct {
	leaseRepo    leasing.LeaseRepository
	propertyRepo realty.PropertyRepository
	userRepo     directory.UserRepository
	clock        shared.Clock
	logger       *zap.Logger
}

// NewLeaseService creates a new LeaseService
func NewLeaseService(
	leaseRepo leasing.LeaseRepository,
	propertyRepo realty.PropertyRepository,
	userRepo directory.UserRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *LeaseService {
	return &LeaseService{
		leaseRepo:    leaseRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		clock:        clock,
		logger:       logger,
	}
}

// Create validates the lease preconditions in order, persists the lease
// and reserves the property in one atomic unit of work.
func (s *LeaseService) Create(ctx context.Context, req CreateLeaseRequest) (*LeaseResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, req.PropertyID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("NOT_FOUND", "Property does not exist")
		}
		return nil, err
	}

	if !property.HasOwner() {
		return nil, shared.NewDomainError("INVALID_STATE", "Property without an assigned owner cannot be leased")
	}

	if property.Status != realty.PropertyStatusAvailable {
		return nil, shared.NewDomainError("INVALID_STATE", "Property is not available for rent")
	}

	owner, err := s.userRepo.FindByID(ctx, req.OwnerID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("NOT_FOUND", "Lease owner does not exist")
		}
		return nil, err
	}
	if !owner.IsActive {
		return nil, shared.NewDomainError("INVALID_INPUT", "Inactive user cannot be assigned as a lease owner")
	}
	if *property.OwnerID != req.OwnerID {
		return nil, shared.NewDomainError("INVALID_INPUT", "User cannot lease a property they don't own")
	}

	tenant, err := s.userRepo.FindByID(ctx, req.TenantID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("NOT_FOUND", "Tenant does not exist")
		}
		return nil, err
	}
	if *property.OwnerID == req.TenantID {
		return nil, shared.NewDomainError("INVALID_INPUT", "Users cannot rent their property for themselves")
	}
	if !tenant.IsActive {
		return nil, shared.NewDomainError("INVALID_INPUT", "Inactive user cannot be assigned as a tenant")
	}

	overlapping, err := s.leaseRepo.ExistsActiveOverlapping(ctx, req.PropertyID, shared.DateOf(req.StartDate))
	if err != nil {
		return nil, err
	}
	if overlapping {
		return nil, shared.NewDomainError("CONFLICT", "Property already has an active lease")
	}

	deposit := decimal.Zero
	if req.InitialDepositAmount != nil {
		deposit = *req.InitialDepositAmount
	}

	// date-range and billing-period validation happen inside the aggregate
	billingPeriod := leasing.BillingPeriod(req.BillingPeriod)
	lease, err := leasing.NewLease(leasing.NewLeaseParams{
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		RentAmount:           req.RentAmount,
		InitialDepositAmount: deposit,
		BillingPeriod:        billingPeriod,
		PaymentBankAccount:   req.PaymentBankAccount,
		OwnerID:              req.OwnerID,
		TenantID:             req.TenantID,
		PropertyID:           req.PropertyID,
	})
	if err != nil {
		return nil, err
	}

	if err := property.Reserve(); err != nil {
		return nil, err
	}

	if err := s.leaseRepo.CreateWithProperty(ctx, lease, property); err != nil {
		return nil, err
	}

	s.logger.Info("Lease created",
		zap.String("lease_id", lease.ID.String()),
		zap.String("property_id", property.ID.String()),
		zap.String("tenant_id", tenant.ID.String()),
	)

	response := ToLeaseResponse(lease)
	return &response, nil
}

// GetByID retrieves a lease by ID
func (s *LeaseService) GetByID(ctx context.Context, id uuid.UUID) (*LeaseResponse, error) {
	lease, err := s.leaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToLeaseResponse(lease)
	return &response, nil
}

// List retrieves leases with filtering and pagination
func (s *LeaseService) List(ctx context.Context, filter ListLeasesFilter) ([]LeaseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.RenewalAccepted {
		domainFilter.Filters["renewal_accepted"] = true
	}
	if filter.Expired {
		domainFilter.Filters["lease_expired"] = true
	}
	if filter.Active {
		domainFilter.Filters["lease_expired"] = false
	}
	if filter.OwnerID != nil {
		domainFilter.Filters["owner_id"] = *filter.OwnerID
	}
	if filter.TenantID != nil {
		domainFilter.Filters["tenant_id"] = *filter.TenantID
	}

	leases, err := s.leaseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.leaseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToLeaseResponses(leases), total, nil
}

// Update patches the given lease fields. Expired leases reject every
// modification.
func (s *LeaseService) Update(ctx context.Context, id uuid.UUID, req UpdateLeaseRequest) (*LeaseResponse, error) {
	lease, err := s.leaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if lease.LeaseExpired {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot modify an expired lease")
	}

	if req.LeaseExpirationDate != nil {
		if err := lease.ChangeExpirationDate(*req.LeaseExpirationDate, s.clock.Today()); err != nil {
			return nil, err
		}
	}
	if req.RentAmount != nil {
		if err := lease.UpdateRentAmount(*req.RentAmount); err != nil {
			return nil, err
		}
	}
	if req.InitialDepositAmount != nil {
		if err := lease.UpdateDepositAmount(*req.InitialDepositAmount); err != nil {
			return nil, err
		}
	}
	if req.PaymentBankAccount != nil {
		if err := lease.UpdateBankAccount(*req.PaymentBankAccount); err != nil {
			return nil, err
		}
	}

	if err := s.leaseRepo.SaveWithLock(ctx, lease); err != nil {
		return nil, err
	}

	response := ToLeaseResponse(lease)
	return &response, nil
}

// AcceptRenewal records the tenant's intent to renew the lease
func (s *LeaseService) AcceptRenewal(ctx context.Context, id uuid.UUID) error {
	return s.manageRenewalStatus(ctx, id, true)
}

// DiscardRenewal withdraws the tenant's renewal intent
func (s *LeaseService) DiscardRenewal(ctx context.Context, id uuid.UUID) error {
	return s.manageRenewalStatus(ctx, id, false)
}

// manageRenewalStatus toggles the renewal flag. Repeating the same
// transition is an error, not a no-op.
func (s *LeaseService) manageRenewalStatus(ctx context.Context, id uuid.UUID, accept bool) error {
	lease, err := s.leaseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if accept {
		err = lease.AcceptRenewal()
	} else {
		err = lease.DiscardRenewal()
	}
	if err != nil {
		return err
	}

	return s.leaseRepo.SaveWithLock(ctx, lease)
}

// ExpireAndRenewLeases closes every lease whose term has ended. Leases
// with an accepted renewal get a successor starting tomorrow and keep the
// property RENTED; the rest release the property back to AVAILABLE. Each
// lease commits in its own transaction so one failure cannot block the
// batch.
func (s *LeaseService) ExpireAndRenewLeases(ctx context.Context) (SweepResult, error) {
	today := s.clock.Today()

	leases, err := s.leaseRepo.FindExpiredBefore(ctx, today)
	if err != nil {
		return SweepResult{}, err
	}

	var result SweepResult
	for i := range leases {
		lease := &leases[i]
		renewed, err := s.expireLease(ctx, lease, today)
		if err != nil {
			result.Failed++
			s.logger.Error("Failed to expire lease",
				zap.String("lease_id", lease.ID.String()),
				zap.Error(err),
			)
			continue
		}
		result.Processed++
		if renewed {
			result.Renewed++
		}
	}

	if result.Processed > 0 || result.Failed > 0 {
		s.logger.Info("Lease expiration sweep finished",
			zap.Int("processed", result.Processed),
			zap.Int("renewed", result.Renewed),
			zap.Int("failed", result.Failed),
		)
	}
	return result, nil
}

// expireLease applies the expiration transition for a single lease
func (s *LeaseService) expireLease(ctx context.Context, lease *leasing.Lease, today time.Time) (bool, error) {
	property, err := s.propertyRepo.FindByID(ctx, lease.PropertyID)
	if err != nil {
		return false, err
	}

	if err := lease.MarkExpired(); err != nil {
		return false, err
	}

	var successor *leasing.Lease
	if lease.RenewalAccepted {
		successor, err = lease.MakeSuccessor(today)
		if err != nil {
			return false, err
		}
		property.MarkRented()
	} else {
		property.Release()
	}

	if err := s.leaseRepo.ExpireWithProperty(ctx, lease, property, successor); err != nil {
		return false, err
	}
	return successor != nil, nil
}

// ActivateLeasesStartingToday flips properties to RENTED for every
// non-expired lease whose start date is today (the RESERVED to RENTED
// transition). Failures are isolated per lease.
func (s *LeaseService) ActivateLeasesStartingToday(ctx context.Context) (SweepResult, error) {
	today := s.clock.Today()

	leases, err := s.leaseRepo.FindStartingOn(ctx, today)
	if err != nil {
		return SweepResult{}, err
	}

	var result SweepResult
	for i := range leases {
		lease := &leases[i]
		property, err := s.propertyRepo.FindByID(ctx, lease.PropertyID)
		if err != nil {
			result.Failed++
			s.logger.Error("Failed to activate lease",
				zap.String("lease_id", lease.ID.String()),
				zap.Error(err),
			)
			continue
		}
		property.MarkRented()
		if err := s.propertyRepo.Save(ctx, property); err != nil {
			result.Failed++
			s.logger.Error("Failed to persist activated property",
				zap.String("property_id", property.ID.String()),
				zap.Error(err),
			)
			continue
		}
		result.Processed++
	}

	if result.Processed > 0 || result.Failed > 0 {
		s.logger.Info("Lease activation sweep finished",
			zap.Int("processed", result.Processed),
			zap.Int("failed", result.Failed),
		)
	}
	return result, nil
}
