package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/directory"
	"github.com/propstack/backend/internal/domain/leasing"
	"github.com/propstack/backend/internal/domain/notification"
	"github.com/propstack/backend/internal/domain/payments"
	"github.com/propstack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PaymentService issues rent payment obligations on the billing cycle and
// settles them when the payment processor reports a completed checkout.
// Notifications are best effort: a failed email never rolls back a payment.
type PaymentService struct {
	paymentRepo payments.PaymentRepository
	leaseRepo   leasing.LeaseRepository
	userRepo    directory.UserRepository
	processor   payments.Processor
	sender      notification.Sender
	clock       shared.Clock
	currency    string
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo payments.PaymentRepository,
	leaseRepo leasing.LeaseRepository,
	userRepo directory.UserRepository,
	processor payments.Processor,
	sender notification.Sender,
	clock shared.Clock,
	currency string,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		leaseRepo:   leaseRepo,
		userRepo:    userRepo,
		processor:   processor,
		sender:      sender,
		clock:       clock,
		currency:    currency,
		logger:      logger,
	}
}

// GetByID retrieves a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(payment)
	return &response, nil
}

// List retrieves payments with filtering and pagination
func (s *PaymentService) List(ctx context.Context, filter ListPaymentsFilter) ([]PaymentResponse, int64, error) {
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
	if filter.Accepted {
		domainFilter.Filters["payment_accepted"] = true
	}
	if filter.Waiting {
		domainFilter.Filters["waiting_for_payment"] = true
	}
	if filter.TenantID != nil {
		domainFilter.Filters["tenant_id"] = *filter.TenantID
	}
	if filter.LeaseID != nil {
		domainFilter.Filters["lease_id"] = *filter.LeaseID
	}

	items, err := s.paymentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.paymentRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPaymentResponses(items), total, nil
}

// IssueDuePayments creates one payment obligation for every non-expired
// lease whose next payment date is today, opens a checkout session for it
// and advances the lease's next payment date. Each lease commits in its
// own transaction so one failure cannot block the batch.
func (s *PaymentService) IssueDuePayments(ctx context.Context) (BillingRunResult, error) {
	today := s.clock.Today()

	leases, err := s.leaseRepo.FindDueForPayment(ctx, today)
	if err != nil {
		return BillingRunResult{}, err
	}

	var result BillingRunResult
	for i := range leases {
		lease := &leases[i]
		payment, err := s.issueForLease(ctx, lease)
		if err != nil {
			result.Failed++
			s.logger.Error("Failed to issue payment obligation",
				zap.String("lease_id", lease.ID.String()),
				zap.Error(err),
			)
			continue
		}
		result.Issued++
		s.notifyPaymentDue(ctx, lease, payment)
	}

	if result.Issued > 0 || result.Failed > 0 {
		s.logger.Info("Billing sweep finished",
			zap.Int("issued", result.Issued),
			zap.Int("failed", result.Failed),
		)
	}
	return result, nil
}

// IssueForLease creates a payment obligation for one lease on demand,
// outside the scheduled billing sweep.
func (s *PaymentService) IssueForLease(ctx context.Context, leaseID uuid.UUID) (*PaymentResponse, error) {
	lease, err := s.leaseRepo.FindByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if lease.LeaseExpired {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot issue a payment for an expired lease")
	}

	payment, err := s.issueForLease(ctx, lease)
	if err != nil {
		return nil, err
	}
	s.notifyPaymentDue(ctx, lease, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// issueForLease builds the obligation, opens the checkout and persists the
// payment together with the lease's advanced next payment date.
func (s *PaymentService) issueForLease(ctx context.Context, lease *leasing.Lease) (*payments.Payment, error) {
	payment, err := payments.NewPayment(lease.ID, lease.TenantID, lease.NextPaymentDate)
	if err != nil {
		return nil, err
	}

	session, err := s.processor.CreateCheckout(ctx, payments.CheckoutRequest{
		Amount:   lease.RentAmount,
		Currency: s.currency,
		Metadata: map[string]string{
			"payment_id": payment.ID.String(),
			"lease_id":   lease.ID.String(),
			"tenant_id":  lease.TenantID.String(),
		},
	})
	if err != nil {
		return nil, err
	}
	if err := payment.AttachCheckout(session.CheckoutID, session.CheckoutURL); err != nil {
		return nil, err
	}

	lease.AdvanceNextPaymentDate()

	if err := s.paymentRepo.CreateWithLease(ctx, payment, lease); err != nil {
		return nil, err
	}

	s.logger.Info("Payment obligation issued",
		zap.String("payment_id", payment.ID.String()),
		zap.String("lease_id", lease.ID.String()),
		zap.Time("next_payment_date", lease.NextPaymentDate),
	)
	return payment, nil
}

// Fulfill settles the payment referenced by a completed-checkout event.
// Redelivered events fail on the aggregate's state guard, so a checkout is
// never settled twice.
func (s *PaymentService) Fulfill(ctx context.Context, event payments.CompletionEvent) (*PaymentResponse, error) {
	paymentID, err := uuid.Parse(event.PaymentID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Completion event carries an invalid payment reference")
	}

	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if err := payment.Fulfill(event.ChargedAmount, event.ChargeReference, s.clock.Today()); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SaveWithLock(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("Payment fulfilled",
		zap.String("payment_id", payment.ID.String()),
		zap.String("charge_reference", payment.ChargeReference),
	)
	s.notifyPaymentConfirmed(ctx, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

func (s *PaymentService) notifyPaymentDue(ctx context.Context, lease *leasing.Lease, payment *payments.Payment) {
	tenant, err := s.userRepo.FindByID(ctx, payment.TenantID)
	if err != nil {
		s.logger.Warn("Skipping payment due notification",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
		return
	}

	msg := notification.Message{
		Template:  notification.TemplatePaymentDue,
		Recipient: tenant.Email,
		Subject:   "Your rent payment is due",
		Context: map[string]string{
			"first_name":   tenant.FirstName,
			"amount":       lease.RentAmount.StringFixed(2),
			"checkout_url": payment.CheckoutURL,
		},
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Warn("Failed to send payment due notification",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *PaymentService) notifyPaymentConfirmed(ctx context.Context, payment *payments.Payment) {
	tenant, err := s.userRepo.FindByID(ctx, payment.TenantID)
	if err != nil {
		s.logger.Warn("Skipping payment confirmation notification",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
		return
	}

	amount := ""
	if payment.Amount != nil {
		amount = payment.Amount.StringFixed(2)
	}
	msg := notification.Message{
		Template:  notification.TemplatePaymentConfirmed,
		Recipient: tenant.Email,
		Subject:   "Your rent payment was received",
		Context: map[string]string{
			"first_name": tenant.FirstName,
			"amount":     amount,
		},
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Warn("Failed to send payment confirmation notification",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
	}
}
