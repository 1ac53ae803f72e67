package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/directory"
	"github.com/propstack/backend/internal/domain/leasing"
	"github.com/propstack/backend/internal/domain/notification"
	"github.com/propstack/backend/internal/domain/payments"
	"github.com/propstack/backend/internal/domain/realty"
	"github.com/propstack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Mock Payment Repository
// =============================================================================

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payments.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payments.Payment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payments.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]payments.Payment, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payments.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByLease(ctx context.Context, leaseID uuid.UUID, filter shared.Filter) ([]payments.Payment, error) {
	args := m.Called(ctx, leaseID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payments.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *payments.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) SaveWithLock(ctx context.Context, payment *payments.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) CreateWithLease(ctx context.Context, payment *payments.Payment, lease *leasing.Lease) error {
	args := m.Called(ctx, payment, lease)
	return args.Error(0)
}

func (m *MockPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Mock Lease Repository
// =============================================================================

type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Lease, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]leasing.Lease, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) ExistsActiveOverlapping(ctx context.Context, propertyID uuid.UUID, startDate time.Time) (bool, error) {
	args := m.Called(ctx, propertyID, startDate)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeaseRepository) FindExpiredBefore(ctx context.Context, date time.Time) ([]leasing.Lease, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindStartingOn(ctx context.Context, date time.Time) ([]leasing.Lease, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindDueForPayment(ctx context.Context, date time.Time) ([]leasing.Lease, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) Save(ctx context.Context, lease *leasing.Lease) error {
	args := m.Called(ctx, lease)
	return args.Error(0)
}

func (m *MockLeaseRepository) SaveWithLock(ctx context.Context, lease *leasing.Lease) error {
	args := m.Called(ctx, lease)
	return args.Error(0)
}

func (m *MockLeaseRepository) CreateWithProperty(ctx context.Context, lease *leasing.Lease, property *realty.Property) error {
	args := m.Called(ctx, lease, property)
	return args.Error(0)
}

func (m *MockLeaseRepository) ExpireWithProperty(ctx context.Context, lease *leasing.Lease, property *realty.Property, successor *leasing.Lease) error {
	args := m.Called(ctx, lease, property, successor)
	return args.Error(0)
}

func (m *MockLeaseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Mock User Repository
// =============================================================================

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*directory.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]directory.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]directory.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *directory.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Mock Processor and Sender
// =============================================================================

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.CheckoutSession), args.Error(1)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg notification.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// =============================================================================
// Fixtures
// =============================================================================

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activeTenant(id uuid.UUID) *directory.User {
	u, _ := directory.NewUser("John", "Smith", "john@example.com", "+100200300", date(1988, 3, 2))
	u.ID = id
	u.IsActive = true
	return u
}

func monthlyLease(t *testing.T, start, end time.Time) *leasing.Lease {
	t.Helper()
	lease, err := leasing.NewLease(leasing.NewLeaseParams{
		StartDate:          start,
		EndDate:            &end,
		RentAmount:         decimal.NewFromInt(1200),
		BillingPeriod:      leasing.BillingPeriodMonthly,
		PaymentBankAccount: "PL61109010140000071219812874",
		OwnerID:            uuid.New(),
		TenantID:           uuid.New(),
		PropertyID:         uuid.New(),
	})
	require.NoError(t, err)
	return lease
}

type paymentServiceFixture struct {
	service     *PaymentService
	paymentRepo *MockPaymentRepository
	leaseRepo   *MockLeaseRepository
	userRepo    *MockUserRepository
	processor   *MockProcessor
	sender      *MockSender
}

func newPaymentServiceFixture(today time.Time) *paymentServiceFixture {
	paymentRepo := new(MockPaymentRepository)
	leaseRepo := new(MockLeaseRepository)
	userRepo := new(MockUserRepository)
	processor := new(MockProcessor)
	sender := new(MockSender)
	service := NewPaymentService(paymentRepo, leaseRepo, userRepo, processor, sender,
		shared.FixedClock{Instant: today}, "eur", zap.NewNop())
	return &paymentServiceFixture{
		service:     service,
		paymentRepo: paymentRepo,
		leaseRepo:   leaseRepo,
		userRepo:    userRepo,
		processor:   processor,
		sender:      sender,
	}
}

// =============================================================================
// Billing sweep
// =============================================================================

func TestIssueDuePayments(t *testing.T) {
	ctx := context.Background()

	t.Run("issues an obligation and advances the billing cycle", func(t *testing.T) {
		today := date(2025, 1, 31)
		f := newPaymentServiceFixture(today)
		lease := monthlyLease(t, date(2025, 1, 1), date(2025, 6, 1))
		require.Equal(t, today, lease.NextPaymentDate)

		f.leaseRepo.On("FindDueForPayment", ctx, today).Return([]leasing.Lease{*lease}, nil)
		f.processor.On("CreateCheckout", ctx, mock.MatchedBy(func(req payments.CheckoutRequest) bool {
			return req.Amount.Equal(decimal.NewFromInt(1200)) && req.Currency == "eur"
		})).Return(&payments.CheckoutSession{CheckoutID: "cs_123", CheckoutURL: "https://checkout.test/cs_123"}, nil)

		var issued *payments.Payment
		f.paymentRepo.On("CreateWithLease", ctx, mock.AnythingOfType("*payments.Payment"), mock.AnythingOfType("*leasing.Lease")).
			Run(func(args mock.Arguments) {
				issued = args.Get(1).(*payments.Payment)
				advanced := args.Get(2).(*leasing.Lease)
				assert.Equal(t, date(2025, 3, 2), advanced.NextPaymentDate)
			}).Return(nil)
		f.userRepo.On("FindByID", ctx, lease.TenantID).Return(activeTenant(lease.TenantID), nil)
		f.sender.On("Send", ctx, mock.MatchedBy(func(msg notification.Message) bool {
			return msg.Template == notification.TemplatePaymentDue && msg.Recipient == "john@example.com"
		})).Return(nil)

		result, err := f.service.IssueDuePayments(ctx)
		require.NoError(t, err)
		assert.Equal(t, BillingRunResult{Issued: 1}, result)

		require.NotNil(t, issued)
		assert.True(t, issued.WaitingForPayment)
		assert.False(t, issued.PaymentAccepted)
		assert.Equal(t, "cs_123", issued.CheckoutID)
		assert.Equal(t, today, issued.CreatedAt)
		f.sender.AssertExpectations(t)
	})

	t.Run("checkout failure isolates the lease", func(t *testing.T) {
		today := date(2025, 1, 31)
		f := newPaymentServiceFixture(today)
		broken := monthlyLease(t, date(2025, 1, 1), date(2025, 6, 1))
		healthy := monthlyLease(t, date(2025, 1, 1), date(2025, 6, 1))

		f.leaseRepo.On("FindDueForPayment", ctx, today).Return([]leasing.Lease{*broken, *healthy}, nil)
		f.processor.On("CreateCheckout", ctx, mock.MatchedBy(func(req payments.CheckoutRequest) bool {
			return req.Metadata["lease_id"] == broken.ID.String()
		})).Return(nil, errors.New("gateway unreachable"))
		f.processor.On("CreateCheckout", ctx, mock.MatchedBy(func(req payments.CheckoutRequest) bool {
			return req.Metadata["lease_id"] == healthy.ID.String()
		})).Return(&payments.CheckoutSession{CheckoutID: "cs_ok", CheckoutURL: "https://checkout.test/cs_ok"}, nil)
		f.paymentRepo.On("CreateWithLease", ctx, mock.AnythingOfType("*payments.Payment"), mock.AnythingOfType("*leasing.Lease")).Return(nil)
		f.userRepo.On("FindByID", ctx, healthy.TenantID).Return(activeTenant(healthy.TenantID), nil)
		f.sender.On("Send", ctx, mock.Anything).Return(nil)

		result, err := f.service.IssueDuePayments(ctx)
		require.NoError(t, err)
		assert.Equal(t, BillingRunResult{Issued: 1, Failed: 1}, result)
	})

	t.Run("failed notification does not fail the sweep", func(t *testing.T) {
		today := date(2025, 1, 31)
		f := newPaymentServiceFixture(today)
		lease := monthlyLease(t, date(2025, 1, 1), date(2025, 6, 1))

		f.leaseRepo.On("FindDueForPayment", ctx, today).Return([]leasing.Lease{*lease}, nil)
		f.processor.On("CreateCheckout", ctx, mock.Anything).
			Return(&payments.CheckoutSession{CheckoutID: "cs_123", CheckoutURL: "https://checkout.test/cs_123"}, nil)
		f.paymentRepo.On("CreateWithLease", ctx, mock.Anything, mock.Anything).Return(nil)
		f.userRepo.On("FindByID", ctx, lease.TenantID).Return(activeTenant(lease.TenantID), nil)
		f.sender.On("Send", ctx, mock.Anything).Return(errors.New("smtp down"))

		result, err := f.service.IssueDuePayments(ctx)
		require.NoError(t, err)
		assert.Equal(t, BillingRunResult{Issued: 1}, result)
	})
}

func TestIssueForLease(t *testing.T) {
	ctx := context.Background()
	today := date(2025, 1, 31)

	t.Run("rejects an expired lease", func(t *testing.T) {
		f := newPaymentServiceFixture(today)
		lease := monthlyLease(t, date(2025, 1, 1), date(2025, 6, 1))
		lease.LeaseExpired = true
		f.leaseRepo.On("FindByID", ctx, lease.ID).Return(lease, nil)

		_, err := f.service.IssueForLease(ctx, lease.ID)
		require.Error(t, err)
		assert.Equal(t, "INVALID_STATE", err.(*shared.DomainError).Code)
	})

	t.Run("clips the next payment date to the lease expiration", func(t *testing.T) {
		f := newPaymentServiceFixture(today)
		lease := monthlyLease(t, date(2025, 1, 1), date(2025, 6, 1))
		// one period before expiration: 05-31 + 30 days would overshoot 06-01
		lease.NextPaymentDate = date(2025, 5, 31)

		f.leaseRepo.On("FindByID", ctx, lease.ID).Return(lease, nil)
		f.processor.On("CreateCheckout", ctx, mock.Anything).
			Return(&payments.CheckoutSession{CheckoutID: "cs_123", CheckoutURL: "https://checkout.test/cs_123"}, nil)
		f.paymentRepo.On("CreateWithLease", ctx, mock.Anything, mock.Anything).Return(nil)
		f.userRepo.On("FindByID", ctx, lease.TenantID).Return(activeTenant(lease.TenantID), nil)
		f.sender.On("Send", ctx, mock.Anything).Return(nil)

		resp, err := f.service.IssueForLease(ctx, lease.ID)
		require.NoError(t, err)
		assert.Equal(t, date(2025, 6, 1), lease.NextPaymentDate)
		assert.Equal(t, "https://checkout.test/cs_123", resp.CheckoutURL)
	})
}

// =============================================================================
// Fulfillment
// =============================================================================

func TestFulfill(t *testing.T) {
	ctx := context.Background()
	today := date(2025, 2, 2)

	newWaitingPayment := func(t *testing.T) *payments.Payment {
		t.Helper()
		p, err := payments.NewPayment(uuid.New(), uuid.New(), date(2025, 1, 31))
		require.NoError(t, err)
		require.NoError(t, p.AttachCheckout("cs_123", "https://checkout.test/cs_123"))
		return p
	}

	t.Run("settles a waiting payment", func(t *testing.T) {
		f := newPaymentServiceFixture(today)
		payment := newWaitingPayment(t)

		f.paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)
		f.paymentRepo.On("SaveWithLock", ctx, payment).Return(nil)
		f.userRepo.On("FindByID", ctx, payment.TenantID).Return(activeTenant(payment.TenantID), nil)
		f.sender.On("Send", ctx, mock.MatchedBy(func(msg notification.Message) bool {
			return msg.Template == notification.TemplatePaymentConfirmed
		})).Return(nil)

		resp, err := f.service.Fulfill(ctx, payments.CompletionEvent{
			PaymentID:       payment.ID.String(),
			ChargedAmount:   decimal.NewFromInt(1200),
			ChargeReference: "pi_42",
		})
		require.NoError(t, err)
		assert.True(t, resp.PaymentAccepted)
		assert.False(t, resp.WaitingForPayment)
		assert.Equal(t, "pi_42", resp.ChargeReference)
		require.NotNil(t, resp.PaymentDate)
		assert.Equal(t, today, *resp.PaymentDate)
	})

	t.Run("redelivered event fails instead of settling twice", func(t *testing.T) {
		f := newPaymentServiceFixture(today)
		payment := newWaitingPayment(t)
		require.NoError(t, payment.Fulfill(decimal.NewFromInt(1200), "pi_42", today))

		f.paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)

		_, err := f.service.Fulfill(ctx, payments.CompletionEvent{
			PaymentID:       payment.ID.String(),
			ChargedAmount:   decimal.NewFromInt(1200),
			ChargeReference: "pi_42",
		})
		require.Error(t, err)
		assert.Equal(t, "INVALID_STATE", err.(*shared.DomainError).Code)
		f.paymentRepo.AssertNotCalled(t, "SaveWithLock", ctx, payment)
	})

	t.Run("garbage payment reference", func(t *testing.T) {
		f := newPaymentServiceFixture(today)
		_, err := f.service.Fulfill(ctx, payments.CompletionEvent{PaymentID: "not-a-uuid"})
		require.Error(t, err)
		assert.Equal(t, "INVALID_INPUT", err.(*shared.DomainError).Code)
	})
}
