package handler

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	paymentsapp "github.com/propstack/backend/internal/application/payments"
	"github.com/propstack/backend/internal/domain/leasing"
	"github.com/propstack/backend/internal/domain/notification"
	"github.com/propstack/backend/internal/domain/payments"
	"github.com/propstack/backend/internal/domain/shared"
	"github.com/propstack/backend/internal/infrastructure/config"
)

// MockPaymentRepository is a mock implementation of payments.PaymentRepository
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

// stubProcessor satisfies payments.Processor for wiring the service
type stubProcessor struct{}

func (stubProcessor) CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	return &payments.CheckoutSession{CheckoutID: "cs_test", CheckoutURL: "https://checkout.example/cs_test"}, nil
}

// stubSender satisfies notification.Sender for wiring the service
type stubSender struct{}

func (stubSender) Send(ctx context.Context, msg notification.Message) error { return nil }

const callbackTestSecret = "whsec_test_secret"

type callbackFixture struct {
	paymentRepo *MockPaymentRepository
	userRepo    *MockUserRepository
	router      *gin.Engine
}

func newCallbackFixture(t *testing.T) *callbackFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &callbackFixture{
		paymentRepo: new(MockPaymentRepository),
		userRepo:    new(MockUserRepository),
	}

	clock := shared.FixedClock{Instant: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)}
	service := paymentsapp.NewPaymentService(
		f.paymentRepo,
		new(MockLeaseRepository),
		f.userRepo,
		stubProcessor{},
		stubSender{},
		clock,
		"eur",
		zap.NewNop(),
	)
	h := NewPaymentCallbackHandler(service, config.StripeConfig{WebhookSecret: callbackTestSecret})

	f.router = gin.New()
	f.router.POST("/api/v1/payments/callback", h.HandleCallback)
	return f
}

func (f *callbackFixture) post(t *testing.T, payload, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/callback", strings.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// sign produces a valid Stripe-Signature header for the payload
func sign(payload string) string {
	now := time.Now()
	mac := webhook.ComputeSignature(now, []byte(payload), callbackTestSecret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(mac))
}

func completedCheckoutPayload(paymentID, leaseID, tenantID uuid.UUID) string {
	return fmt.Sprintf(`{
		"id": "evt_test_1",
		"object": "event",
		"api_version": %q,
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_1",
				"object": "checkout.session",
				"amount_total": 120000,
				"currency": "eur",
				"metadata": {
					"payment_id": %q,
					"lease_id": %q,
					"tenant_id": %q
				},
				"payment_intent": {"id": "pi_test_1"}
			}
		}
	}`, stripe.APIVersion, paymentID, leaseID, tenantID)
}

func TestPaymentCallback_MissingSignature(t *testing.T) {
	f := newCallbackFixture(t)

	w := f.post(t, `{}`, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Missing Stripe-Signature header")
}

func TestPaymentCallback_InvalidSignature(t *testing.T) {
	f := newCallbackFixture(t)

	w := f.post(t, `{}`, "t=123,v1=deadbeef")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "verification failed")
}

func TestPaymentCallback_IgnoresOtherEventTypes(t *testing.T) {
	f := newCallbackFixture(t)
	payload := fmt.Sprintf(`{"id":"evt_test_2","object":"event","api_version":%q,"type":"invoice.paid","data":{"object":{}}}`, stripe.APIVersion)

	w := f.post(t, payload, sign(payload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Event type ignored")
	f.paymentRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestPaymentCallback_SettlesPayment(t *testing.T) {
	f := newCallbackFixture(t)
	payment, err := payments.NewPayment(uuid.New(), uuid.New(), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	f.paymentRepo.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)
	f.paymentRepo.On("SaveWithLock", mock.Anything, payment).Return(nil)
	// the confirmation email is skipped when the tenant lookup fails
	f.userRepo.On("FindByID", mock.Anything, payment.TenantID).Return(nil, shared.ErrNotFound)

	payload := completedCheckoutPayload(payment.ID, payment.LeaseID, payment.TenantID)
	w := f.post(t, payload, sign(payload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Payment settled")
	assert.True(t, payment.PaymentAccepted)
	require.NotNil(t, payment.Amount)
	assert.Equal(t, "1200", payment.Amount.String())
	assert.Equal(t, "pi_test_1", payment.ChargeReference)
	f.paymentRepo.AssertExpectations(t)
}

func TestPaymentCallback_RedeliveredEventIsAcknowledged(t *testing.T) {
	f := newCallbackFixture(t)
	payment, err := payments.NewPayment(uuid.New(), uuid.New(), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, payment.Fulfill(decimal.NewFromInt(1200), "pi_test_1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))

	f.paymentRepo.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)

	payload := completedCheckoutPayload(payment.ID, payment.LeaseID, payment.TenantID)
	w := f.post(t, payload, sign(payload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "already settled")
	f.paymentRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}
