package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	leasingapp "github.com/propstack/backend/internal/application/leasing"
	"github.com/propstack/backend/internal/domain/directory"
	"github.com/propstack/backend/internal/domain/leasing"
	"github.com/propstack/backend/internal/domain/realty"
	"github.com/propstack/backend/internal/domain/shared"
	"github.com/propstack/backend/internal/infrastructure/auth"
	"github.com/propstack/backend/internal/infrastructure/config"
	"github.com/propstack/backend/internal/interfaces/http/middleware"
)

// MockLeaseRepository is a mock implementation of leasing.LeaseRepository
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

// MockPropertyRepository is a mock implementation of realty.PropertyRepository
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*realty.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*realty.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]realty.Property, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]realty.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]realty.Property, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]realty.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByStatus(ctx context.Context, status realty.PropertyStatus, filter shared.Filter) ([]realty.Property, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]realty.Property), args.Error(1)
}

func (m *MockPropertyRepository) Save(ctx context.Context, property *realty.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of directory.UserRepository
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

// leaseHandlerFixture wires a real service and handler over mock repos
type leaseHandlerFixture struct {
	leaseRepo    *MockLeaseRepository
	propertyRepo *MockPropertyRepository
	userRepo     *MockUserRepository
	jwtService   *auth.JWTService
	router       *gin.Engine
}

func newLeaseHandlerFixture(t *testing.T) *leaseHandlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &leaseHandlerFixture{
		leaseRepo:    new(MockLeaseRepository),
		propertyRepo: new(MockPropertyRepository),
		userRepo:     new(MockUserRepository),
	}

	f.jwtService = auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-that-is-long-enough-for-hmac",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "propstack-test",
	})

	clock := shared.FixedClock{Instant: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)}
	service := leasingapp.NewLeaseService(f.leaseRepo, f.propertyRepo, f.userRepo, clock, zap.NewNop())
	h := NewLeaseHandler(service)

	f.router = gin.New()
	f.router.Use(middleware.RequestID())
	f.router.Use(middleware.JWTAuthMiddleware(f.jwtService))
	f.router.GET("/api/v1/leases", h.List)
	f.router.GET("/api/v1/leases/:id", h.Get)
	f.router.POST("/api/v1/leases/:id/renewal/accept", h.AcceptRenewal)
	return f
}

func (f *leaseHandlerFixture) token(t *testing.T, userID uuid.UUID, staff bool) string {
	t.Helper()
	pair, err := f.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:  userID,
		Email:   "user@example.com",
		IsStaff: staff,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func (f *leaseHandlerFixture) get(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func testLease(t *testing.T, ownerID, tenantID uuid.UUID) *leasing.Lease {
	t.Helper()
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	lease, err := leasing.NewLease(leasing.NewLeaseParams{
		StartDate:            time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:              &end,
		RentAmount:           decimal.NewFromInt(1200),
		InitialDepositAmount: decimal.NewFromInt(2400),
		BillingPeriod:        leasing.BillingPeriodMonthly,
		PaymentBankAccount:   "DE02120300000000202051",
		OwnerID:              ownerID,
		TenantID:             tenantID,
		PropertyID:           uuid.New(),
	})
	require.NoError(t, err)
	return lease
}

func TestLeaseHandler_Get_StaffSeesDetailedProjection(t *testing.T) {
	f := newLeaseHandlerFixture(t)
	lease := testLease(t, uuid.New(), uuid.New())
	f.leaseRepo.On("FindByID", mock.Anything, lease.ID).Return(lease, nil)

	w := f.get(t, "/api/v1/leases/"+lease.ID.String(), f.token(t, uuid.New(), true))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Data, "payment_bank_account")
	assert.Contains(t, resp.Data, "tenant_id")
}

func TestLeaseHandler_Get_TenantSeesBasicProjection(t *testing.T) {
	f := newLeaseHandlerFixture(t)
	tenantID := uuid.New()
	lease := testLease(t, uuid.New(), tenantID)
	f.leaseRepo.On("FindByID", mock.Anything, lease.ID).Return(lease, nil)

	w := f.get(t, "/api/v1/leases/"+lease.ID.String(), f.token(t, tenantID, false))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Data, "rent_amount")
	assert.NotContains(t, resp.Data, "payment_bank_account")
	assert.NotContains(t, resp.Data, "tenant_id")
}

func TestLeaseHandler_Get_NonPartyIsForbidden(t *testing.T) {
	f := newLeaseHandlerFixture(t)
	lease := testLease(t, uuid.New(), uuid.New())
	f.leaseRepo.On("FindByID", mock.Anything, lease.ID).Return(lease, nil)

	w := f.get(t, "/api/v1/leases/"+lease.ID.String(), f.token(t, uuid.New(), false))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_FORBIDDEN")
}

func TestLeaseHandler_Get_UnknownLease(t *testing.T) {
	f := newLeaseHandlerFixture(t)
	id := uuid.New()
	f.leaseRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	w := f.get(t, "/api/v1/leases/"+id.String(), f.token(t, uuid.New(), true))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeaseHandler_List_TenantFilterIsForced(t *testing.T) {
	f := newLeaseHandlerFixture(t)
	tenantID := uuid.New()
	lease := testLease(t, uuid.New(), tenantID)

	matchOwnFilter := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["tenant_id"] == tenantID
	})
	f.leaseRepo.On("FindAll", mock.Anything, matchOwnFilter).Return([]leasing.Lease{*lease}, nil)
	f.leaseRepo.On("Count", mock.Anything, matchOwnFilter).Return(int64(1), nil)

	// tenant_id in the query is ignored for non-staff callers
	w := f.get(t, "/api/v1/leases?tenant_id="+uuid.NewString(), f.token(t, tenantID, false))

	assert.Equal(t, http.StatusOK, w.Code)
	f.leaseRepo.AssertExpectations(t)
}

func TestLeaseHandler_List_OwnerRoleSelectsOwnerSide(t *testing.T) {
	f := newLeaseHandlerFixture(t)
	ownerID := uuid.New()

	matchOwnerFilter := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["owner_id"] == ownerID
	})
	f.leaseRepo.On("FindAll", mock.Anything, matchOwnerFilter).Return([]leasing.Lease{}, nil)
	f.leaseRepo.On("Count", mock.Anything, matchOwnerFilter).Return(int64(0), nil)

	w := f.get(t, "/api/v1/leases?role=owner", f.token(t, ownerID, false))

	assert.Equal(t, http.StatusOK, w.Code)
	f.leaseRepo.AssertExpectations(t)
}

func TestLeaseHandler_AcceptRenewal(t *testing.T) {
	f := newLeaseHandlerFixture(t)
	lease := testLease(t, uuid.New(), uuid.New())
	f.leaseRepo.On("FindByID", mock.Anything, lease.ID).Return(lease, nil)
	f.leaseRepo.On("SaveWithLock", mock.Anything, lease).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leases/"+lease.ID.String()+"/renewal/accept", nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t, uuid.New(), true))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, lease.RenewalAccepted)
}
