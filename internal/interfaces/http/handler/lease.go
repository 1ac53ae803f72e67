package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/propstack/backend/internal/application/leasing"
	"github.com/propstack/backend/internal/interfaces/http/dto"
	"github.com/propstack/backend/internal/interfaces/http/middleware"
)

// LeaseHandler handles lease endpoints. Staff callers get the detailed
// projection; owners and tenants get the basic one, restricted to leases
// they participate in.
type LeaseHandler struct {
	BaseHandler
	leaseService *leasing.LeaseService
}

// NewLeaseHandler creates a new LeaseHandler
func NewLeaseHandler(leaseService *leasing.LeaseService) *LeaseHandler {
	return &LeaseHandler{leaseService: leaseService}
}

// listLeasesQuery binds the lease listing query parameters
type listLeasesQuery struct {
	dto.ListRequest
	RenewalAccepted bool   `form:"renewal_accepted"`
	Expired         bool   `form:"expired"`
	Active          bool   `form:"active"`
	OwnerID         string `form:"owner_id" binding:"omitempty,uuid"`
	TenantID        string `form:"tenant_id" binding:"omitempty,uuid"`
	// Role selects which side of their leases a non-staff caller sees
	Role string `form:"role" binding:"omitempty,oneof=owner tenant"`
}

// Create opens a new lease
// POST /api/v1/leases
func (h *LeaseHandler) Create(c *gin.Context) {
	var req leasing.CreateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	lease, err := h.leaseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, lease)
}

// Get returns a single lease
// GET /api/v1/leases/:id
func (h *LeaseHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid lease ID")
		return
	}

	lease, err := h.leaseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if middleware.IsStaffRequest(c) {
		h.Success(c, lease)
		return
	}

	userID, err := getUserID(c)
	if err != nil || (lease.OwnerID != userID && lease.TenantID != userID) {
		h.Forbidden(c, "You are not a party to this lease")
		return
	}
	h.Success(c, lease.Basic())
}

// List returns leases matching the query
// GET /api/v1/leases
func (h *LeaseHandler) List(c *gin.Context) {
	var query listLeasesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	list := query.ListRequest.WithDefaults()

	filter := leasing.ListLeasesFilter{
		RenewalAccepted: query.RenewalAccepted,
		Expired:         query.Expired,
		Active:          query.Active,
		Page:            list.Page,
		PageSize:        list.PageSize,
		OrderBy:         list.OrderBy,
		OrderDir:        list.OrderDir,
	}

	if middleware.IsStaffRequest(c) {
		if query.OwnerID != "" {
			ownerID, err := uuid.Parse(query.OwnerID)
			if err != nil {
				h.BadRequest(c, "Invalid owner ID")
				return
			}
			filter.OwnerID = &ownerID
		}
		if query.TenantID != "" {
			tenantID, err := uuid.Parse(query.TenantID)
			if err != nil {
				h.BadRequest(c, "Invalid tenant ID")
				return
			}
			filter.TenantID = &tenantID
		}

		leases, total, err := h.leaseService.List(c.Request.Context(), filter)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.SuccessWithMeta(c, leases, total, list.Page, list.PageSize)
		return
	}

	// Non-staff callers only see their own leases
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	if query.Role == "owner" {
		filter.OwnerID = &userID
	} else {
		filter.TenantID = &userID
	}

	leases, total, err := h.leaseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	basics := make([]leasing.LeaseBasicResponse, len(leases))
	for i := range leases {
		basics[i] = leases[i].Basic()
	}
	h.SuccessWithMeta(c, basics, total, list.Page, list.PageSize)
}

// Update patches the modifiable lease fields
// PUT /api/v1/leases/:id
func (h *LeaseHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid lease ID")
		return
	}

	var req leasing.UpdateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	lease, err := h.leaseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lease)
}

// AcceptRenewal marks the lease for renewal at expiration
// POST /api/v1/leases/:id/renewal/accept
func (h *LeaseHandler) AcceptRenewal(c *gin.Context) {
	h.manageRenewal(c, h.leaseService.AcceptRenewal)
}

// DiscardRenewal withdraws a previously accepted renewal
// POST /api/v1/leases/:id/renewal/discard
func (h *LeaseHandler) DiscardRenewal(c *gin.Context) {
	h.manageRenewal(c, h.leaseService.DiscardRenewal)
}

func (h *LeaseHandler) manageRenewal(c *gin.Context, op func(ctx context.Context, id uuid.UUID) error) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid lease ID")
		return
	}

	if err := op(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
