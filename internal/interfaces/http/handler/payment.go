package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/propstack/backend/internal/application/payments"
	"github.com/propstack/backend/internal/interfaces/http/dto"
	"github.com/propstack/backend/internal/interfaces/http/middleware"
)

// PaymentHandler handles payment endpoints. Staff callers get the detailed
// projection; tenants get the basic one, restricted to their own payments.
type PaymentHandler struct {
	BaseHandler
	paymentService *payments.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *payments.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// listPaymentsQuery binds the payment listing query parameters
type listPaymentsQuery struct {
	dto.ListRequest
	Accepted bool   `form:"accepted"`
	Waiting  bool   `form:"waiting"`
	TenantID string `form:"tenant_id" binding:"omitempty,uuid"`
	LeaseID  string `form:"lease_id" binding:"omitempty,uuid"`
}

// Get returns a single payment
// GET /api/v1/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if middleware.IsStaffRequest(c) {
		h.Success(c, payment)
		return
	}

	userID, err := getUserID(c)
	if err != nil || payment.TenantID != userID {
		h.Forbidden(c, "You are not a party to this payment")
		return
	}
	h.Success(c, payment.Basic())
}

// List returns payments matching the query
// GET /api/v1/payments
func (h *PaymentHandler) List(c *gin.Context) {
	var query listPaymentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	list := query.ListRequest.WithDefaults()

	filter := payments.ListPaymentsFilter{
		Accepted: query.Accepted,
		Waiting:  query.Waiting,
		Page:     list.Page,
		PageSize: list.PageSize,
		OrderBy:  list.OrderBy,
		OrderDir: list.OrderDir,
	}
	if query.LeaseID != "" {
		leaseID, err := uuid.Parse(query.LeaseID)
		if err != nil {
			h.BadRequest(c, "Invalid lease ID")
			return
		}
		filter.LeaseID = &leaseID
	}

	if middleware.IsStaffRequest(c) {
		if query.TenantID != "" {
			tenantID, err := uuid.Parse(query.TenantID)
			if err != nil {
				h.BadRequest(c, "Invalid tenant ID")
				return
			}
			filter.TenantID = &tenantID
		}

		items, total, err := h.paymentService.List(c.Request.Context(), filter)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.SuccessWithMeta(c, items, total, list.Page, list.PageSize)
		return
	}

	// Tenants only see their own payments
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	filter.TenantID = &userID

	items, total, err := h.paymentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	basics := make([]payments.PaymentBasicResponse, len(items))
	for i := range items {
		basics[i] = items[i].Basic()
	}
	h.SuccessWithMeta(c, basics, total, list.Page, list.PageSize)
}

// IssueForLease issues the next payment obligation for a lease outside the
// scheduled billing run
// POST /api/v1/leases/:id/payments
func (h *PaymentHandler) IssueForLease(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid lease ID")
		return
	}

	payment, err := h.paymentService.IssueForLease(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, payment)
}
