package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/propstack/backend/internal/application/directory"
	"github.com/propstack/backend/internal/interfaces/http/dto"
	"github.com/propstack/backend/internal/interfaces/http/middleware"
)

// CompanyHandler handles company endpoints
type CompanyHandler struct {
	BaseHandler
	companyService *directory.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *directory.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Create registers a new company
// POST /api/v1/companies
func (h *CompanyHandler) Create(c *gin.Context) {
	var req directory.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	company, err := h.companyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, company)
}

// Get returns a single company
// GET /api/v1/companies/:id
func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	company, err := h.companyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, company)
}

// List returns companies
// GET /api/v1/companies
func (h *CompanyHandler) List(c *gin.Context) {
	var query dto.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	query = query.WithDefaults()

	companies, total, err := h.companyService.List(c.Request.Context(), query.Page, query.PageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, companies, total, query.Page, query.PageSize)
}
