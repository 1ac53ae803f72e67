package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/propstack/backend/internal/application/realty"
	"github.com/propstack/backend/internal/interfaces/http/dto"
	"github.com/propstack/backend/internal/interfaces/http/middleware"
)

// PropertyHandler handles property endpoints
type PropertyHandler struct {
	BaseHandler
	propertyService *realty.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(propertyService *realty.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// listPropertiesQuery binds the property listing query parameters
type listPropertiesQuery struct {
	dto.ListRequest
	Status       string `form:"status"`
	PropertyType string `form:"property_type"`
	OwnerID      string `form:"owner_id" binding:"omitempty,uuid"`
}

// Create registers a new property
// POST /api/v1/properties
func (h *PropertyHandler) Create(c *gin.Context) {
	var req realty.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	property, err := h.propertyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, property)
}

// Get returns a single property with its address
// GET /api/v1/properties/:id
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	property, err := h.propertyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, property)
}

// List returns properties matching the query
// GET /api/v1/properties
func (h *PropertyHandler) List(c *gin.Context) {
	var query listPropertiesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	list := query.ListRequest.WithDefaults()

	filter := realty.ListPropertiesFilter{
		Status:       query.Status,
		PropertyType: query.PropertyType,
		Page:         list.Page,
		PageSize:     list.PageSize,
		OrderBy:      list.OrderBy,
		OrderDir:     list.OrderDir,
	}
	if query.OwnerID != "" {
		ownerID, err := uuid.Parse(query.OwnerID)
		if err != nil {
			h.BadRequest(c, "Invalid owner ID")
			return
		}
		filter.OwnerID = &ownerID
	}

	properties, total, err := h.propertyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, properties, total, list.Page, list.PageSize)
}

// Update patches a property's descriptive fields
// PUT /api/v1/properties/:id
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	var req realty.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	property, err := h.propertyService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, property)
}

// assignOwnerRequest binds the owner assignment payload
type assignOwnerRequest struct {
	OwnerID uuid.UUID `json:"owner_id" binding:"required"`
}

// AssignOwner sets the property owner
// POST /api/v1/properties/:id/owner
func (h *PropertyHandler) AssignOwner(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	var req assignOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	property, err := h.propertyService.AssignOwner(c.Request.Context(), id, req.OwnerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, property)
}

// setStatusRequest binds the status change payload
type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus changes the property availability status
// POST /api/v1/properties/:id/status
func (h *PropertyHandler) SetStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	property, err := h.propertyService.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, property)
}

// AttachAddress sets or replaces the property address
// PUT /api/v1/properties/:id/address
func (h *PropertyHandler) AttachAddress(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	var req realty.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	address, err := h.propertyService.AttachAddress(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, address)
}
