package realty

import (
	"context"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/directory"
	"github.com/propstack/backend/internal/domain/realty"
	"github.com/propstack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PropertyService manages the property catalog. It only applies the
// administrative status transitions; RESERVED and RENTED belong to the
// lease engine.
type PropertyService struct {
	propertyRepo realty.PropertyRepository
	addressRepo  realty.AddressRepository
	userRepo     directory.UserRepository
	logger       *zap.Logger
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(
	propertyRepo realty.PropertyRepository,
	addressRepo realty.AddressRepository,
	userRepo directory.UserRepository,
	logger *zap.Logger,
) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		addressRepo:  addressRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// Create registers a new property, optionally with an owner and address
func (s *PropertyService) Create(ctx context.Context, req CreatePropertyRequest) (*PropertyResponse, error) {
	propertyType, err := realty.ParsePropertyType(req.PropertyType)
	if err != nil {
		return nil, err
	}

	property, err := realty.NewProperty(propertyType, req.ShortDescription, req.PropertyValue, req.SquareMeter)
	if err != nil {
		return nil, err
	}
	property.Description = req.Description
	property.RoomsAmount = req.RoomsAmount
	property.YearBuilt = req.YearBuilt

	if req.OwnerID != nil {
		if _, err := s.userRepo.FindByID(ctx, *req.OwnerID); err != nil {
			if err == shared.ErrNotFound {
				return nil, shared.NewDomainError("NOT_FOUND", "Owner does not exist")
			}
			return nil, err
		}
		if err := property.AssignOwner(*req.OwnerID); err != nil {
			return nil, err
		}
	}

	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}

	var address *realty.Address
	if req.Address != nil {
		address, err = s.attachAddress(ctx, property.ID, *req.Address)
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info("Property created",
		zap.String("property_id", property.ID.String()),
		zap.String("property_type", property.PropertyType.String()),
	)

	response := ToPropertyResponse(property, address)
	return &response, nil
}

// GetByID retrieves a property with its address
func (s *PropertyService) GetByID(ctx context.Context, id uuid.UUID) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	address, err := s.addressRepo.FindByProperty(ctx, id)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}

	response := ToPropertyResponse(property, address)
	return &response, nil
}

// List retrieves properties with filtering and pagination
func (s *PropertyService) List(ctx context.Context, filter ListPropertiesFilter) ([]PropertyResponse, int64, error) {
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
	if filter.Status != "" {
		status, err := realty.ParsePropertyStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["status"] = status.String()
	}
	if filter.PropertyType != "" {
		propertyType, err := realty.ParsePropertyType(filter.PropertyType)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["property_type"] = propertyType.String()
	}
	if filter.OwnerID != nil {
		domainFilter.Filters["owner_id"] = *filter.OwnerID
	}

	properties, err := s.propertyRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.propertyRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPropertyResponses(properties), total, nil
}

// Update patches the given property's descriptive fields
func (s *PropertyService) Update(ctx context.Context, id uuid.UUID, req UpdatePropertyRequest) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ShortDescription != nil {
		if *req.ShortDescription == "" {
			return nil, shared.NewDomainError("INVALID_INPUT", "Short description cannot be empty")
		}
		property.ShortDescription = *req.ShortDescription
	}
	if req.Description != nil {
		property.Description = *req.Description
	}
	if req.PropertyValue != nil {
		if req.PropertyValue.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Property value cannot be negative")
		}
		property.PropertyValue = *req.PropertyValue
	}
	if req.RoomsAmount != nil {
		property.RoomsAmount = req.RoomsAmount
	}
	if req.YearBuilt != nil {
		property.YearBuilt = req.YearBuilt
	}

	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}

	response := ToPropertyResponse(property, nil)
	return &response, nil
}

// AssignOwner sets the owning user on a property
func (s *PropertyService) AssignOwner(ctx context.Context, id, ownerID uuid.UUID) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("NOT_FOUND", "Owner does not exist")
		}
		return nil, err
	}
	if !owner.IsActive {
		return nil, shared.NewDomainError("INVALID_INPUT", "Inactive user cannot own a property")
	}

	if err := property.AssignOwner(ownerID); err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}

	s.logger.Info("Property owner assigned",
		zap.String("property_id", property.ID.String()),
		zap.String("owner_id", ownerID.String()),
	)

	response := ToPropertyResponse(property, nil)
	return &response, nil
}

// SetStatus applies an administrative status change (AVAILABLE or
// UNAVAILABLE). Lease-driven statuses are rejected by the aggregate.
func (s *PropertyService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	parsed, err := realty.ParsePropertyStatus(status)
	if err != nil {
		return nil, err
	}
	if err := property.SetStatus(parsed); err != nil {
		return nil, err
	}

	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}

	response := ToPropertyResponse(property, nil)
	return &response, nil
}

// AttachAddress creates or replaces the property's address
func (s *PropertyService) AttachAddress(ctx context.Context, propertyID uuid.UUID, req AddressRequest) (*AddressResponse, error) {
	if _, err := s.propertyRepo.FindByID(ctx, propertyID); err != nil {
		return nil, err
	}
	address, err := s.attachAddress(ctx, propertyID, req)
	if err != nil {
		return nil, err
	}
	return ToAddressResponse(address), nil
}

func (s *PropertyService) attachAddress(ctx context.Context, propertyID uuid.UUID, req AddressRequest) (*realty.Address, error) {
	address, err := realty.NewAddress(req.Country, req.City, req.PostalCode, req.HouseNumber)
	if err != nil {
		return nil, err
	}
	address.State = req.State
	address.Street = req.Street
	address.ApartmentNumber = req.ApartmentNumber
	address.PropertyID = &propertyID

	// a property holds at most one address
	if existing, err := s.addressRepo.FindByProperty(ctx, propertyID); err == nil {
		address.ID = existing.ID
	} else if err != shared.ErrNotFound {
		return nil, err
	}

	if err := s.addressRepo.Save(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}
