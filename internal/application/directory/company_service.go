package directory

import (
	"context"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/directory"
	"github.com/propstack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CompanyService manages company records
type CompanyService struct {
	companyRepo directory.CompanyRepository
	logger      *zap.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo directory.CompanyRepository, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		logger:      logger,
	}
}

// Create registers a new company
func (s *CompanyService) Create(ctx context.Context, req CreateCompanyRequest) (*CompanyResponse, error) {
	company, err := directory.NewCompany(req.CompanyName, req.FoundationYear, req.PhoneNumber)
	if err != nil {
		return nil, err
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}

	s.logger.Info("Company created",
		zap.String("company_id", company.ID.String()),
		zap.String("company_name", company.CompanyName),
	)

	response := ToCompanyResponse(company)
	return &response, nil
}

// GetByID retrieves a company by ID
func (s *CompanyService) GetByID(ctx context.Context, id uuid.UUID) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCompanyResponse(company)
	return &response, nil
}

// List retrieves companies with pagination
func (s *CompanyService) List(ctx context.Context, page, pageSize int) ([]CompanyResponse, int64, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	companies, err := s.companyRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.companyRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]CompanyResponse, len(companies))
	for i := range companies {
		out[i] = ToCompanyResponse(&companies[i])
	}
	return out, total, nil
}
