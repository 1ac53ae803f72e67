package directory

import (
	"context"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/directory"
	"github.com/propstack/backend/internal/domain/notification"
	"github.com/propstack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService manages user accounts. Accounts start inactive and must be
// activated before they can appear on a lease.
type UserService struct {
	userRepo directory.UserRepository
	sender   notification.Sender
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo directory.UserRepository, sender notification.Sender, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		sender:   sender,
		logger:   logger,
	}
}

// Register creates a new, inactive user account
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*UserResponse, error) {
	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("CONFLICT", "A user with this email already exists")
	}

	user, err := directory.NewUser(req.FirstName, req.LastName, req.Email, req.PhoneNumber, req.BirthDate)
	if err != nil {
		return nil, err
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	msg := notification.Message{
		Template:  notification.TemplateUserActivation,
		Recipient: user.Email,
		Subject:   "Welcome, activate your account",
		Context: map[string]string{
			"first_name": user.FirstName,
		},
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Warn("Failed to send activation notification",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	response := ToUserResponse(user)
	return &response, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves users with filtering and pagination
func (s *UserService) List(ctx context.Context, filter ListUsersFilter) ([]UserResponse, int64, error) {
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
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Active != nil {
		domainFilter.Filters["is_active"] = *filter.Active
	}
	if filter.Staff != nil {
		domainFilter.Filters["is_staff"] = *filter.Staff
	}

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToUserResponses(users), total, nil
}

// Update patches the given user's profile fields
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		if *req.FirstName == "" {
			return nil, shared.NewDomainError("INVALID_INPUT", "First name cannot be empty")
		}
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		if *req.LastName == "" {
			return nil, shared.NewDomainError("INVALID_INPUT", "Last name cannot be empty")
		}
		user.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Activate enables a user account
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.Activate(); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.logger.Info("User activated", zap.String("user_id", user.ID.String()))
	return nil
}

// Deactivate disables a user account. Existing leases and payments are
// untouched; the user just cannot appear on new leases.
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.Deactivate(); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.logger.Info("User deactivated", zap.String("user_id", user.ID.String()))
	return nil
}
