package directory

import (
	"time"

	"github.com/google/uuid"
	"github.com/propstack/backend/internal/domain/directory"
)

// RegisterUserRequest is the input for creating a user account
type RegisterUserRequest struct {
	FirstName   string    `json:"first_name" binding:"required"`
	LastName    string    `json:"last_name" binding:"required"`
	Email       string    `json:"email" binding:"required,email"`
	Password    string    `json:"password" binding:"required,min=8"`
	BirthDate   time.Time `json:"birth_date" binding:"required"`
	PhoneNumber string    `json:"phone_number"`
}

// UpdateUserRequest carries the patchable user fields
type UpdateUserRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
}

// ListUsersFilter narrows user listings
type ListUsersFilter struct {
	Active   *bool
	Staff    *bool
	Search   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// UserResponse is the user projection returned by the API
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	BirthDate   time.Time `json:"birth_date"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsStaff     bool      `json:"is_staff"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToUserResponse maps a user aggregate to its projection
func ToUserResponse(user *directory.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		BirthDate:   user.BirthDate,
		PhoneNumber: user.PhoneNumber,
		IsActive:    user.IsActive,
		IsStaff:     user.IsStaff,
		CreatedAt:   user.CreatedAt,
	}
}

// ToUserResponses maps a slice of users to projections
func ToUserResponses(users []directory.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}

// LoginRequest is the input for authentication
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token pair
type LoginResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// RefreshRequest is the input for refreshing an access token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateCompanyRequest is the input for registering a company
type CreateCompanyRequest struct {
	CompanyName    string `json:"company_name" binding:"required"`
	FoundationYear int    `json:"foundation_year" binding:"required"`
	PhoneNumber    string `json:"phone_number"`
}

// CompanyResponse is the company projection returned by the API
type CompanyResponse struct {
	ID             uuid.UUID `json:"id"`
	CompanyName    string    `json:"company_name"`
	FoundationYear int       `json:"foundation_year"`
	PhoneNumber    string    `json:"phone_number,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToCompanyResponse maps a company aggregate to its projection
func ToCompanyResponse(company *directory.Company) CompanyResponse {
	return CompanyResponse{
		ID:             company.ID,
		CompanyName:    company.CompanyName,
		FoundationYear: company.FoundationYear,
		PhoneNumber:    company.PhoneNumber,
		CreatedAt:      company.CreatedAt,
	}
}
