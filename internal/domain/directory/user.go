package directory

import (
	"strings"
	"time"

	"github.com/propstack/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// User represents an account that can own properties and hold leases.
// A user must be activated before it can be assigned as a lease owner
// or tenant.
type User struct {
	shared.BaseAggregateRoot
	FirstName    string
	LastName     string
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string
	BirthDate    time.Time `gorm:"type:date"`
	PhoneNumber  string
	IsActive     bool `gorm:"not null;default:false"`
	IsStaff      bool `gorm:"not null;default:false"`
	IsSuperuser  bool `gorm:"not null;default:false"`
}

// NewUser creates a new, inactive user account
func NewUser(firstName, lastName, email, phoneNumber string, birthDate time.Time) (*User, error) {
	if firstName == "" || lastName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "First and last name cannot be empty")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_INPUT", "A valid email address is required")
	}
	if birthDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Birth date is required")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FirstName:         firstName,
		LastName:          lastName,
		Email:             email,
		BirthDate:         shared.DateOf(birthDate),
		PhoneNumber:       phoneNumber,
	}, nil
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// SetPassword hashes and stores the given password
func (u *User) SetPassword(plain string) error {
	if len(plain) < 8 {
		return shared.NewDomainError("INVALID_INPUT", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	return nil
}

// CheckPassword verifies a password against the stored hash
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// Activate enables the account
func (u *User) Activate() error {
	if u.IsActive {
		return shared.NewDomainError("INVALID_STATE", "User account is already activated")
	}
	u.IsActive = true
	u.UpdatedAt = time.Now()
	return nil
}

// Deactivate disables the account. Inactive users are rejected as lease
// parties but their historical leases and payments remain intact.
func (u *User) Deactivate() error {
	if !u.IsActive {
		return shared.NewDomainError("INVALID_STATE", "User account is already deactivated")
	}
	u.IsActive = false
	u.UpdatedAt = time.Now()
	return nil
}
