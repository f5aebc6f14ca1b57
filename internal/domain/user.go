package domain

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// USER DOMAIN ERRORS
// =============================================================================

var (
	ErrUserNotFound       = &Error{Code: ENOTFOUND, Message: "No account found with this email address."}
	ErrEmailInUse         = &Error{Code: ECONFLICT, Message: "An account with this email already exists."}
	ErrInvalidCredentials = &Error{Code: EUNAUTHORIZED, Message: "Invalid email or password"}
	ErrAccountDisabled    = &Error{Code: EFORBIDDEN, Message: "This account has been disabled"}
	ErrAuthRequired       = &Error{Code: EUNAUTHORIZED, Message: "Authentication required"}
	ErrAdminRequired      = &Error{Code: EFORBIDDEN, Message: "Admin access required"}
)

// =============================================================================
// USER DOMAIN TYPES
// =============================================================================

// Address is a user's saved postal address.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// User is a customer or administrator account.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Phone        string     `json:"phone,omitempty"`
	Address      Address    `json:"address"`
	Bio          string     `json:"bio,omitempty"`
	ProfileImage string     `json:"profileImage,omitempty"`
	AuthProvider string     `json:"authProvider"`
	IsAdmin      bool       `json:"isAdmin"`
	IsActive     bool       `json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// FullName joins the first and last names.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	UserID  uuid.UUID
	Email   string
	IsAdmin bool
}

// Auth providers.
const (
	AuthProviderPassword = "password"
	AuthProviderGoogle   = "google"
)

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterParams creates a password account.
type RegisterParams struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"max=30"`
}

// FederatedIdentity is a user asserted by an external identity provider.
type FederatedIdentity struct {
	Subject  string
	Email    string
	Name     string
	Picture  string
	Provider string
}

// UpdateProfileParams holds the editable profile fields. Nil leaves the field unchanged.
type UpdateProfileParams struct {
	FirstName *string  `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string  `json:"lastName" validate:"omitempty,max=100"`
	Phone     *string  `json:"phone" validate:"omitempty,max=30"`
	Bio       *string  `json:"bio" validate:"omitempty,max=1000"`
	Address   *Address `json:"address"`
}

// UserService manages accounts.
type UserService interface {
	Register(ctx context.Context, params RegisterParams) (*User, error)

	// Authenticate checks a password and records the sign-in.
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// UpsertFederated finds or creates the account for an external identity.
	UpsertFederated(ctx context.Context, identity FederatedIdentity) (*User, error)

	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, params UpdateProfileParams) (*User, error)
	UploadProfileImage(ctx context.Context, id uuid.UUID, filename, contentType string, r io.Reader) (*User, error)
}
