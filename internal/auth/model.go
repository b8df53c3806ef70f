package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/hospital-platform/internal/identity"
)

var (
	// ErrInvalidCredentials is returned when email or password do not match.
	ErrInvalidCredentials = errors.New("invalid login credentials")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrProfileNotFound is returned when a user id has no profile row.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrValidation wraps request validation failures.
	ErrValidation = errors.New("validation failed")
)

// Profile is a registered user. PasswordHash never leaves the server.
type Profile struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Phone        string        `json:"phone,omitempty"`
	Role         identity.Role `json:"role"`
	PasswordHash string        `json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// RegisterRequest is the sign-up payload. Role is server-assigned: every
// self-registration is a patient.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Validate checks the sign-up payload.
func (r *RegisterRequest) Validate() error {
	email := strings.TrimSpace(r.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if strings.TrimSpace(r.FirstName) == "" {
		return fmt.Errorf("%w: first name is required", ErrValidation)
	}
	if strings.TrimSpace(r.LastName) == "" {
		return fmt.Errorf("%w: last name is required", ErrValidation)
	}
	return nil
}

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by register and login.
type SessionResponse struct {
	Token   string   `json:"token"`
	Profile *Profile `json:"profile"`
}
