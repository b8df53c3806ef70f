package doctors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDoctorNotFound is returned when a doctor id has no row.
var ErrDoctorNotFound = errors.New("doctor not found")

// ErrValidation wraps request validation failures so handlers can map them
// to 400 responses without inspecting message text.
var ErrValidation = errors.New("validation failed")

// Doctor is a bookable practitioner. Doctors with Available == false are
// excluded from patient-facing listings and booking candidates.
type Doctor struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Schedule       string    `json:"schedule,omitempty"`
	Available      bool      `json:"available"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UpsertDoctorRequest carries the admin-editable doctor fields.
type UpsertDoctorRequest struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Schedule       string `json:"schedule"`
	Available      *bool  `json:"available"`
}

// Validate checks the request before it reaches the repository.
func (r *UpsertDoctorRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(r.Specialization) == "" {
		return fmt.Errorf("%w: specialization is required", ErrValidation)
	}
	return nil
}

// IsAvailable resolves the optional flag; new doctors default to available.
func (r *UpsertDoctorRequest) IsAvailable() bool {
	if r.Available == nil {
		return true
	}
	return *r.Available
}
