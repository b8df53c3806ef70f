package prescriptions

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is a prescription lifecycle state.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusRevoked Status = "revoked"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusRevoked:
		return true
	}
	return false
}

var (
	// ErrPrescriptionNotFound is returned when a prescription id has no row.
	ErrPrescriptionNotFound = errors.New("prescription not found")

	// ErrValidation wraps request validation failures.
	ErrValidation = errors.New("validation failed")
)

// DateFormat is the calendar-day wire format for issue and expiry dates.
const DateFormat = "2006-01-02"

// Prescription is medication issued against an appointment. ExpiryDate is
// nil for open-ended prescriptions.
type Prescription struct {
	ID            string     `json:"id"`
	AppointmentID string     `json:"appointment_id"`
	PatientID     string     `json:"patient_id"`
	DoctorID      string     `json:"doctor_id"`
	Medications   []string   `json:"medications"`
	Dosage        string     `json:"dosage"`
	Instructions  string     `json:"instructions,omitempty"`
	IssueDate     time.Time  `json:"issue_date"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// UpsertPrescriptionRequest carries the admin create/update payload. Dates
// travel as "2006-01-02" strings; expiry is optional.
type UpsertPrescriptionRequest struct {
	AppointmentID string   `json:"appointment_id"`
	PatientID     string   `json:"patient_id"`
	DoctorID      string   `json:"doctor_id"`
	Medications   []string `json:"medications"`
	Dosage        string   `json:"dosage"`
	Instructions  string   `json:"instructions"`
	IssueDate     string   `json:"issue_date"`
	ExpiryDate    string   `json:"expiry_date"`
	Status        Status   `json:"status"`
}

// Validate checks the payload and parses the dates.
func (r *UpsertPrescriptionRequest) Validate() (issue time.Time, expiry *time.Time, err error) {
	if strings.TrimSpace(r.AppointmentID) == "" {
		return time.Time{}, nil, fmt.Errorf("%w: appointment is required", ErrValidation)
	}
	if strings.TrimSpace(r.PatientID) == "" {
		return time.Time{}, nil, fmt.Errorf("%w: patient is required", ErrValidation)
	}
	if strings.TrimSpace(r.DoctorID) == "" {
		return time.Time{}, nil, fmt.Errorf("%w: doctor is required", ErrValidation)
	}
	if len(r.Medications) == 0 {
		return time.Time{}, nil, fmt.Errorf("%w: at least one medication is required", ErrValidation)
	}
	for _, m := range r.Medications {
		if strings.TrimSpace(m) == "" {
			return time.Time{}, nil, fmt.Errorf("%w: medication names cannot be blank", ErrValidation)
		}
	}
	if strings.TrimSpace(r.Dosage) == "" {
		return time.Time{}, nil, fmt.Errorf("%w: dosage is required", ErrValidation)
	}

	issue = time.Now().UTC().Truncate(24 * time.Hour)
	if r.IssueDate != "" {
		issue, err = time.Parse(DateFormat, r.IssueDate)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("%w: invalid issue date %q", ErrValidation, r.IssueDate)
		}
	}
	if r.ExpiryDate != "" {
		e, err := time.Parse(DateFormat, r.ExpiryDate)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("%w: invalid expiry date %q", ErrValidation, r.ExpiryDate)
		}
		if e.Before(issue) {
			return time.Time{}, nil, fmt.Errorf("%w: expiry date precedes issue date", ErrValidation)
		}
		expiry = &e
	}

	if r.Status != "" && !r.Status.Valid() {
		return time.Time{}, nil, fmt.Errorf("%w: unknown status %q", ErrValidation, r.Status)
	}
	return issue, expiry, nil
}

// EffectiveStatus defaults the status to active when the payload omits it.
func (r *UpsertPrescriptionRequest) EffectiveStatus() Status {
	if r.Status == "" {
		return StatusActive
	}
	return r.Status
}
