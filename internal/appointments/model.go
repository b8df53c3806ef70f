package appointments

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is an appointment lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

var (
	// ErrAppointmentNotFound is returned when an appointment id has no row.
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrSlotTaken signals the store's uniqueness constraint fired: another
	// booking claimed the slot between availability fetch and submit. The
	// caller refetches availability and retries with a fresh slot.
	ErrSlotTaken = errors.New("slot already taken")

	// ErrValidation wraps pre-submit validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrNotCancellable is returned when a patient tries to cancel an
	// appointment that is not pending or not theirs.
	ErrNotCancellable = errors.New("appointment cannot be cancelled")
)

// DateFormat is the calendar-day wire format for appointment dates.
const DateFormat = "2006-01-02"

// Appointment is a booked slot. Reads embed the doctor's display fields so
// lists render without a second lookup.
type Appointment struct {
	ID                   string    `json:"id"`
	PatientID            string    `json:"patient_id"`
	DoctorID             string    `json:"doctor_id"`
	DoctorName           string    `json:"doctor_name,omitempty"`
	DoctorSpecialization string    `json:"doctor_specialization,omitempty"`
	Date                 time.Time `json:"-"`
	StartTime            string    `json:"start_time"`
	EndTime              string    `json:"end_time"`
	Reason               string    `json:"reason,omitempty"`
	Notes                string    `json:"notes,omitempty"`
	Status               Status    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// appointmentJSON carries the wire shape; the date travels as "2006-01-02".
type appointmentJSON struct {
	ID                   string    `json:"id"`
	PatientID            string    `json:"patient_id"`
	DoctorID             string    `json:"doctor_id"`
	DoctorName           string    `json:"doctor_name,omitempty"`
	DoctorSpecialization string    `json:"doctor_specialization,omitempty"`
	Date                 string    `json:"appointment_date"`
	StartTime            string    `json:"start_time"`
	EndTime              string    `json:"end_time"`
	Reason               string    `json:"reason,omitempty"`
	Notes                string    `json:"notes,omitempty"`
	Status               Status    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// MarshalJSON renders the appointment date at calendar-day granularity.
func (a Appointment) MarshalJSON() ([]byte, error) {
	return json.Marshal(appointmentJSON{
		ID:                   a.ID,
		PatientID:            a.PatientID,
		DoctorID:             a.DoctorID,
		DoctorName:           a.DoctorName,
		DoctorSpecialization: a.DoctorSpecialization,
		Date:                 a.Date.Format(DateFormat),
		StartTime:            a.StartTime,
		EndTime:              a.EndTime,
		Reason:               a.Reason,
		Notes:                a.Notes,
		Status:               a.Status,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	})
}

// UnmarshalJSON parses the calendar-day date back into a time.Time.
func (a *Appointment) UnmarshalJSON(data []byte) error {
	var aux appointmentJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	date, err := time.Parse(DateFormat, aux.Date)
	if err != nil {
		return fmt.Errorf("appointments: invalid date %q: %w", aux.Date, err)
	}
	*a = Appointment{
		ID:                   aux.ID,
		PatientID:            aux.PatientID,
		DoctorID:             aux.DoctorID,
		DoctorName:           aux.DoctorName,
		DoctorSpecialization: aux.DoctorSpecialization,
		Date:                 date,
		StartTime:            aux.StartTime,
		EndTime:              aux.EndTime,
		Reason:               aux.Reason,
		Notes:                aux.Notes,
		Status:               aux.Status,
		CreatedAt:            aux.CreatedAt,
		UpdatedAt:            aux.UpdatedAt,
	}
	return nil
}

// BookingRequest is the patient-supplied booking form. Any status the
// client sends is ignored; bookings are always created pending.
type BookingRequest struct {
	DoctorID  string `json:"doctor_id"`
	Date      string `json:"appointment_date"`
	StartTime string `json:"start_time"`
	Reason    string `json:"reason"`
	Notes     string `json:"notes"`
}

// Validate checks the form before submission; failures never reach the
// store. The reason requirement is configurable.
func (r *BookingRequest) Validate(requireReason bool) (time.Time, error) {
	if strings.TrimSpace(r.DoctorID) == "" {
		return time.Time{}, fmt.Errorf("%w: doctor is required", ErrValidation)
	}
	if strings.TrimSpace(r.Date) == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrValidation)
	}
	date, err := time.Parse(DateFormat, r.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, r.Date)
	}
	if strings.TrimSpace(r.StartTime) == "" {
		return time.Time{}, fmt.Errorf("%w: start time is required", ErrValidation)
	}
	if requireReason && strings.TrimSpace(r.Reason) == "" {
		return time.Time{}, fmt.Errorf("%w: reason is required", ErrValidation)
	}
	return date, nil
}
