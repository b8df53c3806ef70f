package appointments

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/hospital-platform/internal/cache"
	"github.com/wolfman30/hospital-platform/internal/observability/metrics"
	"github.com/wolfman30/hospital-platform/internal/schedule"
	"github.com/wolfman30/hospital-platform/pkg/logging"
)

var bookingTracer = otel.Tracer("hospital.internal.appointments")

// Service owns the booking workflow and status transitions.
type Service struct {
	repo          Repository
	cache         *cache.AppointmentCache
	metrics       *metrics.BookingMetrics
	logger        *logging.Logger
	requireReason bool
}

// NewService constructs an appointments service.
func NewService(repo Repository, c *cache.AppointmentCache, m *metrics.BookingMetrics, logger *logging.Logger, requireReason bool) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:          repo,
		cache:         c,
		metrics:       m,
		logger:        logger,
		requireReason: requireReason,
	}
}

// Book validates the form and creates a pending appointment. The status is
// always pending no matter what the client sent, and the end time is derived
// from the fixed slot duration. ErrSlotTaken means another booking won the
// slot; the caller refetches availability and retries.
func (s *Service) Book(ctx context.Context, patientID string, req *BookingRequest) (*Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("hospital.patient_id", patientID),
		attribute.String("hospital.doctor_id", req.DoctorID),
	)

	date, err := req.Validate(s.requireReason)
	if err != nil {
		return nil, err
	}

	start, err := schedule.Normalize24(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start time %q", ErrValidation, req.StartTime)
	}
	if !catalogSlot(start) {
		return nil, fmt.Errorf("%w: %s is not a bookable slot", ErrValidation, start)
	}

	end, err := schedule.EndTime(start)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start time %q", ErrValidation, req.StartTime)
	}

	created, err := s.repo.Insert(ctx, &Appointment{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Reason:    req.Reason,
		Notes:     req.Notes,
		Status:    StatusPending,
	})
	if errors.Is(err, ErrSlotTaken) {
		s.metrics.ObserveSlotConflict()
		s.metrics.ObserveBooking("conflict")
		span.RecordError(err)
		return nil, err
	}
	if err != nil {
		s.metrics.ObserveBooking("error")
		span.RecordError(err)
		return nil, err
	}

	s.metrics.ObserveBooking("created")
	s.invalidateLists(ctx, created)
	s.logger.Info("appointment booked",
		"appointment_id", created.ID,
		"patient_id", patientID,
		"doctor_id", created.DoctorID,
		"date", created.Date.Format(DateFormat),
		"start_time", created.StartTime,
	)
	return created, nil
}

// Cancel is the patient-initiated transition: only the owner's pending
// appointment may move to cancelled.
func (s *Service) Cancel(ctx context.Context, patientID, appointmentID string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if a.PatientID != patientID {
		// Do not reveal other patients' appointments.
		return nil, ErrAppointmentNotFound
	}
	if a.Status != StatusPending {
		return nil, fmt.Errorf("%w: status is %s", ErrNotCancellable, a.Status)
	}

	updated, err := s.repo.UpdateStatus(ctx, appointmentID, StatusCancelled)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveCancellation("patient")
	s.invalidateLists(ctx, updated)
	s.logger.Info("appointment cancelled", "appointment_id", appointmentID, "patient_id", patientID)
	return updated, nil
}

// SetStatus is the admin transition: any status may be set.
func (s *Service) SetStatus(ctx context.Context, appointmentID string, status Status) (*Appointment, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	updated, err := s.repo.UpdateStatus(ctx, appointmentID, status)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveStatusChange(string(status))
	if status == StatusCancelled {
		s.metrics.ObserveCancellation("admin")
	}
	s.invalidateLists(ctx, updated)
	s.logger.Info("appointment status changed", "appointment_id", appointmentID, "status", status)
	return updated, nil
}

// ListForPatient returns the patient's appointments, served from the cache
// when fresh.
func (s *Service) ListForPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	key := cache.PatientKey(patientID)

	var cached []*Appointment
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("appointment cache read failed", "error", err, "patient_id", patientID)
	}
	if hit {
		return cached, nil
	}

	list, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*Appointment{}
	}

	if err := s.cache.Set(ctx, key, list); err != nil {
		s.logger.Warn("appointment cache write failed", "error", err, "patient_id", patientID)
	}
	return list, nil
}

// ListAll returns every appointment for the admin views.
func (s *Service) ListAll(ctx context.Context) ([]*Appointment, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*Appointment{}
	}
	return list, nil
}

// invalidateLists drops the cached lists the mutation touched. Derived
// views recompute from the store on the next read.
func (s *Service) invalidateLists(ctx context.Context, a *Appointment) {
	keys := []string{cache.PatientKey(a.PatientID), cache.DoctorKey(a.DoctorID)}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.logger.Warn("appointment cache invalidation failed", "error", err, "appointment_id", a.ID)
	}
}

func catalogSlot(start string) bool {
	for _, slot := range schedule.Catalog() {
		if slot == start {
			return true
		}
	}
	return false
}
