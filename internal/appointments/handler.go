package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/hospital-platform/internal/identity"
	"github.com/wolfman30/hospital-platform/internal/schedule"
	"github.com/wolfman30/hospital-platform/pkg/logging"
)

// Handler handles HTTP requests for appointments.
type Handler struct {
	service  *Service
	resolver *schedule.Resolver
	logger   *logging.Logger
	now      func() time.Time
}

// NewHandler creates a new appointments handler.
func NewHandler(service *Service, resolver *schedule.Resolver, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:  service,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

// AvailabilityResponse lists the free slots for a doctor and day. An empty
// Slots list means the day is fully booked; clients disable submission and
// surface "no available slots" instead of an error.
type AvailabilityResponse struct {
	DoctorID string   `json:"doctor_id"`
	Date     string   `json:"date"`
	Slots    []string `json:"slots"`
	Count    int      `json:"count"`
}

// Availability handles GET /patient/availability?doctor_id=...&date=YYYY-MM-DD.
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	doctorID := r.URL.Query().Get("doctor_id")
	rawDate := r.URL.Query().Get("date")

	var date time.Time
	if rawDate != "" {
		parsed, err := time.Parse(DateFormat, rawDate)
		if err != nil {
			http.Error(w, `{"error": "invalid date, use YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}
		date = parsed
	}

	slots, err := h.resolver.AvailableSlots(r.Context(), doctorID, date)
	if err != nil {
		h.logger.Error("failed to resolve available slots", "error", err, "doctor_id", doctorID, "date", rawDate)
		http.Error(w, `{"error": "failed to load availability"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AvailabilityResponse{
		DoctorID: doctorID,
		Date:     rawDate,
		Slots:    slots,
		Count:    len(slots),
	})
}

// Book handles POST /patient/appointments.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "missing identity"}`, http.StatusUnauthorized)
		return
	}

	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	created, err := h.service.Book(r.Context(), id.UserID, &req)
	switch {
	case errors.Is(err, ErrValidation):
		http.Error(w, jsonError(err), http.StatusBadRequest)
		return
	case errors.Is(err, ErrSlotTaken):
		// The slot was claimed since availability was fetched; the client
		// refetches and retries with a fresh slot.
		http.Error(w, `{"error": "that slot was just taken, please pick another", "code": "slot_taken"}`, http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("failed to book appointment", "error", err, "patient_id", id.UserID)
		http.Error(w, `{"error": "failed to book appointment"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// ListAppointmentsResponse is the tabbed appointment list with bucket counts.
type ListAppointmentsResponse struct {
	Appointments []*Appointment `json:"appointments"`
	Counts       map[Tab]int    `json:"counts"`
	Tab          string         `json:"tab,omitempty"`
	Count        int            `json:"count"`
}

// ListMine handles GET /patient/appointments?tab=upcoming|today|past|cancelled.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "missing identity"}`, http.StatusUnauthorized)
		return
	}

	list, err := h.service.ListForPatient(r.Context(), id.UserID)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err, "patient_id", id.UserID)
		http.Error(w, `{"error": "failed to list appointments"}`, http.StatusInternalServerError)
		return
	}

	h.writeTabbedList(w, list, r.URL.Query().Get("tab"))
}

// ListAll handles GET /admin/appointments?tab=....
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, `{"error": "failed to list appointments"}`, http.StatusInternalServerError)
		return
	}

	h.writeTabbedList(w, list, r.URL.Query().Get("tab"))
}

func (h *Handler) writeTabbedList(w http.ResponseWriter, list []*Appointment, tab string) {
	if tab != "" && !ValidTab(tab) {
		http.Error(w, `{"error": "unknown tab"}`, http.StatusBadRequest)
		return
	}

	today := h.now()
	counts := Counts(list, today)

	shown := list
	if tab != "" {
		shown = Partition(list, today)[Tab(tab)]
	}
	if shown == nil {
		shown = []*Appointment{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListAppointmentsResponse{
		Appointments: shown,
		Counts:       counts,
		Tab:          tab,
		Count:        len(shown),
	})
}

// Cancel handles POST /patient/appointments/{appointmentID}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "missing identity"}`, http.StatusUnauthorized)
		return
	}
	appointmentID := chi.URLParam(r, "appointmentID")

	updated, err := h.service.Cancel(r.Context(), id.UserID, appointmentID)
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		http.Error(w, `{"error": "appointment not found"}`, http.StatusNotFound)
		return
	case errors.Is(err, ErrNotCancellable):
		http.Error(w, jsonError(err), http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("failed to cancel appointment", "error", err, "appointment_id", appointmentID)
		http.Error(w, `{"error": "failed to cancel appointment"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// SetStatusRequest is the admin status-change payload.
type SetStatusRequest struct {
	Status Status `json:"status"`
}

// SetStatus handles PUT /admin/appointments/{appointmentID}/status.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "appointmentID")

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	updated, err := h.service.SetStatus(r.Context(), appointmentID, req.Status)
	switch {
	case errors.Is(err, ErrValidation):
		http.Error(w, jsonError(err), http.StatusBadRequest)
		return
	case errors.Is(err, ErrAppointmentNotFound):
		http.Error(w, `{"error": "appointment not found"}`, http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("failed to change appointment status", "error", err, "appointment_id", appointmentID)
		http.Error(w, `{"error": "failed to change status"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func jsonError(err error) string {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(b)
}
