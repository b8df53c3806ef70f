package prescriptions

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/hospital-platform/internal/identity"
	"github.com/wolfman30/hospital-platform/pkg/logging"
)

// Handler handles HTTP requests for prescriptions.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new prescriptions handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("prescriptions: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListMine handles GET /patient/prescriptions.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "missing identity"}`, http.StatusUnauthorized)
		return
	}

	list, err := h.repo.ListByPatient(r.Context(), id.UserID)
	if err != nil {
		h.logger.Error("failed to list prescriptions", "error", err, "patient_id", id.UserID)
		http.Error(w, `{"error": "failed to list prescriptions"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Prescription{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"prescriptions": list,
		"count":         len(list),
	})
}

// GetByAppointment handles GET /patient/appointments/{appointmentID}/prescription.
// An appointment without a prescription is a normal state: the response is
// 200 with a null body, not a 404.
func (h *Handler) GetByAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "appointmentID")

	p, err := h.repo.GetByAppointment(r.Context(), appointmentID)
	if err != nil {
		h.logger.Error("failed to load prescription", "error", err, "appointment_id", appointmentID)
		http.Error(w, `{"error": "failed to load prescription"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// ListAll handles GET /admin/prescriptions.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list prescriptions", "error", err)
		http.Error(w, `{"error": "failed to list prescriptions"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Prescription{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"prescriptions": list,
		"count":         len(list),
	})
}

// Create handles POST /admin/prescriptions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req UpsertPrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	issue, expiry, err := req.Validate()
	if err != nil {
		http.Error(w, jsonError(err), http.StatusBadRequest)
		return
	}

	created, err := h.repo.Create(r.Context(), &Prescription{
		AppointmentID: req.AppointmentID,
		PatientID:     req.PatientID,
		DoctorID:      req.DoctorID,
		Medications:   req.Medications,
		Dosage:        req.Dosage,
		Instructions:  req.Instructions,
		IssueDate:     issue,
		ExpiryDate:    expiry,
		Status:        req.EffectiveStatus(),
	})
	if err != nil {
		h.logger.Error("failed to create prescription", "error", err, "appointment_id", req.AppointmentID)
		http.Error(w, `{"error": "failed to create prescription"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("prescription created", "prescription_id", created.ID, "appointment_id", created.AppointmentID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// Get handles GET /admin/prescriptions/{prescriptionID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	prescriptionID := chi.URLParam(r, "prescriptionID")

	p, err := h.repo.GetByID(r.Context(), prescriptionID)
	if errors.Is(err, ErrPrescriptionNotFound) {
		http.Error(w, `{"error": "prescription not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load prescription", "error", err, "prescription_id", prescriptionID)
		http.Error(w, `{"error": "failed to load prescription"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// Update handles PUT /admin/prescriptions/{prescriptionID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	prescriptionID := chi.URLParam(r, "prescriptionID")

	var req UpsertPrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	issue, expiry, err := req.Validate()
	if err != nil {
		http.Error(w, jsonError(err), http.StatusBadRequest)
		return
	}

	updated, err := h.repo.Update(r.Context(), &Prescription{
		ID:           prescriptionID,
		Medications:  req.Medications,
		Dosage:       req.Dosage,
		Instructions: req.Instructions,
		IssueDate:    issue,
		ExpiryDate:   expiry,
		Status:       req.EffectiveStatus(),
	})
	if errors.Is(err, ErrPrescriptionNotFound) {
		http.Error(w, `{"error": "prescription not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to update prescription", "error", err, "prescription_id", prescriptionID)
		http.Error(w, `{"error": "failed to update prescription"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// Delete handles DELETE /admin/prescriptions/{prescriptionID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	prescriptionID := chi.URLParam(r, "prescriptionID")

	err := h.repo.Delete(r.Context(), prescriptionID)
	if errors.Is(err, ErrPrescriptionNotFound) {
		http.Error(w, `{"error": "prescription not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to delete prescription", "error", err, "prescription_id", prescriptionID)
		http.Error(w, `{"error": "failed to delete prescription"}`, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func jsonError(err error) string {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(b)
}
