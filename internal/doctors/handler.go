package doctors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/hospital-platform/pkg/logging"
)

// Handler handles HTTP requests for doctors.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new doctors handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListDoctorsResponse is the response for listing doctors.
type ListDoctorsResponse struct {
	Doctors []*Doctor `json:"doctors"`
	Count   int       `json:"count"`
}

// ListAvailable handles GET /doctors. Only doctors flagged available are
// returned; this is the booking candidate list shown to patients.
func (h *Handler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// ListAll handles GET /admin/doctors.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, onlyAvailable bool) {
	list, err := h.repo.List(r.Context(), onlyAvailable)
	if err != nil {
		h.logger.Error("failed to list doctors", "error", err)
		http.Error(w, `{"error": "failed to list doctors"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Doctor{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListDoctorsResponse{Doctors: list, Count: len(list)})
}

// Create handles POST /admin/doctors.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req UpsertDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	doctor, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			http.Error(w, jsonError(err), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to create doctor", "error", err)
		http.Error(w, `{"error": "failed to create doctor"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("doctor created", "id", doctor.ID, "name", doctor.Name)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(doctor)
}

// Get handles GET /admin/doctors/{doctorID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "doctorID")

	doctor, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrDoctorNotFound) {
		http.Error(w, `{"error": "doctor not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load doctor", "error", err, "id", id)
		http.Error(w, `{"error": "failed to load doctor"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doctor)
}

// Update handles PUT /admin/doctors/{doctorID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "doctorID")

	var req UpsertDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	doctor, err := h.repo.Update(r.Context(), id, &req)
	if errors.Is(err, ErrDoctorNotFound) {
		http.Error(w, `{"error": "doctor not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		if errors.Is(err, ErrValidation) {
			http.Error(w, jsonError(err), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to update doctor", "error", err, "id", id)
		http.Error(w, `{"error": "failed to update doctor"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doctor)
}

// Delete handles DELETE /admin/doctors/{doctorID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "doctorID")

	err := h.repo.Delete(r.Context(), id)
	if errors.Is(err, ErrDoctorNotFound) {
		http.Error(w, `{"error": "doctor not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to delete doctor", "error", err, "id", id)
		http.Error(w, `{"error": "failed to delete doctor"}`, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func jsonError(err error) string {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(b)
}
