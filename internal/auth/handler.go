package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/hospital-platform/internal/identity"
	"github.com/wolfman30/hospital-platform/pkg/logging"
)

// Handler handles HTTP requests for auth.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("auth: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	session, err := h.service.Register(r.Context(), &req)
	switch {
	case errors.Is(err, ErrValidation):
		http.Error(w, jsonError(err.Error()), http.StatusBadRequest)
		return
	case errors.Is(err, ErrEmailTaken):
		http.Error(w, jsonError("email already registered"), http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("registration failed", "error", err)
		http.Error(w, `{"error": "registration failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(session)
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	session, err := h.service.Login(r.Context(), &req)
	if errors.Is(err, ErrInvalidCredentials) {
		http.Error(w, jsonError(FriendlyAuthError(err)), http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.logger.Error("login failed", "error", err)
		http.Error(w, `{"error": "login failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "missing identity"}`, http.StatusUnauthorized)
		return
	}

	p, err := h.service.ProfileFor(r.Context(), id.UserID)
	if errors.Is(err, ErrProfileNotFound) {
		http.Error(w, `{"error": "profile not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load profile", "error", err, "user_id", id.UserID)
		http.Error(w, `{"error": "failed to load profile"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

func jsonError(msg string) string {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return string(b)
}
