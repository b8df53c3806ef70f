package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/hospital-platform/internal/appointments"
	"github.com/wolfman30/hospital-platform/internal/auth"
	"github.com/wolfman30/hospital-platform/internal/doctors"
	"github.com/wolfman30/hospital-platform/internal/gate"
	httpmiddleware "github.com/wolfman30/hospital-platform/internal/http/middleware"
	"github.com/wolfman30/hospital-platform/internal/prescriptions"
	"github.com/wolfman30/hospital-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger               *logging.Logger
	AuthHandler          *auth.Handler
	TokenVerifier        httpmiddleware.TokenVerifier
	Gate                 *gate.Gate
	DoctorsHandler       *doctors.Handler
	AppointmentsHandler  *appointments.Handler
	StatsHandler         *appointments.StatsHandler
	PrescriptionsHandler *prescriptions.Handler
	MetricsHandler       http.Handler
	CORSAllowedOrigins   []string

	// Per-IP token bucket applied to /auth to slow credential stuffing.
	AuthRateLimit float64
	AuthRateBurst int
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status": "ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.AuthHandler != nil {
			public.Route("/auth", func(r chi.Router) {
				if cfg.AuthRateLimit > 0 {
					r.Use(httpmiddleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst))
				}
				r.Post("/register", cfg.AuthHandler.Register)
				r.Post("/login", cfg.AuthHandler.Login)
			})
		}
		if cfg.DoctorsHandler != nil {
			public.Get("/doctors", cfg.DoctorsHandler.ListAvailable)
		}
	})

	// Authenticated routes
	if cfg.TokenVerifier != nil {
		r.Group(func(authed chi.Router) {
			authed.Use(httpmiddleware.Authenticate(cfg.TokenVerifier))

			if cfg.AuthHandler != nil {
				authed.Get("/auth/me", cfg.AuthHandler.Me)
			}

			authed.Route("/patient", func(patient chi.Router) {
				patient.Use(httpmiddleware.RequireRole(cfg.Gate, gate.PatientHome))
				if cfg.AppointmentsHandler != nil {
					patient.Get("/availability", cfg.AppointmentsHandler.Availability)
					patient.Get("/appointments", cfg.AppointmentsHandler.ListMine)
					patient.Post("/appointments", cfg.AppointmentsHandler.Book)
					patient.Post("/appointments/{appointmentID}/cancel", cfg.AppointmentsHandler.Cancel)
				}
				if cfg.PrescriptionsHandler != nil {
					patient.Get("/prescriptions", cfg.PrescriptionsHandler.ListMine)
					patient.Get("/appointments/{appointmentID}/prescription", cfg.PrescriptionsHandler.GetByAppointment)
				}
			})

			authed.Route("/admin", func(admin chi.Router) {
				admin.Use(httpmiddleware.RequireRole(cfg.Gate, gate.AdminHome))
				if cfg.DoctorsHandler != nil {
					admin.Get("/doctors", cfg.DoctorsHandler.ListAll)
					admin.Post("/doctors", cfg.DoctorsHandler.Create)
					admin.Get("/doctors/{doctorID}", cfg.DoctorsHandler.Get)
					admin.Put("/doctors/{doctorID}", cfg.DoctorsHandler.Update)
					admin.Delete("/doctors/{doctorID}", cfg.DoctorsHandler.Delete)
				}
				if cfg.AppointmentsHandler != nil {
					admin.Get("/appointments", cfg.AppointmentsHandler.ListAll)
					admin.Put("/appointments/{appointmentID}/status", cfg.AppointmentsHandler.SetStatus)
				}
				if cfg.PrescriptionsHandler != nil {
					admin.Get("/prescriptions", cfg.PrescriptionsHandler.ListAll)
					admin.Post("/prescriptions", cfg.PrescriptionsHandler.Create)
					admin.Get("/prescriptions/{prescriptionID}", cfg.PrescriptionsHandler.Get)
					admin.Put("/prescriptions/{prescriptionID}", cfg.PrescriptionsHandler.Update)
					admin.Delete("/prescriptions/{prescriptionID}", cfg.PrescriptionsHandler.Delete)
				}
				if cfg.StatsHandler != nil {
					admin.Get("/stats", cfg.StatsHandler.GetStats)
				}
			})
		})
	}

	return r
}
