package appointments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wolfman30/hospital-platform/pkg/logging"
)

// Stats are the admin dashboard headline numbers.
type Stats struct {
	TotalAppointments     int64  `json:"total_appointments"`
	PendingAppointments   int64  `json:"pending_appointments"`
	CancelledAppointments int64  `json:"cancelled_appointments"`
	TotalPatients         int64  `json:"total_patients"`
	TotalDoctors          int64  `json:"total_doctors"`
	PeriodStart           string `json:"period_start"`
	PeriodEnd             string `json:"period_end"`
}

// statsDB defines the database interface needed by StatsRepository.
type statsDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StatsRepository aggregates dashboard metrics from the database.
type StatsRepository struct {
	db statsDB
}

// NewStatsRepository creates a stats repository backed by a pgx pool.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	if pool == nil {
		panic("appointments: pgx pool required for stats")
	}
	return &StatsRepository{db: pool}
}

// NewStatsRepositoryWithDB allows injecting a mock database for testing.
func NewStatsRepositoryWithDB(db statsDB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetStats retrieves aggregated dashboard metrics. Optional start/end times
// restrict the appointment counts by creation time; if nil, stats are
// all-time. Patient and doctor totals are always all-time.
func (r *StatsRepository) GetStats(ctx context.Context, start, end *time.Time) (*Stats, error) {
	stats := &Stats{}

	var timeFilter string
	var args []any
	if start != nil && end != nil {
		timeFilter = " AND created_at >= $1 AND created_at < $2"
		args = append(args, *start, *end)
		stats.PeriodStart = start.Format(time.RFC3339)
		stats.PeriodEnd = end.Format(time.RFC3339)
	} else {
		stats.PeriodStart = "all-time"
		stats.PeriodEnd = "now"
	}

	totalQuery := `SELECT COUNT(*) FROM appointments WHERE true` + timeFilter
	if err := r.db.QueryRow(ctx, totalQuery, args...).Scan(&stats.TotalAppointments); err != nil {
		return nil, fmt.Errorf("appointments stats: count appointments: %w", err)
	}

	pendingQuery := `SELECT COUNT(*) FROM appointments WHERE status = 'pending'` + timeFilter
	if err := r.db.QueryRow(ctx, pendingQuery, args...).Scan(&stats.PendingAppointments); err != nil {
		return nil, fmt.Errorf("appointments stats: count pending: %w", err)
	}

	cancelledQuery := `SELECT COUNT(*) FROM appointments WHERE status = 'cancelled'` + timeFilter
	if err := r.db.QueryRow(ctx, cancelledQuery, args...).Scan(&stats.CancelledAppointments); err != nil {
		return nil, fmt.Errorf("appointments stats: count cancelled: %w", err)
	}

	patientsQuery := `SELECT COUNT(*) FROM profiles WHERE role = 'patient'`
	if err := r.db.QueryRow(ctx, patientsQuery).Scan(&stats.TotalPatients); err != nil {
		return nil, fmt.Errorf("appointments stats: count patients: %w", err)
	}

	doctorsQuery := `SELECT COUNT(*) FROM doctors`
	if err := r.db.QueryRow(ctx, doctorsQuery).Scan(&stats.TotalDoctors); err != nil {
		return nil, fmt.Errorf("appointments stats: count doctors: %w", err)
	}

	return stats, nil
}

// StatsHandler serves the admin dashboard metrics.
type StatsHandler struct {
	repo   *StatsRepository
	logger *logging.Logger
}

// NewStatsHandler creates a new stats HTTP handler.
func NewStatsHandler(repo *StatsRepository, logger *logging.Logger) *StatsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsHandler{
		repo:   repo,
		logger: logger,
	}
}

// GetStats returns the dashboard metrics.
// GET /admin/stats
// Query params:
//   - start: RFC3339 timestamp for period start (optional)
//   - end: RFC3339 timestamp for period end (optional)
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	var start, end *time.Time
	if s := r.URL.Query().Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, `{"error": "invalid start time, use RFC3339 format"}`, http.StatusBadRequest)
			return
		}
		start = &t
	}
	if e := r.URL.Query().Get("end"); e != "" {
		t, err := time.Parse(time.RFC3339, e)
		if err != nil {
			http.Error(w, `{"error": "invalid end time, use RFC3339 format"}`, http.StatusBadRequest)
			return
		}
		end = &t
	}

	if (start == nil) != (end == nil) {
		http.Error(w, `{"error": "both start and end must be provided, or neither"}`, http.StatusBadRequest)
		return
	}
	if start != nil && start.After(*end) {
		http.Error(w, `{"error": "start must not be after end"}`, http.StatusBadRequest)
		return
	}

	stats, err := h.repo.GetStats(r.Context(), start, end)
	if err != nil {
		h.logger.Error("failed to get dashboard stats", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		h.logger.Error("failed to encode dashboard stats", "error", err)
	}
}
