package appointments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/wolfman30/hospital-platform/pkg/logging"
)

func expectStatsQueries(mock pgxmock.PgxPoolIface, total, pending, cancelled, patients, doctors int64) {
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments WHERE true`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(total))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments WHERE status = 'pending'`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(pending))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments WHERE status = 'cancelled'`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(cancelled))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM profiles WHERE role = 'patient'`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(patients))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM doctors`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(doctors))
}

func TestStatsRepository_GetStats_AllTime(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	expectStatsQueries(mock, 120, 14, 9, 80, 6)

	repo := NewStatsRepositoryWithDB(mock)
	stats, err := repo.GetStats(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}

	if stats.TotalAppointments != 120 {
		t.Errorf("TotalAppointments = %d, want 120", stats.TotalAppointments)
	}
	if stats.PendingAppointments != 14 {
		t.Errorf("PendingAppointments = %d, want 14", stats.PendingAppointments)
	}
	if stats.CancelledAppointments != 9 {
		t.Errorf("CancelledAppointments = %d, want 9", stats.CancelledAppointments)
	}
	if stats.TotalPatients != 80 {
		t.Errorf("TotalPatients = %d, want 80", stats.TotalPatients)
	}
	if stats.TotalDoctors != 6 {
		t.Errorf("TotalDoctors = %d, want 6", stats.TotalDoctors)
	}
	if stats.PeriodStart != "all-time" {
		t.Errorf("PeriodStart = %q, want 'all-time'", stats.PeriodStart)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestStatsRepository_GetStats_WithTimeRange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments WHERE true AND created_at >= \$1 AND created_at < \$2`).
		WithArgs(start, end).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(20)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments WHERE status = 'pending' AND created_at >= \$1 AND created_at < \$2`).
		WithArgs(start, end).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(5)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments WHERE status = 'cancelled' AND created_at >= \$1 AND created_at < \$2`).
		WithArgs(start, end).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM profiles WHERE role = 'patient'`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(40)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM doctors`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(4)))

	repo := NewStatsRepositoryWithDB(mock)
	stats, err := repo.GetStats(context.Background(), &start, &end)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}

	if stats.TotalAppointments != 20 {
		t.Errorf("TotalAppointments = %d, want 20", stats.TotalAppointments)
	}
	if stats.PeriodStart != start.Format(time.RFC3339) {
		t.Errorf("PeriodStart = %q, want %q", stats.PeriodStart, start.Format(time.RFC3339))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestStatsHandler_GetStats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	expectStatsQueries(mock, 50, 7, 3, 30, 5)

	handler := NewStatsHandler(NewStatsRepositoryWithDB(mock), logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	rec := httptest.NewRecorder()
	handler.GetStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var stats Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stats.TotalAppointments != 50 {
		t.Errorf("TotalAppointments = %d, want 50", stats.TotalAppointments)
	}
	if stats.TotalDoctors != 5 {
		t.Errorf("TotalDoctors = %d, want 5", stats.TotalDoctors)
	}
}

func TestStatsHandler_RequiresBothStartAndEnd(t *testing.T) {
	handler := NewStatsHandler(NewStatsRepositoryWithDB(nil), logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats?start=2026-01-01T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	handler.GetStats(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/stats?end=2026-02-01T00:00:00Z", nil)
	rec = httptest.NewRecorder()
	handler.GetStats(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestStatsHandler_RejectsInvertedRange(t *testing.T) {
	handler := NewStatsHandler(NewStatsRepositoryWithDB(nil), logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats?start=2026-02-01T00:00:00Z&end=2026-01-01T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	handler.GetStats(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}
