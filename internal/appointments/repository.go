package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines the interface for appointment storage.
type Repository interface {
	Insert(ctx context.Context, a *Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error)
	ListAll(ctx context.Context) ([]*Appointment, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Appointment, error)
	BookedStartTimes(ctx context.Context, doctorID string, date time.Time) ([]string, error)
}

// appointmentsDB is the subset of pgx used here; pgxmock satisfies it.
type appointmentsDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PGRepository persists appointments in Postgres.
type PGRepository struct {
	db appointmentsDB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PGRepository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db appointmentsDB) *PGRepository {
	return &PGRepository{db: db}
}

const joinedColumns = `a.id, a.patient_id, a.doctor_id, d.name, d.specialization,
	       a.appointment_date, a.start_time, a.end_time, a.reason, a.notes, a.status,
	       a.created_at, a.updated_at`

// uniqueViolation is the Postgres SQLSTATE for constraint 23505. The partial
// unique index on (doctor_id, appointment_date, start_time) for non-cancelled
// rows is the authoritative double-booking guard.
const uniqueViolation = "23505"

// Insert creates the appointment row and returns it joined with the
// doctor's display fields.
func (r *PGRepository) Insert(ctx context.Context, a *Appointment) (*Appointment, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	row := r.db.QueryRow(ctx,
		`WITH inserted AS (
		    INSERT INTO appointments
		        (id, patient_id, doctor_id, appointment_date, start_time, end_time, reason, notes, status)
		    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		    RETURNING *
		)
		SELECT i.id, i.patient_id, i.doctor_id, d.name, d.specialization,
		       i.appointment_date, i.start_time, i.end_time, i.reason, i.notes, i.status,
		       i.created_at, i.updated_at
		FROM inserted i
		JOIN doctors d ON d.id = i.doctor_id`,
		a.ID, a.PatientID, a.DoctorID, a.Date, a.StartTime, a.EndTime, a.Reason, a.Notes, string(a.Status),
	)

	created, err := scanAppointment(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("appointments: insert: %w", err)
	}
	return created, nil
}

// GetByID loads one appointment with doctor display fields.
func (r *PGRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+joinedColumns+`
		 FROM appointments a
		 JOIN doctors d ON d.id = a.doctor_id
		 WHERE a.id = $1`, id,
	)
	a, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: load: %w", err)
	}
	return a, nil
}

// ListByPatient returns the patient's appointments, oldest date first.
func (r *PGRepository) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+joinedColumns+`
		 FROM appointments a
		 JOIN doctors d ON d.id = a.doctor_id
		 WHERE a.patient_id = $1
		 ORDER BY a.appointment_date, a.start_time`, patientID,
	)
	if err != nil {
		return nil, fmt.Errorf("appointments: list by patient: %w", err)
	}
	return collectAppointments(rows)
}

// ListAll returns every appointment for the admin views.
func (r *PGRepository) ListAll(ctx context.Context) ([]*Appointment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+joinedColumns+`
		 FROM appointments a
		 JOIN doctors d ON d.id = a.doctor_id
		 ORDER BY a.appointment_date, a.start_time`,
	)
	if err != nil {
		return nil, fmt.Errorf("appointments: list all: %w", err)
	}
	return collectAppointments(rows)
}

// UpdateStatus sets the status, refreshes updated_at and returns the row.
func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Appointment, error) {
	row := r.db.QueryRow(ctx,
		`WITH updated AS (
		    UPDATE appointments SET status = $1, updated_at = NOW()
		    WHERE id = $2
		    RETURNING *
		)
		SELECT u.id, u.patient_id, u.doctor_id, d.name, d.specialization,
		       u.appointment_date, u.start_time, u.end_time, u.reason, u.notes, u.status,
		       u.created_at, u.updated_at
		FROM updated u
		JOIN doctors d ON d.id = u.doctor_id`,
		string(status), id,
	)
	a, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: update status: %w", err)
	}
	return a, nil
}

// BookedStartTimes reports start times consumed by non-cancelled
// appointments for the doctor on the given day. Cancelled rows are excluded
// so a cancellation frees the slot for re-booking.
func (r *PGRepository) BookedStartTimes(ctx context.Context, doctorID string, date time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT start_time FROM appointments
		 WHERE doctor_id = $1 AND appointment_date = $2 AND status <> 'cancelled'`,
		doctorID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("appointments: booked start times: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var start string
		if err := rows.Scan(&start); err != nil {
			return nil, fmt.Errorf("appointments: scan start time: %w", err)
		}
		out = append(out, start)
	}
	return out, rows.Err()
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	a := &Appointment{}
	var status string
	err := row.Scan(
		&a.ID, &a.PatientID, &a.DoctorID, &a.DoctorName, &a.DoctorSpecialization,
		&a.Date, &a.StartTime, &a.EndTime, &a.Reason, &a.Notes, &status,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = Status(status)
	return a, nil
}

func collectAppointments(rows pgx.Rows) ([]*Appointment, error) {
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
