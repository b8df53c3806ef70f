package prescriptions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines the interface for prescription storage.
type Repository interface {
	Create(ctx context.Context, p *Prescription) (*Prescription, error)
	GetByID(ctx context.Context, id string) (*Prescription, error)
	// GetByAppointment returns (nil, nil) when the appointment has no
	// prescription; absence is a normal state, not an error.
	GetByAppointment(ctx context.Context, appointmentID string) (*Prescription, error)
	ListByPatient(ctx context.Context, patientID string) ([]*Prescription, error)
	ListAll(ctx context.Context) ([]*Prescription, error)
	Update(ctx context.Context, p *Prescription) (*Prescription, error)
	Delete(ctx context.Context, id string) error
}

// prescriptionsDB is the subset of pgx used here; pgxmock satisfies it.
type prescriptionsDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PGRepository persists prescriptions in Postgres.
type PGRepository struct {
	db prescriptionsDB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	if pool == nil {
		panic("prescriptions: pgx pool required")
	}
	return &PGRepository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db prescriptionsDB) *PGRepository {
	return &PGRepository{db: db}
}

const prescriptionColumns = `id, appointment_id, patient_id, doctor_id, medications, dosage,
	       instructions, issue_date, expiry_date, status, created_at, updated_at`

// Create inserts the prescription and returns the stored row.
func (r *PGRepository) Create(ctx context.Context, p *Prescription) (*Prescription, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO prescriptions
		     (id, appointment_id, patient_id, doctor_id, medications, dosage, instructions, issue_date, expiry_date, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+prescriptionColumns,
		p.ID, p.AppointmentID, p.PatientID, p.DoctorID, p.Medications, p.Dosage,
		p.Instructions, p.IssueDate, p.ExpiryDate, string(p.Status),
	)
	created, err := scanPrescription(row)
	if err != nil {
		return nil, fmt.Errorf("prescriptions: insert: %w", err)
	}
	return created, nil
}

// GetByID loads one prescription.
func (r *PGRepository) GetByID(ctx context.Context, id string) (*Prescription, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+prescriptionColumns+` FROM prescriptions WHERE id = $1`, id)
	p, err := scanPrescription(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("prescriptions: load: %w", err)
	}
	return p, nil
}

// GetByAppointment returns the appointment's prescription, or (nil, nil)
// when none has been issued.
func (r *PGRepository) GetByAppointment(ctx context.Context, appointmentID string) (*Prescription, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+prescriptionColumns+` FROM prescriptions WHERE appointment_id = $1`, appointmentID)
	p, err := scanPrescription(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("prescriptions: load by appointment: %w", err)
	}
	return p, nil
}

// ListByPatient returns the patient's prescriptions, newest issue first.
func (r *PGRepository) ListByPatient(ctx context.Context, patientID string) ([]*Prescription, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+prescriptionColumns+` FROM prescriptions
		 WHERE patient_id = $1
		 ORDER BY issue_date DESC, created_at DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("prescriptions: list by patient: %w", err)
	}
	defer rows.Close()

	var out []*Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, fmt.Errorf("prescriptions: scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListAll returns every prescription, newest issue first. Admin view.
func (r *PGRepository) ListAll(ctx context.Context) ([]*Prescription, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+prescriptionColumns+` FROM prescriptions
		 ORDER BY issue_date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("prescriptions: list: %w", err)
	}
	defer rows.Close()

	var out []*Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, fmt.Errorf("prescriptions: scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields and returns the stored row.
func (r *PGRepository) Update(ctx context.Context, p *Prescription) (*Prescription, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE prescriptions
		 SET medications = $1, dosage = $2, instructions = $3, issue_date = $4,
		     expiry_date = $5, status = $6, updated_at = NOW()
		 WHERE id = $7
		 RETURNING `+prescriptionColumns,
		p.Medications, p.Dosage, p.Instructions, p.IssueDate, p.ExpiryDate, string(p.Status), p.ID,
	)
	updated, err := scanPrescription(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("prescriptions: update: %w", err)
	}
	return updated, nil
}

// Delete removes the prescription.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("prescriptions: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPrescriptionNotFound
	}
	return nil
}

func scanPrescription(row pgx.Row) (*Prescription, error) {
	p := &Prescription{}
	var status string
	err := row.Scan(
		&p.ID, &p.AppointmentID, &p.PatientID, &p.DoctorID, &p.Medications, &p.Dosage,
		&p.Instructions, &p.IssueDate, &p.ExpiryDate, &status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = Status(status)
	return p, nil
}

var _ Repository = (*PGRepository)(nil)
