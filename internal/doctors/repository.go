package doctors

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines the interface for doctor storage.
type Repository interface {
	Create(ctx context.Context, req *UpsertDoctorRequest) (*Doctor, error)
	GetByID(ctx context.Context, id string) (*Doctor, error)
	List(ctx context.Context, onlyAvailable bool) ([]*Doctor, error)
	Update(ctx context.Context, id string, req *UpsertDoctorRequest) (*Doctor, error)
	Delete(ctx context.Context, id string) error
}

// doctorsDB is the subset of pgx used by the repository; pgxmock satisfies it.
type doctorsDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PGRepository persists doctors in Postgres.
type PGRepository struct {
	db doctorsDB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	if pool == nil {
		panic("doctors: pgx pool required")
	}
	return &PGRepository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db doctorsDB) *PGRepository {
	return &PGRepository{db: db}
}

const doctorColumns = `id, name, specialization, email, phone, schedule, available, created_at, updated_at`

// Create inserts a doctor row.
func (r *PGRepository) Create(ctx context.Context, req *UpsertDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d := &Doctor{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO doctors (id, name, specialization, email, phone, schedule, available)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+doctorColumns,
		uuid.New().String(), req.Name, req.Specialization, req.Email, req.Phone, req.Schedule, req.IsAvailable(),
	).Scan(&d.ID, &d.Name, &d.Specialization, &d.Email, &d.Phone, &d.Schedule, &d.Available, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("doctors: insert: %w", err)
	}
	return d, nil
}

// GetByID retrieves a doctor by id.
func (r *PGRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	d := &Doctor{}
	err := r.db.QueryRow(ctx,
		`SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Specialization, &d.Email, &d.Phone, &d.Schedule, &d.Available, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("doctors: load: %w", err)
	}
	return d, nil
}

// List returns doctors ordered by name. With onlyAvailable set, doctors
// flagged unavailable never appear — this backs the booking candidate list.
func (r *PGRepository) List(ctx context.Context, onlyAvailable bool) ([]*Doctor, error) {
	q := `SELECT ` + doctorColumns + ` FROM doctors`
	if onlyAvailable {
		q += ` WHERE available = true`
	}
	q += ` ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("doctors: list: %w", err)
	}
	defer rows.Close()

	var out []*Doctor
	for rows.Next() {
		d := &Doctor{}
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialization, &d.Email, &d.Phone, &d.Schedule, &d.Available, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("doctors: scan: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update rewrites the editable fields and refreshes updated_at.
func (r *PGRepository) Update(ctx context.Context, id string, req *UpsertDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d := &Doctor{}
	err := r.db.QueryRow(ctx,
		`UPDATE doctors
		 SET name=$1, specialization=$2, email=$3, phone=$4, schedule=$5, available=$6, updated_at=NOW()
		 WHERE id=$7
		 RETURNING `+doctorColumns,
		req.Name, req.Specialization, req.Email, req.Phone, req.Schedule, req.IsAvailable(), id,
	).Scan(&d.ID, &d.Name, &d.Specialization, &d.Email, &d.Phone, &d.Schedule, &d.Available, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("doctors: update: %w", err)
	}
	return d, nil
}

// Delete removes a doctor row.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("doctors: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
