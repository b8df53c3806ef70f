package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wolfman30/hospital-platform/internal/identity"
)

// Repository defines the interface for profile storage.
type Repository interface {
	Create(ctx context.Context, p *Profile) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	GetByID(ctx context.Context, id string) (*Profile, error)
}

// profilesDB is the subset of pgx used here; pgxmock satisfies it.
type profilesDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGRepository persists profiles in Postgres.
type PGRepository struct {
	db profilesDB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	if pool == nil {
		panic("auth: pgx pool required")
	}
	return &PGRepository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db profilesDB) *PGRepository {
	return &PGRepository{db: db}
}

const profileColumns = `id, email, first_name, last_name, phone, role, password_hash, created_at, updated_at`

const uniqueViolation = "23505"

// Create inserts the profile and returns the stored row.
func (r *PGRepository) Create(ctx context.Context, p *Profile) (*Profile, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO profiles (id, email, first_name, last_name, phone, role, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+profileColumns,
		p.ID, p.Email, p.FirstName, p.LastName, p.Phone, string(p.Role), p.PasswordHash,
	)
	created, err := scanProfile(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("auth: insert profile: %w", err)
	}
	return created, nil
}

// GetByEmail loads a profile for login. The caller compares the hash.
func (r *PGRepository) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email)
	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth: load profile by email: %w", err)
	}
	return p, nil
}

// GetByID loads one profile.
func (r *PGRepository) GetByID(ctx context.Context, id string) (*Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth: load profile: %w", err)
	}
	return p, nil
}

func scanProfile(row pgx.Row) (*Profile, error) {
	p := &Profile{}
	var role string
	err := row.Scan(&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Phone, &role, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Role = identity.Role(role)
	return p, nil
}

var _ Repository = (*PGRepository)(nil)
