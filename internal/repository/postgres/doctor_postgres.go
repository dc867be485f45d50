package postgres

import (
	"context"
	"database/sql"

	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
)

// DoctorPostgres is a PostgreSQL implementation of repository.DoctorRepository.
type DoctorPostgres struct {
	db *sql.DB
}

// NewDoctorPostgres creates a new DoctorPostgres repository.
func NewDoctorPostgres(db *sql.DB) *DoctorPostgres {
	return &DoctorPostgres{db: db}
}

var _ repository.DoctorRepository = (*DoctorPostgres)(nil)

const doctorColumns = `id, username, name, department, specialization, license_no, password_hash, status, created_at`

func scanDoctor(s scanner) (*model.Doctor, error) {
	var d model.Doctor
	if err := s.Scan(
		&d.ID,
		&d.Username,
		&d.Name,
		&d.Department,
		&d.Specialization,
		&d.LicenseNo,
		&d.PasswordHash,
		&d.Status,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a doctor account.
func (r *DoctorPostgres) Create(ctx context.Context, d *model.Doctor) (*model.Doctor, error) {
	q := `
		INSERT INTO doctors (username, name, department, specialization, license_no, password_hash, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + doctorColumns
	row := r.db.QueryRowContext(ctx, q,
		d.Username,
		d.Name,
		d.Department,
		d.Specialization,
		d.LicenseNo,
		d.PasswordHash,
		d.Status,
	)
	return scanDoctor(row)
}

// FindByID fetches a doctor by id.
func (r *DoctorPostgres) FindByID(ctx context.Context, id int64) (*model.Doctor, error) {
	q := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1`
	return scanDoctor(r.db.QueryRowContext(ctx, q, id))
}

// FindByUsername fetches a doctor by login name, ignoring case.
func (r *DoctorPostgres) FindByUsername(ctx context.Context, username string) (*model.Doctor, error) {
	q := `SELECT ` + doctorColumns + ` FROM doctors WHERE lower(username) = lower($1) LIMIT 1`
	return scanDoctor(r.db.QueryRowContext(ctx, q, username))
}

// FindApprovedByName fetches the approved doctor registered under name.
func (r *DoctorPostgres) FindApprovedByName(ctx context.Context, name string) (*model.Doctor, error) {
	q := `SELECT ` + doctorColumns + ` FROM doctors WHERE name = $1 AND status = $2 ORDER BY id LIMIT 1`
	return scanDoctor(r.db.QueryRowContext(ctx, q, name, model.DoctorApproved))
}

// ListByStatus lists doctors, optionally filtered by status.
func (r *DoctorPostgres) ListByStatus(ctx context.Context, status string) ([]model.Doctor, error) {
	q := `SELECT ` + doctorColumns + ` FROM doctors WHERE ($1 = '' OR status = $1) ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Doctor, 0)
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus approves or rejects a doctor.
func (r *DoctorPostgres) UpdateStatus(ctx context.Context, id int64, status string) error {
	const q = `UPDATE doctors SET status = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
