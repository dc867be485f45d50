package postgres

import (
	"context"
	"database/sql"

	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
)

// PatientPostgres is a PostgreSQL implementation of repository.PatientRepository.
type PatientPostgres struct {
	db *sql.DB
}

// NewPatientPostgres creates a new PatientPostgres repository.
func NewPatientPostgres(db *sql.DB) *PatientPostgres {
	return &PatientPostgres{db: db}
}

var _ repository.PatientRepository = (*PatientPostgres)(nil)

const patientColumns = `id, patient_uid, name, phone, email, gender, dob, weight, height,
		assigned_doctor, doctor_id, status, qr_filename, created_at, updated_at`

func scanPatient(s scanner) (*model.Patient, error) {
	var p model.Patient
	if err := s.Scan(
		&p.ID,
		&p.UID,
		&p.Name,
		&p.Phone,
		&p.Email,
		&p.Gender,
		&p.DOB,
		&p.Weight,
		&p.Height,
		&p.AssignedDoctor,
		&p.DoctorID,
		&p.Status,
		&p.QRFilename,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientPostgres) queryPatients(ctx context.Context, q string, args ...any) ([]model.Patient, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts a new patient row and returns the stored record.
func (r *PatientPostgres) Create(ctx context.Context, p *model.Patient) (*model.Patient, error) {
	q := `
		INSERT INTO patients (patient_uid, name, phone, email, gender, dob, weight, height,
			assigned_doctor, doctor_id, status, qr_filename)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + patientColumns
	row := r.db.QueryRowContext(ctx, q,
		p.UID,
		p.Name,
		p.Phone,
		p.Email,
		p.Gender,
		p.DOB,
		p.Weight,
		p.Height,
		p.AssignedDoctor,
		p.DoctorID,
		p.Status,
		p.QRFilename,
	)
	return scanPatient(row)
}

// FindByID fetches a single patient by its numeric id.
func (r *PatientPostgres) FindByID(ctx context.Context, id int64) (*model.Patient, error) {
	q := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	return scanPatient(r.db.QueryRowContext(ctx, q, id))
}

// FindByUID fetches a single patient by its public UID.
func (r *PatientPostgres) FindByUID(ctx context.Context, uid string) (*model.Patient, error) {
	q := `SELECT ` + patientColumns + ` FROM patients WHERE patient_uid = $1`
	return scanPatient(r.db.QueryRowContext(ctx, q, uid))
}

// ExistsByPhone checks phone uniqueness before registration.
func (r *PatientPostgres) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM patients WHERE phone = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, phone).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// List returns all patients, newest first.
func (r *PatientPostgres) List(ctx context.Context) ([]model.Patient, error) {
	q := `SELECT ` + patientColumns + ` FROM patients ORDER BY id DESC`
	return r.queryPatients(ctx, q)
}

// ListForDoctor returns the patients assigned to a doctor.
func (r *PatientPostgres) ListForDoctor(ctx context.Context, doctorID int64, doctorName string) ([]model.Patient, error) {
	q := `SELECT ` + patientColumns + ` FROM patients
		WHERE doctor_id = $1 OR lower(assigned_doctor) = lower($2)
		ORDER BY created_at DESC, id DESC`
	return r.queryPatients(ctx, q, doctorID, doctorName)
}

// Update changes the reception-editable fields and returns the updated row.
func (r *PatientPostgres) Update(ctx context.Context, id int64, u model.PatientUpdate) (*model.Patient, error) {
	q := `
		UPDATE patients
		SET name = $1, phone = $2, email = $3, gender = $4, updated_at = now()
		WHERE id = $5
		RETURNING ` + patientColumns
	return scanPatient(r.db.QueryRowContext(ctx, q, u.Name, u.Phone, u.Email, u.Gender, id))
}

// Delete removes a patient by id. It does not return an error if the row does not exist.
func (r *PatientPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM patients WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// Count returns the number of registered patients.
func (r *PatientPostgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
