package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/amarshaik012/smart-qr-health/internal/database"
	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
)

// PrescriptionPostgres is a PostgreSQL implementation of repository.PrescriptionRepository.
// The medicine list is stored as a JSONB array.
type PrescriptionPostgres struct {
	db *sql.DB
}

// NewPrescriptionPostgres creates a new PrescriptionPostgres repository.
func NewPrescriptionPostgres(db *sql.DB) *PrescriptionPostgres {
	return &PrescriptionPostgres{db: db}
}

var _ repository.PrescriptionRepository = (*PrescriptionPostgres)(nil)

const prescriptionColumns = `id, patient_id, doctor_name, diagnosis, notes, medicines, created_at`

func scanPrescription(s scanner) (*model.Prescription, error) {
	var (
		p   model.Prescription
		raw []byte
	)
	if err := s.Scan(
		&p.ID,
		&p.PatientID,
		&p.DoctorName,
		&p.Diagnosis,
		&p.Notes,
		&raw,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	// Rows written before the list was validated may hold anything; treat those as empty.
	if err := json.Unmarshal(raw, &p.Medicines); err != nil || p.Medicines == nil {
		p.Medicines = []model.PrescribedMedicine{}
	}
	return &p, nil
}

// Create inserts a prescription and marks the patient done in the same transaction.
// It returns sql.ErrNoRows when the patient does not exist.
func (r *PrescriptionPostgres) Create(ctx context.Context, p *model.Prescription) (*model.Prescription, error) {
	meds := p.Medicines
	if meds == nil {
		meds = []model.PrescribedMedicine{}
	}
	raw, err := json.Marshal(meds)
	if err != nil {
		return nil, fmt.Errorf("encode medicines: %w", err)
	}

	var out *model.Prescription
	err = database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		q := `
			INSERT INTO prescriptions (patient_id, doctor_name, diagnosis, notes, medicines)
			VALUES ($1, $2, $3, $4, $5::jsonb)
			RETURNING ` + prescriptionColumns
		stored, err := scanPrescription(tx.QueryRowContext(ctx, q,
			p.PatientID,
			p.DoctorName,
			p.Diagnosis,
			p.Notes,
			string(raw),
		))
		if err != nil {
			return err
		}

		const qPatient = `UPDATE patients SET status = $1, updated_at = now() WHERE id = $2`
		res, err := tx.ExecContext(ctx, qPatient, model.PatientDone, p.PatientID)
		if err != nil {
			return fmt.Errorf("mark patient done: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}

		out = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListByPatient returns the patient's prescriptions, newest first.
func (r *PrescriptionPostgres) ListByPatient(ctx context.Context, patientID int64) ([]model.Prescription, error) {
	q := `SELECT ` + prescriptionColumns + ` FROM prescriptions
		WHERE patient_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Prescription, 0)
	for rows.Next() {
		p, err := scanPrescription(rows)
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

// LatestByPatient returns the most recently written prescription.
func (r *PrescriptionPostgres) LatestByPatient(ctx context.Context, patientID int64) (*model.Prescription, error) {
	q := `SELECT ` + prescriptionColumns + ` FROM prescriptions
		WHERE patient_id = $1
		ORDER BY id DESC
		LIMIT 1`
	return scanPrescription(r.db.QueryRowContext(ctx, q, patientID))
}

// CountByDoctorName counts prescriptions signed by the doctor, ignoring case.
func (r *PrescriptionPostgres) CountByDoctorName(ctx context.Context, name string) (int, error) {
	const q = `SELECT COUNT(*) FROM prescriptions WHERE lower(doctor_name) = lower($1)`
	var n int
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
