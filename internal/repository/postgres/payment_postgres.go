package postgres

import (
	"context"
	"database/sql"

	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
)

// PaymentPostgres is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentPostgres struct {
	db *sql.DB
}

// NewPaymentPostgres creates a new PaymentPostgres repository.
func NewPaymentPostgres(db *sql.DB) *PaymentPostgres {
	return &PaymentPostgres{db: db}
}

var _ repository.PaymentRepository = (*PaymentPostgres)(nil)

// Create inserts a payment row.
func (r *PaymentPostgres) Create(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	const q = `
		INSERT INTO payments (patient_id, doctor_id, amount, status, method, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, patient_id, doctor_id, amount, status, method, reference, created_at
	`
	var out model.Payment
	if err := r.db.QueryRowContext(ctx, q,
		p.PatientID,
		p.DoctorID,
		p.Amount,
		p.Status,
		p.Method,
		p.Reference,
	).Scan(
		&out.ID,
		&out.PatientID,
		&out.DoctorID,
		&out.Amount,
		&out.Status,
		&out.Method,
		&out.Reference,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAll returns payments with their patient UID and name, oldest first.
func (r *PaymentPostgres) ListAll(ctx context.Context) ([]repository.PaymentRecord, error) {
	const q = `
		SELECT p.id, p.patient_id, p.doctor_id, p.amount, p.status, p.method, p.reference, p.created_at,
			COALESCE(pt.patient_uid, ''), COALESCE(pt.name, '')
		FROM payments p
		LEFT JOIN patients pt ON pt.id = p.patient_id
		ORDER BY p.created_at ASC, p.id ASC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]repository.PaymentRecord, 0)
	for rows.Next() {
		var rec repository.PaymentRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.PatientID,
			&rec.DoctorID,
			&rec.Amount,
			&rec.Status,
			&rec.Method,
			&rec.Reference,
			&rec.CreatedAt,
			&rec.PatientUID,
			&rec.PatientName,
		); err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
