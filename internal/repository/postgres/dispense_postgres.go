package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/amarshaik012/smart-qr-health/internal/database"
	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
)

// DispensePostgres is a PostgreSQL implementation of repository.DispenseRepository.
// A bill is a dispenses header row plus one dispense_items row per line.
type DispensePostgres struct {
	db *sql.DB
}

// NewDispensePostgres creates a new DispensePostgres repository.
func NewDispensePostgres(db *sql.DB) *DispensePostgres {
	return &DispensePostgres{db: db}
}

var _ repository.DispenseRepository = (*DispensePostgres)(nil)

const dispenseColumns = `id, patient_id, total_amount, pharmacist, payment_mode, notes, created_at`

const dispenseItemColumns = `id, dispense_id, medicine_id, label, batch_no, expiry_date, qty,
		unit_price, discount_pct, tax_pct, notes`

func scanDispense(s scanner) (*model.Dispense, error) {
	var d model.Dispense
	if err := s.Scan(
		&d.ID,
		&d.PatientID,
		&d.TotalAmount,
		&d.Pharmacist,
		&d.PaymentMode,
		&d.Notes,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create writes the bill and applies its stock and patient side effects.
func (r *DispensePostgres) Create(ctx context.Context, d *model.Dispense) (*model.Dispense, error) {
	var out *model.Dispense
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		const qStock = `
			UPDATE medicines
			SET stock_qty = GREATEST(stock_qty - $1, 0), updated_at = now()
			WHERE id = $2`
		for _, it := range d.Items {
			if _, err := tx.ExecContext(ctx, qStock, it.Qty, it.MedicineID); err != nil {
				return fmt.Errorf("decrement stock of medicine %d: %w", it.MedicineID, err)
			}
		}

		qHeader := `
			INSERT INTO dispenses (patient_id, total_amount, pharmacist, payment_mode, notes)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING ` + dispenseColumns
		stored, err := scanDispense(tx.QueryRowContext(ctx, qHeader,
			d.PatientID,
			d.TotalAmount,
			d.Pharmacist,
			d.PaymentMode,
			d.Notes,
		))
		if err != nil {
			return fmt.Errorf("insert dispense: %w", err)
		}

		const qItem = `
			INSERT INTO dispense_items (dispense_id, medicine_id, label, batch_no, expiry_date, qty,
				unit_price, discount_pct, tax_pct, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id`
		stored.Items = make([]model.DispenseItem, 0, len(d.Items))
		for _, it := range d.Items {
			it.DispenseID = stored.ID
			if err := tx.QueryRowContext(ctx, qItem,
				it.DispenseID,
				it.MedicineID,
				it.Label,
				it.BatchNo,
				it.ExpiryDate,
				it.Qty,
				it.UnitPrice,
				it.DiscountPct,
				it.TaxPct,
				it.Notes,
			).Scan(&it.ID); err != nil {
				return fmt.Errorf("insert dispense item: %w", err)
			}
			stored.Items = append(stored.Items, it)
		}

		const qPatient = `UPDATE patients SET status = $1, updated_at = now() WHERE id = $2 AND status <> $1`
		if _, err := tx.ExecContext(ctx, qPatient, model.PatientDispensed, d.PatientID); err != nil {
			return fmt.Errorf("mark patient dispensed: %w", err)
		}

		out = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DispensePostgres) loadItems(ctx context.Context, d *model.Dispense) error {
	q := `SELECT ` + dispenseItemColumns + ` FROM dispense_items WHERE dispense_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	d.Items = make([]model.DispenseItem, 0)
	for rows.Next() {
		var it model.DispenseItem
		if err := rows.Scan(
			&it.ID,
			&it.DispenseID,
			&it.MedicineID,
			&it.Label,
			&it.BatchNo,
			&it.ExpiryDate,
			&it.Qty,
			&it.UnitPrice,
			&it.DiscountPct,
			&it.TaxPct,
			&it.Notes,
		); err != nil {
			return err
		}
		d.Items = append(d.Items, it)
	}
	return rows.Err()
}

// FindByID fetches a bill and its lines.
func (r *DispensePostgres) FindByID(ctx context.Context, id int64) (*model.Dispense, error) {
	q := `SELECT ` + dispenseColumns + ` FROM dispenses WHERE id = $1`
	d, err := scanDispense(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// LatestByPatient fetches the newest bill of a patient and its lines.
func (r *DispensePostgres) LatestByPatient(ctx context.Context, patientID int64) (*model.Dispense, error) {
	q := `SELECT ` + dispenseColumns + ` FROM dispenses WHERE patient_id = $1 ORDER BY id DESC LIMIT 1`
	d, err := scanDispense(r.db.QueryRowContext(ctx, q, patientID))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Count returns the number of bills.
func (r *DispensePostgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dispenses`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// TopDispensed ranks medicines by units dispensed within the range.
func (r *DispensePostgres) TopDispensed(ctx context.Context, tr repository.TimeRange, limit int) ([]model.MedicineQty, error) {
	const q = `
		SELECT MIN(m.id), m.name, COALESCE(SUM(i.qty), 0), COALESCE(SUM(i.unit_price * i.qty), 0)::float8
		FROM dispense_items i
		JOIN dispenses d ON d.id = i.dispense_id
		JOIN medicines m ON m.id = i.medicine_id
		WHERE d.created_at >= $1 AND d.created_at < $2
		GROUP BY m.name
		ORDER BY 3 DESC, lower(m.name) ASC
		LIMIT $3`
	rows, err := r.db.QueryContext(ctx, q, tr.From, tr.To, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.MedicineQty, 0)
	for rows.Next() {
		var mq model.MedicineQty
		if err := rows.Scan(&mq.MedicineID, &mq.Name, &mq.Qty, &mq.Amount); err != nil {
			return nil, err
		}
		items = append(items, mq)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Totals sums billed amounts and dispensed units since the given instant.
func (r *DispensePostgres) Totals(ctx context.Context, since time.Time) (float64, int, error) {
	const q = `
		SELECT
			COALESCE((SELECT SUM(total_amount) FROM dispenses WHERE created_at >= $1), 0)::float8,
			COALESCE((SELECT SUM(i.qty) FROM dispense_items i
				JOIN dispenses d ON d.id = i.dispense_id
				WHERE d.created_at >= $1), 0)`
	var (
		sales float64
		units int
	)
	if err := r.db.QueryRowContext(ctx, q, since).Scan(&sales, &units); err != nil {
		return 0, 0, err
	}
	return sales, units, nil
}
