package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/amarshaik012/smart-qr-health/internal/database"
	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
)

// MedicinePostgres is a PostgreSQL implementation of repository.MedicineRepository.
type MedicinePostgres struct {
	db *sql.DB
}

// NewMedicinePostgres creates a new MedicinePostgres repository.
func NewMedicinePostgres(db *sql.DB) *MedicinePostgres {
	return &MedicinePostgres{db: db}
}

var _ repository.MedicineRepository = (*MedicinePostgres)(nil)

const medicineColumns = `id, name, strength, form, mrp, tax_pct, stock_qty, reorder_level,
		batch_no, expiry_date, manufacturer, created_at, updated_at`

func scanMedicine(s scanner) (*model.Medicine, error) {
	var m model.Medicine
	if err := s.Scan(
		&m.ID,
		&m.Name,
		&m.Strength,
		&m.Form,
		&m.MRP,
		&m.TaxPct,
		&m.StockQty,
		&m.ReorderLevel,
		&m.BatchNo,
		&m.ExpiryDate,
		&m.Manufacturer,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MedicinePostgres) queryMedicines(ctx context.Context, q string, args ...any) ([]model.Medicine, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Medicine, 0)
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MedicinePostgres) queryQty(ctx context.Context, q string, args ...any) ([]model.MedicineQty, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.MedicineQty, 0)
	for rows.Next() {
		var mq model.MedicineQty
		if err := rows.Scan(&mq.MedicineID, &mq.Name, &mq.Qty); err != nil {
			return nil, err
		}
		items = append(items, mq)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts a medicine and returns the stored record.
func (r *MedicinePostgres) Create(ctx context.Context, m *model.Medicine) (*model.Medicine, error) {
	q := `
		INSERT INTO medicines (name, strength, form, mrp, tax_pct, stock_qty, reorder_level,
			batch_no, expiry_date, manufacturer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + medicineColumns
	row := r.db.QueryRowContext(ctx, q,
		m.Name,
		m.Strength,
		m.Form,
		m.MRP,
		m.TaxPct,
		m.StockQty,
		m.ReorderLevel,
		m.BatchNo,
		m.ExpiryDate,
		m.Manufacturer,
	)
	return scanMedicine(row)
}

// FindByID fetches a medicine by id.
func (r *MedicinePostgres) FindByID(ctx context.Context, id int64) (*model.Medicine, error) {
	q := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`
	return scanMedicine(r.db.QueryRowContext(ctx, q, id))
}

// Search returns one page of the inventory filtered by name.
func (r *MedicinePostgres) Search(ctx context.Context, q string, pq repository.PageQuery) (*repository.PageResult[model.Medicine], error) {
	pattern := likePattern(q)

	const qCount = `SELECT COUNT(*) FROM medicines WHERE lower(name) LIKE lower($1)`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, pattern).Scan(&total); err != nil {
		return nil, err
	}

	qList := `SELECT ` + medicineColumns + ` FROM medicines
		WHERE lower(name) LIKE lower($1)
		ORDER BY lower(name) ASC, id ASC
		LIMIT $2 OFFSET $3`
	items, err := r.queryMedicines(ctx, qList, pattern, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Medicine]{
		Items: items,
		Total: total,
	}, nil
}

// Suggest returns candidate medicines for autocomplete.
func (r *MedicinePostgres) Suggest(ctx context.Context, q string, limit int) ([]model.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE lower(name) LIKE $1 LIMIT $2`
	return r.queryMedicines(ctx, query, likePattern(q), limit)
}

// Lookup returns medicines for the dispense picker, best stocked first.
func (r *MedicinePostgres) Lookup(ctx context.Context, q string, limit int) ([]model.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines
		WHERE lower(name) LIKE lower($1)
		ORDER BY stock_qty DESC, lower(name) ASC
		LIMIT $2`
	return r.queryMedicines(ctx, query, likePattern(q), limit)
}

// ListAll returns the complete inventory ordered by name.
func (r *MedicinePostgres) ListAll(ctx context.Context) ([]model.Medicine, error) {
	q := `SELECT ` + medicineColumns + ` FROM medicines ORDER BY name ASC, id ASC`
	return r.queryMedicines(ctx, q)
}

// TopByStock returns the best stocked medicines.
func (r *MedicinePostgres) TopByStock(ctx context.Context, limit int) ([]model.MedicineQty, error) {
	const q = `
		SELECT id, name, stock_qty FROM medicines
		ORDER BY stock_qty DESC, lower(name) ASC
		LIMIT $1`
	return r.queryQty(ctx, q, limit)
}

// LowStock returns medicines at or below the threshold.
func (r *MedicinePostgres) LowStock(ctx context.Context, threshold, limit int) ([]model.MedicineQty, error) {
	const q = `
		SELECT id, name, stock_qty FROM medicines
		WHERE stock_qty <= $1
		ORDER BY stock_qty ASC, lower(name) ASC
		LIMIT $2`
	return r.queryQty(ctx, q, threshold, limit)
}

// BelowReorder returns medicines that need restocking.
func (r *MedicinePostgres) BelowReorder(ctx context.Context) ([]model.Medicine, error) {
	q := `SELECT ` + medicineColumns + ` FROM medicines
		WHERE stock_qty <= reorder_level
		ORDER BY stock_qty ASC, lower(name) ASC`
	return r.queryMedicines(ctx, q)
}

// InventoryValue sums MRP times stock over the inventory.
func (r *MedicinePostgres) InventoryValue(ctx context.Context) (float64, error) {
	const q = `SELECT COALESCE(SUM(stock_qty * mrp), 0)::float8 FROM medicines`
	var v float64
	if err := r.db.QueryRowContext(ctx, q).Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}

// Count returns the number of medicines.
func (r *MedicinePostgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM medicines`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// SyncStock clamps stock to zero across the inventory.
func (r *MedicinePostgres) SyncStock(ctx context.Context) (int, error) {
	const q = `UPDATE medicines SET stock_qty = GREATEST(stock_qty, 0), updated_at = now()`
	res, err := r.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// DispensedIDs returns medicine ids that appear on any bill.
func (r *MedicinePostgres) DispensedIDs(ctx context.Context) (map[int64]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT medicine_id FROM dispense_items`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ApplyImport deletes, updates and inserts medicines inside one transaction.
func (r *MedicinePostgres) ApplyImport(ctx context.Context, plan repository.ImportPlan) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, id := range plan.Deletes {
			if _, err := tx.ExecContext(ctx, `DELETE FROM medicines WHERE id = $1`, id); err != nil {
				return fmt.Errorf("delete medicine %d: %w", id, err)
			}
		}

		const qUpdate = `
			UPDATE medicines
			SET name = $1, strength = $2, form = $3, mrp = $4, tax_pct = $5, stock_qty = $6,
				reorder_level = $7, batch_no = $8, expiry_date = $9, updated_at = now()
			WHERE id = $10`
		for _, m := range plan.Updates {
			if _, err := tx.ExecContext(ctx, qUpdate,
				m.Name, m.Strength, m.Form, m.MRP, m.TaxPct, m.StockQty,
				m.ReorderLevel, m.BatchNo, m.ExpiryDate, m.ID,
			); err != nil {
				return fmt.Errorf("update medicine %d: %w", m.ID, err)
			}
		}

		const qInsert = `
			INSERT INTO medicines (name, strength, form, mrp, tax_pct, stock_qty, reorder_level, batch_no, expiry_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		for _, m := range plan.Inserts {
			if _, err := tx.ExecContext(ctx, qInsert,
				m.Name, m.Strength, m.Form, m.MRP, m.TaxPct, m.StockQty,
				m.ReorderLevel, m.BatchNo, m.ExpiryDate,
			); err != nil {
				return fmt.Errorf("insert medicine %q: %w", m.Name, err)
			}
		}
		return nil
	})
}
