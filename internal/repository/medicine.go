package repository

import (
	"context"

	"github.com/amarshaik012/smart-qr-health/internal/model"
)

// ImportPlan is a precomputed set of inventory changes applied atomically.
type ImportPlan struct {
	Deletes []int64
	Updates []model.Medicine
	Inserts []model.Medicine
}

// MedicineRepository defines data access for the pharmacy inventory.
type MedicineRepository interface {
	Create(ctx context.Context, m *model.Medicine) (*model.Medicine, error)
	FindByID(ctx context.Context, id int64) (*model.Medicine, error)

	// Search pages medicines whose name contains q (case-insensitive), ordered by lower(name).
	Search(ctx context.Context, q string, pq PageQuery) (*PageResult[model.Medicine], error)

	// Suggest returns up to limit medicines whose lowercased name contains q, unordered.
	Suggest(ctx context.Context, q string, limit int) ([]model.Medicine, error)

	// Lookup returns medicines matching q ordered by stock descending then name.
	Lookup(ctx context.Context, q string, limit int) ([]model.Medicine, error)

	// ListAll returns the whole inventory ordered by name.
	ListAll(ctx context.Context) ([]model.Medicine, error)

	TopByStock(ctx context.Context, limit int) ([]model.MedicineQty, error)

	// LowStock returns medicines with stock at or below threshold, lowest stock first.
	LowStock(ctx context.Context, threshold, limit int) ([]model.MedicineQty, error)

	// BelowReorder returns medicines whose stock has reached their own reorder level.
	BelowReorder(ctx context.Context) ([]model.Medicine, error)

	InventoryValue(ctx context.Context) (float64, error)
	Count(ctx context.Context) (int, error)

	// SyncStock clamps negative stock to zero and returns the number of medicines visited.
	SyncStock(ctx context.Context) (int, error)

	// DispensedIDs returns the ids of medicines referenced by at least one dispense line.
	DispensedIDs(ctx context.Context) (map[int64]bool, error)

	// ApplyImport runs the plan in a single transaction.
	ApplyImport(ctx context.Context, plan ImportPlan) error
}
