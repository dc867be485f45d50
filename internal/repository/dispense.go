package repository

import (
	"context"
	"time"

	"github.com/amarshaik012/smart-qr-health/internal/model"
)

// DispenseRepository defines data access for pharmacy bills.
type DispenseRepository interface {
	// Create stores the bill and its lines, decrements stock (never below zero) and marks the
	// patient dispensed, all in one transaction.
	Create(ctx context.Context, d *model.Dispense) (*model.Dispense, error)

	// FindByID returns the bill with its lines.
	FindByID(ctx context.Context, id int64) (*model.Dispense, error)

	// LatestByPatient returns the most recent bill of the patient with its lines.
	LatestByPatient(ctx context.Context, patientID int64) (*model.Dispense, error)

	Count(ctx context.Context) (int, error)

	// TopDispensed sums dispensed units per medicine name within r, highest first.
	TopDispensed(ctx context.Context, r TimeRange, limit int) ([]model.MedicineQty, error)

	// Totals returns the billed amount and dispensed units since the given instant.
	Totals(ctx context.Context, since time.Time) (sales float64, units int, err error)
}
