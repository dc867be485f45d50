package repository

import (
	"context"

	"github.com/amarshaik012/smart-qr-health/internal/model"
)

// DoctorRepository defines data access for doctor accounts.
type DoctorRepository interface {
	Create(ctx context.Context, d *model.Doctor) (*model.Doctor, error)
	FindByID(ctx context.Context, id int64) (*model.Doctor, error)

	// FindByUsername matches case-insensitively.
	FindByUsername(ctx context.Context, username string) (*model.Doctor, error)

	// FindApprovedByName returns the approved doctor with exactly this display name.
	FindApprovedByName(ctx context.Context, name string) (*model.Doctor, error)

	// ListByStatus returns doctors ordered by name. An empty status lists everyone.
	ListByStatus(ctx context.Context, status string) ([]model.Doctor, error)

	// UpdateStatus returns sql.ErrNoRows when no doctor has the id.
	UpdateStatus(ctx context.Context, id int64, status string) error
}
