package repository

import (
	"context"

	"github.com/amarshaik012/smart-qr-health/internal/model"
)

// PatientRepository defines data access for patients.
type PatientRepository interface {
	// Create inserts a patient and returns the stored row including generated id and timestamps.
	Create(ctx context.Context, p *model.Patient) (*model.Patient, error)

	// FindByID returns sql.ErrNoRows when the patient does not exist.
	FindByID(ctx context.Context, id int64) (*model.Patient, error)

	// FindByUID looks a patient up by its public 12-character UID.
	FindByUID(ctx context.Context, uid string) (*model.Patient, error)

	// ExistsByPhone reports whether a patient already uses phone.
	ExistsByPhone(ctx context.Context, phone string) (bool, error)

	// List returns every patient, newest id first.
	List(ctx context.Context) ([]model.Patient, error)

	// ListForDoctor returns patients linked to the doctor by id or (case-insensitively) by name,
	// newest registration first.
	ListForDoctor(ctx context.Context, doctorID int64, doctorName string) ([]model.Patient, error)

	Update(ctx context.Context, id int64, u model.PatientUpdate) (*model.Patient, error)

	// Delete removes the patient row. It does not fail when the row is already gone.
	Delete(ctx context.Context, id int64) error

	Count(ctx context.Context) (int, error)
}
