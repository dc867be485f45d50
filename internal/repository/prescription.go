package repository

import (
	"context"

	"github.com/amarshaik012/smart-qr-health/internal/model"
)

// PrescriptionRepository defines data access for doctor prescriptions.
type PrescriptionRepository interface {
	// Create stores the prescription and moves the patient to Done atomically.
	// It returns sql.ErrNoRows when the patient does not exist.
	Create(ctx context.Context, p *model.Prescription) (*model.Prescription, error)

	// ListByPatient returns prescriptions newest first.
	ListByPatient(ctx context.Context, patientID int64) ([]model.Prescription, error)

	// LatestByPatient returns sql.ErrNoRows when the patient has no prescription.
	LatestByPatient(ctx context.Context, patientID int64) (*model.Prescription, error)

	CountByDoctorName(ctx context.Context, name string) (int, error)
}
