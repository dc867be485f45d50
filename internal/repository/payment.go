package repository

import (
	"context"

	"github.com/amarshaik012/smart-qr-health/internal/model"
)

// PaymentRecord is a payment joined with the patient it belongs to.
type PaymentRecord struct {
	model.Payment
	PatientUID  string
	PatientName string
}

// PaymentRepository defines data access for registration payments.
type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) (*model.Payment, error)

	// ListAll returns every payment, oldest first.
	ListAll(ctx context.Context) ([]PaymentRecord, error)
}
