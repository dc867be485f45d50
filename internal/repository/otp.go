package repository

import (
	"context"
	"time"

	"github.com/amarshaik012/smart-qr-health/internal/model"
)

// OTPRepository defines data access for persisted one-time codes.
type OTPRepository interface {
	Create(ctx context.Context, phone, otp string) error

	// Latest returns the most recent code issued for phone.
	Latest(ctx context.Context, phone string) (*model.OTPLog, error)

	MarkVerified(ctx context.Context, id int64) error

	// PurgeBefore deletes codes created before t and returns how many were removed.
	PurgeBefore(ctx context.Context, t time.Time) (int64, error)
}
