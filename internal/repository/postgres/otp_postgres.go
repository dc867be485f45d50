package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
)

// OTPPostgres is a PostgreSQL implementation of repository.OTPRepository.
type OTPPostgres struct {
	db *sql.DB
}

// NewOTPPostgres creates a new OTPPostgres repository.
func NewOTPPostgres(db *sql.DB) *OTPPostgres {
	return &OTPPostgres{db: db}
}

var _ repository.OTPRepository = (*OTPPostgres)(nil)

// Create stores a freshly issued code.
func (r *OTPPostgres) Create(ctx context.Context, phone, otp string) error {
	const q = `INSERT INTO otp_logs (phone, otp) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, q, phone, otp)
	return err
}

// Latest returns the newest code for the phone.
func (r *OTPPostgres) Latest(ctx context.Context, phone string) (*model.OTPLog, error) {
	const q = `
		SELECT id, phone, otp, verified, created_at
		FROM otp_logs
		WHERE phone = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var o model.OTPLog
	if err := r.db.QueryRowContext(ctx, q, phone).Scan(
		&o.ID,
		&o.Phone,
		&o.OTP,
		&o.Verified,
		&o.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

// MarkVerified flags a code as used.
func (r *OTPPostgres) MarkVerified(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE otp_logs SET verified = true WHERE id = $1`, id)
	return err
}

// PurgeBefore removes codes older than t.
func (r *OTPPostgres) PurgeBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM otp_logs WHERE created_at < $1`, t)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
