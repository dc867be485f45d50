package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestOTPPostgres_Lifecycle(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewOTPPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO otp_logs").
		WithArgs("9876543210", "123456").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT (.+) FROM otp_logs WHERE phone = \\$1 ORDER BY created_at DESC").
		WithArgs("9876543210").
		WillReturnRows(sqlmock.NewRows([]string{"id", "phone", "otp", "verified", "created_at"}).
			AddRow(1, "9876543210", "123456", false, time.Now()))
	mock.ExpectExec("UPDATE otp_logs SET verified = true").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Create(ctx, "9876543210", "123456"))
	o, err := repo.Latest(ctx, "9876543210")
	assert.NoError(t, err)
	assert.Equal(t, "123456", o.OTP)
	assert.NoError(t, repo.MarkVerified(ctx, o.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPPostgres_PurgeBefore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	cutoff := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	mock.ExpectExec("DELETE FROM otp_logs WHERE created_at < ?").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewOTPPostgres(db).PurgeBefore(context.Background(), cutoff)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
