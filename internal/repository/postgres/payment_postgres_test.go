package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/amarshaik012/smart-qr-health/internal/model"
)

func TestPaymentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	patientID, doctorID := int64(1), int64(3)
	p := &model.Payment{PatientID: &patientID, DoctorID: &doctorID, Amount: 300, Status: model.PaymentPaid, Method: "upi", Reference: "TXN1"}

	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(p.PatientID, p.DoctorID, 300.0, model.PaymentPaid, "upi", "TXN1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "patient_id", "doctor_id", "amount", "status", "method", "reference", "created_at"}).
			AddRow(5, 1, 3, 300.0, model.PaymentPaid, "upi", "TXN1", time.Now()))

	out, err := NewPaymentPostgres(db).Create(context.Background(), p)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.ID)
	assert.Equal(t, int64(1), *out.PatientID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentPostgres_ListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM payments p LEFT JOIN patients pt").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "patient_id", "doctor_id", "amount", "status", "method", "reference", "created_at", "patient_uid", "name",
		}).
			AddRow(1, 1, 3, 300.0, model.PaymentPaid, "cash", "", time.Now(), "abcdefghijkl", "Asha").
			AddRow(2, nil, nil, 0.0, model.PaymentPending, "card", "", time.Now(), "", ""))

	items, err := NewPaymentPostgres(db).ListAll(context.Background())

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "Asha", items[0].PatientName)
	assert.Nil(t, items[1].PatientID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
