package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/amarshaik012/smart-qr-health/internal/model"
)

var patientCols = []string{
	"id", "patient_uid", "name", "phone", "email", "gender", "dob", "weight", "height",
	"assigned_doctor", "doctor_id", "status", "qr_filename", "created_at", "updated_at",
}

func patientRow(rows *sqlmock.Rows, id int64, uid, name string) *sqlmock.Rows {
	now := time.Now().UTC()
	return rows.AddRow(id, uid, name, "9876543210", "a@gmail.com", "Female", nil, "60", "5.4 ft",
		"Dr. Rao", int64(3), model.PatientWaiting, uid+".png", now, now)
}

func TestPatientPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPatientPostgres(db)
	doctorID := int64(3)
	dob := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	p := &model.Patient{
		UID:            "abcdefghijkl",
		Name:           "Asha",
		Phone:          "9876543210",
		Email:          "a@gmail.com",
		Gender:         "Female",
		DOB:            &dob,
		Weight:         "60",
		Height:         "5.4 ft",
		AssignedDoctor: "Dr. Rao",
		DoctorID:       &doctorID,
		Status:         model.PatientWaiting,
		QRFilename:     "abcdefghijkl.png",
	}

	mock.ExpectQuery("INSERT INTO patients").
		WithArgs(p.UID, p.Name, p.Phone, p.Email, p.Gender, p.DOB, p.Weight, p.Height,
			p.AssignedDoctor, p.DoctorID, p.Status, p.QRFilename).
		WillReturnRows(patientRow(sqlmock.NewRows(patientCols), 7, p.UID, p.Name))

	out, err := repo.Create(context.Background(), p)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.ID)
	assert.Equal(t, int64(3), *out.DoctorID)
	assert.Nil(t, out.DOB)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientPostgres_FindByUID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPatientPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM patients WHERE patient_uid = ?").
			WithArgs("abcdefghijkl").
			WillReturnRows(patientRow(sqlmock.NewRows(patientCols), 1, "abcdefghijkl", "Asha"))

		p, err := repo.FindByUID(ctx, "abcdefghijkl")

		assert.NoError(t, err)
		assert.Equal(t, "Asha", p.Name)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM patients WHERE patient_uid = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		p, err := repo.FindByUID(ctx, "missing")

		assert.True(t, IsNoRowsError(err))
		assert.Nil(t, p)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientPostgres_ExistsByPhone(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("9876543210").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := NewPatientPostgres(db).ExistsByPhone(context.Background(), "9876543210")

	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientPostgres_ListForDoctor(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(patientCols)
	patientRow(rows, 2, "bbbbbbbbbbbb", "Ravi")
	patientRow(rows, 1, "aaaaaaaaaaaa", "Asha")

	mock.ExpectQuery("SELECT (.+) FROM patients WHERE doctor_id = \\$1 OR lower\\(assigned_doctor\\) = lower\\(\\$2\\)").
		WithArgs(int64(3), "Dr. Rao").
		WillReturnRows(rows)

	items, err := NewPatientPostgres(db).ListForDoctor(context.Background(), 3, "Dr. Rao")

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "Ravi", items[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	u := model.PatientUpdate{Name: "Asha K", Phone: "9876543210", Email: "a@gmail.com", Gender: "Female"}
	mock.ExpectQuery("UPDATE patients").
		WithArgs(u.Name, u.Phone, u.Email, u.Gender, int64(1)).
		WillReturnRows(patientRow(sqlmock.NewRows(patientCols), 1, "abcdefghijkl", "Asha K"))

	p, err := NewPatientPostgres(db).Update(context.Background(), 1, u)

	assert.NoError(t, err)
	assert.Equal(t, "Asha K", p.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientPostgres_DeleteAndCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPatientPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM patients WHERE id = ?").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM patients").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	assert.NoError(t, repo.Delete(ctx, 5))
	n, err := repo.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
