package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/qrcode"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
	repoMocks "github.com/amarshaik012/smart-qr-health/internal/repository/mocks"
	"github.com/amarshaik012/smart-qr-health/internal/storage"
	storeMocks "github.com/amarshaik012/smart-qr-health/internal/storage/mocks"
)

type patientFixture struct {
	patients      *repoMocks.MockPatientRepository
	doctors       *repoMocks.MockDoctorRepository
	payments      *repoMocks.MockPaymentRepository
	prescriptions *repoMocks.MockPrescriptionRepository
	store         *storeMocks.MockStorage
	svc           *patientService
}

var fixedNow = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func newPatientFixture() *patientFixture {
	f := &patientFixture{
		patients:      new(repoMocks.MockPatientRepository),
		doctors:       new(repoMocks.MockDoctorRepository),
		payments:      new(repoMocks.MockPaymentRepository),
		prescriptions: new(repoMocks.MockPrescriptionRepository),
		store:         new(storeMocks.MockStorage),
	}
	f.svc = NewPatientService(PatientServiceDeps{
		Patients:      f.patients,
		Doctors:       f.doctors,
		Payments:      f.payments,
		Prescriptions: f.prescriptions,
		Store:         f.store,
		QR:            qrcode.NewEncoder("http://portal.test"),
		HospitalName:  "City Care",
		Location:      time.UTC,
		Logger:        zap.NewNop(),
	}).(*patientService)
	f.svc.now = func() time.Time { return fixedNow }
	f.svc.newUID = func() string { return "ABCDEF123456" }
	return f
}

func validRegistration() RegistrationInput {
	return RegistrationInput{
		Name:           "Asha Rao",
		Phone:          "9876543210",
		Email:          "asha@gmail.com",
		Gender:         "Female",
		DOB:            "1990-04-01",
		Weight:         "60",
		Height:         "5.4 feet",
		AssignedDoctor: "Dr. Mehta",
		PaymentMode:    "UPI",
		PaymentAmount:  "300",
		PaymentRef:     "TXN1",
	}
}

func TestPatientService_RegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *RegistrationInput)
		wantMsg string
	}{
		{"missing name", func(in *RegistrationInput) { in.Name = " " }, "Full name is required."},
		{"short phone", func(in *RegistrationInput) { in.Phone = "12345" }, "Phone number must be exactly 10 digits."},
		{"non gmail", func(in *RegistrationInput) { in.Email = "asha@yahoo.com" }, "Email must be a valid Gmail address (e.g., name@gmail.com)."},
		{"bad gender", func(in *RegistrationInput) { in.Gender = "x" }, "Please select a valid gender."},
		{"bad dob", func(in *RegistrationInput) { in.DOB = "01/04/1990" }, "Invalid Date of Birth."},
		{"future dob", func(in *RegistrationInput) { in.DOB = "2030-01-01" }, "Date of Birth cannot be in the future."},
		{"missing weight", func(in *RegistrationInput) { in.Weight = "" }, "Weight is required."},
		{"missing height", func(in *RegistrationInput) { in.Height = "" }, "Height is required."},
		{"missing doctor", func(in *RegistrationInput) { in.AssignedDoctor = "" }, "Please assign a doctor."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPatientFixture()
			in := validRegistration()
			tt.mutate(&in)

			_, err := f.svc.Register(context.Background(), in)
			ve, ok := IsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Equal(t, tt.wantMsg, ve.Message)
		})
	}
}

func TestPatientService_RegisterDoctorAndPaymentChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("unapproved doctor", func(t *testing.T) {
		f := newPatientFixture()
		f.doctors.On("FindApprovedByName", ctx, "Dr. Mehta").Return(nil, sql.ErrNoRows)

		_, err := f.svc.Register(ctx, validRegistration())
		ve, ok := IsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "Assigned doctor is not valid or not approved.", ve.Message)
	})

	t.Run("bad payment mode", func(t *testing.T) {
		f := newPatientFixture()
		f.doctors.On("FindApprovedByName", ctx, "Dr. Mehta").Return(&model.Doctor{ID: 3}, nil)
		in := validRegistration()
		in.PaymentMode = "Cheque"

		_, err := f.svc.Register(ctx, in)
		ve, ok := IsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "Select a valid payment mode (Cash / UPI / Card).", ve.Message)
	})

	t.Run("negative amount", func(t *testing.T) {
		f := newPatientFixture()
		f.doctors.On("FindApprovedByName", ctx, "Dr. Mehta").Return(&model.Doctor{ID: 3}, nil)
		in := validRegistration()
		in.PaymentAmount = "-1"

		_, err := f.svc.Register(ctx, in)
		ve, ok := IsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "Payment amount must be a number (0 or above).", ve.Message)
	})

	t.Run("duplicate phone", func(t *testing.T) {
		f := newPatientFixture()
		f.doctors.On("FindApprovedByName", ctx, "Dr. Mehta").Return(&model.Doctor{ID: 3}, nil)
		f.patients.On("ExistsByPhone", ctx, "9876543210").Return(true, nil)

		_, err := f.svc.Register(ctx, validRegistration())
		ve, ok := IsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "Phone number is already registered.", ve.Message)
	})
}

func TestPatientService_Register(t *testing.T) {
	ctx := context.Background()
	f := newPatientFixture()

	f.doctors.On("FindApprovedByName", ctx, "Dr. Mehta").Return(&model.Doctor{ID: 3, Name: "Dr. Mehta"}, nil)
	f.patients.On("ExistsByPhone", ctx, "9876543210").Return(false, nil)
	f.store.On("Put", ctx, "qr/ABCDEF123456.png", mock.Anything, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
		return o.ContentType == "image/png" && o.Size > 0
	})).Return(storage.ObjectInfo{Key: "qr/ABCDEF123456.png"}, nil)
	f.patients.On("Create", ctx, mock.MatchedBy(func(p *model.Patient) bool {
		return p.UID == "ABCDEF123456" && p.Status == model.PatientWaiting && *p.DoctorID == 3 &&
			p.QRFilename == "ABCDEF123456.png"
	})).Return(&model.Patient{ID: 7, UID: "ABCDEF123456"}, nil)
	f.payments.On("Create", ctx, mock.MatchedBy(func(p *model.Payment) bool {
		return p.Status == model.PaymentPaid && p.Method == "upi" && p.Amount == 300 && *p.PatientID == 7
	})).Return(&model.Payment{ID: 1}, nil)

	res, err := f.svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "/static/qr/ABCDEF123456.png", res.QRURL)
	assert.Equal(t, "/reception/qr-preview/ABCDEF123456", res.PreviewURL)
	f.patients.AssertExpectations(t)
	f.payments.AssertExpectations(t)
	f.store.AssertExpectations(t)
}

func TestPatientService_RegisterRollsBackQR(t *testing.T) {
	ctx := context.Background()
	f := newPatientFixture()

	f.doctors.On("FindApprovedByName", ctx, "Dr. Mehta").Return(&model.Doctor{ID: 3}, nil)
	f.patients.On("ExistsByPhone", ctx, "9876543210").Return(false, nil)
	f.store.On("Put", ctx, "qr/ABCDEF123456.png", mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
	f.patients.On("Create", ctx, mock.Anything).Return(nil, errors.New("unique violation"))
	f.store.On("Delete", ctx, "qr/ABCDEF123456.png").Return(nil)

	_, err := f.svc.Register(ctx, validRegistration())
	require.Error(t, err)
	assert.Equal(t, "db save failed: unique violation", err.Error())
	f.store.AssertExpectations(t)
	f.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPatientService_RegisterPaymentFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	f := newPatientFixture()
	in := validRegistration()
	in.PaymentAmount = "0"

	f.doctors.On("FindApprovedByName", ctx, "Dr. Mehta").Return(&model.Doctor{ID: 3}, nil)
	f.patients.On("ExistsByPhone", ctx, "9876543210").Return(false, nil)
	f.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
	f.patients.On("Create", ctx, mock.Anything).Return(&model.Patient{ID: 7, UID: "ABCDEF123456"}, nil)
	f.payments.On("Create", ctx, mock.MatchedBy(func(p *model.Payment) bool {
		return p.Status == model.PaymentPending
	})).Return(nil, errors.New("payments down"))

	res, err := f.svc.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.Patient.ID)
}

func TestPatientService_Dashboard(t *testing.T) {
	ctx := context.Background()
	f := newPatientFixture()

	f.patients.On("List", ctx).Return([]model.Patient{
		{ID: 3, Name: "c", CreatedAt: fixedNow},
		{ID: 2, Name: "b", CreatedAt: fixedNow.AddDate(0, 0, -2)},
		{ID: 1, Name: "a", CreatedAt: fixedNow.Add(-time.Hour)},
	}, nil)

	dash, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, dash.TotalPatients)
	assert.Equal(t, 2, dash.RecentPatients)
	require.Len(t, dash.Groups, 2)
	assert.Equal(t, "2024-05-10", dash.Groups[0].Date)
	assert.Len(t, dash.Groups[0].Patients, 2)
	assert.Equal(t, "2024-05-08", dash.Groups[1].Date)
}

func TestPatientService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid phone", func(t *testing.T) {
		f := newPatientFixture()
		f.patients.On("FindByID", ctx, int64(4)).Return(&model.Patient{ID: 4}, nil)

		_, err := f.svc.Update(ctx, 4, model.PatientUpdate{Name: "x", Phone: "12"})
		ve, ok := IsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "Invalid phone number", ve.Message)
	})

	t.Run("missing patient", func(t *testing.T) {
		f := newPatientFixture()
		f.patients.On("FindByID", ctx, int64(4)).Return(nil, sql.ErrNoRows)

		_, err := f.svc.Update(ctx, 4, model.PatientUpdate{Phone: "9876543210"})
		assert.ErrorIs(t, err, ErrPatientNotFound)
	})

	t.Run("trims fields", func(t *testing.T) {
		f := newPatientFixture()
		f.patients.On("FindByID", ctx, int64(4)).Return(&model.Patient{ID: 4}, nil)
		f.patients.On("Update", ctx, int64(4), model.PatientUpdate{Name: "Ravi", Phone: "9876543210", Email: "r@gmail.com", Gender: "Male"}).
			Return(&model.Patient{ID: 4, Name: "Ravi"}, nil)

		p, err := f.svc.Update(ctx, 4, model.PatientUpdate{Name: " Ravi ", Phone: "9876543210 ", Email: "r@gmail.com", Gender: "Male"})
		require.NoError(t, err)
		assert.Equal(t, "Ravi", p.Name)
	})
}

func TestPatientService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("missing patient is a no-op", func(t *testing.T) {
		f := newPatientFixture()
		f.patients.On("FindByID", ctx, int64(9)).Return(nil, sql.ErrNoRows)

		assert.NoError(t, f.svc.Delete(ctx, 9))
		f.patients.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("removes qr image", func(t *testing.T) {
		f := newPatientFixture()
		f.patients.On("FindByID", ctx, int64(9)).Return(&model.Patient{ID: 9, UID: "U", QRFilename: "U.png"}, nil)
		f.patients.On("Delete", ctx, int64(9)).Return(nil)
		f.store.On("Delete", ctx, "qr/U.png").Return(errors.New("gone"))

		assert.NoError(t, f.svc.Delete(ctx, 9))
		f.store.AssertExpectations(t)
	})
}

func TestPatientService_QRPreviewAndCard(t *testing.T) {
	ctx := context.Background()
	f := newPatientFixture()
	p := &model.Patient{ID: 5, UID: "U1", Name: "Asha", Height: "5.4 Feet", QRFilename: "U1.png"}
	f.patients.On("FindByUID", ctx, "U1").Return(p, nil)
	f.patients.On("FindByUID", ctx, "NOPE").Return(nil, sql.ErrNoRows)
	f.prescriptions.On("ListByPatient", ctx, int64(5)).Return([]model.Prescription{{ID: 2}, {ID: 1}}, nil)
	f.store.On("PresignGet", ctx, "qr/U1.png", qrLinkExpiry).
		Return("https://minio.test/health/qr/U1.png?X-Amz-Signature=abc", nil).Once()

	preview, err := f.svc.QRPreview(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "Unassigned", preview.AssignedDoctor)
	assert.Equal(t, "City Care", preview.HospitalName)
	assert.Equal(t, "/static/qr/U1.png", preview.QRURL)
	assert.Equal(t, "https://minio.test/health/qr/U1.png?X-Amz-Signature=abc", preview.QRDownloadURL)

	f.store.On("PresignGet", ctx, "qr/U1.png", qrLinkExpiry).Return("", errors.New("minio down")).Once()
	preview, err = f.svc.QRPreview(ctx, "U1")
	require.NoError(t, err)
	assert.Empty(t, preview.QRDownloadURL)
	f.store.AssertExpectations(t)

	card, err := f.svc.PublicCard(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "5.4 ft", card.Height)
	assert.Len(t, card.Prescriptions, 2)

	_, err = f.svc.PublicCard(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestPatientService_StoredQR(t *testing.T) {
	ctx := context.Background()
	f := newPatientFixture()
	f.store.On("Get", ctx, "qr/missing.png").Return(nil, storage.ObjectInfo{}, storage.ErrNotFound)

	_, _, err := f.svc.StoredQR(ctx, "../secret")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = f.svc.StoredQR(ctx, "missing.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPatientService_ExportPayments(t *testing.T) {
	ctx := context.Background()
	f := newPatientFixture()

	f.payments.On("ListAll", ctx).Return([]repository.PaymentRecord{{
		Payment:     model.Payment{Amount: 250, Method: "cash", Status: model.PaymentPaid, CreatedAt: fixedNow},
		PatientUID:  "U1",
		PatientName: "Asha",
	}}, nil)
	f.store.On("Put", ctx, "exports/payments-20240510T093000Z.csv", mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, errors.New("archive down"))

	exp, err := f.svc.ExportPayments(ctx)
	require.NoError(t, err)
	assert.Equal(t, "payments.csv", exp.Filename)
	lines := strings.Split(strings.TrimSpace(string(exp.Data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Timestamp,PatientUID,Name,Mode,Amount,Status,Reference", lines[0])
	assert.Equal(t, "2024-05-10T09:30:00Z,U1,Asha,cash,250.00,paid,", lines[1])
}
