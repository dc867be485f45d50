package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amarshaik012/smart-qr-health/internal/auth"
	"github.com/amarshaik012/smart-qr-health/internal/model"
	repoMocks "github.com/amarshaik012/smart-qr-health/internal/repository/mocks"
)

type doctorFixture struct {
	doctors       *repoMocks.MockDoctorRepository
	patients      *repoMocks.MockPatientRepository
	prescriptions *repoMocks.MockPrescriptionRepository
	medicines     *repoMocks.MockMedicineRepository
	svc           *doctorService
}

func newDoctorFixture() *doctorFixture {
	f := &doctorFixture{
		doctors:       new(repoMocks.MockDoctorRepository),
		patients:      new(repoMocks.MockPatientRepository),
		prescriptions: new(repoMocks.MockPrescriptionRepository),
		medicines:     new(repoMocks.MockMedicineRepository),
	}
	f.svc = NewDoctorService(f.doctors, f.patients, f.prescriptions, f.medicines, time.UTC, zap.NewNop()).(*doctorService)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func TestDoctorService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("required fields", func(t *testing.T) {
		f := newDoctorFixture()
		_, err := f.svc.Register(ctx, DoctorRegistration{Name: "Dr. A", Username: " "})
		ve, ok := IsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "Name, Username, and Password are required.", ve.Message)
	})

	t.Run("username taken", func(t *testing.T) {
		f := newDoctorFixture()
		f.doctors.On("FindByUsername", ctx, "mehta").Return(&model.Doctor{ID: 1}, nil)

		_, err := f.svc.Register(ctx, DoctorRegistration{Name: "Dr. Mehta", Username: "Mehta", Password: "pw"})
		ve, ok := IsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "Username already in use.", ve.Message)
	})

	t.Run("stored pending with hashed password", func(t *testing.T) {
		f := newDoctorFixture()
		f.doctors.On("FindByUsername", ctx, "mehta").Return(nil, sql.ErrNoRows)
		f.doctors.On("Create", ctx, mock.MatchedBy(func(d *model.Doctor) bool {
			return d.Username == "mehta" && d.Status == model.DoctorPending &&
				d.Department == "Cardiology" && auth.VerifyPassword("s3cret", d.PasswordHash)
		})).Return(&model.Doctor{ID: 4, Username: "mehta", Status: model.DoctorPending}, nil)

		d, err := f.svc.Register(ctx, DoctorRegistration{
			Name: "Dr. Mehta", Username: " Mehta ", Password: "s3cret", Specialization: "Cardiology",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), d.ID)
		f.doctors.AssertExpectations(t)
	})
}

func TestDoctorService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		setup    func(f *doctorFixture)
		wantErr  error
		wantMsg  string
	}{
		{
			name:     "missing password",
			username: "mehta",
			wantMsg:  "Username and password required.",
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "pw",
			setup: func(f *doctorFixture) {
				f.doctors.On("FindByUsername", ctx, "ghost").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "mehta",
			password: "nope",
			setup: func(f *doctorFixture) {
				f.doctors.On("FindByUsername", ctx, "mehta").Return(&model.Doctor{PasswordHash: hash, Status: model.DoctorApproved}, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "pending approval",
			username: "MEHTA",
			password: "pw",
			setup: func(f *doctorFixture) {
				f.doctors.On("FindByUsername", ctx, "mehta").Return(&model.Doctor{PasswordHash: hash, Status: model.DoctorPending}, nil)
			},
			wantErr: ErrNotApproved,
		},
		{
			name:     "legacy active status",
			username: "mehta",
			password: "pw",
			setup: func(f *doctorFixture) {
				f.doctors.On("FindByUsername", ctx, "mehta").Return(&model.Doctor{ID: 2, PasswordHash: hash, Status: "active"}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDoctorFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			d, err := f.svc.Login(ctx, tt.username, tt.password)
			switch {
			case tt.wantMsg != "":
				ve, ok := IsValidation(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantMsg, ve.Message)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, int64(2), d.ID)
			}
		})
	}
}

func TestDoctorService_ApproveMissing(t *testing.T) {
	ctx := context.Background()
	f := newDoctorFixture()
	f.doctors.On("UpdateStatus", ctx, int64(5), model.DoctorApproved).Return(sql.ErrNoRows)
	f.doctors.On("UpdateStatus", ctx, int64(6), model.DoctorRejected).Return(nil)

	assert.ErrorIs(t, f.svc.Approve(ctx, 5), ErrDoctorNotFound)
	assert.NoError(t, f.svc.Reject(ctx, 6))
}

func TestDoctorService_Dashboard(t *testing.T) {
	ctx := context.Background()
	f := newDoctorFixture()
	d := &model.Doctor{ID: 3, Name: "Dr. Mehta"}
	f.patients.On("ListForDoctor", ctx, int64(3), "Dr. Mehta").Return([]model.Patient{
		{ID: 1, Status: model.PatientWaiting, CreatedAt: fixedNow},
		{ID: 2, Status: model.PatientDone, CreatedAt: fixedNow.AddDate(0, 0, -1)},
		{ID: 3, Status: "Waiting", CreatedAt: fixedNow.AddDate(0, 0, -3)},
	}, nil)
	f.prescriptions.On("CountByDoctorName", ctx, "Dr. Mehta").Return(12, nil)

	dash, err := f.svc.Dashboard(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", dash.Today)
	assert.Equal(t, 3, dash.TotalPatients)
	assert.Equal(t, 1, dash.PatientsToday)
	assert.Equal(t, 2, dash.PendingPatients)
	assert.Equal(t, 12, dash.TotalPrescriptions)
}

func TestDoctorService_Suggest(t *testing.T) {
	ctx := context.Background()
	f := newDoctorFixture()
	f.medicines.On("Suggest", ctx, "para", suggestScanLimit).Return([]model.Medicine{
		{Name: "Cold-Paracetamol", StockQty: 5},
		{Name: "Paracetamol", StockQty: 0},
		{Name: "Paracip", StockQty: 10},
		{Name: "Paracetamol Forte", StockQty: 3},
	}, nil)

	out, err := f.svc.Suggest(ctx, " PARA ")
	require.NoError(t, err)
	names := make([]string, 0, len(out))
	for _, s := range out {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Paracetamol Forte", "Paracip", "Cold-Paracetamol", "Paracetamol"}, names)
	assert.False(t, out[3].InStock)

	empty, err := f.svc.Suggest(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDoctorService_Prescribe(t *testing.T) {
	ctx := context.Background()
	f := newDoctorFixture()
	d := &model.Doctor{ID: 3, Name: "Dr. Mehta"}
	f.patients.On("FindByUID", ctx, "U1").Return(&model.Patient{ID: 8, UID: "U1"}, nil)
	f.prescriptions.On("Create", ctx, mock.MatchedBy(func(p *model.Prescription) bool {
		return p.PatientID == 8 && p.DoctorName == "Dr. Mehta" && p.Diagnosis == "Fever" && len(p.Medicines) == 2
	})).Return(&model.Prescription{ID: 11, Medicines: []model.PrescribedMedicine{{Name: "a"}, {Name: "b"}}}, nil)

	rx, err := f.svc.Prescribe(ctx, d, "U1", PrescriptionInput{
		Diagnosis:     " Fever ",
		MedicinesJSON: `[{"name":"Paracetamol","dosage":"500mg"},"Cetirizine"]`,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), rx.ID)
	f.patients.AssertExpectations(t)
	f.patients.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestDoctorService_PrescribePatientGone(t *testing.T) {
	ctx := context.Background()
	f := newDoctorFixture()
	f.patients.On("FindByUID", ctx, "U1").Return(&model.Patient{ID: 8, UID: "U1"}, nil)
	f.prescriptions.On("Create", ctx, mock.Anything).Return(nil, sql.ErrNoRows)

	rx, err := f.svc.Prescribe(ctx, &model.Doctor{ID: 3, Name: "Dr. Mehta"}, "U1", PrescriptionInput{Diagnosis: "Fever"})
	assert.Nil(t, rx)
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestParsePrescribedMedicines(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []model.PrescribedMedicine
	}{
		{"empty", "", []model.PrescribedMedicine{}},
		{"garbage", "{not json", []model.PrescribedMedicine{}},
		{"object", `{"name":"x"}`, []model.PrescribedMedicine{}},
		{
			"mixed list",
			`[{"name":"Paracetamol","frequency":"1-0-1"}, " Cetirizine ", 42, ""]`,
			[]model.PrescribedMedicine{{Name: "Paracetamol", Frequency: "1-0-1"}, {Name: "Cetirizine"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePrescribedMedicines(tt.raw))
		})
	}
}
