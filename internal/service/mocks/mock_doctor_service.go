package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/service"
)

type MockDoctorService struct {
	mock.Mock
}

func (m *MockDoctorService) Register(ctx context.Context, in service.DoctorRegistration) (*model.Doctor, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Doctor), args.Error(1)
}

func (m *MockDoctorService) Login(ctx context.Context, username, password string) (*model.Doctor, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Doctor), args.Error(1)
}

func (m *MockDoctorService) Authenticate(ctx context.Context, id int64) (*model.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Doctor), args.Error(1)
}

func (m *MockDoctorService) List(ctx context.Context, status string) ([]model.Doctor, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Doctor), args.Error(1)
}

func (m *MockDoctorService) Approve(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDoctorService) Reject(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDoctorService) Dashboard(ctx context.Context, d *model.Doctor) (*service.DoctorDashboard, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DoctorDashboard), args.Error(1)
}

func (m *MockDoctorService) Suggest(ctx context.Context, q string) ([]service.Suggestion, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.Suggestion), args.Error(1)
}

func (m *MockDoctorService) PrescribeContext(ctx context.Context, uid string) (*service.PrescribeContext, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PrescribeContext), args.Error(1)
}

func (m *MockDoctorService) Prescribe(ctx context.Context, d *model.Doctor, uid string, in service.PrescriptionInput) (*model.Prescription, error) {
	args := m.Called(ctx, d, uid, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Prescription), args.Error(1)
}

func (m *MockDoctorService) History(ctx context.Context, uid string) (*service.PatientHistory, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PatientHistory), args.Error(1)
}
