package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
)

type MockDispenseRepository struct {
	mock.Mock
}

func (m *MockDispenseRepository) Create(ctx context.Context, d *model.Dispense) (*model.Dispense, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dispense), args.Error(1)
}

func (m *MockDispenseRepository) FindByID(ctx context.Context, id int64) (*model.Dispense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dispense), args.Error(1)
}

func (m *MockDispenseRepository) LatestByPatient(ctx context.Context, patientID int64) (*model.Dispense, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dispense), args.Error(1)
}

func (m *MockDispenseRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockDispenseRepository) TopDispensed(ctx context.Context, r repository.TimeRange, limit int) ([]model.MedicineQty, error) {
	args := m.Called(ctx, r, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MedicineQty), args.Error(1)
}

func (m *MockDispenseRepository) Totals(ctx context.Context, since time.Time) (float64, int, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}
