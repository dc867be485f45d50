package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/amarshaik012/smart-qr-health/internal/model"
)

type MockOTPRepository struct {
	mock.Mock
}

func (m *MockOTPRepository) Create(ctx context.Context, phone, otp string) error {
	args := m.Called(ctx, phone, otp)
	return args.Error(0)
}

func (m *MockOTPRepository) Latest(ctx context.Context, phone string) (*model.OTPLog, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OTPLog), args.Error(1)
}

func (m *MockOTPRepository) MarkVerified(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOTPRepository) PurgeBefore(ctx context.Context, t time.Time) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}
