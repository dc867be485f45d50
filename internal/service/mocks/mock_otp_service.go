package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockOTPService struct {
	mock.Mock
}

func (m *MockOTPService) SendPublic(ctx context.Context, phone string) error {
	return m.Called(ctx, phone).Error(0)
}

func (m *MockOTPService) VerifyPublic(ctx context.Context, phone, code string) (bool, error) {
	args := m.Called(ctx, phone, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockOTPService) SendReception(ctx context.Context, phone string) error {
	return m.Called(ctx, phone).Error(0)
}

func (m *MockOTPService) VerifyReception(ctx context.Context, phone, code string) error {
	return m.Called(ctx, phone, code).Error(0)
}
