package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/amarshaik012/smart-qr-health/internal/service"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Summary(ctx context.Context, rng string) (*service.Summary, error) {
	args := m.Called(ctx, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Summary), args.Error(1)
}
