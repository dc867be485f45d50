package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/service"
)

type MockPharmacyService struct {
	mock.Mock
}

func (m *MockPharmacyService) KPIs(ctx context.Context) (*service.KPIs, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.KPIs), args.Error(1)
}

func (m *MockPharmacyService) Overview(ctx context.Context) (*service.Overview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Overview), args.Error(1)
}

func (m *MockPharmacyService) Inventory(ctx context.Context, q string, page, perPage int) (*service.InventoryPage, error) {
	args := m.Called(ctx, q, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InventoryPage), args.Error(1)
}

func (m *MockPharmacyService) Import(ctx context.Context, parsed *service.ParsedImport, replaceAll bool) (*model.ImportSummary, error) {
	args := m.Called(ctx, parsed, replaceAll)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportSummary), args.Error(1)
}

func (m *MockPharmacyService) PreviewImport(ctx context.Context, parsed *service.ParsedImport, replaceAll bool) (*service.ImportPreview, error) {
	args := m.Called(ctx, parsed, replaceAll)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportPreview), args.Error(1)
}

func (m *MockPharmacyService) ConfirmImport(ctx context.Context, token string, replaceAll *bool) (*model.ImportSummary, error) {
	args := m.Called(ctx, token, replaceAll)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportSummary), args.Error(1)
}

func (m *MockPharmacyService) PrescriptionForScan(ctx context.Context, uid string) (*service.ScanResult, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScanResult), args.Error(1)
}

func (m *MockPharmacyService) Dispense(ctx context.Context, uid string, in service.DispenseInput) (*model.Dispense, error) {
	args := m.Called(ctx, uid, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dispense), args.Error(1)
}

func (m *MockPharmacyService) Bill(ctx context.Context, dispenseID int64) (*service.BillDocument, error) {
	args := m.Called(ctx, dispenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BillDocument), args.Error(1)
}

func (m *MockPharmacyService) BillPreview(ctx context.Context, dispenseID int64) (*service.BillPreview, error) {
	args := m.Called(ctx, dispenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BillPreview), args.Error(1)
}

func (m *MockPharmacyService) SharedBill(ctx context.Context, token string) (*service.SharedBill, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SharedBill), args.Error(1)
}

func (m *MockPharmacyService) Medicines(ctx context.Context, q string, limit int) ([]service.MedicineOption, error) {
	args := m.Called(ctx, q, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.MedicineOption), args.Error(1)
}

func (m *MockPharmacyService) Assistant(ctx context.Context, prompt string) (*service.AssistantReply, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AssistantReply), args.Error(1)
}

func (m *MockPharmacyService) ScanPrescription(ctx context.Context, image []byte) (*service.OCRResult, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OCRResult), args.Error(1)
}
func (m *MockPharmacyService) SyncStock(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPharmacyService) ShareLink(ctx context.Context, dispenseID int64) (string, error) {
	args := m.Called(ctx, dispenseID)
	return args.String(0), args.Error(1)
}
