package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
	repoMocks "github.com/amarshaik012/smart-qr-health/internal/repository/mocks"
)

func TestLowStockThreshold(t *testing.T) {
	tests := []struct {
		prompt string
		want   int
	}{
		{"low stock", 5},
		{"low stock 3", 3},
		{"stock<=12", 12},
		{"below 20000 or 7", 7},
		{"reorder 0", 0},
		{"low stock -3", 5},
		{"low stock 3.5", 5},
		{"low stock b12", 5},
		{"low stock -3 or 4", 4},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			assert.Equal(t, tt.want, lowStockThreshold(tt.prompt))
		})
	}
}

func TestFormatRupees(t *testing.T) {
	assert.Equal(t, "₹1,234,567.50", FormatRupees(1234567.5))
	assert.Equal(t, "₹0.00", FormatRupees(0))
}

func TestPharmacyService_Assistant(t *testing.T) {
	ctx := context.Background()
	f := newPharmacyFixture(nil, "")

	f.medicines.On("LowStock", ctx, 3, lowStockLimit).Return([]model.MedicineQty{{Name: "Paracetamol", Qty: 2}}, nil)
	f.medicines.On("LowStock", ctx, 5, lowStockLimit).Return([]model.MedicineQty{}, nil)
	f.dispenses.On("TopDispensed", ctx, repository.TimeRange{
		From: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}, topMonthLimit).Return([]model.MedicineQty{{Name: "Ibuprofen", Qty: 40}}, nil)
	f.medicines.On("InventoryValue", ctx).Return(12500.0, nil)

	tests := []struct {
		prompt    string
		wantReply string
		wantItems []string
	}{
		{"Low stock 3", "Low stock (≤ 3) items:", []string{"Paracetamol — 2 left"}},
		{"any shortage?", "Low stock (≤ 5) items:", []string{}},
		{"Top medicines this month", "Top medicines this month:", []string{"Ibuprofen — 40 dispensed"}},
		{"what is the value of my inventory", "Estimated inventory value: ₹12,500.00", []string{}},
		{"hello", assistantHelp, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			reply, err := f.svc.Assistant(ctx, tt.prompt)
			require.NoError(t, err)
			assert.Equal(t, tt.wantReply, reply.Reply)
			assert.Equal(t, tt.wantItems, reply.Items)
		})
	}
}

func TestReportService_Summary(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("IST", 5*3600+1800)

	tests := []struct {
		rng       string
		wantRange string
		wantSince time.Time
	}{
		{"daily", RangeDaily, time.Date(2024, 5, 10, 0, 0, 0, 0, loc)},
		{"", RangeDaily, time.Date(2024, 5, 10, 0, 0, 0, 0, loc)},
		{"Monthly", RangeMonthly, fixedNow.In(loc).AddDate(0, 0, -30)},
	}
	for _, tt := range tests {
		t.Run(tt.wantRange+tt.rng, func(t *testing.T) {
			dispenses := new(repoMocks.MockDispenseRepository)
			svc := NewReportService(dispenses, loc).(*reportService)
			svc.now = func() time.Time { return fixedNow }

			dispenses.On("Totals", ctx, tt.wantSince).Return(420.5, 17, nil)
			dispenses.On("TopDispensed", ctx, repository.TimeRange{From: tt.wantSince, To: allTime().To}, reportTopLimit).
				Return([]model.MedicineQty{{Name: "Paracetamol", Qty: 12}}, nil)

			sum, err := svc.Summary(ctx, tt.rng)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRange, sum.Range)
			assert.True(t, tt.wantSince.Equal(sum.Since))
			assert.Equal(t, 420.5, sum.SalesTotal)
			assert.Equal(t, 17, sum.UnitsTotal)
			assert.Equal(t, []NameQty{{Name: "Paracetamol", Qty: 12}}, sum.TopMedicines)
		})
	}
}
