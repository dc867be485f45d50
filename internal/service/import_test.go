package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarshaik012/smart-qr-health/internal/model"
)

func TestParseInventoryCSV(t *testing.T) {
	csvData := "\xEF\xBB\xBFMedicine, Strength ,Form,Price,Qty,Reorder,Expiry,Ignored\n" +
		"Paracetamol,500mg,Tablet,2.5,100,10,2026-01,x\n" +
		",,,,,,,\n" +
		"Cetirizine,10mg,Tablet,abc,7.9,,,\n"

	parsed, err := ParseInventoryCSV("stock.CSV", strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "strength", "form", "mrp", "stock_qty", "reorder_level", "expiry_date"}, parsed.Columns)
	require.Len(t, parsed.Rows, 2)
	assert.Equal(t, model.ImportRow{
		Name: "Paracetamol", Strength: "500mg", Form: "Tablet", MRP: 2.5, StockQty: 100, ReorderLevel: 10, ExpiryDate: "2026-01",
	}, parsed.Rows[0])
	assert.Equal(t, 0.0, parsed.Rows[1].MRP)
	assert.Equal(t, 7, parsed.Rows[1].StockQty)
}

func TestParseInventoryCSV_Rejects(t *testing.T) {
	_, err := ParseInventoryCSV("stock.xlsx", strings.NewReader("name\nx\n"))
	assert.ErrorIs(t, err, ErrNotCSV)

	parsed, err := ParseInventoryCSV("empty.csv", strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, parsed.Rows)
}

func TestPlanImport(t *testing.T) {
	existing := []model.Medicine{
		{ID: 1, Name: "Paracetamol", Strength: "500mg", MRP: 2, StockQty: 5, BatchNo: "B1"},
		{ID: 2, Name: "Old Syrup", StockQty: 1},
		{ID: 3, Name: "Dispensed Drug", StockQty: 0},
	}
	parsed := &ParsedImport{
		Columns: []string{"name", "mrp", "stock_qty"},
		Rows: []model.ImportRow{
			{Name: "paracetamol", MRP: 3, StockQty: 40},
			{Name: "Ibuprofen", MRP: 4, StockQty: 10},
			{Name: " "},
			{Name: "IBUPROFEN", MRP: 5, StockQty: 12},
		},
	}

	t.Run("upsert", func(t *testing.T) {
		plan, summary := planImport(parsed, existing, nil, false)
		assert.Equal(t, model.ImportSummary{Created: 1, Updated: 1, Skipped: 1, Total: 4}, summary)
		assert.Empty(t, plan.Deletes)

		require.Len(t, plan.Updates, 1)
		upd := plan.Updates[0]
		assert.Equal(t, int64(1), upd.ID)
		assert.Equal(t, "paracetamol", upd.Name)
		assert.Equal(t, 3.0, upd.MRP)
		assert.Equal(t, 40, upd.StockQty)
		assert.Equal(t, "500mg", upd.Strength, "columns absent from the CSV are kept")
		assert.Equal(t, "B1", upd.BatchNo)

		require.Len(t, plan.Inserts, 1)
		assert.Equal(t, "IBUPROFEN", plan.Inserts[0].Name)
		assert.Equal(t, 12, plan.Inserts[0].StockQty)
	})

	t.Run("replace all keeps dispensed medicines", func(t *testing.T) {
		plan, summary := planImport(parsed, existing, map[int64]bool{3: true}, true)
		assert.Equal(t, []int64{2}, plan.Deletes)
		assert.Equal(t, 1, summary.Deleted)
		assert.Equal(t, 1, summary.KeptDueToHistory)
		assert.True(t, summary.ReplacedAll)
	})
}
