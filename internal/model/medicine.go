package model

import (
	"strings"
	"time"
)

// Medicine is an inventory line of the pharmacy.
type Medicine struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Strength     string    `json:"strength"`
	Form         string    `json:"form"`
	MRP          float64   `json:"mrp"`
	TaxPct       float64   `json:"tax_pct"`
	StockQty     int       `json:"stock_qty"`
	ReorderLevel int       `json:"reorder_level"`
	BatchNo      string    `json:"batch_no"`
	ExpiryDate   string    `json:"expiry_date"`
	Manufacturer string    `json:"manufacturer"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Label joins the non-empty name, strength and form.
func (m Medicine) Label() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{m.Name, m.Strength, m.Form} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// IsLowStock reports whether stock has fallen to the reorder level.
func (m Medicine) IsLowStock() bool {
	return m.StockQty <= m.ReorderLevel
}

// InventoryValue is the MRP value of the stock on hand.
func (m Medicine) InventoryValue() float64 {
	return m.MRP * float64(m.StockQty)
}

// MedicineQty pairs a medicine with an aggregated quantity, used by dispensing reports.
type MedicineQty struct {
	MedicineID int64   `json:"medicine_id"`
	Name       string  `json:"name"`
	Qty        int     `json:"qty"`
	Amount     float64 `json:"amount,omitempty"`
}
