package model

import "time"

// Dispense is a pharmacy bill header. Items are loaded alongside when needed.
type Dispense struct {
	ID          int64          `json:"id"`
	PatientID   int64          `json:"patient_id"`
	TotalAmount float64        `json:"total_amount"`
	Pharmacist  string         `json:"pharmacist"`
	PaymentMode string         `json:"payment_mode"`
	Notes       string         `json:"notes"`
	CreatedAt   time.Time      `json:"created_at"`
	Items       []DispenseItem `json:"items,omitempty"`
}

// DispenseItem is one billed line; price, tax and label are captured at dispense time.
type DispenseItem struct {
	ID          int64   `json:"id"`
	DispenseID  int64   `json:"dispense_id"`
	MedicineID  int64   `json:"medicine_id"`
	Label       string  `json:"label"`
	BatchNo     string  `json:"batch_no"`
	ExpiryDate  string  `json:"expiry_date"`
	Qty         int     `json:"qty"`
	UnitPrice   float64 `json:"unit_price"`
	DiscountPct float64 `json:"discount_pct"`
	TaxPct      float64 `json:"tax_pct"`
	Notes       string  `json:"notes"`
}

// LineTotal is unit price times quantity before discount and tax.
func (i DispenseItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Qty)
}
