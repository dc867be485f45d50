package model

// ImportRow is a parsed CSV inventory row after header normalisation.
type ImportRow struct {
	Name         string  `json:"name"`
	Strength     string  `json:"strength"`
	Form         string  `json:"form"`
	MRP          float64 `json:"mrp"`
	TaxPct       float64 `json:"tax_pct"`
	StockQty     int     `json:"stock_qty"`
	ReorderLevel int     `json:"reorder_level"`
	BatchNo      string  `json:"batch_no"`
	ExpiryDate   string  `json:"expiry_date"`
}

// ImportSummary reports what an applied import changed.
type ImportSummary struct {
	Created          int  `json:"created"`
	Updated          int  `json:"updated"`
	Skipped          int  `json:"skipped"`
	Deleted          int  `json:"deleted"`
	KeptDueToHistory int  `json:"kept_due_to_history"`
	Total            int  `json:"total"`
	ReplacedAll      bool `json:"replaced_all"`
}
