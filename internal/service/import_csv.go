package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/amarshaik012/smart-qr-health/internal/model"
)

// Inventory columns recognised in uploaded CSV files, keyed by lowercased header.
var importHeaderAliases = map[string]string{
	"name":          "name",
	"medicine":      "name",
	"drugname":      "name",
	"strength":      "strength",
	"form":          "form",
	"mrp":           "mrp",
	"price":         "mrp",
	"cost":          "mrp",
	"tax":           "tax_pct",
	"tax_pct":       "tax_pct",
	"qty":           "stock_qty",
	"quantity":      "stock_qty",
	"stock":         "stock_qty",
	"stock_qty":     "stock_qty",
	"reorder":       "reorder_level",
	"reorder_level": "reorder_level",
	"reorder_lev":   "reorder_level",
	"batch":         "batch_no",
	"batch_no":      "batch_no",
	"expiry":        "expiry_date",
	"expiry_date":   "expiry_date",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParsedImport is an uploaded inventory CSV after header normalisation.
type ParsedImport struct {
	Filename string            `json:"filename"`
	Columns  []string          `json:"columns"`
	Rows     []model.ImportRow `json:"rows"`
}

func (p *ParsedImport) has(field string) bool {
	for _, c := range p.Columns {
		if c == field {
			return true
		}
	}
	return false
}

// ParseInventoryCSV reads an inventory upload. Rows whose cells are all blank are dropped;
// unparsable numbers become zero.
func ParseInventoryCSV(filename string, r io.Reader) (*ParsedImport, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return nil, ErrNotCSV
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	out := &ParsedImport{Filename: filename, Rows: []model.ImportRow{}}
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return out, nil
	}
	if err != nil {
		return nil, invalid(fmt.Sprintf("Could not read CSV header: %v", err))
	}

	fields := make([]string, len(header))
	seen := map[string]bool{}
	for i, h := range header {
		f := importHeaderAliases[strings.ToLower(strings.TrimSpace(h))]
		fields[i] = f
		if f != "" && !seen[f] {
			seen[f] = true
			out.Columns = append(out.Columns, f)
		}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, invalid(fmt.Sprintf("Could not read CSV: %v", err))
		}
		if blankRecord(rec) {
			continue
		}
		out.Rows = append(out.Rows, importRow(fields, rec))
	}
	return out, nil
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func importRow(fields, rec []string) model.ImportRow {
	var row model.ImportRow
	for i, f := range fields {
		if f == "" || i >= len(rec) {
			continue
		}
		v := strings.TrimSpace(rec[i])
		switch f {
		case "name":
			row.Name = v
		case "strength":
			row.Strength = v
		case "form":
			row.Form = v
		case "mrp":
			row.MRP = parseFloat(v)
		case "tax_pct":
			row.TaxPct = parseFloat(v)
		case "stock_qty":
			row.StockQty = int(parseFloat(v))
		case "reorder_level":
			row.ReorderLevel = int(parseFloat(v))
		case "batch_no":
			row.BatchNo = v
		case "expiry_date":
			row.ExpiryDate = v
		}
	}
	return row
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
