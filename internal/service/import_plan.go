package service

import (
	"strings"

	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
)

// planImport matches CSV rows to the inventory by lowercased name. Rows without a name are skipped and
// a later row wins over an earlier one with the same name. With replaceAll, medicines missing from the
// CSV are deleted unless a dispense references them.
func planImport(parsed *ParsedImport, existing []model.Medicine, dispensed map[int64]bool, replaceAll bool) (repository.ImportPlan, model.ImportSummary) {
	var (
		plan    repository.ImportPlan
		summary = model.ImportSummary{Total: len(parsed.Rows), ReplacedAll: replaceAll}
	)

	byName := make(map[string]model.ImportRow, len(parsed.Rows))
	order := make([]string, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		key := strings.ToLower(strings.TrimSpace(row.Name))
		if key == "" {
			summary.Skipped++
			continue
		}
		if _, ok := byName[key]; !ok {
			order = append(order, key)
		}
		byName[key] = row
	}

	existingByName := make(map[string]model.Medicine, len(existing))
	for _, m := range existing {
		existingByName[strings.ToLower(strings.TrimSpace(m.Name))] = m
	}

	if replaceAll {
		for _, m := range existing {
			if _, keep := byName[strings.ToLower(strings.TrimSpace(m.Name))]; keep {
				continue
			}
			if dispensed[m.ID] {
				summary.KeptDueToHistory++
				continue
			}
			plan.Deletes = append(plan.Deletes, m.ID)
			summary.Deleted++
		}
	}

	for _, key := range order {
		row := byName[key]
		if m, ok := existingByName[key]; ok {
			plan.Updates = append(plan.Updates, mergeImportRow(m, row, parsed))
			summary.Updated++
			continue
		}
		plan.Inserts = append(plan.Inserts, mergeImportRow(model.Medicine{}, row, parsed))
		summary.Created++
	}
	return plan, summary
}

// mergeImportRow overwrites the fields of m that the CSV has a column for.
func mergeImportRow(m model.Medicine, row model.ImportRow, parsed *ParsedImport) model.Medicine {
	m.Name = strings.TrimSpace(row.Name)
	if parsed.has("strength") {
		m.Strength = row.Strength
	}
	if parsed.has("form") {
		m.Form = row.Form
	}
	if parsed.has("mrp") {
		m.MRP = row.MRP
	}
	if parsed.has("tax_pct") {
		m.TaxPct = row.TaxPct
	}
	if parsed.has("stock_qty") {
		m.StockQty = row.StockQty
	}
	if parsed.has("reorder_level") {
		m.ReorderLevel = row.ReorderLevel
	}
	if parsed.has("batch_no") {
		m.BatchNo = row.BatchNo
	}
	if parsed.has("expiry_date") {
		m.ExpiryDate = row.ExpiryDate
	}
	return m
}
