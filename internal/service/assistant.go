package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
)

const (
	defaultLowStockThreshold = 5
	maxLowStockThreshold     = 10000
	lowStockLimit            = 25
	topMonthLimit            = 10
)

const assistantHelp = "Try: ‘low stock’, ‘top medicines this month’, or ‘inventory value’. " +
	"You can also say ‘low stock 3’ to set a threshold."

var (
	lowStockWords  = []string{"low stock", "low", "below", "shortage", "stock alert", "reorder"}
	topWords       = []string{"top", "popular", "this month"}
	comparators    = strings.NewReplacer("=", " ", "<", " ", ">", " ")
	moneyPrinter   = message.NewPrinter(language.English)
)

// AssistantReply answers a PharmaDesk assistant prompt.
type AssistantReply struct {
	Reply string   `json:"reply"`
	Items []string `json:"items"`
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// lowStockThreshold returns the first whole-word integer of prompt within 0..10000, or the default.
func lowStockThreshold(prompt string) int {
	for _, tok := range strings.Fields(comparators.Replace(prompt)) {
		n, err := strconv.Atoi(tok)
		if err == nil && n >= 0 && n <= maxLowStockThreshold {
			return n
		}
	}
	return defaultLowStockThreshold
}

// FormatRupees renders v like ₹1,234.50.
func FormatRupees(v float64) string {
	return "₹" + moneyPrinter.Sprintf("%.2f", v)
}

func monthRange(now time.Time) repository.TimeRange {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return repository.TimeRange{From: from, To: from.AddDate(0, 1, 0)}
}

func (s *pharmacyService) Assistant(ctx context.Context, prompt string) (*AssistantReply, error) {
	q := strings.ToLower(strings.TrimSpace(prompt))

	switch {
	case containsAny(q, lowStockWords):
		threshold := lowStockThreshold(q)
		rows, err := s.medicines.LowStock(ctx, threshold, lowStockLimit)
		if err != nil {
			return nil, err
		}
		return &AssistantReply{
			Reply: fmt.Sprintf("Low stock (≤ %d) items:", threshold),
			Items: qtyLines(rows, "left"),
		}, nil

	case containsAny(q, topWords):
		rows, err := s.dispenses.TopDispensed(ctx, monthRange(s.now().In(s.loc)), topMonthLimit)
		if err != nil {
			return nil, err
		}
		return &AssistantReply{Reply: "Top medicines this month:", Items: qtyLines(rows, "dispensed")}, nil

	case strings.Contains(q, "inventory value") || (strings.Contains(q, "inventory") && strings.Contains(q, "value")):
		v, err := s.medicines.InventoryValue(ctx)
		if err != nil {
			return nil, err
		}
		return &AssistantReply{Reply: "Estimated inventory value: " + FormatRupees(v), Items: []string{}}, nil
	}
	return &AssistantReply{Reply: assistantHelp, Items: []string{}}, nil
}

func qtyLines(rows []model.MedicineQty, verb string) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, fmt.Sprintf("%s — %d %s", r.Name, r.Qty, verb))
	}
	return out
}
