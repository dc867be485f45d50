package service

import (
	"context"
	"strings"
	"time"

	"github.com/amarshaik012/smart-qr-health/internal/repository"
)

// Report ranges.
const (
	RangeDaily   = "daily"
	RangeMonthly = "monthly"
)

const reportTopLimit = 10

// Summary is the sales report of a range.
type Summary struct {
	Range        string    `json:"range"`
	Since        time.Time `json:"since"`
	SalesTotal   float64   `json:"sales_total"`
	UnitsTotal   int       `json:"units_total"`
	TopMedicines []NameQty `json:"top_medicines"`
}

// ReportService aggregates dispensing data.
type ReportService interface {
	// Summary covers the last 30 days for "monthly" and today otherwise.
	Summary(ctx context.Context, rng string) (*Summary, error)
}

type reportService struct {
	dispenses repository.DispenseRepository
	loc       *time.Location
	now       func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(dispenses repository.DispenseRepository, loc *time.Location) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{dispenses: dispenses, loc: loc, now: time.Now}
}

func (s *reportService) since(rng string) (string, time.Time) {
	now := s.now().In(s.loc)
	if strings.EqualFold(strings.TrimSpace(rng), RangeMonthly) {
		return RangeMonthly, now.AddDate(0, 0, -30)
	}
	return RangeDaily, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

func (s *reportService) Summary(ctx context.Context, rng string) (*Summary, error) {
	rng, since := s.since(rng)
	sales, units, err := s.dispenses.Totals(ctx, since)
	if err != nil {
		return nil, err
	}
	top, err := s.dispenses.TopDispensed(ctx, repository.TimeRange{From: since, To: allTime().To}, reportTopLimit)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Range:        rng,
		Since:        since,
		SalesTotal:   sales,
		UnitsTotal:   units,
		TopMedicines: nameQty(top),
	}, nil
}
