// Package jobs runs the periodic housekeeping of the service on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/amarshaik012/smart-qr-health/internal/otel"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
)

// Default schedules, in the configured location.
const (
	OTPPurgeSpec   = "@hourly"
	LowStockSpec   = "0 8 * * *"
	CachePurgeSpec = "@every 5m"
)

// OTPRetention is how long OTP log rows are kept.
const OTPRetention = 24 * time.Hour

// Purger drops expired entries from an in-process store and reports how many went.
type Purger interface {
	Purge() int
}

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithCachePurge adds a job that purges expired entries from p every five minutes.
func WithCachePurge(p Purger) Option {
	return func(s *Scheduler) { s.cache = p }
}

// Scheduler owns the cron runner and the jobs registered on it.
type Scheduler struct {
	cron      *cron.Cron
	otps      repository.OTPRepository
	medicines repository.MedicineRepository
	cache     Purger
	log       *zap.Logger
	now       func() time.Time
	timeout   time.Duration
}

// NewScheduler registers the OTP purge and low-stock report jobs, plus the cache purge when configured.
func NewScheduler(otps repository.OTPRepository, medicines repository.MedicineRepository, log *zap.Logger, loc *time.Location, opts ...Option) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		otps:      otps,
		medicines: medicines,
		log:       log.With(zap.String("component", "jobs")),
		now:       time.Now,
		timeout:   time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := s.cron.AddFunc(OTPPurgeSpec, s.wrap("otp_purge", s.PurgeOTPs)); err != nil {
		return nil, fmt.Errorf("schedule otp purge: %w", err)
	}
	if _, err := s.cron.AddFunc(LowStockSpec, s.wrap("low_stock_report", s.ReportLowStock)); err != nil {
		return nil, fmt.Errorf("schedule low stock report: %w", err)
	}
	if s.cache != nil {
		if _, err := s.cron.AddFunc(CachePurgeSpec, s.wrap("cache_purge", s.PurgeCache)); err != nil {
			return nil, fmt.Errorf("schedule cache purge: %w", err)
		}
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop prevents new runs and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) wrap(name string, fn func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		ctx, span := otel.Tracer().Start(ctx, "job "+name)
		defer span.End()

		start := time.Now()
		if err := fn(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.log.Error("job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.log.Debug("job done", zap.String("job", name), zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	}
}

// PurgeOTPs deletes OTP log rows older than OTPRetention.
func (s *Scheduler) PurgeOTPs(ctx context.Context) error {
	n, err := s.otps.PurgeBefore(ctx, s.now().Add(-OTPRetention))
	if err != nil {
		return fmt.Errorf("purge otp logs: %w", err)
	}
	if n > 0 {
		s.log.Info("otp logs purged", zap.Int64("rows", n))
	}
	return nil
}

// PurgeCache drops expired entries from the in-process cache.
func (s *Scheduler) PurgeCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if n := s.cache.Purge(); n > 0 {
		s.log.Info("cache entries purged", zap.Int("entries", n))
	}
	return nil
}

// ReportLowStock logs every medicine that has reached its reorder level.
func (s *Scheduler) ReportLowStock(ctx context.Context) error {
	meds, err := s.medicines.BelowReorder(ctx)
	if err != nil {
		return fmt.Errorf("list low stock: %w", err)
	}
	for _, m := range meds {
		s.log.Warn("medicine at reorder level",
			zap.Int64("medicine_id", m.ID),
			zap.String("medicine", m.Label()),
			zap.Int("stock_qty", m.StockQty),
			zap.Int("reorder_level", m.ReorderLevel),
		)
	}
	s.log.Info("low stock report", zap.Int("count", len(meds)))
	return nil
}
