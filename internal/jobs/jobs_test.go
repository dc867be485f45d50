package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/cache"
	repoMocks "github.com/amarshaik012/smart-qr-health/internal/repository/mocks"
)

func newTestScheduler(t *testing.T) (*Scheduler, *repoMocks.MockOTPRepository, *repoMocks.MockMedicineRepository, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	otps := new(repoMocks.MockOTPRepository)
	meds := new(repoMocks.MockMedicineRepository)
	s, err := NewScheduler(otps, meds, zap.New(core), time.UTC)
	require.NoError(t, err)
	return s, otps, meds, logs
}

func TestNewScheduler_RegistersJobs(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)
	assert.Len(t, s.cron.Entries(), 2)
}

type stubPurger struct{ purged *int }

func (p stubPurger) Purge() int {
	*p.purged++
	return 2
}

func TestNewScheduler_CachePurge(t *testing.T) {
	calls := 0
	core, logs := observer.New(zap.DebugLevel)
	s, err := NewScheduler(new(repoMocks.MockOTPRepository), new(repoMocks.MockMedicineRepository),
		zap.New(core), time.UTC, WithCachePurge(stubPurger{purged: &calls}))
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 3)

	require.NoError(t, s.PurgeCache(context.Background()))
	assert.Equal(t, 1, calls)
	entry := logs.FilterMessage("cache entries purged")
	require.Equal(t, 1, entry.Len())
	assert.EqualValues(t, 2, entry.All()[0].ContextMap()["entries"])
}

func TestPurgeCache_MemoryCache(t *testing.T) {
	mem := cache.NewMemory()
	require.NoError(t, mem.Set(context.Background(), "import:abc", []byte("rows"), -time.Second))
	s, err := NewScheduler(new(repoMocks.MockOTPRepository), new(repoMocks.MockMedicineRepository),
		zap.NewNop(), time.UTC, WithCachePurge(mem))
	require.NoError(t, err)

	require.NoError(t, s.PurgeCache(context.Background()))
	assert.Zero(t, mem.Len())
}

func TestPurgeCache_WithoutCache(t *testing.T) {
	s, _, _, logs := newTestScheduler(t)
	require.NoError(t, s.PurgeCache(context.Background()))
	assert.Zero(t, logs.FilterMessage("cache entries purged").Len())
}

func TestPurgeOTPs(t *testing.T) {
	s, otps, _, logs := newTestScheduler(t)
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	otps.On("PurgeBefore", mock.Anything, now.Add(-24*time.Hour)).Return(int64(3), nil).Once()
	require.NoError(t, s.PurgeOTPs(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("otp logs purged").Len())

	otps.On("PurgeBefore", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down")).Once()
	err := s.PurgeOTPs(context.Background())
	assert.EqualError(t, err, "purge otp logs: db down")
	otps.AssertExpectations(t)
}

func TestReportLowStock(t *testing.T) {
	s, _, meds, logs := newTestScheduler(t)
	meds.On("BelowReorder", mock.Anything).Return([]model.Medicine{
		{ID: 1, Name: "Paracetamol", Strength: "500mg", StockQty: 2, ReorderLevel: 10},
		{ID: 2, Name: "ORS", StockQty: 0, ReorderLevel: 5},
	}, nil)

	require.NoError(t, s.ReportLowStock(context.Background()))
	warn := logs.FilterMessage("medicine at reorder level")
	require.Equal(t, 2, warn.Len())
	assert.Equal(t, "Paracetamol 500mg", warn.All()[0].ContextMap()["medicine"])
}

func TestWrap_LogsFailure(t *testing.T) {
	s, _, _, logs := newTestScheduler(t)
	s.wrap("broken", func(context.Context) error { return errors.New("boom") })()
	assert.Equal(t, 1, logs.FilterField(zap.String("job", "broken")).Len())
}

func TestStartStop(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
