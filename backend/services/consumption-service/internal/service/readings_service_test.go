package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dropzero/backend/libs/metrics"
	"dropzero/backend/services/consumption-service/internal/analytics"
	"dropzero/backend/services/consumption-service/internal/models"
	"dropzero/backend/services/consumption-service/internal/repository"
)

var julyNow = time.Date(2024, time.July, 10, 9, 30, 0, 0, time.UTC)

type readingsFixture struct {
	svc       *ReadingsService
	store     *fakeReadingStore
	cache     *memoryCache
	publisher *recordingPublisher
	metrics   *metrics.Metrics
	clock     *clockwork.FakeClock
}

func newReadingsFixture(t *testing.T) *readingsFixture {
	t.Helper()

	seq := 0
	prev := newReadingID
	newReadingID = func() string {
		seq++
		return fmt.Sprintf("MN-test-%d", seq)
	}
	t.Cleanup(func() { newReadingID = prev })

	store := newFakeReadingStore()
	store.meters[1] = models.Meter{ID: "SN-1", UserID: 1, Status: models.MeterActive, Zone: models.ZonePovo}
	store.meters[2] = models.Meter{ID: "SN-2", UserID: 2, Status: models.MeterInactive, Zone: models.ZonePovo}

	f := &readingsFixture{
		store:     store,
		cache:     newMemoryCache(),
		publisher: &recordingPublisher{},
		metrics:   metrics.NewMetrics(nil),
		clock:     clockwork.NewFakeClockAt(julyNow),
	}
	tariffs := NewTariffService(nil, DefaultFixedWeeklyCharge, DefaultRatePerM3, zap.NewNop())
	f.svc = NewReadingsService(store, tariffs, ReadingsDeps{
		Users:     fakeUsers{1: {ID: 1, FirstName: "Marco", LastName: "Bianchi", Address: "Via Belenzani 3"}},
		Cache:     f.cache,
		Publisher: f.publisher,
		Metrics:   f.metrics,
		Clock:     f.clock,
		Tips:      analytics.TipPickerFunc(func(string, int) int { return 0 }),
	}, zap.NewNop())
	return f
}

func (f *readingsFixture) seed(userID int64, meterID string, weekEnd time.Time, previous, current float64) {
	c := analytics.Consumed(previous, current)
	cost := analytics.Cost(c, models.Tariff{FixedWeeklyCharge: DefaultFixedWeeklyCharge, RatePerM3: DefaultRatePerM3})
	f.store.readings = append(f.store.readings, models.WeeklyReading{
		ID:              fmt.Sprintf("AU-%s-%s", meterID, weekEnd.Format("20060102")),
		MeterID:         meterID,
		UserID:          userID,
		WeekStartDate:   weekEnd.AddDate(0, 0, -7),
		WeekEndDate:     weekEnd,
		ReadingDate:     weekEnd,
		PreviousReading: previous,
		CurrentReading:  current,
		VolumeConsumed:  c.Liters,
		VolumeM3:        c.M3,
		Method:          models.MethodAutomated,
		Quality:         models.QualityValid,
		Cost:            cost.Total,
	})
}

func submit(value float64, date time.Time) SubmitReadingInput {
	return SubmitReadingInput{UserID: 1, ReadingValue: &value, Date: &date}
}

func TestSubmitComputesVolumeAndCost(t *testing.T) {
	f := newReadingsFixture(t)
	lastWeek := time.Date(2024, time.July, 7, 0, 0, 0, 0, time.UTC)
	f.seed(1, "SN-1", lastWeek, 96, 100)

	date := time.Date(2024, time.July, 14, 0, 0, 0, 0, time.UTC)
	created, err := f.svc.Submit(context.Background(), submit(105, date))
	require.NoError(t, err)

	assert.Equal(t, "MN-test-1", created.ID)
	assert.Equal(t, "SN-1", created.MeterID)
	assert.Equal(t, 100.0, created.PreviousReading)
	assert.Equal(t, 105.0, created.CurrentReading)
	assert.Equal(t, int64(5000), created.VolumeConsumed)
	assert.Equal(t, 5.0, created.VolumeM3)
	assert.Equal(t, 12.81, created.Cost)
	require.NotNil(t, created.CostBreakdown)
	assert.Equal(t, 10.5, created.CostBreakdown.ConsumptionCost)
	assert.Equal(t, models.MethodManual, created.Method)
	assert.Equal(t, models.QualityValid, created.Quality)
	assert.True(t, created.WeekStartDate.Equal(lastWeek))
	assert.True(t, created.WeekEndDate.Equal(date))
	assert.True(t, created.ReadingDate.Equal(julyNow))

	assert.Len(t, f.store.readings, 2)
	assert.Equal(t, 1, f.cache.invalidated)
	assert.Empty(t, f.publisher.alerts)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.ReadingsIngested.WithLabelValues("manual")), 1e-9)
}

func TestSubmitFirstReadingStartsAWeekEarlier(t *testing.T) {
	f := newReadingsFixture(t)
	date := time.Date(2024, time.July, 14, 0, 0, 0, 0, time.UTC)

	created, err := f.svc.Submit(context.Background(), submit(3.5, date))
	require.NoError(t, err)

	assert.Zero(t, created.PreviousReading)
	assert.Equal(t, int64(3500), created.VolumeConsumed)
	assert.True(t, created.WeekStartDate.Equal(date.AddDate(0, 0, -7)))
}

func TestSubmitRejectsLowerReading(t *testing.T) {
	f := newReadingsFixture(t)
	f.seed(1, "SN-1", time.Date(2024, time.July, 7, 0, 0, 0, 0, time.UTC), 96, 100)

	_, err := f.svc.Submit(context.Background(), submit(99.5, julyNow))
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrReadingTooLow)
	assert.Equal(t, "new reading cannot be lower than previous (100)", verr.Error())
	assert.Len(t, f.store.readings, 1)
	assert.Zero(t, f.cache.invalidated)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.IngestionRejected.WithLabelValues("too_low")), 1e-9)
}

func TestSubmitUsesHighestReadingNotLatestDate(t *testing.T) {
	f := newReadingsFixture(t)
	f.seed(1, "SN-1", time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), 100, 120)
	// an out of order row with a later week but a lower cumulative value
	f.seed(1, "SN-1", time.Date(2024, time.July, 7, 0, 0, 0, 0, time.UTC), 100, 110)

	_, err := f.svc.Submit(context.Background(), submit(115, julyNow))
	assert.ErrorIs(t, err, ErrReadingTooLow)
}

func TestSubmitWithoutActiveMeter(t *testing.T) {
	f := newReadingsFixture(t)
	value, date := 10.0, julyNow

	_, err := f.svc.Submit(context.Background(), SubmitReadingInput{UserID: 2, ReadingValue: &value, Date: &date})
	assert.ErrorIs(t, err, ErrNoActiveMeter)

	_, err = f.svc.Submit(context.Background(), SubmitReadingInput{UserID: 3, ReadingValue: &value, Date: &date})
	assert.ErrorIs(t, err, ErrNoActiveMeter)
	assert.InDelta(t, 2, testutil.ToFloat64(f.metrics.IngestionRejected.WithLabelValues("no_meter")), 1e-9)
}

func TestSubmitRequiresFields(t *testing.T) {
	f := newReadingsFixture(t)
	value, negative, date := 10.0, -1.0, julyNow

	cases := []SubmitReadingInput{
		{UserID: 1, ReadingValue: &value},
		{UserID: 1, Date: &date},
		{UserID: 1, ReadingValue: &negative, Date: &date},
		{ReadingValue: &value, Date: &date},
	}
	for _, in := range cases {
		_, err := f.svc.Submit(context.Background(), in)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Empty(t, f.store.readings)
}

func TestSubmitStoreFailure(t *testing.T) {
	f := newReadingsFixture(t)
	f.store.failWith = errStoreDown

	_, err := f.svc.Submit(context.Background(), submit(10, julyNow))
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)

	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.IngestionRejected.WithLabelValues("store")), 1e-9)
}

func TestSubmitPublishesAnomalies(t *testing.T) {
	f := newReadingsFixture(t)
	f.seed(1, "SN-1", time.Date(2024, time.July, 7, 0, 0, 0, 0, time.UTC), 90, 100)

	_, err := f.svc.Submit(context.Background(), submit(108, julyNow))
	require.NoError(t, err)
	assert.Empty(t, f.publisher.alerts)

	_, err = f.svc.Submit(context.Background(), submit(124.5, julyNow.AddDate(0, 0, 7)))
	require.NoError(t, err)

	require.Len(t, f.publisher.alerts, 1)
	alert := f.publisher.alerts[0]
	assert.Equal(t, "MN-test-2", alert.ID)
	assert.Equal(t, "Marco Bianchi", alert.User)
	assert.Equal(t, "Via Belenzani 3", alert.Address)
	assert.Equal(t, string(models.ZonePovo), alert.Zone)
	assert.Equal(t, 16.5, alert.Volume)
	assert.Equal(t, models.StatusCritical, alert.Severity)
}

func TestSubmitConcurrentKeepsChain(t *testing.T) {
	f := newReadingsFixture(t)
	f.seed(1, "SN-1", time.Date(2024, time.July, 7, 0, 0, 0, 0, time.UTC), 90, 100)

	var mu sync.Mutex
	seq := 0
	newReadingID = func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("MN-c-%d", seq)
	}

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(value float64) {
			defer wg.Done()
			_, _ = f.svc.Submit(context.Background(), submit(value, julyNow))
		}(100 + float64(i))
	}
	wg.Wait()

	manual := make(map[float64]models.WeeklyReading)
	for _, r := range f.store.readings {
		if r.Method == models.MethodManual {
			manual[r.PreviousReading] = r
		}
	}
	require.NotEmpty(t, manual)

	// Each accepted reading must start where the previous accepted one ended.
	cursor := 100.0
	for n := 0; n < len(manual); n++ {
		r, ok := manual[cursor]
		require.True(t, ok, "no reading continues from %v", cursor)
		cursor = r.CurrentReading
	}
}

func TestHistoryPagination(t *testing.T) {
	f := newReadingsFixture(t)
	start := time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		f.seed(1, "SN-1", start.AddDate(0, 0, 7*i), float64(i), float64(i+1))
	}

	page, err := f.svc.History(context.Background(), 1, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 25, page.TotalReadings)
	require.Len(t, page.Readings, 5)
	assert.True(t, page.Readings[0].WeekEndDate.Equal(start.AddDate(0, 0, 7*4)))

	page, err = f.svc.History(context.Background(), 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Readings, 10)
	assert.True(t, page.Readings[0].WeekEndDate.Equal(start.AddDate(0, 0, 7*24)))
}

func TestChartTimeframes(t *testing.T) {
	f := newReadingsFixture(t)
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		f.seed(1, "SN-1", start.AddDate(0, 0, 7*i), float64(i), float64(i+1))
	}

	points, err := f.svc.Chart(context.Background(), 1, analytics.Timeframe1Year)
	require.NoError(t, err)
	require.Len(t, points, 52)
	assert.Equal(t, start.AddDate(0, 0, 7*8).Format("02/01"), points[0].Label)
	assert.Equal(t, start.AddDate(0, 0, 7*59).Format("02/01"), points[51].Label)

	points, err = f.svc.Chart(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Len(t, points, 12)
}

func TestAdviceFollowsClock(t *testing.T) {
	f := newReadingsFixture(t)

	items, err := f.svc.Advice(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "season-summer", items[0].ID)

	f.clock.Advance(120 * 24 * time.Hour)
	items, err = f.svc.Advice(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, items, 4)
}

func TestDashboardUsesStore(t *testing.T) {
	f := newReadingsFixture(t)

	stats, err := f.svc.Dashboard(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, stats.HasData)

	f.seed(1, "SN-1", time.Date(2024, time.July, 7, 0, 0, 0, 0, time.UTC), 100, 105)
	stats, err = f.svc.Dashboard(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, stats.HasData)
	assert.Equal(t, int64(5000), stats.CurrentConsumption)
	assert.Equal(t, 55.47, stats.EstimatedCost)

	f.store.failWith = errStoreDown
	_, err = f.svc.Dashboard(context.Background(), 1)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestExportWritesCSV(t *testing.T) {
	f := newReadingsFixture(t)
	f.seed(1, "SN-1", time.Date(2024, time.July, 14, 0, 0, 0, 0, time.UTC), 100, 105)
	f.seed(1, "SN-1", time.Date(2024, time.July, 7, 0, 0, 0, 0, time.UTC), 96.5, 100)

	var buf bytes.Buffer
	require.NoError(t, f.svc.Export(context.Background(), 1, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "week_start,week_end,previous_reading,current_reading,liters,m3,cost,method,quality", lines[0])
	assert.Equal(t, "2024-06-30,2024-07-07,96.5,100,3500,3.50,9.66,automated,valid", lines[1])
	assert.Equal(t, "2024-07-07,2024-07-14,100,105,5000,5.00,12.81,automated,valid", lines[2])
}

func TestTariffFallback(t *testing.T) {
	ctx := context.Background()
	stored := &models.Tariff{Name: "2024", FixedWeeklyCharge: 3, RatePerM3: 2.5, IsActive: true}

	got, err := NewTariffService(fakeTariffRepo{tariff: stored}, 2.31, 2.10, zap.NewNop()).ActiveTariff(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.5, got.RatePerM3)

	got, err = NewTariffService(fakeTariffRepo{err: repository.ErrNotFound}, 2.31, 2.10, zap.NewNop()).ActiveTariff(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.31, got.FixedWeeklyCharge)
	assert.Equal(t, 2.10, got.RatePerM3)

	got, err = NewTariffService(fakeTariffRepo{err: errStoreDown}, 2.31, 2.10, zap.NewNop()).ActiveTariff(ctx)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Nil(t, got)

	_, err = NewTariffService(fakeTariffRepo{err: repository.ErrNotFound}, 0, 0, zap.NewNop()).ActiveTariff(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = NewTariffService(nil, 0, 0, zap.NewNop()).ActiveTariff(ctx)
	assert.Error(t, err)
}
