package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"dropzero/backend/services/consumption-service/internal/models"
	"dropzero/backend/services/consumption-service/internal/repository"
)

var errStoreDown = errors.New("store down")

type fakeReadingStore struct {
	mu       sync.Mutex
	meters   map[int64]models.Meter
	readings []models.WeeklyReading
	failWith error
}

func newFakeReadingStore() *fakeReadingStore {
	return &fakeReadingStore{meters: map[int64]models.Meter{}}
}

// byWeekDesc returns the user's readings newest week first.
func (f *fakeReadingStore) byWeekDesc(userID int64) []models.WeeklyReading {
	out := make([]models.WeeklyReading, 0)
	for _, r := range f.readings {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WeekEndDate.After(out[j].WeekEndDate)
	})
	return out
}

func (f *fakeReadingStore) ListByUser(_ context.Context, userID int64, limit, offset int) ([]models.WeeklyReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	all := f.byWeekDesc(userID)
	if offset >= len(all) {
		return []models.WeeklyReading{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeReadingStore) CountByUser(_ context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return 0, f.failWith
	}
	return len(f.byWeekDesc(userID)), nil
}

func (f *fakeReadingStore) ForEachByUser(_ context.Context, userID int64, fn func(models.WeeklyReading) error) error {
	f.mu.Lock()
	all := f.byWeekDesc(userID)
	f.mu.Unlock()
	for i := len(all) - 1; i >= 0; i-- {
		if err := fn(all[i]); err != nil {
			return err
		}
	}
	return nil
}

// AppendManual holds the store mutex for the whole call, like the meter row
// lock does in Postgres.
func (f *fakeReadingStore) AppendManual(_ context.Context, userID int64, build repository.BuildReading) (*models.WeeklyReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}

	meter, ok := f.meters[userID]
	if !ok || !meter.Active() {
		return nil, repository.ErrNotFound
	}

	var last *models.WeeklyReading
	for i := range f.readings {
		r := f.readings[i]
		if r.MeterID == meter.ID && (last == nil || r.CurrentReading > last.CurrentReading) {
			last = &r
		}
	}

	reading, err := build(meter, last)
	if err != nil {
		return nil, err
	}
	f.readings = append(f.readings, *reading)
	return reading, nil
}

func (f *fakeReadingStore) LatestPerMeter(context.Context) ([]models.WeeklyReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	latest := map[string]models.WeeklyReading{}
	for _, r := range f.readings {
		if cur, ok := latest[r.MeterID]; !ok || r.WeekEndDate.After(cur.WeekEndDate) {
			latest[r.MeterID] = r
		}
	}
	out := make([]models.WeeklyReading, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MeterID < out[j].MeterID })
	return out, nil
}

type fakeMeterDirectory struct {
	meters    map[string]models.Meter
	listCalls int
}

func newFakeMeterDirectory(meters ...models.Meter) *fakeMeterDirectory {
	f := &fakeMeterDirectory{meters: map[string]models.Meter{}}
	for _, m := range meters {
		f.meters[m.ID] = m
	}
	return f
}

func (f *fakeMeterDirectory) Create(_ context.Context, m *models.Meter) error {
	if _, ok := f.meters[m.ID]; ok {
		return repository.ErrDuplicate
	}
	f.meters[m.ID] = *m
	return nil
}

func (f *fakeMeterDirectory) ListActive(context.Context) ([]models.Meter, error) {
	f.listCalls++
	out := make([]models.Meter, 0)
	for _, m := range f.meters {
		if m.Active() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMeterDirectory) ListByIDs(_ context.Context, ids []string) (map[string]models.Meter, error) {
	out := map[string]models.Meter{}
	for _, id := range ids {
		if m, ok := f.meters[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (f *fakeMeterDirectory) CountActive(ctx context.Context) (int, error) {
	active, _ := f.ListActive(ctx)
	return len(active), nil
}

type fakeUsers map[int64]models.UserSummary

func (f fakeUsers) ByIDs(_ context.Context, ids []int64) (map[int64]models.UserSummary, error) {
	out := map[int64]models.UserSummary{}
	for _, id := range ids {
		if u, ok := f[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type fakeTariffRepo struct {
	tariff *models.Tariff
	err    error
}

func (f fakeTariffRepo) GetActive(context.Context) (*models.Tariff, error) {
	return f.tariff, f.err
}

// memoryCache stores JSON-free copies keyed by name.
type memoryCache struct {
	mu          sync.Mutex
	values      map[string]any
	invalidated int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]any{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *models.ZoneReport:
		*d = v.(models.ZoneReport)
	case *[]models.Alert:
		*d = v.([]models.Alert)
	case *models.TerritorialStats:
		*d = v.(models.TerritorialStats)
	default:
		return false, errors.New("memory cache: unsupported type")
	}
	return true, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = map[string]any{}
	c.invalidated++
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	alerts []models.Alert
}

func (p *recordingPublisher) Publish(alert models.Alert) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, alert)
}
