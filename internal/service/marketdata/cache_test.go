package marketdata

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"QuadSig/internal/domain/models"
)

type fakeProvider struct {
	mu     sync.Mutex
	calls  map[string]int
	fail   map[string]bool
	series map[string]models.PriceSeries
	delay  time.Duration
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		calls:  make(map[string]int),
		fail:   make(map[string]bool),
		series: make(map[string]models.PriceSeries),
	}
}

func (p *fakeProvider) Historical(ctx context.Context, symbol string, start, end time.Time) (models.PriceSeries, error) {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls[symbol]++
	if p.fail[symbol] {
		return nil, errors.New("provider down")
	}
	return p.series[symbol], nil
}

func (p *fakeProvider) totalCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, n := range p.calls {
		total += n
	}
	return total
}

func (p *fakeProvider) setFail(symbol string, fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail[symbol] = fail
}

func (p *fakeProvider) setFailAll(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for sym := range p.series {
		p.fail[sym] = fail
	}
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func simpleSeries(closes ...float64) models.PriceSeries {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	s := make(models.PriceSeries, 0, len(closes))
	for i, c := range closes {
		s = append(s, models.PricePoint{Date: start.AddDate(0, 0, i), Close: c})
	}
	return s
}

func newTestCache(provider *fakeProvider, clock *fakeClock, symbols []string) *Cache {
	return NewCache(provider, symbols,
		WithTTL(5*time.Minute),
		WithBatch(2, 0),
		WithClock(clock.Now),
	)
}

func TestDataFreshServedFromCache(t *testing.T) {
	provider := newFakeProvider()
	provider.series["AAA"] = simpleSeries(100, 101)
	provider.series["BBB"] = simpleSeries(200, 202)
	clock := newFakeClock()
	c := newTestCache(provider, clock, []string{"AAA", "BBB"})

	data, err := c.Data(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("expected 2 symbols, got %d", len(data))
	}
	if provider.totalCalls() != 2 {
		t.Fatalf("expected one call per symbol, got %d", provider.totalCalls())
	}

	clock.Advance(time.Minute)
	if _, err := c.Data(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.totalCalls() != 2 {
		t.Fatalf("fresh cache should not refetch, got %d calls", provider.totalCalls())
	}
}

func TestDataRefreshAfterTTL(t *testing.T) {
	provider := newFakeProvider()
	provider.series["AAA"] = simpleSeries(100, 101)
	clock := newFakeClock()
	c := newTestCache(provider, clock, []string{"AAA"})

	if _, err := c.Data(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.Advance(6 * time.Minute)
	if _, err := c.Data(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := provider.totalCalls(); got != 2 {
		t.Fatalf("expected refetch after TTL, got %d calls", got)
	}
}

func TestDataPartialFailureKeepsOldSeries(t *testing.T) {
	provider := newFakeProvider()
	provider.series["AAA"] = simpleSeries(100, 101)
	provider.series["BBB"] = simpleSeries(200, 202)
	clock := newFakeClock()
	c := newTestCache(provider, clock, []string{"AAA", "BBB"})

	if _, err := c.Data(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	provider.setFail("BBB", true)
	provider.series["AAA"] = simpleSeries(100, 101, 102)
	clock.Advance(6 * time.Minute)

	data, err := c.Data(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data["AAA"]) != 3 {
		t.Fatalf("AAA should have refreshed, got %d points", len(data["AAA"]))
	}
	if len(data["BBB"]) != 2 {
		t.Fatalf("failed symbol should keep stale series, got %d points", len(data["BBB"]))
	}
}

func TestDataEmptyRefreshKeepsStaleCache(t *testing.T) {
	provider := newFakeProvider()
	provider.series["AAA"] = simpleSeries(100, 101)
	clock := newFakeClock()
	c := newTestCache(provider, clock, []string{"AAA"})

	if _, err := c.Data(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	provider.setFailAll(true)
	clock.Advance(6 * time.Minute)

	data, err := c.Data(context.Background())
	if err != nil {
		t.Fatalf("stale data should still be served, got error: %v", err)
	}
	if len(data["AAA"]) != 2 {
		t.Fatalf("expected stale series, got %v", data["AAA"])
	}
}

func TestDataHardFailure(t *testing.T) {
	provider := newFakeProvider()
	provider.series["AAA"] = simpleSeries(100, 101)
	provider.setFailAll(true)
	clock := newFakeClock()
	c := newTestCache(provider, clock, []string{"AAA"})

	_, err := c.Data(context.Background())
	if !errors.Is(err, models.ErrNoMarketData) {
		t.Fatalf("expected ErrNoMarketData, got %v", err)
	}
}

func TestDataFiltersNonPositiveCloses(t *testing.T) {
	provider := newFakeProvider()
	provider.series["AAA"] = simpleSeries(100, 0, -5, 101)
	clock := newFakeClock()
	c := newTestCache(provider, clock, []string{"AAA"})

	data, err := c.Data(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data["AAA"]) != 2 {
		t.Fatalf("non-positive closes should be dropped, got %v", data["AAA"])
	}
	for _, p := range data["AAA"] {
		if p.Close <= 0 {
			t.Fatalf("non-positive close survived: %v", p)
		}
	}
}

func TestDataSingleFlight(t *testing.T) {
	provider := newFakeProvider()
	provider.series["AAA"] = simpleSeries(100, 101)
	provider.series["BBB"] = simpleSeries(200, 202)
	provider.delay = 50 * time.Millisecond
	clock := newFakeClock()
	c := newTestCache(provider, clock, []string{"AAA", "BBB"})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Data(context.Background()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := provider.totalCalls(); got != 2 {
		t.Fatalf("concurrent callers should share one refresh, got %d calls", got)
	}
}

func TestRefreshForcesFetch(t *testing.T) {
	provider := newFakeProvider()
	provider.series["AAA"] = simpleSeries(100, 101)
	clock := newFakeClock()
	c := newTestCache(provider, clock, []string{"AAA"})

	if _, err := c.Data(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := provider.totalCalls(); got != 2 {
		t.Fatalf("Refresh should bypass TTL, got %d calls", got)
	}
}
