package marketdata

import (
	"context"
	"sync"
	"time"

	"QuadSig/internal/domain/models"
	"QuadSig/internal/domain/repository"
	applogger "QuadSig/pkg/logger"
)

// Clock returns the current time. Injected for tests.
type Clock func() time.Time

// Cache holds daily close history for the instrument universe and
// refreshes it from the provider when older than the TTL. A refresh
// fetches every symbol; per-symbol failures are logged and skipped so
// one bad instrument never blocks the rest. Concurrent callers share a
// single in-flight refresh.
type Cache struct {
	provider   repository.HistoryProvider
	symbols    []string
	ttl        time.Duration
	lookback   int
	batchSize  int
	batchPause time.Duration
	metrics    repository.Metrics
	logger     *applogger.Logger
	now        Clock

	mu        sync.Mutex
	data      map[string]models.PriceSeries
	fetchedAt time.Time
	inflight  chan struct{}
}

// Option configures Cache.
type Option func(*Cache)

// NewCache creates a market data cache over the given symbols.
func NewCache(provider repository.HistoryProvider, symbols []string, opts ...Option) *Cache {
	c := &Cache{
		provider:   provider,
		symbols:    symbols,
		ttl:        5 * time.Minute,
		lookback:   180,
		batchSize:  5,
		batchPause: 500 * time.Millisecond,
		logger:     applogger.Default().Named("marketdata"),
		now:        time.Now,
		data:       make(map[string]models.PriceSeries),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTTL sets the cache freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithLookback sets the fetch window in calendar days.
func WithLookback(days int) Option {
	return func(c *Cache) {
		c.lookback = days
	}
}

// WithBatch sets refresh batch size and inter-batch pause.
func WithBatch(size int, pause time.Duration) Option {
	return func(c *Cache) {
		c.batchSize = size
		c.batchPause = pause
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m repository.Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *applogger.Logger) Option {
	return func(c *Cache) {
		c.logger = l
	}
}

// WithClock sets the time source.
func WithClock(clock Clock) Option {
	return func(c *Cache) {
		c.now = clock
	}
}

// Data returns price history for every cached symbol, refreshing first
// when the cache is stale. Returns models.ErrNoMarketData only when a
// refresh fails and no previously cached data exists.
func (c *Cache) Data(ctx context.Context) (map[string]models.PriceSeries, error) {
	c.mu.Lock()

	if c.fresh() {
		snapshot := c.snapshotLocked()
		c.mu.Unlock()
		if c.metrics != nil {
			c.metrics.RecordCacheHit()
		}
		return snapshot, nil
	}

	if c.metrics != nil {
		c.metrics.RecordCacheMiss()
	}

	// Join an in-flight refresh instead of starting another.
	if c.inflight != nil {
		done := c.inflight
		c.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return c.afterRefresh()
	}

	done := make(chan struct{})
	c.inflight = done
	c.mu.Unlock()

	c.refresh(ctx)

	c.mu.Lock()
	c.inflight = nil
	c.mu.Unlock()
	close(done)

	return c.afterRefresh()
}

// Series returns the cached history for one symbol.
func (c *Cache) Series(ctx context.Context, symbol string) (models.PriceSeries, error) {
	data, err := c.Data(ctx)
	if err != nil {
		return nil, err
	}
	return data[symbol], nil
}

// Refresh forces a refresh regardless of TTL. Used by the scheduler.
func (c *Cache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.fetchedAt = time.Time{}
	c.mu.Unlock()

	_, err := c.Data(ctx)
	return err
}

// Age returns time since the last successful refresh.
func (c *Cache) Age() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fetchedAt.IsZero() {
		return -1
	}
	return c.now().Sub(c.fetchedAt)
}

func (c *Cache) fresh() bool {
	return !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl
}

func (c *Cache) snapshotLocked() map[string]models.PriceSeries {
	snapshot := make(map[string]models.PriceSeries, len(c.data))
	for symbol, series := range c.data {
		snapshot[symbol] = series
	}
	return snapshot
}

func (c *Cache) afterRefresh() (map[string]models.PriceSeries, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.data) == 0 {
		return nil, models.ErrNoMarketData
	}
	return c.snapshotLocked(), nil
}

// refresh fetches all symbols in batches and merges successful results
// into the cache. Detached from the caller's cancellation so a dropped
// request does not abort the refresh other callers are waiting on.
func (c *Cache) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Minute)
	defer cancel()

	start := c.now()
	end := start
	begin := start.AddDate(0, 0, -c.lookback)

	fetched := make(map[string]models.PriceSeries)
	var fetchedMu sync.Mutex

	for i := 0; i < len(c.symbols); i += c.batchSize {
		if i > 0 {
			select {
			case <-refreshCtx.Done():
				c.logger.Warn("refresh aborted", applogger.Error(refreshCtx.Err()))
				c.merge(fetched, start)
				return
			case <-time.After(c.batchPause):
			}
		}

		batch := c.symbols[i:min(i+c.batchSize, len(c.symbols))]

		var wg sync.WaitGroup
		for _, symbol := range batch {
			wg.Add(1)
			go func(symbol string) {
				defer wg.Done()

				series, err := c.provider.Historical(refreshCtx, symbol, begin, end)
				if err != nil {
					c.logger.Warn("fetch failed",
						applogger.String("symbol", symbol),
						applogger.Error(err),
					)
					if c.metrics != nil {
						c.metrics.RecordFetchError(symbol)
					}
					return
				}

				series = dropNonPositive(series)
				if len(series) == 0 {
					return
				}

				fetchedMu.Lock()
				fetched[symbol] = series
				fetchedMu.Unlock()
			}(symbol)
		}
		wg.Wait()
	}

	c.merge(fetched, start)
	if c.metrics != nil {
		c.metrics.RecordLatency("cache_refresh", c.now().Sub(start).Seconds())
	}
}

// merge folds fetched series into the cache. Symbols that failed keep
// their previous series. An entirely empty refresh leaves the cache
// untouched, including its timestamp, so the next call retries.
func (c *Cache) merge(fetched map[string]models.PriceSeries, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(fetched) == 0 {
		c.logger.Warn("refresh returned no data, keeping stale cache",
			applogger.Int("cached_symbols", len(c.data)),
		)
		return
	}

	for symbol, series := range fetched {
		c.data[symbol] = series
	}
	c.fetchedAt = at

	c.logger.Info("cache refreshed",
		applogger.Int("fetched", len(fetched)),
		applogger.Int("total", len(c.data)),
	)
}

func dropNonPositive(series models.PriceSeries) models.PriceSeries {
	filtered := make(models.PriceSeries, 0, len(series))
	for _, p := range series {
		if p.Close > 0 {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
