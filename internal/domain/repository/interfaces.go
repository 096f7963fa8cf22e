package repository

import (
	"context"
	"time"

	"QuadSig/internal/domain/models"
)

// HistoryProvider fetches daily close history for one symbol from the
// external market-data provider. Treated as unreliable: callers tolerate
// errors and empty results per symbol.
type HistoryProvider interface {
	Historical(ctx context.Context, symbol string, start, end time.Time) (models.PriceSeries, error)
}

// ReportPublisher fans a generated report out to downstream consumers.
type ReportPublisher interface {
	Publish(ctx context.Context, report *models.SignalReport) error
	Close() error
}

// HistoryStore persists report snapshots and signal-change events and
// serves the history feed.
type HistoryStore interface {
	Init(ctx context.Context) error
	StoreSnapshot(ctx context.Context, report *models.SignalReport) error
	StoreEvents(ctx context.Context, events []models.SignalEvent) error
	QueryEvents(ctx context.Context, from, to time.Time, limit int) ([]models.SignalEvent, error)
	Health(ctx context.Context) error
	Close() error
}

// Metrics records pipeline observability events.
type Metrics interface {
	RecordCacheHit()
	RecordCacheMiss()
	RecordFetchError(symbol string)
	RecordQuadrantScore(quadrant string, score float64)
	RecordPositions(count int)
	RecordReportSent(backend string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
