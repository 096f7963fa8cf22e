package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"QuadSig/internal/domain/models"
	"QuadSig/pkg/clickhouse"
	applogger "QuadSig/pkg/logger"
)

var snapshotSchema = []string{
	`CREATE TABLE IF NOT EXISTS signal_snapshots (
		generated_at       DateTime64(3, 'UTC'),
		primary_quadrant   LowCardinality(String),
		secondary_quadrant LowCardinality(String),
		confidence         Float64,
		total_leverage     Float64,
		positions          String,
		excluded           String
	) ENGINE = MergeTree()
	ORDER BY generated_at`,
	`CREATE TABLE IF NOT EXISTS signal_events (
		ts             DateTime64(3, 'UTC'),
		event_type     LowCardinality(String),
		asset          LowCardinality(String),
		previous_value String,
		new_value      String,
		reason         String
	) ENGINE = MergeTree()
	ORDER BY ts`,
}

// ClickHouseHistoryStore persists report snapshots and signal-change
// events. Implements domain repository.HistoryStore.
type ClickHouseHistoryStore struct {
	client *clickhouse.Client
	logger *applogger.Logger
}

// NewClickHouseHistoryStore creates a store over an existing client.
func NewClickHouseHistoryStore(client *clickhouse.Client, logger *applogger.Logger) *ClickHouseHistoryStore {
	if logger == nil {
		logger = applogger.Default().Named("history")
	}
	return &ClickHouseHistoryStore{client: client, logger: logger}
}

// Init creates tables if they do not exist.
func (s *ClickHouseHistoryStore) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, snapshotSchema)
}

// StoreSnapshot persists one full report row. Positions and exclusions
// are stored as JSON blobs; analytical queries only need the scalars.
func (s *ClickHouseHistoryStore) StoreSnapshot(ctx context.Context, report *models.SignalReport) error {
	positions, err := json.Marshal(report.Positions)
	if err != nil {
		return fmt.Errorf("marshal positions: %w", err)
	}
	excluded, err := json.Marshal(report.ExcludedBelowEMA)
	if err != nil {
		return fmt.Errorf("marshal excluded: %w", err)
	}

	const q = `INSERT INTO signal_snapshots
		(generated_at, primary_quadrant, secondary_quadrant, confidence, total_leverage, positions, excluded)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = s.client.DB().ExecContext(ctx, q,
		report.GeneratedAt,
		report.Regime.PrimaryQuadrant,
		report.Regime.SecondaryQuadrant,
		report.Regime.Confidence,
		report.TotalLeverage,
		string(positions),
		string(excluded),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// StoreEvents persists a batch of signal-change events.
func (s *ClickHouseHistoryStore) StoreEvents(ctx context.Context, events []models.SignalEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}

	const q = `INSERT INTO signal_events
		(ts, event_type, asset, previous_value, new_value, reason)
		VALUES (?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare batch: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.ExecContext(ctx, e.Timestamp, e.Type, e.Asset, e.PreviousValue, e.NewValue, e.Reason); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	s.logger.Debug("events stored", applogger.Int("count", len(events)))
	return nil
}

// QueryEvents returns events in [from, to], newest first.
func (s *ClickHouseHistoryStore) QueryEvents(ctx context.Context, from, to time.Time, limit int) ([]models.SignalEvent, error) {
	const q = `SELECT ts, event_type, asset, previous_value, new_value, reason
		FROM signal_events
		WHERE ts >= ? AND ts <= ?
		ORDER BY ts DESC
		LIMIT ?`

	rows, err := s.client.DB().QueryContext(ctx, q, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []models.SignalEvent
	for rows.Next() {
		var e models.SignalEvent
		if err := rows.Scan(&e.Timestamp, &e.Type, &e.Asset, &e.PreviousValue, &e.NewValue, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Health pings the database.
func (s *ClickHouseHistoryStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

// Close closes the underlying client.
func (s *ClickHouseHistoryStore) Close() error {
	return s.client.Close()
}
