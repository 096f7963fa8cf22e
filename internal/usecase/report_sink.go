package usecase

import (
	"context"
	"fmt"

	"QuadSig/internal/domain/models"
	"QuadSig/internal/domain/repository"
	applogger "QuadSig/pkg/logger"
)

// Supported report delivery backends.
const (
	BackendNone       = "none"
	BackendKafka      = "kafka"
	BackendClickHouse = "clickhouse"
)

// ReportSink routes generated reports and their change events to the
// configured backend. With BackendNone it only logs.
type ReportSink struct {
	backend   string
	publisher repository.ReportPublisher
	store     repository.HistoryStore
	metrics   repository.Metrics
	logger    *applogger.Logger
}

// SinkOption configures ReportSink.
type SinkOption func(*ReportSink)

// NewReportSink creates a sink for the given backend.
func NewReportSink(backend string, opts ...SinkOption) (*ReportSink, error) {
	s := &ReportSink{
		backend: backend,
		logger:  applogger.Default().Named("sink"),
	}

	for _, opt := range opts {
		opt(s)
	}

	switch backend {
	case BackendNone:
	case BackendKafka:
		if s.publisher == nil {
			return nil, fmt.Errorf("kafka backend requires a publisher")
		}
	case BackendClickHouse:
		if s.store == nil {
			return nil, fmt.Errorf("clickhouse backend requires a history store")
		}
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}

	return s, nil
}

// WithSinkPublisher sets the Kafka publisher.
func WithSinkPublisher(p repository.ReportPublisher) SinkOption {
	return func(s *ReportSink) {
		s.publisher = p
	}
}

// WithSinkStore sets the ClickHouse history store.
func WithSinkStore(st repository.HistoryStore) SinkOption {
	return func(s *ReportSink) {
		s.store = st
	}
}

// WithSinkMetrics sets the metrics recorder.
func WithSinkMetrics(m repository.Metrics) SinkOption {
	return func(s *ReportSink) {
		s.metrics = m
	}
}

// WithSinkLogger sets the logger.
func WithSinkLogger(l *applogger.Logger) SinkOption {
	return func(s *ReportSink) {
		s.logger = l
	}
}

// Deliver sends the report (and any change events) downstream.
func (s *ReportSink) Deliver(ctx context.Context, report *models.SignalReport, events []models.SignalEvent) error {
	switch s.backend {
	case BackendKafka:
		if err := s.publisher.Publish(ctx, report); err != nil {
			if s.metrics != nil {
				s.metrics.RecordError("sink_kafka")
			}
			return fmt.Errorf("publish report: %w", err)
		}
	case BackendClickHouse:
		if err := s.store.StoreSnapshot(ctx, report); err != nil {
			if s.metrics != nil {
				s.metrics.RecordError("sink_clickhouse")
			}
			return fmt.Errorf("store snapshot: %w", err)
		}
		if len(events) > 0 {
			if err := s.store.StoreEvents(ctx, events); err != nil {
				if s.metrics != nil {
					s.metrics.RecordError("sink_clickhouse")
				}
				return fmt.Errorf("store events: %w", err)
			}
		}
	default:
		s.logger.Debug("report generated, no backend configured",
			applogger.Int("positions", len(report.Positions)),
			applogger.Int("events", len(events)),
		)
		return nil
	}

	if s.metrics != nil {
		s.metrics.RecordReportSent(s.backend)
	}
	return nil
}

// Backend returns the configured backend name.
func (s *ReportSink) Backend() string {
	return s.backend
}
