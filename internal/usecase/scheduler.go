package usecase

import (
	"context"
	"sync"
	"time"

	"QuadSig/internal/domain/models"
	"QuadSig/pkg/cache"
	applogger "QuadSig/pkg/logger"
)

// SnapshotKey is the cache key of the most recent report, shared with
// the API layer.
var SnapshotKey = cache.GenerateKey("report", "latest")

var cycleLockKey = cache.GenerateKey("scheduler", "cycle")

// Broadcaster pushes a fresh report to connected subscribers.
type Broadcaster interface {
	Broadcast(report *models.SignalReport)
}

// Scheduler regenerates signals on a fixed interval, diffs them against
// the previous cycle, and fans results out to the sink, the snapshot
// cache, and websocket subscribers. A distributed lock keeps replicas
// from running the same cycle twice.
type Scheduler struct {
	generator   *SignalGenerator
	detector    *ChangeDetector
	sink        *ReportSink
	snapshots   cache.Service
	broadcaster Broadcaster
	interval    time.Duration
	logger      *applogger.Logger

	mu   sync.Mutex
	last *models.SignalReport
}

// SchedulerOption configures Scheduler.
type SchedulerOption func(*Scheduler)

// NewScheduler creates a scheduler.
func NewScheduler(generator *SignalGenerator, detector *ChangeDetector, sink *ReportSink, snapshots cache.Service, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		generator: generator,
		detector:  detector,
		sink:      sink,
		snapshots: snapshots,
		interval:  5 * time.Minute,
		logger:    applogger.Default().Named("scheduler"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithSchedulerInterval sets the cycle interval.
func WithSchedulerInterval(interval time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithSchedulerBroadcaster sets the websocket broadcaster.
func WithSchedulerBroadcaster(b Broadcaster) SchedulerOption {
	return func(s *Scheduler) {
		s.broadcaster = b
	}
}

// WithSchedulerLogger sets the logger.
func WithSchedulerLogger(l *applogger.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// Run executes cycles until ctx is cancelled. The first cycle runs
// immediately.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler started", applogger.Duration("interval", s.interval))

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single generate/diff/deliver cycle. The cycle lock
// holds for the full interval so at most one replica runs per tick.
func (s *Scheduler) RunOnce(ctx context.Context) {
	acquired, err := s.snapshots.TryLock(ctx, cycleLockKey, s.interval)
	if err != nil {
		s.logger.Warn("cycle lock failed", applogger.Error(err))
		return
	}
	if !acquired {
		s.logger.Debug("cycle already claimed, skipping")
		return
	}

	report, err := s.generator.Generate(ctx)
	if err != nil {
		s.logger.Error("generate failed", applogger.Error(err))
		return
	}

	s.mu.Lock()
	prev := s.last
	s.last = report
	s.mu.Unlock()

	events := s.detector.Detect(prev, report, report.GeneratedAt)
	if len(events) > 0 {
		s.logger.Info("signal changes detected", applogger.Int("events", len(events)))
	}

	if err := s.sink.Deliver(ctx, report, events); err != nil {
		s.logger.Error("deliver failed", applogger.Error(err))
	}

	if err := s.snapshots.Set(ctx, SnapshotKey, report, s.interval*2); err != nil {
		s.logger.Warn("snapshot cache write failed", applogger.Error(err))
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(report)
	}
}

// Last returns the report from the most recent completed cycle.
func (s *Scheduler) Last() *models.SignalReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
