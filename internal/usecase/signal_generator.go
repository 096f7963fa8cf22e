package usecase

import (
	"context"
	"time"

	"QuadSig/internal/domain/models"
	"QuadSig/internal/domain/repository"
	"QuadSig/internal/service/marketdata"
	"QuadSig/internal/universe"
	applogger "QuadSig/pkg/logger"
)

// SignalGenerator runs the full pipeline: cached market data, regime
// classification, allocation. Stateless between calls.
type SignalGenerator struct {
	cache   *marketdata.Cache
	scorer  *RegimeScorer
	engine  *AllocationEngine
	metrics repository.Metrics
	logger  *applogger.Logger
	now     func() time.Time
}

// GeneratorOption configures SignalGenerator.
type GeneratorOption func(*SignalGenerator)

// NewSignalGenerator wires the pipeline stages together.
func NewSignalGenerator(cache *marketdata.Cache, scorer *RegimeScorer, engine *AllocationEngine, opts ...GeneratorOption) *SignalGenerator {
	g := &SignalGenerator{
		cache:  cache,
		scorer: scorer,
		engine: engine,
		logger: applogger.Default().Named("signals"),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// WithGeneratorMetrics sets the metrics recorder.
func WithGeneratorMetrics(m repository.Metrics) GeneratorOption {
	return func(g *SignalGenerator) {
		g.metrics = m
	}
}

// WithGeneratorLogger sets the logger.
func WithGeneratorLogger(l *applogger.Logger) GeneratorOption {
	return func(g *SignalGenerator) {
		g.logger = l
	}
}

// WithGeneratorClock sets the time source.
func WithGeneratorClock(clock func() time.Time) GeneratorOption {
	return func(g *SignalGenerator) {
		g.now = clock
	}
}

// Generate produces a fresh signal report. The only hard failure is
// models.ErrNoMarketData; degraded inputs yield a report with fewer (or
// zero) positions.
func (g *SignalGenerator) Generate(ctx context.Context) (*models.SignalReport, error) {
	start := g.now()

	data, err := g.cache.Data(ctx)
	if err != nil {
		if g.metrics != nil {
			g.metrics.RecordError("generate")
		}
		return nil, err
	}

	regime := g.scorer.Classify(data, g.now())
	result := g.engine.Allocate(data,
		universe.Quadrant(regime.PrimaryQuadrant),
		universe.Quadrant(regime.SecondaryQuadrant),
	)

	report := &models.SignalReport{
		Regime:           regime,
		Positions:        result.Positions,
		TotalLeverage:    result.TotalLeverage,
		ExcludedBelowEMA: result.Excluded,
		GeneratedAt:      g.now(),
	}

	if g.metrics != nil {
		for q, score := range regime.QuadrantScores {
			g.metrics.RecordQuadrantScore(q, score)
		}
		g.metrics.RecordPositions(len(report.Positions))
		g.metrics.RecordLatency("generate", g.now().Sub(start).Seconds())
	}

	g.logger.Info("report generated",
		applogger.String("primary", regime.PrimaryQuadrant),
		applogger.String("secondary", regime.SecondaryQuadrant),
		applogger.Float64("confidence", regime.Confidence),
		applogger.Int("positions", len(report.Positions)),
		applogger.Float64("leverage", report.TotalLeverage),
	)

	return report, nil
}
