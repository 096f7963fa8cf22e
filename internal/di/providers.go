package di

import (
	"context"
	"fmt"
	"time"

	"QuadSig/internal/domain/repository"
	"QuadSig/internal/handler/api"
	internalrepo "QuadSig/internal/repository"
	"QuadSig/internal/service/chart"
	"QuadSig/internal/service/marketdata"
	"QuadSig/internal/service/ratelimit"
	"QuadSig/internal/universe"
	"QuadSig/internal/usecase"
	"QuadSig/pkg/cache"
	pkgch "QuadSig/pkg/clickhouse"
	"QuadSig/pkg/config"
	xhttp "QuadSig/pkg/http"
	pkgkafka "QuadSig/pkg/kafka"
	applogger "QuadSig/pkg/logger"
	"QuadSig/pkg/metrics"
	"QuadSig/pkg/server"
)

// ProvideLogger creates the application logger. Development environments
// get console output, everything else JSON.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	level := "info"
	if cfg.Environment == "development" {
		format = "console"
		level = "debug"
	}
	return applogger.New(&applogger.Config{
		Level:  level,
		Format: format,
		Output: "stdout",
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideUniverse builds the quadrant registry from defaults plus config
// overrides.
func ProvideUniverse(cfg *config.Config) (*universe.Universe, error) {
	return universe.FromConfig(cfg)
}

// ProvideSnapshotCache creates the snapshot/lock cache: Redis when
// configured, in-process otherwise.
func ProvideSnapshotCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	c, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot cache: %w", err)
	}
	return c, nil
}

// ProvideHistoryProvider creates the chart API client.
func ProvideHistoryProvider(cfg *config.Config, logger *applogger.Logger) repository.HistoryProvider {
	capacity := cfg.Provider.RateCapacity
	if capacity <= 0 {
		capacity = 5
	}
	refill := cfg.Provider.RateRefill
	if refill <= 0 {
		refill = 2
	}
	return chart.NewClient(cfg.Provider.BaseURL,
		chart.WithHTTPClient(xhttp.NewClient(xhttp.WithTimeout(cfg.Provider.Timeout))),
		chart.WithLimiter(ratelimit.New(capacity, refill)),
		chart.WithLogger(logger.Named("chart")),
	)
}

// ProvideMarketDataCache creates the TTL market data cache over the full
// instrument universe.
func ProvideMarketDataCache(
	provider repository.HistoryProvider,
	uni *universe.Universe,
	cfg *config.Config,
	m repository.Metrics,
	logger *applogger.Logger,
) *marketdata.Cache {
	return marketdata.NewCache(provider, uni.Symbols(),
		marketdata.WithTTL(cfg.Cache.TTL),
		marketdata.WithLookback(cfg.Provider.LookbackDays),
		marketdata.WithBatch(cfg.Provider.BatchSize, cfg.Provider.BatchPause),
		marketdata.WithMetrics(m),
		marketdata.WithLogger(logger.Named("marketdata")),
	)
}

// ProvideSignalGenerator wires the scoring and allocation pipeline.
func ProvideSignalGenerator(
	mdCache *marketdata.Cache,
	uni *universe.Universe,
	cfg *config.Config,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.SignalGenerator {
	scorer := usecase.NewRegimeScorer(uni, cfg.Engine.MomentumDays)
	engine := usecase.NewAllocationEngine(uni, cfg.Engine.VolatilityDays, cfg.Engine.EMAPeriod, cfg.Engine.MaxPositions)
	return usecase.NewSignalGenerator(mdCache, scorer, engine,
		usecase.WithGeneratorMetrics(m),
		usecase.WithGeneratorLogger(logger.Named("signals")),
	)
}

// ProvideHistoryStore creates the ClickHouse history store when the
// backend needs one. Returns nil otherwise.
func ProvideHistoryStore(cfg *config.Config, logger *applogger.Logger) (repository.HistoryStore, error) {
	if cfg.Backend.Type != usecase.BackendClickHouse {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	store := internalrepo.NewClickHouseHistoryStore(client, logger.Named("history"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return store, nil
}

// ProvideReportPublisher creates the Kafka publisher when the backend
// needs one. Returns nil otherwise.
func ProvideReportPublisher(cfg *config.Config) (repository.ReportPublisher, error) {
	if cfg.Backend.Type != usecase.BackendKafka {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return internalrepo.NewKafkaReportPublisher(producer, cfg.Kafka.Topic)
}

// ProvideReportSink routes reports to the configured backend.
func ProvideReportSink(
	cfg *config.Config,
	publisher repository.ReportPublisher,
	store repository.HistoryStore,
	m repository.Metrics,
	logger *applogger.Logger,
) (*usecase.ReportSink, error) {
	return usecase.NewReportSink(cfg.Backend.Type,
		usecase.WithSinkPublisher(publisher),
		usecase.WithSinkStore(store),
		usecase.WithSinkMetrics(m),
		usecase.WithSinkLogger(logger.Named("sink")),
	)
}

// ProvideWSHub creates the websocket broadcast hub.
func ProvideWSHub(logger *applogger.Logger) *api.WSHub {
	return api.NewWSHub(logger.Named("ws"))
}

// ProvideScheduler creates the periodic signal cycle.
func ProvideScheduler(
	generator *usecase.SignalGenerator,
	sink *usecase.ReportSink,
	snapshots cache.Service,
	hub *api.WSHub,
	cfg *config.Config,
	logger *applogger.Logger,
) *usecase.Scheduler {
	return usecase.NewScheduler(generator, usecase.NewChangeDetector(), sink, snapshots,
		usecase.WithSchedulerInterval(cfg.Scheduler.Interval),
		usecase.WithSchedulerBroadcaster(hub),
		usecase.WithSchedulerLogger(logger.Named("scheduler")),
	)
}

// ProvideHistoryService creates the history feed service.
func ProvideHistoryService(store repository.HistoryStore, cfg *config.Config) *usecase.HistoryService {
	return usecase.NewHistoryService(store, cfg.History.ArtifactPath)
}

// ProvideHandler creates the HTTP API handler.
func ProvideHandler(
	logger *applogger.Logger,
	generator *usecase.SignalGenerator,
	history *usecase.HistoryService,
	snapshots cache.Service,
	uni *universe.Universe,
	hub *api.WSHub,
) xhttp.Handler {
	return api.NewSignalsHandler(logger.Named("api"), generator, history, snapshots, uni, hub)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	scheduler *usecase.Scheduler,
	hub *api.WSHub,
	snapshots cache.Service,
	publisher repository.ReportPublisher,
	store repository.HistoryStore,
) *server.App {
	return server.New(cfg, logger, handler, scheduler, hub, snapshots, publisher, store)
}
