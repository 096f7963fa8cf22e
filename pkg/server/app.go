package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"QuadSig/internal/domain/repository"
	"QuadSig/internal/handler/api"
	"QuadSig/internal/usecase"
	"QuadSig/pkg/cache"
	"QuadSig/pkg/config"
	xhttp "QuadSig/pkg/http"
	applogger "QuadSig/pkg/logger"
)

// App encapsulates the application lifecycle: HTTP server, scheduler,
// websocket hub, and backend clients.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	scheduler  *usecase.Scheduler
	hub        *api.WSHub
	snapshots  cache.Service
	publisher  repository.ReportPublisher
	store      repository.HistoryStore
	httpServer *xhttp.Server
}

// New creates an App with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	scheduler *usecase.Scheduler,
	hub *api.WSHub,
	snapshots cache.Service,
	publisher repository.ReportPublisher,
	store repository.HistoryStore,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		handler:   handler,
		scheduler: scheduler,
		hub:       hub,
		snapshots: snapshots,
		publisher: publisher,
		store:     store,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsEndpoint(a.cfg.Metrics.Enabled),
	)

	if a.cfg.Scheduler.Enabled {
		go a.scheduler.Run(ctx)
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	a.logger.Info("started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("backend", a.cfg.Backend.Type),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	cancel()
	return a.shutdown(context.Background())
}

func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.hub != nil {
		if err := a.hub.Close(); err != nil {
			a.logger.Warn("hub close error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("history store close error", applogger.Error(err))
		}
	}

	if a.snapshots != nil {
		if err := a.snapshots.Close(); err != nil {
			a.logger.Warn("snapshot cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
