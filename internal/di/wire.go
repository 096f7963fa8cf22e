//go:build wireinject
// +build wireinject

package di

import (
	"QuadSig/pkg/config"
	"QuadSig/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideUniverse,
		ProvideSnapshotCache,

		// Market data
		ProvideHistoryProvider,
		ProvideMarketDataCache,

		// Pipeline
		ProvideSignalGenerator,
		ProvideHistoryStore,
		ProvideReportPublisher,
		ProvideReportSink,
		ProvideScheduler,
		ProvideHistoryService,

		// Transport
		ProvideWSHub,
		ProvideHandler,

		ProvideApp,
	)
	return &server.App{}, nil
}
