//go:build wireinject
// +build wireinject

package di

import (
	"OddsCast/pkg/config"
	"OddsCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideClock,

		// Storage and transports
		ProvideSnapshotLog,
		ProvidePublisher,
		ProvideLeaderLock,

		// Market sources
		ProvidePolymarketSource,
		ProvideKalshiSource,

		// Use cases
		ProvideAggregator,
		ProvideDampener,
		ProvideRecorder,
		ProvideCollector,
		ProvideChartCache,
		ProvideSeriesUseCase,

		// HTTP surface
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
