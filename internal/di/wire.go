//go:build wireinject
// +build wireinject

package di

import (
	"MarketLens/pkg/config"
	"MarketLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvidePostgresClient,
		ProvideClickHouseClient,
		ProvideAlertEvents,
		ProvideMailer,

		// Provider access
		ProvideRateLimiter,
		ProvideMarketData,
		ProvideMarketStream,

		// Repositories
		ProvideWatchlistStore,
		ProvideAlertStore,
		ProvideUserDirectory,
		ProvideQuoteHistory,

		// Use cases
		ProvideStockAggregator,
		ProvideWatchlistUsecase,
		ProvideAlertsUsecase,
		ProvideUsersUsecase,
		ProvideAlertEvaluator,
		ProvideNewsDigest,
		ProvideTradeRecorder,

		// HTTP API and application server
		ProvideHealthChecks,
		ProvideRouter,
		ProvideApp,
	)
	return &server.App{}, nil
}
