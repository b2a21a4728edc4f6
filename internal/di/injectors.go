//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"scoringd/internal"
	"scoringd/internal/analytics"
	"scoringd/internal/controllers"
	"scoringd/internal/providers"
	"scoringd/internal/services"
	"scoringd/internal/storage"
	"scoringd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewHistoryStore,
		analytics.NewPerformanceAnalyzer,
		analytics.NewContentScorer,
		analytics.NewTrendForecaster,
		services.NewAnalyticsService,

		storage.NewZstdCompressor,
		storage.NewFileManager,
		storage.NewScheduler,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil, nil
}
