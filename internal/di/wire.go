//go:build wireinject
// +build wireinject

package di

import (
	"Kundali/pkg/config"
	"Kundali/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Astronomy and scoring backends
		ProvideEphemeris,
		ProvidePredictor,

		// Infrastructure clients
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideFeatureStore,
		ProvideEventPublisher,

		// Use cases
		ProvideChartSink,
		ProvideSinkPipeline,
		ProvideChartGenerator,
		ProvidePredictionService,
		ProvideChartRequestsHandler,

		// Transport
		ProvideHTTPServer,
		ProvideKafkaConsumer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
