//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"catalogd/internal"
	"catalogd/internal/content"
	"catalogd/internal/controllers"
	"catalogd/internal/providers"
	"catalogd/internal/services"
	"catalogd/internal/snapshot"
	"catalogd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		content.NewFetcher,
		snapshot.NewZstdCompressor,
		snapshot.NewStore,
		snapshot.NewActivityLog,
		snapshot.NewBackupStore,
		services.NewCatalogService,
		services.NewScheduler,
		controllers.NewApiController,
		controllers.NewAdminController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
