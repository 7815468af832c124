package fx

import (
	"granite-stats/internal/config"
	"granite-stats/internal/database"
	"granite-stats/internal/logger"
	"granite-stats/internal/query"
	"granite-stats/internal/repository"
	"granite-stats/internal/server"
	"granite-stats/internal/service"

	"go.uber.org/fx"
)

func ProvidePlanner(registry *query.Registry, cfg *config.Config) *query.Planner {
	return query.NewPlanner(registry, cfg.HiddenPlayer)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// query engine
	fx.Provide(query.NewRegistry),
	fx.Provide(ProvidePlanner),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewSnapshotRepository),
	fx.Provide(repository.NewStateRepository),
	// svc
	fx.Provide(service.NewSnapshotService),
	fx.Provide(service.NewStatsService),
	fx.Provide(service.NewStateService),
	// server
	fx.Provide(server.NewStatsServer),
)
