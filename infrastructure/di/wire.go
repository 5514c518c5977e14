//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"pathfinder-backend/infrastructure/config"
	"pathfinder-backend/pkg/observability"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideBus,
	ProvideErrorChannel,
	ProvideMetrics,
	ProvideGraphService,
	ProvideRoadRouter,
	ProvideRouteIntelligence,
	ProvideGraphStore,
	ProvideActiveRoute,
	ProvidePlanner,
	ProvideDensityEngine,
	ProvideController,
	ProvidePresenter,
	ProvideSession,
	ProvideHub,
	ProvideBroadcaster,
	ProvideGestureDispatcher,
	ProvideWebSocketServer,
	ProvideHTTPHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg config.Config, tp *observability.TracerProvider) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
