// Package di wires the engine together with google/wire.
package di

import (
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pathfinder-backend/application/chat"
	appevents "pathfinder-backend/application/events"
	"pathfinder-backend/application/interaction"
	"pathfinder-backend/application/overlay"
	"pathfinder-backend/application/ports"
	"pathfinder-backend/application/route"
	"pathfinder-backend/application/store"
	appsync "pathfinder-backend/application/sync"
	"pathfinder-backend/infrastructure/config"
	"pathfinder-backend/infrastructure/graphapi"
	"pathfinder-backend/infrastructure/nlp"
	"pathfinder-backend/infrastructure/routing"
	"pathfinder-backend/interfaces/http/rest"
	"pathfinder-backend/interfaces/http/rest/handlers"
	"pathfinder-backend/interfaces/websocket"
	"pathfinder-backend/pkg/observability"
)

// ProvideLogger creates the engine logger
func ProvideLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Logging.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// ProvideBus creates the event bus
func ProvideBus(logger *zap.Logger) *appevents.Bus {
	return appevents.NewBus(logger)
}

// ProvideErrorChannel creates the shared error channel
func ProvideErrorChannel(bus *appevents.Bus, logger *zap.Logger) *appevents.ErrorChannel {
	return appevents.NewErrorChannel(bus, logger)
}

// ProvideMetrics creates the metrics collector and subscribes it to every
// event
func ProvideMetrics(bus *appevents.Bus) (*observability.Collector, error) {
	collector := observability.NewCollector("pathfinder")
	if err := bus.Register([]string{appevents.WildcardEventType}, collector); err != nil {
		return nil, err
	}
	return collector, nil
}

// ProvideGraphService creates the graph service client
func ProvideGraphService(cfg config.Config, tp *observability.TracerProvider, logger *zap.Logger) ports.GraphService {
	var svc ports.GraphService = graphapi.NewClient(
		cfg.Collaborators.GraphServiceURL,
		cfg.Collaborators.GraphTimeout,
		logger,
	)
	if tp != nil {
		svc = observability.TraceGraphService(svc, tp.Tracer())
	}
	return svc
}

// ProvideRoadRouter creates the road routing client
func ProvideRoadRouter(cfg config.Config, logger *zap.Logger) ports.RoadRouter {
	return routing.NewClient(cfg.Collaborators.RoadRouterURL, cfg.Collaborators.RouterTimeout, logger)
}

// ProvideRouteIntelligence creates the route intelligence client
func ProvideRouteIntelligence(cfg config.Config, logger *zap.Logger) ports.RouteIntelligence {
	return nlp.NewClient(cfg.Collaborators.IntelligenceURL, cfg.Collaborators.IntelTimeout, logger)
}

// ProvideGraphStore creates the confirmed-state graph cache
func ProvideGraphStore(svc ports.GraphService, bus *appevents.Bus, logger *zap.Logger) *store.GraphStore {
	return store.NewGraphStore(svc, bus, logger)
}

// ProvideActiveRoute creates the active route holder
func ProvideActiveRoute(bus *appevents.Bus, logger *zap.Logger) *route.ActiveRoute {
	return route.NewActiveRoute(bus, logger)
}

// ProvidePlanner creates the route planner
func ProvidePlanner(svc ports.GraphService, roads ports.RoadRouter, st *store.GraphStore, active *route.ActiveRoute, logger *zap.Logger) *route.Planner {
	return route.NewPlanner(svc, roads, st, active, logger)
}

// ProvideDensityEngine creates the route density sync engine
func ProvideDensityEngine(cfg config.Config, svc ports.GraphService, st *store.GraphStore, errs *appevents.ErrorChannel, bus *appevents.Bus, logger *zap.Logger) *appsync.Engine {
	return appsync.NewEngine(cfg.Dynamic.InitialDensity, cfg.Dynamic.Quiescence(), svc, st, errs, bus, logger)
}

// ProvideController creates the map gesture controller
func ProvideController(st *store.GraphStore, roads ports.RoadRouter, active *route.ActiveRoute, bus *appevents.Bus, logger *zap.Logger) *interaction.Controller {
	return interaction.NewController(st, roads, active, bus, logger)
}

// ProvidePresenter creates the overlay presenter
func ProvidePresenter(cfg config.Config, st *store.GraphStore, active *route.ActiveRoute, bus *appevents.Bus, logger *zap.Logger) (*overlay.Presenter, error) {
	return overlay.NewPresenter(st, active, bus, cfg.Dynamic.Palette, logger)
}

// ProvideSession creates the chat session
func ProvideSession(intel ports.RouteIntelligence, active *route.ActiveRoute, errs *appevents.ErrorChannel, bus *appevents.Bus, logger *zap.Logger) *chat.Session {
	return chat.NewSession(intel, active, errs, bus, logger)
}

// ProvideHub creates the WebSocket hub
func ProvideHub(logger *zap.Logger, metrics *observability.Collector) *websocket.Hub {
	return websocket.NewHub(logger, metrics)
}

// ProvideBroadcaster registers the event-to-wire forwarder
func ProvideBroadcaster(hub *websocket.Hub, bus *appevents.Bus, logger *zap.Logger) (*websocket.Broadcaster, error) {
	return websocket.NewBroadcaster(hub, bus, logger)
}

// ProvideGestureDispatcher creates the inbound gesture dispatcher
func ProvideGestureDispatcher(
	controller *interaction.Controller,
	planner *route.Planner,
	active *route.ActiveRoute,
	density *appsync.Engine,
	session *chat.Session,
	errs *appevents.ErrorChannel,
	logger *zap.Logger,
) *websocket.GestureDispatcher {
	return websocket.NewGestureDispatcher(controller, planner, active, density, session, errs, logger)
}

// ProvideWebSocketServer creates the upgrade endpoint
func ProvideWebSocketServer(cfg config.Config, hub *websocket.Hub, gestures *websocket.GestureDispatcher, logger *zap.Logger) *websocket.Server {
	wsCfg := websocket.DefaultServerConfig()
	wsCfg.GestureRate = cfg.Dynamic.GestureRatePerSec
	wsCfg.GestureBurst = cfg.Dynamic.GestureBurst
	return websocket.NewServer(hub, gestures, wsCfg, logger)
}

// ProvideHTTPHandler assembles the REST router
func ProvideHTTPHandler(
	cfg config.Config,
	st *store.GraphStore,
	controller *interaction.Controller,
	planner *route.Planner,
	active *route.ActiveRoute,
	presenter *overlay.Presenter,
	density *appsync.Engine,
	session *chat.Session,
	errs *appevents.ErrorChannel,
	wsServer *websocket.Server,
	metrics *observability.Collector,
	logger *zap.Logger,
) http.Handler {
	router := rest.NewRouter(
		handlers.NewNodeHandler(st, controller, logger),
		handlers.NewEdgeHandler(st, logger),
		handlers.NewRouteHandler(planner, active, logger),
		handlers.NewDensityHandler(density, logger),
		handlers.NewChatHandler(session, logger),
		handlers.NewDatasetHandler(st, logger),
		handlers.NewStateHandler(st, active, presenter, density, controller, errs, logger),
		wsServer.HandleWebSocket,
		metrics,
		cfg.Server.AllowedOrigins,
		logger,
	)
	return router.Setup()
}
