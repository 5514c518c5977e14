package di

import (
	"net/http"

	"go.uber.org/zap"

	"pathfinder-backend/application/chat"
	appevents "pathfinder-backend/application/events"
	"pathfinder-backend/application/interaction"
	"pathfinder-backend/application/overlay"
	"pathfinder-backend/application/route"
	"pathfinder-backend/application/store"
	appsync "pathfinder-backend/application/sync"
	"pathfinder-backend/infrastructure/config"
	"pathfinder-backend/interfaces/websocket"
	"pathfinder-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config      config.Config
	Logger      *zap.Logger
	Bus         *appevents.Bus
	Errors      *appevents.ErrorChannel
	Metrics     *observability.Collector
	Store       *store.GraphStore
	Active      *route.ActiveRoute
	Planner     *route.Planner
	Density     *appsync.Engine
	Controller  *interaction.Controller
	Presenter   *overlay.Presenter
	Session     *chat.Session
	Hub         *websocket.Hub
	Broadcaster *websocket.Broadcaster
	Handler     http.Handler
}
