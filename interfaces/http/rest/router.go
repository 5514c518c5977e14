// Package rest wires the HTTP surface: the REST API, the WebSocket upgrade
// endpoint, health and metrics.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"pathfinder-backend/interfaces/http/rest/handlers"
	"pathfinder-backend/interfaces/http/rest/middleware"
	"pathfinder-backend/pkg/api"
	"pathfinder-backend/pkg/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	nodes    *handlers.NodeHandler
	edges    *handlers.EdgeHandler
	routes   *handlers.RouteHandler
	density  *handlers.DensityHandler
	chat     *handlers.ChatHandler
	dataset  *handlers.DatasetHandler
	state    *handlers.StateHandler
	ws       http.HandlerFunc
	metrics  *observability.Collector
	origins  []string
	logger   *zap.Logger
}

// NewRouter creates a router over the engine's handlers
func NewRouter(
	nodes *handlers.NodeHandler,
	edges *handlers.EdgeHandler,
	routes *handlers.RouteHandler,
	density *handlers.DensityHandler,
	chat *handlers.ChatHandler,
	dataset *handlers.DatasetHandler,
	state *handlers.StateHandler,
	ws http.HandlerFunc,
	metrics *observability.Collector,
	origins []string,
	logger *zap.Logger,
) *Router {
	return &Router{
		nodes:   nodes,
		edges:   edges,
		routes:  routes,
		density: density,
		chat:    chat,
		dataset: dataset,
		state:   state,
		ws:      ws,
		metrics: metrics,
		origins: origins,
		logger:  logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.metrics))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", rt.healthCheck)
	router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	router.Get("/ws", rt.ws)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", rt.state.GetState)

		r.Route("/nodes", func(r chi.Router) {
			r.Get("/", rt.nodes.ListNodes)
			r.Post("/", rt.nodes.CreateNode)
			r.Delete("/{name}", rt.nodes.DeleteNode)
			r.Post("/bulk-delete", rt.nodes.BulkDeleteNodes)
		})

		r.Route("/edges", func(r chi.Router) {
			r.Get("/", rt.edges.ListEdges)
			r.Post("/", rt.edges.CreateEdge)
			r.Delete("/{id}", rt.edges.DeleteEdge)
		})

		r.Route("/route", func(r chi.Router) {
			r.Get("/", rt.routes.GetRoute)
			r.Post("/", rt.routes.FindRoute)
			r.Delete("/", rt.routes.ClearRoute)
		})

		r.Route("/density", func(r chi.Router) {
			r.Get("/", rt.density.GetDensity)
			r.Put("/", rt.density.SetDensity)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Get("/", rt.chat.GetConversation)
			r.Post("/messages", rt.chat.SendMessage)
			r.Post("/recommendations", rt.chat.AskRecommendations)
		})

		r.Route("/dataset", func(r chi.Router) {
			r.Get("/", rt.dataset.Export)
			r.Post("/", rt.dataset.Import)
			r.Post("/csv", rt.dataset.ImportCSV)
			r.Post("/sample", rt.dataset.LoadSample)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, map[string]string{"status": "healthy"})
}
