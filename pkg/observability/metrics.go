// Package observability provides Prometheus metrics and OpenTelemetry
// tracing for the engine.
package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domainevents "pathfinder-backend/domain/events"
)

// Collector holds all Prometheus metrics for the engine
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Graph metrics
	NodesCreated prometheus.Counter
	NodesDeleted prometheus.Counter
	EdgesCreated prometheus.Counter
	EdgesDeleted prometheus.Counter

	// Engine metrics
	RoutesComputed   prometheus.Counter
	DensityCommits   prometheus.Counter
	DensityRollbacks prometheus.Counter
	ChatTurns        prometheus.Counter
	ErrorsRaised     *prometheus.CounterVec

	// WebSocket metrics
	ConnectedClients prometheus.Gauge
}

// NewCollector creates a metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		NodesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_created_total",
			Help:      "Total number of nodes created",
		}),
		NodesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_deleted_total",
			Help:      "Total number of nodes deleted",
		}),
		EdgesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_created_total",
			Help:      "Total number of edges created",
		}),
		EdgesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_deleted_total",
			Help:      "Total number of edges deleted",
		}),
		RoutesComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_computed_total",
			Help:      "Total number of active route replacements",
		}),
		DensityCommits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "density_commits_total",
			Help:      "Total number of committed route density updates",
		}),
		DensityRollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "density_rollbacks_total",
			Help:      "Total number of rolled back route density updates",
		}),
		ChatTurns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_turns_total",
			Help:      "Total number of conversation updates",
		}),
		ErrorsRaised: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_raised_total",
				Help:      "Total number of user-visible errors by source",
			},
			[]string{"source"},
		),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Number of connected WebSocket clients",
		}),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.NodesCreated,
		c.NodesDeleted,
		c.EdgesCreated,
		c.EdgesDeleted,
		c.RoutesComputed,
		c.DensityCommits,
		c.DensityRollbacks,
		c.ChatTurns,
		c.ErrorsRaised,
		c.ConnectedClients,
	)

	return c
}

// Handler returns the scrape endpoint handler for this collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Handle increments counters from domain events; the collector registers on
// the bus with the wildcard type
func (c *Collector) Handle(ctx context.Context, event domainevents.DomainEvent) error {
	switch e := event.(type) {
	case domainevents.NodeAdded:
		c.NodesCreated.Inc()
	case domainevents.NodeDeleted:
		c.NodesDeleted.Inc()
	case domainevents.EdgeCreated:
		c.EdgesCreated.Inc()
	case domainevents.EdgeDeleted:
		c.EdgesDeleted.Inc()
	case domainevents.ActivePathChanged:
		if e.Path != nil {
			c.RoutesComputed.Inc()
		}
	case domainevents.DensityCommitted:
		c.DensityCommits.Inc()
	case domainevents.DensityRolledBack:
		c.DensityRollbacks.Inc()
	case domainevents.ChatUpdated:
		c.ChatTurns.Inc()
	case domainevents.ErrorRaised:
		c.ErrorsRaised.WithLabelValues(e.Source).Inc()
	}
	return nil
}

// Priority runs metrics after all state handlers
func (c *Collector) Priority() int { return 200 }

// Name identifies the collector in bus logs
func (c *Collector) Name() string { return "metrics-collector" }
