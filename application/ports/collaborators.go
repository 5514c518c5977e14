// Package ports defines the contracts for the remote collaborators the
// engine depends on. The collaborators themselves (graph search, road
// routing, language understanding) are external services; only their
// request/response shapes and failure modes matter here.
package ports

import (
	"context"

	"pathfinder-backend/domain/core/entities"
	"pathfinder-backend/domain/core/valueobjects"
)

// PathQuery describes a shortest-path request
type PathQuery struct {
	Start     string   `json:"start" validate:"required"`
	End       string   `json:"end" validate:"required"`
	Waypoints []string `json:"waypoints,omitempty"` // ordered, must pass through
	Avoid     []string `json:"avoid,omitempty"`     // must exclude
}

// GraphService is the remote graph persistence and search service. All
// structural graph mutations go through it; the client never invents graph
// structure locally.
type GraphService interface {
	ListNodes(ctx context.Context) (map[string]valueobjects.Coordinate, error)
	CreateNode(ctx context.Context, name string, position valueobjects.Coordinate) (*entities.Node, error)
	DeleteNode(ctx context.Context, name string) error

	ListEdges(ctx context.Context) ([]entities.Edge, error)
	// CreateEdge registers an edge; a nil weight asks the server to compute
	// the distance from the endpoint coordinates.
	CreateEdge(ctx context.Context, source, target string, weight *float64) (*entities.Edge, error)
	DeleteEdge(ctx context.Context, id string) error

	// FindPath returns the graph-search result: node sequence plus total
	// distance. Road-following geometry is the road router's concern.
	FindPath(ctx context.Context, query PathQuery) (entities.Path, error)

	// UpdateRouteDensity commits a new K-value [1,10] and returns the value
	// the server accepted.
	UpdateRouteDensity(ctx context.Context, k int) (int, error)

	ImportDataset(ctx context.Context, ds Dataset) error
	ExportDataset(ctx context.Context) (Dataset, error)
}

// RoadRoute is the road router's description of a route following real
// roads between a sequence of coordinates
type RoadRoute struct {
	Geometry    []valueobjects.Coordinate
	DistanceKm  float64
	DurationSec float64
	StreetNames []string
	Waypoints   []valueobjects.Coordinate // snapped inputs
}

// RoadRouter is the external routing service used for snapping clicked
// coordinates to the road network and for road-following geometry
type RoadRouter interface {
	// SnapToRoad returns the nearest point on a road. Callers fall back to
	// the raw coordinate on error; a snap failure never fails the enclosing
	// operation.
	SnapToRoad(ctx context.Context, c valueobjects.Coordinate) (valueobjects.Coordinate, error)

	// Route returns the road geometry through the given coordinates.
	// At least two coordinates are required.
	Route(ctx context.Context, coords []valueobjects.Coordinate) (RoadRoute, error)
}

// ReplyKind tags a conversational response as a clarifying answer or a
// route replacement
type ReplyKind string

const (
	// ReplyAnswer is a textual answer that leaves the active route intact
	ReplyAnswer ReplyKind = "answer"

	// ReplyRouteUpdate carries a new path that replaces the active route
	ReplyRouteUpdate ReplyKind = "route_update"
)

// IntelReply is the language service's response to a conversational turn
type IntelReply struct {
	Kind            ReplyKind
	Text            string
	Path            *entities.Path
	Recommendations []string
}

// RouteIntelligence is the external natural-language route service. Every
// query carries the full current path as explicit context.
type RouteIntelligence interface {
	Query(ctx context.Context, query string, route *entities.Path) (IntelReply, error)
}
