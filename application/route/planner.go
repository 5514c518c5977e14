package route

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pathfinder-backend/application/ports"
	"pathfinder-backend/application/store"
	"pathfinder-backend/domain/core/entities"
	"pathfinder-backend/domain/core/valueobjects"
	pkgerrors "pathfinder-backend/pkg/errors"
)

// Planner realizes a path query: the graph service supplies the node
// sequence and total distance, and the road router contributes
// road-following geometry, duration and street names on top. The two
// representations stay independent on the resulting Path; they are merged
// only at render time.
type Planner struct {
	graph  ports.GraphService
	roads  ports.RoadRouter
	store  *store.GraphStore
	active *ActiveRoute
	logger *zap.Logger
}

// NewPlanner creates a route planner
func NewPlanner(graph ports.GraphService, roads ports.RoadRouter, st *store.GraphStore, active *ActiveRoute, logger *zap.Logger) *Planner {
	return &Planner{graph: graph, roads: roads, store: st, active: active, logger: logger}
}

// FindRoute runs a path query and installs the result as the active path.
// A failed query clears the active path so the overlay never keeps showing
// a route the user just failed to recompute.
func (p *Planner) FindRoute(ctx context.Context, query ports.PathQuery) (entities.Path, error) {
	path, err := p.graph.FindPath(ctx, query)
	if err != nil {
		p.active.Clear(ctx)
		if pkgerrors.IsNotFound(err) {
			return entities.Path{}, pkgerrors.NewNotFound(noRouteMessage(query))
		}
		return entities.Path{}, err
	}

	p.attachRoadRoute(ctx, &path)

	p.active.Set(ctx, path)
	return path, nil
}

// attachRoadRoute adds the road router's view of the route. Routing
// failures degrade to a node-only path; they never fail the query.
func (p *Planner) attachRoadRoute(ctx context.Context, path *entities.Path) {
	if len(path.NodeSequence) < 2 {
		return
	}

	nodes, _ := p.store.Snapshot()
	coords := make([]valueobjects.Coordinate, 0, len(path.NodeSequence))
	for _, name := range path.NodeSequence {
		pos, ok := nodes[name]
		if !ok {
			p.logger.Warn("Path references node missing from store; skipping road routing",
				zap.String("nodeName", name),
			)
			return
		}
		coords = append(coords, pos)
	}

	road, err := p.roads.Route(ctx, coords)
	if err != nil {
		p.logger.Warn("Road routing failed; keeping node-only path",
			zap.Error(err),
		)
		return
	}

	path.Coordinates = road.Geometry
	duration := road.DurationSec
	path.Duration = &duration
	path.RouteInfo = road.StreetNames
}

// noRouteMessage builds the user-facing message for an unreachable pair
func noRouteMessage(query ports.PathQuery) string {
	msg := fmt.Sprintf("No route found between %s and %s", query.Start, query.End)
	if len(query.Avoid) > 0 {
		msg += ", avoiding " + strings.Join(query.Avoid, ", ")
	}
	return msg
}
