// Package store holds the in-memory authoritative cache of the graph.
// Structural changes are never applied optimistically: every mutation
// delegates to the remote graph service and updates local state only after
// a confirming response.
package store

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	appevents "pathfinder-backend/application/events"
	"pathfinder-backend/application/ports"
	"pathfinder-backend/domain/core/entities"
	"pathfinder-backend/domain/core/valueobjects"
	"pathfinder-backend/domain/events"
	pkgerrors "pathfinder-backend/pkg/errors"
)

// GraphStore is the single mutable source of graph truth. Other components
// read it via Snapshot or change notifications on the event bus; only
// GraphStore's own methods mutate it.
type GraphStore struct {
	mu    sync.RWMutex
	nodes map[string]valueobjects.Coordinate
	edges []entities.Edge

	svc    ports.GraphService
	bus    *appevents.Bus
	logger *zap.Logger
}

// NewGraphStore creates an empty store backed by the remote graph service
func NewGraphStore(svc ports.GraphService, bus *appevents.Bus, logger *zap.Logger) *GraphStore {
	return &GraphStore{
		nodes:  make(map[string]valueobjects.Coordinate),
		svc:    svc,
		bus:    bus,
		logger: logger,
	}
}

// Load replaces the local cache with the server's full node and edge sets
func (s *GraphStore) Load(ctx context.Context) error {
	nodes, err := s.svc.ListNodes(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to list nodes")
	}
	edges, err := s.svc.ListEdges(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to list edges")
	}

	s.mu.Lock()
	s.nodes = nodes
	s.edges = edges
	nodeCount, edgeCount := len(nodes), len(edges)
	s.mu.Unlock()

	s.logger.Info("Graph loaded",
		zap.Int("nodes", nodeCount),
		zap.Int("edges", edgeCount),
	)

	s.bus.Publish(ctx, events.NewGraphReloaded(nodeCount, edgeCount))
	return nil
}

// AddNode creates a node through the remote service. The local cache is
// updated only on confirmation, and the edge set is refreshed before the
// mutation is reported complete: a node mutation may implicitly change
// edges server-side (e.g. automatic edge construction against nearby
// roads).
func (s *GraphStore) AddNode(ctx context.Context, name string, position valueobjects.Coordinate) (*entities.Node, error) {
	if _, err := entities.NewNode(name, position); err != nil {
		return nil, err
	}

	node, err := s.svc.CreateNode(ctx, name, position)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.nodes[node.Name()] = node.Position()
	s.mu.Unlock()

	s.bus.Publish(ctx, events.NewNodeAdded(node.Name(), node.Position()))

	if _, err := s.RefreshEdges(ctx); err != nil {
		// The node itself is confirmed; a failed refresh leaves the edge
		// cache stale until the next refresh succeeds.
		s.logger.Warn("Edge refresh after node creation failed",
			zap.String("nodeName", node.Name()),
			zap.Error(err),
		)
	}

	return node, nil
}

// DeleteNode removes a node through the remote service and refreshes the
// edge set on confirmation
func (s *GraphStore) DeleteNode(ctx context.Context, name string) error {
	if err := s.svc.DeleteNode(ctx, name); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.nodes, name)
	s.mu.Unlock()

	s.bus.Publish(ctx, events.NewNodeDeleted(name))

	if _, err := s.RefreshEdges(ctx); err != nil {
		s.logger.Warn("Edge refresh after node deletion failed",
			zap.String("nodeName", name),
			zap.Error(err),
		)
	}

	return nil
}

// AddEdge creates an edge through the remote service. A nil weight asks the
// server to compute the distance from the endpoint coordinates.
func (s *GraphStore) AddEdge(ctx context.Context, source, target string, weight *float64) (*entities.Edge, error) {
	source, target = strings.TrimSpace(source), strings.TrimSpace(target)
	if source == "" || target == "" {
		return nil, pkgerrors.NewValidation("edge endpoints cannot be empty")
	}
	if source == target {
		return nil, pkgerrors.NewValidation("edge endpoints must be distinct nodes")
	}

	edge, err := s.svc.CreateEdge(ctx, source, target, weight)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.NewEdgeCreated(edge.ID(), edge.Source(), edge.Target()))

	if _, err := s.RefreshEdges(ctx); err != nil {
		s.logger.Warn("Edge refresh after edge creation failed",
			zap.String("edgeID", edge.ID()),
			zap.Error(err),
		)
	}

	return edge, nil
}

// DeleteEdge removes an edge through the remote service and refreshes the
// edge set on confirmation
func (s *GraphStore) DeleteEdge(ctx context.Context, id string) error {
	if err := s.svc.DeleteEdge(ctx, id); err != nil {
		return err
	}

	s.bus.Publish(ctx, events.NewEdgeDeleted(id))

	if _, err := s.RefreshEdges(ctx); err != nil {
		s.logger.Warn("Edge refresh after edge deletion failed",
			zap.String("edgeID", id),
			zap.Error(err),
		)
	}

	return nil
}

// RefreshEdges replaces the local edge cache with the server's current
// edge set
func (s *GraphStore) RefreshEdges(ctx context.Context) ([]entities.Edge, error) {
	edges, err := s.svc.ListEdges(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to refresh edges")
	}

	s.mu.Lock()
	s.edges = edges
	s.mu.Unlock()

	s.bus.Publish(ctx, events.NewEdgesRefreshed(len(edges)))

	out := make([]entities.Edge, len(edges))
	copy(out, edges)
	return out, nil
}

// DropLocalEdges clears the local edge cache without a server round trip.
// Used after a best-effort bulk deletion, where the server state is not
// guaranteed beyond "each deletion attempted exactly once".
func (s *GraphStore) DropLocalEdges(ctx context.Context) {
	s.mu.Lock()
	s.edges = nil
	s.mu.Unlock()

	s.bus.Publish(ctx, events.NewEdgesRefreshed(0))
}

// Snapshot returns copies of the current node and edge sets
func (s *GraphStore) Snapshot() (map[string]valueobjects.Coordinate, []entities.Edge) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make(map[string]valueobjects.Coordinate, len(s.nodes))
	for name, pos := range s.nodes {
		nodes[name] = pos
	}
	edges := make([]entities.Edge, len(s.edges))
	copy(edges, s.edges)
	return nodes, edges
}

// NodeNames returns the current node names
func (s *GraphStore) NodeNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.nodes))
	for name := range s.nodes {
		names = append(names, name)
	}
	return names
}

// HasNode reports whether a node with the given name is cached
func (s *GraphStore) HasNode(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.nodes[name]
	return ok
}

// ImportDataset replaces the remote graph with the given dataset and
// resyncs the local cache from the server's confirmed state
func (s *GraphStore) ImportDataset(ctx context.Context, ds ports.Dataset) error {
	for name, pair := range ds.Nodes {
		if _, err := valueobjects.NewCoordinate(pair[0], pair[1]); err != nil {
			return pkgerrors.Wrap(err, "invalid coordinates for node "+name)
		}
	}
	for _, e := range ds.Edges {
		if _, ok := ds.Nodes[e.Source]; !ok {
			return pkgerrors.NewValidation("dataset edge references unknown node " + e.Source)
		}
		if _, ok := ds.Nodes[e.Target]; !ok {
			return pkgerrors.NewValidation("dataset edge references unknown node " + e.Target)
		}
	}

	if err := s.svc.ImportDataset(ctx, ds); err != nil {
		return err
	}

	return s.Load(ctx)
}

// ExportDataset returns the server's full node+edge set in the dataset
// format
func (s *GraphStore) ExportDataset(ctx context.Context) (ports.Dataset, error) {
	return s.svc.ExportDataset(ctx)
}

