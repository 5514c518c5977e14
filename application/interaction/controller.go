// Package interaction translates raw map gestures into graph mutations and
// UI prompts through an explicit finite-state machine.
package interaction

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	appevents "pathfinder-backend/application/events"
	"pathfinder-backend/application/ports"
	"pathfinder-backend/application/route"
	"pathfinder-backend/application/store"
	"pathfinder-backend/domain/core/entities"
	"pathfinder-backend/domain/core/valueobjects"
	"pathfinder-backend/domain/events"
	pkgerrors "pathfinder-backend/pkg/errors"
)

// NodeDraft is the ephemeral coordinate-plus-name pending while the user is
// naming a clicked position. It exists only in the AwaitingNodeName state.
type NodeDraft struct {
	Position valueobjects.Coordinate
	Name     string
	Snapped  bool
}

// State is the controller's tagged state variant. Per-state data lives on
// the variant itself, not on ad hoc flags.
type State interface {
	stateName() string
}

// Idle is the initial and natural resting state
type Idle struct{}

// AwaitingNodeName holds a chosen coordinate whose name is not yet committed
type AwaitingNodeName struct {
	Draft NodeDraft
}

// EdgeSelected holds an existing edge highlighted pending a delete decision
type EdgeSelected struct {
	Edge entities.Edge
}

func (Idle) stateName() string             { return "Idle" }
func (AwaitingNodeName) stateName() string { return "AwaitingNodeName" }
func (EdgeSelected) stateName() string     { return "EdgeSelected" }

// Controller is the gesture state machine. It lives for the lifetime of the
// session; there is no terminal state.
type Controller struct {
	mu    sync.Mutex
	state State

	store  *store.GraphStore
	roads  ports.RoadRouter
	active *route.ActiveRoute
	bus    *appevents.Bus
	logger *zap.Logger
}

// NewController creates a controller in the Idle state
func NewController(st *store.GraphStore, roads ports.RoadRouter, active *route.ActiveRoute, bus *appevents.Bus, logger *zap.Logger) *Controller {
	return &Controller{
		state:  Idle{},
		store:  st,
		roads:  roads,
		active: active,
		bus:    bus,
		logger: logger,
	}
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// MapClick handles a click on empty map space. The position is snapped to
// the nearest road; on snap failure the raw coordinates are used unchanged
// and the gesture proceeds (deliberate fallback, not an error).
func (c *Controller) MapClick(ctx context.Context, pos valueobjects.Coordinate) {
	snapped := true
	target, err := c.roads.SnapToRoad(ctx, pos)
	if err != nil {
		c.logger.Debug("Road snap failed; using raw coordinates",
			zap.Float64("lat", pos.Lat()),
			zap.Float64("lng", pos.Lng()),
			zap.Error(err),
		)
		target = pos
		snapped = false
	}

	c.mu.Lock()
	_, hadSelection := c.state.(EdgeSelected)
	c.state = AwaitingNodeName{Draft: NodeDraft{Position: target, Snapped: snapped}}
	c.mu.Unlock()

	if hadSelection {
		c.bus.Publish(ctx, events.NewSelectionChanged(nil))
	}
	c.bus.Publish(ctx, events.NewNodePromptOpened(target, snapped))
}

// CommitNodeName commits the pending draft under the given name. A blank
// name is a no-op: the prompt stays open. A rejected creation (e.g. a
// duplicate name) keeps the draft so the user can correct and resubmit; the
// error is returned inline, not pushed through the shared channel.
func (c *Controller) CommitNodeName(ctx context.Context, name string) error {
	c.mu.Lock()
	st, ok := c.state.(AwaitingNodeName)
	c.mu.Unlock()
	if !ok {
		return pkgerrors.NewValidation("no node placement is pending")
	}

	if strings.TrimSpace(name) == "" {
		return nil
	}

	if _, err := c.store.AddNode(ctx, name, st.Draft.Position); err != nil {
		c.logger.Debug("Node creation rejected",
			zap.String("nodeName", name),
			zap.Error(err),
		)
		return err
	}

	c.mu.Lock()
	c.state = Idle{}
	c.mu.Unlock()

	c.bus.Publish(ctx, events.NewNodePromptClosed())
	return nil
}

// CancelNodeName discards the pending draft without any remote call
func (c *Controller) CancelNodeName(ctx context.Context) {
	c.mu.Lock()
	_, ok := c.state.(AwaitingNodeName)
	if ok {
		c.state = Idle{}
	}
	c.mu.Unlock()

	if ok {
		c.bus.Publish(ctx, events.NewNodePromptClosed())
	}
}

// EdgeClick selects an edge pending a delete decision. Only meaningful when
// the caller's "all edges" visibility mode is active; selecting while
// another edge is selected replaces the selection.
func (c *Controller) EdgeClick(ctx context.Context, edge entities.Edge) {
	c.mu.Lock()
	switch c.state.(type) {
	case Idle, EdgeSelected:
		c.state = EdgeSelected{Edge: edge}
	default:
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	id := edge.ID()
	c.bus.Publish(ctx, events.NewSelectionChanged(&id))
}

// DeleteSelectedEdge deletes the currently selected edge. On failure the
// selection is kept so the user can retry or click elsewhere.
func (c *Controller) DeleteSelectedEdge(ctx context.Context) error {
	c.mu.Lock()
	st, ok := c.state.(EdgeSelected)
	c.mu.Unlock()
	if !ok {
		return pkgerrors.NewValidation("no edge is selected")
	}

	if err := c.store.DeleteEdge(ctx, st.Edge.ID()); err != nil {
		return err
	}

	c.mu.Lock()
	c.state = Idle{}
	c.mu.Unlock()

	c.bus.Publish(ctx, events.NewSelectionChanged(nil))
	return nil
}

// ClickElsewhere clears an edge selection without mutation
func (c *Controller) ClickElsewhere(ctx context.Context) {
	c.mu.Lock()
	_, ok := c.state.(EdgeSelected)
	if ok {
		c.state = Idle{}
	}
	c.mu.Unlock()

	if ok {
		c.bus.Publish(ctx, events.NewSelectionChanged(nil))
	}
}

// DeleteMarker deletes a node from any state; the state itself is
// unaffected. When the deleted name appears in the active path's node
// sequence the path is cleared entirely: the overlay cannot render a path
// with a missing vertex. Edges are refreshed in every outcome.
func (c *Controller) DeleteMarker(ctx context.Context, name string) error {
	err := c.store.DeleteNode(ctx, name)
	if err != nil {
		// The store refreshes edges itself on success; refresh here so the
		// failure path reconverges with the server too.
		if _, refreshErr := c.store.RefreshEdges(ctx); refreshErr != nil {
			c.logger.Warn("Edge refresh after failed node deletion also failed",
				zap.String("nodeName", name),
				zap.Error(refreshErr),
			)
		}
		return err
	}

	if current := c.active.Current(); current != nil && current.ContainsNode(name) {
		c.logger.Info("Deleted node was on the active path; clearing path",
			zap.String("nodeName", name),
		)
		c.active.Clear(ctx)
	}

	return nil
}

// RemoveAllNodes sequentially deletes every node, best-effort: individual
// failures are logged and skipped, each deletion is attempted exactly once.
// On completion the active path and the local edge list are cleared.
func (c *Controller) RemoveAllNodes(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return pkgerrors.NewValidation("bulk node removal requires confirmation")
	}

	names := c.store.NodeNames()
	var failed int
	for _, name := range names {
		if err := c.store.DeleteNode(ctx, name); err != nil {
			failed++
			c.logger.Warn("Node deletion failed during bulk removal",
				zap.String("nodeName", name),
				zap.Error(err),
			)
		}
	}

	c.active.Clear(ctx)
	c.store.DropLocalEdges(ctx)

	c.logger.Info("Bulk node removal finished",
		zap.Int("attempted", len(names)),
		zap.Int("failed", failed),
	)
	return nil
}

// Reset discards any pending draft or selection without issuing remote
// calls; used when the hosting view goes away (e.g. a tab switch).
func (c *Controller) Reset(ctx context.Context) {
	c.mu.Lock()
	prev := c.state
	c.state = Idle{}
	c.mu.Unlock()

	switch prev.(type) {
	case AwaitingNodeName:
		c.bus.Publish(ctx, events.NewNodePromptClosed())
	case EdgeSelected:
		c.bus.Publish(ctx, events.NewSelectionChanged(nil))
	}
}
