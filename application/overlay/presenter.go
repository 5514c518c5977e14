package overlay

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appevents "pathfinder-backend/application/events"
	"pathfinder-backend/application/route"
	"pathfinder-backend/application/store"
	"pathfinder-backend/domain/events"
)

// TypeRenderPlanUpdated is raised whenever the presenter recomputes the plan
const TypeRenderPlanUpdated = "overlay.render_plan"

// RenderPlanUpdated carries a freshly built render plan
type RenderPlanUpdated struct {
	events.BaseEvent
	Plan RenderPlan `json:"plan"`
}

// NewRenderPlanUpdated creates a RenderPlanUpdated event
func NewRenderPlanUpdated(plan RenderPlan) RenderPlanUpdated {
	return RenderPlanUpdated{
		BaseEvent: events.BaseEvent{EventType: TypeRenderPlanUpdated, Timestamp: time.Now()},
		Plan:      plan,
	}
}

// Presenter subscribes to graph, path and selection changes and republishes
// a complete render plan after each one. Consumers never diff: they replace
// the whole overlay with the latest plan.
type Presenter struct {
	mu       sync.Mutex
	selected *string
	palette  Palette

	store  *store.GraphStore
	active *route.ActiveRoute
	bus    *appevents.Bus
	logger *zap.Logger
}

// NewPresenter creates a presenter and registers it on the bus
func NewPresenter(st *store.GraphStore, active *route.ActiveRoute, bus *appevents.Bus, palette Palette, logger *zap.Logger) (*Presenter, error) {
	p := &Presenter{
		palette: palette,
		store:   st,
		active:  active,
		bus:     bus,
		logger:  logger,
	}

	triggers := []string{
		events.TypeNodeAdded,
		events.TypeNodeDeleted,
		events.TypeEdgeCreated,
		events.TypeEdgeDeleted,
		events.TypeEdgesRefreshed,
		events.TypeGraphReloaded,
		events.TypeActivePathChanged,
		events.TypeSelectionChanged,
		events.TypeOverlayInvalid,
	}
	if err := bus.Register(triggers, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Handle recomputes and publishes the render plan
func (p *Presenter) Handle(ctx context.Context, event events.DomainEvent) error {
	if sel, ok := event.(events.SelectionChanged); ok {
		p.mu.Lock()
		p.selected = sel.EdgeID
		p.mu.Unlock()
	}

	p.bus.Publish(ctx, NewRenderPlanUpdated(p.Plan()))
	return nil
}

// Priority runs the presenter after state-mutating handlers
func (p *Presenter) Priority() int { return 100 }

// Name identifies the presenter in bus logs
func (p *Presenter) Name() string { return "overlay-presenter" }

// Plan builds a render plan from the current state
func (p *Presenter) Plan() RenderPlan {
	p.mu.Lock()
	selected := p.selected
	palette := p.palette
	p.mu.Unlock()

	nodes, edges := p.store.Snapshot()
	return Build(nodes, edges, p.active.Current(), selected, palette)
}

// SetPalette replaces the styling and republishes the plan; called on
// configuration reload.
func (p *Presenter) SetPalette(ctx context.Context, palette Palette) {
	p.mu.Lock()
	p.palette = palette
	p.mu.Unlock()

	p.logger.Info("Overlay palette updated")
	p.bus.Publish(ctx, NewRenderPlanUpdated(p.Plan()))
}
