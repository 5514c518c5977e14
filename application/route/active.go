// Package route owns the currently active path and the planning flow that
// produces it.
package route

import (
	"context"
	"sync"

	"go.uber.org/zap"

	appevents "pathfinder-backend/application/events"
	"pathfinder-backend/domain/core/entities"
	"pathfinder-backend/domain/events"
)

// ActiveRoute is the single owner of the current path. Every component that
// reacts to route changes (overlay, chat context, deletion invalidation)
// observes it through ActivePathChanged events rather than ambient state.
type ActiveRoute struct {
	mu     sync.RWMutex
	path   *entities.Path
	bus    *appevents.Bus
	logger *zap.Logger
}

// NewActiveRoute creates an empty active-route holder
func NewActiveRoute(bus *appevents.Bus, logger *zap.Logger) *ActiveRoute {
	return &ActiveRoute{bus: bus, logger: logger}
}

// Set replaces the active path
func (a *ActiveRoute) Set(ctx context.Context, path entities.Path) {
	cp := path.Clone()

	a.mu.Lock()
	a.path = &cp
	a.mu.Unlock()

	a.logger.Debug("Active path replaced",
		zap.Int("nodeCount", len(cp.NodeSequence)),
		zap.Int("coordinateCount", len(cp.Coordinates)),
	)

	broadcast := cp.Clone()
	a.bus.Publish(ctx, events.NewActivePathChanged(&broadcast))
}

// Clear removes the active path. Clearing an already-empty holder is a
// no-op and publishes nothing.
func (a *ActiveRoute) Clear(ctx context.Context) {
	a.mu.Lock()
	had := a.path != nil
	a.path = nil
	a.mu.Unlock()

	if !had {
		return
	}

	a.logger.Debug("Active path cleared")
	a.bus.Publish(ctx, events.NewActivePathChanged(nil))
}

// Current returns a copy of the active path, or nil when none is set
func (a *ActiveRoute) Current() *entities.Path {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.path == nil {
		return nil
	}
	cp := a.path.Clone()
	return &cp
}
