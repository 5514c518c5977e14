package events

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"pathfinder-backend/domain/events"
)

// WildcardEventType subscribes a handler to every event
const WildcardEventType = "*"

// Handler is the interface all event handlers must implement
type Handler interface {
	// Handle processes a domain event
	Handle(ctx context.Context, event events.DomainEvent) error

	// Priority returns the handler's priority (lower numbers run first)
	Priority() int

	// Name returns the handler's name for logging
	Name() string
}

// Bus dispatches domain events to registered handlers. Dispatch is
// synchronous and in priority order, which is what preserves the engine's
// ordering guarantees: a publisher's side effects are fully applied before
// Publish returns.
type Bus struct {
	handlers map[string][]Handler
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewBus creates a new event bus
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Register adds a handler for the given event types. Use WildcardEventType
// to receive every event.
func (b *Bus) Register(eventTypes []string, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	for _, eventType := range eventTypes {
		if eventType == "" {
			return fmt.Errorf("event type cannot be empty")
		}

		b.handlers[eventType] = append(b.handlers[eventType], handler)
		b.sortHandlersByPriority(eventType)

		b.logger.Debug("Registered event handler",
			zap.String("handler", handler.Name()),
			zap.String("eventType", eventType),
		)
	}

	return nil
}

// Publish dispatches an event to all matching handlers. Handler errors are
// logged, never propagated: a broken subscriber must not fail the mutation
// that raised the event.
func (b *Bus) Publish(ctx context.Context, event events.DomainEvent) {
	b.mu.RLock()
	matched := make([]Handler, 0, len(b.handlers[event.GetEventType()])+len(b.handlers[WildcardEventType]))
	matched = append(matched, b.handlers[event.GetEventType()]...)
	matched = append(matched, b.handlers[WildcardEventType]...)
	b.mu.RUnlock()

	for _, h := range matched {
		if err := h.Handle(ctx, event); err != nil {
			b.logger.Error("Event handler failed",
				zap.String("handler", h.Name()),
				zap.String("eventType", event.GetEventType()),
				zap.Error(err),
			)
		}
	}
}

// sortHandlersByPriority keeps handlers for an event type in priority order
func (b *Bus) sortHandlersByPriority(eventType string) {
	sort.SliceStable(b.handlers[eventType], func(i, j int) bool {
		return b.handlers[eventType][i].Priority() < b.handlers[eventType][j].Priority()
	})
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc struct {
	name     string
	priority int
	fn       func(ctx context.Context, event events.DomainEvent) error
}

// NewHandlerFunc creates a Handler from a function
func NewHandlerFunc(name string, priority int, fn func(ctx context.Context, event events.DomainEvent) error) *HandlerFunc {
	return &HandlerFunc{name: name, priority: priority, fn: fn}
}

// Handle processes a domain event
func (h *HandlerFunc) Handle(ctx context.Context, event events.DomainEvent) error {
	return h.fn(ctx, event)
}

// Priority returns the handler's priority
func (h *HandlerFunc) Priority() int { return h.priority }

// Name returns the handler's name
func (h *HandlerFunc) Name() string { return h.name }
