package events

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"pathfinder-backend/domain/events"
	pkgerrors "pathfinder-backend/pkg/errors"
)

// VisibleError is the single error currently surfaced to the user
type VisibleError struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// ErrorChannel is the shared channel for cross-cutting failures (parameter
// sync, path queries). Only one error is visible at a time: reporting a new
// one replaces the previous. Component-local failures (e.g. a rejected node
// add) do not go through here; they stay inline with the operation.
type ErrorChannel struct {
	mu      sync.Mutex
	current *VisibleError
	bus     *Bus
	logger  *zap.Logger
}

// NewErrorChannel creates the shared error channel
func NewErrorChannel(bus *Bus, logger *zap.Logger) *ErrorChannel {
	return &ErrorChannel{bus: bus, logger: logger}
}

// Report surfaces an error, replacing any previously visible one
func (c *ErrorChannel) Report(ctx context.Context, source string, err error) {
	if err == nil {
		return
	}

	message := pkgerrors.UserMessage(err)

	c.mu.Lock()
	c.current = &VisibleError{Source: source, Message: message}
	c.mu.Unlock()

	c.logger.Warn("Surfacing error",
		zap.String("source", source),
		zap.Error(err),
	)

	c.bus.Publish(ctx, events.NewErrorRaised(source, message))
}

// Dismiss clears the visible error
func (c *ErrorChannel) Dismiss(ctx context.Context) {
	c.mu.Lock()
	had := c.current != nil
	c.current = nil
	c.mu.Unlock()

	if had {
		c.bus.Publish(ctx, events.NewErrorDismissed())
	}
}

// Current returns the visible error, or nil when none is shown
func (c *ErrorChannel) Current() *VisibleError {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	cp := *c.current
	return &cp
}
