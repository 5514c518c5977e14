// Package sync keeps the user-tunable route-density parameter (K-value)
// consistent with the remote configuration endpoint under rapid input.
package sync

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appevents "pathfinder-backend/application/events"
	"pathfinder-backend/application/ports"
	"pathfinder-backend/application/store"
	"pathfinder-backend/domain/events"
	pkgerrors "pathfinder-backend/pkg/errors"
)

const (
	// MinDensity and MaxDensity bound the K-value
	MinDensity = 1
	MaxDensity = 10

	// DefaultQuiescence is the delay after the last input before the
	// debounced update fires
	DefaultQuiescence = 500 * time.Millisecond

	defaultCallTimeout = 10 * time.Second
)

// Engine debounces density changes and synchronizes them with the remote
// service. Every input cancels and replaces the quiescence timer, so a
// burst of N changes yields exactly one network call carrying the last
// value. "Last value actually sent" and "last value committed" are tracked
// separately: a response for a superseded send is discarded, never applied.
type Engine struct {
	mu        sync.Mutex
	desired   int
	committed int
	syncing   bool
	sendSeq   uint64
	timer     *time.Timer

	quiescence  time.Duration
	callTimeout time.Duration

	svc    ports.GraphService
	store  *store.GraphStore
	errs   *appevents.ErrorChannel
	bus    *appevents.Bus
	logger *zap.Logger
}

// NewEngine creates a density sync engine starting at the given committed
// value
func NewEngine(initial int, quiescence time.Duration, svc ports.GraphService, st *store.GraphStore, errs *appevents.ErrorChannel, bus *appevents.Bus, logger *zap.Logger) *Engine {
	if initial < MinDensity || initial > MaxDensity {
		initial = MinDensity
	}
	if quiescence <= 0 {
		quiescence = DefaultQuiescence
	}
	return &Engine{
		desired:     initial,
		committed:   initial,
		quiescence:  quiescence,
		callTimeout: defaultCallTimeout,
		svc:         svc,
		store:       st,
		errs:        errs,
		bus:         bus,
		logger:      logger,
	}
}

// SetDesired records a new desired value and restarts the quiescence timer.
// Intermediate values during rapid input never reach the network; only the
// value current when the timer fires is sent.
func (e *Engine) SetDesired(k int) error {
	if k < MinDensity || k > MaxDensity {
		return pkgerrors.NewValidation("route density must be between 1 and 10")
	}

	e.mu.Lock()
	if e.timer != nil {
		// Cancel-and-replace: timers are never accumulated.
		e.timer.Stop()
	}
	e.desired = k
	desired, committed, syncing := e.desired, e.committed, e.syncing
	e.timer = time.AfterFunc(e.quiescence, e.flush)
	e.mu.Unlock()

	e.bus.Publish(context.Background(), events.NewDensityState(desired, committed, syncing))
	return nil
}

// Desired returns the value currently shown on the control
func (e *Engine) Desired() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.desired
}

// Committed returns the last value the remote service accepted
func (e *Engine) Committed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.committed
}

// IsSyncing reports whether an update is in flight; the control is treated
// as non-interactive while true
func (e *Engine) IsSyncing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.syncing
}

// SetQuiescence changes the debounce window for subsequent inputs
func (e *Engine) SetQuiescence(d time.Duration) {
	if d <= 0 {
		return
	}
	e.mu.Lock()
	e.quiescence = d
	e.mu.Unlock()
}

// Stop cancels any pending debounce timer
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.mu.Unlock()
}

// flush fires after quiescence and sends the most recent desired value
func (e *Engine) flush() {
	e.mu.Lock()
	value := e.desired
	if value == e.committed {
		// Idempotence short-circuit: nothing to send.
		e.mu.Unlock()
		e.logger.Debug("Density unchanged; skipping update", zap.Int("value", value))
		return
	}
	e.syncing = true
	e.sendSeq++
	seq := e.sendSeq
	committed := e.committed
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), e.callTimeout)
	defer cancel()

	e.bus.Publish(ctx, events.NewDensityState(value, committed, true))
	e.logger.Debug("Sending density update", zap.Int("value", value))

	accepted, err := e.svc.UpdateRouteDensity(ctx, value)

	e.mu.Lock()
	if seq != e.sendSeq {
		// A later debounce cycle superseded this send; applying its
		// response would clobber the newer in-flight state.
		e.mu.Unlock()
		e.logger.Debug("Discarding superseded density response", zap.Int("value", value))
		return
	}
	e.syncing = false

	if err != nil {
		// Rollback: the control must not display a value the backend
		// never accepted. A desired value changed again since this send is
		// left alone; its own debounce cycle is still pending.
		if e.desired == value {
			e.desired = e.committed
		}
		rejected := value
		committed = e.committed
		desired := e.desired
		e.mu.Unlock()

		e.logger.Warn("Density update rejected",
			zap.Int("rejected", rejected),
			zap.Int("committed", committed),
			zap.Error(err),
		)
		e.bus.Publish(ctx, events.NewDensityRolledBack(rejected, committed))
		e.bus.Publish(ctx, events.NewDensityState(desired, committed, false))
		e.errs.Report(ctx, "route-density", err)
		return
	}

	e.committed = accepted
	if e.desired == value {
		e.desired = accepted
	}
	desired := e.desired
	e.mu.Unlock()

	e.logger.Info("Density committed", zap.Int("value", accepted))
	e.bus.Publish(ctx, events.NewDensityCommitted(accepted))
	e.bus.Publish(ctx, events.NewDensityState(desired, accepted, false))

	// The parameter affects which edges the backend considers present.
	if _, err := e.store.RefreshEdges(ctx); err != nil {
		e.errs.Report(ctx, "route-density", err)
	}
	// Force a redraw even when the edge set itself is unchanged.
	e.bus.Publish(ctx, events.NewOverlayInvalidated())
}
