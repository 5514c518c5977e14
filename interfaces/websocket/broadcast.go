package websocket

import (
	"context"

	"go.uber.org/zap"

	appevents "pathfinder-backend/application/events"
	"pathfinder-backend/application/overlay"
	domainevents "pathfinder-backend/domain/events"
)

// Outbound message types
const (
	MessageConnectionEstablished = "CONNECTION_ESTABLISHED"
	MessageRateLimited           = "RATE_LIMITED"
	MessageGestureRejected       = "GESTURE_REJECTED"

	MessageNodeAdded      = "NODE_ADDED"
	MessageNodeDeleted    = "NODE_DELETED"
	MessageEdgeCreated    = "EDGE_CREATED"
	MessageEdgeDeleted    = "EDGE_DELETED"
	MessageEdgesRefreshed = "EDGES_REFRESHED"
	MessageGraphReloaded  = "GRAPH_RELOADED"

	MessagePathChanged      = "PATH_CHANGED"
	MessageSelectionChanged = "SELECTION_CHANGED"
	MessagePromptOpened     = "NODE_PROMPT_OPENED"
	MessagePromptClosed     = "NODE_PROMPT_CLOSED"
	MessageRenderPlan       = "RENDER_PLAN"

	MessageDensityState      = "DENSITY_STATE"
	MessageDensityCommitted  = "DENSITY_COMMITTED"
	MessageDensityRolledBack = "DENSITY_ROLLED_BACK"

	MessageChatUpdated    = "CHAT_UPDATED"
	MessageErrorRaised    = "ERROR_RAISED"
	MessageErrorDismissed = "ERROR_DISMISSED"
)

// Broadcaster forwards domain events to all connected clients as typed
// messages. It subscribes with the wildcard so new event types reach the
// wire without extra registration; unknown events are skipped.
type Broadcaster struct {
	hub    *Hub
	logger *zap.Logger
}

// NewBroadcaster creates a broadcaster and registers it on the bus
func NewBroadcaster(hub *Hub, bus *appevents.Bus, logger *zap.Logger) (*Broadcaster, error) {
	b := &Broadcaster{hub: hub, logger: logger}
	if err := bus.Register([]string{appevents.WildcardEventType}, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Handle maps a domain event to its wire message
func (b *Broadcaster) Handle(ctx context.Context, event domainevents.DomainEvent) error {
	messageType, ok := wireType(event)
	if !ok {
		return nil
	}
	return b.hub.Broadcast(messageType, event)
}

// Priority runs the broadcaster last so clients observe settled state
func (b *Broadcaster) Priority() int { return 300 }

// Name identifies the broadcaster in bus logs
func (b *Broadcaster) Name() string { return "websocket-broadcaster" }

func wireType(event domainevents.DomainEvent) (string, bool) {
	switch event.(type) {
	case domainevents.NodeAdded:
		return MessageNodeAdded, true
	case domainevents.NodeDeleted:
		return MessageNodeDeleted, true
	case domainevents.EdgeCreated:
		return MessageEdgeCreated, true
	case domainevents.EdgeDeleted:
		return MessageEdgeDeleted, true
	case domainevents.EdgesRefreshed:
		return MessageEdgesRefreshed, true
	case domainevents.GraphReloaded:
		return MessageGraphReloaded, true
	case domainevents.ActivePathChanged:
		return MessagePathChanged, true
	case domainevents.SelectionChanged:
		return MessageSelectionChanged, true
	case domainevents.NodePromptOpened:
		return MessagePromptOpened, true
	case domainevents.NodePromptClosed:
		return MessagePromptClosed, true
	case overlay.RenderPlanUpdated:
		return MessageRenderPlan, true
	case domainevents.DensityState:
		return MessageDensityState, true
	case domainevents.DensityCommitted:
		return MessageDensityCommitted, true
	case domainevents.DensityRolledBack:
		return MessageDensityRolledBack, true
	case domainevents.ChatUpdated:
		return MessageChatUpdated, true
	case domainevents.ErrorRaised:
		return MessageErrorRaised, true
	case domainevents.ErrorDismissed:
		return MessageErrorDismissed, true
	default:
		return "", false
	}
}
