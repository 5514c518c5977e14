package events

import (
	"time"

	"pathfinder-backend/domain/core/entities"
	"pathfinder-backend/domain/core/valueobjects"
)

// Event types raised across the engine
const (
	TypeNodeAdded         = "node.added"
	TypeNodeDeleted       = "node.deleted"
	TypeEdgeCreated       = "edge.created"
	TypeEdgeDeleted       = "edge.deleted"
	TypeEdgesRefreshed    = "edges.refreshed"
	TypeGraphReloaded     = "graph.reloaded"
	TypeActivePathChanged = "path.changed"
	TypeSelectionChanged  = "selection.changed"
	TypeNodePromptOpened  = "prompt.node_name.opened"
	TypeNodePromptClosed  = "prompt.node_name.closed"
	TypeOverlayInvalid    = "overlay.invalidated"
	TypeDensityState      = "density.state"
	TypeDensityCommitted  = "density.committed"
	TypeDensityRolledBack = "density.rolled_back"
	TypeChatUpdated       = "chat.updated"
	TypeErrorRaised       = "error.raised"
	TypeErrorDismissed    = "error.dismissed"
)

// DomainEvent is the base interface for all domain events.
// Events represent something that has already happened.
type DomainEvent interface {
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

func newBase(eventType string) BaseEvent {
	return BaseEvent{EventType: eventType, Timestamp: time.Now()}
}

// Graph events

// NodeAdded is raised after the remote service confirms a node creation
type NodeAdded struct {
	BaseEvent
	Name     string                  `json:"name"`
	Position valueobjects.Coordinate `json:"position"`
}

// NewNodeAdded creates a NodeAdded event
func NewNodeAdded(name string, position valueobjects.Coordinate) NodeAdded {
	return NodeAdded{BaseEvent: newBase(TypeNodeAdded), Name: name, Position: position}
}

// NodeDeleted is raised after the remote service confirms a node deletion
type NodeDeleted struct {
	BaseEvent
	Name string `json:"name"`
}

// NewNodeDeleted creates a NodeDeleted event
func NewNodeDeleted(name string) NodeDeleted {
	return NodeDeleted{BaseEvent: newBase(TypeNodeDeleted), Name: name}
}

// EdgeCreated is raised after the remote service confirms an edge creation
type EdgeCreated struct {
	BaseEvent
	EdgeID string `json:"edge_id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// NewEdgeCreated creates an EdgeCreated event
func NewEdgeCreated(edgeID, source, target string) EdgeCreated {
	return EdgeCreated{BaseEvent: newBase(TypeEdgeCreated), EdgeID: edgeID, Source: source, Target: target}
}

// EdgeDeleted is raised after the remote service confirms an edge deletion
type EdgeDeleted struct {
	BaseEvent
	EdgeID string `json:"edge_id"`
}

// NewEdgeDeleted creates an EdgeDeleted event
func NewEdgeDeleted(edgeID string) EdgeDeleted {
	return EdgeDeleted{BaseEvent: newBase(TypeEdgeDeleted), EdgeID: edgeID}
}

// EdgesRefreshed is raised after the local edge cache is replaced with the
// server's current edge set
type EdgesRefreshed struct {
	BaseEvent
	Count int `json:"count"`
}

// NewEdgesRefreshed creates an EdgesRefreshed event
func NewEdgesRefreshed(count int) EdgesRefreshed {
	return EdgesRefreshed{BaseEvent: newBase(TypeEdgesRefreshed), Count: count}
}

// GraphReloaded is raised after a full node+edge resync, e.g. following a
// dataset import
type GraphReloaded struct {
	BaseEvent
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// NewGraphReloaded creates a GraphReloaded event
func NewGraphReloaded(nodeCount, edgeCount int) GraphReloaded {
	return GraphReloaded{BaseEvent: newBase(TypeGraphReloaded), NodeCount: nodeCount, EdgeCount: edgeCount}
}

// Route events

// ActivePathChanged is raised when the active path is set or cleared.
// Path is nil when the path was cleared.
type ActivePathChanged struct {
	BaseEvent
	Path *entities.Path `json:"path"`
}

// NewActivePathChanged creates an ActivePathChanged event
func NewActivePathChanged(path *entities.Path) ActivePathChanged {
	return ActivePathChanged{BaseEvent: newBase(TypeActivePathChanged), Path: path}
}

// Interaction events

// SelectionChanged is raised when an edge is selected or deselected.
// EdgeID is nil when the selection was cleared.
type SelectionChanged struct {
	BaseEvent
	EdgeID *string `json:"edge_id"`
}

// NewSelectionChanged creates a SelectionChanged event
func NewSelectionChanged(edgeID *string) SelectionChanged {
	return SelectionChanged{BaseEvent: newBase(TypeSelectionChanged), EdgeID: edgeID}
}

// NodePromptOpened is raised when a map click produced a coordinate and the
// controller is awaiting a node name
type NodePromptOpened struct {
	BaseEvent
	Position valueobjects.Coordinate `json:"position"`
	Snapped  bool                    `json:"snapped"`
}

// NewNodePromptOpened creates a NodePromptOpened event
func NewNodePromptOpened(position valueobjects.Coordinate, snapped bool) NodePromptOpened {
	return NodePromptOpened{BaseEvent: newBase(TypeNodePromptOpened), Position: position, Snapped: snapped}
}

// NodePromptClosed is raised when the pending node draft is committed or
// discarded
type NodePromptClosed struct {
	BaseEvent
}

// NewNodePromptClosed creates a NodePromptClosed event
func NewNodePromptClosed() NodePromptClosed {
	return NodePromptClosed{BaseEvent: newBase(TypeNodePromptClosed)}
}

// OverlayInvalidated forces an overlay recomputation even when the graph
// snapshot is unchanged (e.g. after a density commit, since styling may
// depend on it)
type OverlayInvalidated struct {
	BaseEvent
}

// NewOverlayInvalidated creates an OverlayInvalidated event
func NewOverlayInvalidated() OverlayInvalidated {
	return OverlayInvalidated{BaseEvent: newBase(TypeOverlayInvalid)}
}

// Density events

// DensityState reports the sync engine's observable state
type DensityState struct {
	BaseEvent
	Desired   int  `json:"desired"`
	Committed int  `json:"committed"`
	Syncing   bool `json:"syncing"`
}

// NewDensityState creates a DensityState event
func NewDensityState(desired, committed int, syncing bool) DensityState {
	return DensityState{BaseEvent: newBase(TypeDensityState), Desired: desired, Committed: committed, Syncing: syncing}
}

// DensityCommitted is raised when the remote service accepted a new
// route-density value
type DensityCommitted struct {
	BaseEvent
	Value int `json:"value"`
}

// NewDensityCommitted creates a DensityCommitted event
func NewDensityCommitted(value int) DensityCommitted {
	return DensityCommitted{BaseEvent: newBase(TypeDensityCommitted), Value: value}
}

// DensityRolledBack is raised when a density update failed and the desired
// value reverted to the last committed one
type DensityRolledBack struct {
	BaseEvent
	Rejected  int `json:"rejected"`
	Committed int `json:"committed"`
}

// NewDensityRolledBack creates a DensityRolledBack event
func NewDensityRolledBack(rejected, committed int) DensityRolledBack {
	return DensityRolledBack{BaseEvent: newBase(TypeDensityRolledBack), Rejected: rejected, Committed: committed}
}

// Chat events

// ChatUpdated is raised whenever the conversation history changes
type ChatUpdated struct {
	BaseEvent
	Messages []entities.ChatMessage `json:"messages"`
	Awaiting bool                   `json:"awaiting"`
}

// NewChatUpdated creates a ChatUpdated event
func NewChatUpdated(messages []entities.ChatMessage, awaiting bool) ChatUpdated {
	return ChatUpdated{BaseEvent: newBase(TypeChatUpdated), Messages: messages, Awaiting: awaiting}
}

// Error channel events

// ErrorRaised is raised when a cross-cutting failure is published on the
// shared error channel. It replaces any previously visible error.
type ErrorRaised struct {
	BaseEvent
	Source  string `json:"source"`
	Message string `json:"message"`
}

// NewErrorRaised creates an ErrorRaised event
func NewErrorRaised(source, message string) ErrorRaised {
	return ErrorRaised{BaseEvent: newBase(TypeErrorRaised), Source: source, Message: message}
}

// ErrorDismissed is raised when the visible error is dismissed
type ErrorDismissed struct {
	BaseEvent
}

// NewErrorDismissed creates an ErrorDismissed event
func NewErrorDismissed() ErrorDismissed {
	return ErrorDismissed{BaseEvent: newBase(TypeErrorDismissed)}
}
