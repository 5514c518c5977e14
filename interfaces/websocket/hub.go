// Package websocket delivers state updates to connected map views and
// accepts their gestures. All clients share one workspace, so every
// broadcast goes to every connection.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"pathfinder-backend/pkg/observability"
)

// Hub maintains active WebSocket connections and broadcasts messages
type Hub struct {
	connections map[*Client]bool
	mu          sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *OutboundMessage

	ctx     context.Context
	cancel  context.CancelFunc
	logger  *zap.Logger
	metrics *observability.Collector
}

// OutboundMessage is a typed message sent to every connected client
type OutboundMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// NewHub creates a hub; metrics may be nil
func NewHub(logger *zap.Logger, metrics *observability.Collector) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		connections: make(map[*Client]bool),
		register:    make(chan *Client, 16),
		unregister:  make(chan *Client, 16),
		broadcast:   make(chan *OutboundMessage, 1024),
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
		metrics:     metrics,
	}
}

// Run starts the hub's main event loop
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			h.logger.Info("Hub shutting down")
			h.closeAllConnections()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastToAll(message)

		case <-ticker.C:
			h.performHealthCheck()
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.logger.Info("Stopping WebSocket hub")
	h.cancel()
}

// Broadcast queues a typed message for every connected client
func (h *Hub) Broadcast(messageType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	message := &OutboundMessage{
		Type:      messageType,
		Data:      payload,
		Timestamp: time.Now().Unix(),
	}

	select {
	case h.broadcast <- message:
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("broadcast channel full, message dropped")
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.connections[client] = true
	count := len(h.connections)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.ConnectedClients.Set(float64(count))
	}

	h.logger.Info("Client registered",
		zap.String("connectionID", client.id),
		zap.Int("connections", count),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.connections[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.connections, client)
	close(client.send)
	count := len(h.connections)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.ConnectedClients.Set(float64(count))
	}

	h.logger.Info("Client unregistered",
		zap.String("connectionID", client.id),
		zap.Int("connections", count),
	)
}

func (h *Hub) broadcastToAll(message *OutboundMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message",
			zap.Error(err),
			zap.String("messageType", message.Type),
		)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.connections))
	for client := range h.connections {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- data:
		default:
			// Send buffer is full; the client is too slow to keep up and
			// holds a stale view anyway, so drop the connection.
			h.logger.Warn("Closing slow client",
				zap.String("connectionID", client.id),
			)
			go func(c *Client) {
				c.hub.unregister <- c
				c.conn.Close()
			}(client)
		}
	}
}

func (h *Hub) performHealthCheck() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.connections {
		select {
		case client.send <- []byte(`{"type":"ping"}`):
		default:
			h.logger.Warn("Failed to ping client",
				zap.String("connectionID", client.id),
			)
		}
	}

	h.logger.Debug("Health check performed",
		zap.Int("connections", len(h.connections)),
	)
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.connections {
		close(client.send)
		client.conn.Close()
		delete(h.connections, client)
	}

	h.logger.Info("All connections closed")
}

// ConnectionCount returns the number of active connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}
