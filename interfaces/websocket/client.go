package websocket

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024

	// Send buffer size
	sendBufferSize = 256
)

// Client represents a WebSocket client connection
type Client struct {
	id       string
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	gestures *GestureDispatcher
	limiter  *rate.Limiter
	logger   *zap.Logger
}

// NewClient creates a client with its gesture rate limiter
func NewClient(hub *Hub, conn *websocket.Conn, gestures *GestureDispatcher, limit rate.Limit, burst int, logger *zap.Logger) *Client {
	id := uuid.NewString()
	return &Client{
		id:       id,
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		gestures: gestures,
		limiter:  rate.NewLimiter(limit, burst),
		logger:   logger.With(zap.String("connectionID", id)),
	}
}

// Start registers the client and begins its read and write pumps
func (c *Client) Start() {
	c.hub.register <- c

	go c.writePump()
	go c.readPump()

	c.sendConnectionEstablished()
}

// Send queues a message for this client only; used for replies that are
// private to the originating gesture
func (c *Client) Send(messageType string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		c.logger.Error("Failed to marshal direct message", zap.Error(err))
		return
	}
	message, err := json.Marshal(OutboundMessage{
		Type:      messageType,
		Data:      payload,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		c.logger.Error("Failed to marshal direct message", zap.Error(err))
		return
	}

	select {
	case c.send <- message:
	default:
		c.logger.Warn("Dropped direct message to slow client")
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
		c.logger.Info("Read pump stopped")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket read error", zap.Error(err))
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			c.handleTextMessage(message)
		case websocket.BinaryMessage:
			c.logger.Warn("Binary messages not supported")
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.Info("Write pump stopped")
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

			n := len(c.send)
			for i := 0; i < n; i++ {
				if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
					c.logger.Error("Failed to write batched message", zap.Error(err))
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Error("Failed to send ping", zap.Error(err))
				return
			}
		}
	}
}

func (c *Client) handleTextMessage(message []byte) {
	message = bytes.TrimSpace(message)
	if string(message) == `{"type":"pong"}` {
		return
	}

	if !c.limiter.Allow() {
		c.logger.Warn("Gesture rate limit exceeded; dropping message")
		c.Send(MessageRateLimited, map[string]string{
			"message": "Too many gestures, slow down",
		})
		return
	}

	c.gestures.Dispatch(c, message)
}

func (c *Client) sendConnectionEstablished() {
	c.Send(MessageConnectionEstablished, map[string]string{
		"connectionId": c.id,
	})
}

// ID returns the client's connection ID
func (c *Client) ID() string {
	return c.id
}
