package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxConnections = 256

// Server upgrades HTTP requests to WebSocket connections
type Server struct {
	hub      *Hub
	gestures *GestureDispatcher
	upgrader websocket.Upgrader

	rateLimit rate.Limit
	burst     int
	logger    *zap.Logger
}

// ServerConfig holds WebSocket server configuration
type ServerConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
	GestureRate     float64
	GestureBurst    int
}

// DefaultServerConfig returns default WebSocket server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
		GestureRate:  20,
		GestureBurst: 40,
	}
}

// NewServer creates a WebSocket server
func NewServer(hub *Hub, gestures *GestureDispatcher, config *ServerConfig, logger *zap.Logger) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}

	return &Server{
		hub:      hub,
		gestures: gestures,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		rateLimit: rate.Limit(config.GestureRate),
		burst:     config.GestureBurst,
		logger:    logger,
	}
}

// HandleWebSocket handles WebSocket upgrade requests
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub.ConnectionCount() >= maxConnections {
		s.logger.Warn("Connection limit exceeded",
			zap.String("remoteAddr", r.RemoteAddr),
		)
		http.Error(w, "Connection limit exceeded", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection",
			zap.Error(err),
			zap.String("remoteAddr", r.RemoteAddr),
		)
		return
	}

	client := NewClient(s.hub, conn, s.gestures, s.rateLimit, s.burst, s.logger)
	client.Start()

	s.logger.Info("New WebSocket connection established",
		zap.String("connectionID", client.ID()),
		zap.String("remoteAddr", r.RemoteAddr),
	)
}
