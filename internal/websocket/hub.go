// Package websocket streams pipeline stage events to connected browsers.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"clinocontour/internal/config"
	"clinocontour/internal/infrastructure"
	"clinocontour/pkg/contracts/events"
)

// broadcastBuffer bounds the queue between publishers and the hub loop.
// Messages beyond it are dropped rather than stalling a pipeline run.
const broadcastBuffer = 256

// Stats is a snapshot of hub counters
type Stats struct {
	ActiveClients    int   `json:"active_clients"`
	TotalConnections int64 `json:"total_connections"`
	MessagesSent     int64 `json:"messages_sent"`
	DroppedMessages  int64 `json:"dropped_messages"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
// It implements pipeline.Observer.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger

	upgrader       websocket.Upgrader
	allowedOrigins []string
	pingPeriod     time.Duration
	pongWait       time.Duration

	totalConnections int64
	messagesSent     int64
	droppedMessages  int64

	quit     chan struct{}
	running  bool
	stopOnce sync.Once
}

// NewHub creates a hub. allowedOrigins lists the browser origins that may
// connect; "*" allows any, and same-host requests are always allowed.
func NewHub(cfg config.WebSocketConfig, allowedOrigins []string, logger *slog.Logger) *Hub {
	logger = infrastructure.WithComponent(logger, "websocket.hub")

	h := &Hub{
		clients:        make(map[*Client]bool),
		broadcast:      make(chan []byte, broadcastBuffer),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		logger:         logger,
		allowedOrigins: allowedOrigins,
		pingPeriod:     cfg.PingPeriod,
		pongWait:       cfg.PongWait,
		quit:           make(chan struct{}),
	}
	if h.pongWait <= 0 {
		h.pongWait = 60 * time.Second
	}
	if h.pingPeriod <= 0 || h.pingPeriod >= h.pongWait {
		h.pingPeriod = (h.pongWait * 9) / 10
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			h.logger.WarnContext(r.Context(), "WebSocket upgrade error",
				slog.Int("status", status),
				slog.String("reason", reason.Error()),
				slog.String("origin", r.Header.Get("Origin")))
			http.Error(w, http.StatusText(status), status)
		},
	}
	return h
}

// Start runs the hub loop in a new goroutine. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.Run()
}

// Run is the hub's main loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("Hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.totalConnections++
			count := len(h.clients)
			h.mu.Unlock()

			ctx := client.context()
			h.logger.InfoContext(ctx, "Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			h.sendConnected(ctx, client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.InfoContext(client.context(), "Client unregistered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.Duration("connection_duration", time.Since(client.connectedAt)))

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.messagesSent++
				default:
					// Slow client: drop it rather than block everyone else.
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn("Dropped slow client",
						slog.String("client_id", client.id))
				}
			}
			h.mu.Unlock()
		}
	}
}

// Stop ends the hub loop and closes every client
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
		close(h.quit)
	})
}

func (h *Hub) sendConnected(ctx context.Context, client *Client) {
	data, err := encode(events.MessageTypeConnect, client.traceID, map[string]string{
		"status":    "connected",
		"client_id": client.id,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Error marshaling connection message",
			slog.String("error", err.Error()))
		return
	}

	select {
	case client.send <- data:
	default:
		h.logger.WarnContext(ctx, "Failed to send connection message - client buffer full",
			slog.String("client_id", client.id))
	}
}

// Broadcast queues a message for every connected client. It never blocks;
// when the queue is full the message is dropped.
func (h *Hub) Broadcast(ctx context.Context, messageType events.MessageType, data interface{}) {
	payload, err := encode(messageType, infrastructure.GetTraceID(ctx), data)
	if err != nil {
		h.logger.ErrorContext(ctx, "Error marshaling message",
			slog.String("error", err.Error()),
			slog.String("message_type", string(messageType)))
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.mu.Lock()
		h.droppedMessages++
		h.mu.Unlock()
		h.logger.WarnContext(ctx, "Broadcast queue full, message dropped",
			slog.String("message_type", string(messageType)))
	}
}

// StageChanged forwards a pipeline stage event to every client
func (h *Hub) StageChanged(ctx context.Context, event events.StageEvent) {
	h.Broadcast(ctx, events.MessageTypeStage, event)
}

// ServeHTTP upgrades the request and attaches the connection to the hub
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied.
		return
	}

	client := newClient(h, conn, infrastructure.GetTraceID(r.Context()), h.logger)
	select {
	case h.register <- client:
	case <-h.quit:
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns the current hub counters
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{
		ActiveClients:    len(h.clients),
		TotalConnections: h.totalConnections,
		MessagesSent:     h.messagesSent,
		DroppedMessages:  h.droppedMessages,
	}
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || strings.EqualFold(origin, allowed) {
			return true
		}
	}
	if host := strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://"); strings.EqualFold(host, r.Host) {
		return true
	}

	h.logger.WarnContext(r.Context(), "WebSocket origin check - origin not allowed",
		slog.String("origin", origin),
		slog.Any("allowed_origins", h.allowedOrigins))
	return false
}

func encode(messageType events.MessageType, traceID string, data interface{}) ([]byte, error) {
	return json.Marshal(events.WebSocketMessage{
		BaseMessage: events.BaseMessage{
			ID:        uuid.New().String(),
			Type:      messageType,
			Timestamp: time.Now().UTC(),
			TraceID:   traceID,
		},
		Data: data,
	})
}
