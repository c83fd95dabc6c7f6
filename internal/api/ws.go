package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/prasetyo/sentra/internal/agent"
	"github.com/prasetyo/sentra/internal/api/handlers"
	"github.com/prasetyo/sentra/pkg/logger"
)

// client is one connected websocket. Writes are serialized through mu:
// gorilla/websocket allows only a single concurrent writer per
// connection, and the connect-time send, import broadcasts and the
// periodic tick all run on different goroutines.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Hub pushes fresh dashboard metrics to connected websocket clients.
// A payload is sent on connect, after every successful import, and on a
// periodic tick.
type Hub struct {
	agent    *agent.Agent
	logger   *logger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]bool
}

// NewHub creates a new metrics hub.
func NewHub(a *agent.Agent, log *logger.Logger) *Hub {
	return &Hub{
		agent:  a,
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		clients: make(map[*client]bool),
	}
}

// Serve upgrades the connection and registers the client.
// GET /ws/metrics
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	c := &client{conn: conn}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	h.logger.WithField("remote", conn.RemoteAddr().String()).Debug("Websocket client connected")

	// Send the current metrics right away
	if payload, err := h.currentMetrics(); err == nil {
		h.writeTo(c, payload)
	}

	// Read loop only to detect disconnects; clients never send data
	go func() {
		defer h.drop(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends fresh metrics to every connected client.
func (h *Hub) Broadcast() {
	payload, err := h.currentMetrics()
	if err != nil {
		h.logger.WithError(err).Error("Failed to build metrics payload")
		return
	}

	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.writeTo(c, payload)
	}
}

// Run broadcasts on a fixed interval until the context is cancelled.
func (h *Hub) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Broadcast()
		}
	}
}

func (h *Hub) currentMetrics() (handlers.Metrics, error) {
	result, err := h.agent.Run()
	if err != nil {
		return handlers.Metrics{}, err
	}
	return handlers.MetricsFrom(result.Summary), nil
}

func (h *Hub) writeTo(c *client, payload handlers.Metrics) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := c.conn.WriteJSON(payload); err != nil {
		h.drop(c)
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.conn.Close()
	}
	h.mu.Unlock()
}
