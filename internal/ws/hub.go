package ws

import (
	"sync"

	"todo_webapp/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var connectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "ws_connected_clients",
	Help: "Websocket clients currently subscribed to todo events",
})

func init() {
	prometheus.MustRegister(connectedClients)
}

// Hub fans every broadcast out to all registered clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Register adds c. It reports false once the hub is closed.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	// the queue is empty here, so ready is always the first frame
	c.Send <- []byte(`{"type":"` + MsgReady + `"}`)
	connectedClients.Inc()
	logger.Debug("ws client registered", "remote", c.remote, "clients", len(h.clients))
	return true
}

// Unregister removes c and closes its send queue. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.Send)
	connectedClients.Dec()
	logger.Debug("ws client unregistered", "remote", c.remote, "clients", len(h.clients))
}

// Broadcast queues msg for every client. Clients whose queue is full are dropped.
func (h *Hub) Broadcast(msg []byte) {
	var slow []*Client

	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.Send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logger.Warn("dropping slow ws client", "remote", c.remote)
		h.Unregister(c)
	}
}

// Len returns the number of registered clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close unregisters every client; their writers send a close frame and exit.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.Unregister(c)
	}
}
