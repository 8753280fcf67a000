package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dropfour/dropfour/internal/model"
)

// Hub fans messages out to every connection joined to a single room
type Hub struct {
	token   model.RoomToken
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub creates a Hub for one room
func NewHub(token model.RoomToken, logger *slog.Logger) *Hub {
	return &Hub{
		token:      token,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("room", string(token))),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("room member connected",
				slog.String("session", string(client.session)),
				slog.Int("members", count))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				count := len(h.clients)
				h.mu.Unlock()
				h.logger.Info("room member disconnected",
					slog.String("session", string(client.session)),
					slog.Duration("connected_for", time.Since(client.connectedAt)),
					slog.Int("members", count))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Broadcasts are fire-and-forget; a slow client just
					// misses this snapshot and recovers on the next one
					h.logger.Warn("broadcast dropped - client buffer full",
						slog.String("session", string(client.session)))
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			// Client channels stay open; each connection's write pump
			// exits on its own when the socket closes
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a connection to the room's fan-out set
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a message for every member
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// Close shuts down the hub and disconnects its members
func (h *Hub) Close() {
	close(h.done)
}

// ClientCount returns the number of connected members
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HubManager owns the hub for every live room
type HubManager struct {
	hubs   map[model.RoomToken]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.RoomToken]*Hub),
		logger: logger.With(slog.String("component", "realtime")),
	}
}

// GetOrCreate returns the hub for a room, starting a new one if needed
func (m *HubManager) GetOrCreate(token model.RoomToken) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[token]; ok {
		return hub
	}

	hub := NewHub(token, m.logger)
	m.hubs[token] = hub
	go hub.Run()
	return hub
}

// Get returns the hub for a room, or nil if none exists
func (m *HubManager) Get(token model.RoomToken) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[token]
}

// Remove closes and forgets a room's hub
func (m *HubManager) Remove(token model.RoomToken) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[token]; ok {
		hub.Close()
		delete(m.hubs, token)
		m.logger.Info("hub removed", slog.String("room", string(token)))
	}
}
