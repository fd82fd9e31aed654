package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Message is a realtime event delivered to channel subscribers. Evento names
// follow the wire protocol: lista_nova, item_adicionado, and so on.
type Message struct {
	Evento  string `json:"evento"`
	Payload any    `json:"payload,omitempty"`
}

// UserChannel is the per-user channel carrying lista-level events for that
// user's other sessions.
func UserChannel(userID int64) string {
	return fmt.Sprintf("user_%d", userID)
}

// ListaChannel is the per-lista channel carrying item and categoria events.
func ListaChannel(listaID string) string {
	return "lista_" + listaID
}

// ListaIDFromChannel extracts the lista id from a lista channel name.
func ListaIDFromChannel(channel string) (string, bool) {
	id, ok := strings.CutPrefix(channel, "lista_")
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Hub maintains the set of active WebSocket clients and their channel
// memberships, and fans messages out per channel.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]map[string]struct{}
	// channel name -> subscribers
	channels map[string]map[*Client]struct{}
	logger   *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:  make(map[*Client]map[string]struct{}),
		channels: make(map[string]map[*Client]struct{}),
		logger:   logger,
	}
}

// Register adds a client to the hub with no channel memberships.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = make(map[string]struct{})
	h.mu.Unlock()
}

// Unregister removes a client from every channel and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	channels, ok := h.clients[c]
	if ok {
		for name := range channels {
			h.dropSubscriber(name, c)
		}
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Join subscribes a registered client to the named channel.
func (h *Hub) Join(c *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	memberships, ok := h.clients[c]
	if !ok {
		return
	}
	memberships[channel] = struct{}{}
	subs, ok := h.channels[channel]
	if !ok {
		subs = make(map[*Client]struct{})
		h.channels[channel] = subs
	}
	subs[c] = struct{}{}
}

// Leave unsubscribes a client from the named channel.
func (h *Hub) Leave(c *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if memberships, ok := h.clients[c]; ok {
		delete(memberships, channel)
	}
	h.dropSubscriber(channel, c)
}

// dropSubscriber must be called with h.mu held.
func (h *Hub) dropSubscriber(channel string, c *Client) {
	subs, ok := h.channels[channel]
	if !ok {
		return
	}
	delete(subs, c)
	if len(subs) == 0 {
		delete(h.channels, channel)
	}
}

// Broadcast sends a message to every subscriber of the channel. Delivery is
// best-effort: a client whose buffer is full misses the message.
func (h *Hub) Broadcast(channel string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.channels[channel] {
		select {
		case c.send <- data:
		default:
			// Client buffer full, drop the message instead of blocking
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SubscriberCount returns the number of clients subscribed to a channel.
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}
