package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// EventType defines the SSE event name.
type EventType string

const (
	EventCartUpdated     EventType = "cart.updated"
	EventOrderSubmitted  EventType = "order.submitted"
	EventCatalogReloaded EventType = "catalog.reloaded"
)

// Event is the payload pushed to display clients.
type Event struct {
	Event     EventType   `json:"event"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client represents a connected SSE display client bound to one session.
type Client struct {
	ID        string
	SessionID string
	Events    chan []byte
}

// Hub manages SSE client connections and delivery.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a new SSE hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a new client for a session and returns it for streaming.
func (h *Hub) Register(clientID, sessionID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &Client{
		ID:        clientID,
		SessionID: sessionID,
		Events:    make(chan []byte, 64),
	}
	h.clients[clientID] = c
	log.Info().Str("client_id", clientID).Str("session_id", sessionID).Int("total_clients", len(h.clients)).Msg("SSE client connected")
	return c
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.Events)
		delete(h.clients, clientID)
		log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client disconnected")
	}
}

// Publish sends an event to the clients of event.SessionID only.
func (h *Hub) Publish(event *Event) {
	h.send(event, func(c *Client) bool { return c.SessionID == event.SessionID })
}

// Broadcast sends an event to all connected clients.
func (h *Hub) Broadcast(event *Event) {
	h.send(event, func(*Client) bool { return true })
}

// send is non-blocking: it drops the message if a client buffer is full.
func (h *Hub) send(event *Event, match func(*Client) bool) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal SSE event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		if !match(c) {
			continue
		}
		select {
		case c.Events <- data:
		default:
			log.Warn().Str("client_id", c.ID).Msg("SSE client buffer full, dropping event")
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
