package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client represents a connected WebSocket client
type Client struct {
	Hub  *Hub
	ID   uint // user id
	Role string
	Conn *websocket.Conn
	Send chan []byte
}

// Hub manages all WebSocket connections for the live booking feed
type Hub struct {
	// Registered clients by user id
	Clients map[uint]*Client

	// Broadcast channel for events to all clients
	Broadcast chan *Event

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	mu sync.RWMutex
}

// Event is a booking-feed message pushed to connected clients.
type Event struct {
	Type      string      `json:"type"` // booking_created, booking_cancelled, booking_rescheduled, booking_status, pong
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[uint]*Client),
		Broadcast:  make(chan *Event),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("🔌 Client registered: ID=%d, Role=%s", client.ID, client.Role)

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Clients[client.ID]; ok {
				delete(h.Clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 Client unregistered: ID=%d, Role=%s", client.ID, client.Role)

		case event := <-h.Broadcast:
			h.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to all connected clients
func (h *Hub) broadcastEvent(event *Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ Error marshaling event: %v", err)
		return
	}

	for id, client := range h.Clients {
		select {
		case client.Send <- data:
		default:
			close(client.Send)
			delete(h.Clients, id)
		}
	}
}

// SendToUser sends an event to a specific user, dropping it silently when
// the user is not connected. The booking feed is best-effort.
func (h *Hub) SendToUser(userID uint, event *Event) {
	h.mu.RLock()
	client, exists := h.Clients[userID]
	h.mu.RUnlock()

	if !exists {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ Error marshaling event: %v", err)
		return
	}

	select {
	case client.Send <- data:
	default:
		log.Printf("⚠️ User %d's send buffer is full", userID)
	}
}

// NotifyBookingEvent pushes a booking event to each of the given users.
func (h *Hub) NotifyBookingEvent(eventType string, data interface{}, userIDs ...uint) {
	event := &Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}

	for _, id := range userIDs {
		h.SendToUser(id, event)
	}
}

// IsUserConnected checks if a user is currently connected
func (h *Hub) IsUserConnected(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.Clients[userID]
	return exists
}
