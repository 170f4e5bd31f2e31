package session

import (
	"encoding/json"
	"sync"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type StateChangedEvent struct {
	Email     string `json:"email"`
	State     State  `json:"state"`
	Loading   bool   `json:"loading"`
	IsAdmin   bool   `json:"is_admin"`
	AuthError string `json:"auth_error,omitempty"`
}

type Client struct {
	ID    string
	Email string
	Send  chan []byte
}

// Hub fans session state transitions out to connected UI consumers. Each
// client only sees events for its own email.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	mu         sync.RWMutex
}

type Message struct {
	Email string
	Event Event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Event)
			for _, client := range h.clients {
				if client.Email == msg.Email {
					select {
					case client.Send <- data:
					default:
						// Client buffer full, skip
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) BroadcastStateChange(email string, snap Snapshot) {
	h.broadcast <- &Message{
		Email: email,
		Event: Event{
			Type: "session_state",
			Data: StateChangedEvent{
				Email:     email,
				State:     snap.State,
				Loading:   snap.Loading,
				IsAdmin:   snap.Profile.IsAdmin(),
				AuthError: snap.AuthError,
			},
		},
	}
}
