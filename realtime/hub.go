// Package realtime pushes session events to connected participants over
// websockets. Delivery is best-effort: a broadcast never blocks the
// operation that produced it, and a client that cannot keep up is dropped.
package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

// Message is the wire envelope for everything sent to clients.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("client %s connected to session %s (user %d), total %d", client.id, client.sessionCode, client.userID, h.clientCount())

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			log.Printf("client %s disconnected from session %s (user %d), total %d", client.id, client.sessionCode, client.userID, h.clientCount())
		}
	}
}

// Broadcast fans the event out to every client attached to the session.
// Implements the notifier contract of the game engine: a full send buffer
// drops the client instead of blocking the caller.
func (h *Hub) Broadcast(sessionCode string, event string, payload any) {
	data, err := json.Marshal(Message{Type: event, Payload: payload})
	if err != nil {
		log.Printf("marshal %s event: %v", event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for client := range h.clients {
		if client.sessionCode != sessionCode {
			continue
		}
		select {
		case client.send <- data:
		default:
			log.Printf("client %s too slow, dropping", client.id)
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// ConnectedUsers lists the user ids currently attached to a session.
func (h *Hub) ConnectedUsers(sessionCode string) []uint {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	var ids []uint
	for client := range h.clients {
		if client.sessionCode == sessionCode {
			ids = append(ids, client.userID)
		}
	}
	return ids
}

func (h *Hub) clientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}
