package ws

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub tracks live connections keyed by user. Activity pushes are
// per-user: an event only ever reaches its owner's connections.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	outbound   chan userMessage
	mutex      sync.RWMutex
	logger     *log.Logger
}

type userMessage struct {
	userID  uuid.UUID
	payload []byte
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		outbound:   make(chan userMessage, 1024),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS connected | user=%s total_clients=%d", client.userID, total)
			}

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS disconnected | user=%s total_clients=%d", client.userID, total)
			}

		case msg := <-h.outbound:
			h.mutex.RLock()
			targets := make([]*Client, 0, 2)
			for c := range h.clients {
				if c.userID == msg.userID {
					targets = append(targets, c)
				}
			}
			h.mutex.RUnlock()

			for _, client := range targets {
				select {
				case client.send <- msg.payload:
				default:
					h.unregister <- client
				}
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// SendToUser queues a payload for every connection the user holds.
// Drops the payload when the queue is full rather than blocking.
func (h *Hub) SendToUser(userID uuid.UUID, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.outbound <- userMessage{userID: userID, payload: payload}:
	default:
		if h.logger != nil {
			h.logger.Printf("WS send dropped | user=%s reason=buffer_full", userID)
		}
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
