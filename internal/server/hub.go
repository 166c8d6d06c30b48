package server

import (
	"context"
	"log/slog"
)

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	log        *slog.Logger
}

// NewHub initializes a new websocket hub.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		log:        log,
	}
}

// Run handles client registration and fan-out until ctx ends.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.log.Info("websocket hub shutting down")
			return
		case client := <-h.register:
			h.clients[client] = true
			h.log.Info("client connected", "client", client.id, "clients", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.Info("client disconnected", "client", client.id, "clients", len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
					h.log.Warn("dropping slow client", "client", client.id)
				}
			}
		}
	}
}

// Register adds c to the hub. It returns false if ctx ended first.
func (h *Hub) Register(ctx context.Context, c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-ctx.Done():
		return false
	}
}

// Unregister removes c from the hub.
func (h *Hub) Unregister(ctx context.Context, c *Client) {
	select {
	case h.unregister <- c:
	case <-ctx.Done():
	}
}

// Broadcast queues payload for every connected client.
func (h *Hub) Broadcast(ctx context.Context, payload []byte) {
	select {
	case h.broadcast <- payload:
	case <-ctx.Done():
	}
}
