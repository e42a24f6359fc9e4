// Package notifier fans order events out to connected dashboard clients over
// websockets. Delivery is best-effort and at-most-once: a client that is
// disconnected at emission time misses the event and reconciles through the
// regular list endpoints.
package notifier

import (
	"context"
	"encoding/json"

	"github.com/chopie/restaurant/internal/logger"
	"go.uber.org/zap"
)

// Event is a single broadcast frame
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub owns the set of connected clients. All membership changes and
// broadcasts go through its run loop, so no locks are needed.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	clients    map[*Client]struct{}
}

// NewHub creates new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 64),
		clients:    make(map[*Client]struct{}),
	}
}

// Run processes hub events until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.close()
			}
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
			logger.Log.Debug("ws client connected", zap.Int("clients", len(h.clients)))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				logger.Log.Error("marshal ws event", zap.String("event", event.Event), zap.Error(err))
				continue
			}
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// slow client, drop it rather than block the hub
					delete(h.clients, client)
					client.close()
				}
			}
		}
	}
}

// Broadcast queues event for fan-out. It never blocks the caller: if the hub
// is saturated the event is dropped.
func (h *Hub) Broadcast(event string, payload any) {
	select {
	case h.broadcast <- Event{Event: event, Data: payload}:
	default:
		logger.Log.Warn("ws broadcast dropped", zap.String("event", event))
	}
}
