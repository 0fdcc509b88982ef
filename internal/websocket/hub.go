package websocket

import (
	"encoding/json"
	"log/slog"

	"devconnect-api/internal/event"
)

// Hub routes bus events to live connections. One logical room per
// user id; a user may hold any number of simultaneous connections
// (tabs, devices) and a push goes to all of them. Membership is
// in-memory only — a push missed while disconnected is recovered by
// the next refresh snapshot, not by the hub.
type Hub struct {
	// rooms maps user id to that user's live connections.
	rooms map[string]map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Event bus to listen for events
	bus event.Bus
}

func NewHub(bus event.Bus) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		bus:        bus,
	}
}

func (h *Hub) Run() {
	events, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case client := <-h.register:
			room := h.rooms[client.userID]
			if room == nil {
				room = make(map[*Client]bool)
				h.rooms[client.userID] = room
			}
			room[client] = true

		case client := <-h.unregister:
			if room, ok := h.rooms[client.userID]; ok {
				if _, ok := room[client]; ok {
					delete(room, client)
					close(client.send)
					if len(room) == 0 {
						delete(h.rooms, client.userID)
					}
				}
			}

		case e := <-events:
			room := h.rooms[e.UserID]
			if len(room) == 0 {
				// No live connection is a normal condition, not an error.
				continue
			}

			message, err := json.Marshal(e)
			if err != nil {
				slog.Error("failed to marshal event", "error", err, "type", e.Type)
				continue
			}

			for client := range room {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(room, client)
				}
			}
		}
	}
}
