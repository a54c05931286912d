// Package live fans saved canvas documents out to websocket viewers. Each
// gallery gets a room; subscribers receive a canvas.updated message after
// every successful save.
package live

import (
	"encoding/json"
	"log/slog"
	"sync"
)

type room struct {
	galleryID string
	clients   map[string]*Client // clientID -> client
}

func newRoom(galleryID string) *room {
	return &room{
		galleryID: galleryID,
		clients:   make(map[string]*Client),
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*room // galleryID -> room
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]*room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	r, ok := h.rooms[client.GalleryID]
	if !ok {
		r = newRoom(client.GalleryID)
		h.rooms[client.GalleryID] = r
	}
	r.clients[client.ClientID] = client
	h.mu.Unlock()

	client.Send(&Message{Type: TypeWelcome, GalleryID: client.GalleryID})

	slog.Info("viewer joined", "gallery", client.GalleryID, "client", client.ClientID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	r, ok := h.rooms[client.GalleryID]
	if !ok {
		h.mu.Unlock()
		return
	}

	delete(r.clients, client.ClientID)
	close(client.send)

	if len(r.clients) == 0 {
		delete(h.rooms, client.GalleryID)
	}
	h.mu.Unlock()

	slog.Info("viewer left", "gallery", client.GalleryID, "client", client.ClientID)
}

// BroadcastCanvas notifies every viewer of a gallery that a new canvas
// version was saved.
func (h *Hub) BroadcastCanvas(galleryID string, version int32, document json.RawMessage) {
	payload, err := json.Marshal(CanvasUpdatedPayload{Version: version, Document: document})
	if err != nil {
		slog.Error("marshal canvas update", "error", err)
		return
	}
	msg := &Message{
		Type:      TypeCanvasUpdated,
		GalleryID: galleryID,
		Payload:   payload,
	}

	h.mu.RLock()
	r, ok := h.rooms[galleryID]
	if !ok {
		h.mu.RUnlock()
		return
	}
	clients := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}
