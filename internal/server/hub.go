package server

import (
	"encoding/json"
	"sync"

	"github.com/thruflo/reel/internal/player"
)

// Message kinds sent to websocket clients.
const (
	KindEvent = "event"
	KindState = "state"
	KindError = "error"
)

// Message is one frame on the events socket.
type Message struct {
	Kind  string           `json:"kind"`
	Event *player.Event    `json:"event,omitempty"`
	State *player.Snapshot `json:"state,omitempty"`
	Error string           `json:"error,omitempty"`
}

// sendBuffer is the per-client queue length. A client that falls further
// behind loses events.
const sendBuffer = 256

type client struct {
	send    chan []byte
	dropped int
}

// hub fans player events out to connected clients.
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

func newHub() *hub {
	return &hub{clients: make(map[*client]struct{})}
}

// subscribe registers a client. It returns nil once the hub is closed.
func (h *hub) subscribe() *client {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	c := &client{send: make(chan []byte, sendBuffer)}
	h.clients[c] = struct{}{}
	return c
}

// unsubscribe removes c and closes its queue.
func (h *hub) unsubscribe(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// publish is a player listener.
func (h *hub) publish(ev player.Event) {
	data, err := json.Marshal(Message{Kind: KindEvent, Event: &ev})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.enqueue(c, data)
	}
}

// sendTo queues msg for c alone.
func (h *hub) sendTo(c *client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		h.enqueue(c, data)
	}
}

// enqueue must be called with h.mu held.
func (h *hub) enqueue(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		c.dropped++
	}
}

// count returns the number of connected clients.
func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// close disconnects every client and refuses new ones.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
