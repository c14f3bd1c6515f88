// Package ws streams server console output to websocket clients and feeds
// typed commands back into the supervisor.
package ws

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans one profile's console lines out to any number of clients. New
// clients receive the buffered history first.
type Hub struct {
	// Commands carries lines typed by clients. The supervisor drains it
	// for as long as the profile's process lives.
	Commands chan []byte

	mu         sync.Mutex
	clients    map[*Client]bool
	history    [][]byte
	maxHistory int
	closed     bool
}

func NewHub(maxHistory int) *Hub {
	if maxHistory < 0 {
		maxHistory = 0
	}
	return &Hub{
		Commands:   make(chan []byte, 64),
		clients:    make(map[*Client]bool),
		maxHistory: maxHistory,
	}
}

// Broadcast appends the line to the history ring and delivers it to every
// attached client. Clients that cannot keep up are dropped.
func (h *Hub) Broadcast(message []byte) {
	msg := append([]byte(nil), message...)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if h.maxHistory > 0 {
		h.history = append(h.history, msg)
		if len(h.history) > h.maxHistory {
			h.history = h.history[1:]
		}
	}
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// History returns a copy of the buffered lines.
func (h *Hub) History() [][]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([][]byte, len(h.history))
	copy(out, h.history)
	return out
}

// Close detaches every client and stops accepting broadcasts. Commands is
// left open; the supervisor's pump stops on its own exit signal.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		close(c.send)
	}
	h.clients = make(map[*Client]bool)
}

func (h *Hub) attach(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(c.send)
		return
	}
	for _, msg := range h.history {
		select {
		case c.send <- msg:
		default:
		}
	}
	h.clients[c] = true
}

func (h *Hub) detach(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// ServeWs upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &Client{hub: h, conn: conn, send: make(chan []byte, 256)}
	h.attach(c)
	go c.writePump()
	go c.readPump()
}
