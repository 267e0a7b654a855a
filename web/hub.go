// Package web serves decoded records to websocket clients and exposes
// Prometheus metrics.
package web

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"aprsmap/packet"
)

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// message is the envelope every record is sent in.
type message struct {
	Type  string         `json:"type"`
	Value map[string]any `json:"value"`
}

// Hub is a record sink that broadcasts each record to all connected
// websocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	logger  *log.Logger
}

// NewHub creates a hub with no clients.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{clients: map[*websocket.Conn]bool{}, logger: logger}
}

// WriteRecord sends the record's fields to every client as JSON.
func (h *Hub) WriteRecord(r *packet.Report) {
	b, err := json.Marshal(message{Type: "aprs_data", Value: r.Fields()})
	if err != nil {
		h.logger.Error("Failed to encode record", "err", err, "source", r.Source)
		return
	}
	h.broadcast(b)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a websocket and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.logger.Info("Websocket client connected", "remote", conn.RemoteAddr())

	go func() {
		defer h.remove(conn)
		// Clients only listen; reading is how we notice they went away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if !ok {
		return
	}
	if err := conn.Close(); err != nil {
		h.logger.Debug("Failed to close websocket", "err", err)
	}
}

func (h *Hub) broadcast(msg []byte) {
	h.mu.Lock()
	var failed []*websocket.Conn
	for c := range h.clients {
		_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			failed = append(failed, c)
		}
	}
	h.mu.Unlock()

	for _, c := range failed {
		h.logger.Warn("Dropping websocket client", "remote", c.RemoteAddr())
		h.remove(c)
	}
}
