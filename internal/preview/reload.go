package preview

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/qcss/pkg/manifest"
	"github.com/vango-dev/qcss/pkg/metrics"
)

// MessageType names a hub broadcast.
type MessageType string

const (
	// MessageManifest announces a newly published manifest.
	MessageManifest MessageType = "manifest"

	// MessageError announces a failed reload; the old manifest stays live.
	MessageError MessageType = "error"
)

// Message is sent to preview pages over the websocket.
type Message struct {
	Type    MessageType `json:"type"`
	Version uint64      `json:"version,omitempty"`
	Entries int         `json:"entries,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Hub tracks connected preview pages and broadcasts manifest changes.
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewHub creates an empty hub. m may be nil.
func NewHub(m *metrics.Metrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		metrics: m,
		logger:  logger,
	}
}

// HandleWebSocket upgrades the request and holds the connection until the
// page goes away.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Debug("preview: upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.metrics.ClientConnected()
	h.logger.Debug("preview: client connected", "remote", req.RemoteAddr)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.drop(conn)
}

// NotifyManifest broadcasts that version v of the manifest is live.
func (h *Hub) NotifyManifest(v uint64, m *manifest.Manifest) {
	h.Broadcast(Message{Type: MessageManifest, Version: v, Entries: m.Len()})
}

// NotifyError broadcasts a reload failure.
func (h *Hub) NotifyError(err error) {
	h.Broadcast(Message{Type: MessageError, Error: err.Error()})
}

// Broadcast sends msg to every client. Clients that fail the write are
// dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.drop(client)
		}
	}
}

// drop forgets conn and closes it. Calling it twice is harmless.
func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if ok {
		h.metrics.ClientDisconnected()
	}
	conn.Close()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.drop(client)
	}
}

// ClientScript reconnects to the hub and reloads the page when a new
// manifest is published.
const ClientScript = `(function() {
    'use strict';
    var delay = 1000;
    function connect() {
        var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(proto + '//' + location.host + '` + ReloadPath + `');
        ws.onopen = function() { delay = 1000; };
        ws.onmessage = function(e) {
            var msg;
            try { msg = JSON.parse(e.data); } catch (err) { return; }
            if (msg.type === 'manifest') {
                location.reload();
            } else if (msg.type === 'error') {
                console.error('[qcss] manifest reload failed:', msg.error);
            }
        };
        ws.onclose = function() {
            setTimeout(function() {
                delay = Math.min(delay * 2, 30000);
                connect();
            }, delay);
        };
        ws.onerror = function() { ws.close(); };
    }
    connect();
})();`
