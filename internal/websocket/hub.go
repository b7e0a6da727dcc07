package websocket

import (
	"log/slog"
	"sync"

	"github.com/m0rjc/ModeBinder/internal/metrics"
)

// Emitter is the outbound half of one connected socket.
type Emitter interface {
	Emit(ev string, args ...any) error
}

// Hub holds the current mode and the sockets connected to the default
// namespace. It is the authority for the mode: clients only request changes.
//
// Every change and every delivery happens under mu, so each socket sees
// updates in the order they were applied. Emitting only queues the frame on
// the socket's transport and does not wait for the network.
type Hub struct {
	mu      sync.Mutex
	sockets map[string]Emitter // keyed by socket id
	mode    string
	hasMode bool
}

func NewHub() *Hub {
	return &Hub{
		sockets: make(map[string]Emitter),
	}
}

// Mode returns the current mode and whether one has been set yet.
func (h *Hub) Mode() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mode, h.hasMode
}

// SetMode applies a requested mode. A request equal to the current mode is
// ignored; otherwise every connected socket receives mode_update. Reports
// whether the mode changed.
func (h *Hub) SetMode(mode string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hasMode && h.mode == mode {
		return false
	}
	h.mode = mode
	h.hasMode = true

	metrics.ModeChanges.WithLabelValues(mode).Inc()
	slog.Info("websocket.hub.mode_changed",
		"component", "websocket",
		"event", "hub.mode_changed",
		"mode", mode,
		"sockets", len(h.sockets),
	)

	for id, e := range h.sockets {
		h.sendLocked(id, e)
	}
	return true
}

// Join adds a socket to the namespace and, if a mode is already known, sends
// it to that socket alone.
func (h *Hub) Join(id string, e Emitter) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sockets[id] = e
	metrics.ConnectedSockets.Set(float64(len(h.sockets)))

	slog.Info("websocket.hub.socket_registered",
		"component", "websocket",
		"event", "hub.register",
		"sid", id,
	)

	if h.hasMode {
		h.sendLocked(id, e)
	}
}

// Leave removes a socket. A stale Emitter for an id that has since rejoined
// is ignored.
func (h *Hub) Leave(id string, e Emitter) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.sockets[id]; !ok || current != e {
		return
	}
	delete(h.sockets, id)
	metrics.ConnectedSockets.Set(float64(len(h.sockets)))

	slog.Info("websocket.hub.socket_unregistered",
		"component", "websocket",
		"event", "hub.unregister",
		"sid", id,
	)
}

// IsConnected reports whether id has joined the namespace.
func (h *Hub) IsConnected(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.sockets[id]
	return ok
}

// ConnectedCount returns the number of sockets in the namespace.
func (h *Hub) ConnectedCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sockets)
}

func (h *Hub) sendLocked(id string, e Emitter) {
	if err := e.Emit(EventModeUpdate, ModeUpdate{Mode: h.mode}); err != nil {
		slog.Warn("websocket.hub.send_failed",
			"component", "websocket",
			"event", "hub.send_error",
			"sid", id,
			"error", err,
		)
	}
}
