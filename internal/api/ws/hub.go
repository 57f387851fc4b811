// Package ws streams tree updates to editor clients over WebSocket. Clients
// subscribe to a session; every structural change pushes a freshly compiled
// UISpec to the session's subscribers.
package ws

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mosaicui/mosaic/backend/internal/domain/blueprint"
	"github.com/mosaicui/mosaic/backend/internal/domain/session"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/logging"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/monitoring"
)

// Hub tracks subscribers per session and fans out update events
type Hub struct {
	sessions *session.Manager
	compiler *blueprint.Compiler
	logger   *logging.Logger
	metrics  *monitoring.Metrics

	mu   sync.RWMutex
	subs map[string]map[*client]struct{} // session ID -> clients
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // gorilla connections allow one concurrent writer
}

func (c *client) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// NewHub creates a hub
func NewHub(sessions *session.Manager, compiler *blueprint.Compiler, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Hub{
		sessions: sessions,
		compiler: compiler,
		logger:   logger.Named("ws"),
		subs:     make(map[string]map[*client]struct{}),
	}
}

// WithMetrics attaches connection metrics
func (h *Hub) WithMetrics(m *monitoring.Metrics) *Hub {
	h.metrics = m
	return h
}

func (h *Hub) subscribe(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[*client]struct{})
	}
	h.subs[sessionID][c] = struct{}{}
}

func (h *Hub) unsubscribe(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sessionID, clients := range h.subs {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.subs, sessionID)
		}
	}
}

// NotifyStructuralChange recompiles the session's UISpec and pushes it to
// every subscriber. Implements the providers' Notifier interface.
func (h *Hub) NotifyStructuralChange(sessionID string) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.subs[sessionID]))
	for c := range h.subs[sessionID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	sess, ok := h.sessions.Get(sessionID)
	if !ok {
		return
	}
	spec := h.compiler.Compile(sess.Tree)
	if h.metrics != nil {
		h.metrics.IncCompiles()
	}

	msg := map[string]interface{}{
		"type":       "uispec_update",
		"session_id": sessionID,
		"uispec":     spec,
	}
	for _, c := range clients {
		if err := c.send(msg); err != nil {
			h.logger.Debug("push failed, dropping subscriber", zap.Error(err))
			h.unsubscribe(c)
			continue
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("out", "uispec_update")
		}
	}
}

// SubscriberCount reports subscribers for a session
func (h *Hub) SubscriberCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[sessionID])
}
