package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// inbound is a message from an editor client
type inbound struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
}

// HandleConnection upgrades the request and serves the subscription loop
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	cl := &client{conn: conn}
	defer func() {
		h.unsubscribe(cl)
		conn.Close()
		if h.metrics != nil {
			h.metrics.WSDisconnect()
		}
	}()

	if h.metrics != nil {
		h.metrics.WSConnect()
	}

	cl.send(map[string]interface{}{
		"type":    "system",
		"message": "Connected to Mosaic UI Service",
	})

	for {
		var msg inbound
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}

		switch msg.Type {
		case "subscribe":
			h.handleSubscribe(cl, msg.SessionID)
		case "get_spec":
			h.handleGetSpec(cl, msg.SessionID)
		case "ping":
			cl.send(map[string]interface{}{"type": "pong"})
		default:
			cl.send(map[string]interface{}{
				"type":  "error",
				"error": "unknown message type: " + msg.Type,
			})
		}
	}
}

func (h *Hub) handleSubscribe(cl *client, sessionID string) {
	sess, ok := h.sessions.Resolve(sessionID)
	if !ok {
		cl.send(map[string]interface{}{
			"type":  "error",
			"error": "session not found: " + sessionID,
		})
		return
	}
	h.subscribe(sess.ID.String(), cl)
	cl.send(map[string]interface{}{
		"type":       "subscribed",
		"session_id": sess.ID.String(),
	})
	// Initial spec so new subscribers never start blank
	h.pushSpec(cl, sess.ID.String())
}

func (h *Hub) handleGetSpec(cl *client, sessionID string) {
	sess, ok := h.sessions.Resolve(sessionID)
	if !ok {
		cl.send(map[string]interface{}{
			"type":  "error",
			"error": "session not found: " + sessionID,
		})
		return
	}
	h.pushSpec(cl, sess.ID.String())
}

func (h *Hub) pushSpec(cl *client, sessionID string) {
	sess, ok := h.sessions.Get(sessionID)
	if !ok {
		return
	}
	cl.send(map[string]interface{}{
		"type":       "uispec_update",
		"session_id": sessionID,
		"uispec":     h.compiler.Compile(sess.Tree),
	})
	if h.metrics != nil {
		h.metrics.RecordWSMessage("out", "uispec_update")
		h.metrics.IncCompiles()
	}
}
