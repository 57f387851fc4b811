// Package http contains the REST handlers in front of the service registry.
package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mosaicui/mosaic/backend/internal/api/middleware"
	"github.com/mosaicui/mosaic/backend/internal/domain/blueprint"
	"github.com/mosaicui/mosaic/backend/internal/domain/service"
	"github.com/mosaicui/mosaic/backend/internal/domain/session"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/logging"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/monitoring"
	"github.com/mosaicui/mosaic/backend/internal/shared/types"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	sessions *session.Manager
	compiler *blueprint.Compiler
	metrics  *monitoring.Metrics
	logger   *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(
	registry *service.Registry,
	sessions *session.Manager,
	compiler *blueprint.Compiler,
	metrics *monitoring.Metrics,
	logger *logging.Logger,
) *Handlers {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Handlers{
		registry: registry,
		sessions: sessions,
		compiler: compiler,
		metrics:  metrics,
		logger:   logger.Named("http"),
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Mosaic UI Service",
		"version": "0.3.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service_registry": h.registry.Stats(),
		"sessions":         gin.H{"active": h.sessions.Count()},
		"uptime_seconds":   h.metrics.UptimeSeconds(),
	})
}

// ListServices lists registered services, optionally filtered by category
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if s := c.Query("category"); s != "" {
		cat := types.Category(s)
		category = &cat
	}
	services := h.registry.List(category)
	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"stats":    h.registry.Stats(),
	})
}

// executeRequest is the body of POST /services/execute
type executeRequest struct {
	ToolID string                 `json:"tool_id" binding:"required"`
	Params map[string]interface{} `json:"params"`
}

// ExecuteService runs any registered tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Params == nil {
		req.Params = map[string]interface{}{}
	}

	reqID := middleware.GetRequestID(c)
	opCtx := &types.Context{RequestID: &reqID}
	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, opCtx)
	if err != nil && result == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetProperty handles GET /components/:name/property
func (h *Handlers) GetProperty(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path query parameter required"})
		return
	}
	params := map[string]interface{}{
		"component":  c.Param("name"),
		"path":       path,
		"session_id": c.Query("session_id"),
	}
	h.runTool(c, "property.get", params)
}

// setPropertyRequest is the body of PUT /components/:name/property
type setPropertyRequest struct {
	Path      string      `json:"path" binding:"required"`
	Value     interface{} `json:"value"`
	Op        string      `json:"op,omitempty"`
	Index     *int        `json:"index,omitempty"`
	SessionID string      `json:"session_id,omitempty"`
}

// SetProperty handles PUT /components/:name/property
func (h *Handlers) SetProperty(c *gin.Context) {
	var req setPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	params := map[string]interface{}{
		"component":  c.Param("name"),
		"path":       req.Path,
		"value":      req.Value,
		"session_id": req.SessionID,
	}
	if req.Op != "" {
		params["op"] = req.Op
	}
	if req.Index != nil {
		params["index"] = float64(*req.Index)
	}
	h.runTool(c, "property.set", params)
}

// insertRequest is the body of POST /components
type insertRequest struct {
	Parent    string `json:"parent" binding:"required"`
	Type      string `json:"type" binding:"required"`
	Name      string `json:"name" binding:"required"`
	SessionID string `json:"session_id,omitempty"`
}

// InsertComponent handles POST /components
func (h *Handlers) InsertComponent(c *gin.Context) {
	var req insertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.runTool(c, "uitree.insert", map[string]interface{}{
		"parent":     req.Parent,
		"type":       req.Type,
		"name":       req.Name,
		"session_id": req.SessionID,
	})
}

// RemoveComponent handles DELETE /components/:name
func (h *Handlers) RemoveComponent(c *gin.Context) {
	h.runTool(c, "uitree.remove", map[string]interface{}{
		"name":       c.Param("name"),
		"session_id": c.Query("session_id"),
	})
}

// runTool executes a tool and maps the envelope onto HTTP status codes
func (h *Handlers) runTool(c *gin.Context, toolID string, params map[string]interface{}) {
	reqID := middleware.GetRequestID(c)
	opCtx := &types.Context{RequestID: &reqID}
	result, err := h.registry.Execute(c.Request.Context(), toolID, params, opCtx)
	if err != nil && result == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// createSessionRequest is the body of POST /sessions
type createSessionRequest struct {
	Name string `json:"name"`
}

// CreateSession opens a new editing session
func (h *Handlers) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" {
		req.Name = "untitled"
	}
	sess := h.sessions.Create(req.Name)
	h.metrics.SetSessionsActive(h.sessions.Count())
	c.JSON(http.StatusCreated, sess)
}

// ListSessions lists live sessions
func (h *Handlers) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sessions": h.sessions.List(),
		"count":    h.sessions.Count(),
	})
}

// GetSession returns one session
func (h *Handlers) GetSession(c *gin.Context) {
	sess, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session":    sess,
		"components": sess.Tree.Count(),
		"modified":   sess.Tree.Modified(),
	})
}

// DeleteSession closes a session
func (h *Handlers) DeleteSession(c *gin.Context) {
	if !h.sessions.Close(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	h.metrics.SetSessionsActive(h.sessions.Count())
	c.JSON(http.StatusOK, gin.H{"closed": c.Param("id")})
}

// GetSessionSpec compiles and returns the session's UISpec
func (h *Handlers) GetSessionSpec(c *gin.Context) {
	sess, ok := h.sessions.Resolve(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	h.metrics.IncCompiles()
	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID.String(),
		"uispec":     h.compiler.Compile(sess.Tree),
	})
}

// LoadBlueprint parses a YAML blueprint into a fresh session
func (h *Handlers) LoadBlueprint(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "blueprint body required"})
		return
	}

	tree, err := h.compiler.Load(body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	name := c.Query("name")
	if name == "" {
		name = "blueprint"
	}
	sess := h.sessions.Create(name)
	sess.Tree = tree
	h.metrics.SetSessionsActive(h.sessions.Count())

	h.logger.Info("blueprint loaded",
		zap.String("session_id", sess.ID.String()),
		zap.Int("components", tree.Count()),
	)

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sess.ID.String(),
		"components": tree.Count(),
	})
}

// Stats returns the JSON metrics snapshot
func (h *Handlers) Stats(c *gin.Context) {
	snap := h.metrics.Snapshot()
	avg := 0.0
	if snap.RequestCount > 0 {
		avg = snap.TotalDuration / float64(snap.RequestCount)
	}
	c.JSON(http.StatusOK, gin.H{
		"total_requests":       snap.TotalRequests,
		"total_errors":         snap.TotalErrors,
		"active_connections":   snap.ActiveConnections,
		"avg_duration_seconds": avg,
		"uptime_seconds":       h.metrics.UptimeSeconds(),
		"sessions":             h.sessions.Count(),
	})
}
