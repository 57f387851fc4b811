// Package uitree exposes component tree structure operations: inserting and
// removing components and projecting a session's tree as a UISpec.
package uitree

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mosaicui/mosaic/backend/internal/domain/blueprint"
	"github.com/mosaicui/mosaic/backend/internal/domain/session"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/logging"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/monitoring"
	"github.com/mosaicui/mosaic/backend/internal/shared/types"
)

// Notifier receives structural-change signals.
type Notifier interface {
	NotifyStructuralChange(sessionID string)
}

// Provider implements the uitree service
type Provider struct {
	sessions *session.Manager
	compiler *blueprint.Compiler
	notifier Notifier
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// NewProvider creates a tree provider
func NewProvider(sessions *session.Manager, compiler *blueprint.Compiler, logger *logging.Logger) *Provider {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Provider{sessions: sessions, compiler: compiler, logger: logger.Named("uitree")}
}

// WithNotifier attaches a structural-change notifier
func (p *Provider) WithNotifier(n Notifier) *Provider {
	p.notifier = n
	return p
}

// WithMetrics attaches operation metrics
func (p *Provider) WithMetrics(m *monitoring.Metrics) *Provider {
	p.metrics = m
	return p
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "uitree",
		Name:        "Component Tree Service",
		Description: "Insert, remove and inspect components in a session tree",
		Category:    types.CategoryUI,
		Capabilities: []string{
			"insert",
			"remove",
			"inspect",
			"compile",
		},
		Tools: []types.Tool{
			{
				ID:          "uitree.insert",
				Name:        "Insert Component",
				Description: "Create a component under a parent container",
				Parameters: []types.Parameter{
					{Name: "session_id", Type: "string", Description: "Session (default session if omitted)", Required: false},
					{Name: "parent", Type: "string", Description: "Parent component name", Required: true},
					{Name: "type", Type: "string", Description: "Component type, e.g. Button", Required: true},
					{Name: "name", Type: "string", Description: "Unique component name", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "uitree.remove",
				Name:        "Remove Component",
				Description: "Detach a component and its subtree",
				Parameters: []types.Parameter{
					{Name: "session_id", Type: "string", Description: "Session (default session if omitted)", Required: false},
					{Name: "name", Type: "string", Description: "Component name", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "uitree.spec",
				Name:        "Compile UISpec",
				Description: "Project the session tree as a render-ready UISpec",
				Parameters: []types.Parameter{
					{Name: "session_id", Type: "string", Description: "Session (default session if omitted)", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "uitree.stats",
				Name:        "Tree Stats",
				Description: "Component count and modification state",
				Parameters: []types.Parameter{
					{Name: "session_id", Type: "string", Description: "Session (default session if omitted)", Required: false},
				},
				Returns: "object",
			},
		},
	}
}

// Execute runs a tree operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, opCtx *types.Context) (*types.Result, error) {
	sess, ok := p.sessions.Resolve(optString(params, "session_id"))
	if !ok {
		return failure(fmt.Sprintf("session not found: %s", optString(params, "session_id")))
	}

	switch toolID {
	case "uitree.insert":
		return p.insert(sess, params)
	case "uitree.remove":
		return p.remove(sess, params)
	case "uitree.spec":
		return p.spec(sess)
	case "uitree.stats":
		return success(map[string]interface{}{
			"components": sess.Tree.Count(),
			"modified":   sess.Tree.Modified(),
		})
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) insert(sess *session.Session, params map[string]interface{}) (*types.Result, error) {
	parent, _ := params["parent"].(string)
	typeName, _ := params["type"].(string)
	name, _ := params["name"].(string)
	if parent == "" || typeName == "" || name == "" {
		return failure("parent, type and name parameters required")
	}

	cmp, err := sess.Tree.Insert(parent, typeName, name)
	if err != nil {
		return failure(err.Error())
	}
	p.structuralChange(sess)

	p.logger.Info("component inserted",
		zap.String("session_id", sess.ID.String()),
		zap.String("type", typeName),
		zap.String("name", name),
	)

	return success(map[string]interface{}{
		"id":     cmp.ID.String(),
		"type":   cmp.Type,
		"name":   cmp.Name,
		"parent": parent,
	})
}

func (p *Provider) remove(sess *session.Session, params map[string]interface{}) (*types.Result, error) {
	name, _ := params["name"].(string)
	if name == "" {
		return failure("name parameter required")
	}

	if !sess.Tree.Remove(name) {
		return failure(fmt.Sprintf("component not found or is the root: %s", name))
	}
	p.structuralChange(sess)

	p.logger.Info("component removed",
		zap.String("session_id", sess.ID.String()),
		zap.String("name", name),
	)

	return success(map[string]interface{}{
		"removed":    name,
		"components": sess.Tree.Count(),
	})
}

func (p *Provider) spec(sess *session.Session) (*types.Result, error) {
	spec := p.compiler.Compile(sess.Tree)
	if p.metrics != nil {
		p.metrics.IncCompiles()
	}
	return success(map[string]interface{}{"uispec": spec})
}

func (p *Provider) structuralChange(sess *session.Session) {
	sess.Tree.MarkModified()
	if p.metrics != nil {
		p.metrics.SetComponentsActive(totalComponents(p.sessions))
	}
	if p.notifier != nil {
		p.notifier.NotifyStructuralChange(sess.ID.String())
	}
}

func totalComponents(sessions *session.Manager) int {
	n := 0
	for _, s := range sessions.List() {
		n += s.Tree.Count()
	}
	return n
}

func optString(params map[string]interface{}, key string) string {
	s, _ := params[key].(string)
	return s
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	return &types.Result{Success: false, Error: &message}, nil
}
