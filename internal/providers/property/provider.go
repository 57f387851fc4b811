// Package property exposes the property path engine as a service provider:
// two tools, property.get and property.set, addressing any field of any
// component by textual path.
package property

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mosaicui/mosaic/backend/internal/domain/component"
	engine "github.com/mosaicui/mosaic/backend/internal/domain/property"
	"github.com/mosaicui/mosaic/backend/internal/domain/session"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/logging"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/monitoring"
	"github.com/mosaicui/mosaic/backend/internal/shared/types"
	"github.com/mosaicui/mosaic/backend/internal/shared/wire"
)

// Notifier receives structural-change signals so dependent views and
// compiled UISpecs can refresh.
type Notifier interface {
	NotifyStructuralChange(sessionID string)
}

// Provider implements the property service
type Provider struct {
	engine   *engine.Engine
	sessions *session.Manager
	notifier Notifier
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// NewProvider creates a property provider
func NewProvider(eng *engine.Engine, sessions *session.Manager, logger *logging.Logger) *Provider {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Provider{engine: eng, sessions: sessions, logger: logger.Named("property")}
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
		ID:          "property",
		Name:        "Property Service",
		Description: "Resolve, read and mutate component properties by path",
		Category:    types.CategoryUI,
		Capabilities: []string{
			"get",
			"set",
			"collections",
			"slot_properties",
		},
		Tools: []types.Tool{
			{
				ID:          "property.get",
				Name:        "Get Property",
				Description: "Read a component property by path",
				Parameters: []types.Parameter{
					{Name: "session_id", Type: "string", Description: "Session (default session if omitted)", Required: false},
					{Name: "component", Type: "string", Description: "Component name", Required: true},
					{Name: "path", Type: "string", Description: "Property path, e.g. Color.R or Slot.Position", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "property.set",
				Name:        "Set Property",
				Description: "Write a component property by path, optionally as a collection operation",
				Parameters: []types.Parameter{
					{Name: "session_id", Type: "string", Description: "Session (default session if omitted)", Required: false},
					{Name: "component", Type: "string", Description: "Component name", Required: true},
					{Name: "path", Type: "string", Description: "Property path", Required: true},
					{Name: "value", Type: "any", Description: "Wire value or string", Required: false},
					{Name: "op", Type: "string", Description: "Collection operation: clear, set, append, insert, updateAt, removeAt", Required: false},
					{Name: "index", Type: "number", Description: "Element index for insert/updateAt/removeAt", Required: false},
				},
				Returns: "object",
			},
		},
	}
}

// Execute runs a property operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, opCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "property.get":
		return p.get(params)
	case "property.set":
		return p.set(params)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) get(params map[string]interface{}) (*types.Result, error) {
	cmp, path, res, err := p.locate(params)
	if res != nil || err != nil {
		return res, err
	}

	timer := p.timer("get")
	result, engErr := p.engine.Get(cmp, path)
	if engErr != nil {
		timer.stop("error")
		return engineFailure(engErr)
	}
	timer.stop("ok")

	data := map[string]interface{}{
		"value":                result.Value.Interface(),
		"property_type":        result.PropertyType,
		"is_editable":          result.Editable,
		"is_synthetic_ordering": result.SyntheticOrdering,
	}
	if result.Constraints != nil {
		data["constraints"] = result.Constraints
	}
	if result.Schema != nil {
		data["schema"] = result.Schema
	}
	return success(data)
}

func (p *Provider) set(params map[string]interface{}) (*types.Result, error) {
	cmp, path, res, err := p.locate(params)
	if res != nil || err != nil {
		return res, err
	}

	sess, _ := p.sessions.Resolve(optString(params, "session_id"))

	value := wire.FromJSON(params["value"])
	op, opErr := collectionOp(params)
	if opErr != nil {
		return engineFailure(opErr)
	}

	timer := p.timer("set")
	result, engErr := p.engine.Set(cmp, path, value, op)
	if engErr != nil {
		timer.stop("error")
		return engineFailure(engErr)
	}
	timer.stop("ok")

	sess.Tree.MarkModified()
	if result.StructuralChange && p.notifier != nil {
		p.notifier.NotifyStructuralChange(sess.ID.String())
	}

	p.logger.Debug("property set",
		zap.String("component", cmp.Name),
		zap.String("path", path),
		zap.Bool("structural", result.StructuralChange),
	)

	return success(map[string]interface{}{
		"applied_value":     result.Applied.Interface(),
		"structural_change": result.StructuralChange,
		"note":              result.Note,
	})
}

// locate finds the addressed component. A non-nil Result short-circuits with
// a boundary failure.
func (p *Provider) locate(params map[string]interface{}) (*component.Component, string, *types.Result, error) {
	name, ok := params["component"].(string)
	if !ok || name == "" {
		res, err := failure("component parameter required")
		return nil, "", res, err
	}
	path, ok := params["path"].(string)
	if !ok || path == "" {
		res, err := failure("path parameter required")
		return nil, "", res, err
	}

	sess, ok := p.sessions.Resolve(optString(params, "session_id"))
	if !ok {
		res, err := failure(fmt.Sprintf("session not found: %s", optString(params, "session_id")))
		return nil, "", res, err
	}
	cmp, ok := sess.Tree.Find(name)
	if !ok {
		res, err := failure(fmt.Sprintf("component not found: %s", name))
		return nil, "", res, err
	}
	return cmp, path, nil, nil
}

func collectionOp(params map[string]interface{}) (*engine.CollectionOp, *engine.Error) {
	raw, ok := params["op"].(string)
	if !ok || raw == "" {
		return nil, nil
	}
	op := &engine.CollectionOp{Op: raw}
	if idx, present := params["index"]; present {
		n, ok := idx.(float64)
		if !ok {
			return nil, engine.Errorf(engine.ErrValueRequired, "index must be a number, got %T", idx)
		}
		i := int(n)
		op.Index = &i
	}
	return op, nil
}

// engineFailure surfaces a typed engine error as result data, kind included
func engineFailure(err *engine.Error) (*types.Result, error) {
	msg := err.Error()
	return &types.Result{
		Success: false,
		Data:    map[string]interface{}{"error_kind": string(err.Kind)},
		Error:   &msg,
	}, nil
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

// timer wraps optional metrics so call sites stay branch-free
type opTimer struct {
	inner *monitoring.Timer
}

func (p *Provider) timer(op string) opTimer {
	if p.metrics == nil {
		return opTimer{}
	}
	return opTimer{inner: monitoring.NewTimer(p.metrics, "property", op)}
}

func (t opTimer) stop(status string) {
	if t.inner != nil {
		t.inner.Stop(status)
	}
}
