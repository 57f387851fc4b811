package unit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaicui/mosaic/backend/internal/domain/blueprint"
	"github.com/mosaicui/mosaic/backend/internal/domain/meta"
	"github.com/mosaicui/mosaic/backend/internal/domain/property"
	"github.com/mosaicui/mosaic/backend/internal/domain/session"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/logging"
	"github.com/mosaicui/mosaic/backend/internal/providers/uitree"
	"github.com/mosaicui/mosaic/backend/internal/shared/types"
	"github.com/mosaicui/mosaic/backend/tests/helpers/testutil"
)

func newTreeProvider(t *testing.T) (*uitree.Provider, *session.Manager, *notifyRecorder) {
	t.Helper()
	cat := meta.Builtin()
	sessions := session.NewManager(cat, logging.NewNop())
	compiler := blueprint.NewCompiler(property.NewEngine(cat), logging.NewNop())
	rec := &notifyRecorder{}
	p := uitree.NewProvider(sessions, compiler, logging.NewNop()).WithNotifier(rec)
	return p, sessions, rec
}

func execTree(t *testing.T, p *uitree.Provider, toolID string, params map[string]interface{}) *types.Result {
	t.Helper()
	result, err := p.Execute(context.Background(), toolID, params, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestTreeInsert(t *testing.T) {
	p, sessions, rec := newTreeProvider(t)

	t.Run("creates a component and notifies", func(t *testing.T) {
		result := execTree(t, p, "uitree.insert", map[string]interface{}{
			"parent": "Root",
			"type":   "Button",
			"name":   "Submit",
		})
		testutil.AssertSuccess(t, result)
		assert.Equal(t, "Button", result.Data["type"])
		assert.Equal(t, "Submit", result.Data["name"])
		assert.Equal(t, "Root", result.Data["parent"])
		assert.NotEmpty(t, result.Data["id"])

		require.Len(t, rec.calls, 1)
		assert.Equal(t, sessions.Default().ID.String(), rec.calls[0])
	})

	t.Run("missing parameters", func(t *testing.T) {
		result := execTree(t, p, "uitree.insert", map[string]interface{}{"type": "Button"})
		testutil.AssertError(t, result)
		assert.Contains(t, *result.Error, "required")
	})

	t.Run("invalid parent surfaces the tree error", func(t *testing.T) {
		result := execTree(t, p, "uitree.insert", map[string]interface{}{
			"parent": "Nowhere",
			"type":   "Button",
			"name":   "Lost",
		})
		testutil.AssertError(t, result)
		assert.Contains(t, *result.Error, "not found")
	})

	t.Run("duplicate name", func(t *testing.T) {
		result := execTree(t, p, "uitree.insert", map[string]interface{}{
			"parent": "Root",
			"type":   "Text",
			"name":   "Submit",
		})
		testutil.AssertError(t, result)
	})
}

func TestTreeRemove(t *testing.T) {
	p, _, rec := newTreeProvider(t)
	execTree(t, p, "uitree.insert", map[string]interface{}{
		"parent": "Root", "type": "BoxPanel", "name": "Side",
	})
	execTree(t, p, "uitree.insert", map[string]interface{}{
		"parent": "Side", "type": "Image", "name": "Logo",
	})

	t.Run("removes the subtree and reports the count", func(t *testing.T) {
		before := len(rec.calls)
		result := execTree(t, p, "uitree.remove", map[string]interface{}{"name": "Side"})
		testutil.AssertSuccess(t, result)
		assert.Equal(t, "Side", result.Data["removed"])
		assert.Equal(t, 1, result.Data["components"])
		assert.Len(t, rec.calls, before+1)
	})

	t.Run("root is protected", func(t *testing.T) {
		result := execTree(t, p, "uitree.remove", map[string]interface{}{"name": "Root"})
		testutil.AssertError(t, result)
	})

	t.Run("name required", func(t *testing.T) {
		result := execTree(t, p, "uitree.remove", map[string]interface{}{})
		testutil.AssertError(t, result)
	})
}

func TestTreeSpec(t *testing.T) {
	p, _, _ := newTreeProvider(t)
	execTree(t, p, "uitree.insert", map[string]interface{}{
		"parent": "Root", "type": "Text", "name": "Title",
	})

	result := execTree(t, p, "uitree.spec", map[string]interface{}{})
	testutil.AssertSuccess(t, result)

	spec := result.Data["uispec"].(map[string]interface{})
	assert.Equal(t, "Root", spec["name"])
	children := spec["children"].([]interface{})
	require.Len(t, children, 1)
	assert.Equal(t, "Title", children[0].(map[string]interface{})["name"])
}

func TestTreeStats(t *testing.T) {
	p, _, _ := newTreeProvider(t)

	result := execTree(t, p, "uitree.stats", map[string]interface{}{})
	testutil.AssertSuccess(t, result)
	assert.Equal(t, 1, result.Data["components"])
	assert.Equal(t, false, result.Data["modified"])

	execTree(t, p, "uitree.insert", map[string]interface{}{
		"parent": "Root", "type": "Slider", "name": "Volume",
	})

	result = execTree(t, p, "uitree.stats", map[string]interface{}{})
	assert.Equal(t, 2, result.Data["components"])
	assert.Equal(t, true, result.Data["modified"])
}

func TestTreeBoundary(t *testing.T) {
	p, sessions, _ := newTreeProvider(t)

	t.Run("unknown session", func(t *testing.T) {
		result := execTree(t, p, "uitree.stats", map[string]interface{}{
			"session_id": "sess_missing",
		})
		testutil.AssertError(t, result)
		assert.Contains(t, *result.Error, "session not found")
	})

	t.Run("explicit session routing", func(t *testing.T) {
		other := sessions.Create("other")
		result := execTree(t, p, "uitree.insert", map[string]interface{}{
			"session_id": other.ID.String(),
			"parent":     "Root",
			"type":       "Text",
			"name":       "Elsewhere",
		})
		testutil.AssertSuccess(t, result)

		_, found := sessions.Default().Tree.Find("Elsewhere")
		assert.False(t, found)
	})

	t.Run("unknown tool", func(t *testing.T) {
		result := execTree(t, p, "uitree.move", map[string]interface{}{})
		testutil.AssertError(t, result)
	})
}

func TestTreeDefinition(t *testing.T) {
	p, _, _ := newTreeProvider(t)
	def := p.Definition()

	assert.Equal(t, "uitree", def.ID)
	assert.Equal(t, types.CategoryUI, def.Category)
	require.Len(t, def.Tools, 4)
}
