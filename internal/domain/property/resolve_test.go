package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaicui/mosaic/backend/internal/domain/component"
	"github.com/mosaicui/mosaic/backend/internal/domain/meta"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/logging"
)

// fixture builds Root(CanvasPanel) > {Title(Text), Submit(Button),
// Sidebar(BoxPanel) > Logo(Image)}.
func fixture(t *testing.T) (*meta.Catalog, *component.Tree) {
	t.Helper()
	cat := meta.Builtin()
	tree := component.NewTree(cat, logging.NewNop())
	for _, ins := range []struct{ parent, typ, name string }{
		{"Root", "Text", "Title"},
		{"Root", "Button", "Submit"},
		{"Root", "BoxPanel", "Sidebar"},
		{"Sidebar", "Image", "Logo"},
	} {
		_, err := tree.Insert(ins.parent, ins.typ, ins.name)
		require.NoError(t, err)
	}
	return cat, tree
}

func resolvePath(t *testing.T, cat *meta.Catalog, c *component.Component, path string) (*Target, *Error) {
	t.Helper()
	slotRooted, segs, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return Resolve(cat, c, slotRooted, segs)
}

func TestResolveFields(t *testing.T) {
	cat, tree := fixture(t)
	title, _ := tree.Find("Title")
	submit, _ := tree.Find("Submit")

	t.Run("top level field", func(t *testing.T) {
		tgt, err := resolvePath(t, cat, submit, "Label")
		require.Nil(t, err)
		assert.Equal(t, "Label", tgt.Field.Name)
		assert.Equal(t, submit.Props, tgt.Container)
		assert.Equal(t, submit, tgt.Owner)
	})

	t.Run("loose name matching", func(t *testing.T) {
		tgt, err := resolvePath(t, cat, title, "drop_shadow.tint.r")
		require.Nil(t, err)
		assert.Equal(t, "R", tgt.Field.Name)
	})

	t.Run("nested struct descent", func(t *testing.T) {
		tgt, err := resolvePath(t, cat, title, "DropShadow.Tint.R")
		require.Nil(t, err)
		assert.Equal(t, "R", tgt.Field.Name)
		assert.Equal(t, "Color", tgt.Container.Type)
	})

	t.Run("unknown property", func(t *testing.T) {
		_, err := resolvePath(t, cat, submit, "Nonexistent")
		require.NotNil(t, err)
		assert.Equal(t, ErrPropertyNotFound, err.Kind)
	})

	t.Run("scalar is not traversable", func(t *testing.T) {
		_, err := resolvePath(t, cat, submit, "Enabled.Anything")
		require.NotNil(t, err)
		assert.Equal(t, ErrNotTraversable, err.Kind)
	})

	t.Run("null reference traversal", func(t *testing.T) {
		_, err := resolvePath(t, cat, submit, "Tooltip.Label")
		require.NotNil(t, err)
		assert.Equal(t, ErrNullReference, err.Kind)
	})

	t.Run("reference traversal follows the target", func(t *testing.T) {
		submit.Props.Set("Tooltip", title)
		tgt, err := resolvePath(t, cat, submit, "Tooltip.Text")
		require.Nil(t, err)
		assert.Equal(t, title, tgt.Owner)
		assert.Equal(t, "Text", tgt.Field.Name)
		submit.Props.Set("Tooltip", nil)
	})
}

func TestResolveCollections(t *testing.T) {
	cat, tree := fixture(t)
	title, _ := tree.Find("Title")
	submit, _ := tree.Find("Submit")

	title.Props.Set("Tags", []interface{}{"alpha", "beta"})
	title.Props.Set("Metadata", &meta.MapVal{Entries: []meta.MapEntry{
		{Key: "author", Value: "sam"},
		{Key: "42", Value: "answer"},
	}})

	t.Run("array element", func(t *testing.T) {
		tgt, err := resolvePath(t, cat, title, "Tags[1]")
		require.Nil(t, err)
		require.NotNil(t, tgt.Elem)
		assert.Equal(t, "beta", tgt.Elem.Load())
	})

	t.Run("array index out of range reports length", func(t *testing.T) {
		_, err := resolvePath(t, cat, title, "Tags[5]")
		require.NotNil(t, err)
		assert.Equal(t, ErrIndexOutOfRange, err.Kind)
		assert.Contains(t, err.Message, "length 2")
	})

	t.Run("array addressed by key fails", func(t *testing.T) {
		_, err := resolvePath(t, cat, title, "Tags[first]")
		require.NotNil(t, err)
		assert.Equal(t, ErrNotTraversable, err.Kind)
	})

	t.Run("map key", func(t *testing.T) {
		tgt, err := resolvePath(t, cat, title, "Metadata[author]")
		require.Nil(t, err)
		require.NotNil(t, tgt.Elem)
		assert.Equal(t, "sam", tgt.Elem.Load())
	})

	t.Run("numeric token on a map is key text", func(t *testing.T) {
		tgt, err := resolvePath(t, cat, title, "Metadata[42]")
		require.Nil(t, err)
		assert.Equal(t, "answer", tgt.Elem.Load())
	})

	t.Run("missing map key", func(t *testing.T) {
		_, err := resolvePath(t, cat, title, "Metadata[missing]")
		require.NotNil(t, err)
		assert.Equal(t, ErrKeyNotFound, err.Kind)
	})

	t.Run("set element access is rejected", func(t *testing.T) {
		_, err := resolvePath(t, cat, submit, "Classes[0]")
		require.NotNil(t, err)
		assert.Equal(t, ErrNotTraversable, err.Kind)
	})

	t.Run("element access on a scalar", func(t *testing.T) {
		_, err := resolvePath(t, cat, submit, "Label[0]")
		require.NotNil(t, err)
		assert.Equal(t, ErrNotTraversable, err.Kind)
	})
}

func TestResolveSlot(t *testing.T) {
	cat, tree := fixture(t)
	title, _ := tree.Find("Title")
	logo, _ := tree.Find("Logo")

	t.Run("root has no slot", func(t *testing.T) {
		_, err := resolvePath(t, cat, tree.Root, "Slot.Position")
		require.NotNil(t, err)
		assert.Equal(t, ErrNoSlot, err.Kind)
	})

	t.Run("canvas accessor", func(t *testing.T) {
		tgt, err := resolvePath(t, cat, title, "Slot.Position")
		require.Nil(t, err)
		require.NotNil(t, tgt.Accessor)
		assert.Equal(t, "Position", tgt.Accessor.Name)
		assert.NotNil(t, tgt.Slot)
	})

	t.Run("accessor lookup is case-insensitive", func(t *testing.T) {
		tgt, err := resolvePath(t, cat, title, "Slot.position")
		require.Nil(t, err)
		require.NotNil(t, tgt.Accessor)
	})

	t.Run("accessor is terminal only", func(t *testing.T) {
		_, err := resolvePath(t, cat, title, "Slot.Position.X")
		require.NotNil(t, err)
		assert.Equal(t, ErrNotTraversable, err.Kind)
	})

	t.Run("ordering pseudo-property", func(t *testing.T) {
		tgt, err := resolvePath(t, cat, title, "Slot.Order")
		require.Nil(t, err)
		assert.True(t, tgt.SyntheticOrdering)
	})

	t.Run("ordering is terminal only", func(t *testing.T) {
		_, err := resolvePath(t, cat, title, "Slot.Order.Something")
		require.NotNil(t, err)
		assert.Equal(t, ErrNotTraversable, err.Kind)
	})

	t.Run("box slot plain field", func(t *testing.T) {
		tgt, err := resolvePath(t, cat, logo, "Slot.FillWeight")
		require.Nil(t, err)
		assert.Equal(t, "FillWeight", tgt.Field.Name)
		assert.Nil(t, tgt.Accessor)
	})

	t.Run("box slot nested struct", func(t *testing.T) {
		tgt, err := resolvePath(t, cat, logo, "Slot.Padding.Left")
		require.Nil(t, err)
		assert.Equal(t, "Left", tgt.Field.Name)
	})

	t.Run("canvas accessor on a box slot", func(t *testing.T) {
		_, err := resolvePath(t, cat, logo, "Slot.Position")
		require.NotNil(t, err)
		assert.Equal(t, ErrNotApplicable, err.Kind)
		assert.Contains(t, err.Message, "FillWeight")
	})

	t.Run("unknown slot property lists candidates", func(t *testing.T) {
		_, err := resolvePath(t, cat, title, "Slot.Wobble")
		require.NotNil(t, err)
		assert.Equal(t, ErrPropertyNotFound, err.Kind)
		assert.Contains(t, err.Message, "Position")
		assert.Contains(t, err.Message, "Order")
	})

	t.Run("ordering on the box slot too", func(t *testing.T) {
		tgt, err := resolvePath(t, cat, logo, "Slot.Order")
		require.Nil(t, err)
		assert.True(t, tgt.SyntheticOrdering)
	})
}
