package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaicui/mosaic/backend/internal/domain/meta"
	"github.com/mosaicui/mosaic/backend/internal/shared/wire"
)

func TestEngineGet(t *testing.T) {
	cat := meta.Builtin()
	eng := NewEngine(cat)
	tree := fixtureTree(t, cat)
	title, _ := tree.Find("Title")

	t.Run("default value and type", func(t *testing.T) {
		res, err := eng.Get(title, "Visible")
		require.Nil(t, err)
		assert.Equal(t, false, res.Value.Interface())
		assert.Equal(t, "Bool", res.PropertyType)
		assert.True(t, res.Editable)
		assert.False(t, res.SyntheticOrdering)
	})

	t.Run("enum constraints ride along", func(t *testing.T) {
		res, err := eng.Get(title, "Justification")
		require.Nil(t, err)
		require.NotNil(t, res.Constraints)
		assert.Equal(t, []string{"Left", "Center", "Right"}, res.Constraints["enum_values"])
	})

	t.Run("bounded numeric constraints", func(t *testing.T) {
		res, err := eng.Get(title, "Color.R")
		require.Nil(t, err)
		require.NotNil(t, res.Constraints)
		assert.Equal(t, 0.0, res.Constraints["min"])
		assert.Equal(t, 1.0, res.Constraints["max"])
	})

	t.Run("struct schema lists fields", func(t *testing.T) {
		res, err := eng.Get(title, "Font")
		require.Nil(t, err)
		require.NotNil(t, res.Schema)
		assert.Equal(t, "FontInfo", res.Schema["type"])
		fields := res.Schema["fields"].(map[string]interface{})
		assert.Equal(t, "Int", fields["Size"])
	})

	t.Run("array length constraint", func(t *testing.T) {
		title.Props.Set("Tags", []interface{}{"a", "b"})
		res, err := eng.Get(title, "Tags")
		require.Nil(t, err)
		assert.Equal(t, 2, res.Constraints["length"])
	})

	t.Run("slot accessor read", func(t *testing.T) {
		res, err := eng.Get(title, "Slot.Size")
		require.Nil(t, err)
		assert.Equal(t, "Struct(Vector2)", res.PropertyType)
		obj := res.Value.Interface().(map[string]interface{})
		assert.Equal(t, 100.0, obj["x"])
		assert.Equal(t, 40.0, obj["y"])
	})

	t.Run("ordering read", func(t *testing.T) {
		res, err := eng.Get(title, "Slot.Order")
		require.Nil(t, err)
		assert.True(t, res.SyntheticOrdering)
		assert.Equal(t, "Int", res.PropertyType)
		assert.Equal(t, 0.0, res.Value.Interface())
	})

	t.Run("ordering on the root is not applicable", func(t *testing.T) {
		_, err := eng.Get(tree.Root, "Slot.Order")
		require.NotNil(t, err)
		assert.Equal(t, ErrNoSlot, err.Kind)
	})

	t.Run("read-only field reports not editable", func(t *testing.T) {
		imgTree := fixtureTree(t, cat)
		img, insErr := imgTree.Insert("Root", "Image", "Pic")
		require.NoError(t, insErr)
		res, err := eng.Get(img, "DesiredSize")
		require.Nil(t, err)
		assert.False(t, res.Editable)
	})
}

func TestEngineSet(t *testing.T) {
	cat := meta.Builtin()
	eng := NewEngine(cat)

	t.Run("scalar write", func(t *testing.T) {
		tree := fixtureTree(t, cat)
		title, _ := tree.Find("Title")
		res, err := eng.Set(title, "Text", wire.S("Hello"), nil)
		require.Nil(t, err)
		assert.Equal(t, "Hello", res.Applied.Interface())
		assert.False(t, res.StructuralChange)
		v, _ := title.Props.Get("Text")
		assert.Equal(t, "Hello", v)
	})

	t.Run("nested struct field write", func(t *testing.T) {
		tree := fixtureTree(t, cat)
		title, _ := tree.Find("Title")
		_, err := eng.Set(title, "DropShadow.Tint", wire.S("#336699"), nil)
		require.Nil(t, err)
		res, err := eng.Get(title, "DropShadow.Tint.G")
		require.Nil(t, err)
		assert.InDelta(t, 0x66/255.0, res.Value.Num, 1e-9)
	})

	t.Run("failed coercion leaves the field unchanged", func(t *testing.T) {
		tree := fixtureTree(t, cat)
		title, _ := tree.Find("Title")
		_, err := eng.Set(title, "Justification", wire.S("Sideways"), nil)
		require.NotNil(t, err)
		assert.Equal(t, ErrInvalidEnumValue, err.Kind)
		v, _ := title.Props.Get("Justification")
		assert.Equal(t, "Left", v)
	})

	t.Run("read-only field is rejected", func(t *testing.T) {
		tree := fixtureTree(t, cat)
		img, insErr := tree.Insert("Root", "Image", "Pic")
		require.NoError(t, insErr)
		_, err := eng.Set(img, "DesiredSize", wire.A(wire.N(1), wire.N(2)), nil)
		require.NotNil(t, err)
		assert.Equal(t, ErrNotApplicable, err.Kind)
	})

	t.Run("slot accessor write round-trips", func(t *testing.T) {
		tree := fixtureTree(t, cat)
		title, _ := tree.Find("Title")
		res, err := eng.Set(title, "Slot.Position", wire.A(wire.N(25), wire.N(75)), nil)
		require.Nil(t, err)
		assert.False(t, res.StructuralChange)

		x, y := title.Slot.Position()
		assert.Equal(t, 25.0, x)
		assert.Equal(t, 75.0, y)
	})

	t.Run("anchors accept loose wire keys", func(t *testing.T) {
		tree := fixtureTree(t, cat)
		title, _ := tree.Find("Title")
		_, err := eng.Set(title, "Slot.Anchors", wire.O(map[string]wire.Value{
			"min_x": wire.N(0.1), "min_y": wire.N(0.2),
			"max_x": wire.N(0.9), "max_y": wire.N(0.8),
		}), nil)
		require.Nil(t, err)
		minX, minY, maxX, maxY := title.Slot.Anchors()
		assert.Equal(t, []float64{0.1, 0.2, 0.9, 0.8}, []float64{minX, minY, maxX, maxY})
	})

	t.Run("ordering write reorders siblings", func(t *testing.T) {
		tree := fixtureTree(t, cat)
		title, _ := tree.Find("Title")
		grid, _ := tree.Find("GridBox")
		require.Equal(t, 0, title.Index())

		res, err := eng.Set(title, "Slot.Order", wire.N(1), nil)
		require.Nil(t, err)
		assert.True(t, res.StructuralChange)
		assert.Equal(t, 1.0, res.Applied.Interface())
		assert.Equal(t, 1, title.Index())
		assert.Equal(t, 0, grid.Index())
	})

	t.Run("ordering clamps out-of-range positions", func(t *testing.T) {
		tree := fixtureTree(t, cat)
		title, _ := tree.Find("Title")
		res, err := eng.Set(title, "Slot.Order", wire.N(99), nil)
		require.Nil(t, err)
		assert.Equal(t, 1.0, res.Applied.Interface())
		assert.True(t, res.StructuralChange)
	})

	t.Run("collection op through the engine", func(t *testing.T) {
		tree := fixtureTree(t, cat)
		title, _ := tree.Find("Title")
		res, err := eng.Set(title, "Tags", wire.A(wire.S("x")), &CollectionOp{Op: OpAppend})
		require.Nil(t, err)
		assert.Contains(t, res.Note, "appended")
		applied := res.Applied.Interface().([]interface{})
		assert.Equal(t, []interface{}{"x"}, applied)
	})

	t.Run("array element write", func(t *testing.T) {
		tree := fixtureTree(t, cat)
		title, _ := tree.Find("Title")
		title.Props.Set("Tags", []interface{}{"a", "b"})
		_, err := eng.Set(title, "Tags[0]", wire.S("A"), nil)
		require.Nil(t, err)
		v, _ := title.Props.Get("Tags")
		assert.Equal(t, []interface{}{"A", "b"}, v)
	})

	t.Run("map value write", func(t *testing.T) {
		tree := fixtureTree(t, cat)
		title, _ := tree.Find("Title")
		title.Props.Set("Metadata", &meta.MapVal{Entries: []meta.MapEntry{{Key: "author", Value: "sam"}}})
		_, err := eng.Set(title, "Metadata[author]", wire.S("kim"), nil)
		require.Nil(t, err)
		res, err := eng.Get(title, "Metadata[author]")
		require.Nil(t, err)
		assert.Equal(t, "kim", res.Value.Interface())
	})
}
