package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	t.Run("build and lookup", func(t *testing.T) {
		b := NewBuilder()
		b.Struct("Point", Float("X"), Float("Y"))
		b.Component("Dot", Struct("Center", "Point"))
		cat, err := b.Build()
		require.NoError(t, err)

		st, ok := cat.Struct("Point")
		require.True(t, ok)
		assert.Equal(t, []string{"X", "Y"}, st.FieldNames())

		ct, ok := cat.Component("Dot")
		require.True(t, ok)
		assert.False(t, ct.Container)
	})

	t.Run("duplicate struct fails", func(t *testing.T) {
		b := NewBuilder()
		b.Struct("Point", Float("X"))
		b.Struct("Point", Float("Y"))
		_, err := b.Build()
		assert.Error(t, err)
	})

	t.Run("dangling struct reference fails", func(t *testing.T) {
		b := NewBuilder()
		b.Component("Dot", Struct("Center", "Missing"))
		_, err := b.Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Missing")
	})

	t.Run("nested reference inside collections is validated", func(t *testing.T) {
		b := NewBuilder()
		b.Component("List", Array("Items", Struct("", "Nowhere")))
		_, err := b.Build()
		assert.Error(t, err)
	})
}

func TestFieldLookup(t *testing.T) {
	cat := Builtin()
	st, ok := cat.Struct("Anchors")
	require.True(t, ok)

	t.Run("loose matching", func(t *testing.T) {
		for _, name := range []string{"MinX", "minx", "min_x", "MIN_X"} {
			f, ok := st.Field(name)
			require.True(t, ok, name)
			assert.Equal(t, "MinX", f.Name)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		_, ok := st.Field("MinZ")
		assert.False(t, ok)
	})
}

func TestBuiltinCatalog(t *testing.T) {
	cat := Builtin()

	t.Run("containers carry slot kinds", func(t *testing.T) {
		canvas, ok := cat.Component("CanvasPanel")
		require.True(t, ok)
		assert.True(t, canvas.Container)
		assert.Equal(t, SlotCanvas, canvas.SlotKind)

		box, _ := cat.Component("BoxPanel")
		assert.Equal(t, SlotBox, box.SlotKind)
	})

	t.Run("leaves are not containers", func(t *testing.T) {
		text, ok := cat.Component("Text")
		require.True(t, ok)
		assert.False(t, text.Container)
		assert.Empty(t, text.SlotKind)
	})

	t.Run("canvas slot struct is empty", func(t *testing.T) {
		st, ok := cat.Struct(SlotCanvas)
		require.True(t, ok)
		assert.Empty(t, st.Fields)
	})

	t.Run("enum ordinals follow declaration order", func(t *testing.T) {
		text, _ := cat.Component("Text")
		f, ok := text.Props.Field("Justification")
		require.True(t, ok)
		ev, ok := f.EnumByOrdinal(1)
		require.True(t, ok)
		assert.Equal(t, "Center", ev.Name)
	})
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "Struct(Color)", Struct("Tint", "Color").TypeName())
	assert.Equal(t, "Array(String)", Array("Tags", String("")).TypeName())
	assert.Equal(t, "Set(String)", SetOf("Classes", String("")).TypeName())
	assert.Equal(t, "Map(String,Int)", MapOf("Counts", String(""), Int("")).TypeName())
	assert.Equal(t, "Bool", Bool("Visible").TypeName())
}

func TestZeroValues(t *testing.T) {
	cat := Builtin()

	t.Run("struct instance has zeroed fields", func(t *testing.T) {
		sv := NewStruct(cat, "Color")
		v, ok := sv.Get("R")
		require.True(t, ok)
		assert.Equal(t, 0.0, v)
	})

	t.Run("enum zero is the first member", func(t *testing.T) {
		f := Enum("Weight", "Light", "Regular", "Bold")
		assert.Equal(t, "Light", ZeroValue(cat, f))
	})

	t.Run("collections start empty", func(t *testing.T) {
		assert.Equal(t, []interface{}{}, ZeroValue(cat, Array("Tags", String(""))))
		assert.Equal(t, 0, ZeroValue(cat, SetOf("S", String(""))).(*SetVal).Len())
		assert.Equal(t, 0, ZeroValue(cat, MapOf("M", String(""), Int(""))).(*MapVal).Len())
	})

	t.Run("object ref zero is nil", func(t *testing.T) {
		assert.Nil(t, ZeroValue(cat, Ref("Tooltip")))
	})
}

func TestMapVal(t *testing.T) {
	m := &MapVal{}
	m.Put("a", 1)
	m.Put("b", 2)
	m.Put("a", 3) // replace

	assert.Equal(t, 2, m.Len())
	i, ok := m.Find("a")
	require.True(t, ok)
	assert.Equal(t, 3, m.Entries[i].Value)

	// Insertion order is preserved
	assert.Equal(t, "a", m.Entries[0].Key)
	assert.Equal(t, "b", m.Entries[1].Key)
}
