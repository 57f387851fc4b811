package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaicui/mosaic/backend/internal/domain/meta"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/logging"
)

func newTree(t *testing.T) *Tree {
	t.Helper()
	return NewTree(meta.Builtin(), logging.NewNop())
}

func TestNewTree(t *testing.T) {
	tree := newTree(t)

	require.NotNil(t, tree.Root)
	assert.Equal(t, "CanvasPanel", tree.Root.Type)
	assert.Equal(t, "Root", tree.Root.Name)
	assert.Nil(t, tree.Root.Slot)
	assert.Nil(t, tree.Root.Parent())
	assert.Equal(t, 1, tree.Count())
	assert.False(t, tree.Modified())
}

func TestInsert(t *testing.T) {
	t.Run("child receives the parent's slot kind", func(t *testing.T) {
		tree := newTree(t)
		btn, err := tree.Insert("Root", "Button", "Submit")
		require.NoError(t, err)
		require.NotNil(t, btn.Slot)
		assert.Equal(t, meta.SlotCanvas, btn.Slot.Kind)

		box, err := tree.Insert("Root", "BoxPanel", "Side")
		require.NoError(t, err)
		img, err := tree.Insert("Side", "Image", "Logo")
		require.NoError(t, err)
		assert.Equal(t, meta.SlotBox, img.Slot.Kind)
		assert.Equal(t, box, img.Parent())
	})

	t.Run("marks the tree modified", func(t *testing.T) {
		tree := newTree(t)
		_, err := tree.Insert("Root", "Text", "Title")
		require.NoError(t, err)
		assert.True(t, tree.Modified())
	})

	t.Run("unknown parent", func(t *testing.T) {
		tree := newTree(t)
		_, err := tree.Insert("Nowhere", "Button", "B")
		assert.Error(t, err)
	})

	t.Run("leaf cannot hold children", func(t *testing.T) {
		tree := newTree(t)
		_, err := tree.Insert("Root", "Text", "Title")
		require.NoError(t, err)
		_, err = tree.Insert("Title", "Button", "B")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot hold children")
	})

	t.Run("unknown type", func(t *testing.T) {
		tree := newTree(t)
		_, err := tree.Insert("Root", "Hologram", "H")
		assert.Error(t, err)
	})

	t.Run("duplicate name", func(t *testing.T) {
		tree := newTree(t)
		_, err := tree.Insert("Root", "Button", "Same")
		require.NoError(t, err)
		_, err = tree.Insert("Root", "Text", "Same")
		assert.Error(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		tree := newTree(t)
		_, err := tree.Insert("Root", "Button", "")
		assert.Error(t, err)
	})
}

func TestRemove(t *testing.T) {
	t.Run("removes the subtree", func(t *testing.T) {
		tree := newTree(t)
		_, err := tree.Insert("Root", "BoxPanel", "Side")
		require.NoError(t, err)
		_, err = tree.Insert("Side", "Image", "Logo")
		require.NoError(t, err)
		require.Equal(t, 3, tree.Count())

		assert.True(t, tree.Remove("Side"))
		assert.Equal(t, 1, tree.Count())
		_, found := tree.Find("Logo")
		assert.False(t, found)
		assert.Empty(t, tree.Root.Children)
	})

	t.Run("detached components lose slot and parent", func(t *testing.T) {
		tree := newTree(t)
		btn, err := tree.Insert("Root", "Button", "B")
		require.NoError(t, err)
		require.True(t, tree.Remove("B"))
		assert.Nil(t, btn.Slot)
		assert.Nil(t, btn.Parent())
	})

	t.Run("root cannot be removed", func(t *testing.T) {
		tree := newTree(t)
		assert.False(t, tree.Remove("Root"))
	})

	t.Run("unknown name", func(t *testing.T) {
		tree := newTree(t)
		assert.False(t, tree.Remove("Ghost"))
	})
}

func TestReorder(t *testing.T) {
	tree := newTree(t)
	names := []string{"A", "B", "C"}
	for _, n := range names {
		_, err := tree.Insert("Root", "Button", n)
		require.NoError(t, err)
	}
	a, _ := tree.Find("A")
	c, _ := tree.Find("C")

	t.Run("moves within siblings", func(t *testing.T) {
		final := a.Reorder(2)
		assert.Equal(t, 2, final)
		assert.Equal(t, 0, childIndex(tree, "B"))
		assert.Equal(t, 2, childIndex(tree, "A"))
	})

	t.Run("clamps negative to zero", func(t *testing.T) {
		final := c.Reorder(-5)
		assert.Equal(t, 0, final)
		assert.Equal(t, 0, childIndex(tree, "C"))
	})

	t.Run("clamps beyond length to the end", func(t *testing.T) {
		final := c.Reorder(99)
		assert.Equal(t, 2, final)
	})

	t.Run("root cannot be reordered", func(t *testing.T) {
		assert.Equal(t, -1, tree.Root.Reorder(0))
	})
}

func childIndex(tree *Tree, name string) int {
	c, _ := tree.Find(name)
	return c.Index()
}

func TestWalk(t *testing.T) {
	tree := newTree(t)
	_, err := tree.Insert("Root", "BoxPanel", "Side")
	require.NoError(t, err)
	_, err = tree.Insert("Side", "Image", "Logo")
	require.NoError(t, err)

	var visited []string
	tree.Root.Walk(func(c *Component) bool {
		visited = append(visited, c.Name)
		return true
	})
	assert.Equal(t, []string{"Root", "Side", "Logo"}, visited)

	// Early stop
	visited = nil
	tree.Root.Walk(func(c *Component) bool {
		visited = append(visited, c.Name)
		return c.Name != "Side"
	})
	assert.Equal(t, []string{"Root", "Side"}, visited)
}

func TestModifiedFlag(t *testing.T) {
	tree := newTree(t)
	_, err := tree.Insert("Root", "Button", "B")
	require.NoError(t, err)
	require.True(t, tree.Modified())

	tree.ClearModified()
	assert.False(t, tree.Modified())

	tree.MarkModified()
	assert.True(t, tree.Modified())
}

func TestSlotDefaults(t *testing.T) {
	tree := newTree(t)
	btn, err := tree.Insert("Root", "Button", "B")
	require.NoError(t, err)

	x, y := btn.Slot.Size()
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 40.0, y)
	assert.True(t, btn.Slot.IsCanvas())
	assert.False(t, btn.Slot.AutoSize())
	assert.Equal(t, int64(0), btn.Slot.ZOrder())
}
