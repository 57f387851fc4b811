package component

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mosaicui/mosaic/backend/internal/domain/meta"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/logging"
	"github.com/mosaicui/mosaic/backend/internal/shared/id"
)

// Tree owns one component hierarchy. It is bound to a single editor session
// and, by contract, mutated only from the goroutine that owns that session;
// it carries no internal locking. The shared catalog is read-only.
type Tree struct {
	Root *Component

	catalog  *meta.Catalog
	byName   map[string]*Component
	logger   *logging.Logger
	modified bool
}

// NewTree creates a tree rooted at a CanvasPanel named "Root"
func NewTree(cat *meta.Catalog, logger *logging.Logger) *Tree {
	if logger == nil {
		logger = logging.NewDefault()
	}
	t := &Tree{catalog: cat, byName: make(map[string]*Component), logger: logger}
	rootType, _ := cat.Component("CanvasPanel")
	t.Root = &Component{
		ID:    id.NewComponentID(),
		Type:  "CanvasPanel",
		Name:  "Root",
		Props: meta.NewStructOf(cat, rootType.Props),
	}
	t.byName["Root"] = t.Root
	return t
}

// Catalog returns the reflection metadata the tree was built against
func (t *Tree) Catalog() *meta.Catalog { return t.catalog }

// Find locates a component by its unique name
func (t *Tree) Find(name string) (*Component, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// Insert creates a component of the given type under the named parent. The
// child receives a slot of the parent's slot kind. Names are unique within
// the tree.
func (t *Tree) Insert(parentName, typeName, name string) (*Component, error) {
	parent, ok := t.byName[parentName]
	if !ok {
		return nil, fmt.Errorf("parent component %q not found", parentName)
	}
	parentType, ok := t.catalog.Component(parent.Type)
	if !ok || !parentType.Container {
		return nil, fmt.Errorf("component %q (%s) cannot hold children", parentName, parent.Type)
	}
	ct, ok := t.catalog.Component(typeName)
	if !ok {
		return nil, fmt.Errorf("unknown component type %q", typeName)
	}
	if name == "" {
		return nil, fmt.Errorf("component name required")
	}
	if _, dup := t.byName[name]; dup {
		return nil, fmt.Errorf("component name %q already in use", name)
	}

	c := &Component{
		ID:     id.NewComponentID(),
		Type:   typeName,
		Name:   name,
		Props:  meta.NewStructOf(t.catalog, ct.Props),
		Slot:   NewSlot(t.catalog, parentType.SlotKind),
		parent: parent,
	}
	parent.Children = append(parent.Children, c)
	t.byName[name] = c
	t.modified = true

	t.logger.Debug("component inserted",
		zap.String("name", name),
		zap.String("type", typeName),
		zap.String("parent", parentName),
	)
	return c, nil
}

// Remove detaches the named component and destroys it together with its
// descendants. The root cannot be removed.
func (t *Tree) Remove(name string) bool {
	c, ok := t.byName[name]
	if !ok || c.parent == nil {
		return false
	}
	idx := c.Index()
	p := c.parent
	p.Children = append(p.Children[:idx], p.Children[idx+1:]...)
	c.Walk(func(d *Component) bool {
		delete(t.byName, d.Name)
		d.parent = nil
		d.Slot = nil
		return true
	})
	t.modified = true
	t.logger.Debug("component removed", zap.String("name", name))
	return true
}

// MarkModified flags the tree as having unsaved changes. Consumed by the
// persistence layer.
func (t *Tree) MarkModified() { t.modified = true }

// Modified reports whether the tree has unsaved changes
func (t *Tree) Modified() bool { return t.modified }

// ClearModified resets the unsaved-changes flag after a save
func (t *Tree) ClearModified() { t.modified = false }

// Count returns the number of components in the tree
func (t *Tree) Count() int { return len(t.byName) }
