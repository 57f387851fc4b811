// Package component models the UI tree being edited: typed component nodes,
// the placement slots their parent containers own, and the tree manager that
// performs structural mutation.
package component

import (
	"github.com/mosaicui/mosaic/backend/internal/domain/meta"
	"github.com/mosaicui/mosaic/backend/internal/shared/id"
)

// Component is one node of a UI tree. It is created when inserted into the
// tree, destroyed when removed, and owned exclusively by the tree.
type Component struct {
	ID   id.ComponentID
	Type string
	Name string

	// Props holds the component's field values, laid out per the catalog's
	// component type.
	Props *meta.StructVal

	// Slot is the placement record owned by the parent container; nil for
	// the root and for freshly detached components.
	Slot *Slot

	Children []*Component

	parent *Component
}

// Parent returns the owning container, or nil for the root
func (c *Component) Parent() *Component { return c.parent }

// Index returns the component's position among its parent's children, or -1
// if it has no parent.
func (c *Component) Index() int {
	if c.parent == nil {
		return -1
	}
	for i, ch := range c.parent.Children {
		if ch == c {
			return i
		}
	}
	return -1
}

// Reorder moves the component to the given position among its siblings,
// clamped to the valid range. Returns the final index, or -1 if the
// component has no parent. This is a structural change.
func (c *Component) Reorder(index int) int {
	p := c.parent
	if p == nil {
		return -1
	}
	cur := c.Index()
	if cur < 0 {
		return -1
	}
	p.Children = append(p.Children[:cur], p.Children[cur+1:]...)
	if index < 0 {
		index = 0
	}
	if index > len(p.Children) {
		index = len(p.Children)
	}
	p.Children = append(p.Children, nil)
	copy(p.Children[index+1:], p.Children[index:])
	p.Children[index] = c
	return index
}

// Walk visits the component and all descendants depth-first, stopping early
// if fn returns false.
func (c *Component) Walk(fn func(*Component) bool) bool {
	if !fn(c) {
		return false
	}
	for _, ch := range c.Children {
		if !ch.Walk(fn) {
			return false
		}
	}
	return true
}
