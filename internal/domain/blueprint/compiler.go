// Package blueprint converts between component trees and their serialized
// forms: YAML blueprint documents on the way in, UISpec maps on the way out.
// A UISpec is the render-ready projection consumed by editor views; it is
// recompiled whenever a structural change invalidates the previous one.
package blueprint

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mosaicui/mosaic/backend/internal/domain/component"
	"github.com/mosaicui/mosaic/backend/internal/domain/meta"
	"github.com/mosaicui/mosaic/backend/internal/domain/property"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/logging"
	"github.com/mosaicui/mosaic/backend/internal/shared/wire"
)

// Node is one component declaration in a blueprint document
type Node struct {
	Type     string                 `yaml:"type"`
	Name     string                 `yaml:"name"`
	Props    map[string]interface{} `yaml:"props,omitempty"`
	Slot     map[string]interface{} `yaml:"slot,omitempty"`
	Children []Node                 `yaml:"children,omitempty"`
}

// Document is the root structure of a blueprint file
type Document struct {
	Name string `yaml:"name"`
	Root Node   `yaml:"root"`
}

// Compiler builds trees from blueprints and UISpecs from trees
type Compiler struct {
	engine *property.Engine
	logger *logging.Logger
}

// NewCompiler creates a compiler sharing the process-wide engine
func NewCompiler(engine *property.Engine, logger *logging.Logger) *Compiler {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Compiler{engine: engine, logger: logger.Named("blueprint")}
}

// Load parses a YAML blueprint and materializes it as a component tree.
// Property values go through the same coercion path the command interface
// uses, so blueprints accept every wire shorthand (hex colors, positional
// vectors, uniform margins).
func (c *Compiler) Load(data []byte) (*component.Tree, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse blueprint YAML: %w", err)
	}
	if doc.Root.Type != "CanvasPanel" && doc.Root.Type != "" {
		return nil, fmt.Errorf("blueprint root must be a CanvasPanel, got %q", doc.Root.Type)
	}

	tree := component.NewTree(c.engine.Catalog(), c.logger)
	if err := c.applyProps(tree.Root, doc.Root.Props, nil); err != nil {
		return nil, err
	}
	for _, child := range doc.Root.Children {
		if err := c.insert(tree, tree.Root.Name, child); err != nil {
			return nil, err
		}
	}
	tree.ClearModified()
	return tree, nil
}

func (c *Compiler) insert(tree *component.Tree, parentName string, node Node) error {
	cmp, err := tree.Insert(parentName, node.Type, node.Name)
	if err != nil {
		return fmt.Errorf("blueprint node %q: %w", node.Name, err)
	}
	if err := c.applyProps(cmp, node.Props, node.Slot); err != nil {
		return err
	}
	for _, child := range node.Children {
		if err := c.insert(tree, node.Name, child); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) applyProps(cmp *component.Component, props, slot map[string]interface{}) error {
	for name, raw := range props {
		if _, err := c.engine.Set(cmp, name, wire.FromJSON(raw), nil); err != nil {
			return fmt.Errorf("blueprint %q property %s: %s", cmp.Name, name, err.Message)
		}
	}
	for name, raw := range slot {
		if _, err := c.engine.Set(cmp, property.SlotRoot+"."+name, wire.FromJSON(raw), nil); err != nil {
			return fmt.Errorf("blueprint %q slot property %s: %s", cmp.Name, name, err.Message)
		}
	}
	return nil
}

// Compile projects a tree into a UISpec map
func (c *Compiler) Compile(tree *component.Tree) map[string]interface{} {
	return c.compileNode(tree.Catalog(), tree.Root)
}

func (c *Compiler) compileNode(cat *meta.Catalog, cmp *component.Component) map[string]interface{} {
	spec := map[string]interface{}{
		"id":   cmp.ID.String(),
		"type": cmp.Type,
		"name": cmp.Name,
	}

	if ct, ok := cat.Component(cmp.Type); ok {
		props := make(map[string]interface{}, len(ct.Props.Fields))
		for _, f := range ct.Props.Fields {
			value, _ := cmp.Props.Get(f.Name)
			props[f.Name] = property.ToWire(cat, value, f).Interface()
		}
		spec["props"] = props
	}

	if cmp.Slot != nil {
		spec["slot"] = c.compileSlot(cat, cmp.Slot)
	}

	if len(cmp.Children) > 0 {
		children := make([]interface{}, len(cmp.Children))
		for i, ch := range cmp.Children {
			children[i] = c.compileNode(cat, ch)
		}
		spec["children"] = children
	}
	return spec
}

func (c *Compiler) compileSlot(cat *meta.Catalog, slot *component.Slot) map[string]interface{} {
	out := map[string]interface{}{"kind": slot.Kind}

	if slot.IsCanvas() {
		for _, name := range property.SlotAccessorNames() {
			acc, _ := property.LookupSlotAccessor(name)
			out[name] = property.ToWire(cat, acc.Get(cat, slot), acc.Desc).Interface()
		}
		return out
	}

	if st, ok := cat.Struct(slot.Kind); ok {
		for _, f := range st.Fields {
			value, _ := slot.Props.Get(f.Name)
			out[f.Name] = property.ToWire(cat, value, f).Interface()
		}
	}
	return out
}
