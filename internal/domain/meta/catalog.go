package meta

import "fmt"

// StructType is the ordered field set of a named struct type
type StructType struct {
	Name   string
	Fields []*Field
	index  map[string]*Field // folded name -> field
}

// Field locates a member by name (loose match, see FoldName)
func (t *StructType) Field(name string) (*Field, bool) {
	f, ok := t.index[FoldName(name)]
	return f, ok
}

// FieldNames returns the declared field names in canonical order
func (t *StructType) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// ComponentType describes one UI component type: its property fields plus
// container behavior (whether it accepts children, and which slot kind its
// children receive).
type ComponentType struct {
	Name      string
	Props     *StructType
	Container bool
	SlotKind  string // slot type name assigned to children; empty for leaves
}

// Catalog is the immutable reflection metadata registry. It is built once at
// process start (or fabricated in tests) and read concurrently without
// synchronization thereafter.
type Catalog struct {
	structs    map[string]*StructType
	components map[string]*ComponentType
}

// Struct looks up a struct type by name
func (c *Catalog) Struct(name string) (*StructType, bool) {
	t, ok := c.structs[name]
	return t, ok
}

// Component looks up a component type by name
func (c *Catalog) Component(name string) (*ComponentType, bool) {
	t, ok := c.components[name]
	return t, ok
}

// ComponentNames lists registered component type names
func (c *Catalog) ComponentNames() []string {
	names := make([]string, 0, len(c.components))
	for n := range c.components {
		names = append(names, n)
	}
	return names
}

// Builder assembles a Catalog. Not safe for concurrent use; Build returns
// the frozen catalog.
type Builder struct {
	structs    map[string]*StructType
	components map[string]*ComponentType
	err        error
}

// NewBuilder creates an empty catalog builder
func NewBuilder() *Builder {
	return &Builder{
		structs:    make(map[string]*StructType),
		components: make(map[string]*ComponentType),
	}
}

// Struct registers a struct type with its fields in canonical order
func (b *Builder) Struct(name string, fields ...*Field) *Builder {
	if b.err != nil {
		return b
	}
	if _, dup := b.structs[name]; dup {
		b.err = fmt.Errorf("duplicate struct type %q", name)
		return b
	}
	b.structs[name] = newStructType(name, fields)
	return b
}

// Component registers a leaf component type
func (b *Builder) Component(name string, fields ...*Field) *Builder {
	return b.register(name, false, "", fields)
}

// Container registers a container component type whose children carry the
// named slot kind
func (b *Builder) Container(name string, slotKind string, fields ...*Field) *Builder {
	return b.register(name, true, slotKind, fields)
}

func (b *Builder) register(name string, container bool, slotKind string, fields []*Field) *Builder {
	if b.err != nil {
		return b
	}
	if _, dup := b.components[name]; dup {
		b.err = fmt.Errorf("duplicate component type %q", name)
		return b
	}
	b.components[name] = &ComponentType{
		Name:      name,
		Props:     newStructType(name, fields),
		Container: container,
		SlotKind:  slotKind,
	}
	return b
}

// Build freezes and returns the catalog
func (b *Builder) Build() (*Catalog, error) {
	if b.err != nil {
		return nil, b.err
	}
	cat := &Catalog{structs: b.structs, components: b.components}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// MustBuild builds or panics; used for the builtin catalog and test fixtures
func (b *Builder) MustBuild() *Catalog {
	cat, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cat
}

// validate checks that every Struct(...) reference points at a registered
// struct type, so resolution never dangles.
func (c *Catalog) validate() error {
	check := func(owner string, f *Field) error {
		for _, ref := range collectStructRefs(f) {
			if _, ok := c.structs[ref]; !ok {
				return fmt.Errorf("%s.%s references unknown struct type %q", owner, f.Name, ref)
			}
		}
		return nil
	}
	for name, t := range c.structs {
		for _, f := range t.Fields {
			if err := check(name, f); err != nil {
				return err
			}
		}
	}
	for name, t := range c.components {
		for _, f := range t.Props.Fields {
			if err := check(name, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func collectStructRefs(f *Field) []string {
	if f == nil {
		return nil
	}
	var refs []string
	if f.Kind == KindStruct {
		refs = append(refs, f.Struct)
	}
	refs = append(refs, collectStructRefs(f.Elem)...)
	refs = append(refs, collectStructRefs(f.Key)...)
	refs = append(refs, collectStructRefs(f.Value)...)
	return refs
}

func newStructType(name string, fields []*Field) *StructType {
	t := &StructType{Name: name, Fields: fields, index: make(map[string]*Field, len(fields))}
	for _, f := range fields {
		t.index[FoldName(f.Name)] = f
	}
	return t
}
