package property

import (
	"fmt"

	"github.com/mosaicui/mosaic/backend/internal/domain/component"
	"github.com/mosaicui/mosaic/backend/internal/domain/meta"
	"github.com/mosaicui/mosaic/backend/internal/shared/wire"
)

// Engine exposes the two boundary operations over a component tree: reading
// a property by path and mutating it. The engine is stateless; the catalog
// it holds is immutable, so one engine may serve concurrent trees.
type Engine struct {
	cat *meta.Catalog
}

// NewEngine creates an engine bound to a type catalog
func NewEngine(cat *meta.Catalog) *Engine {
	return &Engine{cat: cat}
}

// Catalog returns the engine's type catalog
func (e *Engine) Catalog() *meta.Catalog { return e.cat }

// GetResult is the payload of a successful property read
type GetResult struct {
	Value             wire.Value
	PropertyType      string
	Editable          bool
	SyntheticOrdering bool
	Constraints       map[string]interface{}
	Schema            map[string]interface{}
}

// SetResult is the payload of a successful property write
type SetResult struct {
	Applied          wire.Value
	StructuralChange bool
	Note             string
}

// Get resolves a path and reads the target. It never mutates state.
func (e *Engine) Get(c *component.Component, path string) (*GetResult, *Error) {
	slotRooted, segs, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	t, err := Resolve(e.cat, c, slotRooted, segs)
	if err != nil {
		return nil, err
	}

	switch {
	case t.SyntheticOrdering:
		idx, err := OrderingGet(t.Owner)
		if err != nil {
			return nil, err
		}
		return &GetResult{
			Value:             wire.N(float64(idx)),
			PropertyType:      meta.KindInt.String(),
			Editable:          true,
			SyntheticOrdering: true,
		}, nil

	case t.Accessor != nil:
		native := t.Accessor.Get(e.cat, t.Slot)
		return &GetResult{
			Value:        ToWire(e.cat, native, t.Accessor.Desc),
			PropertyType: t.Accessor.Desc.TypeName(),
			Editable:     true,
			Schema:       e.schema(t.Accessor.Desc),
		}, nil

	case t.Elem != nil:
		return &GetResult{
			Value:        ToWire(e.cat, t.Elem.Load(), t.Field),
			PropertyType: t.Field.TypeName(),
			Editable:     !t.Field.ReadOnly,
			Constraints:  e.constraints(t.Field, t.Elem.Load()),
			Schema:       e.schema(t.Field),
		}, nil

	default:
		value, _ := t.Container.Get(t.Field.Name)
		return &GetResult{
			Value:        ToWire(e.cat, value, t.Field),
			PropertyType: t.Field.TypeName(),
			Editable:     !t.Field.ReadOnly,
			Constraints:  e.constraints(t.Field, value),
			Schema:       e.schema(t.Field),
		}, nil
	}
}

// Set resolves a path and writes the target. Coercion is validated before
// the write, so a failed Set leaves the tree unchanged. When op is non-nil
// the value is applied as a collection operation instead of a whole-field
// replacement.
func (e *Engine) Set(c *component.Component, path string, v wire.Value, op *CollectionOp) (*SetResult, *Error) {
	slotRooted, segs, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	t, err := Resolve(e.cat, c, slotRooted, segs)
	if err != nil {
		return nil, err
	}

	switch {
	case t.SyntheticOrdering:
		native, err := ToNative(e.cat, v, meta.Int(OrderProperty))
		if err != nil {
			return nil, err
		}
		final, err := OrderingSet(t.Owner, int(native.(int64)))
		if err != nil {
			return nil, err
		}
		return &SetResult{
			Applied:          wire.N(float64(final)),
			StructuralChange: true,
			Note:             fmt.Sprintf("moved %q to position %d", t.Owner.Name, final),
		}, nil

	case t.Accessor != nil:
		native, err := ToNative(e.cat, v, t.Accessor.Desc)
		if err != nil {
			return nil, err
		}
		if err := t.Accessor.Set(t.Slot, native); err != nil {
			return nil, err
		}
		return &SetResult{
			Applied: ToWire(e.cat, native, t.Accessor.Desc),
			Note:    fmt.Sprintf("slot %s updated", t.Accessor.Name),
		}, nil

	case op != nil:
		length, note, err := ApplyCollection(e.cat, t, *op, v)
		if err != nil {
			return nil, err
		}
		value, _ := t.Container.Get(t.Field.Name)
		return &SetResult{
			Applied: ToWire(e.cat, value, t.Field),
			Note:    fmt.Sprintf("%s; length %d", note, length),
		}, nil

	case t.Elem != nil:
		if t.Field.ReadOnly {
			return nil, Errorf(ErrNotApplicable, "property %q is read-only", t.Field.Name)
		}
		native, err := ToNative(e.cat, v, t.Field)
		if err != nil {
			return nil, err
		}
		t.Elem.Store(native)
		return &SetResult{Applied: ToWire(e.cat, native, t.Field), Note: "element updated"}, nil

	default:
		if t.Field.ReadOnly {
			return nil, Errorf(ErrNotApplicable, "property %q is read-only", t.Field.Name)
		}
		native, err := ToNative(e.cat, v, t.Field)
		if err != nil {
			return nil, err
		}
		t.Container.Set(t.Field.Name, native)
		return &SetResult{
			Applied: ToWire(e.cat, native, t.Field),
			Note:    fmt.Sprintf("%s updated", t.Field.Name),
		}, nil
	}
}

// constraints reports the editable domain of a field: enum values, numeric
// bounds, current collection length.
func (e *Engine) constraints(fd *meta.Field, value interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	if fd.Kind.IsEnum() {
		out["enum_values"] = fd.EnumNames()
	}
	if fd.Min != nil {
		out["min"] = *fd.Min
	}
	if fd.Max != nil {
		out["max"] = *fd.Max
	}
	switch fd.Kind {
	case meta.KindArray:
		arr, _ := value.([]interface{})
		out["length"] = len(arr)
	case meta.KindSet:
		if s, ok := value.(*meta.SetVal); ok && s != nil {
			out["length"] = s.Len()
		}
	case meta.KindMap:
		if m, ok := value.(*meta.MapVal); ok && m != nil {
			out["length"] = m.Len()
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// schema reports nested-type names so callers can render further paths
func (e *Engine) schema(fd *meta.Field) map[string]interface{} {
	switch fd.Kind {
	case meta.KindStruct:
		st, ok := e.cat.Struct(fd.Struct)
		if !ok {
			return nil
		}
		fields := make(map[string]interface{}, len(st.Fields))
		for _, f := range st.Fields {
			fields[f.Name] = f.TypeName()
		}
		return map[string]interface{}{"type": fd.Struct, "fields": fields}
	case meta.KindArray, meta.KindSet:
		return map[string]interface{}{"element": fd.Elem.TypeName()}
	case meta.KindMap:
		return map[string]interface{}{"key": fd.Key.TypeName(), "value": fd.Value.TypeName()}
	}
	return nil
}
