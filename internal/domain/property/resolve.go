package property

import (
	"strconv"
	"strings"

	"github.com/mosaicui/mosaic/backend/internal/domain/component"
	"github.com/mosaicui/mosaic/backend/internal/domain/meta"
)

// Target is the transient result of walking a path: where the terminal value
// lives and the descriptor that governs it. Targets are valid only for the
// duration of the operation that produced them; structural mutation
// invalidates container handles, so callers re-resolve every time.
type Target struct {
	// Owner is the component whose memory the target lives in. For
	// slot-rooted paths it is the component the slot is attached to.
	Owner *component.Component

	// Slot is set when resolution was slot-rooted
	Slot *component.Slot

	// Container is the struct the terminal field belongs to; nil when the
	// target is a collection element or a synthetic property.
	Container *meta.StructVal

	// Field is the terminal descriptor. For slot accessors it is the
	// accessor's synthetic descriptor; nil for the ordering pseudo-property.
	Field *meta.Field

	// Elem is set when the terminal is a collection element
	Elem *ElemRef

	// SyntheticOrdering marks the container-position pseudo-property
	SyntheticOrdering bool

	// Accessor is set for method-backed slot placement properties
	Accessor *SlotAccessor
}

// ElemRef addresses one element of an array or map value
type ElemRef struct {
	Arr   []interface{}
	Index int
	Map   *meta.MapVal
	Entry int
	IsMap bool
}

// Load reads the element value
func (e *ElemRef) Load() interface{} {
	if e.IsMap {
		return e.Map.Entries[e.Entry].Value
	}
	return e.Arr[e.Index]
}

// Store overwrites the element value in place
func (e *ElemRef) Store(v interface{}) {
	if e.IsMap {
		e.Map.Entries[e.Entry].Value = v
		return
	}
	e.Arr[e.Index] = v
}

// Resolve walks the component graph following parsed segments. It is a
// left-to-right fold with a single current position (owner, container,
// descriptor); there is no backtracking and no state across calls.
func Resolve(cat *meta.Catalog, c *component.Component, slotRooted bool, segs []Segment) (*Target, *Error) {
	owner := c
	cont := c.Props
	var slot *component.Slot

	if slotRooted {
		if c.Slot == nil {
			return nil, Errorf(ErrNoSlot,
				"component %q has no attached slot; only children of a container have one", c.Name)
		}
		slot = c.Slot
		cont = slot.Props
	}

	for i, seg := range segs {
		terminal := i == len(segs)-1

		st, ok := lookupType(cat, cont.Type)
		if !ok {
			return nil, Errorf(ErrPropertyNotFound, "unknown type %q in path", cont.Type)
		}

		fd, ok := st.Field(seg.Name)
		if !ok {
			if slotRooted && i == 0 {
				if t, err := resolveSynthetic(cat, owner, slot, seg, terminal); t != nil || err != nil {
					return t, err
				}
				return nil, Errorf(ErrPropertyNotFound,
					"slot type %s has no property %q; available slot properties: %s",
					slot.Kind, seg.Name, strings.Join(slotPropertyNames(cat, slot), ", "))
			}
			return nil, Errorf(ErrPropertyNotFound, "type %q has no property %q", cont.Type, seg.Name)
		}

		if terminal {
			return resolveTerminal(owner, slot, cont, fd, seg)
		}

		value, desc, err := stepInto(cont, fd, seg)
		if err != nil {
			return nil, err
		}

		switch desc.Kind {
		case meta.KindStruct:
			sv, ok := value.(*meta.StructVal)
			if !ok || sv == nil {
				return nil, Errorf(ErrNullReference, "struct property %q is not initialized", seg.Name)
			}
			cont = sv
		case meta.KindObjectRef:
			if value == nil {
				return nil, Errorf(ErrNullReference,
					"reference %q is null; cannot resolve %q through it", seg.Name, segs[i+1].Name)
			}
			ref, ok := value.(*component.Component)
			if !ok {
				return nil, Errorf(ErrNullReference, "reference %q does not point at a component", seg.Name)
			}
			owner = ref
			cont = ref.Props
		default:
			return nil, Errorf(ErrNotTraversable,
				"cannot resolve %q inside %s property %q", segs[i+1].Name, desc.TypeName(), seg.Name)
		}
	}

	// Unreachable: ParsePath guarantees at least one segment
	return nil, Errorf(ErrInvalidPath, "property path is empty")
}

// resolveSynthetic handles the two synthetic families on the first slot
// segment. Returns (nil, nil) when the name is not synthetic so the caller
// can produce the hinted not-found failure.
func resolveSynthetic(cat *meta.Catalog, owner *component.Component, slot *component.Slot, seg Segment, terminal bool) (*Target, *Error) {
	if seg.HasIndex || seg.HasKey {
		return nil, nil
	}

	if strings.EqualFold(seg.Name, OrderProperty) {
		if !terminal {
			return nil, Errorf(ErrNotTraversable, "%s is an ordering position; it has no sub-properties", OrderProperty)
		}
		return &Target{Owner: owner, Slot: slot, SyntheticOrdering: true}, nil
	}

	acc, ok := LookupSlotAccessor(seg.Name)
	if !ok {
		return nil, nil
	}
	if !slot.IsCanvas() {
		return nil, Errorf(ErrNotApplicable,
			"slot type %s does not support the %s accessor; available slot properties: %s",
			slot.Kind, acc.Name, strings.Join(slotPropertyNames(cat, slot), ", "))
	}
	if !terminal {
		return nil, Errorf(ErrNotTraversable,
			"%s is a method-backed slot property; it has no addressable sub-properties", acc.Name)
	}
	return &Target{Owner: owner, Slot: slot, Accessor: acc, Field: acc.Desc}, nil
}

// resolveTerminal finalizes resolution at the last segment
func resolveTerminal(owner *component.Component, slot *component.Slot, cont *meta.StructVal, fd *meta.Field, seg Segment) (*Target, *Error) {
	if !seg.HasIndex && !seg.HasKey {
		return &Target{Owner: owner, Slot: slot, Container: cont, Field: fd}, nil
	}

	elem, desc, err := elementRef(cont, fd, seg)
	if err != nil {
		return nil, err
	}
	return &Target{Owner: owner, Slot: slot, Field: desc, Elem: elem}, nil
}

// stepInto consumes one mid-path segment, producing the value and descriptor
// resolution continues from.
func stepInto(cont *meta.StructVal, fd *meta.Field, seg Segment) (interface{}, *meta.Field, *Error) {
	if !seg.HasIndex && !seg.HasKey {
		value, _ := cont.Get(fd.Name)
		return value, fd, nil
	}
	elem, desc, err := elementRef(cont, fd, seg)
	if err != nil {
		return nil, nil, err
	}
	return elem.Load(), desc, nil
}

// elementRef applies a segment's index or key to a collection field
func elementRef(cont *meta.StructVal, fd *meta.Field, seg Segment) (*ElemRef, *meta.Field, *Error) {
	value, _ := cont.Get(fd.Name)

	switch fd.Kind {
	case meta.KindArray:
		if seg.HasKey {
			return nil, nil, Errorf(ErrNotTraversable,
				"array property %q is addressed by index, not key %q", fd.Name, seg.Key)
		}
		arr, _ := value.([]interface{})
		if seg.Index >= len(arr) {
			return nil, nil, Errorf(ErrIndexOutOfRange,
				"index %d out of range for %q (length %d)", seg.Index, fd.Name, len(arr))
		}
		return &ElemRef{Arr: arr, Index: seg.Index}, fd.Elem, nil

	case meta.KindMap:
		m, _ := value.(*meta.MapVal)
		if m == nil {
			m = &meta.MapVal{}
		}
		// An all-digit token parses as an index, but maps always treat the
		// token as key text (integer-keyed maps included).
		key := seg.Key
		if seg.HasIndex {
			key = strconv.Itoa(seg.Index)
		}
		entry, found := findMapEntry(m, fd.Key, key)
		if !found {
			return nil, nil, Errorf(ErrKeyNotFound, "map property %q has no key %q", fd.Name, key)
		}
		return &ElemRef{Map: m, Entry: entry, IsMap: true}, fd.Value, nil

	case meta.KindSet:
		return nil, nil, Errorf(ErrNotTraversable,
			"set property %q supports whole-collection access only", fd.Name)

	default:
		return nil, nil, Errorf(ErrNotTraversable,
			"%s property %q does not support element access", fd.TypeName(), fd.Name)
	}
}

// findMapEntry scans entries for structural equality against the textual key
// converted per the map's key kind.
func findMapEntry(m *meta.MapVal, keyDesc *meta.Field, key string) (int, bool) {
	for i, e := range m.Entries {
		switch keyDesc.Kind {
		case meta.KindString:
			if s, ok := e.Key.(string); ok && s == key {
				return i, true
			}
		case meta.KindText:
			// Name-like keys compare case-insensitively
			if s, ok := e.Key.(string); ok && strings.EqualFold(s, key) {
				return i, true
			}
		case meta.KindInt:
			want, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				return -1, false
			}
			if n, ok := e.Key.(int64); ok && n == want {
				return i, true
			}
		case meta.KindEnum, meta.KindByteEnum:
			name, ok := e.Key.(string)
			if !ok {
				continue
			}
			if name == key {
				return i, true
			}
			// Fall back to ordinal addressing
			if ord, err := strconv.ParseInt(key, 10, 64); err == nil {
				if ev, found := keyDesc.EnumByName(name); found && ev.Ordinal == ord {
					return i, true
				}
			}
		}
	}
	return -1, false
}

// lookupType finds the field set for a type name, checking struct types first
// and component property sets second.
func lookupType(cat *meta.Catalog, name string) (*meta.StructType, bool) {
	if st, ok := cat.Struct(name); ok {
		return st, true
	}
	if ct, ok := cat.Component(name); ok {
		return ct.Props, true
	}
	return nil, false
}

// slotPropertyNames lists the property names a caller most likely wanted for
// this slot kind. Slot property names vary by container kind; blind
// not-found failures are a major source of confusion, so the list rides
// along in the error message.
func slotPropertyNames(cat *meta.Catalog, slot *component.Slot) []string {
	var names []string
	if slot.IsCanvas() {
		names = append(names, SlotAccessorNames()...)
	} else if st, ok := cat.Struct(slot.Kind); ok {
		names = append(names, st.FieldNames()...)
	}
	return append(names, OrderProperty)
}
