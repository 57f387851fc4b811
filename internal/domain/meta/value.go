package meta

// Native value representation per kind:
//
//	Bool      -> bool
//	Int       -> int64
//	Float     -> float64
//	String    -> string
//	Text      -> string
//	ByteEnum  -> string (member name)
//	Enum      -> string (member name)
//	Struct    -> *StructVal
//	Array     -> []interface{}
//	Set       -> *SetVal
//	Map       -> *MapVal
//	ObjectRef -> nil or a component pointer owned by the tree
//
// Containers are plain in-memory values; handles into them are valid only for
// the duration of a single operation because structural mutation replaces the
// backing storage.

// StructVal is an instance of a catalog struct type. Field values are keyed
// by folded name; Get/Set go through the descriptor's canonical name.
type StructVal struct {
	Type   string
	fields map[string]interface{}
}

// NewStruct allocates an instance of the named struct type with every field
// set to its zero value.
func NewStruct(cat *Catalog, typeName string) *StructVal {
	s := &StructVal{Type: typeName, fields: make(map[string]interface{})}
	if t, ok := cat.Struct(typeName); ok {
		for _, f := range t.Fields {
			s.fields[FoldName(f.Name)] = ZeroValue(cat, f)
		}
	}
	return s
}

// NewStructOf allocates a struct instance for a component type's property set
func NewStructOf(cat *Catalog, t *StructType) *StructVal {
	s := &StructVal{Type: t.Name, fields: make(map[string]interface{}, len(t.Fields))}
	for _, f := range t.Fields {
		s.fields[FoldName(f.Name)] = ZeroValue(cat, f)
	}
	return s
}

// Get reads a field value by name
func (s *StructVal) Get(name string) (interface{}, bool) {
	v, ok := s.fields[FoldName(name)]
	return v, ok
}

// Set writes a field value by name
func (s *StructVal) Set(name string, v interface{}) {
	s.fields[FoldName(name)] = v
}

// MapEntry is one key/value pair of a map field
type MapEntry struct {
	Key   interface{}
	Value interface{}
}

// MapVal is the native representation of a map field. Entries preserve
// insertion order; lookup is a structural-equality scan, which is the
// contract the resolver depends on for every supported key kind.
type MapVal struct {
	Entries []MapEntry
}

// Find returns the index of the entry whose key equals k
func (m *MapVal) Find(k interface{}) (int, bool) {
	for i, e := range m.Entries {
		if e.Key == k {
			return i, true
		}
	}
	return -1, false
}

// Put inserts or replaces the entry for k
func (m *MapVal) Put(k, v interface{}) {
	if i, ok := m.Find(k); ok {
		m.Entries[i].Value = v
		return
	}
	m.Entries = append(m.Entries, MapEntry{Key: k, Value: v})
}

// Len returns the entry count
func (m *MapVal) Len() int { return len(m.Entries) }

// SetVal is the native representation of a set field. Sets support only
// whole-collection read and replace; per-element path access is rejected by
// the resolver.
type SetVal struct {
	Elems []interface{}
}

// Len returns the element count
func (s *SetVal) Len() int { return len(s.Elems) }

// ZeroValue returns the zero native value for a descriptor
func ZeroValue(cat *Catalog, f *Field) interface{} {
	switch f.Kind {
	case KindBool:
		return false
	case KindInt:
		return int64(0)
	case KindFloat:
		return float64(0)
	case KindString, KindText:
		return ""
	case KindEnum, KindByteEnum:
		if len(f.Enum) > 0 {
			return f.Enum[0].Name
		}
		return ""
	case KindStruct:
		return NewStruct(cat, f.Struct)
	case KindArray:
		return []interface{}{}
	case KindSet:
		return &SetVal{}
	case KindMap:
		return &MapVal{}
	case KindObjectRef:
		return nil
	default:
		return nil
	}
}
