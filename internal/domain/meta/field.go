package meta

import (
	"fmt"
	"strings"
)

// EnumValue is one member of an enum domain
type EnumValue struct {
	Name    string
	Ordinal int64
}

// Field describes one addressable member of a type. Immutable once the
// catalog is built.
type Field struct {
	Name     string
	Kind     Kind
	ReadOnly bool

	// Struct names the nested type when Kind is KindStruct
	Struct string

	// Elem describes array/set elements; Key and Value describe map entries.
	// These are anonymous descriptors (Name is empty).
	Elem  *Field
	Key   *Field
	Value *Field

	// Enum is the value domain for enum kinds
	Enum []EnumValue

	// Optional numeric bounds
	Min *float64
	Max *float64
}

// TypeName renders the field's type for reporting, e.g. "Struct(Color)",
// "Array(String)", "Map(String,Int)".
func (f *Field) TypeName() string {
	switch f.Kind {
	case KindStruct:
		return fmt.Sprintf("Struct(%s)", f.Struct)
	case KindArray:
		return fmt.Sprintf("Array(%s)", f.Elem.TypeName())
	case KindSet:
		return fmt.Sprintf("Set(%s)", f.Elem.TypeName())
	case KindMap:
		return fmt.Sprintf("Map(%s,%s)", f.Key.TypeName(), f.Value.TypeName())
	default:
		return f.Kind.String()
	}
}

// EnumNames returns the ordered name domain for enum kinds
func (f *Field) EnumNames() []string {
	names := make([]string, len(f.Enum))
	for i, e := range f.Enum {
		names[i] = e.Name
	}
	return names
}

// EnumByName finds an enum member by case-sensitive name
func (f *Field) EnumByName(name string) (EnumValue, bool) {
	for _, e := range f.Enum {
		if e.Name == name {
			return e, true
		}
	}
	return EnumValue{}, false
}

// EnumByOrdinal finds an enum member by ordinal value
func (f *Field) EnumByOrdinal(ord int64) (EnumValue, bool) {
	for _, e := range f.Enum {
		if e.Ordinal == ord {
			return e, true
		}
	}
	return EnumValue{}, false
}

// FoldName normalizes a field name for loose matching: lowercased with
// underscores removed, so "min_x", "MinX" and "minx" all address MinX.
func FoldName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "")
}
