// Package wire defines the loosely-typed value representation exchanged at
// the command boundary. A Value is a tagged union over the JSON value space;
// it carries no type information beyond its own tag. Conversion to and from
// strongly-typed fields happens in the property coercion layer.
package wire

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
)

// Kind tags a wire value
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the tag name
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is a JSON-like tagged value
type Value struct {
	Kind Kind
	Bool bool
	Num  float64
	Str  string
	Arr  []Value
	Obj  map[string]Value
}

// Null returns the null value
func Null() Value { return Value{Kind: KindNull} }

// B wraps a bool
func B(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// N wraps a number
func N(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// S wraps a string
func S(s string) Value { return Value{Kind: KindString, Str: s} }

// A wraps an array
func A(elems ...Value) Value { return Value{Kind: KindArray, Arr: elems} }

// O wraps an object
func O(fields map[string]Value) Value { return Value{Kind: KindObject, Obj: fields} }

// IsNull reports whether the value is null
func (v Value) IsNull() bool { return v.Kind == KindNull }

// FromJSON converts a decoded JSON value (as produced by sonic or
// encoding/json into interface{}) into a Value. Unknown Go types map to
// their string representation rather than failing; the coercion layer
// rejects anything it cannot use.
func FromJSON(raw interface{}) Value {
	switch x := raw.(type) {
	case nil:
		return Null()
	case bool:
		return B(x)
	case float64:
		return N(x)
	case float32:
		return N(float64(x))
	case int:
		return N(float64(x))
	case int32:
		return N(float64(x))
	case int64:
		return N(float64(x))
	case uint64:
		return N(float64(x))
	case string:
		return S(x)
	case []interface{}:
		arr := make([]Value, len(x))
		for i, e := range x {
			arr[i] = FromJSON(e)
		}
		return Value{Kind: KindArray, Arr: arr}
	case map[string]interface{}:
		obj := make(map[string]Value, len(x))
		for k, e := range x {
			obj[k] = FromJSON(e)
		}
		return Value{Kind: KindObject, Obj: obj}
	case map[interface{}]interface{}:
		// yaml.v3 legacy maps
		obj := make(map[string]Value, len(x))
		for k, e := range x {
			obj[fmt.Sprintf("%v", k)] = FromJSON(e)
		}
		return Value{Kind: KindObject, Obj: obj}
	default:
		return S(fmt.Sprintf("%v", x))
	}
}

// Decode parses a JSON document into a Value
func Decode(text string) (Value, error) {
	var raw interface{}
	if err := sonic.UnmarshalString(text, &raw); err != nil {
		return Null(), err
	}
	return FromJSON(raw), nil
}

// Interface converts the value back into plain Go values suitable for JSON
// encoding or Result payloads.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num
	case KindString:
		return v.Str
	case KindArray:
		arr := make([]interface{}, len(v.Arr))
		for i, e := range v.Arr {
			arr[i] = e.Interface()
		}
		return arr
	case KindObject:
		obj := make(map[string]interface{}, len(v.Obj))
		for k, e := range v.Obj {
			obj[k] = e.Interface()
		}
		return obj
	default:
		return nil
	}
}

// Encode renders the value as a JSON document
func (v Value) Encode() (string, error) {
	return sonic.MarshalString(v.Interface())
}

// LooksLikeJSON reports whether a string payload is plausibly a JSON literal
// (array, object, or quoted string). Some callers double-encode nested values
// as strings; such strings are re-parsed exactly once before coercion.
func LooksLikeJSON(s string) bool {
	t := strings.TrimSpace(s)
	if len(t) < 2 {
		return false
	}
	switch {
	case strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]"):
		return true
	case strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}"):
		return true
	case strings.HasPrefix(t, `"`) && strings.HasSuffix(t, `"`):
		return true
	}
	return false
}

// String renders a compact, deterministic representation for log lines and
// error messages. Object keys are sorted.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindNumber:
		return fmt.Sprintf("%g", v.Num)
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	case KindArray:
		parts := make([]string, len(v.Arr))
		for i, e := range v.Arr {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case KindObject:
		keys := make([]string, 0, len(v.Obj))
		for k := range v.Obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q:%s", k, v.Obj[k].String())
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return "invalid"
	}
}
