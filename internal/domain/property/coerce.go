package property

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mosaicui/mosaic/backend/internal/domain/component"
	"github.com/mosaicui/mosaic/backend/internal/domain/meta"
	"github.com/mosaicui/mosaic/backend/internal/shared/wire"
)

// ToNative converts a wire value into a field's native representation. The
// conversion is fully validated before anything is written, so a failure
// never leaves a field partially mutated.
func ToNative(cat *meta.Catalog, v wire.Value, fd *meta.Field) (interface{}, *Error) {
	v = reparseOnce(v)

	switch fd.Kind {
	case meta.KindString, meta.KindText:
		switch v.Kind {
		case wire.KindString:
			return v.Str, nil
		case wire.KindNumber:
			return formatNumber(v.Num), nil
		case wire.KindBool:
			return strconv.FormatBool(v.Bool), nil
		}
		return nil, mismatch(v, fd)

	case meta.KindBool:
		switch v.Kind {
		case wire.KindBool:
			return v.Bool, nil
		case wire.KindNumber:
			return v.Num != 0, nil
		case wire.KindString:
			if b, ok := parseBoolString(v.Str); ok {
				return b, nil
			}
		}
		return nil, mismatch(v, fd)

	case meta.KindInt:
		switch v.Kind {
		case wire.KindNumber:
			return int64(v.Num), nil
		case wire.KindString:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
				return int64(f), nil
			}
		}
		return nil, mismatch(v, fd)

	case meta.KindFloat:
		switch v.Kind {
		case wire.KindNumber:
			return v.Num, nil
		case wire.KindString:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
				return f, nil
			}
		}
		return nil, mismatch(v, fd)

	case meta.KindEnum, meta.KindByteEnum:
		switch v.Kind {
		case wire.KindString:
			if ev, ok := fd.EnumByName(v.Str); ok {
				return ev.Name, nil
			}
		case wire.KindNumber:
			if ev, ok := fd.EnumByOrdinal(int64(v.Num)); ok {
				return ev.Name, nil
			}
		}
		return nil, Errorf(ErrInvalidEnumValue,
			"%s is not a valid value for enum %q; valid values: %s",
			v.String(), fd.Name, strings.Join(fd.EnumNames(), ", "))

	case meta.KindStruct:
		return structToNative(cat, v, fd.Struct)

	case meta.KindArray:
		if v.Kind != wire.KindArray {
			return nil, mismatch(v, fd)
		}
		out := make([]interface{}, len(v.Arr))
		for i, e := range v.Arr {
			n, err := ToNative(cat, e, fd.Elem)
			if err != nil {
				return nil, Errorf(err.Kind, "element %d: %s", i, err.Message)
			}
			out[i] = n
		}
		return out, nil

	case meta.KindSet:
		if v.Kind != wire.KindArray {
			return nil, mismatch(v, fd)
		}
		set := &meta.SetVal{Elems: make([]interface{}, 0, len(v.Arr))}
		for i, e := range v.Arr {
			n, err := ToNative(cat, e, fd.Elem)
			if err != nil {
				return nil, Errorf(err.Kind, "element %d: %s", i, err.Message)
			}
			set.Elems = append(set.Elems, n)
		}
		return set, nil

	case meta.KindMap:
		if v.Kind != wire.KindObject {
			return nil, mismatch(v, fd)
		}
		keys := make([]string, 0, len(v.Obj))
		for k := range v.Obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := &meta.MapVal{}
		for _, k := range keys {
			nk, err := keyToNative(k, fd.Key)
			if err != nil {
				return nil, err
			}
			nv, err := ToNative(cat, v.Obj[k], fd.Value)
			if err != nil {
				return nil, Errorf(err.Kind, "key %q: %s", k, err.Message)
			}
			m.Put(nk, nv)
		}
		return m, nil

	case meta.KindObjectRef:
		return nil, Errorf(ErrUnsupportedPropertyType,
			"object reference %q cannot be assigned through the property interface", fd.Name)

	case meta.KindInvalid:
		return nil, Errorf(ErrUnsupportedPropertyType, "property %q has an invalid kind", fd.Name)
	}
	return nil, Errorf(ErrUnsupportedPropertyType, "property kind %s is not supported", fd.Kind)
}

// ToWire converts a native field value into its wire projection
func ToWire(cat *meta.Catalog, native interface{}, fd *meta.Field) wire.Value {
	switch fd.Kind {
	case meta.KindBool:
		b, _ := native.(bool)
		return wire.B(b)
	case meta.KindInt:
		n, _ := native.(int64)
		return wire.N(float64(n))
	case meta.KindFloat:
		f, _ := native.(float64)
		return wire.N(f)
	case meta.KindString, meta.KindText, meta.KindEnum, meta.KindByteEnum:
		s, _ := native.(string)
		return wire.S(s)
	case meta.KindStruct:
		sv, ok := native.(*meta.StructVal)
		if !ok || sv == nil {
			return wire.Null()
		}
		st, ok := cat.Struct(fd.Struct)
		if !ok {
			return wire.Null()
		}
		obj := make(map[string]wire.Value, len(st.Fields))
		for _, f := range st.Fields {
			fv, _ := sv.Get(f.Name)
			obj[snakeCase(f.Name)] = ToWire(cat, fv, f)
		}
		return wire.O(obj)
	case meta.KindArray:
		arr, _ := native.([]interface{})
		out := make([]wire.Value, len(arr))
		for i, e := range arr {
			out[i] = ToWire(cat, e, fd.Elem)
		}
		return wire.A(out...)
	case meta.KindSet:
		set, ok := native.(*meta.SetVal)
		if !ok || set == nil {
			return wire.A()
		}
		out := make([]wire.Value, len(set.Elems))
		for i, e := range set.Elems {
			out[i] = ToWire(cat, e, fd.Elem)
		}
		return wire.A(out...)
	case meta.KindMap:
		m, ok := native.(*meta.MapVal)
		if !ok || m == nil {
			return wire.O(map[string]wire.Value{})
		}
		obj := make(map[string]wire.Value, len(m.Entries))
		for _, e := range m.Entries {
			obj[keyToString(e.Key)] = ToWire(cat, e.Value, fd.Value)
		}
		return wire.O(obj)
	case meta.KindObjectRef:
		if ref, ok := native.(*component.Component); ok && ref != nil {
			return wire.S(ref.Name)
		}
		return wire.Null()
	}
	return wire.Null()
}

// reparseOnce applies the single-pass string-to-JSON reinterpretation: a
// string payload that looks like a JSON literal is decoded exactly once.
// Never recursive, so doubly-encoded strings stay strings after one pass.
func reparseOnce(v wire.Value) wire.Value {
	if v.Kind != wire.KindString || !wire.LooksLikeJSON(v.Str) {
		return v
	}
	decoded, err := wire.Decode(v.Str)
	if err != nil {
		return v
	}
	return decoded
}

// structToNative converts a wire value into an instance of the named struct
// type, honoring the well-known shorthand shapes first.
func structToNative(cat *meta.Catalog, v wire.Value, typeName string) (interface{}, *Error) {
	switch typeName {
	case "Color":
		if sv, err, handled := colorToNative(cat, v); handled {
			return sv, err
		}
	case "Vector2":
		if sv, err, handled := positionalToNative(cat, v, typeName, 2, 2); handled {
			return sv, err
		}
	case "Vector3":
		if sv, err, handled := positionalToNative(cat, v, typeName, 3, 3); handled {
			return sv, err
		}
	case "Margin":
		if sv, err, handled := marginToNative(cat, v); handled {
			return sv, err
		}
	}

	if v.Kind != wire.KindObject {
		return nil, Errorf(ErrStructConversionFailed,
			"cannot convert %s value to struct %s", v.Kind, typeName)
	}
	return objectToStruct(cat, v, typeName)
}

// objectToStruct is the generic field-by-field conversion driven by the
// catalog. Unknown field names fail rather than being silently dropped.
func objectToStruct(cat *meta.Catalog, v wire.Value, typeName string) (*meta.StructVal, *Error) {
	st, ok := cat.Struct(typeName)
	if !ok {
		return nil, Errorf(ErrStructConversionFailed, "unknown struct type %q", typeName)
	}
	sv := meta.NewStruct(cat, typeName)

	keys := make([]string, 0, len(v.Obj))
	for k := range v.Obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fd, ok := st.Field(k)
		if !ok {
			return nil, Errorf(ErrStructConversionFailed,
				"struct %s has no field %q (fields: %s)", typeName, k, strings.Join(st.FieldNames(), ", "))
		}
		native, err := ToNative(cat, v.Obj[k], fd)
		if err != nil {
			return nil, Errorf(err.Kind, "struct %s field %q: %s", typeName, fd.Name, err.Message)
		}
		sv.Set(fd.Name, native)
	}
	return sv, nil
}

// positionalToNative handles the N-numbers-in-canonical-order array form of
// well-known structs. handled=false defers to the generic path.
func positionalToNative(cat *meta.Catalog, v wire.Value, typeName string, minLen, maxLen int) (*meta.StructVal, *Error, bool) {
	if v.Kind != wire.KindArray {
		return nil, nil, false
	}
	if len(v.Arr) < minLen || len(v.Arr) > maxLen {
		return nil, Errorf(ErrStructConversionFailed,
			"struct %s expects %d numbers, got %d", typeName, maxLen, len(v.Arr)), true
	}
	st, _ := cat.Struct(typeName)
	sv := meta.NewStruct(cat, typeName)
	for i, e := range v.Arr {
		if e.Kind != wire.KindNumber {
			return nil, Errorf(ErrStructConversionFailed,
				"struct %s expects numbers, got %s at position %d", typeName, e.Kind, i), true
		}
		sv.Set(st.Fields[i].Name, e.Num)
	}
	return sv, nil, true
}

func colorToNative(cat *meta.Catalog, v wire.Value) (*meta.StructVal, *Error, bool) {
	switch v.Kind {
	case wire.KindString:
		r, g, b, a, err := parseColorString(v.Str)
		if err != nil {
			return nil, err, true
		}
		return colorStruct(cat, r, g, b, a), nil, true
	case wire.KindArray:
		if len(v.Arr) != 3 && len(v.Arr) != 4 {
			return nil, Errorf(ErrStructConversionFailed,
				"struct Color expects 3 or 4 numbers, got %d", len(v.Arr)), true
		}
		nums := make([]float64, len(v.Arr))
		for i, e := range v.Arr {
			if e.Kind != wire.KindNumber {
				return nil, Errorf(ErrStructConversionFailed,
					"struct Color expects numbers, got %s at position %d", e.Kind, i), true
			}
			nums[i] = e.Num
		}
		a := 1.0
		if len(nums) == 4 {
			a = nums[3]
		}
		return colorStruct(cat, nums[0], nums[1], nums[2], a), nil, true
	case wire.KindObject:
		obj := make(map[string]wire.Value, len(v.Obj))
		for k, e := range v.Obj {
			obj[colorFieldAlias(k)] = e
		}
		sv, err := objectToStruct(cat, wire.O(obj), "Color")
		return sv, err, true
	}
	return nil, nil, false
}

func marginToNative(cat *meta.Catalog, v wire.Value) (*meta.StructVal, *Error, bool) {
	switch v.Kind {
	case wire.KindNumber:
		// Uniform margin on all four sides
		return marginStruct(cat, v.Num, v.Num, v.Num, v.Num), nil, true
	case wire.KindArray:
		nums := make([]float64, len(v.Arr))
		for i, e := range v.Arr {
			if e.Kind != wire.KindNumber {
				return nil, Errorf(ErrStructConversionFailed,
					"struct Margin expects numbers, got %s at position %d", e.Kind, i), true
			}
			nums[i] = e.Num
		}
		switch len(nums) {
		case 2:
			// [horizontal, vertical]
			return marginStruct(cat, nums[0], nums[1], nums[0], nums[1]), nil, true
		case 4:
			// [left, top, right, bottom]
			return marginStruct(cat, nums[0], nums[1], nums[2], nums[3]), nil, true
		}
		return nil, Errorf(ErrStructConversionFailed,
			"struct Margin expects 1 number, [h,v] or [left,top,right,bottom], got %d numbers", len(nums)), true
	}
	return nil, nil, false
}

func colorStruct(cat *meta.Catalog, r, g, b, a float64) *meta.StructVal {
	sv := meta.NewStruct(cat, "Color")
	sv.Set("R", r)
	sv.Set("G", g)
	sv.Set("B", b)
	sv.Set("A", a)
	return sv
}

func marginStruct(cat *meta.Catalog, l, t, r, b float64) *meta.StructVal {
	sv := meta.NewStruct(cat, "Margin")
	sv.Set("Left", l)
	sv.Set("Top", t)
	sv.Set("Right", r)
	sv.Set("Bottom", b)
	return sv
}

// colorFieldAlias maps long color channel names onto the canonical R/G/B/A
func colorFieldAlias(name string) string {
	switch strings.ToLower(name) {
	case "red":
		return "R"
	case "green":
		return "G"
	case "blue":
		return "B"
	case "alpha":
		return "A"
	}
	return name
}

// namedColors is the fixed color table accepted for color fields
var namedColors = map[string][4]float64{
	"white":       {1, 1, 1, 1},
	"black":       {0, 0, 0, 1},
	"red":         {1, 0, 0, 1},
	"green":       {0, 1, 0, 1},
	"blue":        {0, 0, 1, 1},
	"yellow":      {1, 1, 0, 1},
	"cyan":        {0, 1, 1, 1},
	"magenta":     {1, 0, 1, 1},
	"purple":      {1, 0, 1, 1},
	"orange":      {1, 0.5, 0, 1},
	"gray":        {0.5, 0.5, 0.5, 1},
	"grey":        {0.5, 0.5, 0.5, 1},
	"transparent": {0, 0, 0, 0},
}

func parseColorString(s string) (r, g, b, a float64, err *Error) {
	s = strings.TrimSpace(s)
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c[0], c[1], c[2], c[3], nil
	}
	if !strings.HasPrefix(s, "#") || (len(s) != 7 && len(s) != 9) {
		return 0, 0, 0, 0, Errorf(ErrStructConversionFailed,
			"cannot parse %q as a color; use #RRGGBB, #RRGGBBAA or a named color", s)
	}
	hex := s[1:]
	channels := make([]float64, 0, 4)
	for i := 0; i < len(hex); i += 2 {
		n, parseErr := strconv.ParseUint(hex[i:i+2], 16, 8)
		if parseErr != nil {
			return 0, 0, 0, 0, Errorf(ErrStructConversionFailed,
				"cannot parse %q as a color: invalid hex digits", s)
		}
		channels = append(channels, float64(n)/255.0)
	}
	a = 1
	if len(channels) == 4 {
		a = channels[3]
	}
	return channels[0], channels[1], channels[2], a, nil
}

func parseBoolString(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "on":
		return true, true
	case "false", "no", "0", "off":
		return false, true
	}
	return false, false
}

// keyToNative converts a wire object key into a map's native key kind
func keyToNative(key string, keyDesc *meta.Field) (interface{}, *Error) {
	switch keyDesc.Kind {
	case meta.KindString, meta.KindText:
		return key, nil
	case meta.KindInt:
		n, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, Errorf(ErrUnsupportedPropertyType, "map key %q is not a valid Int", key)
		}
		return n, nil
	case meta.KindEnum, meta.KindByteEnum:
		if ev, ok := keyDesc.EnumByName(key); ok {
			return ev.Name, nil
		}
		if ord, err := strconv.ParseInt(key, 10, 64); err == nil {
			if ev, ok := keyDesc.EnumByOrdinal(ord); ok {
				return ev.Name, nil
			}
		}
		return nil, Errorf(ErrInvalidEnumValue,
			"%q is not a valid enum map key; valid values: %s", key, strings.Join(keyDesc.EnumNames(), ", "))
	}
	return nil, Errorf(ErrUnsupportedPropertyType, "map key kind %s is not supported", keyDesc.Kind)
}

func keyToString(key interface{}) string {
	switch k := key.(type) {
	case string:
		return k
	case int64:
		return strconv.FormatInt(k, 10)
	default:
		return fmt.Sprintf("%v", k)
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func mismatch(v wire.Value, fd *meta.Field) *Error {
	return Errorf(ErrUnsupportedPropertyType,
		"cannot convert %s value %s to %s property %q", v.Kind, v.String(), fd.TypeName(), fd.Name)
}

// snakeCase renders a field name as its wire key: MinX -> min_x, Left -> left
func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && name[i-1] >= 'a' && name[i-1] <= 'z' {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
