package meta

// Kind is the closed set of field kinds the engine understands. The resolver
// and coercion layer switch exhaustively over it; adding a kind is a
// compile-visible change, not a silently ignored branch.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindText
	KindByteEnum
	KindEnum
	KindStruct
	KindArray
	KindSet
	KindMap
	KindObjectRef
)

// String returns the kind name used in property-type reporting
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindText:
		return "Text"
	case KindByteEnum:
		return "ByteEnum"
	case KindEnum:
		return "Enum"
	case KindStruct:
		return "Struct"
	case KindArray:
		return "Array"
	case KindSet:
		return "Set"
	case KindMap:
		return "Map"
	case KindObjectRef:
		return "ObjectRef"
	default:
		return "Invalid"
	}
}

// IsNumeric reports whether values of this kind are numbers
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindFloat
}

// IsEnum reports whether the kind carries an enum value domain
func (k Kind) IsEnum() bool {
	return k == KindEnum || k == KindByteEnum
}

// IsStringLike reports whether the kind stores text
func (k Kind) IsStringLike() bool {
	return k == KindString || k == KindText
}
