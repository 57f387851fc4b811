package meta

// Descriptor constructors. These keep catalog declarations readable; they are
// also used by tests to fabricate catalogs.

// Bool declares a bool field
func Bool(name string) *Field { return &Field{Name: name, Kind: KindBool} }

// Int declares an integer field
func Int(name string) *Field { return &Field{Name: name, Kind: KindInt} }

// Float declares a float field
func Float(name string) *Field { return &Field{Name: name, Kind: KindFloat} }

// String declares a string field
func String(name string) *Field { return &Field{Name: name, Kind: KindString} }

// Text declares a localizable text field
func Text(name string) *Field { return &Field{Name: name, Kind: KindText} }

// Enum declares an enum field whose ordinals follow declaration order
func Enum(name string, members ...string) *Field {
	f := &Field{Name: name, Kind: KindEnum}
	for i, m := range members {
		f.Enum = append(f.Enum, EnumValue{Name: m, Ordinal: int64(i)})
	}
	return f
}

// ByteEnum declares a byte-backed enum field
func ByteEnum(name string, members ...string) *Field {
	f := Enum(name, members...)
	f.Kind = KindByteEnum
	return f
}

// Struct declares a nested struct field
func Struct(name, typeName string) *Field {
	return &Field{Name: name, Kind: KindStruct, Struct: typeName}
}

// Array declares an array field
func Array(name string, elem *Field) *Field {
	return &Field{Name: name, Kind: KindArray, Elem: elem}
}

// SetOf declares a set field
func SetOf(name string, elem *Field) *Field {
	return &Field{Name: name, Kind: KindSet, Elem: elem}
}

// MapOf declares a map field
func MapOf(name string, key, value *Field) *Field {
	return &Field{Name: name, Kind: KindMap, Key: key, Value: value}
}

// Ref declares an object-reference field
func Ref(name string) *Field { return &Field{Name: name, Kind: KindObjectRef} }

// Bounded attaches numeric min/max metadata
func (f *Field) Bounded(min, max float64) *Field {
	f.Min = &min
	f.Max = &max
	return f
}

// Locked marks the field read-only
func (f *Field) Locked() *Field {
	f.ReadOnly = true
	return f
}

// Slot kind names. Canvas slots expose placement through accessor methods
// only; box and grid slots are plain field structs resolved like any other.
const (
	SlotCanvas = "CanvasSlot"
	SlotBox    = "BoxSlot"
	SlotGrid   = "GridSlot"
)

// Builtin returns the process-wide catalog of UI component and struct types.
// Built once at startup and shared read-only.
func Builtin() *Catalog {
	b := NewBuilder()

	// Well-known value structs. Field order is the canonical positional
	// order accepted by the coercion layer.
	b.Struct("Vector2", Float("X"), Float("Y"))
	b.Struct("Vector3", Float("X"), Float("Y"), Float("Z"))
	b.Struct("Color",
		Float("R").Bounded(0, 1),
		Float("G").Bounded(0, 1),
		Float("B").Bounded(0, 1),
		Float("A").Bounded(0, 1),
	)
	b.Struct("Margin", Float("Left"), Float("Top"), Float("Right"), Float("Bottom"))
	b.Struct("Anchors",
		Float("MinX").Bounded(0, 1),
		Float("MinY").Bounded(0, 1),
		Float("MaxX").Bounded(0, 1),
		Float("MaxY").Bounded(0, 1),
	)
	b.Struct("FontInfo",
		String("Family"),
		Int("Size").Bounded(1, 200),
		Enum("Weight", "Light", "Regular", "Medium", "Bold"),
	)
	b.Struct("Shadow",
		Struct("Offset", "Vector2"),
		Struct("Tint", "Color"),
		Float("Blur").Bounded(0, 64),
	)

	// Slot structs. Canvas placement is method-backed, so its struct carries
	// no plain fields; resolution falls through to the synthetic registry.
	b.Struct(SlotCanvas)
	b.Struct(SlotBox,
		Struct("Padding", "Margin"),
		Enum("HorizontalAlignment", "Fill", "Left", "Center", "Right"),
		Enum("VerticalAlignment", "Fill", "Top", "Center", "Bottom"),
		Float("FillWeight").Bounded(0, 100),
	)
	b.Struct(SlotGrid,
		Int("Row").Bounded(0, 1024),
		Int("Column").Bounded(0, 1024),
		Int("RowSpan").Bounded(1, 64),
		Int("ColumnSpan").Bounded(1, 64),
	)

	// Leaf components
	b.Component("Text",
		Text("Text"),
		Struct("Color", "Color"),
		Struct("Font", "FontInfo"),
		Struct("DropShadow", "Shadow"),
		Bool("Visible"),
		Enum("Justification", "Left", "Center", "Right"),
		Array("Tags", String("")),
		MapOf("Metadata", String(""), String("")),
	)
	b.Component("Button",
		Text("Label"),
		Bool("Enabled"),
		Struct("Tint", "Color"),
		Struct("Padding", "Margin"),
		SetOf("Classes", String("")),
		Ref("Tooltip"),
	)
	b.Component("Image",
		String("Source"),
		Struct("Tint", "Color"),
		Enum("Stretch", "None", "Fill", "Uniform", "UniformToFill"),
		Struct("DesiredSize", "Vector2").Locked(),
	)
	b.Component("ProgressBar",
		Float("Percent").Bounded(0, 1),
		Struct("FillColor", "Color"),
		ByteEnum("BarStyle", "Solid", "Segmented", "Marquee"),
	)
	b.Component("Slider",
		Float("Value"),
		Float("Min"),
		Float("Max"),
		Float("StepSize").Bounded(0, 1000),
		Enum("Orientation", "Horizontal", "Vertical"),
		Ref("Output"),
	)

	// Containers. The slot kind determines what the children's Slot paths
	// resolve against.
	b.Container("CanvasPanel", SlotCanvas,
		Bool("ClipChildren"),
		Struct("Background", "Color"),
	)
	b.Container("BoxPanel", SlotBox,
		Enum("Direction", "Horizontal", "Vertical"),
		Struct("Background", "Color"),
	)
	b.Container("GridPanel", SlotGrid,
		Int("Rows").Bounded(1, 1024),
		Int("Columns").Bounded(1, 1024),
		Array("ColumnFill", Float("")),
	)

	return b.MustBuild()
}
