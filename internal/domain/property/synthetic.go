package property

import (
	"strings"

	"github.com/mosaicui/mosaic/backend/internal/domain/component"
	"github.com/mosaicui/mosaic/backend/internal/domain/meta"
)

// OrderProperty is the ordering pseudo-property: a component's position among
// its parent's children, addressed as "Slot.Order". It has no backing field;
// writing it reorders the child list and is a structural change.
const OrderProperty = "Order"

// SlotAccessor is one method-backed placement property of a canvas slot.
// The descriptor drives coercion and type reporting exactly as a real field
// descriptor would, but reads and writes go through the slot's methods.
type SlotAccessor struct {
	Name string
	Desc *meta.Field
	Get  func(cat *meta.Catalog, s *component.Slot) interface{}
	Set  func(s *component.Slot, native interface{}) *Error
}

// slotAccessors is the synthetic property registry for canvas slots.
// Populated once at init and read-only thereafter.
var slotAccessors = buildSlotAccessors()

// LookupSlotAccessor finds an accessor by name (case-insensitive)
func LookupSlotAccessor(name string) (*SlotAccessor, bool) {
	acc, ok := slotAccessors[strings.ToLower(name)]
	return acc, ok
}

// SlotAccessorNames returns the recognized accessor names in a stable order
func SlotAccessorNames() []string {
	return []string{"Alignment", "Anchors", "Position", "Size", "AutoSize", "ZOrder"}
}

func buildSlotAccessors() map[string]*SlotAccessor {
	accessors := []*SlotAccessor{
		{
			Name: "Alignment",
			Desc: meta.Struct("Alignment", "Vector2"),
			Get: func(cat *meta.Catalog, s *component.Slot) interface{} {
				x, y := s.Alignment()
				return vec2(cat, x, y)
			},
			Set: func(s *component.Slot, native interface{}) *Error {
				x, y, err := vec2Parts(native)
				if err != nil {
					return err
				}
				s.SetAlignment(x, y)
				return nil
			},
		},
		{
			Name: "Anchors",
			Desc: meta.Struct("Anchors", "Anchors"),
			Get: func(cat *meta.Catalog, s *component.Slot) interface{} {
				minX, minY, maxX, maxY := s.Anchors()
				sv := meta.NewStruct(cat, "Anchors")
				sv.Set("MinX", minX)
				sv.Set("MinY", minY)
				sv.Set("MaxX", maxX)
				sv.Set("MaxY", maxY)
				return sv
			},
			Set: func(s *component.Slot, native interface{}) *Error {
				sv, ok := native.(*meta.StructVal)
				if !ok {
					return Errorf(ErrStructConversionFailed, "anchors require an Anchors value")
				}
				s.SetAnchors(
					floatField(sv, "MinX"),
					floatField(sv, "MinY"),
					floatField(sv, "MaxX"),
					floatField(sv, "MaxY"),
				)
				return nil
			},
		},
		{
			Name: "Position",
			Desc: meta.Struct("Position", "Vector2"),
			Get: func(cat *meta.Catalog, s *component.Slot) interface{} {
				x, y := s.Position()
				return vec2(cat, x, y)
			},
			Set: func(s *component.Slot, native interface{}) *Error {
				x, y, err := vec2Parts(native)
				if err != nil {
					return err
				}
				s.SetPosition(x, y)
				return nil
			},
		},
		{
			Name: "Size",
			Desc: meta.Struct("Size", "Vector2"),
			Get: func(cat *meta.Catalog, s *component.Slot) interface{} {
				x, y := s.Size()
				return vec2(cat, x, y)
			},
			Set: func(s *component.Slot, native interface{}) *Error {
				x, y, err := vec2Parts(native)
				if err != nil {
					return err
				}
				s.SetSize(x, y)
				return nil
			},
		},
		{
			Name: "AutoSize",
			Desc: meta.Bool("AutoSize"),
			Get: func(cat *meta.Catalog, s *component.Slot) interface{} {
				return s.AutoSize()
			},
			Set: func(s *component.Slot, native interface{}) *Error {
				b, ok := native.(bool)
				if !ok {
					return Errorf(ErrUnsupportedPropertyType, "auto-size requires a Bool value")
				}
				s.SetAutoSize(b)
				return nil
			},
		},
		{
			Name: "ZOrder",
			Desc: meta.Int("ZOrder"),
			Get: func(cat *meta.Catalog, s *component.Slot) interface{} {
				return s.ZOrder()
			},
			Set: func(s *component.Slot, native interface{}) *Error {
				n, ok := native.(int64)
				if !ok {
					return Errorf(ErrUnsupportedPropertyType, "z-order requires an Int value")
				}
				s.SetZOrder(n)
				return nil
			},
		},
	}

	byName := make(map[string]*SlotAccessor, len(accessors))
	for _, acc := range accessors {
		byName[strings.ToLower(acc.Name)] = acc
	}
	return byName
}

// OrderingGet returns the component's index among its siblings
func OrderingGet(c *component.Component) (int, *Error) {
	if c.Parent() == nil {
		return 0, Errorf(ErrNotApplicable, "component %q has no parent; ordering does not apply", c.Name)
	}
	return c.Index(), nil
}

// OrderingSet moves the component to the given (clamped) sibling index and
// returns the final position.
func OrderingSet(c *component.Component, index int) (int, *Error) {
	if c.Parent() == nil {
		return 0, Errorf(ErrNotApplicable, "component %q has no parent; ordering does not apply", c.Name)
	}
	return c.Reorder(index), nil
}

func vec2(cat *meta.Catalog, x, y float64) *meta.StructVal {
	sv := meta.NewStruct(cat, "Vector2")
	sv.Set("X", x)
	sv.Set("Y", y)
	return sv
}

func vec2Parts(native interface{}) (x, y float64, err *Error) {
	sv, ok := native.(*meta.StructVal)
	if !ok {
		return 0, 0, Errorf(ErrStructConversionFailed, "expected a Vector2 value")
	}
	return floatField(sv, "X"), floatField(sv, "Y"), nil
}

func floatField(sv *meta.StructVal, name string) float64 {
	v, _ := sv.Get(name)
	f, _ := v.(float64)
	return f
}
