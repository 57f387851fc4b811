package component

import "github.com/mosaicui/mosaic/backend/internal/domain/meta"

// Slot is a placement record describing how a component sits within its
// parent container. The slot kind follows the parent's container type. Box
// and grid slots expose plain fields through Props; canvas slots expose
// placement only through the accessor methods below.
type Slot struct {
	Kind string // meta.SlotCanvas, meta.SlotBox, meta.SlotGrid

	// Props holds the plain slot fields. Empty (but non-nil) for canvas
	// slots, so slot-rooted resolution can always start here.
	Props *meta.StructVal

	layout canvasLayout
}

// canvasLayout is the method-backed placement state of a canvas slot. None
// of these are reachable through field descriptors; the synthetic property
// registry is the only access path.
type canvasLayout struct {
	alignX, alignY         float64
	anchorMinX, anchorMinY float64
	anchorMaxX, anchorMaxY float64
	posX, posY             float64
	sizeX, sizeY           float64
	autoSize               bool
	zOrder                 int64
}

// NewSlot creates a slot of the given kind with zero-valued fields
func NewSlot(cat *meta.Catalog, kind string) *Slot {
	return &Slot{
		Kind:  kind,
		Props: meta.NewStruct(cat, kind),
		layout: canvasLayout{
			sizeX: 100,
			sizeY: 40,
		},
	}
}

// IsCanvas reports whether the slot supports method-backed placement
func (s *Slot) IsCanvas() bool { return s.Kind == meta.SlotCanvas }

// Alignment returns the pivot fraction within the slot geometry
func (s *Slot) Alignment() (x, y float64) { return s.layout.alignX, s.layout.alignY }

// SetAlignment sets the pivot fraction
func (s *Slot) SetAlignment(x, y float64) {
	s.layout.alignX, s.layout.alignY = x, y
}

// Anchors returns the min/max anchor fractions
func (s *Slot) Anchors() (minX, minY, maxX, maxY float64) {
	return s.layout.anchorMinX, s.layout.anchorMinY, s.layout.anchorMaxX, s.layout.anchorMaxY
}

// SetAnchors sets the min/max anchor fractions
func (s *Slot) SetAnchors(minX, minY, maxX, maxY float64) {
	s.layout.anchorMinX, s.layout.anchorMinY = minX, minY
	s.layout.anchorMaxX, s.layout.anchorMaxY = maxX, maxY
}

// Position returns the absolute offset from the anchor point
func (s *Slot) Position() (x, y float64) { return s.layout.posX, s.layout.posY }

// SetPosition sets the absolute offset
func (s *Slot) SetPosition(x, y float64) { s.layout.posX, s.layout.posY = x, y }

// Size returns the slot extent
func (s *Slot) Size() (x, y float64) { return s.layout.sizeX, s.layout.sizeY }

// SetSize sets the slot extent
func (s *Slot) SetSize(x, y float64) { s.layout.sizeX, s.layout.sizeY = x, y }

// AutoSize reports whether the slot sizes itself to its content
func (s *Slot) AutoSize() bool { return s.layout.autoSize }

// SetAutoSize toggles content-driven sizing
func (s *Slot) SetAutoSize(v bool) { s.layout.autoSize = v }

// ZOrder returns the stacking order within the canvas
func (s *Slot) ZOrder() int64 { return s.layout.zOrder }

// SetZOrder sets the stacking order
func (s *Slot) SetZOrder(v int64) { s.layout.zOrder = v }
