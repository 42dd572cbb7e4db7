package shape

// Kind identifiers of the built-in shapes. They double as the
// serialization key written to the XML wire format.
const (
	KindRectangle     = "rectangle"
	KindSquare        = "square"
	KindRightTriangle = "right-triangle"
	KindCircle        = "circle"
)

// Shape is the capability set every shape kind satisfies.
//
// A shape carries two coordinate slots: the committed coordinates are
// authoritative (hit testing, persistence), the provisional ones shadow
// them while a gesture is in progress. Outside a gesture both slots hold
// the same values.
type Shape interface {
	// KindID returns the stable registry/serialization key.
	KindID() string
	// DisplayName returns the human-readable name shown in menus.
	DisplayName() string

	// SetCoords writes the provisional slot, or both slots when
	// provisional is false. Corner order is not significant.
	SetCoords(c Coords, provisional bool)
	// Commit promotes the provisional slot to committed.
	Commit()
	// Move translates one slot by (dx, dy) relative to the committed
	// coordinates.
	Move(dx, dy float64, provisional bool)

	// IsHit reports whether (x, y) lies inside the committed shape.
	IsHit(x, y float64) bool
	// Render issues drawing calls for one of the two slots.
	Render(s Surface, provisional bool)

	Coords() Coords
	Provisional() Coords
	Bounds() Rect
}

// Coords are the two reference corners of a shape's bounding frame.
type Coords struct {
	X0, Y0, X1, Y1 float64
}

// C is shorthand for building Coords.
func C(x0, y0, x1, y1 float64) Coords {
	return Coords{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Translate returns the coordinates shifted by (dx, dy).
func (c Coords) Translate(dx, dy float64) Coords {
	return Coords{X0: c.X0 + dx, Y0: c.Y0 + dy, X1: c.X1 + dx, Y1: c.Y1 + dy}
}

// Box returns the normalized axis-aligned box spanned by the corners.
func (c Coords) Box() Rect {
	minX, maxX := min(c.X0, c.X1), max(c.X0, c.X1)
	minY, maxY := min(c.Y0, c.Y1), max(c.Y0, c.Y1)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// frame holds the committed/provisional slot pair shared by all kinds.
type frame struct {
	committed   Coords
	provisional Coords
}

func (f *frame) SetCoords(c Coords, provisional bool) {
	if provisional {
		f.provisional = c
		return
	}
	f.committed = c
	f.provisional = c
}

func (f *frame) Commit() {
	f.committed = f.provisional
}

func (f *frame) Move(dx, dy float64, provisional bool) {
	if provisional {
		f.provisional = f.committed.Translate(dx, dy)
		return
	}
	f.committed = f.committed.Translate(dx, dy)
	f.provisional = f.committed
}

func (f *frame) Coords() Coords      { return f.committed }
func (f *frame) Provisional() Coords { return f.provisional }

func (f *frame) slot(provisional bool) Coords {
	if provisional {
		return f.provisional
	}
	return f.committed
}

// inBox is the axis-aligned containment test shared by rectangles and
// squares; it does not care which corner is numerically smaller.
func inBox(c Coords, x, y float64) bool {
	return x >= min(c.X0, c.X1) && x <= max(c.X0, c.X1) &&
		y >= min(c.Y0, c.Y1) && y <= max(c.Y0, c.Y1)
}

var (
	_ Shape = (*Rectangle)(nil)
	_ Shape = (*Square)(nil)
	_ Shape = (*RightTriangle)(nil)
	_ Shape = (*Circle)(nil)
)
