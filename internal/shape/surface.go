package shape

import "image/color"

// PaintMode selects how a Surface combines new pixels with existing ones.
type PaintMode int

const (
	// PaintNormal draws over the existing content.
	PaintNormal PaintMode = iota
	// PaintXOR combines with the existing content so that drawing the
	// same figure twice restores the pixels underneath.
	PaintXOR
)

func (m PaintMode) String() string {
	switch m {
	case PaintXOR:
		return "xor"
	default:
		return "normal"
	}
}

// Surface is the drawing collaborator shapes render against. All
// coordinates are logical coordinates.
type Surface interface {
	Clear(bg color.Color)
	SetColor(c color.Color)
	SetPaintMode(m PaintMode)
	Line(x0, y0, x1, y1 float64)
	Rectangle(x0, y0, x1, y1 float64)
	Circle(cx, cy, r float64)
	Triangle(x0, y0, x1, y1, x2, y2 float64)
}
