package shape

// Rect represents an axis-aligned bounding box. A zero width or height is
// a valid box: a rectangle drawn without dragging is a line or a point.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)

	return Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Pad grows the rect by m on every side.
func (r Rect) Pad(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, Width: r.Width + 2*m, Height: r.Height + 2*m}
}

// BoundsOf returns the union of the committed bounds of all shapes. ok is
// false when there are no shapes.
func BoundsOf(shapes []Shape) (bounds Rect, ok bool) {
	for i, s := range shapes {
		if i == 0 {
			bounds = s.Bounds()
			continue
		}
		bounds = bounds.Union(s.Bounds())
	}
	return bounds, len(shapes) > 0
}
