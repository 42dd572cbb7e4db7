package shape

// Rectangle is an axis-aligned rectangle spanned by its two corners.
type Rectangle struct {
	frame
}

// NewRectangle creates a rectangle with committed coordinates c.
func NewRectangle(c Coords) *Rectangle {
	r := &Rectangle{}
	r.SetCoords(c, false)
	return r
}

func (r *Rectangle) KindID() string      { return KindRectangle }
func (r *Rectangle) DisplayName() string { return "Rectangle" }

func (r *Rectangle) IsHit(x, y float64) bool {
	return inBox(r.committed, x, y)
}

func (r *Rectangle) Render(s Surface, provisional bool) {
	c := r.slot(provisional)
	s.Rectangle(c.X0, c.Y0, c.X1, c.Y1)
}

func (r *Rectangle) Bounds() Rect {
	return r.committed.Box()
}
