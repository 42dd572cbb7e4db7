package shape

// RightTriangle has its vertices at (x0,y0), (x1,y0) and (x1,y1); the
// right angle sits at (x1,y0).
type RightTriangle struct {
	frame
}

// NewRightTriangle creates a right triangle with committed coordinates c.
func NewRightTriangle(c Coords) *RightTriangle {
	t := &RightTriangle{}
	t.SetCoords(c, false)
	return t
}

func (t *RightTriangle) KindID() string      { return KindRightTriangle }
func (t *RightTriangle) DisplayName() string { return "Right Triangle" }

// IsHit applies the intercept theorem: at a given x the allowed y range
// runs from y0 to the hypotenuse, whose height is interpolated linearly
// between y0 and y1. Which side of the bound is inside depends on the
// orientation of the two legs.
func (t *RightTriangle) IsHit(x, y float64) bool {
	c := t.committed
	switch {
	case c.X0 < c.X1 && c.Y0 < c.Y1:
		limit := c.Y0 + (c.Y1-c.Y0)*((x-c.X0)/(c.X1-c.X0))
		return x >= c.X0 && x <= c.X1 && y >= c.Y0 && y <= limit
	case c.X0 < c.X1 && c.Y0 > c.Y1:
		limit := c.Y0 + (c.Y1-c.Y0)*((x-c.X0)/(c.X1-c.X0))
		return x >= c.X0 && x <= c.X1 && y <= c.Y0 && y >= limit
	case c.X0 > c.X1 && c.Y0 < c.Y1:
		limit := c.Y0 + (c.Y1-c.Y0)*((c.X0-x)/(c.X0-c.X1))
		return x <= c.X0 && x >= c.X1 && y >= c.Y0 && y <= limit
	default:
		limit := c.Y0 + (c.Y1-c.Y0)*((c.X0-x)/(c.X0-c.X1))
		return x <= c.X0 && x >= c.X1 && y <= c.Y0 && y >= limit
	}
}

func (t *RightTriangle) Render(s Surface, provisional bool) {
	c := t.slot(provisional)
	s.Triangle(c.X0, c.Y0, c.X1, c.Y0, c.X1, c.Y1)
}

func (t *RightTriangle) Bounds() Rect {
	return t.committed.Box()
}
