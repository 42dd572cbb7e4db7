package shape

import "math"

// Circle is defined by its bounding frame: the center is the frame
// midpoint and the radius is half the frame diagonal.
type Circle struct {
	frame
}

// NewCircle creates a circle with committed coordinates c.
func NewCircle(c Coords) *Circle {
	ci := &Circle{}
	ci.SetCoords(c, false)
	return ci
}

func (ci *Circle) KindID() string      { return KindCircle }
func (ci *Circle) DisplayName() string { return "Circle" }

func (ci *Circle) IsHit(x, y float64) bool {
	cx, cy, r := circleOf(ci.committed)
	return math.Hypot(x-cx, y-cy) <= r
}

func (ci *Circle) Render(s Surface, provisional bool) {
	cx, cy, r := circleOf(ci.slot(provisional))
	s.Circle(cx, cy, r)
}

func (ci *Circle) Bounds() Rect {
	cx, cy, r := circleOf(ci.committed)
	return Rect{X: cx - r, Y: cy - r, Width: 2 * r, Height: 2 * r}
}

func circleOf(c Coords) (cx, cy, r float64) {
	cx = c.X0 + (c.X1-c.X0)/2
	cy = c.Y0 + (c.Y1-c.Y0)/2
	r = math.Hypot(c.X1-c.X0, c.Y1-c.Y0) / 2
	return cx, cy, r
}
