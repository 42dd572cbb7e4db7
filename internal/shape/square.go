package shape

import "math"

// Square is a rectangle whose sides are kept equal: every SetCoords call
// derives the far corner from the anchor corner and the larger of the
// two raw deltas.
type Square struct {
	frame
}

// NewSquare creates a square anchored at (c.X0, c.Y0).
func NewSquare(c Coords) *Square {
	s := &Square{}
	s.SetCoords(c, false)
	return s
}

func (s *Square) KindID() string      { return KindSquare }
func (s *Square) DisplayName() string { return "Square" }

// SetCoords stores the squared-off version of c.
func (s *Square) SetCoords(c Coords, provisional bool) {
	s.frame.SetCoords(squareOff(c), provisional)
}

func (s *Square) IsHit(x, y float64) bool {
	return inBox(s.committed, x, y)
}

func (s *Square) Render(sf Surface, provisional bool) {
	c := s.slot(provisional)
	sf.Rectangle(c.X0, c.Y0, c.X1, c.Y1)
}

func (s *Square) Bounds() Rect {
	return s.committed.Box()
}

// sideEpsilon bounds, relative to the largest coordinate, the rounding
// error left by deriving a side with one addition. Sides closer than that
// count as equal.
const sideEpsilon = 1e-12

// sideTolerance is the largest difference between the two side lengths
// of c that still counts as square.
func sideTolerance(c Coords) float64 {
	return sideEpsilon * max(1, math.Abs(c.X0), math.Abs(c.Y0), math.Abs(c.X1), math.Abs(c.Y1))
}

// squareOff stretches the shorter axis to the magnitude of the longer one.
// When both deltas point the same way the shorter axis copies the longer
// delta; otherwise it copies the negated delta, which keeps its own
// direction. A zero delta counts as "not the same way". Equal magnitudes,
// within sideTolerance, are kept as given, so squaring a square is a no-op.
func squareOff(c Coords) Coords {
	dx, dy := c.X1-c.X0, c.Y1-c.Y0
	if math.Abs(math.Abs(dx)-math.Abs(dy)) <= sideTolerance(c) {
		return c
	}
	same := (dx > 0 && dy > 0) || (dx < 0 && dy < 0)

	out := c
	if math.Abs(dx) < math.Abs(dy) {
		if same {
			out.X1 = c.X0 + dy
		} else {
			out.X1 = c.X0 - dy
		}
	} else {
		if same {
			out.Y1 = c.Y0 + dx
		} else {
			out.Y1 = c.Y0 - dx
		}
	}
	return out
}
