package document

import "github.com/planer/planer/internal/shape"

// Sample returns a small drawing with one shape of every built-in kind,
// laid out left to right.
func Sample() []shape.Shape {
	return []shape.Shape{
		shape.NewRectangle(shape.C(40, 60, 200, 160)),
		shape.NewSquare(shape.C(240, 60, 340, 160)),
		shape.NewRightTriangle(shape.C(380, 60, 500, 180)),
		shape.NewCircle(shape.C(540, 60, 640, 160)),
	}
}
