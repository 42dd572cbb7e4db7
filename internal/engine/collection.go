package engine

import (
	"slices"

	"github.com/planer/planer/internal/shape"
)

// Collection is the ordered shape list of a session. Order is paint
// order: later shapes are drawn on top and win hit tests.
type Collection struct {
	shapes []shape.Shape
}

// NewCollection creates a collection holding shapes in the given order.
func NewCollection(shapes ...shape.Shape) *Collection {
	return &Collection{shapes: slices.Clone(shapes)}
}

func (c *Collection) Append(s shape.Shape) {
	c.shapes = append(c.shapes, s)
}

// Remove deletes s by identity. It reports whether s was present.
func (c *Collection) Remove(s shape.Shape) bool {
	i := slices.Index(c.shapes, s)
	if i < 0 {
		return false
	}
	c.shapes = slices.Delete(c.shapes, i, i+1)
	return true
}

// HitTest returns the last shape containing (x, y), or nil when no shape
// is hit.
func (c *Collection) HitTest(x, y float64) shape.Shape {
	for i := len(c.shapes) - 1; i >= 0; i-- {
		if c.shapes[i].IsHit(x, y) {
			return c.shapes[i]
		}
	}
	return nil
}

// Replace swaps the whole content for shapes.
func (c *Collection) Replace(shapes []shape.Shape) {
	c.shapes = slices.Clone(shapes)
}

func (c *Collection) Len() int { return len(c.shapes) }

// All returns the shapes in paint order. The slice is a copy; the shapes
// are not.
func (c *Collection) All() []shape.Shape {
	return slices.Clone(c.shapes)
}
