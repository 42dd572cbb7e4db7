// Package export renders drawings to PNG and PDF.
package export

import (
	"github.com/planer/planer/internal/engine"
	"github.com/planer/planer/internal/shape"
)

const margin = 16

// Fit returns the transform that places the bounds of shapes inside a
// width x height page with a margin. Drawings that already fit keep
// their logical size; larger ones are scaled down.
func Fit(shapes []shape.Shape, width, height float64) engine.Matrix2D {
	b, ok := shape.BoundsOf(shapes)
	if !ok {
		return engine.Identity()
	}
	b = b.Pad(margin)

	scale := min(1, width/b.Width, height/b.Height)
	return engine.Scale(scale, scale).Multiply(engine.Translate(-b.X, -b.Y))
}

// Render paints a committed frame of shapes.
func Render(s shape.Surface, shapes []shape.Shape, colors engine.Colors) {
	s.Clear(colors.Background)
	s.SetPaintMode(shape.PaintNormal)
	s.SetColor(colors.Pen)
	for _, sh := range shapes {
		sh.Render(s, false)
	}
}
