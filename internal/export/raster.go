package export

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/planer/planer/internal/engine"
	"github.com/planer/planer/internal/shape"
)

const (
	defaultLineWidth = 1.5
	// xorThreshold is the mask coverage above which a pixel is flipped in
	// XOR mode. XOR has no notion of partial coverage.
	xorThreshold = 0x80
)

// RasterSurface paints shapes into an RGBA image. Geometry is mapped from
// logical to pixel coordinates through a transform.
type RasterSurface struct {
	img       *image.RGBA
	m         engine.Matrix2D
	color     color.RGBA
	bg        color.RGBA
	mode      shape.PaintMode
	lineWidth float64
}

var _ shape.Surface = (*RasterSurface)(nil)

func NewRasterSurface(width, height int, m engine.Matrix2D) *RasterSurface {
	return &RasterSurface{
		img:       image.NewRGBA(image.Rect(0, 0, width, height)),
		m:         m,
		color:     color.RGBA{A: 0xff},
		bg:        color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		lineWidth: defaultLineWidth,
	}
}

func (s *RasterSurface) Image() *image.RGBA { return s.img }

// SetLineWidth sets the stroke width in pixels.
func (s *RasterSurface) SetLineWidth(w float64) { s.lineWidth = w }

func (s *RasterSurface) Clear(bg color.Color) {
	s.bg = toRGBA(bg)
	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{C: s.bg}, image.Point{}, draw.Src)
}

func (s *RasterSurface) SetColor(c color.Color) { s.color = toRGBA(c) }

func (s *RasterSurface) SetPaintMode(m shape.PaintMode) { s.mode = m }

func (s *RasterSurface) Line(x0, y0, x1, y1 float64) {
	s.stroke([]point{{x0, y0}, {x1, y1}}, false)
}

func (s *RasterSurface) Rectangle(x0, y0, x1, y1 float64) {
	s.stroke([]point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}, true)
}

func (s *RasterSurface) Triangle(x0, y0, x1, y1, x2, y2 float64) {
	s.stroke([]point{{x0, y0}, {x1, y1}, {x2, y2}}, true)
}

func (s *RasterSurface) Circle(cx, cy, r float64) {
	px, py := s.m.TransformPoint(cx, cy)
	pr := r * s.m.ScaleFactor()
	half := s.lineWidth / 2

	z := s.rasterizer()
	// Outer and inner outlines wind in opposite directions, leaving a ring.
	ring(z, px, py, pr+half, false)
	if inner := pr - half; inner > 0 {
		ring(z, px, py, inner, true)
	}
	s.paint(z)
}

type point struct{ x, y float64 }

// stroke outlines a polyline as one quad per segment, extended by half
// the line width at both ends so corners are filled.
func (s *RasterSurface) stroke(pts []point, closed bool) {
	for i, p := range pts {
		pts[i].x, pts[i].y = s.m.TransformPoint(p.x, p.y)
	}
	if closed {
		pts = append(pts, pts[0])
	}

	half := s.lineWidth / 2
	z := s.rasterizer()
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx, dy := b.x-a.x, b.y-a.y
		length := math.Hypot(dx, dy)
		if length == 0 {
			// A degenerate segment still marks its point.
			dx, dy, length = 1, 0, 1
		}
		ux, uy := dx/length*half, dy/length*half
		nx, ny := -uy, ux

		z.MoveTo(float32(a.x-ux+nx), float32(a.y-uy+ny))
		z.LineTo(float32(b.x+ux+nx), float32(b.y+uy+ny))
		z.LineTo(float32(b.x+ux-nx), float32(b.y+uy-ny))
		z.LineTo(float32(a.x-ux-nx), float32(a.y-uy-ny))
		z.ClosePath()
	}
	s.paint(z)
}

func ring(z *vector.Rasterizer, cx, cy, r float64, reverse bool) {
	n := max(32, int(r))
	for i := 0; i <= n; i++ {
		t := 2 * math.Pi * float64(i) / float64(n)
		if reverse {
			t = -t
		}
		x, y := float32(cx+r*math.Cos(t)), float32(cy+r*math.Sin(t))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

func (s *RasterSurface) rasterizer() *vector.Rasterizer {
	b := s.img.Bounds()
	return vector.NewRasterizer(b.Dx(), b.Dy())
}

func (s *RasterSurface) paint(z *vector.Rasterizer) {
	b := s.img.Bounds()
	mask := image.NewAlpha(b)
	z.Draw(mask, b, image.Opaque, image.Point{})

	if s.mode != shape.PaintXOR {
		draw.DrawMask(s.img, b, &image.Uniform{C: s.color}, image.Point{}, mask, image.Point{}, draw.Over)
		return
	}

	// XOR against the background maps background pixels to the pen color
	// and back again on the second pass.
	kr, kg, kb := s.color.R^s.bg.R, s.color.G^s.bg.G, s.color.B^s.bg.B
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.AlphaAt(x, y).A < xorThreshold {
				continue
			}
			i := s.img.PixOffset(x, y)
			s.img.Pix[i] ^= kr
			s.img.Pix[i+1] ^= kg
			s.img.Pix[i+2] ^= kb
		}
	}
}

func toRGBA(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}
