package export

import (
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/planer/planer/internal/engine"
	"github.com/planer/planer/internal/shape"
)

// PDFSurface renders shapes as vector strokes on a single PDF page
// measured in points. PDF has no XOR compositing; anything painted in
// XOR mode is dropped, which is correct for committed frames.
type PDFSurface struct {
	pdf           *gofpdf.Fpdf
	m             engine.Matrix2D
	width, height float64
	mode          shape.PaintMode
}

var _ shape.Surface = (*PDFSurface)(nil)

func NewPDFSurface(width, height float64, m engine.Matrix2D) *PDFSurface {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetLineWidth(defaultLineWidth)
	return &PDFSurface{pdf: pdf, m: m, width: width, height: height}
}

func (s *PDFSurface) Clear(bg color.Color) {
	r, g, b := rgb(bg)
	s.pdf.SetFillColor(r, g, b)
	s.pdf.Rect(0, 0, s.width, s.height, "F")
}

func (s *PDFSurface) SetColor(c color.Color) {
	r, g, b := rgb(c)
	s.pdf.SetDrawColor(r, g, b)
}

func (s *PDFSurface) SetPaintMode(m shape.PaintMode) { s.mode = m }

func (s *PDFSurface) Line(x0, y0, x1, y1 float64) {
	if s.mode == shape.PaintXOR {
		return
	}
	ax, ay := s.m.TransformPoint(x0, y0)
	bx, by := s.m.TransformPoint(x1, y1)
	s.pdf.Line(ax, ay, bx, by)
}

func (s *PDFSurface) Rectangle(x0, y0, x1, y1 float64) {
	s.polygon(x0, y0, x1, y0, x1, y1, x0, y1)
}

func (s *PDFSurface) Triangle(x0, y0, x1, y1, x2, y2 float64) {
	s.polygon(x0, y0, x1, y1, x2, y2)
}

func (s *PDFSurface) Circle(cx, cy, r float64) {
	if s.mode == shape.PaintXOR {
		return
	}
	x, y := s.m.TransformPoint(cx, cy)
	s.pdf.Circle(x, y, r*s.m.ScaleFactor(), "D")
}

func (s *PDFSurface) polygon(coords ...float64) {
	if s.mode == shape.PaintXOR {
		return
	}
	pts := make([]gofpdf.PointType, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		x, y := s.m.TransformPoint(coords[i], coords[i+1])
		pts = append(pts, gofpdf.PointType{X: x, Y: y})
	}
	s.pdf.Polygon(pts, "D")
}

// Output writes the finished document.
func (s *PDFSurface) Output(w io.Writer) error {
	return s.pdf.Output(w)
}

func rgb(c color.Color) (int, int, int) {
	v := toRGBA(c)
	return int(v.R), int(v.G), int(v.B)
}
