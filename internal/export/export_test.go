package export

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/planer/planer/internal/document"
	"github.com/planer/planer/internal/drawing"
	"github.com/planer/planer/internal/engine"
	"github.com/planer/planer/internal/registry"
	"github.com/planer/planer/internal/shape"
	"github.com/planer/planer/internal/store"
	"github.com/planer/planer/internal/typeid"
)

var (
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
	black = color.RGBA{0, 0, 0, 0xff}
	red   = color.RGBA{R: 0xff, A: 0xff}
)

func newRaster() *RasterSurface {
	s := NewRasterSurface(20, 20, engine.Identity())
	s.Clear(white)
	return s
}

func TestRasterRectangle(t *testing.T) {
	s := newRaster()
	s.SetColor(black)
	s.Rectangle(2, 2, 17, 17)

	img := s.Image()
	if c := img.RGBAAt(2, 10); c.R >= 0x80 {
		t.Errorf("edge pixel = %v, want dark", c)
	}
	if c := img.RGBAAt(10, 10); c != white {
		t.Errorf("inside pixel = %v, want background", c)
	}
}

func TestRasterCircle(t *testing.T) {
	s := newRaster()
	s.SetColor(black)
	s.Circle(10, 10, 6)

	img := s.Image()
	if c := img.RGBAAt(16, 10); c == white {
		t.Error("circle outline not painted")
	}
	if c := img.RGBAAt(10, 10); c != white {
		t.Errorf("center pixel = %v, want background", c)
	}
}

func TestRasterXOR(t *testing.T) {
	s := newRaster()
	s.SetColor(black)
	s.Triangle(3, 3, 16, 3, 16, 16)
	before := bytes.Clone(s.Image().Pix)

	s.SetPaintMode(shape.PaintXOR)
	s.SetColor(red)
	s.Rectangle(2, 2, 17, 17)
	if c := s.Image().RGBAAt(2, 10); c != red {
		t.Errorf("xor over background = %v, want %v", c, red)
	}

	s.Rectangle(2, 2, 17, 17)
	if !bytes.Equal(s.Image().Pix, before) {
		t.Error("painting the same figure twice in xor mode did not restore the image")
	}
}

func TestFit(t *testing.T) {
	line := shape.NewRectangle(shape.C(-500, 0, -500, 100))

	tests := []struct {
		name          string
		shapes        []shape.Shape
		width, height float64
		scaled        bool
	}{
		{"fits", document.Sample(), 1024, 768, false},
		{"scaled down", document.Sample(), 320, 768, true},
		{"line beside a box", []shape.Shape{shape.NewRectangle(shape.C(0, 0, 100, 100)), line}, 1024, 768, false},
		{"only a line", []shape.Shape{line}, 1024, 768, false},
		{"only a point", []shape.Shape{shape.NewRectangle(shape.C(900, 900, 900, 900))}, 1024, 768, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Fit(tt.shapes, tt.width, tt.height)
			if got := m.ScaleFactor(); (got < 1) != tt.scaled || got <= 0 {
				t.Errorf("scale = %g, scaled = %v", got, tt.scaled)
			}
			bounds, ok := shape.BoundsOf(tt.shapes)
			if !ok {
				t.Fatal("no bounds")
			}
			b := m.TransformRect(bounds)
			if b.X < 0 || b.Y < 0 || b.X+b.Width > tt.width || b.Y+b.Height > tt.height {
				t.Errorf("fitted bounds %+v outside %gx%g", b, tt.width, tt.height)
			}
		})
	}

	if m := Fit(nil, 100, 100); m != engine.Identity() {
		t.Errorf("Fit(nil) = %v", m)
	}
}

func TestPDFSurface(t *testing.T) {
	s := NewPDFSurface(200, 100, engine.Identity())
	Render(s, document.Sample(), engine.DefaultColors())
	s.SetPaintMode(shape.PaintXOR)
	s.Rectangle(0, 0, 10, 10)

	var buf bytes.Buffer
	if err := s.Output(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output starts with %q", buf.Bytes()[:min(8, buf.Len())])
	}
}

func TestHandler(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	svc := drawing.NewService(st, registry.Default())
	d, err := svc.Create(context.Background(), "Floor plan", true)
	if err != nil {
		t.Fatal(err)
	}

	r := mux.NewRouter()
	NewHandler(svc, 64, 48).Register(r)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		return rec
	}

	rec := get("/api/drawings/" + d.ID + "/export.png?background=%23eeeeee")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("png status = %d, type = %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("png size = %v", b)
	}
	if want := `attachment; filename="Floor-plan.png"`; rec.Header().Get("Content-Disposition") != want {
		t.Errorf("disposition = %q", rec.Header().Get("Content-Disposition"))
	}

	rec = get("/api/drawings/" + d.ID + "/export.pdf")
	if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Errorf("pdf status = %d", rec.Code)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/drawings/" + typeid.NewDrawingID() + "/export.png", http.StatusNotFound},
		{"/api/drawings/bogus/export.pdf", http.StatusBadRequest},
		{"/api/drawings/" + d.ID + "/export.png?pen=blue", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if rec := get(tt.path); rec.Code != tt.want {
			t.Errorf("GET %s status = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
}
