package engine

import (
	"image/color"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/planer/planer/internal/shape"
)

// opsOf renders commands as "op:arg" strings for compact comparisons.
func opsOf(cmds []DrawCommand) []string {
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		arg := c.Color
		if c.Mode != "" {
			arg = c.Mode
		}
		if len(c.Points) > 0 {
			parts := make([]string, len(c.Points))
			for i, p := range c.Points {
				parts[i] = strconv.FormatFloat(p, 'g', -1, 64)
			}
			arg = strings.Join(parts, ",")
		}
		out = append(out, c.Op+":"+arg)
	}
	return out
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	rec.SetColor(color.Black)
	rec.Line(0, 0, 1, 1)
	rec.Clear(color.White)
	rec.SetPaintMode(shape.PaintXOR)
	rec.Triangle(0, 0, 4, 0, 4, 3)

	got := strings.Join(opsOf(rec.Commands()), " ")
	want := "clear:#ffffff mode:xor triangle:0,0,4,0,4,3"
	if got != want {
		t.Errorf("Commands() = %s, want %s", got, want)
	}

	if n := len(rec.Flush()); n != 3 {
		t.Errorf("Flush() returned %d commands", n)
	}
	if n := len(rec.Commands()); n != 0 {
		t.Errorf("buffer holds %d commands after Flush", n)
	}
}

func TestDrawCommandsToJSON(t *testing.T) {
	js, err := DrawCommandsToJSON(nil)
	if err != nil || js != "[]" {
		t.Errorf("DrawCommandsToJSON(nil) = %s, %v", js, err)
	}

	js, err = DrawCommandsToJSON([]DrawCommand{
		{Op: "color", Color: "#ff0000"},
		{Op: "circle", Points: []float64{1, 2, 3}},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"op":"color","color":"#ff0000"},{"op":"circle","points":[1,2,3]}]`
	if js != want {
		t.Errorf("DrawCommandsToJSON() = %s, want %s", js, want)
	}
}

func TestViewport(t *testing.T) {
	tests := []struct {
		name   string
		v      Viewport
		device [2]float64
		want   [2]float64
	}{
		{"identity", DefaultViewport(), [2]float64{12, 7}, [2]float64{12, 7}},
		{"zero scale is identity", Viewport{}, [2]float64{3, 4}, [2]float64{3, 4}},
		{"pan and zoom", Viewport{Scale: 2, PanX: 10, PanY: 20}, [2]float64{30, 40}, [2]float64{10, 10}},
		{"flipped", Viewport{Scale: 1, FlipY: true, Height: 100}, [2]float64{5, 90}, [2]float64{5, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.v.ToLogical(tt.device[0], tt.device[1])
			if math.Abs(x-tt.want[0]) > 1e-9 || math.Abs(y-tt.want[1]) > 1e-9 {
				t.Errorf("ToLogical(%v) = (%v, %v), want %v", tt.device, x, y, tt.want)
			}
			dx, dy := tt.v.ToDevice(x, y)
			if math.Abs(dx-tt.device[0]) > 1e-9 || math.Abs(dy-tt.device[1]) > 1e-9 {
				t.Errorf("ToDevice round trip = (%v, %v), want %v", dx, dy, tt.device)
			}
		})
	}
}

func TestMatrixInvert(t *testing.T) {
	m := Translate(5, -3).Multiply(Scale(2, 4))
	got := m.Multiply(m.Invert())
	for i, v := range Identity() {
		if math.Abs(got[i]-v) > 1e-12 {
			t.Fatalf("m * inv(m) = %v, want identity", got)
		}
	}
	if Scale(0, 0).Invert() != Identity() {
		t.Errorf("singular matrix should invert to identity")
	}

	r := m.TransformRect(shape.Rect{X: 0, Y: 0, Width: 1, Height: 1})
	if r != (shape.Rect{X: 5, Y: -3, Width: 2, Height: 4}) {
		t.Errorf("TransformRect() = %+v", r)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#ff0000", color.RGBA{R: 0xff, A: 0xff}, false},
		{"102030", color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, false},
		{"#0f8", color.RGBA{G: 0xff, B: 0x88, A: 0xff}, false},
		{"#12345", color.RGBA{}, true},
		{"#gg0000", color.RGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if !tt.wantErr && FormatColor(got) != "#"+strings.TrimPrefix(strings.ToLower(tt.in), "#") && len(tt.in) > 4 {
			t.Errorf("FormatColor(%v) = %s", got, FormatColor(got))
		}
	}
}

func TestCollection(t *testing.T) {
	a := shape.NewRectangle(shape.C(0, 0, 1, 1))
	b := shape.NewRectangle(shape.C(0, 0, 1, 1))
	c := NewCollection(a, b)

	if c.HitTest(0.5, 0.5) != b {
		t.Errorf("HitTest did not return the last match")
	}
	if c.HitTest(5, 5) != nil {
		t.Errorf("HitTest miss returned a shape")
	}
	if !c.Remove(b) || c.Remove(b) {
		t.Errorf("Remove should succeed exactly once")
	}
	if c.Len() != 1 || c.All()[0] != a {
		t.Errorf("All() = %v", c.All())
	}
}
