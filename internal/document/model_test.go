package document

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/planer/planer/internal/registry"
	"github.com/planer/planer/internal/shape"
)

func TestRoundTrip(t *testing.T) {
	reg := registry.Default()

	shapes := append(Sample(),
		shape.NewRectangle(shape.C(-1.5, 0.1, 1e6, 1.0/3)),
		shape.NewCircle(shape.C(123.456789, -98.7654321, 0, 0)),
	)

	var buf bytes.Buffer
	if err := Encode(&buf, shapes); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, report, err := Decode(&buf, reg)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if report.Loaded != len(shapes) || len(report.Skipped) != 0 {
		t.Errorf("report = %+v", report)
	}
	if !slices.Equal(Records(got), Records(shapes)) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", Records(got), Records(shapes))
	}
}

func TestRoundTripNonIntegerSquares(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	var shapes []shape.Shape
	for i := 0; i < 2000; i++ {
		shapes = append(shapes, shape.NewSquare(shape.C(
			rng.Float64()*100, rng.Float64()*100, rng.Float64()*100, rng.Float64()*100)))
	}

	data, err := Marshal(shapes)
	if err != nil {
		t.Fatal(err)
	}
	got, _, err := Unmarshal(data, registry.Default())
	if err != nil {
		t.Fatal(err)
	}
	want := Records(shapes)
	if len(got) != len(want) {
		t.Fatalf("got %d shapes, want %d", len(got), len(want))
	}
	for i, r := range Records(got) {
		if r != want[i] {
			t.Fatalf("record %d: got %+v, want %+v", i, r, want[i])
		}
	}
}

func TestEncodeFormat(t *testing.T) {
	data, err := Marshal([]shape.Shape{shape.NewRectangle(shape.C(0, 0, 10, 6.5))})
	if err != nil {
		t.Fatal(err)
	}

	want := `<?xml version="1.0" encoding="UTF-8"?>
<shapes>
  <shape type="rectangle" x0="0" y0="0" x1="10" y1="6.5"></shape>
</shapes>
`
	if string(data) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", data, want)
	}

	data, err = Marshal(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<shapes></shapes>") {
		t.Errorf("empty document = %s", data)
	}
}

func TestDecodeSkipsUnknownKinds(t *testing.T) {
	input := `<shapes>
  <shape type="rectangle" x0="0" y0="0" x1="1" y1="1"/>
  <shape type="hexagon" x0="0" y0="0" x1="2" y1="2"/>
  <shape type="circle" x0="0" y0="0" x1="3" y1="3" color="red"/>
  <note>ignored</note>
</shapes>`

	got, report, err := Unmarshal([]byte(input), registry.Default())
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(got) != 2 || got[0].KindID() != "rectangle" || got[1].KindID() != "circle" {
		t.Fatalf("got %+v", Records(got))
	}
	if report.Loaded != 2 || len(report.Skipped) != 1 {
		t.Fatalf("report = %+v", report)
	}
	skip := report.Skipped[0]
	if skip.Index != 1 || skip.Type != "hexagon" || !errors.Is(skip.Err, registry.ErrUnknownKind) {
		t.Errorf("skipped = %+v", skip)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"syntax error", `<shapes><shape type="square"`},
		{"wrong root", `<figures><shape type="square" x0="0" y0="0" x1="1" y1="1"/></figures>`},
		{"missing coordinate", `<shapes><shape type="square" x0="0" y0="0" x1="1"/></shapes>`},
		{"non-numeric coordinate", `<shapes><shape type="square" x0="0" y0="zero" x1="1" y1="1"/></shapes>`},
		{"NaN coordinate", `<shapes><shape type="square" x0="NaN" y0="0" x1="1" y1="1"/></shapes>`},
		{"infinite coordinate", `<shapes><shape type="rectangle" x0="0" y0="0" x1="Inf" y1="1"/></shapes>`},
		{"negative infinity", `<shapes><shape type="circle" x0="0" y0="-Infinity" x1="1" y1="1"/></shapes>`},
		{"missing type", `<shapes><shape x0="0" y0="0" x1="1" y1="1"/></shapes>`},
		{"bad record after good one", `<shapes>
			<shape type="square" x0="0" y0="0" x1="1" y1="1"/>
			<shape type="circle" x0="0" y0="0" x1="1" y1=""/>
		</shapes>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := Unmarshal([]byte(tt.input), registry.Default())
			if !errors.Is(err, ErrMalformedDocument) {
				t.Fatalf("error = %v, want ErrMalformedDocument", err)
			}
			if got != nil {
				t.Errorf("got %d shapes on failure", len(got))
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEncodeWriteError(t *testing.T) {
	err := Encode(failingWriter{}, Sample())
	if !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("Encode() error = %v, want ErrMalformedDocument", err)
	}
}

func TestSample(t *testing.T) {
	want := []string{"rectangle", "square", "right-triangle", "circle"}
	var got []string
	for _, s := range Sample() {
		got = append(got, s.KindID())
	}
	if !slices.Equal(got, want) {
		t.Errorf("Sample() kinds = %v, want %v", got, want)
	}
}
