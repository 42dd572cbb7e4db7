// Package document implements the XML wire format of a drawing: a
// <shapes> root with one <shape type x0 y0 x1 y1/> record per shape.
package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/planer/planer/internal/shape"
)

// ErrMalformedDocument covers unreadable, unwritable or syntactically
// invalid documents.
var ErrMalformedDocument = errors.New("malformed document")

// Creator builds shapes by kind id. *registry.Registry satisfies it.
type Creator interface {
	Create(kind string, c shape.Coords) (shape.Shape, error)
}

// Record is the persisted form of one shape.
type Record struct {
	Type   string
	Coords shape.Coords
}

// Records lists (kind, committed coords) for shapes in order.
func Records(shapes []shape.Shape) []Record {
	out := make([]Record, 0, len(shapes))
	for _, s := range shapes {
		out = append(out, Record{Type: s.KindID(), Coords: s.Coords()})
	}
	return out
}

// SkippedRecord is a record that decoded fine but could not be turned
// into a shape.
type SkippedRecord struct {
	Index int
	Type  string
	Err   error
}

// LoadReport summarizes a successful decode.
type LoadReport struct {
	Loaded  int
	Skipped []SkippedRecord
}

type xmlShapes struct {
	XMLName xml.Name   `xml:"shapes"`
	Shapes  []xmlShape `xml:"shape"`
}

type xmlShape struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

func (s xmlShape) attr(name string) (string, bool) {
	for _, a := range s.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (s xmlShape) coord(index int, name string) (float64, error) {
	raw, ok := s.attr(name)
	if !ok {
		return 0, fmt.Errorf("%w: shape %d: missing attribute %s", ErrMalformedDocument, index, name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: shape %d: attribute %s: %w", ErrMalformedDocument, index, name, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: shape %d: attribute %s: %q is not a finite number", ErrMalformedDocument, index, name, raw)
	}
	return v, nil
}

// Encode writes shapes with their committed coordinates in order.
func Encode(w io.Writer, shapes []shape.Shape) error {
	doc := xmlShapes{Shapes: make([]xmlShape, 0, len(shapes))}
	for _, r := range Records(shapes) {
		doc.Shapes = append(doc.Shapes, xmlShape{Attrs: []xml.Attr{
			{Name: xml.Name{Local: "type"}, Value: r.Type},
			{Name: xml.Name{Local: "x0"}, Value: formatFloat(r.Coords.X0)},
			{Name: xml.Name{Local: "y0"}, Value: formatFloat(r.Coords.Y0)},
			{Name: xml.Name{Local: "x1"}, Value: formatFloat(r.Coords.X1)},
			{Name: xml.Name{Local: "y1"}, Value: formatFloat(r.Coords.Y1)},
		}})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return nil
}

// Marshal encodes shapes into a byte slice.
func Marshal(shapes []shape.Shape) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, shapes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a whole document and builds its shapes through c.
// Records whose type c cannot build are skipped and reported; any
// structural problem fails the whole decode and returns no shapes.
func Decode(r io.Reader, c Creator) ([]shape.Shape, LoadReport, error) {
	var doc xmlShapes
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, LoadReport{}, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	records := make([]Record, 0, len(doc.Shapes))
	for i, s := range doc.Shapes {
		kind, ok := s.attr("type")
		if !ok {
			return nil, LoadReport{}, fmt.Errorf("%w: shape %d: missing attribute type", ErrMalformedDocument, i)
		}
		var vals [4]float64
		for j, name := range [4]string{"x0", "y0", "x1", "y1"} {
			v, err := s.coord(i, name)
			if err != nil {
				return nil, LoadReport{}, err
			}
			vals[j] = v
		}
		records = append(records, Record{Type: kind, Coords: shape.C(vals[0], vals[1], vals[2], vals[3])})
	}

	var report LoadReport
	shapes := make([]shape.Shape, 0, len(records))
	for i, rec := range records {
		s, err := c.Create(rec.Type, rec.Coords)
		if err != nil {
			slog.Warn("skipping shape record", "index", i, "type", rec.Type, "error", err)
			report.Skipped = append(report.Skipped, SkippedRecord{Index: i, Type: rec.Type, Err: err})
			continue
		}
		shapes = append(shapes, s)
	}
	report.Loaded = len(shapes)
	return shapes, report, nil
}

// Unmarshal decodes a document held in memory.
func Unmarshal(data []byte, c Creator) ([]shape.Shape, LoadReport, error) {
	return Decode(bytes.NewReader(data), c)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
