package engine

import (
	"encoding/json"
	"image/color"

	"github.com/planer/planer/internal/shape"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and replays them on a Canvas2D context.
type DrawCommand struct {
	Op     string    `json:"op"`               // "clear", "color", "mode", "line", "rect", "circle", "triangle"
	Color  string    `json:"color,omitempty"`  // For "clear" and "color"
	Mode   string    `json:"mode,omitempty"`   // For "mode": "normal" or "xor"
	Points []float64 `json:"points,omitempty"` // Geometry in logical coordinates
}

// Recorder is a shape.Surface that buffers draw commands instead of
// painting pixels.
type Recorder struct {
	commands []DrawCommand
}

var _ shape.Surface = (*Recorder)(nil)

func (r *Recorder) Clear(bg color.Color) {
	// A clear makes everything recorded before it invisible.
	r.commands = append(r.commands[:0], DrawCommand{Op: "clear", Color: FormatColor(bg)})
}

func (r *Recorder) SetColor(c color.Color) {
	r.commands = append(r.commands, DrawCommand{Op: "color", Color: FormatColor(c)})
}

func (r *Recorder) SetPaintMode(m shape.PaintMode) {
	r.commands = append(r.commands, DrawCommand{Op: "mode", Mode: m.String()})
}

func (r *Recorder) Line(x0, y0, x1, y1 float64) {
	r.add("line", x0, y0, x1, y1)
}

func (r *Recorder) Rectangle(x0, y0, x1, y1 float64) {
	r.add("rect", x0, y0, x1, y1)
}

func (r *Recorder) Circle(cx, cy, radius float64) {
	r.add("circle", cx, cy, radius)
}

func (r *Recorder) Triangle(x0, y0, x1, y1, x2, y2 float64) {
	r.add("triangle", x0, y0, x1, y1, x2, y2)
}

func (r *Recorder) add(op string, points ...float64) {
	r.commands = append(r.commands, DrawCommand{Op: op, Points: points})
}

// Commands returns the buffered commands without consuming them.
func (r *Recorder) Commands() []DrawCommand {
	out := make([]DrawCommand, len(r.commands))
	copy(out, r.commands)
	return out
}

// Flush returns the buffered commands and empties the buffer.
func (r *Recorder) Flush() []DrawCommand {
	out := r.commands
	r.commands = nil
	return out
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
