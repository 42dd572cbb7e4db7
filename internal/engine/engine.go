// Package engine implements the editing state machine that turns
// pointer gestures into shape mutations.
package engine

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/planer/planer/internal/document"
	"github.com/planer/planer/internal/registry"
	"github.com/planer/planer/internal/shape"
)

var (
	ErrUnknownMode       = errors.New("unknown mode")
	ErrGestureInProgress = errors.New("gesture in progress")
)

// gesture is the state of one press -> drag* -> release sequence. Mode
// and button are captured at press; later tool changes do not affect it.
type gesture struct {
	open   bool
	mode   Mode
	button Button
	ax, ay float64
	cx, cy float64
	active shape.Shape
	// drawn is set once a provisional frame is on the surface and has to
	// be erased before the next one is painted.
	drawn bool
}

// Session owns a shape collection and interprets gestures against it.
// It is not safe for concurrent use; callers that share a session
// between goroutines must serialize access.
type Session struct {
	reg     *registry.Registry
	surface shape.Surface
	shapes  *Collection
	colors  Colors
	mode    Mode
	kind    string
	g       gesture
}

// NewSession creates a session in draw mode with the registry's first
// kind selected.
func NewSession(reg *registry.Registry, surface shape.Surface) *Session {
	return &Session{
		reg:     reg,
		surface: surface,
		shapes:  NewCollection(),
		colors:  DefaultColors(),
		mode:    ModeDraw,
		kind:    reg.DefaultKind(),
	}
}

func (s *Session) Registry() *registry.Registry { return s.reg }
func (s *Session) Surface() shape.Surface        { return s.surface }
func (s *Session) Mode() Mode                    { return s.mode }
func (s *Session) ActiveKind() string            { return s.kind }
func (s *Session) Colors() Colors                { return s.colors }

// Shapes returns the collection content in paint order.
func (s *Session) Shapes() []shape.Shape { return s.shapes.All() }

// Len returns the number of shapes.
func (s *Session) Len() int { return s.shapes.Len() }

// Active returns the shape of the current gesture, or nil.
func (s *Session) Active() shape.Shape { return s.g.active }

// InGesture reports whether a press has not been released yet.
func (s *Session) InGesture() bool { return s.g.open }

// SetMode selects the tool mode for the next press.
func (s *Session) SetMode(m Mode) error {
	if _, ok := modeNames[m]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	s.mode = m
	return nil
}

// SetActiveKind selects the kind created by the next draw press.
func (s *Session) SetActiveKind(kind string) error {
	if !s.reg.Has(kind) {
		return fmt.Errorf("%w: %q", registry.ErrUnknownKind, kind)
	}
	s.kind = kind
	return nil
}

// SetPen changes the pen color used for committed shapes.
func (s *Session) SetPen(c color.Color) {
	s.colors.Pen = c
}

// SetBackground changes the background and repaints everything.
func (s *Session) SetBackground(c color.Color) {
	s.colors.Background = c
	s.Redraw()
}

// Press starts a gesture at (x, y). A gesture left open by a missing
// release is finished first at its last cursor position.
func (s *Session) Press(x, y float64, b Button) error {
	if s.g.open {
		s.Release(s.g.cx, s.g.cy, s.g.button)
	}
	s.g = gesture{open: true, mode: s.mode, button: b, ax: x, ay: y, cx: x, cy: y}

	switch s.g.mode {
	case ModeDraw:
		sh, err := s.reg.Create(s.kind, shape.C(x, y, x, y))
		if err != nil {
			return err
		}
		s.shapes.Append(sh)
		s.g.active = sh
	default:
		s.g.active = s.shapes.HitTest(x, y)
	}
	return nil
}

// Drag moves the cursor of the open gesture to (x, y) and paints the
// provisional frame of the active shape.
func (s *Session) Drag(x, y float64, b Button) {
	if !s.g.open {
		return
	}
	s.g.cx, s.g.cy = x, y
	s.g.button = b

	sh := s.g.active
	if sh == nil || s.g.mode == ModeDelete {
		return
	}

	s.surface.SetPaintMode(shape.PaintXOR)
	switch {
	case s.g.drawn:
		s.surface.SetColor(s.colors.Accent)
		sh.Render(s.surface, true)
	case s.g.mode != ModeDraw:
		// Takes the committed outline off the canvas while it is edited.
		s.surface.SetColor(s.colors.Pen)
		sh.Render(s.surface, false)
	}

	dx, dy := s.g.cx-s.g.ax, s.g.cy-s.g.ay
	switch s.g.mode {
	case ModeDraw:
		sh.SetCoords(shape.C(s.g.ax, s.g.ay, s.g.cx, s.g.cy), false)
	case ModeDrag:
		sh.Move(dx, dy, true)
	case ModeResize:
		sh.SetCoords(resize(sh.Coords(), s.g.ax < s.g.cx, s.g.ay < s.g.cy, dx, dy, b == ButtonPrimary), true)
	}

	s.surface.SetColor(s.colors.Accent)
	sh.Render(s.surface, true)
	s.g.drawn = true
}

// resize moves one corner per axis by the cursor delta. Growing moves the
// corner on the side the cursor travelled to, shrinking the other one.
func resize(c shape.Coords, rightward, downward bool, dx, dy float64, grow bool) shape.Coords {
	out := c
	if rightward == grow {
		out.X1 += dx
	} else {
		out.X0 += dx
	}
	if downward == grow {
		out.Y1 += dy
	} else {
		out.Y0 += dy
	}
	return out
}

// Release finishes the open gesture, commits the active shape and
// repaints the collection.
func (s *Session) Release(x, y float64, b Button) {
	if !s.g.open {
		return
	}
	g := s.g
	s.g = gesture{}

	if sh := g.active; sh != nil {
		switch g.mode {
		case ModeDelete:
			s.shapes.Remove(sh)
		case ModeDrag:
			sh.Move(g.cx-g.ax, g.cy-g.ay, false)
		default:
			sh.Commit()
		}
		s.surface.SetPaintMode(shape.PaintNormal)
		s.surface.SetColor(s.colors.Pen)
		sh.Render(s.surface, false)
	}
	s.Redraw()
}

// Redraw clears the surface and paints every committed shape in order.
func (s *Session) Redraw() {
	s.surface.Clear(s.colors.Background)
	s.surface.SetPaintMode(shape.PaintNormal)
	s.surface.SetColor(s.colors.Pen)
	for _, sh := range s.shapes.All() {
		sh.Render(s.surface, false)
	}
}

// Save writes the collection in the XML wire format.
func (s *Session) Save(w io.Writer) error {
	return document.Encode(w, s.shapes.All())
}

// Load replaces the collection with the shapes decoded from r. On any
// error the current collection is left untouched.
func (s *Session) Load(r io.Reader) (document.LoadReport, error) {
	if s.g.open {
		return document.LoadReport{}, ErrGestureInProgress
	}
	shapes, report, err := document.Decode(r, s.reg)
	if err != nil {
		return report, err
	}
	s.shapes.Replace(shapes)
	s.Redraw()
	return report, nil
}

// Replace swaps in shapes that were decoded elsewhere.
func (s *Session) Replace(shapes []shape.Shape) error {
	if s.g.open {
		return ErrGestureInProgress
	}
	s.shapes.Replace(shapes)
	s.Redraw()
	return nil
}
