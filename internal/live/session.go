package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/planer/planer/internal/document"
	"github.com/planer/planer/internal/drawing"
	"github.com/planer/planer/internal/engine"
)

// Session is the live editing state of one drawing. The engine is not
// safe for concurrent use, so every access goes through mu: the client's
// read pump and the hub's autosave both reach it.
type Session struct {
	id      string
	service *drawing.Service

	mu     sync.Mutex
	engine *engine.Session
	rec    *engine.Recorder
	view   engine.Viewport
	dirty  bool
	report document.LoadReport
}

func newSession(ctx context.Context, service *drawing.Service, id string) (*Session, error) {
	shapes, report, err := service.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, s := range report.Skipped {
		slog.Warn("record dropped from live session", "drawing", id, "index", s.Index, "type", s.Type, "error", s.Err)
	}

	rec := &engine.Recorder{}
	eng := engine.NewSession(service.Registry(), rec)
	if err := eng.Replace(shapes); err != nil {
		return nil, err
	}
	return &Session{
		id:      id,
		service: service,
		engine:  eng,
		rec:     rec,
		view:    engine.DefaultViewport(),
		report:  report,
	}, nil
}

func (s *Session) ID() string { return s.id }

// Dirty reports whether there are edits not yet saved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Welcome describes the session to a newly attached client, followed by
// a full frame of the current drawing.
func (s *Session) Welcome() []*Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg := s.engine.Registry()
	welcome := WelcomePayload{
		DrawingID: s.id,
		Mode:      s.engine.Mode().String(),
		Kind:      s.engine.ActiveKind(),
		Skipped:   len(s.report.Skipped),
	}
	for _, k := range reg.Kinds() {
		welcome.Kinds = append(welcome.Kinds, KindInfo{ID: k, DisplayName: reg.DisplayName(k)})
	}

	s.engine.Redraw()
	return []*Message{newMessage(TypeWelcome, welcome), s.frame()}
}

// Handle applies one client message and returns the replies.
func (s *Session) Handle(ctx context.Context, msg *Message) []*Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Message
	if err := s.apply(ctx, msg, &out); err != nil {
		out = append(out, errorMessage(err))
	}
	if len(s.rec.Commands()) > 0 {
		out = append(out, s.frame())
	}
	return out
}

func (s *Session) apply(ctx context.Context, msg *Message, out *[]*Message) error {
	switch msg.Type {
	case TypePointerPress, TypePointerDrag, TypePointerRelease:
		var p PointerPayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		x, y := s.view.ToLogical(p.X, p.Y)
		b := engine.ParseButton(p.Button)
		switch msg.Type {
		case TypePointerPress:
			// A press closes a gesture left open, committing its shape.
			if s.engine.InGesture() && s.engine.Active() != nil {
				s.dirty = true
			}
			return s.engine.Press(x, y, b)
		case TypePointerDrag:
			s.engine.Drag(x, y, b)
		default:
			if s.engine.Active() != nil {
				s.dirty = true
			}
			s.engine.Release(x, y, b)
		}

	case TypeToolMode:
		var p ModePayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		m, err := engine.ParseMode(p.Mode)
		if err != nil {
			return err
		}
		return s.engine.SetMode(m)

	case TypeToolKind:
		var p KindPayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		return s.engine.SetActiveKind(p.Kind)

	case TypeToolColors:
		var p ColorsPayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		return s.setColors(p)

	case TypeViewport:
		v := engine.DefaultViewport()
		if err := decodePayload(msg, &v); err != nil {
			return err
		}
		if v.Scale <= 0 {
			return fmt.Errorf("invalid viewport scale %g", v.Scale)
		}
		s.view = v
		if !s.engine.InGesture() {
			s.engine.Redraw()
		}

	case TypeDocSave:
		if err := s.save(ctx); err != nil {
			return err
		}
		*out = append(*out, newMessage(TypeDocSaved, DocSavedPayload{Count: s.engine.Len()}))

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

func (s *Session) setColors(p ColorsPayload) error {
	var c engine.Colors
	var err error
	if p.Pen != "" {
		if c.Pen, err = engine.ParseColor(p.Pen); err != nil {
			return err
		}
	}
	if p.Background != "" {
		if c.Background, err = engine.ParseColor(p.Background); err != nil {
			return err
		}
	}
	if c.Pen != nil {
		s.engine.SetPen(c.Pen)
		if c.Background == nil && !s.engine.InGesture() {
			s.engine.Redraw()
		}
	}
	if c.Background != nil {
		s.engine.SetBackground(c.Background)
	}
	return nil
}

// Save stores the committed shapes if there are unsaved edits.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	return s.save(ctx)
}

func (s *Session) save(ctx context.Context) error {
	if err := s.service.Save(ctx, s.id, s.engine.Shapes()); err != nil {
		return fmt.Errorf("save drawing: %w", err)
	}
	s.dirty = false
	return nil
}

func (s *Session) frame() *Message {
	return newMessage(TypeFrame, FramePayload{
		Commands:  s.rec.Flush(),
		Transform: s.view.Matrix().ToSlice(),
	})
}

func decodePayload(msg *Message, v interface{}) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%s: %w", msg.Type, err)
	}
	return nil
}
