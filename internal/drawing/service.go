// Package drawing manages stored drawings: creation, listing, document
// upload/download and decoding into shapes.
package drawing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/planer/planer/internal/document"
	"github.com/planer/planer/internal/registry"
	"github.com/planer/planer/internal/shape"
	"github.com/planer/planer/internal/store"
	"github.com/planer/planer/internal/typeid"
)

var (
	ErrNotFound  = errors.New("drawing not found")
	ErrInvalidID = errors.New("invalid drawing id")
)

type Service struct {
	store store.Store
	reg   *registry.Registry
	now   func() time.Time
}

func NewService(st store.Store, reg *registry.Registry) *Service {
	return &Service{store: st, reg: reg, now: time.Now}
}

// Registry returns the shape registry documents are decoded with.
func (s *Service) Registry() *registry.Registry { return s.reg }

// Drawing is the metadata view returned by the API.
type Drawing struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UpdatedAt string `json:"updatedAt"`
}

func toDrawing(d store.Drawing) Drawing {
	return Drawing{
		ID:        d.ID,
		Name:      d.Name,
		UpdatedAt: d.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// Create stores a new drawing, empty or seeded with the sample shapes.
func (s *Service) Create(ctx context.Context, name string, sample bool) (*Drawing, error) {
	var shapes []shape.Shape
	if sample {
		shapes = document.Sample()
	}
	doc, err := document.Marshal(shapes)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	d := store.Drawing{
		ID:        typeid.NewDrawingID(),
		Name:      name,
		Document:  doc,
		UpdatedAt: s.now(),
	}
	if err := s.store.Put(ctx, d); err != nil {
		return nil, fmt.Errorf("create drawing: %w", err)
	}
	out := toDrawing(d)
	return &out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Drawing, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toDrawing(*d)
	return &out, nil
}

func (s *Service) List(ctx context.Context) ([]Drawing, error) {
	stored, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	drawings := make([]Drawing, len(stored))
	for i, d := range stored {
		drawings[i] = toDrawing(d)
	}
	return drawings, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := typeid.ValidateDrawingID(id); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidID, err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete drawing: %w", err)
	}
	return nil
}

// Document returns the raw XML document of a drawing.
func (s *Service) Document(ctx context.Context, id string) ([]byte, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.Document, nil
}

// Upload replaces the document of an existing drawing. The data must
// decode; records of unknown kinds are reported but kept in the stored
// document.
func (s *Service) Upload(ctx context.Context, id string, data []byte) (document.LoadReport, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return document.LoadReport{}, err
	}
	_, report, err := document.Unmarshal(data, s.reg)
	if err != nil {
		return report, err
	}

	d.Document = data
	d.UpdatedAt = s.now()
	if err := s.store.Put(ctx, *d); err != nil {
		return report, fmt.Errorf("store document: %w", err)
	}
	return report, nil
}

// Open decodes the shapes of a drawing.
func (s *Service) Open(ctx context.Context, id string) ([]shape.Shape, document.LoadReport, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, document.LoadReport{}, err
	}
	return document.Unmarshal(d.Document, s.reg)
}

// Save encodes shapes as the new document of a drawing.
func (s *Service) Save(ctx context.Context, id string, shapes []shape.Shape) error {
	d, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if d.Document, err = document.Marshal(shapes); err != nil {
		return err
	}
	d.UpdatedAt = s.now()
	if err := s.store.Put(ctx, *d); err != nil {
		return fmt.Errorf("store document: %w", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, id string) (*store.Drawing, error) {
	if err := typeid.ValidateDrawingID(id); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidID, err)
	}
	d, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get drawing: %w", err)
	}
	return d, nil
}
