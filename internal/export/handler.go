package export

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/planer/planer/internal/document"
	"github.com/planer/planer/internal/drawing"
	"github.com/planer/planer/internal/engine"
	"github.com/planer/planer/internal/shape"
)

type Handler struct {
	service       *drawing.Service
	width, height int
}

// NewHandler creates the export handler. Exports are width x height
// pixels (PNG) or points (PDF).
func NewHandler(service *drawing.Service, width, height int) *Handler {
	return &Handler{service: service, width: width, height: height}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/drawings/{drawingId}/export.png", h.ExportPNG).Methods("GET")
	r.HandleFunc("/api/drawings/{drawingId}/export.pdf", h.ExportPDF).Methods("GET")
}

func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "image/png", func(buf *bytes.Buffer, job *job) error {
		s := NewRasterSurface(h.width, h.height, Fit(job.shapes, float64(h.width), float64(h.height)))
		Render(s, job.shapes, job.colors)
		return png.Encode(buf, s.Image())
	})
}

func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "application/pdf", func(buf *bytes.Buffer, job *job) error {
		width, height := float64(h.width), float64(h.height)
		s := NewPDFSurface(width, height, Fit(job.shapes, width, height))
		Render(s, job.shapes, job.colors)
		return s.Output(buf)
	})
}

type job struct {
	shapes []shape.Shape
	colors engine.Colors
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, contentType string, encode func(*bytes.Buffer, *job) error) {
	drawingID := mux.Vars(r)["drawingId"]

	colors, err := colorsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d, err := h.service.Get(r.Context(), drawingID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	shapes, _, err := h.service.Open(r.Context(), drawingID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := encode(&buf, &job{shapes: shapes, colors: colors}); err != nil {
		slog.Error("export failed", "drawing", drawingID, "type", contentType, "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	ext := contentType[strings.LastIndex(contentType, "/")+1:]
	slog.Info("export complete", "drawing", drawingID, "type", contentType, "bytes", buf.Len())

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, sanitize(d.Name), ext))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// colorsFromQuery reads optional "pen" and "background" colors.
func colorsFromQuery(r *http.Request) (engine.Colors, error) {
	colors := engine.DefaultColors()
	q := r.URL.Query()
	if v := q.Get("pen"); v != "" {
		c, err := engine.ParseColor(v)
		if err != nil {
			return colors, err
		}
		colors.Pen = c
	}
	if v := q.Get("background"); v != "" {
		c, err := engine.ParseColor(v)
		if err != nil {
			return colors, err
		}
		colors.Background = c
	}
	return colors, nil
}

func sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
	if name == "" {
		return "drawing"
	}
	return name
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, drawing.ErrNotFound):
		http.Error(w, "drawing not found", http.StatusNotFound)
	case errors.Is(err, drawing.ErrInvalidID):
		http.Error(w, "invalid drawing id", http.StatusBadRequest)
	case errors.Is(err, document.ErrMalformedDocument):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		slog.Error("export lookup failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
