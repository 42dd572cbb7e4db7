package drawing

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/planer/planer/internal/document"
	"github.com/planer/planer/internal/registry"
)

const maxDocumentSize = 8 << 20 // 8MB

type Handler struct {
	service *Service
	busy    func(id string) bool
}

// NewHandler creates the REST handler. busy reports drawings that have a
// live editing session; their document cannot be replaced or deleted
// through the API meanwhile. A nil busy treats every drawing as idle.
func NewHandler(service *Service, busy func(id string) bool) *Handler {
	if busy == nil {
		busy = func(string) bool { return false }
	}
	return &Handler{service: service, busy: busy}
}

// Register mounts the drawing routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/kinds", h.Kinds).Methods("GET")
	r.HandleFunc("/api/drawings", h.List).Methods("GET")
	r.HandleFunc("/api/drawings", h.Create).Methods("POST")
	r.HandleFunc("/api/drawings/{drawingId}", h.Get).Methods("GET")
	r.HandleFunc("/api/drawings/{drawingId}", h.Delete).Methods("DELETE")
	r.HandleFunc("/api/drawings/{drawingId}/document", h.GetDocument).Methods("GET")
	r.HandleFunc("/api/drawings/{drawingId}/document", h.PutDocument).Methods("PUT")
}

type createRequest struct {
	Name   string `json:"name"`
	Sample bool   `json:"sample"`
}

type kindsResponse struct {
	Kinds   []kindInfo          `json:"kinds"`
	Default string              `json:"default"`
	Menu    []registry.MenuItem `json:"menu"`
}

type kindInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type skippedRecord struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	Error string `json:"error"`
}

type uploadResponse struct {
	Loaded  int             `json:"loaded"`
	Skipped []skippedRecord `json:"skipped"`
}

func (h *Handler) Kinds(w http.ResponseWriter, r *http.Request) {
	reg := h.service.Registry()

	resp := kindsResponse{Default: reg.DefaultKind(), Menu: reg.Menu()}
	for _, k := range reg.Kinds() {
		resp.Kinds = append(resp.Kinds, kindInfo{ID: k, DisplayName: reg.DisplayName(k)})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	d, err := h.service.Create(r.Context(), req.Name, req.Sample)
	if err != nil {
		slog.Error("create drawing failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, d)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), mux.Vars(r)["drawingId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	drawings, err := h.service.List(r.Context())
	if err != nil {
		slog.Error("list drawings failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, drawings)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	drawingID := mux.Vars(r)["drawingId"]
	if h.busy(drawingID) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "drawing is being edited"})
		return
	}

	if err := h.service.Delete(r.Context(), drawingID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Document(r.Context(), mux.Vars(r)["drawingId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func (h *Handler) PutDocument(w http.ResponseWriter, r *http.Request) {
	drawingID := mux.Vars(r)["drawingId"]
	if h.busy(drawingID) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "drawing is being edited"})
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "document too large"})
		return
	}

	report, err := h.service.Upload(r.Context(), drawingID, data)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := uploadResponse{Loaded: report.Loaded, Skipped: []skippedRecord{}}
	for _, s := range report.Skipped {
		resp.Skipped = append(resp.Skipped, skippedRecord{Index: s.Index, Type: s.Type, Error: s.Err.Error()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid drawing id"})
	case errors.Is(err, document.ErrMalformedDocument):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
