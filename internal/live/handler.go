package live

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/planer/planer/internal/drawing"
)

type Handler struct {
	hub            *Hub
	originPatterns []string
}

// NewHandler creates the websocket handler. origins are full origins
// ("http://localhost:5173") as configured for CORS.
func NewHandler(hub *Hub, origins []string) *Handler {
	h := &Handler{hub: hub}
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			h.originPatterns = append(h.originPatterns, u.Host)
		}
	}
	return h
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/ws/drawings/{drawingId}", h.ServeWS)
}

func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	drawingID := mux.Vars(r)["drawingId"]

	session, err := h.hub.Open(r.Context(), drawingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrDrawingBusy):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, drawing.ErrNotFound):
			http.Error(w, "drawing not found", http.StatusNotFound)
		case errors.Is(err, drawing.ErrInvalidID):
			http.Error(w, "invalid drawing id", http.StatusBadRequest)
		default:
			slog.Error("open session", "drawing", drawingID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		h.hub.Close(session)
		return
	}

	client := NewClient(h.hub, conn, session, uuid.New().String())
	for _, msg := range session.Welcome() {
		client.Send(msg)
	}
	slog.Info("client joined", "client", client.ClientID, "drawing", drawingID)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
