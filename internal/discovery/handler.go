package discovery

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/mux"
)

const browseTimeout = time.Second

// Handler lists the other editor servers announced on the local network.
type Handler struct {
	browse  func(timeout time.Duration, found func(addr string)) error
	timeout time.Duration
}

func NewHandler() *Handler {
	return &Handler{browse: Browse, timeout: browseTimeout}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/peers", h.Peers).Methods("GET")
}

type peersResponse struct {
	Peers []string `json:"peers"`
}

func (h *Handler) Peers(w http.ResponseWriter, r *http.Request) {
	seen := make(map[string]bool)
	resp := peersResponse{Peers: []string{}}
	err := h.browse(h.timeout, func(addr string) {
		if !seen[addr] {
			seen[addr] = true
			resp.Peers = append(resp.Peers, addr)
		}
	})
	if err != nil {
		slog.Warn("browse peers failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "peer lookup failed"})
		return
	}

	slices.Sort(resp.Peers)
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
