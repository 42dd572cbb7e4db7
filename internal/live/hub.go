// Package live serves websocket editing sessions. Each drawing has at
// most one session, which owns the editing engine and saves it back
// through the drawing service.
package live

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/planer/planer/internal/drawing"
)

var ErrDrawingBusy = errors.New("drawing is already open in another editor")

const saveTimeout = 10 * time.Second

type Hub struct {
	service  *drawing.Service
	interval time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session // drawingID -> session

	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
}

// NewHub creates a hub that autosaves dirty sessions every interval.
// A zero interval disables autosave; sessions are still saved when their
// editor disconnects and on Stop.
func NewHub(service *drawing.Service, interval time.Duration) *Hub {
	return &Hub{
		service:    service,
		interval:   interval,
		sessions:   make(map[string]*Session),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	var tick <-chan time.Time
	if h.interval > 0 {
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case client := <-h.unregister:
			h.removeClient(client)
		case <-tick:
			h.saveAll()
		case <-h.done:
			return
		}
	}
}

// Stop ends Run and saves every session with unsaved edits.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
	h.saveAll()
}

// Open starts the session of a drawing. Only one session per drawing may
// exist at a time.
func (h *Hub) Open(ctx context.Context, drawingID string) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[drawingID]; ok {
		return nil, ErrDrawingBusy
	}
	s, err := newSession(ctx, h.service, drawingID)
	if err != nil {
		return nil, err
	}
	h.sessions[drawingID] = s
	slog.Info("session opened", "drawing", drawingID)
	return s, nil
}

// Close saves s if needed and forgets it.
func (h *Hub) Close(s *Session) {
	h.mu.Lock()
	if h.sessions[s.id] == s {
		delete(h.sessions, s.id)
	}
	h.mu.Unlock()

	h.save(s)
	slog.Info("session closed", "drawing", s.id)
}

// IsOpen reports whether a drawing has a live session.
func (h *Hub) IsOpen(drawingID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.sessions[drawingID]
	return ok
}

// Unregister detaches a client whose connection ended.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		h.removeClient(client)
	}
}

func (h *Hub) removeClient(client *Client) {
	close(client.send)
	h.Close(client.session)
	slog.Info("client left", "client", client.ClientID, "drawing", client.session.id)
}

func (h *Hub) saveAll() {
	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		h.save(s)
	}
}

func (h *Hub) save(s *Session) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.Save(ctx); err != nil {
		slog.Warn("autosave failed", "drawing", s.id, "error", err)
	}
}
