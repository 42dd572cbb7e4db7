package live

import (
	"encoding/json"

	"github.com/planer/planer/internal/engine"
)

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client -> server
	TypePointerPress   = "pointer.press"
	TypePointerDrag    = "pointer.drag"
	TypePointerRelease = "pointer.release"
	TypeToolMode       = "tool.mode"
	TypeToolKind       = "tool.kind"
	TypeToolColors     = "tool.colors"
	TypeViewport       = "viewport"
	TypeDocSave        = "doc.save"

	// Server -> client
	TypeWelcome  = "welcome"
	TypeFrame    = "frame"
	TypeDocSaved = "doc.saved"
	TypeError    = "error"
)

// PointerPayload carries a pointer event in device coordinates.
type PointerPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button string  `json:"button,omitempty"`
}

type ModePayload struct {
	Mode string `json:"mode"`
}

type KindPayload struct {
	Kind string `json:"kind"`
}

// ColorsPayload holds "#rrggbb" colors; empty fields are left unchanged.
type ColorsPayload struct {
	Pen        string `json:"pen,omitempty"`
	Background string `json:"background,omitempty"`
}

type KindInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type WelcomePayload struct {
	DrawingID string     `json:"drawingId"`
	Kinds     []KindInfo `json:"kinds"`
	Mode      string     `json:"mode"`
	Kind      string     `json:"kind"`
	Skipped   int        `json:"skipped,omitempty"`
}

// FramePayload is a batch of draw commands in logical coordinates plus
// the logical-to-device transform to replay them with.
type FramePayload struct {
	Commands  []engine.DrawCommand `json:"commands"`
	Transform []float64            `json:"transform"`
}

type DocSavedPayload struct {
	Count int `json:"count"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func newMessage(msgType string, payload interface{}) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: msgType, Payload: data}
}

func errorMessage(err error) *Message {
	return newMessage(TypeError, ErrorPayload{Message: err.Error()})
}
