package engine

import "fmt"

// Mode is the tool mode. It decides what a gesture means, not whether
// one is in progress.
type Mode int

const (
	ModeDraw Mode = iota
	ModeDrag
	ModeResize
	ModeDelete
)

var modeNames = map[Mode]string{
	ModeDraw:   "draw",
	ModeDrag:   "drag",
	ModeResize: "resize",
	ModeDelete: "delete",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses the lower-case mode name.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Button identifies the pointer trigger of a gesture. In resize mode the
// primary button grows a shape and the secondary one shrinks it.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

func (b Button) String() string {
	if b == ButtonSecondary {
		return "secondary"
	}
	return "primary"
}

// ParseButton maps "primary"/"secondary" (also "left"/"right") to a Button.
// Anything else is treated as primary.
func ParseButton(s string) Button {
	switch s {
	case "secondary", "right":
		return ButtonSecondary
	default:
		return ButtonPrimary
	}
}
