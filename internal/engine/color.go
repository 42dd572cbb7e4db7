package engine

import (
	"fmt"
	"image/color"
	"strings"
)

// Colors are the presentation colors of a session.
type Colors struct {
	Pen        color.Color
	Background color.Color
	// Accent is used for provisional frames during a gesture.
	Accent color.Color
}

// DefaultColors returns black on white with a red accent.
func DefaultColors() Colors {
	return Colors{
		Pen:        color.Black,
		Background: color.White,
		Accent:     color.RGBA{R: 0xff, A: 0xff},
	}
}

// ParseColor parses "#rrggbb" or "#rgb".
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	c := color.RGBA{A: 0xff}

	var err error
	switch len(hex) {
	case 6:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 3:
		_, err = fmt.Sscanf(hex, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		err = fmt.Errorf("bad length")
	}
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// FormatColor renders c as "#rrggbb", dropping alpha.
func FormatColor(c color.Color) string {
	if c == nil {
		return ""
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
