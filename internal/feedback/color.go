package feedback

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"
)

// Color is one RGB triple as written to the hardware sink.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Off is the dark color used for the "off" half of a blink.
var Off = Color{}

// Palette used by the kiosk housing.
var (
	LogoBlue      = Color{R: 0, G: 102, B: 204}
	LogoTurquoise = Color{R: 0, G: 168, B: 168}
	White         = Color{R: 255, G: 255, B: 255}
	Green         = Color{R: 0, G: 255, B: 0}
	Red           = Color{R: 255, G: 0, B: 0}
	Amber         = Color{R: 255, G: 165, B: 0}
)

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 {
		return Color{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{R: b[0], G: b[1], B: b[2]}, nil
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// Lerp interpolates each channel linearly from a to b; f is clamped to [0,1].
func Lerp(a, b Color, f float64) Color {
	if f <= 0 {
		return a
	}
	if f >= 1 {
		return b
	}
	return Color{
		R: lerpChannel(a.R, b.R, f),
		G: lerpChannel(a.G, b.G, f),
		B: lerpChannel(a.B, b.B, f),
	}
}

func lerpChannel(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}
