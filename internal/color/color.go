// Package color defines the sRGB color type shared by every core package,
// along with the hex encoding used by palette files, the embedded catalog,
// and the text patcher.
package color

import (
	"fmt"
	"strings"
)

// Color is an ordered sRGB triple. The R, G, B fields are the source of
// truth; every other representation (hex, Oklab) is derived from them.
type Color struct {
	R, G, B uint8
}

// ParseHex parses a hex color token into a Color and its alpha byte.
// Accepts 3, 6, or 8 hex digits, with or without a leading '#'. 3-digit
// tokens are expanded by channel doubling (per spec, "a" -> "aa"). 4-digit
// tokens (#RGBA) are also accepted and expanded the same way. When no alpha
// digits are present, alpha is returned as 0xff.
func ParseHex(s string) (c Color, alpha uint8, err error) {
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 3, 4:
		expanded := make([]byte, 0, 8)
		for i := 0; i < len(s); i++ {
			expanded = append(expanded, s[i], s[i])
		}
		s = string(expanded)
	case 6, 8:
		// already full-width
	default:
		return Color{}, 0, fmt.Errorf("invalid hex color %q: must be 3, 4, 6, or 8 hex digits", s)
	}
	for _, ch := range s {
		if !(ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F') {
			return Color{}, 0, fmt.Errorf("invalid hex color %q: %q is not a hex digit", s, ch)
		}
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(s[0:6], "%02x%02x%02x", &r, &g, &b); err != nil {
		return Color{}, 0, fmt.Errorf("invalid hex color %q: %w", s, err)
	}

	alpha = 0xff
	if len(s) == 8 {
		var a uint8
		if _, err := fmt.Sscanf(s[6:8], "%02x", &a); err != nil {
			return Color{}, 0, fmt.Errorf("invalid hex alpha %q: %w", s, err)
		}
		alpha = a
	}

	return Color{R: r, G: g, B: b}, alpha, nil
}

// Hex returns the color as a lowercase "#rrggbb" hex string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HexBare returns the color as a lowercase "rrggbb" hex string, no prefix.
func (c Color) HexBare() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// RGB returns the color as an rgb() function string, e.g. "rgb(235, 111, 146)".
func (c Color) RGB() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}
