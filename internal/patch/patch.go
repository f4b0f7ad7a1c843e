// Package patch rewrites color literals embedded in arbitrary text
// files (config files, stylesheets, anything with hex/rgb()/rgba()
// tokens) through a remap function, and produces a unified diff of the
// change. Grounded on original_source's patch() function and its REGEX
// constant (crates/cli/src/main.rs).
package patch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lutgen-go/lutgen/internal/color"
)

// colorRegexp matches the literal forms lutgen rewrites: 3/4/6/8-digit hex
// (#abc, #abcd, #aabbcc, #aabbccdd), rgb(r, g, b), and rgba(r, g, b, a).
// The hex alternatives are ordered longest-first since Go's RE2 picks the
// first alternative that matches at a position, not the longest one: an
// 8-digit run must try the {8} branch before {6} or it would only consume
// the first 6 digits and leave the remaining 2 unmatched.
var colorRegexp = regexp.MustCompile(
	`#[0-9a-fA-F]{8}|#[0-9a-fA-F]{6}|#[0-9a-fA-F]{4}|#[0-9a-fA-F]{3}` +
		`|rgba?\(\s*[0-9]+\s*,\s*[0-9]+\s*,\s*[0-9]+\s*(?:,\s*[0-9.]+\s*)?\)`,
)

// RemapFunc maps one input color to its replacement.
type RemapFunc func(color.Color) color.Color

// Result reports how many color literals a Patch call found and
// rewrote.
type Result struct {
	Patched string
	Matches int
}

// Patch scans content for color literals and rewrites each one via
// remap, preserving each token's original syntax: hex literals keep
// their digit-case and width (3 vs 6 digits get re-derived, not forced
// to 6), rgb()/rgba() keep their function name and, for rgba(), the
// alpha component verbatim.
func Patch(content string, remap RemapFunc) Result {
	matches := 0
	patched := colorRegexp.ReplaceAllStringFunc(content, func(tok string) string {
		replacement, ok := patchToken(tok, remap)
		if !ok {
			return tok
		}
		matches++
		return replacement
	})
	return Result{Patched: patched, Matches: matches}
}

func patchToken(tok string, remap RemapFunc) (string, bool) {
	switch {
	case strings.HasPrefix(tok, "#"):
		return patchHex(tok, remap)
	case strings.HasPrefix(tok, "rgba"):
		return patchRGBA(tok, remap)
	case strings.HasPrefix(tok, "rgb"):
		return patchRGB(tok, remap)
	default:
		return tok, false
	}
}

func patchHex(tok string, remap RemapFunc) (string, bool) {
	c, alpha, err := color.ParseHex(tok)
	if err != nil {
		return tok, false
	}
	out := remap(c)
	digitsUpper := hasUpperHexDigits(tok)

	digits := len(tok) - 1 // excludes '#'
	hasAlpha := digits == 4 || digits == 8
	short := digits == 3 || digits == 4

	// The color channels get remapped, but alpha never does; it's
	// carried through from the source token unchanged, per spec.
	if short && isShortHexExpressible(out) && (!hasAlpha || alpha%17 == 0) {
		s := formatShortHex(out, digitsUpper)
		if hasAlpha {
			s += formatShortAlphaDigit(alpha, digitsUpper)
		}
		return s, true
	}

	s := formatHex(out, digitsUpper)
	if hasAlpha {
		s += formatAlphaByte(alpha, digitsUpper)
	}
	return s, true
}

// hasUpperHexDigits reports whether tok's hex digits use uppercase
// letters (A-F), so the rewritten literal matches the source file's
// existing style rather than flattening everything to lowercase.
func hasUpperHexDigits(tok string) bool {
	for _, r := range tok {
		if r >= 'A' && r <= 'F' {
			return true
		}
	}
	return false
}

// isShortHexExpressible reports whether c's channels can each be
// written as a single repeated hex digit (the #abc shorthand), so a
// 3-digit source literal stays 3 digits when the remap result allows it.
func isShortHexExpressible(c color.Color) bool {
	return c.R%17 == 0 && c.G%17 == 0 && c.B%17 == 0
}

func formatHex(c color.Color, upper bool) string {
	s := c.Hex()
	if upper {
		return "#" + strings.ToUpper(s[1:])
	}
	return s
}

func formatShortHex(c color.Color, upper bool) string {
	s := fmt.Sprintf("#%x%x%x", c.R/17, c.G/17, c.B/17)
	if upper {
		return strings.ToUpper(s)
	}
	return s
}

// formatShortAlphaDigit renders alpha as the single repeated hex digit
// the #RGBA shorthand requires; callers only use it once alpha%17 == 0
// has already been checked.
func formatShortAlphaDigit(alpha uint8, upper bool) string {
	s := fmt.Sprintf("%x", alpha/17)
	if upper {
		return strings.ToUpper(s)
	}
	return s
}

// formatAlphaByte renders alpha as two hex digits, for the #RRGGBBAA form.
func formatAlphaByte(alpha uint8, upper bool) string {
	s := fmt.Sprintf("%02x", alpha)
	if upper {
		return strings.ToUpper(s)
	}
	return s
}

func patchRGB(tok string, remap RemapFunc) (string, bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(tok, "rgb("), ")")
	nums := extractNumbers(inner)
	if len(nums) < 3 {
		return tok, false
	}
	c := color.Color{R: clampByte(nums[0]), G: clampByte(nums[1]), B: clampByte(nums[2])}
	out := remap(c)
	return fmt.Sprintf("rgb(%d, %d, %d)", out.R, out.G, out.B), true
}

func patchRGBA(tok string, remap RemapFunc) (string, bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(tok, "rgba("), ")")
	parts := strings.Split(inner, ",")
	if len(parts) != 4 {
		return tok, false
	}
	nums := extractNumbers(strings.Join(parts[:3], ","))
	if len(nums) < 3 {
		return tok, false
	}
	c := color.Color{R: clampByte(nums[0]), G: clampByte(nums[1]), B: clampByte(nums[2])}
	out := remap(c)
	alpha := strings.TrimSpace(parts[3])
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", out.R, out.G, out.B, alpha), true
}

func extractNumbers(s string) []int {
	var nums []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		nums = append(nums, v)
	}
	return nums
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
