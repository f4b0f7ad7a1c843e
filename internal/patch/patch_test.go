package patch

import (
	"strings"
	"testing"

	"github.com/lutgen-go/lutgen/internal/color"
)

func invert(c color.Color) color.Color {
	return color.Color{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}
}

func TestPatchRewritesHexLiterals(t *testing.T) {
	result := Patch("background: #ff0000;", invert)
	if result.Matches != 1 {
		t.Fatalf("Matches = %d, want 1", result.Matches)
	}
	if !strings.Contains(result.Patched, "#00ffff") {
		t.Errorf("Patched = %q, want it to contain #00ffff", result.Patched)
	}
}

func TestPatchPreservesHexCase(t *testing.T) {
	result := Patch("color: #FF0000;", invert)
	if !strings.Contains(result.Patched, "#00FFFF") {
		t.Errorf("Patched = %q, want uppercase #00FFFF", result.Patched)
	}
}

func TestPatchRewritesShortHexWhenPossible(t *testing.T) {
	// #f00 inverted is 00ffff, which is expressible as the short form #0ff.
	result := Patch("color: #f00;", invert)
	if !strings.Contains(result.Patched, "#0ff") {
		t.Errorf("Patched = %q, want short hex #0ff", result.Patched)
	}
}

func TestPatchRewritesRGBLiterals(t *testing.T) {
	result := Patch("fill: rgb(255, 0, 0);", invert)
	if result.Matches != 1 {
		t.Fatalf("Matches = %d, want 1", result.Matches)
	}
	if !strings.Contains(result.Patched, "rgb(0, 255, 255)") {
		t.Errorf("Patched = %q, want rgb(0, 255, 255)", result.Patched)
	}
}

func TestPatchRewritesRGBAPreservingAlpha(t *testing.T) {
	result := Patch("fill: rgba(255, 0, 0, 0.5);", invert)
	if !strings.Contains(result.Patched, "rgba(0, 255, 255, 0.5)") {
		t.Errorf("Patched = %q, want alpha preserved", result.Patched)
	}
}

func TestPatchRewritesRGBAHexPreservingAlpha(t *testing.T) {
	// #f008 inverted is 00ffff with alpha preserved.
	result := Patch("color: #f008;", invert)
	if result.Matches != 1 {
		t.Fatalf("Matches = %d, want 1", result.Matches)
	}
	if !strings.Contains(result.Patched, "#0ff8") {
		t.Errorf("Patched = %q, want #0ff8", result.Patched)
	}
}

func TestPatchRewritesRRGGBBAAHexPreservingAlpha(t *testing.T) {
	result := Patch("color: #ff000080;", invert)
	if result.Matches != 1 {
		t.Fatalf("Matches = %d, want 1", result.Matches)
	}
	if !strings.Contains(result.Patched, "#00ffff80") {
		t.Errorf("Patched = %q, want #00ffff80", result.Patched)
	}
}

func TestPatchCountsMultipleMatches(t *testing.T) {
	result := Patch("#ff0000 and #00ff00 and rgb(0, 0, 255)", invert)
	if result.Matches != 3 {
		t.Fatalf("Matches = %d, want 3", result.Matches)
	}
}

func TestPatchLeavesNonColorTextAlone(t *testing.T) {
	input := "no colors here, just #hashtag text"
	result := Patch(input, invert)
	if result.Matches != 0 {
		t.Errorf("Matches = %d, want 0 for %q", result.Matches, input)
	}
	if result.Patched != input {
		t.Errorf("Patched = %q, want unchanged", result.Patched)
	}
}

func TestUnifiedDiffEmptyWhenNoChange(t *testing.T) {
	if d := UnifiedDiff("f.txt", "same\n", "same\n"); d != "" {
		t.Errorf("UnifiedDiff(identical) = %q, want empty", d)
	}
}

func TestUnifiedDiffHasHeadersAndHunk(t *testing.T) {
	original := "line1\nline2\nline3\n"
	patched := "line1\nCHANGED\nline3\n"
	d := UnifiedDiff("f.txt", original, patched)
	if !strings.Contains(d, "--- a/f.txt") || !strings.Contains(d, "+++ b/f.txt") {
		t.Errorf("UnifiedDiff missing headers: %q", d)
	}
	if !strings.Contains(d, "-line2") || !strings.Contains(d, "+CHANGED") {
		t.Errorf("UnifiedDiff missing hunk body: %q", d)
	}
}
