package lutengine

import (
	"testing"

	"github.com/lutgen-go/lutgen/internal/color"
	"github.com/lutgen-go/lutgen/internal/colorspace"
	"github.com/lutgen-go/lutgen/internal/hald"
	"github.com/lutgen-go/lutgen/internal/palette"
	"github.com/lutgen-go/lutgen/internal/remap"
)

func TestGenerateMatchesIdentityForNearestNeighborOnFullPalette(t *testing.T) {
	level := 3
	n := hald.PerChannel(level)

	// A palette containing every cell's exact color means the
	// nearest-neighbor remap is the identity function.
	var colors []color.Color
	for idx := 0; idx < n*n*n; idx++ {
		red, green, blue := hald.CellIndex(idx, n)
		colors = append(colors, color.Color{
			R: hald.ChannelValue(red, n),
			G: hald.ChannelValue(green, n),
			B: hald.ChannelValue(blue, n),
		})
	}

	p, err := palette.Prepare(colors, 1)
	if err != nil {
		t.Fatalf("Prepare error: %v", err)
	}
	r := remap.NewNearestNeighbor(p)

	out, err := Generate(level, r, false)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	identity, err := hald.Generate(level)
	if err != nil {
		t.Fatalf("hald.Generate error: %v", err)
	}

	for i := range identity.Pix {
		if out.Pix[i] != identity.Pix[i] {
			t.Fatalf("pixel %d: got %v, want %v", i, out.Pix[i], identity.Pix[i])
		}
	}
}

func TestPreserveKeepsOriginalLuminance(t *testing.T) {
	level := 2
	identity, err := hald.Generate(level)
	if err != nil {
		t.Fatalf("hald.Generate error: %v", err)
	}

	// A fake "result" that shifts every pixel to pure red, to make sure
	// Preserve restores luminance rather than leaving the shift alone.
	result := &hald.Image{Side: identity.Side, Pix: make([]color.Color, len(identity.Pix))}
	for i := range result.Pix {
		result.Pix[i] = color.Color{R: 255, G: 0, B: 0}
	}

	preserved, err := Preserve(identity, result)
	if err != nil {
		t.Fatalf("Preserve error: %v", err)
	}

	for i, orig := range identity.Pix {
		wantL := colorspace.Luminance(colorspace.SRGBToOklab(orig.R, orig.G, orig.B))
		gotL := colorspace.Luminance(colorspace.SRGBToOklab(preserved.Pix[i].R, preserved.Pix[i].G, preserved.Pix[i].B))
		if diff := wantL - gotL; diff > 0.02 || diff < -0.02 {
			t.Fatalf("pixel %d: luminance %v, want close to %v", i, gotL, wantL)
		}
	}
}

func TestPreserveRejectsMismatchedSides(t *testing.T) {
	a := &hald.Image{Side: 4, Pix: make([]color.Color, 16)}
	b := &hald.Image{Side: 8, Pix: make([]color.Color, 64)}
	if _, err := Preserve(a, b); err == nil {
		t.Error("expected error for mismatched sides")
	}
}
