// Package lutengine drives a remap.Remapper across an entire identity
// Hald-CLUT in parallel, and applies the optional luminance-preservation
// post-pass. Grounded on original_source's InterpolatedRemapper trait
// (par_remap_image) and GaussianBlurRemapper's "preserve" mode, which the
// rest of this repository's remappers don't each reimplement: here it is
// one function applied uniformly after any algorithm runs.
package lutengine

import (
	"fmt"

	"github.com/kovidgoyal/go-parallel"

	"github.com/lutgen-go/lutgen/internal/color"
	"github.com/lutgen-go/lutgen/internal/colorspace"
	"github.com/lutgen-go/lutgen/internal/hald"
	"github.com/lutgen-go/lutgen/internal/remap"
)

// Generate builds the level's identity LUT and remaps every cell through
// r, row by row in parallel. If r also implements remap.IndexedRemapper,
// RemapIndexed is called with the cell's linear pixel index instead of
// RemapPixel, so index-dependent algorithms (Gaussian sampling) stay
// deterministic regardless of how the rows are split across workers.
//
// When preserve is true, the output's Oklab L channel is overwritten with
// the input's L channel before conversion back to sRGB, cell by cell:
// the remap is free to move a color's hue and chroma, and a/b are kept
// as the remap produced them. When the resulting Oklab color lies outside
// the sRGB gamut, the conversion clamps each channel, so the written
// color's L can differ from the input's.
func Generate(level int, r remap.Remapper, preserve bool) (*hald.Image, error) {
	identity, err := hald.Generate(level)
	if err != nil {
		return nil, err
	}

	out := &hald.Image{Side: identity.Side, Pix: make([]color.Color, len(identity.Pix))}
	indexed, _ := r.(remap.IndexedRemapper)

	err = parallel.Run_in_parallel_over_range(0, func(start, limit int) {
		for y := start; y < limit; y++ {
			rowStart := y * identity.Side
			for x := 0; x < identity.Side; x++ {
				idx := rowStart + x
				in := identity.Pix[idx]

				var mapped color.Color
				if indexed != nil {
					mapped = indexed.RemapIndexed(idx, in)
				} else {
					mapped = r.RemapPixel(in)
				}

				if preserve {
					mapped = restoreLuminance(in, mapped)
				}
				out.Pix[idx] = mapped
			}
		}
	}, 0, identity.Side)
	if err != nil {
		return nil, fmt.Errorf("remapping lut: %w", err)
	}
	return out, nil
}

// Preserve applies the luminance-preservation post-pass to an
// already-generated result, using identity as the source of original L
// values. Used by callers whose remap step doesn't go through Generate,
// such as remap.GaussianBlurLUT, which builds its own result image
// directly from a 3D cube rather than cell by cell through a Remapper.
func Preserve(identity, result *hald.Image) (*hald.Image, error) {
	if identity.Side != result.Side {
		return nil, fmt.Errorf("lutengine: identity side %d does not match result side %d", identity.Side, result.Side)
	}

	out := &hald.Image{Side: result.Side, Pix: make([]color.Color, len(result.Pix))}
	err := parallel.Run_in_parallel_over_range(0, func(start, limit int) {
		for y := start; y < limit; y++ {
			rowStart := y * result.Side
			for x := 0; x < result.Side; x++ {
				idx := rowStart + x
				out.Pix[idx] = restoreLuminance(identity.Pix[idx], result.Pix[idx])
			}
		}
	}, 0, result.Side)
	if err != nil {
		return nil, fmt.Errorf("preserving luminance: %w", err)
	}
	return out, nil
}

// restoreLuminance replaces mapped's Oklab L channel with original's,
// leaving a/b untouched, and converts back to sRGB (clamping out-of-gamut
// channels, which can shift L).
func restoreLuminance(original, mapped color.Color) color.Color {
	origOk := colorspace.SRGBToOklab(original.R, original.G, original.B)
	mappedOk := colorspace.SRGBToOklab(mapped.R, mapped.G, mapped.B)
	restored := colorspace.Oklab{L: origOk.L, A: mappedOk.A, B: mappedOk.B}
	r, g, b := colorspace.OklabToSRGB(restored)
	return color.Color{R: r, G: g, B: b}
}
