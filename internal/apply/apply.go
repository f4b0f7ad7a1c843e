// Package apply samples a generated Hald-CLUT to correct arbitrary
// images: each input pixel quantizes to its nearest grid cell and is
// replaced by that cell's color. Grounded on original_source's
// correct_pixel/correct_image (crates/cli/src/main.rs), which do the same
// direct grid-cell lookup rather than any interpolation between cells.
package apply

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/kovidgoyal/go-parallel"

	lutcolor "github.com/lutgen-go/lutgen/internal/color"
	"github.com/lutgen-go/lutgen/internal/hald"
)

// CorrectPixel maps an sRGB color through the LUT: each channel is
// quantized to the nearest of the LUT's per-channel grid values, and the
// corresponding cell's color is returned unchanged. level must be the
// level lut was generated at (callers typically get it from
// hald.DetectLevel(lut.Side)).
func CorrectPixel(lut *hald.Image, level int, c lutcolor.Color) lutcolor.Color {
	n := hald.PerChannel(level)
	red := quantizeChannel(c.R, n)
	green := quantizeChannel(c.G, n)
	blue := quantizeChannel(c.B, n)
	idx := hald.PixelIndex(red, green, blue, n)
	x, y := idx%lut.Side, idx/lut.Side
	return lut.At(x, y)
}

// quantizeChannel maps an 8-bit channel value to the nearest of the n
// grid steps used by hald.Generate for the same n.
func quantizeChannel(v uint8, n int) int {
	step := float64(v) / 255 * float64(n-1)
	return int(math.Round(step))
}

// CorrectImage applies the LUT to every pixel of src, returning a new
// RGBA image of the same bounds. Alpha is preserved unchanged. Rows are
// processed in parallel since each is independent.
func CorrectImage(lut *hald.Image, level int, src image.Image) (*image.RGBA, error) {
	bounds := src.Bounds()
	out := image.NewRGBA(bounds)

	err := parallel.Run_in_parallel_over_range(0, func(start, limit int) {
		for y := start; y < limit; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, a := src.At(x, y).RGBA()
				in := lutcolor.Color{R: to8(r), G: to8(g), B: to8(b)}
				corrected := CorrectPixel(lut, level, in)
				out.SetRGBA(x, y, color.RGBA{R: corrected.R, G: corrected.G, B: corrected.B, A: to8(a)})
			}
		}
	}, bounds.Min.Y, bounds.Max.Y)
	if err != nil {
		return nil, fmt.Errorf("correcting image: %w", err)
	}
	return out, nil
}

// to8 narrows a color/color.RGBA's 16-bit premultiplied channel (as
// returned by image.Color.RGBA) back to 8 bits.
func to8(v uint32) uint8 {
	return uint8(v >> 8)
}
