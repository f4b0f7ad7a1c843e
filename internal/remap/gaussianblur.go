package remap

import (
	"fmt"
	"math"

	"github.com/kovidgoyal/go-parallel"

	"github.com/lutgen-go/lutgen/internal/color"
	"github.com/lutgen-go/lutgen/internal/colorspace"
	"github.com/lutgen-go/lutgen/internal/hald"
	"github.com/lutgen-go/lutgen/internal/lutgenerr"
	"github.com/lutgen-go/lutgen/internal/palette"
)

// GaussianBlurLUT builds a LUT by nearest-neighbor-quantizing every grid
// cell to the palette, then running a separable 3D Gaussian blur over
// the cube in Oklab space, and finally converting back to sRGB. Unlike
// the other four algorithms it has no per-pixel RemapPixel: a blur
// inherently mixes a cell with its neighbors, so it works directly on
// the cube rather than through the Remapper interface.
//
// Grounded on original_source's GaussianBlurRemapper
// (crates/lib/src/interpolation/gaussian_blur.rs): nearest-neighbor
// quantize, build_kernel, three passes of blur_axis, colors_to_lut. The
// "preserve" luminance restoration that file folds into the same pass is
// instead applied uniformly over any remapper's output by
// internal/lutengine, so it isn't duplicated here.
func GaussianBlurLUT(level int, p *palette.Prepared, stdDev float32) (*hald.Image, error) {
	if err := hald.ValidateLevel(level); err != nil {
		return nil, err
	}
	if stdDev <= 0 {
		return nil, fmt.Errorf("%w: gaussian blur std_dev must be positive, got %v", lutgenerr.ErrInvalidParameter, stdDev)
	}

	n := hald.PerChannel(level)
	side := hald.Side(level)

	cube := make([]colorspace.Oklab, n*n*n)
	err := parallel.Run_in_parallel_over_range(0, func(start, limit int) {
		for blue := start; blue < limit; blue++ {
			for green := 0; green < n; green++ {
				for red := 0; red < n; red++ {
					r := hald.ChannelValue(red, n)
					g := hald.ChannelValue(green, n)
					b := hald.ChannelValue(blue, n)
					ok := colorspace.SRGBToOklab(r, g, b)
					target := [3]float32{ok.L * p.LumFactor, ok.A, ok.B}
					idx, _, found := p.Nearest(target)
					cell := ok
					if found {
						cell = p.Oklab[idx]
					}
					cube[hald.PixelIndex(red, green, blue, n)] = cell
				}
			}
		}
	}, 0, n)
	if err != nil {
		return nil, fmt.Errorf("quantizing grid: %w", err)
	}

	kernel, radius := buildKernel(stdDev)
	cube, err = blurAxis(cube, n, axisRed, kernel, radius)
	if err != nil {
		return nil, err
	}
	cube, err = blurAxis(cube, n, axisGreen, kernel, radius)
	if err != nil {
		return nil, err
	}
	cube, err = blurAxis(cube, n, axisBlue, kernel, radius)
	if err != nil {
		return nil, err
	}

	return cubeToImage(cube, n, side)
}

// buildKernel returns a normalized 1D Gaussian kernel and its radius.
// Radius is chosen as 3 standard deviations, matching the common
// "effectively zero past 3 sigma" truncation, with a minimum of 1. The
// radius is not limited by the grid size; blurAxis clamps sample
// positions at the grid boundary.
func buildKernel(stdDev float32) ([]float32, int) {
	radius := int(math.Ceil(float64(stdDev) * 3))
	if radius < 1 {
		radius = 1
	}
	size := 2*radius + 1
	kernel := make([]float32, size)
	var sum float32
	for i := 0; i < size; i++ {
		x := float32(i - radius)
		w := expf(-(x * x) / (2 * stdDev * stdDev))
		kernel[i] = w
		sum += w
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel, radius
}

type axis int

const (
	axisRed axis = iota
	axisGreen
	axisBlue
)

// blurAxis convolves cube with kernel along one axis, clamping at the
// grid boundary (the cube does not wrap). Runs each band of the
// perpendicular-to-axis plane in parallel, mirroring original_source's
// par_blur_axis.
func blurAxis(cube []colorspace.Oklab, n int, ax axis, kernel []float32, radius int) ([]colorspace.Oklab, error) {
	out := make([]colorspace.Oklab, len(cube))

	err := parallel.Run_in_parallel_over_range(0, func(start, limit int) {
		for outer := start; outer < limit; outer++ {
			for inner := 0; inner < n; inner++ {
				for pos := 0; pos < n; pos++ {
					var l, a, b float32
					for k := -radius; k <= radius; k++ {
						p := clampIndex(pos+k, n)
						red, green, blue := axisCoords(ax, outer, inner, p)
						c := cube[hald.PixelIndex(red, green, blue, n)]
						w := kernel[k+radius]
						l += w * c.L
						a += w * c.A
						b += w * c.B
					}
					red, green, blue := axisCoords(ax, outer, inner, pos)
					out[hald.PixelIndex(red, green, blue, n)] = colorspace.Oklab{L: l, A: a, B: b}
				}
			}
		}
	}, 0, n)
	if err != nil {
		return nil, fmt.Errorf("blurring axis: %w", err)
	}
	return out, nil
}

// axisCoords maps (outer, inner, pos) back to (red, green, blue)
// depending on which axis is being blurred: pos always varies along ax,
// outer and inner sweep the other two in a fixed order (matching the
// nesting in GaussianBlurLUT's quantize pass: blue outermost, green,
// red innermost).
func axisCoords(ax axis, outer, inner, pos int) (red, green, blue int) {
	switch ax {
	case axisRed:
		return pos, inner, outer
	case axisGreen:
		return inner, pos, outer
	default: // axisBlue
		return inner, outer, pos
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func cubeToImage(cube []colorspace.Oklab, n, side int) (*hald.Image, error) {
	// The cube's linear index already matches the Hald image's pixel
	// index: both are PixelIndex(red, green, blue, n), blue outermost.
	img := &hald.Image{Side: side, Pix: make([]color.Color, side*side)}
	for idx, ok := range cube {
		r, g, b := colorspace.OklabToSRGB(ok)
		img.Pix[idx] = color.Color{R: r, G: g, B: b}
	}
	return img, nil
}
