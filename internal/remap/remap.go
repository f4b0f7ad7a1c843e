// Package remap implements the interchangeable color-remapping algorithms
// that drive LUT generation: Gaussian RBF, Shepard's method, Gaussian
// sampling, nearest-neighbor, and the Gaussian-blur post-pass (the last
// lives in gaussianblur.go since it operates over the whole grid rather
// than pixel by pixel). Grounded on original_source's
// crates/lib/src/interpolation tree: a shared trait there (remap_pixel)
// backs the per-pixel algorithms, mirrored here as one Remapper interface
// backing three concrete types (the RBF-family weighted remapper used by
// both Gaussian RBF and Shepard, nearest-neighbor, and Gaussian sampling).
package remap

import (
	"fmt"
	"math"

	"github.com/lutgen-go/lutgen/internal/color"
	"github.com/lutgen-go/lutgen/internal/colorspace"
	"github.com/lutgen-go/lutgen/internal/lutgenerr"
	"github.com/lutgen-go/lutgen/internal/palette"
)

// Remapper computes the output color for a single input color. Every
// algorithm in this package except the Gaussian blur (GaussianBlurLUT)
// implements it; internal/lutengine drives one across an entire identity
// LUT in parallel.
type Remapper interface {
	RemapPixel(c color.Color) color.Color
}

// weighted is shared by the two RBF-family remappers (Gaussian and
// Shepard): both reduce to "sum palette colors by some weight(distance)
// and normalize", differing only in the weight function.
type weighted struct {
	palette *palette.Prepared
	nearest int // 0 means "use the whole palette", matching original_source's TreeOrVec::Vec branch
	weight  func(distSq float32) float32
}

func (w *weighted) RemapPixel(c color.Color) color.Color {
	ok := colorspace.SRGBToOklab(c.R, c.G, c.B)
	target := [3]float32{ok.L * w.palette.LumFactor, ok.A, ok.B}

	// An exact match (distSq == 0) must return pᵢ directly rather than
	// flow through the weighted blend: a weight function like Shepard's
	// 1/distance^power is undefined at distance 0, and forcing it to
	// +Inf turns the sumL/sumW division into Inf/Inf, i.e. NaN.
	var sumW, sumL, sumA, sumB float32
	var exactMatch color.Color
	var exact bool
	accumulate := func(idx int, distSq float32) {
		if exact {
			return
		}
		if distSq == 0 {
			exactMatch = w.palette.SRGB[idx]
			exact = true
			return
		}
		wt := w.weight(distSq)
		p := w.palette.Oklab[idx]
		sumW += wt
		sumL += wt * p.L
		sumA += wt * p.A
		sumB += wt * p.B
	}

	if w.nearest > 0 {
		for _, n := range w.palette.KNearest(target, w.nearest) {
			accumulate(n.Idx, n.DistSq)
		}
	} else {
		for i := 0; i < w.palette.Len(); i++ {
			p := w.palette.Point(i)
			accumulate(i, sqDist3(p, target))
		}
	}

	if exact {
		return exactMatch
	}

	if sumW == 0 {
		// Every weight underflowed to zero (pathological shape/power);
		// fall back to the single nearest point.
		idx, _, ok := w.palette.Nearest(target)
		if !ok {
			return c
		}
		p := w.palette.Oklab[idx]
		r, g, b := colorspace.OklabToSRGB(p)
		return color.Color{R: r, G: g, B: b}
	}

	blended := colorspace.Oklab{L: sumL / sumW, A: sumA / sumW, B: sumB / sumW}
	r, g, b := colorspace.OklabToSRGB(blended)
	return color.Color{R: r, G: g, B: b}
}

func sqDist3(a, b [3]float32) float32 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return dx*dx + dy*dy + dz*dz
}

// NewGaussianRBF builds a Gaussian radial-basis-function remapper: each
// palette point contributes exp(-shape*distSq) weight to the blend.
// shape must be positive; nearest, if non-zero, limits the blend to the
// nearest palette points instead of the whole palette (matching
// original_source's RBFRemapper::new, which switches to its tree branch
// whenever nearest != 0).
func NewGaussianRBF(p *palette.Prepared, shape float32, nearest int) (Remapper, error) {
	if shape <= 0 {
		return nil, fmt.Errorf("%w: gaussian rbf shape must be positive, got %v", lutgenerr.ErrInvalidParameter, shape)
	}
	return &weighted{
		palette: p,
		nearest: nearest,
		weight: func(distSq float32) float32 {
			return expf(-shape * distSq)
		},
	}, nil
}

// NewShepard builds a Shepard's-method (inverse-distance) remapper:
// each palette point contributes 1/distance^power weight to the blend.
// power must be positive.
func NewShepard(p *palette.Prepared, power float32, nearest int) (Remapper, error) {
	if power <= 0 {
		return nil, fmt.Errorf("%w: shepard power must be positive, got %v", lutgenerr.ErrInvalidParameter, power)
	}
	return &weighted{
		palette: p,
		nearest: nearest,
		weight: func(distSq float32) float32 {
			dist := sqrtf(distSq)
			return powf(dist, -power)
		},
	}, nil
}

// nearestNeighbor is the simplest remapper: every input maps to the
// closest palette color in (luminance-scaled) Oklab space.
type nearestNeighbor struct {
	palette *palette.Prepared
}

func (n *nearestNeighbor) RemapPixel(c color.Color) color.Color {
	ok := colorspace.SRGBToOklab(c.R, c.G, c.B)
	target := [3]float32{ok.L * n.palette.LumFactor, ok.A, ok.B}
	idx, _, found := n.palette.Nearest(target)
	if !found {
		return c
	}
	return n.palette.SRGB[idx]
}

// NewNearestNeighbor builds a nearest-neighbor remapper.
func NewNearestNeighbor(p *palette.Prepared) Remapper {
	return &nearestNeighbor{palette: p}
}

func expf(x float32) float32  { return float32(math.Exp(float64(x))) }
func sqrtf(x float32) float32 { return float32(math.Sqrt(float64(x))) }
func powf(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}
