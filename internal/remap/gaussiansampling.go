package remap

import (
	"fmt"
	"math"

	"github.com/lutgen-go/lutgen/internal/color"
	"github.com/lutgen-go/lutgen/internal/colorspace"
	"github.com/lutgen-go/lutgen/internal/lutgenerr"
	"github.com/lutgen-go/lutgen/internal/palette"
)

// IndexedRemapper is implemented by remappers whose output depends on
// the LUT cell's position, not just its color, so they need a
// deterministic per-cell seed rather than a shared stream. gaussianSampling
// is the only one today: it perturbs the input color with Gaussian noise
// before each palette lookup, and the noise must be reproducible
// regardless of how many workers process the LUT in parallel.
// internal/lutengine checks for this interface and, when present, calls
// RemapIndexed with the pixel's linear index instead of RemapPixel.
type IndexedRemapper interface {
	RemapIndexed(cellIndex int, c color.Color) color.Color
}

// gaussianSampling perturbs each input color's sRGB channels with
// Gaussian noise on the 0..255 scale, iterations times, looks up the
// nearest palette color (in Oklab) for each perturbed sample, and
// averages the results in sRGB. Grounded on
// original_source's GaussianSamplingRemapper, generalized so the RNG
// seed is derived per cell (seed, cellIndex) rather than reused across
// an entire generation pass, per the determinism-across-thread-counts
// requirement: two runs with different worker counts must produce the
// same LUT, so no cell's randomness may depend on scheduling order.
type gaussianSampling struct {
	palette    *palette.Prepared
	mean       float32
	stdDev     float32
	iterations int
	seed       uint64
}

// NewGaussianSampling builds a Gaussian-sampling remapper. stdDev must be
// positive and iterations must be at least 1.
func NewGaussianSampling(p *palette.Prepared, mean, stdDev float32, iterations int, seed uint64) (Remapper, error) {
	if stdDev <= 0 {
		return nil, fmt.Errorf("%w: gaussian sampling std_dev must be positive, got %v", lutgenerr.ErrInvalidParameter, stdDev)
	}
	if iterations < 1 {
		return nil, fmt.Errorf("%w: gaussian sampling iterations must be at least 1, got %d", lutgenerr.ErrInvalidParameter, iterations)
	}
	return &gaussianSampling{palette: p, mean: mean, stdDev: stdDev, iterations: iterations, seed: seed}, nil
}

func (g *gaussianSampling) RemapPixel(c color.Color) color.Color {
	return g.RemapIndexed(0, c)
}

func (g *gaussianSampling) RemapIndexed(cellIndex int, c color.Color) color.Color {
	rng := newSplitMix64(cellSeed(g.seed, uint64(cellIndex)))

	var sumR, sumG, sumB float32
	for i := 0; i < g.iterations; i++ {
		// Noise is specified on the sRGB 0..=255 scale (mean/std-dev),
		// so it's applied to the u8 channels first, the same order
		// original_source's gaussian_sample.rs perturbs in; converting
		// to Oklab before jittering would apply a 0..=255-scale noise to
		// a ~[0,1]-scale channel, which drowns the signal.
		jittered := color.Color{
			R: jitterByte(c.R, g.gaussianNoise(rng)),
			G: jitterByte(c.G, g.gaussianNoise(rng)),
			B: jitterByte(c.B, g.gaussianNoise(rng)),
		}
		ok := colorspace.SRGBToOklab(jittered.R, jittered.G, jittered.B)
		target := [3]float32{ok.L * g.palette.LumFactor, ok.A, ok.B}
		idx, _, found := g.palette.Nearest(target)
		if !found {
			idx = 0
		}
		p := g.palette.SRGB[idx]
		sumR += float32(p.R)
		sumG += float32(p.G)
		sumB += float32(p.B)
	}

	n := float32(g.iterations)
	return color.Color{
		R: roundByte(sumR / n),
		G: roundByte(sumG / n),
		B: roundByte(sumB / n),
	}
}

// gaussianNoise draws one sample from N(mean, stdDev) using a Box-Muller
// transform. The rng is advanced by exactly two draws per call.
func (g *gaussianSampling) gaussianNoise(rng *splitMix64) float32 {
	u1 := rng.Float64()
	u2 := rng.Float64()
	if u1 <= 0 {
		u1 = 1e-12
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return float32(float64(g.mean) + float64(g.stdDev)*z)
}

// jitterByte adds noise to a u8 channel and clamps back into range.
func jitterByte(v uint8, noise float32) uint8 {
	return roundByte(float32(v) + noise)
}

func roundByte(v float32) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(math.Round(float64(v)))
}

// cellSeed combines a base seed with a cell index into a single seed,
// so every cell draws from an independent, reproducible stream.
func cellSeed(seed, cellIndex uint64) uint64 {
	// splitmix64's own mixing step, applied once to fold the two values
	// together; cheap and has no correlated-seed pitfalls for adjacent
	// cellIndex values, unlike a plain XOR or addition would.
	h := seed + cellIndex*0x9E3779B97F4A7C15
	h = (h ^ (h >> 30)) * 0xBF58476D1CE4E5B9
	h = (h ^ (h >> 27)) * 0x94D049BB133111EB
	return h ^ (h >> 31)
}

// splitMix64 is a minimal deterministic PRNG: fast, seedable, and with
// no dependency on the standard library's global math/rand state.
type splitMix64 struct {
	state uint64
}

func newSplitMix64(seed uint64) *splitMix64 {
	return &splitMix64{state: seed}
}

func (s *splitMix64) Next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Float64 returns a uniform value in [0, 1).
func (s *splitMix64) Float64() float64 {
	return float64(s.Next()>>11) / float64(1<<53)
}
