// Package palette prepares a set of sRGB colors for use by a remapper:
// it converts every color to Oklab once, keeps the two representations
// index-aligned, and builds a k-d tree over the Oklab points (scaled by
// the luminance factor) for nearest/k-nearest queries. Grounded on
// original_source's NearestNeighborRemapper and RBFRemapper, which both
// build a ColorTree from "srgb_to_oklab(color) * lum_factor" before doing
// any lookups — the scaling happens once, at insertion, not per query.
package palette

import (
	"fmt"

	"github.com/lutgen-go/lutgen/internal/color"
	"github.com/lutgen-go/lutgen/internal/colorspace"
	"github.com/lutgen-go/lutgen/internal/lutgenerr"
)

// Prepared holds a palette ready for remapping: its colors in both sRGB
// and Oklab form, index-aligned, plus a k-d tree over the (L-scaled)
// Oklab points for spatial queries.
type Prepared struct {
	SRGB      []color.Color
	Oklab     []colorspace.Oklab
	LumFactor float32

	tree *kdTree
}

// Prepare deduplicates nothing — index order here is preserved verbatim
// for SRGB/Oklab lookups, duplicates included. (The cache key, §C9, sorts
// and dedups its own copy of the palette for hashing; it does not call
// Prepare.)
// An empty colors slice is an error: every remapper needs at least one
// palette point to be well-defined.
func Prepare(colors []color.Color, lumFactor float32) (*Prepared, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("%w: palette must not be empty", lutgenerr.ErrInvalidParameter)
	}

	p := &Prepared{
		SRGB:      colors,
		Oklab:     make([]colorspace.Oklab, len(colors)),
		LumFactor: lumFactor,
	}

	points := make([][3]float32, len(colors))
	indices := make([]int, len(colors))
	for i, c := range colors {
		ok := colorspace.SRGBToOklab(c.R, c.G, c.B)
		p.Oklab[i] = ok
		points[i] = [3]float32{ok.L * lumFactor, ok.A, ok.B}
		indices[i] = i
	}
	p.tree = buildKdTree(points, indices)
	return p, nil
}

// Nearest returns the palette index whose scaled Oklab point is closest
// to target (already scaled by the same LumFactor by the caller), and
// the squared distance to it.
func (p *Prepared) Nearest(target [3]float32) (idx int, distSq float32, ok bool) {
	n, found := p.tree.Nearest(target)
	if !found {
		return 0, 0, false
	}
	return n, sqDist(p.scaledPoint(n), target), true
}

// KNearest returns up to k palette indices closest to target, sorted by
// ascending squared distance.
func (p *Prepared) KNearest(target [3]float32, k int) []neighbor {
	return p.tree.KNearest(target, k)
}

// Point returns the scaled 3D Oklab point used internally for palette
// entry i, the same representation every tree query compares against.
func (p *Prepared) Point(i int) [3]float32 {
	return p.scaledPoint(i)
}

func (p *Prepared) scaledPoint(i int) [3]float32 {
	ok := p.Oklab[i]
	return [3]float32{ok.L * p.LumFactor, ok.A, ok.B}
}

// Len returns the number of colors in the palette.
func (p *Prepared) Len() int {
	return len(p.SRGB)
}
