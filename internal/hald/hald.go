// Package hald builds and addresses the identity Hald-CLUT image: the 2D
// layout of the 3D sRGB cube every remapper writes into. Grounded on
// original_source/src/identity.rs, translated from its nested-loop
// generator into a go-parallel row-band generator (see internal/lutengine
// for the shared row-band convention).
//
// A note on symbols, since spec.md's own §2/§3 wording is internally
// inconsistent here: the per-channel grid resolution is level*level (e.g.
// 100 distinct values per channel at level=10, matching identity.rs's
// "cube_size"), and the image's pixel width/height is that resolution
// times level again, i.e. level^3 (matching identity.rs's "image_size",
// 1000 for level=10 -> 1,000,000 pixels, the "~10^6 entries" spec.md §1
// describes for the default level). We follow identity.rs's formulas
// exactly rather than spec.md's restated symbols, which don't reduce to
// the same numbers.
package hald

import (
	"fmt"
	"image"
	stdcolor "image/color"
	"math"

	"github.com/kovidgoyal/go-parallel"

	"github.com/lutgen-go/lutgen/internal/color"
	"github.com/lutgen-go/lutgen/internal/lutgenerr"
)

const (
	// MinLevel and MaxLevel bound the valid level range per spec.
	MinLevel = 2
	MaxLevel = 16
)

// Image is a square buffer of sRGB colors, row-major, representing a
// Hald-CLUT. Side is the image's pixel width (== height).
type Image struct {
	Side int
	Pix  []color.Color
}

// At returns the color at image coordinate (x, y).
func (img *Image) At(x, y int) color.Color {
	return img.Pix[y*img.Side+x]
}

// Set writes the color at image coordinate (x, y).
func (img *Image) Set(x, y int, c color.Color) {
	img.Pix[y*img.Side+x] = c
}

// ValidateLevel checks level is in [MinLevel, MaxLevel].
func ValidateLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return fmt.Errorf("%w: level must be between %d and %d, got %d", lutgenerr.ErrInvalidParameter, MinLevel, MaxLevel, level)
	}
	return nil
}

// PerChannel returns the number of distinct values each sRGB channel takes
// on in the identity LUT at the given level (level^2).
func PerChannel(level int) int {
	return level * level
}

// Side returns the pixel width/height of the Hald-CLUT image at the given
// level (level^3, i.e. PerChannel(level)*level).
func Side(level int) int {
	return PerChannel(level) * level
}

// DetectLevel recovers level from an image's pixel side length, per
// spec.md §6: level = round(side^(1/3)), rejecting sides that don't
// cube-root to an integer in [MinLevel, MaxLevel].
func DetectLevel(side int) (int, error) {
	level := int(math.Round(math.Cbrt(float64(side))))
	if level < MinLevel || level > MaxLevel || Side(level) != side {
		return 0, fmt.Errorf("%w: image side %d is not a valid Hald-CLUT side for any level in [%d,%d]",
			lutgenerr.ErrInvalidParameter, side, MinLevel, MaxLevel)
	}
	return level, nil
}

// Generate builds the identity Hald-CLUT for the given level: every pixel
// decodes, via CellIndex, to the sRGB input it stores unchanged. Rows are
// computed in parallel since each row writes a disjoint slice with no
// cross-row dependency.
func Generate(level int) (*Image, error) {
	if err := ValidateLevel(level); err != nil {
		return nil, err
	}

	n := PerChannel(level)
	s := Side(level)
	img := &Image{Side: s, Pix: make([]color.Color, s*s)}

	err := parallel.Run_in_parallel_over_range(0, func(start, limit int) {
		for y := start; y < limit; y++ {
			for x := 0; x < s; x++ {
				idx := y*s + x
				red, green, blue := CellIndex(idx, n)
				img.Pix[idx] = color.Color{
					R: channelByte(red, n),
					G: channelByte(green, n),
					B: channelByte(blue, n),
				}
			}
		}
	}, 0, s)
	if err != nil {
		return nil, fmt.Errorf("generating identity lut: %w", err)
	}
	return img, nil
}

// CellIndex decodes a linear pixel index into its (red, green, blue) grid
// coordinates, each in [0, n). Red is the fastest-varying component,
// matching identity.rs's loop nesting (blue outermost, red innermost).
func CellIndex(idx, n int) (red, green, blue int) {
	red = idx % n
	green = (idx / n) % n
	blue = idx / (n * n)
	return
}

// PixelIndex is the inverse of CellIndex: given grid coordinates, it
// returns the linear pixel index.
func PixelIndex(red, green, blue, n int) int {
	return blue*n*n + green*n + red
}

func channelByte(v, n int) uint8 {
	return uint8(math.Round(float64(v) * 255 / float64(n-1)))
}

// ToRGBA converts img to a stdlib image.RGBA, fully opaque, for encoding
// or passing to code that only speaks image.Image.
func (img *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Side, img.Side))
	for y := 0; y < img.Side; y++ {
		for x := 0; x < img.Side; x++ {
			c := img.At(x, y)
			out.SetRGBA(x, y, toRGBA(c))
		}
	}
	return out
}

func toRGBA(c color.Color) stdcolor.RGBA {
	return stdcolor.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// FromImage reads a decoded image back into a Hald-CLUT buffer. The
// image must be square; callers pair this with DetectLevel to recover
// the level it was generated at.
func FromImage(src image.Image) (*Image, error) {
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width != height {
		return nil, fmt.Errorf("%w: hald-clut image must be square, got %dx%d", lutgenerr.ErrInvalidParameter, width, height)
	}

	img := &Image{Side: width, Pix: make([]color.Color, width*width)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			img.Set(x, y, color.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
		}
	}
	return img, nil
}

// ChannelValue converts a grid coordinate in [0, n) to its 8-bit sRGB
// channel value, the same mapping Generate uses for every channel.
// Exported for callers that need to build or address a grid of the same
// resolution without going through a full Image (the Gaussian-blur
// remapper, which works on the 3D grid directly rather than the 2D Hald
// layout).
func ChannelValue(v, n int) uint8 {
	return channelByte(v, n)
}
