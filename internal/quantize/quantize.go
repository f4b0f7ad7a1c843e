// Package quantize extracts a representative palette from an arbitrary
// image via median-cut color quantization, backing the extract command
// (§4 supplement). The Quantizer interface's shape is grounded on
// other_examples/soniakeys-quant__quant.go's Quantizer interface, adapted
// to return a []color.Color rather than an *image.Paletted since nothing
// else in this codebase speaks indexed palettes.
package quantize

import (
	"fmt"
	"image"
	"sort"

	"github.com/lutgen-go/lutgen/internal/color"
	"github.com/lutgen-go/lutgen/internal/lutgenerr"
)

// Quantizer reduces an image to a palette of at most n colors.
type Quantizer interface {
	Quantize(img image.Image, n int) ([]color.Color, error)
}

// MedianCut is a Quantizer implementing the median-cut algorithm: the
// set of pixel colors is recursively split into boxes along each box's
// widest channel, at the count-weighted median, until there are n boxes
// or none can be split further. Each box's output color is the
// count-weighted average of the colors it holds.
type MedianCut struct{}

type colorCount struct {
	c     color.Color
	count int
}

type box []colorCount

// Quantize implements Quantizer.
func (MedianCut) Quantize(img image.Image, n int) ([]color.Color, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: quantize color count must be at least 1, got %d", lutgenerr.ErrInvalidParameter, n)
	}

	counts := collect(img)
	if len(counts) == 0 {
		return nil, fmt.Errorf("%w: image has no pixels", lutgenerr.ErrInvalidParameter)
	}

	boxes := []box{counts}
	for len(boxes) < n {
		splitIdx := largestBox(boxes)
		if splitIdx < 0 {
			break // no box has more than one distinct color left
		}
		a, b := split(boxes[splitIdx])
		boxes[splitIdx] = a
		boxes = append(boxes, b)
	}

	out := make([]color.Color, 0, len(boxes))
	for _, bx := range boxes {
		out = append(out, average(bx))
	}
	return out, nil
}

// collect tallies every distinct pixel color in img.
func collect(img image.Image) box {
	bounds := img.Bounds()
	tally := make(map[color.Color]int)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			c := color.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
			tally[c]++
		}
	}
	out := make(box, 0, len(tally))
	for c, n := range tally {
		out = append(out, colorCount{c: c, count: n})
	}
	return out
}

// largestBox returns the index of the box with the widest channel
// range among boxes that hold more than one distinct color, or -1 if
// none can be split.
func largestBox(boxes []box) int {
	best := -1
	bestRange := -1
	for i, bx := range boxes {
		if len(bx) < 2 {
			continue
		}
		_, r := widestChannel(bx)
		if r > bestRange {
			bestRange = r
			best = i
		}
	}
	return best
}

type channel int

const (
	channelR channel = iota
	channelG
	channelB
)

// widestChannel returns which of R, G, B has the largest range in bx,
// and that range.
func widestChannel(bx box) (channel, int) {
	minR, maxR := 255, 0
	minG, maxG := 255, 0
	minB, maxB := 255, 0
	for _, cc := range bx {
		minR, maxR = minMax(minR, maxR, cc.c.R)
		minG, maxG = minMax(minG, maxG, cc.c.G)
		minB, maxB = minMax(minB, maxB, cc.c.B)
	}
	rangeR, rangeG, rangeB := maxR-minR, maxG-minG, maxB-minB
	switch {
	case rangeR >= rangeG && rangeR >= rangeB:
		return channelR, rangeR
	case rangeG >= rangeB:
		return channelG, rangeG
	default:
		return channelB, rangeB
	}
}

func minMax(curMin, curMax int, v uint8) (int, int) {
	iv := int(v)
	if iv < curMin {
		curMin = iv
	}
	if iv > curMax {
		curMax = iv
	}
	return curMin, curMax
}

// split partitions bx in two along its widest channel, at the
// count-weighted median, so each half holds roughly equal pixel weight.
func split(bx box) (box, box) {
	ch, _ := widestChannel(bx)
	sorted := make(box, len(bx))
	copy(sorted, bx)
	sort.Slice(sorted, func(i, j int) bool {
		return channelValue(sorted[i].c, ch) < channelValue(sorted[j].c, ch)
	})

	total := 0
	for _, cc := range sorted {
		total += cc.count
	}

	running := 0
	cut := len(sorted) / 2
	for i, cc := range sorted {
		running += cc.count
		if running*2 >= total {
			cut = i + 1
			break
		}
	}
	if cut == 0 {
		cut = 1
	}
	if cut == len(sorted) {
		cut = len(sorted) - 1
	}
	return sorted[:cut], sorted[cut:]
}

func channelValue(c color.Color, ch channel) uint8 {
	switch ch {
	case channelR:
		return c.R
	case channelG:
		return c.G
	default:
		return c.B
	}
}

// average returns bx's count-weighted mean color.
func average(bx box) color.Color {
	var sumR, sumG, sumB, total int
	for _, cc := range bx {
		sumR += int(cc.c.R) * cc.count
		sumG += int(cc.c.G) * cc.count
		sumB += int(cc.c.B) * cc.count
		total += cc.count
	}
	if total == 0 {
		return color.Color{}
	}
	return color.Color{
		R: uint8(sumR / total),
		G: uint8(sumG / total),
		B: uint8(sumB / total),
	}
}
