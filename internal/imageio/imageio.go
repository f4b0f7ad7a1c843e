// Package imageio registers every image codec lutgen can read or write
// and normalizes decoded images to image.RGBA. Grounded on
// kovidgoyal-imaging's io.go: stdlib codecs (png, jpeg, gif) registered
// for their side effect on image.RegisterFormat, golang.org/x/image's
// bmp/tiff/webp blank-imported the same way for formats the standard
// library doesn't cover.
package imageio

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/lutgen-go/lutgen/internal/lutgenerr"
)

// Decode reads an image from path, normalizing it to *image.RGBA. The
// format is detected from the file content, not the extension.
func Decode(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return toRGBA(img), nil
}

// DecodeGIF reads a GIF and returns it whole: every frame as the decoded
// *image.Paletted plus the original per-frame delays and disposal info,
// for animated apply.
// Grounded on stdlib image/gif; no other animated format (apng) is
// supported, see DESIGN.md.
func DecodeGIF(path string) (*gif.GIF, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("decoding gif %s: %w", path, err)
	}
	return g, nil
}

// IsGIF reports whether path's content is a GIF, by sniffing its magic
// bytes rather than trusting the extension.
func IsGIF(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, 6)
	if _, err := io.ReadFull(f, header); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	return strings.HasPrefix(string(header), "GIF87a") || strings.HasPrefix(string(header), "GIF89a"), nil
}

// EncodePNG writes img to path as a PNG, per spec the canonical format
// for generated LUTs and corrected stills.
func EncodePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding png %s: %w", path, err)
	}
	return nil
}

// EncodeByExtension writes img to path, choosing PNG or JPEG by path's
// extension (case-insensitive), and PNG for anything else.
func EncodeByExtension(path string, img image.Image) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 95}); err != nil {
			return fmt.Errorf("encoding jpeg %s: %w", path, err)
		}
		return nil
	default:
		return EncodePNG(path, img)
	}
}

// EncodeGIF writes an animated GIF to path.
func EncodeGIF(path string, g *gif.GIF) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := gif.EncodeAll(f, g); err != nil {
		return fmt.Errorf("encoding gif %s: %w", path, err)
	}
	return nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}

// SupportedExtensions lists the file extensions of the formats whose
// decoders this package registers. Nothing in lutgen reads it today; apply
// takes explicit file paths and does not walk directories.
var SupportedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tiff": true, ".tif": true, ".webp": true,
}

// ErrUnsupportedFormat is lutgenerr.ErrInvalidParameter under a
// format-specific name. Decode does not check extensions, since it sniffs
// content, and nothing in lutgen returns this error today.
var ErrUnsupportedFormat = lutgenerr.ErrInvalidParameter
