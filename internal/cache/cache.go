// Package cache stores generated LUTs on disk, keyed by the palette and
// algorithm parameters that produced them, so identical requests skip
// regeneration. Grounded on original_source's apply() cache logic
// (crates/cli/src/main.rs): a content hash under the OS cache directory,
// load-if-present-else-generate-and-save. A cache miss or a corrupt
// cached file is never an error here — both just mean "not cached", per
// the design's error taxonomy, which reserves errors for conditions a
// caller should react to.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"github.com/lutgen-go/lutgen/internal/color"
	"github.com/lutgen-go/lutgen/internal/hald"
)

// Param is one named parameter contributing to a cache key, e.g.
// {"shape", "128"} for a Gaussian-RBF generation.
type Param struct {
	Name  string
	Value string
}

// Key identifies one generation request: the palette used, the
// algorithm name, and its parameters. Palette order does not affect the
// key; internal/cache sorts and dedups it before hashing.
type Key struct {
	Palette   []color.Color
	Algorithm string
	Params    []Param
}

// Hash returns the key's content hash as a lowercase hex string, stable
// across process runs and palette input order.
func (k Key) Hash() string {
	h := sha256.New()

	palette := make([]color.Color, len(k.Palette))
	copy(palette, k.Palette)
	sort.Slice(palette, func(i, j int) bool {
		return colorLess(palette[i], palette[j])
	})
	palette = dedup(palette)
	for _, c := range palette {
		h.Write([]byte{c.R, c.G, c.B})
	}

	h.Write([]byte("\x00algo:"))
	h.Write([]byte(k.Algorithm))

	params := make([]Param, len(k.Params))
	copy(params, k.Params)
	sort.Slice(params, func(i, j int) bool { return params[i].Name < params[j].Name })
	for _, p := range params {
		h.Write([]byte("\x00"))
		h.Write([]byte(p.Name))
		h.Write([]byte("="))
		h.Write([]byte(p.Value))
	}

	return hex.EncodeToString(h.Sum(nil))
}

func colorLess(a, b color.Color) bool {
	if a.R != b.R {
		return a.R < b.R
	}
	if a.G != b.G {
		return a.G < b.G
	}
	return a.B < b.B
}

func dedup(sorted []color.Color) []color.Color {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, c := range sorted[1:] {
		if c != out[len(out)-1] {
			out = append(out, c)
		}
	}
	return out
}

// Path returns the on-disk path a key's cached LUT would live at, under
// dir.
func Path(dir string, key Key) string {
	return filepath.Join(dir, key.Hash()+".png")
}

// Get loads a cached LUT for key from dir. The second return value is
// false for a cache miss, a missing directory, or a corrupt cached
// file — Get never returns an error.
func Get(dir string, key Key) (*hald.Image, bool) {
	f, err := os.Open(Path(dir, key))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		return nil, false
	}

	img, err := hald.FromImage(decoded)
	if err != nil {
		return nil, false
	}
	return img, true
}

// Put saves img under dir, keyed by key, creating dir if needed and
// writing atomically (temp file then rename) so a concurrent Get never
// observes a partially written cache entry.
func Put(dir string, key Key, img *hald.Image) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "lutgen-cache-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmp, img.ToRGBA()); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding cached lut: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp cache file: %w", err)
	}

	if err := os.Rename(tmpPath, Path(dir, key)); err != nil {
		return fmt.Errorf("installing cached lut: %w", err)
	}
	return nil
}
