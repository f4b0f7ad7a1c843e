package cache

import (
	"testing"

	"github.com/lutgen-go/lutgen/internal/color"
	"github.com/lutgen-go/lutgen/internal/hald"
)

func TestHashIgnoresPaletteOrderAndDuplicates(t *testing.T) {
	a := Key{
		Palette:   []color.Color{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}},
		Algorithm: "nearest-neighbor",
	}
	b := Key{
		Palette:   []color.Color{{R: 4, G: 5, B: 6}, {R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}},
		Algorithm: "nearest-neighbor",
	}
	if a.Hash() != b.Hash() {
		t.Errorf("hashes differ for reordered/duplicated palette: %s != %s", a.Hash(), b.Hash())
	}
}

func TestHashDiffersByAlgorithmAndParams(t *testing.T) {
	base := Key{Palette: []color.Color{{R: 1, G: 2, B: 3}}, Algorithm: "gaussian-rbf", Params: []Param{{"shape", "128"}}}
	other := Key{Palette: []color.Color{{R: 1, G: 2, B: 3}}, Algorithm: "gaussian-rbf", Params: []Param{{"shape", "64"}}}
	if base.Hash() == other.Hash() {
		t.Error("expected different hashes for different shape params")
	}

	diffAlgo := Key{Palette: base.Palette, Algorithm: "shepards-method", Params: base.Params}
	if base.Hash() == diffAlgo.Hash() {
		t.Error("expected different hashes for different algorithms")
	}
}

func TestHashParamOrderIndependent(t *testing.T) {
	a := Key{Algorithm: "x", Params: []Param{{"a", "1"}, {"b", "2"}}}
	b := Key{Algorithm: "x", Params: []Param{{"b", "2"}, {"a", "1"}}}
	if a.Hash() != b.Hash() {
		t.Error("expected param order to not affect hash")
	}
}

func TestPutThenGetRoundTrips(t *testing.T) {
	dir := t.TempDir()
	key := Key{Palette: []color.Color{{R: 1, G: 2, B: 3}}, Algorithm: "nearest-neighbor"}

	img, err := hald.Generate(2)
	if err != nil {
		t.Fatalf("hald.Generate error: %v", err)
	}

	if err := Put(dir, key, img); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, ok := Get(dir, key)
	if !ok {
		t.Fatal("Get: expected cache hit")
	}
	if got.Side != img.Side {
		t.Fatalf("Side = %d, want %d", got.Side, img.Side)
	}
	for i := range img.Pix {
		if got.Pix[i] != img.Pix[i] {
			t.Fatalf("pixel %d: got %v, want %v", i, got.Pix[i], img.Pix[i])
		}
	}
}

func TestGetMissIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	key := Key{Palette: []color.Color{{R: 9, G: 9, B: 9}}, Algorithm: "nearest-neighbor"}
	if _, ok := Get(dir, key); ok {
		t.Error("expected cache miss")
	}
}
