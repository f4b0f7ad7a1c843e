package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNamesIncludesBuiltins(t *testing.T) {
	names, err := Names()
	if err != nil {
		t.Fatalf("Names error: %v", err)
	}
	want := map[string]bool{"nord": false, "dracula": false, "gruvbox-dark": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Names() missing %q", name)
		}
	}
}

func TestLoadBuiltinByName(t *testing.T) {
	t.Setenv("LUTGEN_DIR", t.TempDir())
	colors, err := Load("nord")
	if err != nil {
		t.Fatalf("Load(nord) error: %v", err)
	}
	if len(colors) == 0 {
		t.Fatal("Load(nord) returned no colors")
	}
}

func TestLoadIsCaseInsensitive(t *testing.T) {
	t.Setenv("LUTGEN_DIR", t.TempDir())
	if _, err := Load("NoRd"); err != nil {
		t.Errorf("Load(NoRd) error: %v", err)
	}
}

func TestLoadUnknownPaletteIsNotFound(t *testing.T) {
	t.Setenv("LUTGEN_DIR", t.TempDir())
	if _, err := Load("does-not-exist-palette"); err == nil {
		t.Fatal("expected error for unknown palette")
	}
}

func TestLoadPrefersCustomDirOverBuiltin(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LUTGEN_DIR", dir)

	if err := os.WriteFile(filepath.Join(dir, "nord.txt"), []byte("ff0000\n"), 0644); err != nil {
		t.Fatalf("writing custom palette: %v", err)
	}

	colors, err := Load("nord")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(colors) != 1 || colors[0].R != 0xff || colors[0].G != 0 || colors[0].B != 0 {
		t.Errorf("Load(nord) = %v, want custom override [ff0000]", colors)
	}
}

func TestParseSkipsCommentsAndBlankLines(t *testing.T) {
	colors, err := parse([]byte("# a comment\n\nff0000 00ff00\n\n# another\n0000ff\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(colors) != 3 {
		t.Fatalf("parse returned %d colors, want 3", len(colors))
	}
}

func TestParseRejectsEmptyFile(t *testing.T) {
	if _, err := parse([]byte("# just a comment\n")); err == nil {
		t.Error("expected error for palette file with no colors")
	}
}

func TestParseDoesNotSwallowHashPrefixedColors(t *testing.T) {
	colors, err := parse([]byte("# a comment\n#ff0000\n#00ff00 #0000ff\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(colors) != 3 {
		t.Fatalf("parse returned %d colors, want 3", len(colors))
	}
	if colors[0].R != 0xff || colors[0].G != 0 || colors[0].B != 0 {
		t.Errorf("colors[0] = %v, want ff0000", colors[0])
	}
}
