package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	lutcolor "github.com/lutgen-go/lutgen/internal/color"
	"github.com/lutgen-go/lutgen/internal/imageio"
)

// resetFlags restores the package-level flag structs to the CLI's default
// flag values (the hardcoded ones, without any lutgen.hcl overrides).
// Tests call this instead of relying on flag parsing order, since genFlags
// et al. are package singletons shared by every command's register*Flags.
func resetFlags() {
	genFlags = generateFlags{level: 10, lumFactor: 1.0, radius: 1.5, nearest: 16, shape: 128, power: 4, stdDev: 20, iterations: 512, seed: 42080085}
	applyFlags = applyFlagsT{}
	patchFlags = patchFlagsT{}
	extractFlags = extractFlagsT{}
}

func testCmd() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	return cmd, &out
}

func TestRunGenerateWritesLUT(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	genFlags.palette = []string{"#112233", "#445566"}
	genFlags.level = 4
	genFlags.output = filepath.Join(dir, "out.png")

	cmd, out := testCmd()
	if err := runGenerate(cmd, nil); err != nil {
		t.Fatalf("runGenerate error: %v", err)
	}
	if _, err := os.Stat(genFlags.output); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if !strings.Contains(out.String(), "wrote") {
		t.Errorf("expected a wrote-confirmation line, got %q", out.String())
	}
}

func TestRunGenerateRequiresAtLeastOnePalette(t *testing.T) {
	resetFlags()
	genFlags.palette = nil

	cmd, _ := testCmd()
	if err := runGenerate(cmd, nil); err == nil {
		t.Fatal("expected error with no --palette given")
	}
}

func TestRunGenerateDefaultOutputNameMatchesAlgorithm(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	genFlags.palette = []string{"#ff0000"}
	genFlags.level = 4
	genFlags.nearestNeighbor = true

	cmd, _ := testCmd()
	if err := runGenerate(cmd, nil); err != nil {
		t.Fatalf("runGenerate error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "nearest-neighbor.png")); err != nil {
		t.Fatalf("expected nearest-neighbor.png: %v", err)
	}
}

func TestAlgorithmNameReflectsSelection(t *testing.T) {
	resetFlags()
	if got := algorithmName(); got != "gaussian-blur" {
		t.Errorf("algorithmName() = %q, want gaussian-blur", got)
	}
	genFlags.gaussianRBF = true
	if got := algorithmName(); got != "gaussian-rbf" {
		t.Errorf("algorithmName() = %q, want gaussian-rbf", got)
	}
}

func TestResolveColorsMixesHexAndNamedPalettes(t *testing.T) {
	resetFlags()
	t.Setenv("LUTGEN_DIR", t.TempDir())
	colors, err := resolveColors([]string{"#abcdef", "nord"})
	if err != nil {
		t.Fatalf("resolveColors error: %v", err)
	}
	if len(colors) < 2 {
		t.Fatalf("expected at least 2 colors, got %d", len(colors))
	}
}

func TestResolveColorsUnknownNameErrors(t *testing.T) {
	resetFlags()
	t.Setenv("LUTGEN_DIR", t.TempDir())
	if _, err := resolveColors([]string{"not-a-real-palette"}); err == nil {
		t.Fatal("expected error for unknown palette name")
	}
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}
	if err := imageio.EncodePNG(path, img); err != nil {
		t.Fatalf("EncodePNG error: %v", err)
	}
}

func TestRunApplyWritesCorrectedImage(t *testing.T) {
	resetFlags()
	t.Setenv("LUTGEN_DIR", t.TempDir())
	dir := t.TempDir()

	src := filepath.Join(dir, "in.png")
	writeTestPNG(t, src, 4, 4)

	genFlags.palette = []string{"#112233", "#445566", "#8899aa"}
	genFlags.level = 4
	applyFlags.output = filepath.Join(dir, "out.png")

	cmd, out := testCmd()
	if err := runApply(cmd, []string{src}); err != nil {
		t.Fatalf("runApply error: %v", err)
	}
	if _, err := os.Stat(applyFlags.output); err != nil {
		t.Fatalf("expected corrected output: %v", err)
	}
	if !strings.Contains(out.String(), "wrote") {
		t.Errorf("expected a wrote-confirmation line, got %q", out.String())
	}
}

func TestOutputPathDefaultsAlongsideInput(t *testing.T) {
	got := outputPath("/a/b/photo.png", "")
	want := "/a/b/photo-corrected.png"
	if got != want {
		t.Errorf("outputPath = %q, want %q", got, want)
	}
}

func TestOutputPathRespectsDir(t *testing.T) {
	got := outputPath("/a/b/photo.png", "/out")
	want := "/out/photo-corrected.png"
	if got != want {
		t.Errorf("outputPath = %q, want %q", got, want)
	}
}

func TestRunApplyWithExternalHaldCLUT(t *testing.T) {
	resetFlags()
	dir := t.TempDir()

	lutPath := filepath.Join(dir, "lut.png")
	genFlags.palette = []string{"#ff00ff"}
	genFlags.level = 4
	genFlags.output = lutPath
	genCmd, _ := testCmd()
	if err := runGenerate(genCmd, nil); err != nil {
		t.Fatalf("generating lut fixture: %v", err)
	}

	resetFlags()
	src := filepath.Join(dir, "in.png")
	writeTestPNG(t, src, 3, 3)
	applyFlags.haldCLUT = lutPath
	applyFlags.output = filepath.Join(dir, "out.png")

	cmd, _ := testCmd()
	if err := runApply(cmd, []string{src}); err != nil {
		t.Fatalf("runApply with --hald-clut error: %v", err)
	}
	if _, err := os.Stat(applyFlags.output); err != nil {
		t.Fatalf("expected corrected output: %v", err)
	}
}

func TestRunPatchPrintsDiffWithoutWriting(t *testing.T) {
	resetFlags()
	dir := t.TempDir()

	src := filepath.Join(dir, "styles.css")
	if err := os.WriteFile(src, []byte("body { color: #112233; }\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	genFlags.palette = []string{"#112233", "#445566"}
	genFlags.level = 4

	cmd, out := testCmd()
	if err := runPatch(cmd, []string{src}); err != nil {
		t.Fatalf("runPatch error: %v", err)
	}
	if out.Len() == 0 {
		t.Error("expected a diff to be printed for a matched color")
	}

	unchanged, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(unchanged), "#112233") {
		t.Error("patch without --write must not modify the file on disk")
	}
}

func TestRunPatchWriteRewritesFile(t *testing.T) {
	resetFlags()
	dir := t.TempDir()

	src := filepath.Join(dir, "styles.css")
	if err := os.WriteFile(src, []byte("body { color: #112233; }\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	genFlags.palette = []string{"#112233", "#445566"}
	genFlags.level = 4
	patchFlags.write = true

	cmd, _ := testCmd()
	if err := runPatch(cmd, []string{src}); err != nil {
		t.Fatalf("runPatch error: %v", err)
	}

	rewritten, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(rewritten), "#112233") {
		t.Error("expected the original literal to be rewritten")
	}
}

func TestRunPaletteNamesListsBuiltins(t *testing.T) {
	t.Setenv("LUTGEN_DIR", t.TempDir())
	cmd, out := testCmd()
	if err := runPaletteNames(cmd, nil); err != nil {
		t.Fatalf("runPaletteNames error: %v", err)
	}
	if !strings.Contains(out.String(), "nord") {
		t.Errorf("expected %q in names output, got %q", "nord", out.String())
	}
}

func TestRunPaletteShowPrintsRequestedPalette(t *testing.T) {
	t.Setenv("LUTGEN_DIR", t.TempDir())
	cmd, out := testCmd()
	if err := runPaletteShow(cmd, []string{"nord"}); err != nil {
		t.Fatalf("runPaletteShow error: %v", err)
	}
	if !strings.Contains(out.String(), "nord:") {
		t.Errorf("expected a %q header, got %q", "nord:", out.String())
	}
}

func TestRunPaletteShowUnknownNameErrors(t *testing.T) {
	t.Setenv("LUTGEN_DIR", t.TempDir())
	cmd, _ := testCmd()
	if err := runPaletteShow(cmd, []string{"not-a-real-palette"}); err == nil {
		t.Fatal("expected error for unknown palette name")
	}
}

func TestRunExtractGeneratesLUTFromImage(t *testing.T) {
	resetFlags()
	t.Setenv("LUTGEN_DIR", t.TempDir())
	dir := t.TempDir()

	src := filepath.Join(dir, "photo.png")
	writeTestPNG(t, src, 8, 8)

	genFlags.level = 4
	extractFlags.colorCount = 4
	extractFlags.output = filepath.Join(dir, "extracted.png")

	cmd, out := testCmd()
	if err := runExtract(cmd, []string{src}); err != nil {
		t.Fatalf("runExtract error: %v", err)
	}
	if _, err := os.Stat(extractFlags.output); err != nil {
		t.Fatalf("expected extracted lut file: %v", err)
	}
	if !strings.Contains(out.String(), "wrote") {
		t.Errorf("expected a wrote-confirmation line, got %q", out.String())
	}
}

func TestDedupColorsRemovesDuplicates(t *testing.T) {
	colors := []lutcolor.Color{{R: 1, G: 2, B: 3}, {R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}}
	got := dedupColors(colors)
	if len(got) != 2 {
		t.Fatalf("dedupColors len = %d, want 2", len(got))
	}
}
