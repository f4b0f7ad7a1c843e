package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lutgen-go/lutgen/internal/apply"
	"github.com/lutgen-go/lutgen/internal/hald"
	"github.com/lutgen-go/lutgen/internal/imageio"
)

type applyFlagsT struct {
	haldCLUT string
	dir      string
	output   string
}

var applyFlags applyFlagsT

var applyCmd = &cobra.Command{
	Use:   "apply <image>...",
	Short: "Apply a Hald-CLUT to one or more images",
	Long: "Correct images by sampling a Hald-CLUT at each pixel's quantized grid cell. The LUT " +
		"is either loaded from --hald-clut or built inline from the same algorithm flags generate uses.",
	Args: cobra.MinimumNArgs(1),
	RunE: runApply,
}

func registerApplyFlags(cmd *cobra.Command) {
	registerLUTAlgorithmFlags(cmd)

	f := cmd.Flags()
	f.StringVar(&applyFlags.haldCLUT, "hald-clut", "", "path to an existing Hald-CLUT PNG, instead of building one from algorithm flags")
	f.StringVar(&applyFlags.dir, "dir", "", "output directory for corrected images (default: alongside each input)")
	f.StringVarP(&applyFlags.output, "output", "o", "", "output path; only valid for a single input")

	cmd.MarkFlagsMutuallyExclusive("hald-clut", "gaussian-rbf")
	cmd.MarkFlagsMutuallyExclusive("hald-clut", "shepards-method")
	cmd.MarkFlagsMutuallyExclusive("hald-clut", "gaussian-sampling")
	cmd.MarkFlagsMutuallyExclusive("hald-clut", "nearest-neighbor")
}

func runApply(cmd *cobra.Command, args []string) error {
	lutImg, level, err := resolveLUT(applyFlags.haldCLUT)
	if err != nil {
		return err
	}

	for _, path := range args {
		if err := applyToPath(cmd, lutImg, level, path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// loadLUT reads an existing Hald-CLUT PNG from disk and recovers its level.
func loadLUT(path string) (*hald.Image, int, error) {
	decoded, err := imageio.Decode(path)
	if err != nil {
		return nil, 0, fmt.Errorf("loading lut %s: %w", path, err)
	}
	lutImg, err := hald.FromImage(decoded)
	if err != nil {
		return nil, 0, err
	}
	level, err := hald.DetectLevel(lutImg.Side)
	if err != nil {
		return nil, 0, err
	}
	return lutImg, level, nil
}

// resolveLUT loads haldCLUTPath if given, otherwise builds a LUT inline
// from the shared algorithm flags (reading/writing the cache the same
// way generate does), matching the apply/patch CLI contract: --hald-clut
// is mutually exclusive with the algorithm selector.
func resolveLUT(haldCLUTPath string) (*hald.Image, int, error) {
	if haldCLUTPath != "" {
		return loadLUT(haldCLUTPath)
	}

	colors, err := resolveColors(genFlags.palette)
	if err != nil {
		return nil, 0, err
	}
	img, err := loadOrGenerateLUT(colors)
	if err != nil {
		return nil, 0, err
	}
	return img, genFlags.level, nil
}

func applyToPath(cmd *cobra.Command, lutImg *hald.Image, level int, path string) error {
	isGIF, err := imageio.IsGIF(path)
	if err != nil {
		return err
	}

	out := outputPath(path, applyFlags.dir)
	if applyFlags.output != "" {
		out = applyFlags.output
	}

	if isGIF {
		return applyGIF(cmd, lutImg, level, path, out)
	}

	src, err := imageio.Decode(path)
	if err != nil {
		return err
	}
	corrected, err := apply.CorrectImage(lutImg, level, src)
	if err != nil {
		return err
	}
	if err := imageio.EncodeByExtension(out, corrected); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}

func applyGIF(cmd *cobra.Command, lutImg *hald.Image, level int, path, out string) error {
	g, err := imageio.DecodeGIF(path)
	if err != nil {
		return err
	}

	corrected := &gif.GIF{
		Image:     make([]*image.Paletted, len(g.Image)),
		Delay:     g.Delay,
		LoopCount: g.LoopCount,
		Disposal:  g.Disposal,
		Config:    g.Config,
	}
	for i, frame := range g.Image {
		correctedFrame, err := apply.CorrectImage(lutImg, level, frame)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		corrected.Image[i] = quantizeFrame(correctedFrame, frame.Palette)
	}

	if err := imageio.EncodeGIF(out, corrected); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}

// outputPath derives a default output path for one apply input: alongside
// the input with a "-corrected" suffix, or under dir if given.
func outputPath(path, dir string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	name := base + "-corrected" + ext
	if dir == "" {
		return filepath.Join(filepath.Dir(path), name)
	}
	return filepath.Join(dir, name)
}

// quantizeFrame re-indexes a corrected RGBA frame against a GIF frame's
// original palette, since image/gif only encodes paletted images.
func quantizeFrame(src *image.RGBA, palette color.Palette) *image.Paletted {
	bounds := src.Bounds()
	out := image.NewPaletted(bounds, palette)
	draw.Draw(out, bounds, src, bounds.Min, draw.Src)
	return out
}
