package main

import (
	"fmt"

	"github.com/spf13/cobra"

	lutcolor "github.com/lutgen-go/lutgen/internal/color"
	"github.com/lutgen-go/lutgen/internal/imageio"
	"github.com/lutgen-go/lutgen/internal/quantize"
)

type extractFlagsT struct {
	colorCount int
	output     string
}

var extractFlags extractFlagsT

var extractCmd = &cobra.Command{
	Use:   "extract <image>",
	Short: "Quantize an image down to a palette and generate a LUT from it",
	Long: "Reduces an image's colors to at most --color-count colors via median-cut quantization, " +
		"then generates a Hald-CLUT from the extracted palette using the same algorithm flags as generate.",
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func registerExtractFlags(cmd *cobra.Command) {
	registerLUTAlgorithmFlags(cmd)

	f := cmd.Flags()
	f.IntVar(&extractFlags.colorCount, "color-count", 16, "maximum number of colors to extract")
	f.StringVarP(&extractFlags.output, "output", "o", "", "output PNG path (default derived from the algorithm name)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	src, err := imageio.Decode(args[0])
	if err != nil {
		return err
	}

	q := quantize.MedianCut{}
	extracted, err := q.Quantize(src, extractFlags.colorCount)
	if err != nil {
		return err
	}

	colors := dedupColors(extracted)
	for _, c := range colors {
		fmt.Fprintln(cmd.OutOrStdout(), c.Hex())
	}

	img, err := loadOrGenerateLUT(colors)
	if err != nil {
		return err
	}

	output := extractFlags.output
	if output == "" {
		output = fmt.Sprintf("%s.png", algorithmName())
	}
	if err := imageio.EncodePNG(output, img.ToRGBA()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d colors)\n", output, len(colors))
	return nil
}

// dedupColors mirrors original_source's HashSet<[u8;3]> accumulation:
// the extracted palette is deduped before being handed to LUT generation.
func dedupColors(colors []lutcolor.Color) []lutcolor.Color {
	seen := make(map[lutcolor.Color]bool, len(colors))
	out := make([]lutcolor.Color, 0, len(colors))
	for _, c := range colors {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
