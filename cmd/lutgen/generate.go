package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lutgen-go/lutgen/internal/cache"
	"github.com/lutgen-go/lutgen/internal/catalog"
	lutcolor "github.com/lutgen-go/lutgen/internal/color"
	"github.com/lutgen-go/lutgen/internal/hald"
	"github.com/lutgen-go/lutgen/internal/imageio"
	"github.com/lutgen-go/lutgen/internal/lutgendir"
	"github.com/lutgen-go/lutgen/internal/lutgenerr"
	"github.com/lutgen-go/lutgen/internal/lutengine"
	"github.com/lutgen-go/lutgen/internal/palette"
	"github.com/lutgen-go/lutgen/internal/remap"
)

// generateFlags holds the algorithm selector as a mutually exclusive
// group of booleans, mirroring a CLI with a closed set of variants:
// exactly one of gaussianRBF/shepards/gaussianSampling/nearestNeighbor
// may be set, and gaussian-blur (radius) is the default when none are.
type generateFlags struct {
	palette   []string
	level     int
	lumFactor float64
	preserve  bool
	output    string
	cacheOn   bool

	gaussianRBF      bool
	shape            float64
	shepardsMethod   bool
	power            float64
	nearest          int
	gaussianSampling bool
	mean             float64
	stdDev           float64
	iterations       int
	seed             uint64
	nearestNeighbor  bool
	radius           float64
}

var genFlags generateFlags

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a Hald-CLUT from a palette",
	Long: "Generate a Hald-CLUT that remaps the full sRGB cube onto a palette built from the " +
		"given named palettes and/or hex colors.",
	RunE: runGenerate,
}

func registerGenerateFlags(cmd *cobra.Command) {
	registerLUTAlgorithmFlags(cmd)
	cmd.Flags().StringVarP(&genFlags.output, "output", "o", "", "output PNG path (default derived from the algorithm name)")
}

// registerLUTAlgorithmFlags registers the flag set shared by generate,
// apply, and patch: the palette, level/lum/preserve/cache knobs, and the
// mutually exclusive algorithm selector (gaussian-rbf, shepards-method,
// gaussian-sampling, nearest-neighbor, or the gaussian-blur default).
func registerLUTAlgorithmFlags(cmd *cobra.Command) {
	defaults := loadDefaults()

	level := 10
	if defaults.IsSet("level") {
		level = int(defaults.Level)
	}
	lum := 1.0
	if defaults.IsSet("lum") {
		lum = defaults.LumFactor
	}
	preserve := false
	if defaults.IsSet("preserve") {
		preserve = defaults.Preserve
	}
	shape := 128.0
	if defaults.IsSet("shape") {
		shape = defaults.Shape
	}
	power := 4.0
	if defaults.IsSet("power") {
		power = defaults.Power
	}
	nearest := 16
	if defaults.IsSet("nearest") {
		nearest = int(defaults.Nearest)
	}
	cacheOn := false
	if defaults.IsSet("cache") {
		cacheOn = defaults.Cache
	}

	// A defaults.algorithm entry picks which boolean defaults to true;
	// it never forces the flag since the user's own booleans still win.
	var (
		defaultGaussianRBF, defaultShepards, defaultGaussianSampling, defaultNearestNeighbor bool
	)
	if defaults.IsSet("algorithm") {
		switch defaults.Algorithm {
		case "gaussian-rbf":
			defaultGaussianRBF = true
		case "shepards-method":
			defaultShepards = true
		case "gaussian-sampling":
			defaultGaussianSampling = true
		case "nearest-neighbor":
			defaultNearestNeighbor = true
		}
	}

	f := cmd.Flags()
	f.StringArrayVar(&genFlags.palette, "palette", nil, "named palette or hex color to include (repeatable)")
	f.IntVarP(&genFlags.level, "level", "l", level, "LUT level, determines grid resolution (2-16)")
	f.Float64Var(&genFlags.lumFactor, "lum", lum, "luminance weighting applied before distance comparisons")
	f.BoolVar(&genFlags.preserve, "preserve", preserve, "preserve the original luminance of each cell")
	f.BoolVar(&genFlags.cacheOn, "cache", cacheOn, "read/write the on-disk LUT cache")

	f.BoolVar(&genFlags.gaussianRBF, "gaussian-rbf", defaultGaussianRBF, "use the Gaussian RBF remapper")
	f.Float64Var(&genFlags.shape, "shape", shape, "gaussian-rbf: RBF shape parameter")

	f.BoolVar(&genFlags.shepardsMethod, "shepards-method", defaultShepards, "use Shepard's inverse-distance remapper")
	f.Float64Var(&genFlags.power, "power", power, "shepards-method: inverse-distance power")

	f.IntVar(&genFlags.nearest, "nearest", nearest, "gaussian-rbf/shepards-method: limit blend to the n nearest palette colors (0 = whole palette)")

	f.BoolVar(&genFlags.gaussianSampling, "gaussian-sampling", defaultGaussianSampling, "use the Gaussian sampling remapper")
	f.Float64Var(&genFlags.mean, "mean", 0.0, "gaussian-sampling: noise mean")
	f.Float64Var(&genFlags.stdDev, "std-dev", 20.0, "gaussian-sampling: noise standard deviation")
	f.IntVar(&genFlags.iterations, "iterations", 512, "gaussian-sampling: samples averaged per cell")
	f.Uint64Var(&genFlags.seed, "seed", 42080085, "gaussian-sampling: base RNG seed")

	f.BoolVar(&genFlags.nearestNeighbor, "nearest-neighbor", defaultNearestNeighbor, "use the plain nearest-neighbor remapper")

	f.Float64Var(&genFlags.radius, "radius", 1.5, "gaussian-blur (default): blur radius in grid cells")

	cmd.MarkFlagsMutuallyExclusive("gaussian-rbf", "shepards-method", "gaussian-sampling", "nearest-neighbor")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	colors, err := resolveColors(genFlags.palette)
	if err != nil {
		return err
	}

	img, err := loadOrGenerateLUT(colors)
	if err != nil {
		return err
	}

	output := genFlags.output
	if output == "" {
		output = fmt.Sprintf("%s.png", algorithmName())
	}
	if err := imageio.EncodePNG(output, img.ToRGBA()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (level %d, %d colors)\n", output, genFlags.level, len(colors))
	return nil
}

// loadOrGenerateLUT serves a cache hit for colors/genFlags if --cache is
// set and one exists, otherwise generates a fresh LUT and, if --cache is
// set, saves it for next time.
func loadOrGenerateLUT(colors []lutcolor.Color) (*hald.Image, error) {
	key := buildCacheKey(colors)

	if genFlags.cacheOn {
		if dir, err := lutgendir.CacheDir(); err == nil {
			if cached, ok := cache.Get(dir, key); ok {
				return cached, nil
			}
		}
	}

	img, err := generateLUT(colors)
	if err != nil {
		return nil, err
	}
	if genFlags.cacheOn {
		if dir, err := lutgendir.CacheDir(); err == nil {
			_ = cache.Put(dir, key, img)
		}
	}
	return img, nil
}

func algorithmName() string {
	switch {
	case genFlags.gaussianRBF:
		return "gaussian-rbf"
	case genFlags.shepardsMethod:
		return "shepards-method"
	case genFlags.gaussianSampling:
		return "gaussian-sampling"
	case genFlags.nearestNeighbor:
		return "nearest-neighbor"
	default:
		return "gaussian-blur"
	}
}

// resolveColors turns each --palette token into one or more colors: a
// token that parses as a hex literal is used directly, otherwise it is
// looked up as a named palette.
func resolveColors(tokens []string) ([]lutcolor.Color, error) {
	var colors []lutcolor.Color
	for _, tok := range tokens {
		if c, _, err := lutcolor.ParseHex(tok); err == nil {
			colors = append(colors, c)
			continue
		}
		loaded, err := catalog.Load(tok)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", tok, err)
		}
		colors = append(colors, loaded...)
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("%w: --palette must be given at least once", lutgenerr.ErrInvalidParameter)
	}
	return colors, nil
}

func generateLUT(colors []lutcolor.Color) (*hald.Image, error) {
	p, err := palette.Prepare(colors, float32(genFlags.lumFactor))
	if err != nil {
		return nil, err
	}

	if !genFlags.gaussianRBF && !genFlags.shepardsMethod && !genFlags.gaussianSampling && !genFlags.nearestNeighbor {
		identity, err := hald.Generate(genFlags.level)
		if err != nil {
			return nil, err
		}
		img, err := remap.GaussianBlurLUT(genFlags.level, p, float32(genFlags.radius))
		if err != nil {
			return nil, err
		}
		if genFlags.preserve {
			return lutengine.Preserve(identity, img)
		}
		return img, nil
	}

	r, err := buildRemapper(p)
	if err != nil {
		return nil, err
	}
	return lutengine.Generate(genFlags.level, r, genFlags.preserve)
}

func buildRemapper(p *palette.Prepared) (remap.Remapper, error) {
	switch {
	case genFlags.gaussianRBF:
		return remap.NewGaussianRBF(p, float32(genFlags.shape), genFlags.nearest)
	case genFlags.shepardsMethod:
		return remap.NewShepard(p, float32(genFlags.power), genFlags.nearest)
	case genFlags.gaussianSampling:
		return remap.NewGaussianSampling(p, float32(genFlags.mean), float32(genFlags.stdDev), genFlags.iterations, genFlags.seed)
	case genFlags.nearestNeighbor:
		return remap.NewNearestNeighbor(p), nil
	default:
		return nil, fmt.Errorf("%w: no remap algorithm selected", lutgenerr.ErrInvalidParameter)
	}
}

func buildCacheKey(colors []lutcolor.Color) cache.Key {
	params := []cache.Param{
		{Name: "level", Value: fmt.Sprint(genFlags.level)},
		{Name: "lum", Value: fmt.Sprint(genFlags.lumFactor)},
		{Name: "preserve", Value: fmt.Sprint(genFlags.preserve)},
	}
	switch {
	case genFlags.gaussianRBF:
		params = append(params, cache.Param{Name: "shape", Value: fmt.Sprint(genFlags.shape)},
			cache.Param{Name: "nearest", Value: fmt.Sprint(genFlags.nearest)})
	case genFlags.shepardsMethod:
		params = append(params, cache.Param{Name: "power", Value: fmt.Sprint(genFlags.power)},
			cache.Param{Name: "nearest", Value: fmt.Sprint(genFlags.nearest)})
	case genFlags.gaussianSampling:
		params = append(params,
			cache.Param{Name: "mean", Value: fmt.Sprint(genFlags.mean)},
			cache.Param{Name: "std-dev", Value: fmt.Sprint(genFlags.stdDev)},
			cache.Param{Name: "iterations", Value: fmt.Sprint(genFlags.iterations)},
			cache.Param{Name: "seed", Value: fmt.Sprint(genFlags.seed)})
	case genFlags.nearestNeighbor:
		// no extra parameters
	default:
		params = append(params, cache.Param{Name: "radius", Value: fmt.Sprint(genFlags.radius)})
	}
	return cache.Key{Palette: colors, Algorithm: algorithmName(), Params: params}
}
