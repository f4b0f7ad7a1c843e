package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lutgen-go/lutgen/internal/config"
	"github.com/lutgen-go/lutgen/internal/lutgendir"
)

var version = "dev" // injected at build time via ldflags

var rootCmd = &cobra.Command{
	Use:     "lutgen",
	Short:   "Generate and apply Hald-CLUTs that remap images onto a fixed color palette",
	Version: version,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(paletteCmd)
	rootCmd.AddCommand(extractCmd)

	registerGenerateFlags(generateCmd)
	registerApplyFlags(applyCmd)
	registerPatchFlags(patchCmd)
	registerExtractFlags(extractCmd)
}

// loadDefaults reads lutgen.hcl from the user's lutgen directory. A
// missing file is not an error, so callers always get a usable
// (possibly all-zero) Defaults back.
func loadDefaults() *config.Defaults {
	dir, err := lutgendir.Dir()
	if err != nil {
		return &config.Defaults{}
	}
	d, err := config.Load(filepath.Join(dir, "lutgen.hcl"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: ignoring lutgen.hcl: %v\n", err)
		return &config.Defaults{}
	}
	return d
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
