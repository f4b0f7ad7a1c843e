package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lutgen-go/lutgen/internal/apply"
	lutcolor "github.com/lutgen-go/lutgen/internal/color"
	"github.com/lutgen-go/lutgen/internal/patch"
)

type patchFlagsT struct {
	haldCLUT string
	write    bool
	noPatch  bool
}

var patchFlags patchFlagsT

var patchCmd = &cobra.Command{
	Use:   "patch <file>...",
	Short: "Rewrite color literals in text files through a Hald-CLUT",
	Long: "Scans each file for hex and rgb()/rgba() color literals and remaps them through a Hald-CLUT " +
		"(loaded from --hald-clut or built inline from algorithm flags), printing a unified diff by default.",
	Args: cobra.MinimumNArgs(1),
	RunE: runPatch,
}

func registerPatchFlags(cmd *cobra.Command) {
	registerLUTAlgorithmFlags(cmd)

	f := cmd.Flags()
	f.StringVar(&patchFlags.haldCLUT, "hald-clut", "", "path to an existing Hald-CLUT PNG, instead of building one from algorithm flags")
	f.BoolVarP(&patchFlags.write, "write", "w", false, "apply the patch in place")
	f.BoolVar(&patchFlags.noPatch, "no-patch", false, "suppress the printed diff (useful with --write)")

	cmd.MarkFlagsMutuallyExclusive("hald-clut", "gaussian-rbf")
	cmd.MarkFlagsMutuallyExclusive("hald-clut", "shepards-method")
	cmd.MarkFlagsMutuallyExclusive("hald-clut", "gaussian-sampling")
	cmd.MarkFlagsMutuallyExclusive("hald-clut", "nearest-neighbor")
}

func runPatch(cmd *cobra.Command, args []string) error {
	lutImg, level, err := resolveLUT(patchFlags.haldCLUT)
	if err != nil {
		return err
	}

	remapFn := func(c lutcolor.Color) lutcolor.Color {
		return apply.CorrectPixel(lutImg, level, c)
	}

	var failures []error
	for _, path := range args {
		if err := patchFile(cmd, path, remapFn); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			failures = append(failures, err)
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("patch failed for %d file(s)", len(failures))
	}
	return nil
}

func patchFile(cmd *cobra.Command, path string, remapFn patch.RemapFunc) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading: %w", err)
	}

	result := patch.Patch(string(content), remapFn)
	if result.Matches == 0 {
		return nil
	}

	if patchFlags.write {
		if err := os.WriteFile(path, []byte(result.Patched), 0o644); err != nil {
			return fmt.Errorf("writing: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: patched %d color(s)\n", path, result.Matches)
	}

	if patchFlags.noPatch {
		return nil
	}
	diff := patch.UnifiedDiff(path, string(content), result.Patched)
	fmt.Fprint(cmd.OutOrStdout(), diff)
	return nil
}
