package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lutgen-go/lutgen/internal/catalog"
)

var paletteCmd = &cobra.Command{
	Use:   "palette [name...]",
	Short: "List and inspect built-in and custom palettes",
	Long:  "Without a subcommand, prints the colors of each named palette given as an argument.",
	Args:  cobra.ArbitraryArgs,
	RunE:  runPaletteShow,
}

var paletteNamesCmd = &cobra.Command{
	Use:   "names",
	Short: "List every built-in palette name",
	Args:  cobra.NoArgs,
	RunE:  runPaletteNames,
}

var paletteAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Print every built-in palette's name and colors",
	Args:  cobra.NoArgs,
	RunE:  runPaletteAll,
}

func init() {
	paletteCmd.AddCommand(paletteNamesCmd)
	paletteCmd.AddCommand(paletteAllCmd)
}

func runPaletteNames(cmd *cobra.Command, args []string) error {
	names, err := catalog.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func runPaletteAll(cmd *cobra.Command, args []string) error {
	names, err := catalog.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := printPalette(cmd, name); err != nil {
			return err
		}
	}
	return nil
}

func runPaletteShow(cmd *cobra.Command, args []string) error {
	for _, name := range args {
		if err := printPalette(cmd, name); err != nil {
			return err
		}
	}
	return nil
}

func printPalette(cmd *cobra.Command, name string) error {
	colors, err := catalog.Load(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", name)
	for _, c := range colors {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", c.Hex())
	}
	return nil
}
