// Package catalog resolves a named palette to its colors, checking the
// user's custom palette directory before the built-in set embedded in
// this binary. Grounded on original_source's palette.rs
// (DynamicPalette::Builtin/Custom, checked in that precedence order) and
// its file grammar: whitespace-separated hex tokens, blank lines ignored,
// and '#'-prefixed lines treated as comments unless the '#' is
// immediately followed by a 3/6/8-digit hex color.
package catalog

import (
	"bufio"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lutgen-go/lutgen/internal/color"
	"github.com/lutgen-go/lutgen/internal/lutgendir"
	"github.com/lutgen-go/lutgen/internal/lutgenerr"
)

//go:embed data/*.txt
var builtin embed.FS

// Names returns every built-in palette name, sorted.
func Names() ([]string, error) {
	entries, err := builtin.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("listing built-in palettes: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
	}
	return names, nil
}

// Load resolves name to its colors. The custom palette directory
// (internal/lutgendir.Dir()) is checked first, case-insensitively, then
// the built-in catalog. ErrNotFound is returned if neither has it.
func Load(name string) ([]color.Color, error) {
	customDir, err := lutgendir.Dir()
	if err == nil {
		if colors, ok, err := loadFromDir(customDir, name); err != nil {
			return nil, err
		} else if ok {
			return colors, nil
		}
	}

	data, err := builtin.ReadFile(filepath.Join("data", strings.ToLower(name)+".txt"))
	if err != nil {
		return nil, fmt.Errorf("%w: palette %q", lutgenerr.ErrNotFound, name)
	}
	return parse(data)
}

// loadFromDir case-insensitively matches name against the stem of every
// file directly inside dir, returning ok=false (not an error) if dir
// doesn't exist or nothing matches.
func loadFromDir(dir, name string) ([]color.Color, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, false, nil
	}

	want := strings.ToLower(name)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if strings.ToLower(stem) != want {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, false, fmt.Errorf("reading custom palette %q: %w", e.Name(), err)
		}
		colors, err := parse(data)
		if err != nil {
			return nil, false, fmt.Errorf("parsing custom palette %q: %w", e.Name(), err)
		}
		return colors, true, nil
	}
	return nil, false, nil
}

// parse reads a palette file: whitespace-separated hex color tokens,
// blank lines skipped, and a '#'-led line treated as a comment only when
// it's not immediately followed by a 3/6/8-digit hex color (a palette
// entry like "#abc123" must not be swallowed as a comment).
func parse(data []byte) ([]color.Color, error) {
	var colors []color.Color
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") && !startsWithHexColor(line) {
			continue
		}
		for _, tok := range strings.Fields(line) {
			c, _, err := color.ParseHex(tok)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", lutgenerr.ErrInvalidParameter, err)
			}
			colors = append(colors, c)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading palette: %w", err)
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("%w: palette file has no colors", lutgenerr.ErrInvalidParameter)
	}
	return colors, nil
}

// startsWithHexColor reports whether line's first whitespace-delimited
// token is a bare 3/6/8-digit hex color immediately following '#'.
func startsWithHexColor(line string) bool {
	first := strings.Fields(line)[0]
	body := strings.TrimPrefix(first, "#")
	switch len(body) {
	case 3, 6, 8:
	default:
		return false
	}
	for _, r := range body {
		if !isHexDigit(r) {
			return false
		}
	}
	return true
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
