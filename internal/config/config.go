// Package config loads the optional lutgen.hcl file that supplies CLI flag
// defaults. Adapted from the theme-file HCL loader this repository used to
// carry (single-block JustAttributes decoding, hclsyntax parse errors
// wrapped the same way); there is exactly one block here, "defaults", with
// no cross-block evaluation context, since none of its fields reference
// each other.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Defaults holds CLI flag defaults sourced from a config file. Fields the
// file leaves out keep their zero value, and IsSet reports which fields the
// file did set; callers seed cobra flag defaults from the hardcoded spec
// defaults first, then overlay these where IsSet reports true.
type Defaults struct {
	Level     uint8
	LumFactor float64
	Preserve  bool
	Algorithm string
	Shape     float64
	Power     float64
	Nearest   uint
	Cache     bool

	set map[string]bool
}

// IsSet reports whether the named field was present in the config file.
func (d *Defaults) IsSet(field string) bool {
	return d.set[field]
}

// Load reads and parses path. A missing file is not an error: Load returns
// a zero Defaults and a nil error, so absence of a config file is the
// common case, not a failure mode.
func Load(path string) (*Defaults, error) {
	src, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Defaults{set: map[string]bool{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	file, diags := hclsyntax.ParseConfig(src, path, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %s", path, diags.Error())
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("parsing %s: unexpected body type", path)
	}

	d := &Defaults{set: map[string]bool{}}
	for _, block := range body.Blocks {
		if block.Type != "defaults" {
			continue
		}
		if err := d.decodeBlock(block); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return d, nil
}

func (d *Defaults) decodeBlock(block *hclsyntax.Block) error {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("defaults block: %s", diags.Error())
	}

	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("evaluating defaults.%s: %s", name, diags.Error())
		}

		var err error
		switch name {
		case "level":
			var v int
			err = gocty.FromCtyValue(val, &v)
			d.Level = uint8(v)
		case "lum":
			err = gocty.FromCtyValue(val, &d.LumFactor)
		case "preserve":
			err = gocty.FromCtyValue(val, &d.Preserve)
		case "algorithm":
			err = gocty.FromCtyValue(val, &d.Algorithm)
		case "shape":
			err = gocty.FromCtyValue(val, &d.Shape)
		case "power":
			err = gocty.FromCtyValue(val, &d.Power)
		case "nearest":
			var v int
			err = gocty.FromCtyValue(val, &v)
			d.Nearest = uint(v)
		case "cache":
			err = gocty.FromCtyValue(val, &d.Cache)
		default:
			return fmt.Errorf("unknown defaults field %q", name)
		}
		if err != nil {
			return fmt.Errorf("defaults.%s: %w", name, err)
		}
		d.set[name] = true
	}
	return nil
}
