package layout

import (
	"fmt"
	"regexp"

	zmkerrors "github.com/CaddyGlow/zmk-layout/core/errors"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsValidIdentifier reports whether name is a valid C identifier.
func IsValidIdentifier(name string) bool {
	return identifierRe.MatchString(name)
}

// Rules carries the keyboard-specific constraints a ConfigurationProvider
// supplies: physical key count, layer ceiling, and the set of built-in
// behavior roots the document may reference without defining them itself.
type Rules struct {
	KeyCount         int
	MaxLayers        int
	AllowedBehaviors map[string]bool
	// KeyPositions, when non-empty, is the exact set of valid physical key
	// position indices; it replaces the [0,KeyCount) range check below for
	// boards whose position numbering has gaps.
	KeyPositions []int
}

// Validate checks every invariant from §3.4 and returns every violation it
// finds rather than stopping at the first one, so a caller can report them
// all at once.
func (d *Document) Validate(rules Rules) zmkerrors.List {
	var errs zmkerrors.List

	if len(d.LayerNames) != len(d.Layers) {
		errs = append(errs, zmkerrors.New(zmkerrors.Validate,
			fmt.Sprintf("layerNames has %d entries but layers has %d", len(d.LayerNames), len(d.Layers))))
	}

	seenNames := map[string]bool{}
	for i, name := range d.LayerNames {
		if name == "" {
			errs = append(errs, zmkerrors.New(zmkerrors.Validate, fmt.Sprintf("layer %d has an empty name", i)))
			continue
		}
		if !IsValidIdentifier(name) {
			errs = append(errs, zmkerrors.New(zmkerrors.InvalidIdentifier,
				fmt.Sprintf("layer name %q is not a valid C identifier", name)))
		}
		if seenNames[name] {
			errs = append(errs, zmkerrors.New(zmkerrors.Validate, fmt.Sprintf("duplicate layer name %q", name)))
		}
		seenNames[name] = true
	}
	if rules.MaxLayers > 0 && len(d.Layers) > rules.MaxLayers {
		errs = append(errs, zmkerrors.New(zmkerrors.Validate,
			fmt.Sprintf("document has %d layers, exceeding the configured maximum of %d", len(d.Layers), rules.MaxLayers)))
	}

	userBehaviors := d.definedBehaviorNames()
	for li, layer := range d.Layers {
		for bi, b := range layer {
			if len(b.Value) == 0 || b.Value[0] != '&' {
				errs = append(errs, zmkerrors.New(zmkerrors.Validate,
					fmt.Sprintf("layer %d binding %d (%q) does not start with '&'", li, bi, b.Value)))
				continue
			}
			root := b.Value[1:]
			if !rules.AllowedBehaviors[root] && !userBehaviors[root] {
				errs = append(errs, zmkerrors.New(zmkerrors.Validate,
					fmt.Sprintf("layer %d binding %d references unknown behavior %q", li, bi, b.Value)))
			}
		}
	}

	var validPositions map[int]bool
	if len(rules.KeyPositions) > 0 {
		validPositions = make(map[int]bool, len(rules.KeyPositions))
		for _, p := range rules.KeyPositions {
			validPositions[p] = true
		}
	}
	for _, c := range d.Combos {
		for _, pos := range c.KeyPositions {
			if validPositions != nil {
				if !validPositions[pos] {
					errs = append(errs, zmkerrors.New(zmkerrors.Validate,
						fmt.Sprintf("combo %q key position %d is not one of the board's valid key positions", c.Name, pos)))
				}
				continue
			}
			if rules.KeyCount > 0 && (pos < 0 || pos >= rules.KeyCount) {
				errs = append(errs, zmkerrors.New(zmkerrors.Validate,
					fmt.Sprintf("combo %q key position %d is out of range [0,%d)", c.Name, pos, rules.KeyCount)))
			}
		}
		for _, li := range c.Layers {
			if li < 0 || li >= len(d.LayerNames) {
				errs = append(errs, zmkerrors.New(zmkerrors.Validate,
					fmt.Sprintf("combo %q layer index %d is out of range [0,%d)", c.Name, li, len(d.LayerNames))))
			}
		}
	}

	for _, h := range d.HoldTaps {
		if len(h.Bindings) != 2 {
			errs = append(errs, zmkerrors.New(zmkerrors.Validate,
				fmt.Sprintf("hold-tap %q must have exactly 2 bindings, has %d", h.Name, len(h.Bindings))))
		}
	}
	for _, m := range d.ModMorphs {
		if len(m.Bindings) != 2 {
			errs = append(errs, zmkerrors.New(zmkerrors.Validate,
				fmt.Sprintf("mod-morph %q must have exactly 2 bindings, has %d", m.Name, len(m.Bindings))))
		}
	}
	for _, td := range d.TapDances {
		if len(td.Bindings) < 2 || len(td.Bindings) > 5 {
			errs = append(errs, zmkerrors.New(zmkerrors.Validate,
				fmt.Sprintf("tap-dance %q must have 2-5 bindings, has %d", td.Name, len(td.Bindings))))
		}
	}

	return errs
}

// definedBehaviorNames collects the names of every behavior the document
// defines itself, which bindings are allowed to reference in addition to
// the provider's built-ins.
func (d *Document) definedBehaviorNames() map[string]bool {
	names := map[string]bool{}
	for _, h := range d.HoldTaps {
		names[h.Name] = true
	}
	for _, m := range d.Macros {
		names[m.Name] = true
	}
	for _, td := range d.TapDances {
		names[td.Name] = true
	}
	for _, s := range d.StickyKeys {
		names[s.Name] = true
	}
	for _, m := range d.ModMorphs {
		names[m.Name] = true
	}
	for _, c := range d.CapsWords {
		names[c.Name] = true
	}
	return names
}
